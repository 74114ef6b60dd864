package worker

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/streetracer/sim/internal/worker"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

func statesRecordedCounter() metric.Int64Counter {
	counter, err := meter().Int64Counter("recorder.states_recorded")
	if err != nil {
		return noop.Int64Counter{}
	}
	return counter
}
