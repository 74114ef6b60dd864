package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() VehicleSpec {
	return VehicleSpec{
		Name: "TestCar",
		Stats: Stats{
			Mass:              1200,
			MinRPM:            1000,
			MaxRPM:            8000,
			TorqueSamples:     []float64{300, 310, 320},
			PowerSamples:      []float64{100, 200, 300},
			SamplingStart:     1000,
			SamplingPrecision: 1000,
		},
		Geometry: Geometry{Wheelbase: 2.5},
		Wheels: Wheels{
			Radius:          0.3,
			StaticFriction:  0.9,
			MaxTurningAngle: 30,
		},
		Transmission:          []float64{0, 3.5, 2.5},
		TransmissionBase:      4.1,
		TransmissionShiftTime: 0.5,
	}
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, validSpec().Validate())
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*VehicleSpec)
		wantErr string
	}{
		{
			name:    "no torque samples",
			mutate:  func(s *VehicleSpec) { s.Stats.TorqueSamples = nil },
			wantErr: "no torque samples",
		},
		{
			name:    "sample count mismatch",
			mutate:  func(s *VehicleSpec) { s.Stats.PowerSamples = s.Stats.PowerSamples[:1] },
			wantErr: "inconsistent amount of torque and power samples",
		},
		{
			name:    "zero sampling precision",
			mutate:  func(s *VehicleSpec) { s.Stats.SamplingPrecision = 0 },
			wantErr: "sampling_precision must be positive",
		},
		{
			name:    "zero mass",
			mutate:  func(s *VehicleSpec) { s.Stats.Mass = 0 },
			wantErr: "mass must be positive",
		},
		{
			name:    "max rpm below min rpm",
			mutate:  func(s *VehicleSpec) { s.Stats.MaxRPM = 500 },
			wantErr: "max_rpm must be positive and above min_rpm",
		},
		{
			name:    "zero wheel radius",
			mutate:  func(s *VehicleSpec) { s.Wheels.Radius = 0 },
			wantErr: "wheel radius must be positive",
		},
		{
			name:    "zero wheelbase",
			mutate:  func(s *VehicleSpec) { s.Geometry.Wheelbase = 0 },
			wantErr: "wheelbase must be positive",
		},
		{
			name:    "neutral only transmission",
			mutate:  func(s *VehicleSpec) { s.Transmission = []float64{0} },
			wantErr: "transmission needs at least one driving gear",
		},
		{
			name:    "zero gear ratio",
			mutate:  func(s *VehicleSpec) { s.Transmission = []float64{0, 3.5, 0} },
			wantErr: "gear ratio 2 is zero",
		},
		{
			name:    "zero final drive",
			mutate:  func(s *VehicleSpec) { s.TransmissionBase = 0 },
			wantErr: "transmission_base must be non-zero",
		},
		{
			name:    "negative shift time",
			mutate:  func(s *VehicleSpec) { s.TransmissionShiftTime = -1 },
			wantErr: "transmission_shift_time must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(&spec)

			err := spec.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, "TestCar", cfgErr.Vehicle)
		})
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &ConfigError{Vehicle: "McLaren F1", Reason: "no torque samples"}
	assert.Equal(t, `vehicle "McLaren F1": no torque samples`, err.Error())
}

func TestValidate_UnnamedSpecUsesPlaceholder(t *testing.T) {
	spec := validSpec()
	spec.Name = ""
	spec.Stats.Mass = 0

	err := spec.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `vehicle "unknown"`)
}
