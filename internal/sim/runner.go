// Package sim runs the fixed-timestep simulation loop: one vehicle,
// a scripted driver and a state channel feeding the recorder.
package sim

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/streetracer/sim/internal/channel"
	"github.com/streetracer/sim/internal/config"
	"github.com/streetracer/sim/internal/meters"
	"github.com/streetracer/sim/internal/vehicle"
	"github.com/streetracer/sim/pkg/core"
)

// simClock derives snapshot timestamps from the tick counter instead of
// the wall clock, so two runs of the same script produce identical
// recordings.
type simClock struct {
	mu    sync.Mutex
	start time.Time
	tick  uint
	dt    float64
}

func newSimClock(start time.Time, tickRate float64) *simClock {
	return &simClock{start: start, dt: 1.0 / tickRate}
}

func (c *simClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.start.Add(time.Duration(float64(c.tick) * c.dt * float64(time.Second)))
}

func (c *simClock) Advance() {
	c.mu.Lock()
	c.tick++
	c.mu.Unlock()
}

// channelRecorder forwards state snapshots onto the recorder channel.
type channelRecorder struct {
	states channel.Channel[core.VehicleState]
}

func (r channelRecorder) RecordVehicleState(s *core.VehicleState) error {
	r.states.Send(*s)
	return nil
}

// Runner owns the simulation loop for a single session.
type Runner struct {
	cfg    config.SimConfig
	veh    *vehicle.Vehicle
	script *Script
	clock  *simClock
	states channel.Channel[core.VehicleState]
	logger *slog.Logger

	speed *meters.Meter
	tach  *meters.Meter
	gear  *meters.Meter
}

// NewRunner validates the spec, places the vehicle at spawn and prepares
// the scripted driver. An empty script defaults to holding full throttle
// for the whole session.
func NewRunner(cfg config.SimConfig, spec core.VehicleSpec, spawn core.Position2D, start time.Time, states channel.Channel[core.VehicleState], logger *slog.Logger) (*Runner, error) {
	clock := newSimClock(start, cfg.TickRate)

	veh, err := vehicle.New(1, spec, spawn, cfg.PixelsPerMetre,
		vehicle.WithClock(clock.Now),
		vehicle.WithRecorder(channelRecorder{states: states}),
	)
	if err != nil {
		return nil, err
	}

	script := NewScript(cfg.Script)
	if script.Empty() {
		script = NewScript([]core.ScriptSegment{
			{Duration: cfg.Duration.Seconds(), Accelerate: 1},
		})
	}

	return &Runner{
		cfg:    cfg,
		veh:    veh,
		script: script,
		clock:  clock,
		states: states,
		logger: logger,
		speed:  meters.Speedmeter(),
		tach:   meters.Tachometer(),
		gear:   meters.GearIndicator(),
	}, nil
}

// Vehicle returns the simulated vehicle.
func (r *Runner) Vehicle() *vehicle.Vehicle { return r.veh }

// Run advances the simulation until the session duration elapses or ctx
// is cancelled, then closes the state channel so the recorder can drain.
func (r *Runner) Run(ctx context.Context) error {
	defer r.states.Close()

	dt := 1.0 / r.cfg.TickRate
	duration := r.cfg.Duration.Seconds()
	if duration <= 0 {
		duration = r.script.TotalDuration()
	}
	totalTicks := uint(math.Ceil(duration * r.cfg.TickRate))
	ticksPerSecond := uint(math.Max(1, math.Round(r.cfg.TickRate)))

	var pacer *time.Ticker
	if r.cfg.Realtime {
		pacer = time.NewTicker(time.Duration(dt * float64(time.Second)))
		defer pacer.Stop()
	}

	r.logger.Info("Simulation starting",
		"vehicle", r.veh.Identity().Name,
		"tickRate", r.cfg.TickRate,
		"ticks", totalTicks,
		"realtime", r.cfg.Realtime)

	for tick := uint(0); tick < totalTicks; tick++ {
		select {
		case <-ctx.Done():
			r.logger.Warn("Simulation cancelled", "tick", tick)
			return ctx.Err()
		default:
		}

		input := r.script.At(float64(tick) * dt)
		r.veh.Accelerate(input.Accelerate)
		r.veh.Steer(input.Steer)
		r.veh.Handbrake(input.Handbrake)

		r.clock.Advance()
		r.veh.Update(dt)

		if tick%ticksPerSecond == 0 {
			r.logDashboard()
		}

		if pacer != nil {
			<-pacer.C
		}
	}

	state := r.veh.State()
	r.logger.Info("Simulation finished",
		"tick", state.Tick,
		"velocity", state.Velocity,
		"position", state.Position,
		"gear", state.Gear)
	return nil
}

// logDashboard emits the dashboard readings once per simulated second,
// skipping the log line when nothing changed.
func (r *Runner) logDashboard() {
	changed := r.speed.Set(int(math.Abs(r.veh.Velocity()) * 3.6))
	changed = r.tach.Set(int(r.veh.EngineRPM())) || changed
	changed = r.gear.Set(r.veh.Gear()) || changed
	if !changed {
		return
	}
	r.logger.Debug("Dashboard",
		"speed", r.speed.Text(),
		"rpm", r.tach.Text(),
		"gear", r.gear.Text())
}
