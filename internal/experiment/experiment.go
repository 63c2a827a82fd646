// Package experiment turns a config.Config into a runnable closed loop.
package experiment

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/san-kum/ctrlkit/internal/config"
	"github.com/san-kum/ctrlkit/internal/control"
	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/plant"
	"github.com/san-kum/ctrlkit/internal/sim"
	"github.com/san-kum/ctrlkit/internal/storage"
	"github.com/san-kum/ctrlkit/internal/telemetry"
)

type Experiment struct {
	cfg       *config.Config
	info      plant.Info
	plant     plant.Plant
	pid       *control.PID
	feedback  *control.Feedback
	simulator *sim.Simulator
	trace     *telemetry.Trace
}

// New builds every part of the loop. The config is copied.
func New(cfg *config.Config, reg *Registry) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	p, info, err := reg.GetPlant(cfg.Plant)
	if err != nil {
		return nil, err
	}
	integ, err := reg.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	input, err := BuildChain(cfg.InputFilters)
	if err != nil {
		return nil, fmt.Errorf("input filters: %w", err)
	}
	output, err := BuildChain(cfg.OutputFilters)
	if err != nil {
		return nil, fmt.Errorf("output filters: %w", err)
	}

	pid := NewPID(cfg.PID)
	sensor := plant.NewSensor(info.Measured, cfg.Noise, uint64(cfg.Seed))
	fb := control.NewFeedback(pid, sensor, input, output)

	simulator := sim.New(p, integ, fb)
	for _, m := range reg.DefaultMetrics(p, cfg.PID.Setpoint) {
		simulator.AddMetric(m)
	}

	trace := telemetry.NewTrace()
	rec := telemetry.NewRecorder(trace)
	if glog.V(2) {
		rec.AddSink(telemetry.GlogSink{})
	}
	simulator.AddObserver(telemetry.NewPIDLogger(rec, cfg.Plant, pid))

	glog.V(1).Infof("experiment: %s with %s, %s, %d input and %d output filters",
		cfg.Plant, cfg.Integrator, pid.Gains(), len(cfg.InputFilters), len(cfg.OutputFilters))

	return &Experiment{
		cfg:       cfg,
		info:      info,
		plant:     p,
		pid:       pid,
		feedback:  fb,
		simulator: simulator,
		trace:     trace,
	}, nil
}

// NewPID builds a controller from its config section. Zero tolerances keep
// the defaults.
func NewPID(pc config.PIDConfig) *control.PID {
	pid := control.NewPID(control.Gains{KP: pc.Kp, KI: pc.Ki, KD: pc.Kd}, pc.Window, pc.Setpoint, pc.Angular)
	posTol, velTol := pid.PositionTolerance(), pid.VelocityTolerance()
	if pc.PosTol != 0 {
		posTol = pc.PosTol
	}
	if pc.VelTol != 0 {
		velTol = pc.VelTol
	}
	pid.SetTolerance(posTol, velTol)
	pid.SetMaxControlEffort(pc.MaxEffort)
	pid.SetMaxP(pc.MaxP)
	pid.SetMaxI(pc.MaxI)
	pid.SetMaxD(pc.MaxD)
	return pid
}

func (e *Experiment) Config() *config.Config      { return e.cfg }
func (e *Experiment) Plant() plant.Plant          { return e.plant }
func (e *Experiment) PlantInfo() plant.Info       { return e.info }
func (e *Experiment) PID() *control.PID           { return e.pid }
func (e *Experiment) Feedback() *control.Feedback { return e.feedback }
func (e *Experiment) Simulator() *sim.Simulator   { return e.simulator }
func (e *Experiment) Trace() *telemetry.Trace     { return e.trace }
func (e *Experiment) InitState() dynamo.State     { return e.cfg.GetInitState(e.plant.StateDim()) }

func (e *Experiment) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Jitter:        e.cfg.Jitter,
		Seed:          e.cfg.Seed,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	result, err := e.simulator.Run(ctx, e.InitState(), e.SimConfig())
	if err != nil {
		return result, err
	}
	for _, runErr := range result.Errors {
		glog.Warningf("experiment %s: %v", e.cfg.Plant, runErr)
	}
	return result, nil
}

// Metadata describes the experiment for storage.
func (e *Experiment) Metadata() storage.RunMetadata {
	filters := make([]string, 0, len(e.cfg.InputFilters)+len(e.cfg.OutputFilters))
	for _, f := range e.cfg.InputFilters {
		filters = append(filters, "input: "+f.String())
	}
	for _, f := range e.cfg.OutputFilters {
		filters = append(filters, "output: "+f.String())
	}

	return storage.RunMetadata{
		Plant:      e.cfg.Plant,
		Seed:       e.cfg.Seed,
		Dt:         e.cfg.Dt,
		Duration:   e.cfg.Duration,
		Jitter:     e.cfg.Jitter,
		Integrator: e.cfg.Integrator,
		Gains:      e.pid.Gains(),
		Setpoint:   e.pid.Setpoint(),
		Window:     e.cfg.PID.Window,
		Angular:    e.pid.Angular(),
		Filters:    filters,
	}
}

// Factory builds a fresh loop per seed for ensembles.
func Factory(cfg *config.Config, reg *Registry) sim.Factory {
	return func(seed int64) (*sim.Simulator, error) {
		c := cfg.Clone()
		c.Seed = seed
		e, err := New(c, reg)
		if err != nil {
			return nil, err
		}
		return e.Simulator(), nil
	}
}
