package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// durationSlack absorbs float drift when summing dt up to the run duration.
const durationSlack = 1e-9

type Simulator struct {
	plant      dynamo.System
	integrator dynamo.Integrator
	controller dynamo.Controller
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
}

func New(plant dynamo.System, integrator dynamo.Integrator, controller dynamo.Controller) *Simulator {
	return &Simulator{
		plant:      plant,
		integrator: integrator,
		controller: controller,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Controller() dynamo.Controller { return s.controller }
func (s *Simulator) Plant() dynamo.System          { return s.plant }

// Run steps the loop from x0 until cfg.Duration. A state that turns NaN or
// Inf stops the run early; the returned result then carries a *SimError in
// Errors and the samples up to that point. The error return is only for bad
// input and cancellation.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg dynamo.Config) (*dynamo.Result, error) {
	loop, err := s.Start(x0, cfg)
	if err != nil {
		return nil, err
	}

	result := &dynamo.Result{
		Samples: make([]dynamo.Sample, 0, int(cfg.Duration/cfg.Dt)+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	for loop.Time() < cfg.Duration-durationSlack {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		dt := math.Min(loop.NextDt(), cfg.Duration-loop.Time())
		sample, err := loop.Step(dt)
		result.Samples = append(result.Samples, sample)
		if err != nil {
			result.Errors = append(result.Errors, err)
			break
		}
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// Start validates the input and returns a loop positioned at t = 0 that the
// caller advances one tick at a time.
func (s *Simulator) Start(x0 dynamo.State, cfg dynamo.Config) (*Loop, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.plant.StateDim() {
		return nil, fmt.Errorf("sim: %w: initial state has %d components, plant wants %d",
			dynamo.ErrDimensionMismatch, len(x0), s.plant.StateDim())
	}
	seed := uint64(cfg.Seed)
	return &Loop{
		sim: s,
		cfg: cfg,
		x:   x0.Clone(),
		rng: rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)),
	}, nil
}

func validateConfig(cfg dynamo.Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("sim: %w: dt must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("sim: %w: duration must be positive, got %f", dynamo.ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Jitter < 0 || cfg.Jitter >= 1 {
		return fmt.Errorf("sim: %w: jitter must be in [0, 1), got %f", dynamo.ErrInvalidConfig, cfg.Jitter)
	}
	return nil
}

// Loop is a running closed loop.
type Loop struct {
	sim  *Simulator
	cfg  dynamo.Config
	x    dynamo.State
	t    float64
	tick int
	rng  *rand.Rand
}

func (l *Loop) State() dynamo.State { return l.x.Clone() }
func (l *Loop) Time() float64       { return l.t }
func (l *Loop) Ticks() int          { return l.tick }

// NextDt draws the next tick length: cfg.Dt scaled by a uniform factor in
// [1-Jitter, 1+Jitter].
func (l *Loop) NextDt() float64 {
	if l.cfg.Jitter == 0 {
		return l.cfg.Dt
	}
	return l.cfg.Dt * (1 + l.cfg.Jitter*(2*l.rng.Float64()-1))
}

// Step runs the controller at the current time, feeds metrics and observers,
// and integrates the plant over dt. The returned sample describes the state
// before the step.
func (l *Loop) Step(dt float64) (dynamo.Sample, error) {
	s := l.sim
	u := s.controller.Compute(l.x, l.t)

	sample := dynamo.Sample{
		Time:    l.t,
		Dt:      dt,
		State:   l.x.Clone(),
		Control: u,
	}
	if tr, ok := s.controller.(dynamo.Tracker); ok {
		sample.Measurement = tr.Measurement()
		sample.Setpoint = tr.Setpoint()
		sample.Error = tr.Error()
		sample.P, sample.I, sample.D = tr.Terms()
	}

	for _, m := range s.metrics {
		m.Observe(sample)
	}
	for _, obs := range s.observers {
		obs.OnStep(sample)
	}

	next := s.integrator.Step(s.plant, l.x, u, l.t, dt)
	if l.cfg.ValidateState && !next.IsValid() {
		return sample, &dynamo.SimError{Step: l.tick, Time: l.t, Wrapped: dynamo.ErrInvalidState}
	}

	l.x = next
	l.t += dt
	l.tick++
	return sample, nil
}

// ObserverFunc adapts a function to dynamo.Observer.
type ObserverFunc func(s dynamo.Sample)

func (f ObserverFunc) OnStep(s dynamo.Sample) { f(s) }
