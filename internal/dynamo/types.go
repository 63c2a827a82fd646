package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

type Controller interface {
	Compute(x State, t float64) Control
}

// Tracker is implemented by controllers that follow a setpoint. The values
// describe the most recent Compute call.
type Tracker interface {
	Measurement() float64
	Setpoint() float64
	Error() float64
	Terms() (p, i, d float64)
}

// Sample is one tick of a closed-loop run.
type Sample struct {
	Time        float64
	Dt          float64
	State       State
	Control     Control
	Measurement float64
	Setpoint    float64
	Error       float64
	P, I, D     float64
}

// Effort returns the first control channel, or 0 for an uncontrolled plant.
func (s Sample) Effort() float64 {
	if len(s.Control) == 0 {
		return 0
	}
	return s.Control[0]
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	Jitter        float64 // fractional dt jitter, 0.1 means ±10%
	Seed          int64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.02,
		Duration:      10.0,
		ValidateState: true,
	}
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Series extracts one scalar per sample.
func (r *Result) Series(f func(Sample) float64) []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = f(s)
	}
	return out
}
