package filter

import "github.com/san-kum/ctrlkit/internal/clock"

// Differentiating returns the rate of change of its input. A zero dt is
// treated as no observed change and yields 0.
type Differentiating struct {
	previous float64
	output   float64
	delta    *clock.Delta
}

func NewDifferentiating(opts ...Option) *Differentiating {
	return &Differentiating{delta: newDelta(opts)}
}

func (f *Differentiating) Calculate(value float64) float64 {
	return f.CalculateDt(value, f.delta.Seconds())
}

func (f *Differentiating) CalculateDt(value, dt float64) float64 {
	if dt == 0 {
		f.output = 0
	} else {
		f.output = (value - f.previous) / dt
	}
	f.previous = value
	return f.output
}

func (f *Differentiating) Reset() {
	f.previous = 0
	f.output = 0
}

func (f *Differentiating) Output() float64 { return f.output }
