package filter

import "github.com/san-kum/ctrlkit/internal/clock"

// EMA is an exponential moving average starting from 0. Alpha is usually in
// (0, 1] but is not range-checked.
type EMA struct {
	alpha  float64
	output float64
	delta  *clock.Delta
}

func NewEMA(alpha float64, opts ...Option) *EMA {
	return &EMA{alpha: alpha, delta: newDelta(opts)}
}

func (f *EMA) Alpha() float64 { return f.alpha }

func (f *EMA) SetAlpha(alpha float64) { f.alpha = alpha }

func (f *EMA) Calculate(value float64) float64 {
	return f.CalculateDt(value, f.delta.Seconds())
}

func (f *EMA) CalculateDt(value, dt float64) float64 {
	f.output = f.alpha*value + (1-f.alpha)*f.output
	return f.output
}

func (f *EMA) Reset() { f.output = 0 }

func (f *EMA) Output() float64 { return f.output }
