package filter

import (
	"github.com/san-kum/ctrlkit/internal/clock"
	"github.com/san-kum/ctrlkit/internal/history"
)

// Integrating approximates the integral of its input with the trapezoidal
// rule. With a positive window only the most recent window increments are
// summed, so old area expires; otherwise the integral runs forever in O(1)
// memory.
type Integrating struct {
	window   *history.History[float64]
	total    float64
	previous float64
	output   float64
	delta    *clock.Delta
}

func NewIntegrating(window int, opts ...Option) *Integrating {
	f := &Integrating{delta: newDelta(opts)}
	if window > 0 {
		f.window = history.New[float64](window)
	}
	return f
}

// Window returns the number of increments summed, or 0 for an infinite
// window.
func (f *Integrating) Window() int {
	if f.window == nil {
		return 0
	}
	return f.window.Cap()
}

func (f *Integrating) Calculate(value float64) float64 {
	return f.CalculateDt(value, f.delta.Seconds())
}

func (f *Integrating) CalculateDt(value, dt float64) float64 {
	increment := dt * 0.5 * (value + f.previous)
	f.previous = value

	if f.window == nil {
		f.total += increment
		f.output = f.total
		return f.output
	}

	f.window.Push(increment)
	f.output = history.Sum(f.window)
	return f.output
}

func (f *Integrating) Reset() {
	if f.window != nil {
		f.window.Clear()
	}
	f.total = 0
	f.previous = 0
	f.output = 0
}

func (f *Integrating) Output() float64 { return f.output }
