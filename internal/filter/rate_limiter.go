package filter

import (
	"github.com/san-kum/ctrlkit/internal/clock"
	"github.com/san-kum/ctrlkit/internal/mathutil"
)

// RateLimiter follows its input while changing by at most maxRate units per
// second.
type RateLimiter struct {
	maxRate float64
	output  float64
	delta   *clock.Delta
}

func NewRateLimiter(maxRate float64, opts ...Option) *RateLimiter {
	return &RateLimiter{maxRate: maxRate, delta: newDelta(opts)}
}

func (f *RateLimiter) MaxRate() float64 { return f.maxRate }

func (f *RateLimiter) SetMaxRate(maxRate float64) { f.maxRate = maxRate }

func (f *RateLimiter) Calculate(value float64) float64 {
	return f.CalculateDt(value, f.delta.Seconds())
}

func (f *RateLimiter) CalculateDt(value, dt float64) float64 {
	f.output += mathutil.Clamp(f.maxRate*dt, value-f.output)
	return f.output
}

func (f *RateLimiter) Reset() { f.output = 0 }

func (f *RateLimiter) Output() float64 { return f.output }
