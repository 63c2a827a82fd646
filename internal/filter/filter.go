package filter

import "github.com/san-kum/ctrlkit/internal/clock"

// Filter is a causal scalar filter.
type Filter interface {
	// Calculate advances the filter using the time since the previous call
	// as dt.
	Calculate(value float64) float64

	// CalculateDt advances the filter by dt seconds and returns the new
	// output.
	CalculateDt(value, dt float64) float64

	// Reset clears accumulated state. Parameters are kept.
	Reset()

	// Output returns the most recent output without advancing the filter.
	Output() float64
}

type options struct {
	clock clock.Clock
}

// Option configures a filter at construction.
type Option func(*options)

// WithClock sets the time source used by Calculate.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

func newDelta(opts []Option) *clock.Delta {
	o := options{clock: clock.System{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return clock.NewDelta(o.clock)
}

var (
	_ Filter = (*Null)(nil)
	_ Filter = (*Integrating)(nil)
	_ Filter = (*Differentiating)(nil)
	_ Filter = (*MovingAverage)(nil)
	_ Filter = (*EMA)(nil)
	_ Filter = (*RateLimiter)(nil)
	_ Filter = (*Chain)(nil)
)
