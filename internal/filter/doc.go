// Package filter provides causal scalar filters for shaping sensor signals
// before they reach a controller, and control efforts after they leave one.
//
// Every filter implements [Filter]:
//
//   - [Null]: pass-through
//   - [Integrating]: trapezoidal integral, optionally over a moving window
//   - [Differentiating]: first difference over dt
//   - [MovingAverage]: arithmetic or geometric mean of recent inputs
//   - [EMA]: exponential moving average
//   - [RateLimiter]: bounds the change of the output per second
//   - [Chain]: runs filters in sequence
//
// # Timing
//
// CalculateDt takes dt in seconds from the caller. Calculate measures dt
// itself as the time since the previous call (since construction for the
// first one), using the clock passed with [WithClock] or the system clock.
//
//	ema := filter.NewEMA(0.2)
//	smoothed := ema.CalculateDt(raw, 0.02)
//
// Filters are not safe for concurrent use.
package filter
