package metrics

import (
	"math"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// Stability is the fraction of ticks where the tracking error stayed within
// ±bound. A diverging loop drifts towards 0; a non-finite error counts as
// a violation.
type Stability struct {
	bound      float64
	violations int
	samples    int
}

func NewStability(bound float64) *Stability {
	return &Stability{bound: math.Abs(bound)}
}

// StabilityBound is the error bound used for a setpoint: its magnitude, or
// 1 for a zero setpoint, so a loop that overshoots by more than the whole
// step counts as unstable.
func StabilityBound(setpoint float64) float64 {
	return max(math.Abs(setpoint), 1)
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(sample dynamo.Sample) {
	s.samples++
	if !(math.Abs(sample.Error) <= s.bound) {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
