package filter

import "github.com/san-kum/ctrlkit/internal/clock"

// Null passes its input through unchanged. It is the identity stage when
// composing filters.
type Null struct {
	output float64
	delta  *clock.Delta
}

func NewNull(opts ...Option) *Null {
	return &Null{delta: newDelta(opts)}
}

func (n *Null) Calculate(value float64) float64 {
	return n.CalculateDt(value, n.delta.Seconds())
}

func (n *Null) CalculateDt(value, dt float64) float64 {
	n.output = value
	return value
}

func (n *Null) Reset() { n.output = 0 }

func (n *Null) Output() float64 { return n.output }
