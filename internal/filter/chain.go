package filter

import "github.com/san-kum/ctrlkit/internal/clock"

// Chain feeds each stage's output into the next, all with the same dt. An
// empty chain passes values through.
type Chain struct {
	stages []Filter
	output float64
	delta  *clock.Delta
}

func NewChain(stages []Filter, opts ...Option) *Chain {
	return &Chain{stages: stages, delta: newDelta(opts)}
}

func (c *Chain) Len() int { return len(c.stages) }

// Stage returns the i-th filter of the chain.
func (c *Chain) Stage(i int) Filter { return c.stages[i] }

func (c *Chain) Calculate(value float64) float64 {
	return c.CalculateDt(value, c.delta.Seconds())
}

func (c *Chain) CalculateDt(value, dt float64) float64 {
	for _, f := range c.stages {
		value = f.CalculateDt(value, dt)
	}
	c.output = value
	return value
}

func (c *Chain) Reset() {
	for _, f := range c.stages {
		f.Reset()
	}
	c.output = 0
}

func (c *Chain) Output() float64 { return c.output }
