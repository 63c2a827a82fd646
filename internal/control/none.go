package control

import "github.com/san-kum/ctrlkit/internal/dynamo"

// None applies no control. It lets a plant run open loop through the same
// harness.
type None struct {
	dim int
}

func NewNone(dim int) *None {
	return &None{
		dim: dim,
	}
}

func (n *None) Compute(x dynamo.State, t float64) dynamo.Control {
	return make(dynamo.Control, n.dim)
}
