package plant

import (
	"fmt"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

const (
	DefaultMass      = 1.0
	DefaultStiffness = 10.0
	DefaultDamping   = 0.5
)

// SpringMass is a single damped mass on a spring pushed by an external force.
type SpringMass struct {
	Mass      float64
	Stiffness float64
	Damping   float64
}

func NewSpringMass() *SpringMass {
	return &SpringMass{
		Mass:      DefaultMass,
		Stiffness: DefaultStiffness,
		Damping:   DefaultDamping,
	}
}

func (s *SpringMass) StateDim() int   { return 2 }
func (s *SpringMass) ControlDim() int { return 1 }

func (s *SpringMass) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	pos, vel := x[0], x[1]
	force := 0.0
	if len(u) > 0 {
		force = u[0]
	}
	acc := (force - s.Stiffness*pos - s.Damping*vel) / s.Mass
	return dynamo.State{vel, acc}
}

func (s *SpringMass) Energy(x dynamo.State) float64 {
	return 0.5*s.Mass*x[1]*x[1] + 0.5*s.Stiffness*x[0]*x[0]
}

func (s *SpringMass) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":      s.Mass,
		"stiffness": s.Stiffness,
		"damping":   s.Damping,
	}
}

func (s *SpringMass) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		if value <= 0 {
			return fmt.Errorf("spring-mass: %w: mass must be positive", dynamo.ErrInvalidConfig)
		}
		s.Mass = value
	case "stiffness":
		s.Stiffness = value
	case "damping":
		s.Damping = value
	default:
		return fmt.Errorf("spring-mass: %w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
