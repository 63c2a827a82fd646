package integrators

import (
	"fmt"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// Names lists the integrators New accepts.
var Names = []string{"euler", "semi_implicit_euler", "rk4"}

// New builds an integrator by name. An empty name means rk4.
func New(name string) (dynamo.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "semi_implicit_euler", "symplectic":
		return NewSemiImplicitEuler(), nil
	case "rk4", "":
		return NewRK4(), nil
	default:
		return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownIntegrator, name)
	}
}
