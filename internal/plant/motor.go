package plant

import (
	"fmt"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// Motor is a DC motor with a first-order speed response: at a constant
// voltage V the speed settles at Gain*V with time constant Tau.
type Motor struct {
	Gain float64
	Tau  float64
	// Load is a constant opposing speed, in the same units as Gain*V.
	Load float64
}

func NewMotor() *Motor {
	return &Motor{
		Gain: 2.0,
		Tau:  0.5,
	}
}

func (m *Motor) StateDim() int   { return 2 }
func (m *Motor) ControlDim() int { return 1 }

func (m *Motor) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	speed := x[1]
	volts := 0.0
	if len(u) > 0 {
		volts = u[0]
	}
	return dynamo.State{speed, (m.Gain*volts - m.Load - speed) / m.Tau}
}

func (m *Motor) GetParams() map[string]float64 {
	return map[string]float64{
		"gain": m.Gain,
		"tau":  m.Tau,
		"load": m.Load,
	}
}

func (m *Motor) SetParam(name string, value float64) error {
	switch name {
	case "gain":
		m.Gain = value
	case "tau":
		if value <= 0 {
			return fmt.Errorf("motor: %w: tau must be positive", dynamo.ErrInvalidConfig)
		}
		m.Tau = value
	case "load":
		m.Load = value
	default:
		return fmt.Errorf("motor: %w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
