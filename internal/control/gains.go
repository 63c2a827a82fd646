package control

import (
	"fmt"
	"math"
)

const gainsEpsilon = 1e-4

// Gains are the proportional, integral and derivative constants of a PID.
type Gains struct {
	KP float64 `yaml:"kp" json:"kp"`
	KI float64 `yaml:"ki" json:"ki"`
	KD float64 `yaml:"kd" json:"kd"`
}

// Equal compares gains with a tolerance, so values that went through a
// setter and a getter still match.
func (g Gains) Equal(o Gains) bool {
	return math.Abs(g.KP-o.KP) < gainsEpsilon &&
		math.Abs(g.KI-o.KI) < gainsEpsilon &&
		math.Abs(g.KD-o.KD) < gainsEpsilon
}

func (g Gains) String() string {
	return fmt.Sprintf("gains: %g, %g, %g", g.KP, g.KI, g.KD)
}
