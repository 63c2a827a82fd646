// Package mathutil holds the small numeric helpers shared by the controllers
// and filters: symmetric clamping, angle wrapping, batch means and scaling,
// and tolerance comparisons.
//
// None of these functions fail. Empty inputs produce neutral results and a
// zero target sum is special-cased instead of dividing by zero.
package mathutil

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultAbsoluteEpsilon   = 1e-5
	DefaultProportionEpsilon = 1e-3
)

// Clamp limits v to [-|maxAbs|, |maxAbs|].
func Clamp(maxAbs, v float64) float64 {
	m := math.Abs(maxAbs)
	return math.Max(-m, math.Min(m, v))
}

// AngleModulus wraps an angle in radians into (-π, π].
func AngleModulus(rad float64) float64 {
	a := math.Mod(rad, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// InputModulus wraps v into the half-open range [min, max).
func InputModulus(v, min, max float64) float64 {
	span := max - min
	r := math.Mod(v-min, span)
	if r < 0 {
		r += span
	}
	return r + min
}

// NormalizeAngleRadians wraps an angle into [0, 2π).
func NormalizeAngleRadians(rad float64) float64 {
	return InputModulus(rad, 0, 2*math.Pi)
}

// NormalizeAngleDegrees wraps an angle into [0, 360).
func NormalizeAngleDegrees(deg float64) float64 {
	return InputModulus(deg, 0, 360)
}

// SmallestAngleRadiansBetween returns the signed shortest rotation from a to b.
func SmallestAngleRadiansBetween(a, b float64) float64 {
	return AngleModulus(NormalizeAngleRadians(b) - NormalizeAngleRadians(a))
}

// SmallestAngleDegreesBetween returns the signed shortest rotation from a to
// b, in degrees within (-180, 180].
func SmallestAngleDegreesBetween(a, b float64) float64 {
	diff := InputModulus(NormalizeAngleDegrees(b)-NormalizeAngleDegrees(a), -180, 180)
	if diff == -180 {
		return 180
	}
	return diff
}

// Lerp evaluates the line through (x0, y0) and (x1, y1) at x.
func Lerp(y0, x0, y1, x1, x float64) float64 {
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// ScaleToSum scales inputs proportionally so they add up to sum. The inputs
// are not modified.
func ScaleToSum(inputs []float64, sum float64) []float64 {
	if len(inputs) == 0 {
		return inputs
	}
	out := make([]float64, len(inputs))
	if sum == 0 {
		return out
	}
	copy(out, inputs)
	floats.Scale(sum/floats.Sum(inputs), out)
	return out
}

// NormalizeSet scales inputs down so that the largest magnitude equals
// maxAbs. Inputs already within bounds are returned unchanged.
func NormalizeSet(inputs []float64, maxAbs float64) []float64 {
	if len(inputs) == 0 {
		return inputs
	}
	largest := 0.0
	for _, v := range inputs {
		largest = math.Max(largest, math.Abs(v))
	}
	if largest <= maxAbs {
		return inputs
	}
	out := make([]float64, len(inputs))
	copy(out, inputs)
	floats.Scale(maxAbs/largest, out)
	return out
}

// ArithmeticMean returns 0 for no inputs.
func ArithmeticMean(inputs ...float64) float64 {
	if len(inputs) == 0 {
		return 0
	}
	return stat.Mean(inputs, nil)
}

// GeometricMean returns the n-th root of the product of the inputs, or 0 for
// no inputs. It is only defined for non-negative inputs; a negative input
// yields NaN.
func GeometricMean(inputs ...float64) float64 {
	if len(inputs) == 0 {
		return 0
	}
	return stat.GeometricMean(inputs, nil)
}

func EpsilonEqualsAbsolute(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// EpsilonEqualsProportion compares a/b against 1. Two zeros are equal; a
// single zero never is.
func EpsilonEqualsProportion(a, b, eps float64) bool {
	if a == 0 && b == 0 {
		return true
	}
	if a == 0 || b == 0 {
		return false
	}
	return math.Abs(a/b-1) <= eps
}
