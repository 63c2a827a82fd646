package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func TestClamp(t *testing.T) {
	tests := []struct {
		maxAbs, v, want float64
	}{
		{5, 3, 3},
		{5, 7, 5},
		{5, -7, -5},
		{-5, 7, 5},
		{0, 7, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Clamp(tt.maxAbs, tt.v), "Clamp(%v, %v)", tt.maxAbs, tt.v)
	}
}

func TestAngleModulus(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{2 * math.Pi, 0},
		{math.Pi / 2, math.Pi / 2},
		{-math.Pi / 2, -math.Pi / 2},
		{5 * math.Pi / 2, math.Pi / 2},
		{-5 * math.Pi / 2, -math.Pi / 2},
	}
	for _, tt := range tests {
		got := AngleModulus(tt.in)
		assert.InDelta(t, tt.want, got, eps, "AngleModulus(%v)", tt.in)
		assert.True(t, got > -math.Pi && got <= math.Pi)
	}
}

func TestInputModulus(t *testing.T) {
	assert.InDelta(t, 10.0, InputModulus(370, 0, 360), eps)
	assert.InDelta(t, 350.0, InputModulus(-10, 0, 360), eps)
	assert.InDelta(t, -170.0, InputModulus(190, -180, 180), eps)
	assert.InDelta(t, 0.0, InputModulus(360, 0, 360), eps)
}

func TestNormalizeAngles(t *testing.T) {
	assert.InDelta(t, math.Pi/2, NormalizeAngleRadians(-3*math.Pi/2), eps)
	assert.InDelta(t, 90.0, NormalizeAngleDegrees(450), eps)
	assert.InDelta(t, 270.0, NormalizeAngleDegrees(-90), eps)
}

func TestSmallestAngleBetween(t *testing.T) {
	assert.InDelta(t, 20.0, SmallestAngleDegreesBetween(350, 10), eps)
	assert.InDelta(t, -20.0, SmallestAngleDegreesBetween(10, 350), eps)
	assert.InDelta(t, 180.0, SmallestAngleDegreesBetween(0, 180), eps)
	assert.InDelta(t, 0.2, SmallestAngleRadiansBetween(2*math.Pi-0.1, 0.1), eps)
}

func TestLerp(t *testing.T) {
	assert.InDelta(t, 5.0, Lerp(0, 0, 10, 10, 5), eps)
	assert.InDelta(t, 15.0, Lerp(10, 1, 20, 2, 1.5), eps)
}

func TestScaleToSum(t *testing.T) {
	in := []float64{1, 2, 3, 4}
	out := ScaleToSum(in, 20)
	assert.InDeltaSlice(t, []float64{2, 4, 6, 8}, out, eps)
	assert.Equal(t, []float64{1, 2, 3, 4}, in)

	assert.Equal(t, []float64{0, 0, 0}, ScaleToSum([]float64{1, 2, 3}, 0))
	assert.Empty(t, ScaleToSum(nil, 5))
}

func TestNormalizeSet(t *testing.T) {
	assert.InDeltaSlice(t, []float64{0.5, -1, 0.25}, NormalizeSet([]float64{2, -4, 1}, 1), eps)

	within := []float64{0.1, -0.2}
	assert.Equal(t, within, NormalizeSet(within, 1))
	assert.Empty(t, NormalizeSet(nil, 1))
}

func TestMeans(t *testing.T) {
	assert.Equal(t, 0.0, ArithmeticMean())
	assert.Equal(t, 0.0, GeometricMean())
	assert.InDelta(t, 2.5, ArithmeticMean(1, 2, 3, 4), eps)
	assert.InDelta(t, 4.0, GeometricMean(2, 8), eps)
	assert.InDelta(t, 3.0, GeometricMean(1, 3, 9), eps)
	assert.Equal(t, 0.0, GeometricMean(0, 5, 10))
}

func TestEpsilonEquals(t *testing.T) {
	assert.True(t, EpsilonEqualsAbsolute(1, 1+1e-6, DefaultAbsoluteEpsilon))
	assert.False(t, EpsilonEqualsAbsolute(1, 1.1, DefaultAbsoluteEpsilon))

	assert.True(t, EpsilonEqualsProportion(0, 0, DefaultProportionEpsilon))
	assert.False(t, EpsilonEqualsProportion(0, 1e-9, DefaultProportionEpsilon))
	assert.True(t, EpsilonEqualsProportion(1000, 1000.5, DefaultProportionEpsilon))
	assert.False(t, EpsilonEqualsProportion(1000, 1002, DefaultProportionEpsilon))
}
