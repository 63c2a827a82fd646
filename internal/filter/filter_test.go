package filter

import (
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ctrlkit/internal/clock"
)

const epsilon = 1e-4

var _ = Describe("Null", func() {
	It("should pass values through and ignore dt", func() {
		f := NewNull()
		Expect(f.CalculateDt(3.5, 0)).To(Equal(3.5))
		Expect(f.CalculateDt(-2, 100)).To(Equal(-2.0))
		Expect(f.Output()).To(Equal(-2.0))
	})

	It("should forget its output on reset", func() {
		f := NewNull()
		f.CalculateDt(4, 1)
		f.Reset()
		Expect(f.Output()).To(Equal(0.0))
	})
})

var _ = Describe("Integrating", func() {
	It("should accumulate the trapezoidal sum with an infinite window", func() {
		f := NewIntegrating(0)
		Expect(f.Window()).To(Equal(0))

		Expect(f.CalculateDt(2, 1)).To(BeNumerically("~", 1, epsilon))
		Expect(f.CalculateDt(4, 1)).To(BeNumerically("~", 4, epsilon))
		Expect(f.CalculateDt(4, 0.5)).To(BeNumerically("~", 6, epsilon))
		Expect(f.Output()).To(BeNumerically("~", 6, epsilon))
	})

	It("should match the cumulative trapezoid for variable dt", func() {
		f := NewIntegrating(-1)
		values := []float64{1, 3, -2, 5, 0.5}
		dts := []float64{0.1, 0.25, 0.02, 1, 0.3}

		want, prev := 0.0, 0.0
		for i, v := range values {
			want += dts[i] * 0.5 * (v + prev)
			prev = v
			Expect(f.CalculateDt(v, dts[i])).To(BeNumerically("~", want, 1e-12))
		}
	})

	It("should expire old increments with a finite window", func() {
		f := NewIntegrating(2)
		Expect(f.Window()).To(Equal(2))

		f.CalculateDt(2, 1)
		f.CalculateDt(4, 1)
		Expect(f.CalculateDt(4, 0.5)).To(BeNumerically("~", 5, epsilon))
	})

	It("should return to its initial state on reset", func() {
		for _, window := range []int{0, 3} {
			f := NewIntegrating(window)
			f.CalculateDt(10, 1)
			f.Reset()
			Expect(f.Output()).To(Equal(0.0))
			Expect(f.CalculateDt(2, 1)).To(BeNumerically("~", 1, epsilon))
		}
	})
})

var _ = Describe("Differentiating", func() {
	It("should return zero for a dt of zero", func() {
		for _, v := range []float64{1, -7, 1e9, 0} {
			Expect(NewDifferentiating().CalculateDt(v, 0)).To(Equal(0.0))
		}
	})

	It("should differentiate the first input against zero", func() {
		Expect(NewDifferentiating().CalculateDt(5, 1)).To(BeNumerically("~", 5, epsilon))
		Expect(NewDifferentiating().CalculateDt(4, 0.02)).To(BeNumerically("~", 200, epsilon))
	})

	It("should differentiate with a fixed dt", func() {
		f := NewDifferentiating()
		Expect(f.CalculateDt(6, 0.02)).To(BeNumerically("~", 300, epsilon))
		Expect(f.CalculateDt(2, 0.02)).To(BeNumerically("~", -200, epsilon))
		Expect(f.CalculateDt(2, 0.02)).To(BeNumerically("~", 0, epsilon))
		Expect(f.CalculateDt(10, 0.02)).To(BeNumerically("~", 400, epsilon))
	})

	It("should differentiate with a changing dt", func() {
		f := NewDifferentiating()
		Expect(f.CalculateDt(2, 2)).To(BeNumerically("~", 1, epsilon))
		Expect(f.CalculateDt(3, 1)).To(BeNumerically("~", 1, epsilon))
		Expect(f.CalculateDt(1, 0.5)).To(BeNumerically("~", -4, epsilon))
	})

	It("should still track the input across a zero dt step", func() {
		f := NewDifferentiating()
		f.CalculateDt(3, 0)
		Expect(f.CalculateDt(5, 1)).To(BeNumerically("~", 2, epsilon))
	})
})

var _ = Describe("MovingAverage", func() {
	It("should average every input with an infinite window", func() {
		f := NewMovingAverage(0, Arithmetic)
		Expect(f.CalculateDt(1, 0)).To(BeNumerically("~", 1, epsilon))
		Expect(f.CalculateDt(1, 0)).To(BeNumerically("~", 1, epsilon))
		Expect(f.CalculateDt(4, 0)).To(BeNumerically("~", 2, epsilon))
		Expect(f.CalculateDt(-6, 0)).To(BeNumerically("~", 0, epsilon))
	})

	It("should average only the most recent inputs with a finite window", func() {
		f := NewMovingAverage(3, Arithmetic)
		inputs := []float64{3, 0, -3, -6, 0, 3, 9, 6}
		want := []float64{3, 1.5, 0, -3, -3, -1, 4, 6}
		for i, v := range inputs {
			Expect(f.CalculateDt(v, 0.02)).To(BeNumerically("~", want[i], epsilon), "input %d", i)
		}
	})

	It("should not depend on evicted inputs", func() {
		a := NewMovingAverage(3, Arithmetic)
		b := NewMovingAverage(3, Arithmetic)
		for _, v := range []float64{100, -50, 7, 8, 1, 2, 3} {
			a.CalculateDt(v, 1)
		}
		for _, v := range []float64{-1, 0, 9, 1, 2, 3} {
			b.CalculateDt(v, 1)
		}
		Expect(a.Output()).To(BeNumerically("~", 2, epsilon))
		Expect(a.Output()).To(Equal(b.Output()))
	})

	It("should compute a geometric mean", func() {
		f := NewMovingAverage(2, Geometric)
		Expect(f.Kind()).To(Equal(Geometric))
		Expect(f.CalculateDt(2, 1)).To(BeNumerically("~", 2, epsilon))
		Expect(f.CalculateDt(8, 1)).To(BeNumerically("~", 4, epsilon))
		Expect(f.CalculateDt(2, 1)).To(BeNumerically("~", 4, epsilon))
		Expect(f.CalculateDt(0, 1)).To(BeNumerically("~", 0, epsilon))
	})

	It("should give NaN for a geometric window holding a negative value", func() {
		f := NewMovingAverage(2, Geometric)
		f.CalculateDt(-2, 1)
		Expect(math.IsNaN(f.CalculateDt(-8, 1))).To(BeTrue())
	})

	It("should clear its window on reset", func() {
		f := NewMovingAverage(4, Arithmetic)
		f.CalculateDt(100, 1)
		f.Reset()
		Expect(f.Output()).To(Equal(0.0))
		Expect(f.CalculateDt(2, 1)).To(BeNumerically("~", 2, epsilon))
		Expect(f.Window()).To(Equal(4))
	})
})

var _ = Describe("ParseMeanKind", func() {
	It("should parse known names", func() {
		k, err := ParseMeanKind("Geometric")
		Expect(err).ToNot(HaveOccurred())
		Expect(k).To(Equal(Geometric))

		k, err = ParseMeanKind("")
		Expect(err).ToNot(HaveOccurred())
		Expect(k).To(Equal(Arithmetic))
		Expect(k.String()).To(Equal("arithmetic"))
	})

	It("should reject unknown names", func() {
		_, err := ParseMeanKind("harmonic")
		Expect(errors.Is(err, ErrUnknownMean)).To(BeTrue())
	})
})

var _ = Describe("EMA", func() {
	It("should follow the exponential recurrence", func() {
		f := NewEMA(0.5, WithClock(clock.NewManual(time.Unix(0, 0))))
		Expect(f.Calculate(1)).To(BeNumerically("~", 0.5, epsilon))
		Expect(f.Calculate(1)).To(BeNumerically("~", 0.75, epsilon))
		Expect(f.Calculate(5)).To(BeNumerically("~", 2.875, epsilon))
		Expect(f.Calculate(0)).To(BeNumerically("~", 1.4375, epsilon))
	})

	It("should accept an alpha outside (0, 1]", func() {
		f := NewEMA(2)
		Expect(f.CalculateDt(1, 1)).To(BeNumerically("~", 2, epsilon))
		Expect(f.CalculateDt(1, 1)).To(BeNumerically("~", 0, epsilon))
	})

	It("should keep alpha across reset", func() {
		f := NewEMA(0.25)
		f.CalculateDt(8, 1)
		f.Reset()
		Expect(f.Output()).To(Equal(0.0))
		Expect(f.Alpha()).To(Equal(0.25))
	})
})

var _ = Describe("RateLimiter", func() {
	It("should limit the change per step", func() {
		f := NewRateLimiter(5)
		Expect(f.CalculateDt(2, 1)).To(BeNumerically("~", 2, epsilon))
		Expect(f.CalculateDt(10, 1)).To(BeNumerically("~", 7, epsilon))
		Expect(f.CalculateDt(-5, 1)).To(BeNumerically("~", 2, epsilon))
		Expect(f.CalculateDt(0, 1)).To(BeNumerically("~", 0, epsilon))
	})

	It("should scale the limit with dt", func() {
		f := NewRateLimiter(10)
		Expect(f.CalculateDt(100, 0.1)).To(BeNumerically("~", 1, epsilon))
		Expect(f.CalculateDt(100, 0)).To(BeNumerically("~", 1, epsilon))
	})
})

var _ = Describe("Chain", func() {
	It("should behave as a pass-through when empty", func() {
		c := NewChain(nil)
		Expect(c.CalculateDt(3, 1)).To(Equal(3.0))
		Expect(c.Len()).To(Equal(0))
	})

	It("should feed stages in order", func() {
		c := NewChain([]Filter{NewMovingAverage(2, Arithmetic), NewRateLimiter(1)})
		Expect(c.CalculateDt(4, 1)).To(BeNumerically("~", 1, epsilon))
		Expect(c.CalculateDt(8, 1)).To(BeNumerically("~", 2, epsilon))
		Expect(c.Stage(0).Output()).To(BeNumerically("~", 6, epsilon))
	})

	It("should reset every stage", func() {
		ema := NewEMA(0.5)
		c := NewChain([]Filter{NewNull(), ema})
		c.CalculateDt(4, 1)
		c.Reset()
		Expect(ema.Output()).To(Equal(0.0))
		Expect(c.Output()).To(Equal(0.0))
	})
})

var _ = Describe("Calculate with an injected clock", func() {
	var c *clock.Manual

	BeforeEach(func() {
		c = clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	})

	It("should use the time since construction on the first call", func() {
		f := NewDifferentiating(WithClock(c))
		c.Advance(500 * time.Millisecond)
		Expect(f.Calculate(2)).To(BeNumerically("~", 4, epsilon))

		c.Advance(250 * time.Millisecond)
		Expect(f.Calculate(3)).To(BeNumerically("~", 4, epsilon))
	})

	It("should see a zero dt when the clock has not moved", func() {
		f := NewDifferentiating(WithClock(c))
		Expect(f.Calculate(10)).To(Equal(0.0))
	})

	It("should integrate over measured time", func() {
		f := NewIntegrating(0, WithClock(c))
		c.AdvanceSeconds(2)
		Expect(f.Calculate(1)).To(BeNumerically("~", 1, epsilon))
		c.AdvanceSeconds(1)
		Expect(f.Calculate(1)).To(BeNumerically("~", 2, epsilon))
	})

	It("should never produce NaN for finite inputs", func() {
		f := NewRateLimiter(3, WithClock(c))
		Expect(math.IsNaN(f.Calculate(1e12))).To(BeFalse())
	})
})
