package control

import (
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/san-kum/ctrlkit/internal/clock"
	"github.com/san-kum/ctrlkit/internal/dynamo"
)

const epsilon = 1e-9

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

var _ = Describe("Gains", func() {
	It("should compare with a tolerance", func() {
		g := Gains{KP: 1, KI: 2, KD: 3}
		Expect(g.Equal(Gains{KP: 1.00005, KI: 2, KD: 2.99995})).To(BeTrue())
		Expect(g.Equal(Gains{KP: 1.001, KI: 2, KD: 3})).To(BeFalse())
		Expect(g.String()).To(Equal("gains: 1, 2, 3"))
	})

	It("should round-trip through the controller", func() {
		p := NewPID(Gains{KP: 0.1, KI: 0.2, KD: 0.3}, 0, 0, false)
		p.SetKP(0.7)
		Expect(p.Gains().Equal(Gains{KP: 0.7, KI: 0.2, KD: 0.3})).To(BeTrue())
		p.SetGains(Gains{KP: 4})
		Expect(p.KP()).To(Equal(4.0))
		Expect(p.KI()).To(Equal(0.0))
		Expect(p.KD()).To(Equal(0.0))
	})
})

var _ = Describe("PID", func() {
	var (
		mockCtrl *gomock.Controller
		clk      *clock.MockClock
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		clk = clock.NewMockClock(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("proportional only", func() {
		It("should output kP times the error using the measured dt", func() {
			gomock.InOrder(
				clk.EXPECT().Now().Return(epoch),
				clk.EXPECT().Now().Return(epoch.Add(20*time.Millisecond)),
			)

			p := NewPID(Gains{KP: 2}, 0, 10, false, WithClock(clk))
			Expect(p.Calculate(4)).To(Equal(2 * (10.0 - 4.0)))
		})

		It("should be exact for any measurement", func() {
			p := NewPID(Gains{KP: 0.37}, 0, -3.5, false)
			for _, m := range []float64{-100, -3.5, 0, 1e-3, 42, 1e6} {
				Expect(p.CalculateDt(m, 0.02)).To(Equal(0.37 * (-3.5 - m)))
				Expect(p.PContribution()).To(Equal(p.Output()))
			}
		})
	})

	Context("angular", func() {
		It("should take the short way round", func() {
			p := NewPID(Gains{KP: 1}, 0, 0, true)
			out := p.CalculateDt(math.Pi-0.01, 0.02)
			Expect(math.Abs(p.LastError())).To(BeNumerically("<", math.Pi))
			Expect(p.LastError()).To(BeNumerically("~", -(math.Pi - 0.01), epsilon))
			Expect(out).To(Equal(p.LastError()))
		})

		It("should wrap errors across the ±π seam", func() {
			p := NewPID(Gains{KP: 1}, 0, math.Pi-0.1, true)
			p.CalculateDt(-(math.Pi - 0.1), 0.02)
			Expect(p.LastError()).To(BeNumerically("~", -0.2, epsilon))
		})

		It("should wrap setpoints and measurements", func() {
			p := NewPID(Gains{KP: 1}, 0, 3*math.Pi/2, true)
			Expect(p.Setpoint()).To(BeNumerically("~", -math.Pi/2, epsilon))
			Expect(p.Angular()).To(BeTrue())

			p.SetSetpoint(2*math.Pi + 1)
			Expect(p.Setpoint()).To(BeNumerically("~", 1, epsilon))

			p.CalculateDt(4*math.Pi+0.5, 0.02)
			Expect(p.LastMeasurement()).To(BeNumerically("~", 0.5, epsilon))
		})

		It("should leave linear setpoints alone", func() {
			p := NewPID(Gains{KP: 1}, 0, 3*math.Pi/2, false)
			Expect(p.Setpoint()).To(Equal(3 * math.Pi / 2))
		})
	})

	Context("integral", func() {
		It("should sum dt*error over the window", func() {
			p := NewPID(Gains{KI: 1}, 2, 1, false)
			Expect(p.CalculateDt(0, 1)).To(BeNumerically("~", 1, epsilon))
			Expect(p.CalculateDt(0, 0.5)).To(BeNumerically("~", 1.5, epsilon))
			Expect(p.CalculateDt(0, 0.25)).To(BeNumerically("~", 0.75, epsilon))
			Expect(p.IntegralAccumulation()).To(BeNumerically("~", 0.75, epsilon))
		})

		It("should accumulate forever with a non-positive window", func() {
			p := NewPID(Gains{KI: 2}, 0, 1, false)
			for i := 0; i < 100; i++ {
				p.CalculateDt(0, 0.1)
			}
			Expect(p.IntegralAccumulation()).To(BeNumerically("~", 10, 1e-9))
			Expect(p.IContribution()).To(BeNumerically("~", 20, 1e-9))
		})

		It("should clear on ResetIntegralAccumulation", func() {
			p := NewPID(Gains{KI: 1}, 0, 1, false)
			p.CalculateDt(0, 1)
			p.ResetIntegralAccumulation()
			Expect(p.IntegralAccumulation()).To(Equal(0.0))
		})
	})

	Context("derivative", func() {
		It("should differentiate the error", func() {
			p := NewPID(Gains{KD: 1}, 0, 0, false)
			Expect(p.CalculateDt(1, 0.5)).To(BeNumerically("~", -2, epsilon))
			Expect(p.CalculateDt(2, 0.5)).To(BeNumerically("~", -2, epsilon))
			Expect(p.Velocity()).To(BeNumerically("~", -2, epsilon))
		})

		It("should be zero for a dt of zero", func() {
			p := NewPID(Gains{KD: 5}, 0, 0, false)
			p.CalculateDt(1, 1)
			Expect(p.CalculateDt(100, 0)).To(Equal(0.0))
			Expect(p.Velocity()).To(Equal(0.0))
		})

		It("should see setpoint changes", func() {
			p := NewPID(Gains{KD: 1}, 0, 0, false)
			p.CalculateDt(0, 1)
			p.SetSetpoint(5)
			Expect(p.CalculateDt(0, 1)).To(BeNumerically("~", 5, epsilon))
		})

		It("should not see a setpoint jump after ResetPreviousMeasurement", func() {
			p := NewPID(Gains{KD: 1}, 0, 0, false)
			p.CalculateDt(0, 1)
			p.SetSetpoint(5)
			p.ResetPreviousMeasurement()
			Expect(p.CalculateDt(0, 1)).To(BeNumerically("~", 0, epsilon))
		})
	})

	Context("clamping", func() {
		It("should bound each term by its own limit", func() {
			p := NewPID(Gains{KP: 100, KI: 100, KD: 100}, 0, 0, false)
			p.SetMaxP(3)
			p.SetMaxI(-2)
			p.SetMaxD(1)
			Expect(p.MaxI()).To(Equal(2.0))

			for _, m := range []float64{1e6, -1e6, 7, -0.5} {
				p.CalculateDt(m, 0.1)
				Expect(math.Abs(p.PContribution())).To(BeNumerically("<=", 3))
				Expect(math.Abs(p.IContribution())).To(BeNumerically("<=", 2))
				Expect(math.Abs(p.DContribution())).To(BeNumerically("<=", 1))
			}
		})

		It("should not clamp when the limit is zero", func() {
			p := NewPID(Gains{KP: 100}, 0, 0, false)
			p.SetMaxP(0)
			p.SetMaxControlEffort(0)
			Expect(p.CalculateDt(-1e6, 0.1)).To(Equal(1e8))
		})

		It("should bound the total effort", func() {
			p := NewPID(Gains{KP: 10, KI: 10}, 0, 0, false)
			p.SetMaxControlEffort(5)
			Expect(p.CalculateDt(-3, 1)).To(Equal(5.0))
			Expect(p.PContribution()).To(Equal(30.0))
			Expect(p.CalculateDt(3, 1)).To(Equal(-5.0))
		})

		It("should compare a negative effort limit by magnitude", func() {
			p := NewPID(Gains{KP: 10}, 0, 0, false)
			p.SetMaxControlEffort(-5)
			Expect(p.MaxControlEffort()).To(Equal(-5.0))
			Expect(p.CalculateDt(-3, 1)).To(Equal(5.0))
		})
	})

	Context("AtSetpoint", func() {
		It("should never be reached with a zero setpoint", func() {
			for _, tol := range []float64{0.02, 1, 1e6} {
				p := NewPID(Gains{KP: 1}, 0, 0, false)
				p.SetTolerance(tol, tol)
				p.CalculateDt(0, 1)
				p.CalculateDt(0, 1)
				Expect(p.AtSetpoint()).To(BeFalse())
			}
		})

		It("should be reached once position and velocity settle", func() {
			p := NewPID(Gains{KP: 1}, 0, 10, false)
			Expect(p.PositionTolerance()).To(Equal(DefaultTolerance))
			Expect(p.VelocityTolerance()).To(Equal(DefaultTolerance))

			p.CalculateDt(10, 1)
			Expect(p.AtSetpoint()).To(BeFalse())
			p.CalculateDt(10, 1)
			Expect(p.AtSetpoint()).To(BeTrue())
			p.CalculateDt(9, 1)
			Expect(p.AtSetpoint()).To(BeFalse())
		})
	})

	Context("Reset", func() {
		It("should clear the integral and the previous measurement", func() {
			p := NewPID(Gains{KP: 1, KI: 1}, 0, 2, false)
			p.CalculateDt(1, 1)
			p.Reset()
			Expect(p.IntegralAccumulation()).To(Equal(0.0))
			Expect(p.LastMeasurement()).To(Equal(0.0))
			Expect(p.Gains()).To(Equal(Gains{KP: 1, KI: 1}))
		})
	})

	Context("tuning", func() {
		It("should expose and set parameters by name", func() {
			p := NewPID(Gains{KP: 1, KI: 2, KD: 3}, 0, 4, false)
			params := p.GetParams()
			Expect(params).To(HaveKeyWithValue("kp", 1.0))
			Expect(params).To(HaveKeyWithValue("setpoint", 4.0))

			Expect(p.SetParam("kd", 9)).To(Succeed())
			Expect(p.KD()).To(Equal(9.0))
			Expect(p.SetParam("max_p", -2)).To(Succeed())
			Expect(p.MaxP()).To(Equal(2.0))
		})

		It("should reject unknown parameters", func() {
			p := NewPID(Gains{}, 0, 0, false)
			err := p.SetParam("kf", 1)
			Expect(errors.Is(err, dynamo.ErrUnknownParam)).To(BeTrue())
		})
	})

	It("should drive a first-order plant to the setpoint", func() {
		p := NewPID(Gains{KP: 2}, 0, 5, false)
		x, dt := 0.0, 0.01
		for i := 0; i < 1000; i++ {
			u := p.CalculateDt(x, dt)
			x += u * dt
		}
		Expect(x).To(BeNumerically("~", 5, 0.01))
		Expect(p.AtSetpoint()).To(BeTrue())
	})

	It("should report a consistent diagnostics snapshot", func() {
		p := NewPID(Gains{KP: 1, KI: 1, KD: 1}, 0, 3, false)
		p.CalculateDt(1, 0.5)
		d := p.Diagnostics()
		Expect(d.Output).To(Equal(p.Output()))
		Expect(d.P + d.I + d.D).To(BeNumerically("~", d.Output, epsilon))
		Expect(d.Integral).To(Equal(p.IntegralAccumulation()))
		Expect(d.Error).To(Equal(2.0))
	})
})
