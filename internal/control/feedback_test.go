package control

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/filter"
)

var _ = Describe("Feedback", func() {
	It("should pass the measurement straight to the PID without filters", func() {
		fb := NewFeedback(NewPID(Gains{KP: 1}, 0, 1, false), StateSensor(0), nil, nil)

		u := fb.Compute(dynamo.State{0.25, 3}, 0)
		Expect(u).To(Equal(dynamo.Control{0.75}))
		Expect(fb.RawMeasurement()).To(Equal(0.25))
		Expect(fb.Measurement()).To(Equal(0.25))
		Expect(fb.Setpoint()).To(Equal(1.0))
		Expect(fb.Error()).To(Equal(0.75))

		p, i, d := fb.Terms()
		Expect(p).To(Equal(0.75))
		Expect(i).To(Equal(0.0))
		Expect(d).To(Equal(0.0))
	})

	It("should use the time between ticks as dt", func() {
		fb := NewFeedback(NewPID(Gains{KI: 1}, 0, 1, false), StateSensor(0), nil, nil)
		fb.Compute(dynamo.State{0}, 0.5)
		Expect(fb.PID().IntegralAccumulation()).To(BeNumerically("~", 0.5, epsilon))
		fb.Compute(dynamo.State{0}, 0.75)
		Expect(fb.PID().IntegralAccumulation()).To(BeNumerically("~", 0.75, epsilon))
	})

	It("should shape the effort with the output filter", func() {
		fb := NewFeedback(
			NewPID(Gains{KP: 10}, 0, 1, false),
			StateSensor(0),
			nil,
			filter.NewRateLimiter(1),
		)
		Expect(fb.Compute(dynamo.State{0}, 0)).To(Equal(dynamo.Control{0}))
		Expect(fb.Compute(dynamo.State{0}, 0.5)[0]).To(BeNumerically("~", 0.5, epsilon))
		Expect(fb.Compute(dynamo.State{0}, 1)[0]).To(BeNumerically("~", 1, epsilon))
		Expect(fb.PID().Output()).To(Equal(10.0))
	})

	It("should smooth the measurement with the input filter", func() {
		fb := NewFeedback(
			NewPID(Gains{KP: 1}, 0, 0, false),
			StateSensor(0),
			filter.NewMovingAverage(2, filter.Arithmetic),
			nil,
		)
		fb.Compute(dynamo.State{4}, 0.1)
		fb.Compute(dynamo.State{2}, 0.2)
		Expect(fb.RawMeasurement()).To(Equal(2.0))
		Expect(fb.Measurement()).To(Equal(3.0))
		Expect(fb.Error()).To(Equal(-3.0))
	})

	It("should return zero for a missing state component", func() {
		s := StateSensor(3)
		Expect(s.Measure(dynamo.State{1, 2}, 0)).To(Equal(0.0))
		Expect(StateSensor(-1).Measure(dynamo.State{1}, 0)).To(Equal(0.0))
	})

	It("should clear everything on Reset", func() {
		fb := NewFeedback(NewPID(Gains{KI: 1}, 0, 1, false), StateSensor(0), nil, nil)
		fb.Compute(dynamo.State{0}, 1)
		fb.Compute(dynamo.State{0}, 2)
		fb.Reset()
		Expect(fb.PID().IntegralAccumulation()).To(Equal(0.0))
		Expect(fb.RawMeasurement()).To(Equal(0.0))

		fb.Compute(dynamo.State{0}, 3)
		Expect(fb.PID().IntegralAccumulation()).To(BeNumerically("~", 3, epsilon))
	})

	It("should keep the tick length across ResetControl", func() {
		fb := NewFeedback(NewPID(Gains{KI: 1}, 0, 1, false), StateSensor(0), nil, nil)
		for i := range 1000 {
			fb.Compute(dynamo.State{0}, float64(i+1)*0.01)
		}
		fb.ResetControl()
		Expect(fb.PID().IntegralAccumulation()).To(Equal(0.0))

		fb.Compute(dynamo.State{0}, 10.01)
		Expect(fb.PID().IntegralAccumulation()).To(BeNumerically("~", 0.01, epsilon))
		Expect(fb.PID().LastError()).To(Equal(1.0))
	})

	It("should delegate tuning to the PID", func() {
		fb := NewFeedback(NewPID(Gains{KP: 1}, 0, 0, false), StateSensor(0), nil, nil)
		Expect(fb.SetParam("kp", 3)).To(Succeed())
		Expect(fb.GetParams()).To(HaveKeyWithValue("kp", 3.0))
		Expect(errors.Is(fb.SetParam("bogus", 1), dynamo.ErrUnknownParam)).To(BeTrue())
	})
})

var _ = Describe("None", func() {
	It("should return a zero control of the right size", func() {
		Expect(NewNone(2).Compute(dynamo.State{1, 2}, 0)).To(Equal(dynamo.Control{0, 0}))
	})
})
