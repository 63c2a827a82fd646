package metrics

import (
	"math"

	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// IAE is the integral of absolute setpoint error.
type IAE struct {
	sum float64
}

func NewIAE() *IAE { return &IAE{} }

func (m *IAE) Name() string { return "iae" }

func (m *IAE) Observe(s dynamo.Sample) { m.sum += math.Abs(s.Error) * s.Dt }

func (m *IAE) Value() float64 { return m.sum }

func (m *IAE) Reset() { m.sum = 0 }

// ISE is the integral of squared setpoint error. It punishes large early
// errors more than IAE does.
type ISE struct {
	sum float64
}

func NewISE() *ISE { return &ISE{} }

func (m *ISE) Name() string { return "ise" }

func (m *ISE) Observe(s dynamo.Sample) { m.sum += s.Error * s.Error * s.Dt }

func (m *ISE) Value() float64 { return m.sum }

func (m *ISE) Reset() { m.sum = 0 }

// Overshoot is how far the measurement went past the setpoint in the
// direction of travel from the first observed measurement. It is 0 when the
// run starts on the setpoint.
type Overshoot struct {
	started   bool
	direction float64
	peak      float64
}

func NewOvershoot() *Overshoot { return &Overshoot{} }

func (m *Overshoot) Name() string { return "overshoot" }

func (m *Overshoot) Observe(s dynamo.Sample) {
	if !m.started {
		m.started = true
		switch {
		case s.Setpoint > s.Measurement:
			m.direction = 1
		case s.Setpoint < s.Measurement:
			m.direction = -1
		}
	}
	m.peak = math.Max(m.peak, m.direction*(s.Measurement-s.Setpoint))
}

func (m *Overshoot) Value() float64 { return m.peak }

func (m *Overshoot) Reset() {
	m.started = false
	m.direction = 0
	m.peak = 0
}

// SettlingTime is the time from which |error| stayed within band until the
// last observed tick. It is -1 while the error is outside the band.
type SettlingTime struct {
	band      float64
	settledAt float64
	inside    bool
}

func NewSettlingTime(band float64) *SettlingTime {
	return &SettlingTime{band: math.Abs(band), settledAt: -1}
}

func (m *SettlingTime) Name() string { return "settling_time" }

func (m *SettlingTime) Observe(s dynamo.Sample) {
	if math.Abs(s.Error) > m.band {
		m.inside = false
		m.settledAt = -1
		return
	}
	if !m.inside {
		m.inside = true
		m.settledAt = s.Time
	}
}

func (m *SettlingTime) Value() float64 { return m.settledAt }

func (m *SettlingTime) Reset() {
	m.inside = false
	m.settledAt = -1
}

// Tracking returns the standard set for a closed-loop run.
func Tracking(band float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewControlEffort(),
		NewIAE(),
		NewISE(),
		NewOvershoot(),
		NewSettlingTime(band),
	}
}
