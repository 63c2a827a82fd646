package control

import (
	"fmt"
	"math"

	"github.com/san-kum/ctrlkit/internal/clock"
	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/history"
	"github.com/san-kum/ctrlkit/internal/mathutil"
)

const DefaultTolerance = 0.02

type options struct {
	clock clock.Clock
}

// Option configures a PID at construction.
type Option func(*options)

// WithClock sets the time source used by Calculate.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// PID is a Proportional-Integral-Derivative feedback controller.
//
// The integral term sums dt*error over the last window calls (all calls when
// window <= 0). The derivative term is the change in error over dt, where the
// previous error is rebuilt from the previous setpoint and measurement, so a
// setpoint step shows up in D as well as P.
//
// Angular controllers wrap setpoint, measurement and error into (-π, π] and
// always take the short way round.
type PID struct {
	gains   Gains
	angular bool

	setpoint        float64
	lastMeasurement float64
	lastSetpoint    float64
	lastError       float64
	velocity        float64

	p, i, d float64
	output  float64

	maxEffort float64
	maxP      float64
	maxI      float64
	maxD      float64

	posTol float64
	velTol float64

	integral *history.History[float64]
	delta    *clock.Delta
}

func NewPID(gains Gains, window int, setpoint float64, angular bool, opts ...Option) *PID {
	o := options{clock: clock.System{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	p := &PID{
		gains:    gains,
		angular:  angular,
		posTol:   DefaultTolerance,
		velTol:   DefaultTolerance,
		integral: history.New[float64](window),
		delta:    clock.NewDelta(o.clock),
	}
	p.SetSetpoint(setpoint)
	p.lastSetpoint = p.setpoint
	return p
}

// Calculate runs one control step using the time since the previous call as
// dt. The first call measures from construction.
func (p *PID) Calculate(measurement float64) float64 {
	return p.CalculateDt(measurement, p.delta.Seconds())
}

// CalculateDt runs one control step of dt seconds and returns the control
// effort.
func (p *PID) CalculateDt(measurement, dt float64) float64 {
	var err float64
	if p.angular {
		measurement = mathutil.AngleModulus(measurement)
		err = mathutil.AngleModulus(p.setpoint - measurement)
	} else {
		err = p.setpoint - measurement
	}

	p.integral.Push(dt * err)

	if dt == 0 {
		p.velocity = 0
	} else {
		p.velocity = (err - (p.lastSetpoint - p.lastMeasurement)) / dt
	}

	p.p = clampTerm(p.maxP, p.gains.KP*err)
	p.i = clampTerm(p.maxI, p.gains.KI*history.Sum(p.integral))
	p.d = clampTerm(p.maxD, p.gains.KD*p.velocity)

	p.lastMeasurement = measurement
	p.lastSetpoint = p.setpoint
	p.lastError = err

	p.output = clampTerm(p.maxEffort, p.p+p.i+p.d)
	return p.output
}

// clampTerm limits v to ±limit; a zero limit disables it.
func clampTerm(limit, v float64) float64 {
	if limit == 0 {
		return v
	}
	return mathutil.Clamp(limit, v)
}

// AtSetpoint reports whether both the position error and the velocity are
// within their tolerances. Tolerances are fractions of the setpoint, so a
// zero setpoint is never reached.
func (p *PID) AtSetpoint() bool {
	return math.Abs(p.setpoint-p.lastMeasurement) < math.Abs(p.posTol*p.setpoint) &&
		math.Abs(p.velocity) < math.Abs(p.velTol*p.setpoint)
}

// ResetIntegralAccumulation empties the integral window.
func (p *PID) ResetIntegralAccumulation() {
	p.integral.Clear()
}

// ResetPreviousMeasurement forgets the previous measurement and takes the
// current setpoint as the previous one, so the next derivative does not see
// a setpoint jump.
func (p *PID) ResetPreviousMeasurement() {
	p.lastMeasurement = 0
	p.lastSetpoint = p.setpoint
}

func (p *PID) Reset() {
	p.ResetIntegralAccumulation()
	p.ResetPreviousMeasurement()
}

func (p *PID) SetSetpoint(v float64) {
	if p.angular {
		v = mathutil.AngleModulus(v)
	}
	p.setpoint = v
}

func (p *PID) Setpoint() float64 { return p.setpoint }

func (p *PID) Angular() bool { return p.angular }

func (p *PID) Gains() Gains { return p.gains }

func (p *PID) SetGains(g Gains) { p.gains = g }

func (p *PID) KP() float64 { return p.gains.KP }
func (p *PID) KI() float64 { return p.gains.KI }
func (p *PID) KD() float64 { return p.gains.KD }

func (p *PID) SetKP(v float64) { p.gains.KP = v }
func (p *PID) SetKI(v float64) { p.gains.KI = v }
func (p *PID) SetKD(v float64) { p.gains.KD = v }

// SetTolerance sets the position and velocity tolerances used by
// AtSetpoint, as fractions of the setpoint.
func (p *PID) SetTolerance(position, velocity float64) {
	p.posTol = position
	p.velTol = velocity
}

func (p *PID) PositionTolerance() float64 { return p.posTol }
func (p *PID) VelocityTolerance() float64 { return p.velTol }

// SetMaxControlEffort limits the magnitude of the total output. Zero
// disables the limit.
func (p *PID) SetMaxControlEffort(v float64) { p.maxEffort = v }

func (p *PID) SetMaxP(v float64) { p.maxP = math.Abs(v) }
func (p *PID) SetMaxI(v float64) { p.maxI = math.Abs(v) }
func (p *PID) SetMaxD(v float64) { p.maxD = math.Abs(v) }

func (p *PID) MaxControlEffort() float64 { return p.maxEffort }
func (p *PID) MaxP() float64             { return p.maxP }
func (p *PID) MaxI() float64             { return p.maxI }
func (p *PID) MaxD() float64             { return p.maxD }

// Output returns the most recent control effort.
func (p *PID) Output() float64 { return p.output }

func (p *PID) PContribution() float64 { return p.p }
func (p *PID) IContribution() float64 { return p.i }
func (p *PID) DContribution() float64 { return p.d }

// IntegralAccumulation returns the sum of the integral window before the
// I gain is applied.
func (p *PID) IntegralAccumulation() float64 { return history.Sum(p.integral) }

// Velocity returns the last estimate of the rate of change of the error.
func (p *PID) Velocity() float64 { return p.velocity }

// LastMeasurement returns the measurement used by the last step, wrapped for
// angular controllers.
func (p *PID) LastMeasurement() float64 { return p.lastMeasurement }

// LastError returns the error of the last step.
func (p *PID) LastError() float64 { return p.lastError }

// Diagnostics is a read-only snapshot of a PID for telemetry.
type Diagnostics struct {
	Gains             Gains
	Setpoint          float64
	Measurement       float64
	Error             float64
	Output            float64
	P, I, D           float64
	Integral          float64
	Velocity          float64
	PositionTolerance float64
	VelocityTolerance float64
	MaxEffort         float64
	MaxP, MaxI, MaxD  float64
	AtSetpoint        bool
}

func (p *PID) Diagnostics() Diagnostics {
	return Diagnostics{
		Gains:             p.gains,
		Setpoint:          p.setpoint,
		Measurement:       p.lastMeasurement,
		Error:             p.lastError,
		Output:            p.output,
		P:                 p.p,
		I:                 p.i,
		D:                 p.d,
		Integral:          p.IntegralAccumulation(),
		Velocity:          p.velocity,
		PositionTolerance: p.posTol,
		VelocityTolerance: p.velTol,
		MaxEffort:         p.maxEffort,
		MaxP:              p.maxP,
		MaxI:              p.maxI,
		MaxD:              p.maxD,
		AtSetpoint:        p.AtSetpoint(),
	}
}

// GetParams returns tunable parameters for live adjustment.
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"kp":         p.gains.KP,
		"ki":         p.gains.KI,
		"kd":         p.gains.KD,
		"setpoint":   p.setpoint,
		"max_effort": p.maxEffort,
		"max_p":      p.maxP,
		"max_i":      p.maxI,
		"max_d":      p.maxD,
		"pos_tol":    p.posTol,
		"vel_tol":    p.velTol,
	}
}

// SetParam adjusts a PID parameter by name.
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "kp":
		p.SetKP(value)
	case "ki":
		p.SetKI(value)
	case "kd":
		p.SetKD(value)
	case "setpoint":
		p.SetSetpoint(value)
	case "max_effort":
		p.SetMaxControlEffort(value)
	case "max_p":
		p.SetMaxP(value)
	case "max_i":
		p.SetMaxI(value)
	case "max_d":
		p.SetMaxD(value)
	case "pos_tol":
		p.posTol = value
	case "vel_tol":
		p.velTol = value
	default:
		return fmt.Errorf("pid: %w: %s", dynamo.ErrUnknownParam, name)
	}
	return nil
}
