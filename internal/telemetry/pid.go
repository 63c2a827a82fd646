package telemetry

import (
	"github.com/san-kum/ctrlkit/internal/control"
	"github.com/san-kum/ctrlkit/internal/dynamo"
)

// PIDLogger publishes every diagnostic of a PID on change. It is a
// dynamo.Observer, so a simulator can drive it once per tick.
type PIDLogger struct {
	pid *control.PID

	setpoint    *Channel[float64]
	measurement *Channel[float64]
	err         *Channel[float64]
	output      *Channel[float64]
	p, i, d     *Channel[float64]
	integral    *Channel[float64]
	velocity    *Channel[float64]
	atSetpoint  *Channel[bool]
	gains       *Channel[string]
}

func NewPIDLogger(rec *Recorder, subsystem string, pid *control.PID) *PIDLogger {
	return &PIDLogger{
		pid:         pid,
		setpoint:    NewChannel[float64](rec, subsystem, "setpoint"),
		measurement: NewChannel[float64](rec, subsystem, "measurement"),
		err:         NewChannel[float64](rec, subsystem, "error"),
		output:      NewChannel[float64](rec, subsystem, "output"),
		p:           NewChannel[float64](rec, subsystem, "p"),
		i:           NewChannel[float64](rec, subsystem, "i"),
		d:           NewChannel[float64](rec, subsystem, "d"),
		integral:    NewChannel[float64](rec, subsystem, "integral"),
		velocity:    NewChannel[float64](rec, subsystem, "velocity"),
		atSetpoint:  NewChannel[bool](rec, subsystem, "at_setpoint"),
		gains:       NewChannel[string](rec, subsystem, "gains"),
	}
}

// Log publishes the current diagnostics at time t.
func (l *PIDLogger) Log(t float64) {
	d := l.pid.Diagnostics()
	l.setpoint.Update(t, d.Setpoint)
	l.measurement.Update(t, d.Measurement)
	l.err.Update(t, d.Error)
	l.output.Update(t, d.Output)
	l.p.Update(t, d.P)
	l.i.Update(t, d.I)
	l.d.Update(t, d.D)
	l.integral.Update(t, d.Integral)
	l.velocity.Update(t, d.Velocity)
	l.atSetpoint.Update(t, d.AtSetpoint)
	l.gains.Update(t, d.Gains.String())
}

func (l *PIDLogger) OnStep(s dynamo.Sample) { l.Log(s.Time) }

var _ dynamo.Observer = (*PIDLogger)(nil)
