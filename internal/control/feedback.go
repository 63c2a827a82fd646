package control

import (
	"github.com/san-kum/ctrlkit/internal/dynamo"
	"github.com/san-kum/ctrlkit/internal/filter"
)

// Sensor turns plant state into the scalar measurement the PID sees.
type Sensor interface {
	Measure(x dynamo.State, t float64) float64
}

// SensorFunc adapts a plain function to Sensor.
type SensorFunc func(x dynamo.State, t float64) float64

func (f SensorFunc) Measure(x dynamo.State, t float64) float64 { return f(x, t) }

// StateSensor reads one state component without noise.
func StateSensor(index int) Sensor {
	return SensorFunc(func(x dynamo.State, t float64) float64 {
		if index < 0 || index >= len(x) {
			return 0
		}
		return x[index]
	})
}

// Feedback closes the loop around a PID. Each tick it measures the plant,
// shapes the measurement with the input filter, runs the PID and shapes the
// effort with the output filter, all with the same dt.
type Feedback struct {
	pid    *PID
	sensor Sensor
	input  filter.Filter
	output filter.Filter

	lastT   float64
	started bool
	raw     float64
}

// NewFeedback builds a loop adapter. Nil filters pass values through.
func NewFeedback(pid *PID, sensor Sensor, input, output filter.Filter) *Feedback {
	if input == nil {
		input = filter.NewNull()
	}
	if output == nil {
		output = filter.NewNull()
	}
	return &Feedback{
		pid:    pid,
		sensor: sensor,
		input:  input,
		output: output,
	}
}

// Compute runs one tick at time t. dt is the time since the previous tick,
// or t itself on the first tick.
func (f *Feedback) Compute(x dynamo.State, t float64) dynamo.Control {
	dt := t
	if f.started {
		dt = t - f.lastT
	}
	f.lastT = t
	f.started = true

	f.raw = f.sensor.Measure(x, t)
	measurement := f.input.CalculateDt(f.raw, dt)
	effort := f.pid.CalculateDt(measurement, dt)
	return dynamo.Control{f.output.CalculateDt(effort, dt)}
}

func (f *Feedback) PID() *PID { return f.pid }

// RawMeasurement returns the last sensor reading before filtering.
func (f *Feedback) RawMeasurement() float64 { return f.raw }

func (f *Feedback) Measurement() float64 { return f.pid.LastMeasurement() }

func (f *Feedback) Setpoint() float64 { return f.pid.Setpoint() }

func (f *Feedback) Error() float64 { return f.pid.LastError() }

func (f *Feedback) Terms() (p, i, d float64) {
	return f.pid.PContribution(), f.pid.IContribution(), f.pid.DContribution()
}

// ResetControl clears the PID and both filters but keeps the tick timing,
// so a reset in the middle of a run still sees the real tick length.
func (f *Feedback) ResetControl() {
	f.pid.Reset()
	f.input.Reset()
	f.output.Reset()
	f.raw = 0
}

// Reset clears the controller and the tick timing. Use it only when the loop
// starts over from t=0.
func (f *Feedback) Reset() {
	f.ResetControl()
	f.started = false
	f.lastT = 0
}

func (f *Feedback) GetParams() map[string]float64 { return f.pid.GetParams() }

func (f *Feedback) SetParam(name string, value float64) error {
	return f.pid.SetParam(name, value)
}

var (
	_ dynamo.Controller   = (*Feedback)(nil)
	_ dynamo.Tracker      = (*Feedback)(nil)
	_ dynamo.Configurable = (*Feedback)(nil)
	_ dynamo.Configurable = (*PID)(nil)
	_ dynamo.Controller   = (*None)(nil)
)
