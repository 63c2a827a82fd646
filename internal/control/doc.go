// Package control provides the PID feedback controller and its adapter to a
// closed control loop.
//
//   - [PID]: Proportional-Integral-Derivative controller with a windowed
//     integral, angle wrapping, and per-term and total output clamps
//   - [Feedback]: runs sensor, input filters, PID and output filters once per
//     tick as a [dynamo.Controller]
//   - [None]: zero control, for open-loop runs
//
// # Usage
//
//	pid := control.NewPID(control.Gains{KP: 1.0, KI: 0.1, KD: 0.01}, 50, 0.0, false)
//	pid.SetMaxControlEffort(12)
//	effort := pid.CalculateDt(measurement, 0.02)
//
// The PID itself never blocks, logs or allocates beyond its integral window.
// Controllers implementing [dynamo.Configurable] support live tuning.
package control
