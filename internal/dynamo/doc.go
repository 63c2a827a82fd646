// Package dynamo defines the primitives shared by the closed-loop harness
// that drives the control core:
//
//   - [State] and [Control]: plant state and actuator vectors
//   - [System]: plant dynamics (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper for a System
//   - [Controller]: host-loop side of a controller, called once per tick
//   - [Tracker]: controllers that expose measurement, setpoint and terms
//   - [Metric] and [Observer]: per-tick consumers of [Sample]s
//   - [Configurable]: live-tunable parameter sets
//
// # Example
//
//	dyn := plant.NewSpringMass()
//	ctrl := control.NewFeedback(pid, sensor)
//	s := sim.New(dyn, integrators.NewRK4(), ctrl)
//	result, _ := s.Run(ctx, x0, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Nothing in this package or its implementations is safe for concurrent use.
// Run independent loops on independent instances.
package dynamo
