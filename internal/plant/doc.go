// Package plant holds the physical systems a closed loop can drive.
//
// Every plant implements dynamo.System and dynamo.Configurable. State
// layouts:
//
//	SpringMass  {position, velocity}   force input
//	Pendulum    {angle, angular rate}  torque input, angle not wrapped
//	Motor       {angle, speed}         voltage input
package plant
