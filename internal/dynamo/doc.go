// Package dynamo provides the math and integration primitives shared by the
// flight core.
//
// The package defines:
//
//   - [Vec2]: 2D vector used for positions, velocities and forces
//   - [State]: flat state vector handed to integrators
//   - [System]: interface for ODE systems (dX/dt = f(X, u, t))
//   - [Integrator]: numerical stepper interface
//
// plus the angle helpers used by landing classification ([WrapAngle],
// [AngleBetween]).
//
// # Angle convention
//
// A heading angle θ puts the vehicle's nose along θ - π/2. A vehicle standing
// upright on a surface whose outward normal has angle φ therefore has
// θ = φ + π/2. With screen coordinates (y down) this makes θ = 0 "nose up".
package dynamo
