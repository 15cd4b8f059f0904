// Package physics provides the force models that drive the vehicle.
//
//   - [GravityField]: inverse-square attraction towards every celestial body
//   - [ThrusterModel]: thruster power settings to forces, torques and fuel use
//
// Both are pure functions of their inputs apart from fuel consumption, which
// [ThrusterModel.Apply] deducts from the vehicle it is given.
//
// # Frames
//
// Thruster mounts and directions are expressed in the vehicle body frame,
// where the nose points along -Y. They are rotated by the vehicle heading
// into world coordinates before being handed to the rigid-body engine:
//
//	out, ok := physics.ThrusterModel{}.Apply(vehicle, models.Main, dt)
//	if ok && !out.Force.IsZero() {
//	    engine.ApplyForce(handle, out.Point, out.Force)
//	}
package physics
