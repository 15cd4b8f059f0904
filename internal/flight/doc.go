// Package flight is the flight-dynamics core: it turns thruster commands and
// gravity into rigid-body motion and decides every step whether the vehicle
// is flying, landed or destroyed.
//
// The pieces, each depending only on what it needs:
//
//   - [Context]: owns the vehicle, the universe and the engine handles
//   - [Engine]: the rigid-body engine the core drives (see package rigid)
//   - [LandingMachine]: Flying / Landed(body) / Destroyed transitions from
//     contacts and a periodic geometric check
//   - [Attachment]: keeps a landed or wrecked vehicle fixed to its body
//   - [SyncManager]: copies state between the model and the engine,
//     whichever side is authoritative
//   - [Stabilizer]: optional angular-rate damping through the lateral
//     thrusters
//   - [Controller]: runs the step and exposes the commands
//
// # Step order
//
// [Controller.Step] advances orbits, handles liftoff and stabilisation,
// applies thrust and gravity, steps the engine, feeds its contacts and the
// periodic check to the landing machine, re-applies attachment, reconciles
// model and engine and finally returns (and publishes) a [Snapshot].
//
// Nothing in a step returns an error. Missing bodies, empty tanks and
// commands to a wrecked vehicle simply have no effect.
package flight
