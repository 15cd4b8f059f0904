// Package rigid is a small 2D rigid-body engine for circular bodies.
//
// A [World] holds dynamic, static and kinematic circles. Dynamic bodies are
// integrated from the forces applied since the previous step with any
// [dynamo.Integrator]; static bodies never move; kinematic bodies move only
// when their position is set from outside (for example by an orbit updater)
// but still report their velocity in contacts.
//
// After integration every pair that involves a dynamic body is checked for
// overlap. Overlap is resolved by pushing the bodies apart and removing the
// approaching normal velocity, scaled by the world restitution. A pair whose
// surfaces are closer than [World.ContactSkin] is in contact, and observers
// receive one [ContactEvent] per contact per step: [Begin] on the first such
// step, [Active] while it lasts, [End] on the first step it no longer holds.
package rigid
