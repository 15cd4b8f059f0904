// Package viz is the live terminal dashboard for a flight, built on Bubble
// Tea. [App] picks a preset; [Model] flies it, drawing the vehicle and the
// nearby bodies on a Braille [Canvas].
//
// # Key Bindings
//
//	W/S     - Main thruster up/down
//	A/D     - Left/right thruster
//	B       - Rear thruster
//	F       - Spin stabiliser
//	R       - Reset on the home body
//	Space   - Pause/Resume
//	[ ]     - Replay history
package viz
