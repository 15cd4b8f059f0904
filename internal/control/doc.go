// Package control provides feedback controllers and pilots.
//
//   - [PID]: scalar Proportional-Integral-Derivative controller, used for
//     assisted stabilisation
//   - [Pilot]: decides thruster settings during batch runs
//   - [None], [Schedule], [Manual]: the available pilots
//
// # Usage
//
//	pilot, err := control.NewPilot(cfg.Pilot)
//	cmd := pilot.Command(t, vehicle)
//	for id, p := range cmd {
//	    ctrl.SetThrusterPower(id, p)
//	}
package control
