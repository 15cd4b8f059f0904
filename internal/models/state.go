package models

import "fmt"

// FlightState is the logical relationship of the vehicle to the bodies
// around it.
type FlightState int

const (
	Flying FlightState = iota
	Landed
	Destroyed
)

var flightStateNames = map[FlightState]string{
	Flying:    "flying",
	Landed:    "landed",
	Destroyed: "destroyed",
}

func (s FlightState) String() string {
	if name, ok := flightStateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("FlightState(%d)", int(s))
}

func (s FlightState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *FlightState) UnmarshalText(text []byte) error {
	for state, name := range flightStateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown flight state %q", text)
}
