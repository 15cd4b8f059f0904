package flight

import (
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
)

// Snapshot is a read-only copy of the vehicle state after a step.
type Snapshot struct {
	Time             float64                           `json:"time"`
	Position         dynamo.Vec2                       `json:"position"`
	Velocity         dynamo.Vec2                       `json:"velocity"`
	Angle            float64                           `json:"angle"`
	AngularVelocity  float64                           `json:"angular_velocity"`
	Fuel             float64                           `json:"fuel"`
	Health           float64                           `json:"health"`
	FlightState      models.FlightState                `json:"flight_state"`
	LandedOn         string                            `json:"landed_on,omitempty"`
	AttachedTo       string                            `json:"attached_to,omitempty"`
	RelativePosition *dynamo.Vec2                      `json:"relative_position,omitempty"`
	ThrusterPowers   map[models.ThrusterID]float64     `json:"thruster_powers"`
	ThrusterForces   map[models.ThrusterID]dynamo.Vec2 `json:"thruster_forces"`
	// GravityVector is the gravitational acceleration applied during the
	// step.
	GravityVector dynamo.Vec2 `json:"gravity"`
	Nearest       string      `json:"nearest,omitempty"`
	Altitude      float64     `json:"altitude"`
	Assisted      bool        `json:"assisted"`
}

// Speed is the magnitude of the snapshot velocity.
func (s Snapshot) Speed() float64 {
	return s.Velocity.Len()
}
