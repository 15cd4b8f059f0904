package models

import (
	"fmt"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

// Vehicle is the simulated rocket: its physical state as last synchronised
// with the rigid-body engine plus the logical flight state.
type Vehicle struct {
	Position        dynamo.Vec2
	Velocity        dynamo.Vec2
	Angle           float64
	AngularVelocity float64

	Mass    float64
	Inertia float64
	// Radius is used for landing classification, CollisionRadius for the
	// rigid shape.
	Radius          float64
	CollisionRadius float64

	Fuel      float64
	FuelMax   float64
	Health    float64
	HealthMax float64

	Thrusters map[ThrusterID]*Thruster

	State      FlightState
	LandedOn   string
	AttachedTo string
	// RelativePosition is the offset from a mobile body's centre while
	// attached to it. Nil otherwise.
	RelativePosition *dynamo.Vec2
}

// NewVehicle creates a vehicle with full fuel and health and no thrusters.
func NewVehicle(mass, inertia, radius, collisionRadius, fuelMax, healthMax float64) (*Vehicle, error) {
	if mass <= 0 || inertia <= 0 {
		return nil, fmt.Errorf("vehicle mass and inertia must be positive: %w", dynamo.ErrInvalidConfig)
	}
	if radius <= 0 || collisionRadius <= 0 {
		return nil, fmt.Errorf("vehicle radii must be positive: %w", dynamo.ErrInvalidConfig)
	}
	if fuelMax < 0 || healthMax <= 0 {
		return nil, fmt.Errorf("vehicle fuel/health capacity: %w", dynamo.ErrInvalidConfig)
	}
	return &Vehicle{
		Mass:            mass,
		Inertia:         inertia,
		Radius:          radius,
		CollisionRadius: collisionRadius,
		Fuel:            fuelMax,
		FuelMax:         fuelMax,
		Health:          healthMax,
		HealthMax:       healthMax,
		Thrusters:       make(map[ThrusterID]*Thruster),
	}, nil
}

// AddThruster registers t under its ID, replacing any previous thruster
// with the same ID.
func (v *Vehicle) AddThruster(t *Thruster) error {
	if t.ID == "" {
		return fmt.Errorf("thruster without id: %w", dynamo.ErrInvalidConfig)
	}
	if t.MaxPower < 0 || t.MaxForce < 0 || t.FuelRate < 0 {
		return fmt.Errorf("thruster %s: negative rating: %w", t.ID, dynamo.ErrInvalidConfig)
	}
	v.Thrusters[t.ID] = t
	return nil
}

func (v *Vehicle) Thruster(id ThrusterID) (*Thruster, bool) {
	t, ok := v.Thrusters[id]
	return t, ok
}

// SetThrusterPower clamps and applies a power command. Commands for a
// destroyed vehicle are accepted and recorded as zero.
func (v *Vehicle) SetThrusterPower(id ThrusterID, percent float64) (float64, error) {
	t, ok := v.Thrusters[id]
	if !ok {
		return 0, fmt.Errorf("%s: %w", id, dynamo.ErrUnknownThruster)
	}
	if v.State == Destroyed {
		return t.SetPower(0), nil
	}
	return t.SetPower(percent), nil
}

// CutThrust sets every thruster to zero power.
func (v *Vehicle) CutThrust() {
	for _, t := range v.Thrusters {
		t.Power = 0
	}
}

// ConsumeFuel removes amount from the tank. If the tank cannot cover the
// whole amount it is emptied and ConsumeFuel returns false.
func (v *Vehicle) ConsumeFuel(amount float64) bool {
	if amount <= 0 {
		return true
	}
	if amount > v.Fuel {
		v.Fuel = 0
		return false
	}
	v.Fuel -= amount
	return true
}

// ApplyDamage lowers health by amount, never below zero. When health hits
// zero the vehicle is destroyed against body (which may be empty) and
// ApplyDamage returns true. Destruction happens at most once.
func (v *Vehicle) ApplyDamage(amount float64, body string) bool {
	if amount <= 0 || v.State == Destroyed {
		return false
	}
	v.Health -= amount
	if v.Health > 0 {
		return false
	}
	v.Health = 0
	v.State = Destroyed
	if body == "" {
		body = v.LandedOn
	}
	v.AttachedTo = body
	v.LandedOn = ""
	v.CutThrust()
	return true
}

// Refill restores fuel and health to capacity.
func (v *Vehicle) Refill() {
	v.Fuel = v.FuelMax
	v.Health = v.HealthMax
}

// Detach clears all attachment data.
func (v *Vehicle) Detach() {
	v.LandedOn = ""
	v.AttachedTo = ""
	v.RelativePosition = nil
}

// Anchor returns the body the vehicle is riding on, if any.
func (v *Vehicle) Anchor() string {
	switch v.State {
	case Landed:
		return v.LandedOn
	case Destroyed:
		return v.AttachedTo
	}
	return ""
}

// Speed is the magnitude of the linear velocity.
func (v *Vehicle) Speed() float64 {
	return v.Velocity.Len()
}
