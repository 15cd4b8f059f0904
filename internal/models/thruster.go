package models

import (
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

type ThrusterID string

const (
	Main  ThrusterID = "main"
	Rear  ThrusterID = "rear"
	Left  ThrusterID = "left"
	Right ThrusterID = "right"
)

// ThrusterIDs lists the standard thrusters in display order.
var ThrusterIDs = []ThrusterID{Main, Rear, Left, Right}

// ThrusterKind decides the thrust direction in the body frame.
type ThrusterKind string

const (
	// KindMain pushes along the forward axis.
	KindMain ThrusterKind = "main"
	// KindRear pushes against the forward axis.
	KindRear ThrusterKind = "rear"
	// KindLateral pushes along the forward axis from an off-centre mount, so
	// it mostly turns the vehicle.
	KindLateral ThrusterKind = "lateral"
)

// Thruster is one engine on the vehicle. Power is a percentage in
// [0, MaxPower].
type Thruster struct {
	ID       ThrusterID
	Kind     ThrusterKind
	Power    float64
	MaxPower float64
	MaxForce float64
	// Mount is the attachment point in the body frame, relative to the
	// centre of mass. Body frame has the nose along -Y.
	Mount    dynamo.Vec2
	FuelRate float64
}

// Direction returns the unit thrust direction in the body frame.
func (t *Thruster) Direction() dynamo.Vec2 {
	if t.Kind == KindRear {
		return dynamo.V(0, 1)
	}
	return dynamo.V(0, -1)
}

// SetPower clamps percent into [0, MaxPower] and returns the applied value.
// NaN is treated as zero.
func (t *Thruster) SetPower(percent float64) float64 {
	if math.IsNaN(percent) {
		percent = 0
	}
	t.Power = math.Max(0, math.Min(percent, t.MaxPower))
	return t.Power
}

// Fraction is the current power as a fraction of full rated force.
func (t *Thruster) Fraction() float64 {
	return t.Power / 100
}

// Active reports whether the thruster is commanded above zero.
func (t *Thruster) Active() bool {
	return t.Power > 0
}
