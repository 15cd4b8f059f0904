package physics

import (
	"math"
	"sort"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
)

// ThrustOutput is the effect of one thruster over one step, in world
// coordinates.
type ThrustOutput struct {
	ID       models.ThrusterID
	Force    dynamo.Vec2
	Point    dynamo.Vec2
	Torque   float64
	FuelUsed float64
}

type ThrusterModel struct{}

// Apply evaluates thruster id for a step of length dt and deducts its fuel.
// It returns false only when the vehicle has no such thruster. The force is
// zero when the vehicle is destroyed, the thruster is off or the tank cannot
// pay for the whole step.
func (ThrusterModel) Apply(v *models.Vehicle, id models.ThrusterID, dt float64) (ThrustOutput, bool) {
	t, ok := v.Thrusters[id]
	if !ok {
		return ThrustOutput{}, false
	}
	arm := t.Mount.Rotate(v.Angle)
	out := ThrustOutput{ID: id, Point: v.Position.Add(arm)}
	if v.State == models.Destroyed || t.Power <= 0 || dt <= 0 {
		return out, true
	}

	before := v.Fuel
	if !v.ConsumeFuel(t.FuelRate * t.Fraction() * dt) {
		out.FuelUsed = before
		return out, true
	}
	out.FuelUsed = before - v.Fuel
	out.Force = t.Direction().Rotate(v.Angle).Scale(t.MaxForce * t.Fraction())
	out.Torque = arm.Cross(out.Force)
	return out, true
}

// ApplyAll evaluates every thruster, standard ones first, the rest by id.
func (m ThrusterModel) ApplyAll(v *models.Vehicle, dt float64) []ThrustOutput {
	out := make([]ThrustOutput, 0, len(v.Thrusters))
	for _, id := range thrusterOrder(v) {
		if o, ok := m.Apply(v, id, dt); ok {
			out = append(out, o)
		}
	}
	return out
}

func thrusterOrder(v *models.Vehicle) []models.ThrusterID {
	ids := make([]models.ThrusterID, 0, len(v.Thrusters))
	seen := make(map[models.ThrusterID]bool, len(models.ThrusterIDs))
	for _, id := range models.ThrusterIDs {
		if _, ok := v.Thrusters[id]; ok {
			ids = append(ids, id)
			seen[id] = true
		}
	}
	var extra []models.ThrusterID
	for id := range v.Thrusters {
		if !seen[id] {
			extra = append(extra, id)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(ids, extra...)
}

// ThrustToWeight is the ratio of full main-thruster force to the local
// gravitational force. It is +Inf in free space and zero without a main
// thruster.
func ThrustToWeight(v *models.Vehicle, gravity dynamo.Vec2) float64 {
	t, ok := v.Thrusters[models.Main]
	if !ok {
		return 0
	}
	w := gravity.Len()
	if w == 0 {
		return math.Inf(1)
	}
	return t.MaxForce * t.MaxPower / 100 / w
}

// LiftoffRequested reports whether the main thruster is above fraction of
// its rated maximum power and there is fuel to back it.
func LiftoffRequested(v *models.Vehicle, fraction float64) bool {
	t, ok := v.Thrusters[models.Main]
	if !ok {
		return false
	}
	return v.Fuel > 0 && t.Power > fraction*t.MaxPower
}
