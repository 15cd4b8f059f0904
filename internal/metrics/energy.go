package metrics

import (
	"math"

	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/models"
)

// Energy is the mean specific orbital energy of the vehicle relative to one
// body: v²/2 - GM/r.
type Energy struct {
	name        string
	g           float64
	body        *models.CelestialBody
	samples     int
	totalEnergy float64
}

func NewEnergy(g float64, body *models.CelestialBody) *Energy {
	return &Energy{
		name: "energy",
		g:    g,
		body: body,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s flight.Snapshot) {
	if en, ok := specificEnergy(e.g, e.body, s); ok {
		e.totalEnergy += en
		e.samples++
	}
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

func specificEnergy(g float64, b *models.CelestialBody, s flight.Snapshot) (float64, bool) {
	if b == nil {
		return 0, false
	}
	r := s.Position.Distance(b.Position)
	if r == 0 {
		return 0, false
	}
	v := s.Velocity.Sub(b.Velocity)
	return 0.5*v.LenSq() - g*b.Mass/r, true
}

// EnergyDrift is the largest relative change of specific energy over
// unpowered free-flight samples. It measures integrator error while
// coasting.
type EnergyDrift struct {
	name          string
	g             float64
	body          *models.CelestialBody
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(g float64, body *models.CelestialBody) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		g:    g,
		body: body,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s flight.Snapshot) {
	if s.FlightState != models.Flying || thrusting(s) {
		return
	}
	energy, ok := specificEnergy(e.g, e.body, s)
	if !ok {
		return
	}

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

func thrusting(s flight.Snapshot) bool {
	for _, f := range s.ThrusterForces {
		if !f.IsZero() {
			return true
		}
	}
	return false
}
