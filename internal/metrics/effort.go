package metrics

import (
	"github.com/san-kum/rocketsim/internal/flight"
)

// ControlEffort is the mean total thruster setting, in percent, per sample.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s flight.Snapshot) {
	for _, p := range s.ThrusterPowers {
		c.sum += p
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// FuelUsed is the fuel burned between the first and the latest sample.
type FuelUsed struct {
	first, last float64
	samples     int
}

func NewFuelUsed() *FuelUsed { return &FuelUsed{} }

func (f *FuelUsed) Name() string { return "fuel_used" }

func (f *FuelUsed) Observe(s flight.Snapshot) {
	if f.samples == 0 {
		f.first = s.Fuel
	}
	f.last = s.Fuel
	f.samples++
}

func (f *FuelUsed) Value() float64 {
	return f.first - f.last
}

func (f *FuelUsed) Reset() {
	f.first, f.last = 0, 0
	f.samples = 0
}
