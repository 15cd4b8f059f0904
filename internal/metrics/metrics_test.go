package metrics

import (
	"testing"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/models"
)

func TestFuelUsed(t *testing.T) {
	m := NewFuelUsed()
	for _, fuel := range []float64{100, 90, 75} {
		m.Observe(flight.Snapshot{Fuel: fuel})
	}
	if m.Value() != 25 {
		t.Errorf("expected 25 fuel used, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(flight.Snapshot{ThrusterPowers: map[models.ThrusterID]float64{models.Main: 60, models.Left: 20}})
	m.Observe(flight.Snapshot{ThrusterPowers: map[models.ThrusterID]float64{models.Main: 0}})
	if m.Value() != 40 {
		t.Errorf("expected mean effort 40, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability(0.2)
	if m.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %f", m.Value())
	}
	for _, w := range []float64{0, 0.1, -0.5, 0.3} {
		m.Observe(flight.Snapshot{AngularVelocity: w})
	}
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestTouchdowns(t *testing.T) {
	m := NewTouchdowns()
	states := []models.FlightState{models.Landed, models.Flying, models.Landed, models.Landed, models.Flying, models.Landed}
	for _, st := range states {
		m.Observe(flight.Snapshot{FlightState: st})
	}
	if m.Value() != 2 {
		t.Errorf("expected 2 touchdowns, got %f", m.Value())
	}
}

func TestMaxima(t *testing.T) {
	alt, speed := NewMaxAltitude(), NewMaxSpeed()
	for _, s := range []flight.Snapshot{
		{Nearest: "earth", Altitude: 10, Velocity: dynamo.V(3, 4)},
		{Nearest: "earth", Altitude: 40, Velocity: dynamo.V(1, 0)},
		{Altitude: 999},
	} {
		alt.Observe(s)
		speed.Observe(s)
	}
	if alt.Value() != 40 {
		t.Errorf("expected max altitude 40, got %f", alt.Value())
	}
	if speed.Value() != 5 {
		t.Errorf("expected max speed 5, got %f", speed.Value())
	}
}
