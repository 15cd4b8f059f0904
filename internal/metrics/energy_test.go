package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/models"
)

var earth = &models.CelestialBody{Name: "earth", Mass: 2e11, Radius: 720}

const g = 2.5e-5

func TestEnergy(t *testing.T) {
	m := NewEnergy(g, earth)

	s := flight.Snapshot{Position: dynamo.V(0, -1000), Velocity: dynamo.V(3, 4)}
	m.Observe(s)
	e1 := m.Value()

	expected := 0.5*25 - g*2e11/1000

	if math.Abs(e1-expected) > 1e-9 {
		t.Errorf("expected energy %f, got %f", expected, e1)
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}

	m.Observe(s)
	if math.Abs(m.Value()-expected) > 1e-9 {
		t.Errorf("expected energy %f after reset, got %f", expected, m.Value())
	}
}

func TestEnergyDriftIgnoresPoweredFlight(t *testing.T) {
	m := NewEnergyDrift(g, earth)

	coast := flight.Snapshot{Position: dynamo.V(0, -1000), Velocity: dynamo.V(0, 0)}
	m.Observe(coast)

	powered := coast
	powered.Velocity = dynamo.V(0, -50)
	powered.ThrusterForces = map[models.ThrusterID]dynamo.Vec2{models.Main: dynamo.V(0, -2000)}
	m.Observe(powered)

	if m.Value() != 0 {
		t.Errorf("expected no drift from powered sample, got %f", m.Value())
	}

	drifted := coast
	drifted.Velocity = dynamo.V(0, 10)
	m.Observe(drifted)

	e0 := -g * 2e11 / 1000
	want := 50 / math.Abs(e0)
	if math.Abs(m.Value()-want) > 1e-12 {
		t.Errorf("expected drift %f, got %f", want, m.Value())
	}
}
