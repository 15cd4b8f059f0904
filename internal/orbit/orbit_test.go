package orbit

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
)

func bodies() (*models.CelestialBody, *models.CelestialBody) {
	earth := &models.CelestialBody{Name: "earth", Mass: 2e11, Radius: 720}
	moon := &models.CelestialBody{Name: "moon", Position: dynamo.V(3600, 0), Mass: 5e9, Radius: 180}
	return earth, moon
}

func TestCircularKeepsRadius(t *testing.T) {
	earth, moon := bodies()
	c, err := NewCircular(moon, earth, 600)
	if err != nil {
		t.Fatal(err)
	}
	if !moon.IsMobile {
		t.Error("expected moon to be marked mobile")
	}

	for i := 0; i < 1000; i++ {
		c.Advance(0.1)
		if d := moon.Position.Distance(earth.Position); math.Abs(d-3600) > 1e-6 {
			t.Fatalf("step %d: radius drifted to %f", i, d)
		}
	}

	// 100 s of a 600 s period is 60 degrees.
	want := dynamo.FromAngle(math.Pi/3, 3600)
	if moon.Position.Distance(want) > 1e-6 {
		t.Errorf("expected %v, got %v", want, moon.Position)
	}
}

func TestCircularVelocityIsTangent(t *testing.T) {
	earth, moon := bodies()
	c, err := NewCircular(moon, earth, 600)
	if err != nil {
		t.Fatal(err)
	}
	c.Advance(12.3)

	rel := moon.Position.Sub(earth.Position)
	if math.Abs(rel.Dot(moon.Velocity)) > 1e-6 {
		t.Errorf("expected tangential velocity, dot = %f", rel.Dot(moon.Velocity))
	}
	wantSpeed := dynamo.TwoPi * 3600 / 600
	if math.Abs(moon.Velocity.Len()-wantSpeed) > 1e-9 {
		t.Errorf("expected speed %f, got %f", wantSpeed, moon.Velocity.Len())
	}
}

func TestNewCircularErrors(t *testing.T) {
	earth, moon := bodies()
	tests := []struct {
		name         string
		body, parent *models.CelestialBody
		period       float64
	}{
		{"self", earth, earth, 10},
		{"nil", moon, nil, 10},
		{"zero period", moon, earth, 0},
		{"overlap", &models.CelestialBody{Name: "rock", Position: dynamo.V(800, 0), Radius: 100}, earth, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCircular(tt.body, tt.parent, tt.period)
			if !errors.Is(err, dynamo.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestSystemOrder(t *testing.T) {
	earth, moon := bodies()
	sat := &models.CelestialBody{Name: "sat", Position: dynamo.V(4000, 0), Radius: 10}
	moonOrbit, _ := NewCircular(moon, earth, 600)
	satOrbit, err := NewCircular(sat, moon, 60)
	if err != nil {
		t.Fatal(err)
	}
	sys := System{moonOrbit, satOrbit}
	sys.Advance(5)
	if d := sat.Position.Distance(moon.Position); math.Abs(d-400) > 1e-6 {
		t.Errorf("expected satellite to follow moon at 400, got %f", d)
	}
}

func TestCircularSpeed(t *testing.T) {
	v := CircularSpeed(1, 100, 4)
	if v != 5 {
		t.Errorf("expected 5, got %f", v)
	}
	if p := Period(1, 100, 4); math.Abs(p-dynamo.TwoPi*4/5) > 1e-12 {
		t.Errorf("unexpected period %f", p)
	}
	if !math.IsInf(Period(1, 100, 0), 1) {
		t.Error("expected infinite period at zero radius")
	}
}
