package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

type oscillator struct{}

func (o *oscillator) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (o *oscillator) StateDim() int   { return 2 }
func (o *oscillator) ControlDim() int { return 0 }

// constantPush is a unit mass under a constant force u[0].
type constantPush struct{}

func (c *constantPush) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[1], u[0]}
}

func (c *constantPush) StateDim() int   { return 2 }
func (c *constantPush) ControlDim() int { return 1 }

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(&oscillator{}, x, nil, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)
	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestConstantForceVelocity(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			integ, err := New(name)
			if err != nil {
				t.Fatal(err)
			}
			x := integ.Step(&constantPush{}, dynamo.State{0, 1}, dynamo.Control{2}, 0, 0.1)
			if math.Abs(x[1]-1.2) > 1e-12 {
				t.Errorf("expected velocity 1.2, got %f", x[1])
			}
			if x[0] <= 0 {
				t.Errorf("expected forward motion, got %f", x[0])
			}
		})
	}
}

func TestSemiImplicitUsesNewVelocity(t *testing.T) {
	x := NewSemiImplicitEuler().Step(&constantPush{}, dynamo.State{0, 0}, dynamo.Control{1}, 0, 0.5)
	if x[0] != 0.25 {
		t.Errorf("expected position 0.25, got %f", x[0])
	}
	x = NewEuler().Step(&constantPush{}, dynamo.State{0, 0}, dynamo.Control{1}, 0, 0.5)
	if x[0] != 0 {
		t.Errorf("expected explicit euler position 0, got %f", x[0])
	}
}

func TestVerletEnergy(t *testing.T) {
	integ := NewVerlet()
	x := dynamo.State{1.0, 0.0}
	for i := 0; i < 10000; i++ {
		x = integ.Step(&oscillator{}, x, nil, 0, 0.01)
	}
	energy := 0.5 * (x[0]*x[0] + x[1]*x[1])
	if math.Abs(energy-0.5) > 1e-3 {
		t.Errorf("energy drifted: got %f", energy)
	}
}

func TestNewUnknown(t *testing.T) {
	_, err := New("leapfrog")
	if !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	integ, err := New("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := integ.(*SemiImplicitEuler); !ok {
		t.Errorf("expected default semi-implicit euler, got %T", integ)
	}
}

func BenchmarkRK4(b *testing.B) {
	integ := NewRK4()
	x := dynamo.State{1, 0, 0, 0, 0, 0}
	dyn := &sixDim{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(dyn, x, nil, 0, 0.01)
	}
}

type sixDim struct{}

func (s *sixDim) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{x[3], x[4], x[5], -x[0], -x[1], 0}
}

func (s *sixDim) StateDim() int   { return 6 }
func (s *sixDim) ControlDim() int { return 0 }
