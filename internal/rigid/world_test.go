package rigid

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/integrators"
)

type recorder struct {
	events []ContactEvent
}

func (r *recorder) OnContact(ev ContactEvent) {
	r.events = append(r.events, ev)
}

func (r *recorder) phases() []Phase {
	out := make([]Phase, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Phase
	}
	return out
}

func mustAdd(t *testing.T, w *World, spec BodySpec) Handle {
	t.Helper()
	h, err := w.AddBody(spec)
	if err != nil {
		t.Fatal(err)
	}
	return h
}

func TestAddBodyValidation(t *testing.T) {
	w := NewWorld(nil)
	mustAdd(t, w, BodySpec{Name: "ground", Kind: Static, Radius: 10})

	tests := []struct {
		name string
		spec BodySpec
		want error
	}{
		{"duplicate", BodySpec{Name: "ground", Kind: Static, Radius: 1}, dynamo.ErrDuplicateBody},
		{"no name", BodySpec{Kind: Static, Radius: 1}, dynamo.ErrInvalidConfig},
		{"no radius", BodySpec{Name: "a", Kind: Static}, dynamo.ErrInvalidConfig},
		{"massless", BodySpec{Name: "b", Radius: 1, Inertia: 1}, dynamo.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.AddBody(tt.spec)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestForceIntegration(t *testing.T) {
	w := NewWorld(nil)
	h := mustAdd(t, w, BodySpec{Name: "ship", Mass: 2, Inertia: 4, Radius: 1, Velocity: dynamo.V(1, 0)})

	w.ApplyForce(h, dynamo.V(0, 0), dynamo.V(4, -2))
	w.Step(0.1)

	v := w.Velocity(h)
	if math.Abs(v.X-1.2) > 1e-12 || math.Abs(v.Y+0.1) > 1e-12 {
		t.Errorf("expected velocity (1.2, -0.1), got %v", v)
	}
	if w.AngularVelocity(h) != 0 {
		t.Errorf("expected no spin from a central force, got %f", w.AngularVelocity(h))
	}

	// forces are cleared after the step
	w.Step(0.1)
	if v2 := w.Velocity(h); v2 != v {
		t.Errorf("expected constant velocity, got %v", v2)
	}
}

func TestConstantForceUnderRK4(t *testing.T) {
	integ, err := integrators.New("rk4")
	if err != nil {
		t.Fatal(err)
	}
	w := NewWorld(integ)
	h := mustAdd(t, w, BodySpec{Name: "ship", Mass: 2, Inertia: 4, Radius: 1, Velocity: dynamo.V(3, 0)})

	const dt, steps = 0.05, 40
	for i := 0; i < steps; i++ {
		w.ApplyForce(h, w.Position(h), dynamo.V(0, 9))
		w.Step(dt)
	}

	// a = (0, 4.5) so the path is a parabola RK4 follows exactly
	tt := dt * steps
	wantPos := dynamo.V(3*tt, 0.5*4.5*tt*tt)
	wantVel := dynamo.V(3, 4.5*tt)
	if got := w.Position(h); got.Sub(wantPos).Len() > 1e-9 {
		t.Errorf("expected position %v, got %v", wantPos, got)
	}
	if got := w.Velocity(h); got.Sub(wantVel).Len() > 1e-9 {
		t.Errorf("expected velocity %v, got %v", wantVel, got)
	}
	if w.AngularVelocity(h) != 0 {
		t.Errorf("expected no spin, got %f", w.AngularVelocity(h))
	}
}

func TestOffCentreForceSpins(t *testing.T) {
	w := NewWorld(integrators.NewRK4())
	h := mustAdd(t, w, BodySpec{Name: "ship", Mass: 1, Inertia: 2, Radius: 1})

	w.ApplyForce(h, dynamo.V(-1, 0), dynamo.V(0, -4))
	w.Step(0.5)

	if math.Abs(w.AngularVelocity(h)-1) > 1e-12 {
		t.Errorf("expected ω = 1, got %f", w.AngularVelocity(h))
	}
	if w.Angle(h) <= 0 {
		t.Errorf("expected positive rotation, got %f", w.Angle(h))
	}
}

func TestZeroStepIsNoop(t *testing.T) {
	w := NewWorld(nil)
	h := mustAdd(t, w, BodySpec{Name: "ship", Mass: 1, Inertia: 1, Radius: 1, Velocity: dynamo.V(3, 0)})
	w.Step(0)
	w.Step(-1)
	if w.Position(h) != (dynamo.Vec2{}) || w.Time() != 0 {
		t.Errorf("expected no motion, got %v at t=%f", w.Position(h), w.Time())
	}
}

func TestStaticAndKinematicDoNotIntegrate(t *testing.T) {
	w := NewWorld(nil)
	s := mustAdd(t, w, BodySpec{Name: "rock", Kind: Static, Radius: 1, Position: dynamo.V(50, 0)})
	k := mustAdd(t, w, BodySpec{Name: "moon", Kind: Kinematic, Radius: 1, Position: dynamo.V(-50, 0), Velocity: dynamo.V(0, 5)})

	w.ApplyForce(s, dynamo.V(50, 0), dynamo.V(100, 0))
	w.Step(1)

	if w.Position(s) != dynamo.V(50, 0) {
		t.Errorf("static body moved to %v", w.Position(s))
	}
	if w.Position(k) != dynamo.V(-50, 0) {
		t.Errorf("kinematic body moved to %v", w.Position(k))
	}
}

func TestContactPhases(t *testing.T) {
	w := NewWorld(nil)
	rec := &recorder{}
	w.Subscribe(rec)

	mustAdd(t, w, BodySpec{Name: "ground", Kind: Static, Radius: 10})
	ship := mustAdd(t, w, BodySpec{Name: "ship", Mass: 1, Inertia: 1, Radius: 1, Position: dynamo.V(0, -11.2)})

	w.Step(0.01)
	w.Step(0.01)
	w.SetPosition(ship, dynamo.V(0, -20))
	w.Step(0.01)
	w.Step(0.01)

	want := []Phase{Begin, Active, End}
	got := rec.phases()
	if len(got) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if other, ok := rec.events[0].Involves("ship"); !ok || other != "ground" {
		t.Errorf("expected ship/ground pair, got %+v", rec.events[0])
	}
}

func TestCollisionResponse(t *testing.T) {
	w := NewWorld(nil)
	w.Restitution = 0.5
	rec := &recorder{}
	w.Subscribe(rec)

	mustAdd(t, w, BodySpec{Name: "ground", Kind: Static, Radius: 10})
	ship := mustAdd(t, w, BodySpec{Name: "ship", Mass: 1, Inertia: 1, Radius: 1, Position: dynamo.V(0, -11.05), Velocity: dynamo.V(0, 10)})

	w.Step(0.01)

	gap := w.Position(ship).Len() - 11
	if gap < -1e-9 {
		t.Errorf("expected overlap resolved, gap %f", gap)
	}
	if v := w.Velocity(ship); math.Abs(v.Y+5) > 1e-9 {
		t.Errorf("expected bounce at -5, got %v", v)
	}
	if len(rec.events) != 1 {
		t.Fatalf("expected one event, got %d", len(rec.events))
	}
	rel := rec.events[0].RelativeVelocity
	if math.Abs(rel.Len()-10) > 1e-9 {
		t.Errorf("expected pre-response relative speed 10, got %f", rel.Len())
	}
}

func TestDynamicPairSplitsPushOut(t *testing.T) {
	w := NewWorld(nil)
	a := mustAdd(t, w, BodySpec{Name: "a", Mass: 1, Inertia: 1, Radius: 1, Position: dynamo.V(-0.9, 0)})
	b := mustAdd(t, w, BodySpec{Name: "b", Mass: 1, Inertia: 1, Radius: 1, Position: dynamo.V(0.9, 0)})
	w.Step(0.01)

	if math.Abs(w.Position(a).X+1) > 1e-9 || math.Abs(w.Position(b).X-1) > 1e-9 {
		t.Errorf("expected symmetric push-out, got %v and %v", w.Position(a), w.Position(b))
	}
}

func TestRemoveBody(t *testing.T) {
	w := NewWorld(nil)
	rec := &recorder{}
	w.Subscribe(rec)
	g := mustAdd(t, w, BodySpec{Name: "ground", Kind: Static, Radius: 10})
	mustAdd(t, w, BodySpec{Name: "ship", Mass: 1, Inertia: 1, Radius: 1, Position: dynamo.V(0, -11.1)})

	w.Step(0.01)
	w.RemoveBody(g)
	w.Step(0.01)

	if len(rec.events) != 1 {
		t.Errorf("expected only the begin event, got %d", len(rec.events))
	}
	if _, ok := w.Lookup("ground"); ok {
		t.Error("expected ground to be gone")
	}
	if w.Position(g) != (dynamo.Vec2{}) {
		t.Error("expected zero value for a removed handle")
	}
}
