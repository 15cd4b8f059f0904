package rigid

import (
	"fmt"
	"sort"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/integrators"
)

const (
	DefaultContactSkin = 0.5
	DefaultRestitution = 0.4
)

type Kind int

const (
	Dynamic Kind = iota
	Static
	Kinematic
)

// Handle identifies a body inside one World.
type Handle int

// BodySpec describes a body to add to the world. Mass and Inertia are only
// used for dynamic bodies.
type BodySpec struct {
	Name            string
	Kind            Kind
	Position        dynamo.Vec2
	Velocity        dynamo.Vec2
	Angle           float64
	AngularVelocity float64
	Mass            float64
	Inertia         float64
	Radius          float64
}

type body struct {
	spec   BodySpec
	force  dynamo.Vec2
	torque float64
}

// Derive implements dynamo.System over [x y θ vx vy ω] with control
// [fx fy τ].
func (b *body) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	return dynamo.State{
		x[3], x[4], x[5],
		u[0] / b.spec.Mass, u[1] / b.spec.Mass, u[2] / b.spec.Inertia,
	}
}

func (b *body) StateDim() int   { return 6 }
func (b *body) ControlDim() int { return 3 }

func (b *body) state() dynamo.State {
	s := &b.spec
	return dynamo.State{s.Position.X, s.Position.Y, s.Angle, s.Velocity.X, s.Velocity.Y, s.AngularVelocity}
}

func (b *body) setState(x dynamo.State) {
	s := &b.spec
	s.Position = dynamo.V(x[0], x[1])
	s.Angle = x[2]
	s.Velocity = dynamo.V(x[3], x[4])
	s.AngularVelocity = x[5]
}

type World struct {
	// ContactSkin is the surface gap under which two bodies count as touching.
	ContactSkin float64
	Restitution float64

	integrator dynamo.Integrator
	bodies     map[Handle]*body
	names      map[string]Handle
	next       Handle
	contacts   map[pairKey]bool
	observers  []CollisionObserver
	time       float64
}

// NewWorld creates an empty world. A nil integrator selects the package
// default from integrators.
func NewWorld(integ dynamo.Integrator) *World {
	if integ == nil {
		integ, _ = integrators.New("")
	}
	return &World{
		ContactSkin: DefaultContactSkin,
		Restitution: DefaultRestitution,
		integrator:  integ,
		bodies:      make(map[Handle]*body),
		names:       make(map[string]Handle),
		contacts:    make(map[pairKey]bool),
	}
}

func (w *World) AddBody(spec BodySpec) (Handle, error) {
	if spec.Name == "" {
		return 0, fmt.Errorf("rigid body without name: %w", dynamo.ErrInvalidConfig)
	}
	if _, ok := w.names[spec.Name]; ok {
		return 0, fmt.Errorf("rigid body %s: %w", spec.Name, dynamo.ErrDuplicateBody)
	}
	if spec.Radius <= 0 {
		return 0, fmt.Errorf("rigid body %s: radius must be positive: %w", spec.Name, dynamo.ErrInvalidConfig)
	}
	if spec.Kind == Dynamic && (spec.Mass <= 0 || spec.Inertia <= 0) {
		return 0, fmt.Errorf("rigid body %s: mass and inertia must be positive: %w", spec.Name, dynamo.ErrInvalidConfig)
	}
	h := w.next
	w.next++
	w.bodies[h] = &body{spec: spec}
	w.names[spec.Name] = h
	return h, nil
}

// RemoveBody deletes a body. Contacts it was part of end silently.
func (w *World) RemoveBody(h Handle) {
	b, ok := w.bodies[h]
	if !ok {
		return
	}
	delete(w.names, b.spec.Name)
	delete(w.bodies, h)
	for k := range w.contacts {
		if k.a == h || k.b == h {
			delete(w.contacts, k)
		}
	}
}

func (w *World) Lookup(name string) (Handle, bool) {
	h, ok := w.names[name]
	return h, ok
}

func (w *World) Subscribe(o CollisionObserver) {
	w.observers = append(w.observers, o)
}

func (w *World) Time() float64 {
	return w.time
}

// ApplyForce accumulates force at a world point until the next Step. It has
// no effect on non-dynamic bodies.
func (w *World) ApplyForce(h Handle, point, force dynamo.Vec2) {
	b, ok := w.bodies[h]
	if !ok || b.spec.Kind != Dynamic {
		return
	}
	b.force = b.force.Add(force)
	b.torque += point.Sub(b.spec.Position).Cross(force)
}

func (w *World) Position(h Handle) dynamo.Vec2 {
	if b, ok := w.bodies[h]; ok {
		return b.spec.Position
	}
	return dynamo.Vec2{}
}

func (w *World) SetPosition(h Handle, p dynamo.Vec2) {
	if b, ok := w.bodies[h]; ok {
		b.spec.Position = p
	}
}

func (w *World) Velocity(h Handle) dynamo.Vec2 {
	if b, ok := w.bodies[h]; ok {
		return b.spec.Velocity
	}
	return dynamo.Vec2{}
}

func (w *World) SetVelocity(h Handle, v dynamo.Vec2) {
	if b, ok := w.bodies[h]; ok {
		b.spec.Velocity = v
	}
}

func (w *World) Angle(h Handle) float64 {
	if b, ok := w.bodies[h]; ok {
		return b.spec.Angle
	}
	return 0
}

func (w *World) SetAngle(h Handle, a float64) {
	if b, ok := w.bodies[h]; ok {
		b.spec.Angle = a
	}
}

func (w *World) AngularVelocity(h Handle) float64 {
	if b, ok := w.bodies[h]; ok {
		return b.spec.AngularVelocity
	}
	return 0
}

func (w *World) SetAngularVelocity(h Handle, omega float64) {
	if b, ok := w.bodies[h]; ok {
		b.spec.AngularVelocity = omega
	}
}

// Step integrates dynamic bodies, resolves overlaps and notifies observers.
// A non-positive dt does nothing.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	handles := w.sortedHandles()

	for _, h := range handles {
		b := w.bodies[h]
		if b.spec.Kind != Dynamic {
			continue
		}
		u := dynamo.Control{b.force.X, b.force.Y, b.torque}
		x := w.integrator.Step(b, b.state(), u, w.time, dt)
		if x.IsValid() {
			b.setState(x)
		}
		b.force = dynamo.Vec2{}
		b.torque = 0
	}
	w.time += dt

	events := w.collide(handles)
	for _, ev := range events {
		for _, o := range w.observers {
			o.OnContact(ev)
		}
	}
}

func (w *World) sortedHandles() []Handle {
	hs := make([]Handle, 0, len(w.bodies))
	for h := range w.bodies {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

func (w *World) collide(handles []Handle) []ContactEvent {
	var events []ContactEvent
	touching := make(map[pairKey]bool, len(w.contacts))

	for i, ha := range handles {
		a := w.bodies[ha]
		for _, hb := range handles[i+1:] {
			b := w.bodies[hb]
			if a.spec.Kind != Dynamic && b.spec.Kind != Dynamic {
				continue
			}
			gap := a.spec.Position.Distance(b.spec.Position) - a.spec.Radius - b.spec.Radius
			if gap >= w.ContactSkin {
				continue
			}
			rel := a.spec.Velocity.Sub(b.spec.Velocity)
			if gap < 0 {
				w.resolve(a, b, -gap)
			}
			key := makePair(ha, hb)
			touching[key] = true
			phase := Begin
			if w.contacts[key] {
				phase = Active
			}
			events = append(events, ContactEvent{
				BodyA:            a.spec.Name,
				BodyB:            b.spec.Name,
				RelativeVelocity: rel,
				Phase:            phase,
			})
		}
	}

	var ended []pairKey
	for key := range w.contacts {
		if !touching[key] {
			ended = append(ended, key)
		}
	}
	sort.Slice(ended, func(i, j int) bool {
		if ended[i].a != ended[j].a {
			return ended[i].a < ended[j].a
		}
		return ended[i].b < ended[j].b
	})
	for _, key := range ended {
		a, b := w.bodies[key.a], w.bodies[key.b]
		events = append(events, ContactEvent{
			BodyA:            a.spec.Name,
			BodyB:            b.spec.Name,
			RelativeVelocity: a.spec.Velocity.Sub(b.spec.Velocity),
			Phase:            End,
		})
	}

	w.contacts = touching
	return events
}

func inverseMass(b *body) float64 {
	if b.spec.Kind != Dynamic {
		return 0
	}
	return 1 / b.spec.Mass
}

// resolve separates two overlapping bodies along their centre line and
// removes the approaching part of their relative normal velocity.
func (w *World) resolve(a, b *body, depth float64) {
	delta := a.spec.Position.Sub(b.spec.Position)
	if delta.LenSq() == 0 {
		return
	}
	n := delta.Normalize()
	ia, ib := inverseMass(a), inverseMass(b)
	total := ia + ib
	if total == 0 {
		return
	}

	a.spec.Position = a.spec.Position.Add(n.Scale(depth * ia / total))
	b.spec.Position = b.spec.Position.Sub(n.Scale(depth * ib / total))

	vn := a.spec.Velocity.Sub(b.spec.Velocity).Dot(n)
	if vn >= 0 {
		return
	}
	j := -(1 + w.Restitution) * vn / total
	a.spec.Velocity = a.spec.Velocity.Add(n.Scale(j * ia))
	b.spec.Velocity = b.spec.Velocity.Sub(n.Scale(j * ib))
}
