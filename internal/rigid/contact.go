package rigid

import (
	"fmt"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

type Phase int

const (
	Begin Phase = iota
	Active
	End
)

func (p Phase) String() string {
	switch p {
	case Begin:
		return "begin"
	case Active:
		return "active"
	case End:
		return "end"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// ContactEvent describes one contact between two named bodies.
// RelativeVelocity is the velocity of A relative to B, sampled before the
// collision response of the step.
type ContactEvent struct {
	BodyA            string
	BodyB            string
	RelativeVelocity dynamo.Vec2
	Phase            Phase
}

// Involves reports whether name is one of the two bodies and returns the
// other one.
func (e ContactEvent) Involves(name string) (string, bool) {
	switch name {
	case e.BodyA:
		return e.BodyB, true
	case e.BodyB:
		return e.BodyA, true
	}
	return "", false
}

type CollisionObserver interface {
	OnContact(ev ContactEvent)
}

// ObserverFunc adapts a function to CollisionObserver.
type ObserverFunc func(ev ContactEvent)

func (f ObserverFunc) OnContact(ev ContactEvent) {
	f(ev)
}

type pairKey struct {
	a, b Handle
}

func makePair(a, b Handle) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}
