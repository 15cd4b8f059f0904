package flight

import (
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
	"github.com/san-kum/rocketsim/internal/rigid"
)

// Engine is the rigid-body engine the core drives. *rigid.World implements
// it.
type Engine interface {
	AddBody(spec rigid.BodySpec) (rigid.Handle, error)
	RemoveBody(h rigid.Handle)
	Step(dt float64)

	Position(h rigid.Handle) dynamo.Vec2
	SetPosition(h rigid.Handle, p dynamo.Vec2)
	Velocity(h rigid.Handle) dynamo.Vec2
	SetVelocity(h rigid.Handle, v dynamo.Vec2)
	Angle(h rigid.Handle) float64
	SetAngle(h rigid.Handle, a float64)
	AngularVelocity(h rigid.Handle) float64
	SetAngularVelocity(h rigid.Handle, omega float64)

	ApplyForce(h rigid.Handle, point, force dynamo.Vec2)
	Subscribe(o rigid.CollisionObserver)
}

// GravitySource gives the gravitational force on a point mass.
type GravitySource interface {
	Force(p dynamo.Vec2, mass float64, bodies []*models.CelestialBody) dynamo.Vec2
}

// StateSync moves vehicle state between the model and the engine.
type StateSync interface {
	Pull()
	Push()
	Reconcile()
}

var _ Engine = (*rigid.World)(nil)
