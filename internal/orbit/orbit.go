// Package orbit moves mobile celestial bodies. The flight core treats the
// result as read-only input for each step.
package orbit

import (
	"fmt"
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
)

// Updater advances some bodies by dt seconds.
type Updater interface {
	Advance(dt float64)
}

// Circular keeps Body on a circle around Parent at constant angular speed.
type Circular struct {
	Body         *models.CelestialBody
	Parent       *models.CelestialBody
	Radius       float64
	AngularSpeed float64
	Phase        float64
}

// NewCircular derives the orbit radius and phase from the bodies' current
// positions. A negative period orbits clockwise.
func NewCircular(body, parent *models.CelestialBody, period float64) (*Circular, error) {
	if body == nil || parent == nil || body == parent {
		return nil, fmt.Errorf("orbit needs two distinct bodies: %w", dynamo.ErrInvalidConfig)
	}
	if period == 0 || math.IsNaN(period) {
		return nil, fmt.Errorf("orbit %s: period must be non-zero: %w", body.Name, dynamo.ErrInvalidConfig)
	}
	rel := body.Position.Sub(parent.Position)
	r := rel.Len()
	if r <= body.Radius+parent.Radius {
		return nil, fmt.Errorf("orbit %s: bodies overlap: %w", body.Name, dynamo.ErrInvalidConfig)
	}
	c := &Circular{
		Body:         body,
		Parent:       parent,
		Radius:       r,
		AngularSpeed: dynamo.TwoPi / period,
		Phase:        rel.Angle(),
	}
	body.IsMobile = true
	c.place()
	return c, nil
}

func (c *Circular) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	c.Phase = dynamo.WrapAngle(c.Phase + c.AngularSpeed*dt)
	c.place()
}

func (c *Circular) place() {
	offset := dynamo.FromAngle(c.Phase, c.Radius)
	c.Body.Position = c.Parent.Position.Add(offset)
	tangent := dynamo.FromAngle(c.Phase+math.Pi/2, c.AngularSpeed*c.Radius)
	c.Body.Velocity = c.Parent.Velocity.Add(tangent)
}

// System advances several updaters in order. Parents must come before the
// bodies orbiting them.
type System []Updater

func (s System) Advance(dt float64) {
	for _, u := range s {
		u.Advance(dt)
	}
}

// CircularSpeed is the speed of a circular orbit of radius r around mass m.
func CircularSpeed(g, m, r float64) float64 {
	if r <= 0 {
		return 0
	}
	return math.Sqrt(g * m / r)
}

// Period is the period of a circular orbit of radius r around mass m.
func Period(g, m, r float64) float64 {
	v := CircularSpeed(g, m, r)
	if v == 0 {
		return math.Inf(1)
	}
	return dynamo.TwoPi * r / v
}
