package flight

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/logging"
	"github.com/san-kum/rocketsim/internal/models"
	"github.com/san-kum/rocketsim/internal/rigid"
)

// VehicleBody is the engine body name of the vehicle.
const VehicleBody = "vehicle"

// Context is the simulation state shared by the flight components.
type Context struct {
	Vehicle    *models.Vehicle
	Universe   *models.Universe
	Engine     Engine
	Thresholds config.Thresholds
	Log        zerolog.Logger
	// Time is the simulated time of the last completed step.
	Time float64

	vehicle rigid.Handle
	bodies  map[string]rigid.Handle
	warned  logging.Once
}

// NewContext registers the vehicle and every celestial body with the
// engine. Mobile bodies become kinematic, the others static.
func NewContext(v *models.Vehicle, u *models.Universe, engine Engine, th config.Thresholds, log zerolog.Logger) (*Context, error) {
	if v == nil || u == nil || engine == nil {
		return nil, fmt.Errorf("flight context needs a vehicle, a universe and an engine: %w", dynamo.ErrInvalidConfig)
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}
	c := &Context{
		Vehicle:    v,
		Universe:   u,
		Engine:     engine,
		Thresholds: th,
		Log:        log,
		bodies:     make(map[string]rigid.Handle),
	}

	h, err := engine.AddBody(rigid.BodySpec{
		Name:            VehicleBody,
		Kind:            rigid.Dynamic,
		Position:        v.Position,
		Velocity:        v.Velocity,
		Angle:           v.Angle,
		AngularVelocity: v.AngularVelocity,
		Mass:            v.Mass,
		Inertia:         v.Inertia,
		Radius:          v.CollisionRadius,
	})
	if err != nil {
		return nil, err
	}
	c.vehicle = h

	for _, b := range u.Bodies() {
		kind := rigid.Static
		if b.IsMobile {
			kind = rigid.Kinematic
		}
		h, err := engine.AddBody(rigid.BodySpec{
			Name:     b.Name,
			Kind:     kind,
			Position: b.Position,
			Velocity: b.Velocity,
			Radius:   b.Radius,
		})
		if err != nil {
			return nil, err
		}
		c.bodies[b.Name] = h
	}
	return c, nil
}

func (c *Context) VehicleHandle() rigid.Handle {
	return c.vehicle
}

func (c *Context) BodyHandle(name string) (rigid.Handle, bool) {
	h, ok := c.bodies[name]
	return h, ok
}

// Body looks a celestial body up by name. A missing body is reported once
// per name.
func (c *Context) Body(name string) (*models.CelestialBody, bool) {
	b, ok := c.Universe.Body(name)
	if !ok {
		c.Missing(name)
	}
	return b, ok
}

// Missing logs, once per name, a reference to a body that does not exist.
func (c *Context) Missing(name string) {
	c.warned.Do("body:"+name, func() {
		c.Log.Warn().Str("body", name).Msg("reference to unknown celestial body ignored")
	})
}

// ResetWarnings re-arms the once-per-name missing body warnings.
func (c *Context) ResetWarnings() {
	c.warned.Reset()
}

// SyncBodies copies mobile body positions into the engine and drops engine
// bodies whose celestial body has been removed.
func (c *Context) SyncBodies() {
	for name, h := range c.bodies {
		b, ok := c.Universe.Body(name)
		if !ok {
			c.Engine.RemoveBody(h)
			delete(c.bodies, name)
			c.Missing(name)
			continue
		}
		if b.IsMobile {
			c.Engine.SetPosition(h, b.Position)
			c.Engine.SetVelocity(h, b.Velocity)
		}
	}
}
