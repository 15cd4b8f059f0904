package flight

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/event"
	"github.com/san-kum/rocketsim/internal/integrators"
	"github.com/san-kum/rocketsim/internal/models"
	"github.com/san-kum/rocketsim/internal/orbit"
	"github.com/san-kum/rocketsim/internal/physics"
	"github.com/san-kum/rocketsim/internal/rigid"
)

const (
	MinTimeScale = 0.1
	MaxTimeScale = 10.0
)

// Controller runs the flight core one step at a time. It is not safe for
// concurrent use; drive it from a single goroutine.
type Controller struct {
	ctx     *Context
	gravity GravitySource
	thrust  physics.ThrusterModel
	landing *LandingMachine
	attach  *Attachment
	sync    *SyncManager
	assist  *Stabilizer
	orbits  orbit.Updater
	bus     *event.Bus

	timeScale float64
	pending   []rigid.ContactEvent
	forces    map[models.ThrusterID]dynamo.Vec2
	gravityAc dynamo.Vec2
}

type Option func(*Controller)

// WithBus publishes snapshots and state changes on b.
func WithBus(b *event.Bus) Option {
	return func(c *Controller) { c.bus = b }
}

// WithOrbits moves mobile bodies at the start of every step.
func WithOrbits(u orbit.Updater) Option {
	return func(c *Controller) { c.orbits = u }
}

func WithGravity(g GravitySource) Option {
	return func(c *Controller) { c.gravity = g }
}

func WithAssist(cfg config.AssistConfig) Option {
	return func(c *Controller) { c.assist = NewStabilizer(cfg) }
}

// NewController wires the flight components around ctx. The vehicle keeps
// whatever state ctx holds; call ResetVehicle for the standard start.
func NewController(ctx *Context, opts ...Option) *Controller {
	attach := &Attachment{}
	c := &Controller{
		ctx:       ctx,
		gravity:   physics.NewGravityField(config.DefaultG),
		attach:    attach,
		landing:   NewLandingMachine(ctx, attach),
		sync:      NewSyncManager(ctx),
		assist:    NewStabilizer(config.AssistConfig{Kp: config.DefaultKp, Ki: config.DefaultKi, Kd: config.DefaultKd}),
		timeScale: 1,
		forces:    make(map[models.ThrusterID]dynamo.Vec2),
	}
	for _, opt := range opts {
		opt(c)
	}
	ctx.Engine.Subscribe(rigid.ObserverFunc(func(ev rigid.ContactEvent) {
		c.pending = append(c.pending, ev)
	}))
	return c
}

// FromConfig builds the vehicle, the universe, the engine and the
// controller described by cfg, and applies its start placement.
func FromConfig(cfg *config.Config, log zerolog.Logger, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v, err := cfg.BuildVehicle()
	if err != nil {
		return nil, err
	}
	u, orbits, err := cfg.BuildUniverse()
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	world := rigid.NewWorld(integ)
	if cfg.Engine.ContactSkin > 0 {
		world.ContactSkin = cfg.Engine.ContactSkin
	}
	world.Restitution = cfg.Engine.Restitution

	ctx, err := NewContext(v, u, world, cfg.Thresholds, log)
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithOrbits(orbits),
		WithGravity(&physics.GravityField{G: cfg.Gravity.G, Softening: cfg.Gravity.Softening}),
		WithAssist(cfg.Assist),
	}
	c := NewController(ctx, append(base, opts...)...)
	if cfg.TimeScale > 0 {
		c.SetTimeScale(cfg.TimeScale)
	}
	c.ResetVehicle()

	if s := cfg.Start; s.Body != "" {
		err := c.Place(Placement{
			Body:     s.Body,
			Altitude: s.Altitude,
			Bearing:  dynamo.Deg(s.Bearing),
			Tilt:     dynamo.Deg(s.Tilt),
			Velocity: dynamo.V(s.VX, s.VY),
			Spin:     s.Spin,
		})
		if err != nil {
			return nil, err
		}
	}
	log.Debug().Int("bodies", u.Len()).Str("integrator", cfg.Integrator).Msg("flight controller ready")
	return c, nil
}

func (c *Controller) Context() *Context {
	return c.ctx
}

func (c *Controller) Vehicle() *models.Vehicle {
	return c.ctx.Vehicle
}

func (c *Controller) Universe() *models.Universe {
	return c.ctx.Universe
}

func (c *Controller) Time() float64 {
	return c.ctx.Time
}

func (c *Controller) Bus() *event.Bus {
	return c.bus
}

// Step advances the simulation by dt seconds of wall time, scaled by the
// time scale and capped at the configured maximum step. A non-positive dt
// changes nothing.
func (c *Controller) Step(dt float64) Snapshot {
	if !(dt > 0) {
		return c.Snapshot()
	}
	dt = math.Min(dt*c.timeScale, c.ctx.Thresholds.MaxDt)
	v := c.ctx.Vehicle

	if c.orbits != nil {
		c.orbits.Advance(dt)
	}
	c.ctx.SyncBodies()

	if c.landing.Liftoff() {
		c.sync.Push()
	}
	c.assist.Apply(v, dt)
	c.holdAttachment()
	c.sync.Reconcile()

	outputs := c.thrust.ApplyAll(v, dt)
	bodies := c.ctx.Universe.Bodies()
	gravity := c.gravity.Force(v.Position, v.Mass, bodies)
	h := c.ctx.VehicleHandle()
	if c.sync.EngineAuthoritative() {
		for _, o := range outputs {
			if !o.Force.IsZero() {
				c.ctx.Engine.ApplyForce(h, o.Point, o.Force)
			}
		}
		c.ctx.Engine.ApplyForce(h, v.Position, gravity)
	}

	c.ctx.Engine.Step(dt)
	c.ctx.Time += dt
	if c.sync.EngineAuthoritative() {
		c.sync.Pull()
	}

	contacts := c.pending
	c.pending = nil
	for _, ev := range contacts {
		c.landing.HandleContact(ev)
	}
	c.landing.PeriodicCheck(dt)

	c.holdAttachment()
	c.sync.Reconcile()

	for id := range c.forces {
		delete(c.forces, id)
	}
	if c.sync.EngineAuthoritative() {
		for _, o := range outputs {
			c.forces[o.ID] = o.Force
		}
	}
	c.gravityAc = gravity.Scale(1 / v.Mass)

	snap := c.Snapshot()
	c.publish(snap)
	return snap
}

// holdAttachment pins an attached vehicle to its body. If the body has
// gone, a landed vehicle flies again and a wreck drifts free.
func (c *Controller) holdAttachment() {
	v := c.ctx.Vehicle
	if c.attach.Apply(v, c.ctx.Universe) {
		return
	}
	name := v.Anchor()
	c.ctx.Missing(name)
	if v.State == models.Landed {
		c.landing.separate(name, ReasonMissing)
		return
	}
	c.attach.Release(v)
	v.AttachedTo = ""
}

func (c *Controller) publish(snap Snapshot) {
	events := c.landing.Drain()
	if c.bus == nil {
		return
	}
	for _, e := range events {
		c.bus.Publish(e)
	}
	c.bus.Publish(SnapshotEvent{Snapshot: snap})
}

// Snapshot returns the current state without stepping.
func (c *Controller) Snapshot() Snapshot {
	v := c.ctx.Vehicle
	s := Snapshot{
		Time:            c.ctx.Time,
		Position:        v.Position,
		Velocity:        v.Velocity,
		Angle:           v.Angle,
		AngularVelocity: v.AngularVelocity,
		Fuel:            v.Fuel,
		Health:          v.Health,
		FlightState:     v.State,
		LandedOn:        v.LandedOn,
		AttachedTo:      v.AttachedTo,
		ThrusterPowers:  make(map[models.ThrusterID]float64, len(v.Thrusters)),
		ThrusterForces:  make(map[models.ThrusterID]dynamo.Vec2, len(c.forces)),
		GravityVector:   c.gravityAc,
		Assisted:        c.assist.Enabled,
	}
	if v.RelativePosition != nil {
		rel := *v.RelativePosition
		s.RelativePosition = &rel
	}
	for id, t := range v.Thrusters {
		s.ThrusterPowers[id] = t.Power
	}
	for id, f := range c.forces {
		s.ThrusterForces[id] = f
	}
	if b, d := c.ctx.Universe.Nearest(v.Position, v.Radius); b != nil {
		s.Nearest = b.Name
		s.Altitude = d
	}
	return s
}

// ThrustToWeight is the main thruster's full force over the vehicle's weight
// at the last step.
func (c *Controller) ThrustToWeight() float64 {
	v := c.ctx.Vehicle
	return physics.ThrustToWeight(v, c.gravityAc.Scale(v.Mass))
}

// SetThrusterPower sets a thruster in percent, clamped to its range, and
// returns the applied value.
func (c *Controller) SetThrusterPower(id models.ThrusterID, percent float64) (float64, error) {
	return c.ctx.Vehicle.SetThrusterPower(id, percent)
}

// ToggleAssistedStabilization flips spin damping and returns the new
// setting.
func (c *Controller) ToggleAssistedStabilization() bool {
	return c.assist.Toggle()
}

// SetTimeScale clamps s to [MinTimeScale, MaxTimeScale] and returns the
// applied value.
func (c *Controller) SetTimeScale(s float64) float64 {
	if math.IsNaN(s) {
		return c.timeScale
	}
	c.timeScale = math.Max(MinTimeScale, math.Min(s, MaxTimeScale))
	return c.timeScale
}

func (c *Controller) TimeScale() float64 {
	return c.timeScale
}

// ResetVehicle lands the vehicle upright on top of the home body with full
// fuel and health, no thrust and no motion.
func (c *Controller) ResetVehicle() {
	v := c.ctx.Vehicle
	from := v.State

	c.attach.Release(v)
	c.ctx.ResetWarnings()
	v.Detach()
	v.Refill()
	v.CutThrust()
	v.Velocity = dynamo.Vec2{}
	v.AngularVelocity = 0
	v.Angle = 0
	v.State = models.Flying

	home := c.ctx.Universe.Home()
	if home == nil {
		c.ctx.Missing("home")
	} else {
		v.Position = home.Position.Add(dynamo.V(0, -(home.Radius + v.CollisionRadius)))
		v.State = models.Landed
		v.LandedOn = home.Name
		v.AttachedTo = home.Name
		c.attach.Begin(v, home)
	}

	c.afterPlacement()
	c.landing.emit(StateChange{From: from, To: v.State, Body: v.LandedOn, Reason: ReasonReset})
}

// Placement puts the vehicle near a body. Bearing is measured clockwise
// from straight above the body and Tilt from upright, both in radians.
// Altitude is the landing-classification distance to the surface.
type Placement struct {
	Body     string
	Altitude float64
	Bearing  float64
	Tilt     float64
	Velocity dynamo.Vec2
	Spin     float64
}

// Place puts the vehicle in free flight relative to a body.
func (c *Controller) Place(p Placement) error {
	b, ok := c.ctx.Universe.Body(p.Body)
	if !ok {
		return fmt.Errorf("place vehicle: %s: %w", p.Body, dynamo.ErrUnknownBody)
	}
	v := c.ctx.Vehicle
	dir := dynamo.Forward(p.Bearing)
	pos := b.Position.Add(dir.Scale(b.Radius + v.Radius + p.Altitude))
	c.PlaceVehicle(pos, p.Bearing+p.Tilt, p.Velocity, p.Spin)
	return nil
}

// PlaceVehicle puts the vehicle at a world position in free flight. Fuel,
// health and thruster settings are kept unless the vehicle is wrecked, in
// which case it is repaired first.
func (c *Controller) PlaceVehicle(pos dynamo.Vec2, angle float64, vel dynamo.Vec2, spin float64) {
	v := c.ctx.Vehicle
	from := v.State
	if v.State == models.Destroyed {
		v.Refill()
	}
	c.attach.Release(v)
	v.Detach()
	v.State = models.Flying
	v.Position = pos
	v.Angle = angle
	v.Velocity = vel
	v.AngularVelocity = spin

	c.afterPlacement()
	c.landing.emit(StateChange{From: from, To: models.Flying, Reason: ReasonPlaced})
}

func (c *Controller) afterPlacement() {
	c.sync.Push()
	c.pending = nil
	c.assist.Reset()
	c.landing.ForceCheck()
}

// RemoveBody deletes a celestial body from the universe and the engine.
// A vehicle resting on it flies again on the next step.
func (c *Controller) RemoveBody(name string) bool {
	if !c.ctx.Universe.Remove(name) {
		return false
	}
	c.ctx.SyncBodies()
	return true
}
