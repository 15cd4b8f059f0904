package flight

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/event"
	"github.com/san-kum/rocketsim/internal/models"
	"github.com/san-kum/rocketsim/internal/physics"
	"github.com/san-kum/rocketsim/internal/rigid"
)

type Verdict int

const (
	VerdictFlying Verdict = iota
	VerdictLanded
	VerdictCrashed
)

func (v Verdict) String() string {
	switch v {
	case VerdictFlying:
		return "flying"
	case VerdictLanded:
		return "landed"
	case VerdictCrashed:
		return "crashed"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// Classification is the geometric and kinematic relation of the vehicle to
// one body.
type Classification struct {
	Body              string
	DistanceToSurface float64
	// AngleError is the deviation from upright, in [0, π].
	AngleError float64
	// Speed is measured relative to the body.
	Speed   float64
	Spin    float64
	Verdict Verdict
}

// Close reports whether the vehicle is within the proximity threshold.
func (c Classification) Close(th config.Thresholds) bool {
	return math.Abs(c.DistanceToSurface) < th.Proximity
}

// Classify decides whether v is landed on, crashed into or flying near b.
// Crash criteria win over landing criteria.
func Classify(v *models.Vehicle, b *models.CelestialBody, th config.Thresholds) Classification {
	rel := v.Position.Sub(b.Position)
	c := Classification{
		Body:              b.Name,
		DistanceToSurface: rel.Len() - b.Radius - v.Radius,
		AngleError:        dynamo.AngleBetween(v.Angle, rel.Angle()+math.Pi/2),
		Speed:             v.Velocity.Sub(b.Velocity).Len(),
		Spin:              math.Abs(v.AngularVelocity),
	}
	if !c.Close(th) {
		return c
	}

	slow := c.Speed < th.Speed && c.Spin < th.Spin
	lying := c.AngleError > dynamo.Deg(th.LyingAngle) && slow
	tumbling := c.AngleError > dynamo.Deg(th.TumbleAngle) && (c.Speed > th.FastSpeed || c.Spin > th.FastSpin)
	upsideDown := c.AngleError > dynamo.Deg(th.UpsideDownAngle)

	switch {
	case lying || tumbling || upsideDown:
		c.Verdict = VerdictCrashed
	case c.AngleError < dynamo.Deg(th.LandAngle) && slow:
		c.Verdict = VerdictLanded
	}
	return c
}

// LandingMachine owns the Flying / Landed(body) / Destroyed transitions.
type LandingMachine struct {
	ctx    *Context
	attach *Attachment

	sinceCheck float64
	force      bool
	events     []event.Event
}

func NewLandingMachine(ctx *Context, attach *Attachment) *LandingMachine {
	return &LandingMachine{ctx: ctx, attach: attach, force: true}
}

// ForceCheck makes the next PeriodicCheck run regardless of the timer.
func (m *LandingMachine) ForceCheck() {
	m.force = true
}

// Drain returns and clears the events produced since the last call.
func (m *LandingMachine) Drain() []event.Event {
	out := m.events
	m.events = nil
	return out
}

// suppressed reports whether landing is held off because liftoff is being
// commanded.
func (m *LandingMachine) suppressed() bool {
	return physics.LiftoffRequested(m.ctx.Vehicle, m.ctx.Thresholds.LiftoffFraction)
}

// HandleContact processes one engine contact involving the vehicle.
func (m *LandingMachine) HandleContact(ev rigid.ContactEvent) {
	v := m.ctx.Vehicle
	other, ok := ev.Involves(VehicleBody)
	if !ok || v.State == models.Destroyed {
		return
	}
	body, ok := m.ctx.Body(other)
	if !ok {
		if v.State == models.Landed && v.LandedOn == other {
			m.separate(other, ReasonMissing)
		}
		return
	}

	if v.State == models.Landed {
		if ev.Phase == rigid.End && v.LandedOn == other {
			m.separate(other, ReasonSeparated)
		}
		return
	}
	if ev.Phase == rigid.End {
		return
	}

	cls := Classify(v, body, m.ctx.Thresholds)
	switch {
	case cls.Verdict == VerdictCrashed:
		m.crash(body)
		return
	case cls.Verdict == VerdictLanded && !m.suppressed():
		m.land(body)
		return
	}

	if ev.Phase == rigid.Begin {
		impact := ev.RelativeVelocity.Len()
		if impact > m.ctx.Thresholds.CollisionThreshold {
			m.damage(body, impact)
		}
	}
}

// PeriodicCheck runs Check when the check interval has elapsed, or when a
// check was forced.
func (m *LandingMachine) PeriodicCheck(dt float64) {
	m.sinceCheck += dt
	if !m.force && m.sinceCheck < m.ctx.Thresholds.CheckInterval {
		return
	}
	m.Check()
}

// Check re-confirms a landing or looks for one among the nearby bodies.
func (m *LandingMachine) Check() {
	m.sinceCheck = 0
	m.force = false

	v := m.ctx.Vehicle
	th := m.ctx.Thresholds
	switch v.State {
	case models.Destroyed:
		return
	case models.Landed:
		body, ok := m.ctx.Body(v.LandedOn)
		if !ok {
			m.separate(v.LandedOn, ReasonMissing)
			break
		}
		if Classify(v, body, th).Close(th) {
			return
		}
		m.separate(body.Name, ReasonSeparated)
	}

	near := m.ctx.Universe.Within(v.Position, v.Radius+th.CheckMargin)
	sort.SliceStable(near, func(i, j int) bool {
		return near[i].SurfaceDistance(v.Position, v.Radius) < near[j].SurfaceDistance(v.Position, v.Radius)
	})
	for _, b := range near {
		switch Classify(v, b, th).Verdict {
		case VerdictCrashed:
			m.crash(b)
			return
		case VerdictLanded:
			if !m.suppressed() {
				m.land(b)
				return
			}
		}
	}
}

// Liftoff releases a landed vehicle whose main thruster is above the
// liftoff threshold and gives it an outward kick. It reports whether a
// liftoff happened.
func (m *LandingMachine) Liftoff() bool {
	v := m.ctx.Vehicle
	if v.State != models.Landed || !m.suppressed() {
		return false
	}
	name := v.LandedOn
	body, ok := m.ctx.Body(name)
	if !ok {
		m.separate(name, ReasonMissing)
		return true
	}
	normal := body.Normal(v.Position)
	m.attach.Release(v)
	v.Detach()
	v.State = models.Flying
	v.Velocity = body.Velocity.Add(normal.Scale(m.ctx.Thresholds.LiftoffSpeed))
	v.AngularVelocity = 0
	m.emit(StateChange{From: models.Landed, To: models.Flying, Body: name, Reason: ReasonLiftoff})
	return true
}

// separate returns a landed vehicle to free flight.
func (m *LandingMachine) separate(name, reason string) {
	v := m.ctx.Vehicle
	m.attach.Release(v)
	v.Detach()
	v.State = models.Flying
	m.emit(StateChange{From: models.Landed, To: models.Flying, Body: name, Reason: reason})
}

func (m *LandingMachine) land(b *models.CelestialBody) {
	v := m.ctx.Vehicle
	v.State = models.Landed
	v.LandedOn = b.Name
	v.AttachedTo = b.Name
	m.attach.Begin(v, b)
	m.emit(StateChange{From: models.Flying, To: models.Landed, Body: b.Name, Reason: ReasonLanded})
}

func (m *LandingMachine) crash(b *models.CelestialBody) {
	v := m.ctx.Vehicle
	from := v.State
	if v.ApplyDamage(v.Health, b.Name) {
		m.attach.Begin(v, b)
		m.emit(StateChange{From: from, To: models.Destroyed, Body: b.Name, Reason: ReasonCrashed})
	}
}

func (m *LandingMachine) damage(b *models.CelestialBody, impact float64) {
	v := m.ctx.Vehicle
	from := v.State
	amount := impact * m.ctx.Thresholds.DamageFactor
	destroyed := v.ApplyDamage(amount, b.Name)
	m.events = append(m.events, DamageEvent{
		Time:   m.ctx.Time,
		Body:   b.Name,
		Impact: impact,
		Amount: amount,
		Health: v.Health,
	})
	m.ctx.Log.Debug().Str("body", b.Name).Float64("impact", impact).Float64("health", v.Health).Msg("impact damage")
	if destroyed {
		m.attach.Begin(v, b)
		m.emit(StateChange{From: from, To: models.Destroyed, Body: b.Name, Reason: ReasonImpact})
	}
}

func (m *LandingMachine) emit(sc StateChange) {
	sc.Time = m.ctx.Time
	m.events = append(m.events, sc)
	m.ctx.Log.Info().
		Str("from", sc.From.String()).
		Str("to", sc.To.String()).
		Str("body", sc.Body).
		Str("reason", sc.Reason).
		Float64("t", sc.Time).
		Msg("flight state changed")
}
