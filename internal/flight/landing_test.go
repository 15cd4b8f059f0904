package flight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
	"github.com/san-kum/rocketsim/internal/rigid"
)

func TestClassify(t *testing.T) {
	th := config.DefaultThresholds()
	earth := &models.CelestialBody{Name: "earth", Mass: 2e11, Radius: 720}
	moving := &models.CelestialBody{Name: "moon", Position: dynamo.V(3600, 0), Velocity: dynamo.V(0, 37), Mass: 5e9, Radius: 180}

	// Surface distance 15 straight above the body.
	above := func(b *models.CelestialBody) dynamo.Vec2 {
		return b.Position.Add(dynamo.V(0, -(b.Radius + 24 + 15)))
	}

	tests := []struct {
		name  string
		body  *models.CelestialBody
		pos   dynamo.Vec2
		angle float64
		vel   dynamo.Vec2
		spin  float64
		want  Verdict
	}{
		{"far away", earth, dynamo.V(0, -900), 0, dynamo.Vec2{}, 0, VerdictFlying},
		{"upright at rest", earth, above(earth), 0, dynamo.Vec2{}, 0, VerdictLanded},
		{"slightly tilted", earth, above(earth), dynamo.Deg(20), dynamo.Vec2{}, 0, VerdictLanded},
		{"too tilted to land", earth, above(earth), dynamo.Deg(40), dynamo.Vec2{}, 0, VerdictFlying},
		{"lying on its side", earth, above(earth), dynamo.Deg(70), dynamo.Vec2{}, 0, VerdictCrashed},
		{"tumbling fast", earth, above(earth), dynamo.Deg(50), dynamo.V(0, 3), 0, VerdictCrashed},
		{"tumbling spin", earth, above(earth), dynamo.Deg(50), dynamo.Vec2{}, 0.5, VerdictCrashed},
		{"upside down", earth, above(earth), dynamo.Deg(100), dynamo.Vec2{}, 0, VerdictCrashed},
		{"upright but fast", earth, above(earth), 0, dynamo.V(0, 3), 0, VerdictFlying},
		{"upright but spinning", earth, above(earth), 0, dynamo.Vec2{}, 0.3, VerdictFlying},
		{"moving with the body", moving, above(moving), 0, moving.Velocity, 0, VerdictLanded},
		{"at rest near a moving body", moving, above(moving), 0, dynamo.Vec2{}, 0, VerdictFlying},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := models.NewVehicle(100, 150, 24, 15, 100, 100)
			require.NoError(t, err)
			v.Position = tt.pos
			v.Angle = tt.angle
			v.Velocity = tt.vel
			v.AngularVelocity = tt.spin

			got := Classify(v, tt.body, th)
			assert.Equal(t, tt.want, got.Verdict, "angle error %.3f speed %.3f", got.AngleError, got.Speed)
		})
	}
}

func TestClassifyOnSideOfBody(t *testing.T) {
	th := config.DefaultThresholds()
	earth := &models.CelestialBody{Name: "earth", Mass: 2e11, Radius: 720}
	v, err := models.NewVehicle(100, 150, 24, 15, 100, 100)
	require.NoError(t, err)

	bearing := dynamo.Deg(90)
	v.Position = dynamo.Forward(bearing).Scale(720 + 24 + 10)
	v.Angle = bearing

	c := Classify(v, earth, th)
	assert.InDelta(t, 10, c.DistanceToSurface, 1e-9)
	assert.InDelta(t, 0, c.AngleError, 1e-9)
	assert.Equal(t, VerdictLanded, c.Verdict)
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "crashed", VerdictCrashed.String())
	assert.Equal(t, "Verdict(7)", Verdict(7).String())
}

func TestLandedContactRules(t *testing.T) {
	tests := []struct {
		name    string
		other   string
		phase   rigid.Phase
		landed  bool
		changes int
	}{
		{"begin on landed body", "earth", rigid.Begin, true, 0},
		{"active on landed body", "earth", rigid.Active, true, 0},
		{"end on other body", "moon", rigid.End, true, 0},
		{"end on landed body", "earth", rigid.End, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newController(t, nil)
			c.landing.Drain()

			c.landing.HandleContact(rigid.ContactEvent{BodyA: VehicleBody, BodyB: tt.other, Phase: tt.phase})

			events := c.landing.Drain()
			require.Len(t, events, tt.changes)
			v := c.Vehicle()
			if tt.landed {
				assert.Equal(t, models.Landed, v.State)
				assert.Equal(t, "earth", v.LandedOn)
				return
			}
			assert.Equal(t, models.Flying, v.State)
			assert.Empty(t, v.LandedOn)
			assert.Empty(t, v.AttachedTo)
			change := events[0].(StateChange)
			assert.Equal(t, models.Landed, change.From)
			assert.Equal(t, models.Flying, change.To)
			assert.Equal(t, "earth", change.Body)
			assert.Equal(t, ReasonSeparated, change.Reason)
		})
	}
}

func TestLandedContactsDoNotFlicker(t *testing.T) {
	c := newController(t, nil)
	c.landing.Drain()

	for i := 0; i < 10; i++ {
		phase := rigid.Active
		if i == 0 {
			phase = rigid.Begin
		}
		c.landing.HandleContact(rigid.ContactEvent{BodyA: "earth", BodyB: VehicleBody, Phase: phase})
		c.landing.Check()
		require.Equal(t, models.Landed, c.Vehicle().State, "contact %d", i)
	}
	assert.Empty(t, c.landing.Drain())
}

func TestCheckSeparatesWhenOutOfProximity(t *testing.T) {
	c := newController(t, nil)
	c.landing.Drain()

	c.landing.Check()
	require.Equal(t, models.Landed, c.Vehicle().State)
	require.Empty(t, c.landing.Drain())

	v := c.Vehicle()
	v.Position = v.Position.Add(dynamo.V(0, -200))
	c.landing.Check()

	assert.Equal(t, models.Flying, v.State)
	assert.Empty(t, v.LandedOn)
	events := c.landing.Drain()
	require.NotEmpty(t, events)
	change := events[0].(StateChange)
	assert.Equal(t, ReasonSeparated, change.Reason)
	assert.Equal(t, "earth", change.Body)
}
