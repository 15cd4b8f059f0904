package flight

import (
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
)

// Attachment keeps a landed or wrecked vehicle fixed relative to the body
// it rests on. Offsets from mobile bodies are stored on the vehicle as
// RelativePosition; positions on static bodies are kept privately.
type Attachment struct {
	anchorBody string
	anchor     dynamo.Vec2
}

// Begin fixes the vehicle to b at its current position. A landed vehicle
// is also turned upright.
func (a *Attachment) Begin(v *models.Vehicle, b *models.CelestialBody) {
	if v.State == models.Landed {
		v.Angle = dynamo.UprightAngle(v.Position, b.Position)
	}
	v.Velocity = dynamo.Vec2{}
	v.AngularVelocity = 0
	a.Release(v)
	if b.IsMobile {
		rel := v.Position.Sub(b.Position)
		v.RelativePosition = &rel
		return
	}
	a.anchorBody = b.Name
	a.anchor = v.Position
}

// Apply moves an attached vehicle to its anchor and stops it. It returns
// false when the vehicle names a body the universe no longer has; the
// vehicle is left untouched in that case.
func (a *Attachment) Apply(v *models.Vehicle, u *models.Universe) bool {
	name := v.Anchor()
	if name == "" {
		return true
	}
	b, ok := u.Body(name)
	if !ok {
		return false
	}
	switch {
	case b.IsMobile && v.RelativePosition != nil:
		v.Position = b.Position.Add(*v.RelativePosition)
	case b.IsMobile:
		a.Begin(v, b)
	case a.anchorBody == name:
		v.Position = a.anchor
	default:
		a.Begin(v, b)
	}
	v.Velocity = dynamo.Vec2{}
	v.AngularVelocity = 0
	return true
}

// Release forgets any stored offset.
func (a *Attachment) Release(v *models.Vehicle) {
	v.RelativePosition = nil
	a.anchorBody = ""
}
