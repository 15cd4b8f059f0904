package physics

import (
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
)

// MinDistance is the separation below which a body contributes nothing.
const MinDistance = 1e-9

type GravityField struct {
	G float64
	// Softening is added to the squared distance. Zero gives the plain
	// inverse-square law.
	Softening float64
}

func NewGravityField(g float64) *GravityField {
	return &GravityField{G: g}
}

// Force returns the total attraction on a point mass at p.
func (gf *GravityField) Force(p dynamo.Vec2, mass float64, bodies []*models.CelestialBody) dynamo.Vec2 {
	var total dynamo.Vec2
	eps2 := gf.Softening * gf.Softening
	for _, b := range bodies {
		r := b.Position.Sub(p)
		d := r.Len()
		if d < MinDistance {
			continue
		}
		mag := gf.G * b.Mass * mass / (d*d + eps2)
		total = total.Add(r.Scale(mag / d))
	}
	return total
}

// Acceleration is Force divided by mass. A massless point feels no
// acceleration.
func (gf *GravityField) Acceleration(p dynamo.Vec2, mass float64, bodies []*models.CelestialBody) dynamo.Vec2 {
	if mass <= 0 {
		return dynamo.Vec2{}
	}
	return gf.Force(p, mass, bodies).Scale(1 / mass)
}

// SurfaceGravity is the acceleration magnitude at the surface of b.
func (gf *GravityField) SurfaceGravity(b *models.CelestialBody) float64 {
	return gf.G * b.Mass / (b.Radius*b.Radius + gf.Softening*gf.Softening)
}
