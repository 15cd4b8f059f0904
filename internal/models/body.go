package models

import (
	"fmt"
	"math"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

// CelestialBody is a gravity source and collidable circular surface.
type CelestialBody struct {
	Name     string
	Position dynamo.Vec2
	Velocity dynamo.Vec2
	Mass     float64
	Radius   float64
	// IsMobile marks bodies moved by an orbit updater.
	IsMobile bool
}

// SurfaceDistance returns the gap between a circle of radius r at p and the
// body's surface. Negative values mean overlap.
func (b *CelestialBody) SurfaceDistance(p dynamo.Vec2, r float64) float64 {
	return p.Distance(b.Position) - b.Radius - r
}

// Normal returns the outward unit surface normal below p.
func (b *CelestialBody) Normal(p dynamo.Vec2) dynamo.Vec2 {
	return p.Sub(b.Position).Normalize()
}

// Universe is the ordered set of celestial bodies keyed by name.
type Universe struct {
	bodies []*CelestialBody
	index  map[string]*CelestialBody
	home   string
}

func NewUniverse() *Universe {
	return &Universe{index: make(map[string]*CelestialBody)}
}

// Add inserts b. The first body added becomes home.
func (u *Universe) Add(b *CelestialBody) error {
	if b == nil || b.Name == "" {
		return fmt.Errorf("celestial body without name: %w", dynamo.ErrInvalidConfig)
	}
	if b.Mass < 0 || b.Radius <= 0 {
		return fmt.Errorf("celestial body %s: mass/radius: %w", b.Name, dynamo.ErrInvalidConfig)
	}
	if _, ok := u.index[b.Name]; ok {
		return fmt.Errorf("%s: %w", b.Name, dynamo.ErrDuplicateBody)
	}
	u.bodies = append(u.bodies, b)
	u.index[b.Name] = b
	if u.home == "" {
		u.home = b.Name
	}
	return nil
}

// Remove deletes a body by name and reports whether it existed. Removing the
// home body leaves the universe without a home until SetHome is called.
func (u *Universe) Remove(name string) bool {
	if _, ok := u.index[name]; !ok {
		return false
	}
	delete(u.index, name)
	for i, b := range u.bodies {
		if b.Name == name {
			u.bodies = append(u.bodies[:i], u.bodies[i+1:]...)
			break
		}
	}
	if u.home == name {
		u.home = ""
	}
	return true
}

func (u *Universe) Body(name string) (*CelestialBody, bool) {
	b, ok := u.index[name]
	return b, ok
}

// Bodies returns the bodies in insertion order. The slice is a copy; the
// bodies are shared.
func (u *Universe) Bodies() []*CelestialBody {
	out := make([]*CelestialBody, len(u.bodies))
	copy(out, u.bodies)
	return out
}

func (u *Universe) Len() int {
	return len(u.bodies)
}

func (u *Universe) SetHome(name string) error {
	if _, ok := u.index[name]; !ok {
		return fmt.Errorf("%s: %w", name, dynamo.ErrUnknownBody)
	}
	u.home = name
	return nil
}

// Home returns the body the vehicle starts on, or nil.
func (u *Universe) Home() *CelestialBody {
	return u.index[u.home]
}

// Nearest returns the body whose surface is closest to a circle of radius r
// at p, and that surface distance. It returns nil for an empty universe.
func (u *Universe) Nearest(p dynamo.Vec2, r float64) (*CelestialBody, float64) {
	var best *CelestialBody
	bestDist := math.Inf(1)
	for _, b := range u.bodies {
		if d := b.SurfaceDistance(p, r); d < bestDist {
			best, bestDist = b, d
		}
	}
	return best, bestDist
}

// Within returns the bodies whose centre is closer to p than their radius
// plus margin.
func (u *Universe) Within(p dynamo.Vec2, margin float64) []*CelestialBody {
	var out []*CelestialBody
	for _, b := range u.bodies {
		if p.Distance(b.Position) < b.Radius+margin {
			out = append(out, b)
		}
	}
	return out
}
