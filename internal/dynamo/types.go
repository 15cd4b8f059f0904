package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a 2D vector in world or body coordinates.
type Vec2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(f float64) Vec2 {
	return Vec2{X: v.X * f, Y: v.Y * f}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product, i.e. the torque of
// force o applied at lever arm v.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector along v, or the zero vector for v = 0.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// Rotate rotates v counter-clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// Angle returns atan2(y, x).
func (v Vec2) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

func (v Vec2) Distance(o Vec2) float64 {
	return v.Sub(o).Len()
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec2) IsValid() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}

// FromAngle creates a vector of the given magnitude pointing along angle.
func FromAngle(angle, magnitude float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{X: magnitude * cos, Y: magnitude * sin}
}

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

type Control []float64

// System is an ODE right-hand side dX/dt = f(X, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Integrator advances a System by one step of size dt.
type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}
