package dynamo

import "math"

const (
	TwoPi = 2 * math.Pi
)

// WrapAngle maps an angle into (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a <= -math.Pi {
		a += TwoPi
	} else if a > math.Pi {
		a -= TwoPi
	}
	return a
}

// AngleBetween returns the unsigned shortest angular distance between a and
// b, in [0, π].
func AngleBetween(a, b float64) float64 {
	return math.Abs(WrapAngle(a - b))
}

// Deg converts degrees to radians.
func Deg(d float64) float64 {
	return d * math.Pi / 180
}

// ToDeg converts radians to degrees.
func ToDeg(r float64) float64 {
	return r * 180 / math.Pi
}

// UprightAngle returns the heading that points the nose away from center
// when standing at position.
func UprightAngle(position, center Vec2) float64 {
	return position.Sub(center).Angle() + math.Pi/2
}

// Forward returns the world-frame unit vector along the nose for heading angle.
func Forward(angle float64) Vec2 {
	return FromAngle(angle-math.Pi/2, 1)
}
