package integrators

import "github.com/san-kum/rocketsim/internal/dynamo"

// Euler is the explicit forward Euler method.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

// SemiImplicitEuler updates the velocity half of the state first and then
// advances the position half with the new velocity. The state must be laid
// out as [positions..., velocities...].
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (s *SemiImplicitEuler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	dx := dyn.Derive(x, u, t)

	result := make(dynamo.State, n)
	for i := half; i < n; i++ {
		result[i] = x[i] + dt*dx[i]
	}
	for i := 0; i < half; i++ {
		result[i] = x[i] + dt*result[half+i]
	}
	return result
}
