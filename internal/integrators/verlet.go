package integrators

import "github.com/san-kum/rocketsim/internal/dynamo"

// Verlet is velocity Verlet over a [positions..., velocities...] state.
type Verlet struct {
	scratch dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.scratch) != n {
		v.scratch = make(dynamo.State, n)
	}

	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		result[i] = x[i] + x[half+i]*dt + 0.5*dx[half+i]*dt*dt
		v.scratch[i] = result[i]
		v.scratch[half+i] = x[half+i]
	}

	next := dyn.Derive(v.scratch, u, t+dt)
	for i := 0; i < half; i++ {
		result[half+i] = x[half+i] + 0.5*(dx[half+i]+next[half+i])*dt
	}
	return result
}
