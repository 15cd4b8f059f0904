package integrators

import "github.com/san-kum/rocketsim/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta method. Stage buffers are
// reused between steps, so an RK4 value must not be shared across goroutines.
type RK4 struct {
	k     [4]dynamo.State
	mid   dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

// rk4Offsets are the fractions of dt at which stages 2 to 4 are evaluated.
var rk4Offsets = [3]float64{0.5, 0.5, 1}

func (r *RK4) resize(n int) {
	if len(r.mid) == n {
		return
	}
	for i := range r.k {
		r.k[i] = make(dynamo.State, n)
	}
	r.mid = make(dynamo.State, n)
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	r.resize(len(x))

	copy(r.k[0], dyn.Derive(x, u, t))
	for s, off := range rk4Offsets {
		h := off * dt
		for i, xi := range x {
			r.mid[i] = xi + h*r.k[s][i]
		}
		// Derive may return a buffer it reuses, so each stage is copied out.
		copy(r.k[s+1], dyn.Derive(r.mid, u, t+h))
	}

	next := make(dynamo.State, len(x))
	for i, xi := range x {
		next[i] = xi + dt/6*(r.k[0][i]+2*r.k[1][i]+2*r.k[2][i]+r.k[3][i])
	}
	return next
}
