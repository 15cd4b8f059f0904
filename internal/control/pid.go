package control

import "math"

// PID is a scalar Proportional-Integral-Derivative controller. The output
// is clamped to [OutMin, OutMax] when they differ, and the integral stops
// accumulating while the output is saturated.
type PID struct {
	Kp     float64
	Ki     float64
	Kd     float64
	Target float64
	OutMin float64
	OutMax float64

	integral float64
	prevErr  float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// Update returns the control output for a measurement taken dt after the
// previous one.
func (p *PID) Update(measured, dt float64) float64 {
	err := p.Target - measured

	if p.first || dt <= 0 {
		p.prevErr = err
		p.first = false
		return p.clamp(p.Kp*err + p.Ki*p.integral)
	}

	derivative := (err - p.prevErr) / dt
	p.prevErr = err

	integral := p.integral + err*dt
	u := p.Kp*err + p.Ki*integral + p.Kd*derivative
	clamped := p.clamp(u)
	if clamped == u {
		p.integral = integral
	}
	return clamped
}

func (p *PID) clamp(u float64) float64 {
	if p.OutMin >= p.OutMax {
		return u
	}
	return math.Max(p.OutMin, math.Min(u, p.OutMax))
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}
