package flight

import (
	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/control"
	"github.com/san-kum/rocketsim/internal/models"
)

// Stabilizer damps the vehicle's spin with the lateral thrusters while it
// flies. When enabled it owns the lateral thruster settings.
type Stabilizer struct {
	Enabled bool
	pid     *control.PID
}

func NewStabilizer(cfg config.AssistConfig) *Stabilizer {
	pid := control.NewPID(cfg.Kp, cfg.Ki, cfg.Kd, 0)
	pid.OutMin, pid.OutMax = -100, 100
	return &Stabilizer{Enabled: cfg.Enabled, pid: pid}
}

// Toggle flips the stabiliser and returns the new setting.
func (s *Stabilizer) Toggle() bool {
	s.Enabled = !s.Enabled
	s.pid.Reset()
	return s.Enabled
}

func (s *Stabilizer) Reset() {
	s.pid.Reset()
}

// Apply sets the lateral thrusters against the current spin. While the
// vehicle is not flying the laterals are held at zero.
func (s *Stabilizer) Apply(v *models.Vehicle, dt float64) {
	if !s.Enabled {
		return
	}
	var left, right float64
	if v.State == models.Flying {
		u := s.pid.Update(v.AngularVelocity, dt)
		left = u
		if u < 0 {
			left, right = 0, -u
		}
	} else {
		s.pid.Reset()
	}
	if t, ok := v.Thrusters[models.Left]; ok {
		t.SetPower(left)
	}
	if t, ok := v.Thrusters[models.Right]; ok {
		t.SetPower(right)
	}
}
