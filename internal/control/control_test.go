package control

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
)

func TestPIDSign(t *testing.T) {
	ctrl := NewPID(10.0, 0.1, 5.0, 0.0)
	u := ctrl.Update(1.0, 0.1)
	if u >= 0 {
		t.Error("PID should output negative control for positive measurement above target")
	}
}

func TestPIDDerivative(t *testing.T) {
	ctrl := NewPID(0, 0, 2, 0)
	ctrl.Update(0, 0.1)
	u := ctrl.Update(1, 0.1)
	if math.Abs(u+20) > 1e-9 {
		t.Errorf("expected -20, got %f", u)
	}
}

func TestPIDClampAndWindup(t *testing.T) {
	ctrl := NewPID(1, 10, 0, 0)
	ctrl.OutMin, ctrl.OutMax = -1, 1

	for i := 0; i < 100; i++ {
		if u := ctrl.Update(5, 0.1); u < -1 || u > 1 {
			t.Fatalf("output %f outside limits", u)
		}
	}
	if ctrl.integral != 0 {
		t.Errorf("expected integral to hold while saturated, got %f", ctrl.integral)
	}
}

func TestPIDReset(t *testing.T) {
	ctrl := NewPID(1, 1, 1, 0)
	ctrl.Update(1, 0.1)
	ctrl.Update(2, 0.1)
	ctrl.Reset()
	if ctrl.integral != 0 || !ctrl.first {
		t.Error("expected cleared state after reset")
	}
}

func TestSchedule(t *testing.T) {
	s := NewSchedule([]config.ScheduleEntry{
		{At: 5, Powers: map[string]float64{"main": 0}},
		{At: 1, Powers: map[string]float64{"main": 100, "left": 10}},
	})

	if cmd := s.Command(0.5, nil); cmd != nil {
		t.Errorf("expected nothing before first entry, got %v", cmd)
	}
	cmd := s.Command(1.0, nil)
	if cmd[models.Main] != 100 || cmd[models.Left] != 10 {
		t.Errorf("unexpected command %v", cmd)
	}
	if cmd := s.Command(2, nil); cmd != nil {
		t.Errorf("expected entries to fire once, got %v", cmd)
	}
	if cmd := s.Command(10, nil); cmd[models.Main] != 0 || len(cmd) != 1 {
		t.Errorf("expected main cut, got %v", cmd)
	}

	s.Rewind()
	if cmd := s.Command(100, nil); cmd[models.Main] != 0 || cmd[models.Left] != 10 {
		t.Errorf("expected later entries to win after rewind, got %v", cmd)
	}
}

func TestManual(t *testing.T) {
	m := NewManual()
	if m.Command(0, nil) != nil {
		t.Error("expected no command before input")
	}
	m.Set(models.Main, 40)
	m.Set(models.Main, 60)
	if cmd := m.Command(0, nil); cmd[models.Main] != 60 {
		t.Errorf("expected latest setting 60, got %v", cmd)
	}
	if m.Command(0, nil) != nil {
		t.Error("expected pending settings to be consumed")
	}
}

func TestNewPilot(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", "control.None"},
		{"none", "control.None"},
		{"schedule", "*control.Schedule"},
		{"manual", "*control.Manual"},
	}
	for _, tt := range tests {
		p, err := NewPilot(config.PilotConfig{Name: tt.name})
		if err != nil {
			t.Fatalf("%q: %v", tt.name, err)
		}
		if got := typeName(p); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.name, tt.want, got)
		}
	}
	if _, err := NewPilot(config.PilotConfig{Name: "autoland"}); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func typeName(p Pilot) string {
	switch p.(type) {
	case None:
		return "control.None"
	case *Schedule:
		return "*control.Schedule"
	case *Manual:
		return "*control.Manual"
	}
	return "unknown"
}
