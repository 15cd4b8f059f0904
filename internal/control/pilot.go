package control

import (
	"fmt"
	"sort"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
)

// Command is a set of thruster power settings in percent. Thrusters not in
// the map keep their current setting.
type Command map[models.ThrusterID]float64

// Pilot decides thruster settings from the vehicle state at time t.
type Pilot interface {
	Command(t float64, v *models.Vehicle) Command
}

// None never touches the thrusters.
type None struct{}

func (None) Command(float64, *models.Vehicle) Command {
	return nil
}

type step struct {
	at     float64
	powers Command
}

// Schedule replays time-keyed thruster settings. Each entry is issued once,
// on the first call at or after its time.
type Schedule struct {
	steps []step
	next  int
}

func NewSchedule(entries []config.ScheduleEntry) *Schedule {
	s := &Schedule{steps: make([]step, 0, len(entries))}
	for _, e := range entries {
		cmd := make(Command, len(e.Powers))
		for id, p := range e.Powers {
			cmd[models.ThrusterID(id)] = p
		}
		s.steps = append(s.steps, step{at: e.At, powers: cmd})
	}
	sort.SliceStable(s.steps, func(i, j int) bool { return s.steps[i].at < s.steps[j].at })
	return s
}

func (s *Schedule) Command(t float64, _ *models.Vehicle) Command {
	var out Command
	for s.next < len(s.steps) && s.steps[s.next].at <= t {
		if out == nil {
			out = make(Command)
		}
		for id, p := range s.steps[s.next].powers {
			out[id] = p
		}
		s.next++
	}
	return out
}

// Rewind restarts the schedule from the beginning.
func (s *Schedule) Rewind() {
	s.next = 0
}

// NewPilot builds the pilot named in cfg.
func NewPilot(cfg config.PilotConfig) (Pilot, error) {
	switch cfg.Name {
	case "", "none":
		return None{}, nil
	case "schedule":
		return NewSchedule(cfg.Schedule), nil
	case "manual":
		return NewManual(), nil
	}
	return nil, fmt.Errorf("pilot %q: %w", cfg.Name, dynamo.ErrInvalidConfig)
}
