package metrics

import (
	"math"

	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/models"
)

type MaxAltitude struct {
	max float64
}

func NewMaxAltitude() *MaxAltitude { return &MaxAltitude{} }

func (m *MaxAltitude) Name() string { return "max_altitude" }

func (m *MaxAltitude) Observe(s flight.Snapshot) {
	if s.Nearest != "" {
		m.max = math.Max(m.max, s.Altitude)
	}
}

func (m *MaxAltitude) Value() float64 { return m.max }
func (m *MaxAltitude) Reset()         { m.max = 0 }

type MaxSpeed struct {
	max float64
}

func NewMaxSpeed() *MaxSpeed { return &MaxSpeed{} }

func (m *MaxSpeed) Name() string { return "max_speed" }

func (m *MaxSpeed) Observe(s flight.Snapshot) {
	m.max = math.Max(m.max, s.Speed())
}

func (m *MaxSpeed) Value() float64 { return m.max }
func (m *MaxSpeed) Reset()         { m.max = 0 }

// Touchdowns counts transitions from flying to landed.
type Touchdowns struct {
	count   int
	prev    models.FlightState
	samples int
}

func NewTouchdowns() *Touchdowns { return &Touchdowns{} }

func (t *Touchdowns) Name() string { return "touchdowns" }

func (t *Touchdowns) Observe(s flight.Snapshot) {
	if t.samples > 0 && t.prev == models.Flying && s.FlightState == models.Landed {
		t.count++
	}
	t.prev = s.FlightState
	t.samples++
}

func (t *Touchdowns) Value() float64 { return float64(t.count) }

func (t *Touchdowns) Reset() {
	t.count = 0
	t.samples = 0
}
