package control

import (
	"sync"

	"github.com/san-kum/rocketsim/internal/models"
)

// Manual passes settings made from outside the step loop (key presses) to
// the vehicle. Set may be called from another goroutine.
type Manual struct {
	mu      sync.Mutex
	pending Command
}

func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) Set(id models.ThrusterID, percent float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		m.pending = make(Command)
	}
	m.pending[id] = percent
}

// Command returns and clears the pending settings.
func (m *Manual) Command(float64, *models.Vehicle) Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.pending
	m.pending = nil
	return out
}
