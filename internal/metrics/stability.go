package metrics

import (
	"math"

	"github.com/san-kum/rocketsim/internal/flight"
)

// Stability is the fraction of samples whose spin rate stayed within the
// threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap flight.Snapshot) {
	s.samples++
	if math.Abs(snap.AngularVelocity) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
