package sim

import (
	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/flight"
)

type Metric interface {
	Name() string
	Observe(s flight.Snapshot)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s flight.Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s flight.Snapshot)

func (f ObserverFunc) OnStep(s flight.Snapshot) { f(s) }

type Config struct {
	Dt       float64
	Duration float64
	// Every keeps one snapshot in Every. Zero or one keeps all of them.
	Every int
}

// ConfigFrom takes the run timing from a simulation config.
func ConfigFrom(cfg *config.Config) Config {
	return Config{Dt: cfg.Dt, Duration: cfg.Duration}
}

type Result struct {
	Snapshots  []flight.Snapshot
	Events     []flight.StateChange
	Damage     []flight.DamageEvent
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last recorded snapshot.
func (r *Result) Final() flight.Snapshot {
	if len(r.Snapshots) == 0 {
		return flight.Snapshot{}
	}
	return r.Snapshots[len(r.Snapshots)-1]
}
