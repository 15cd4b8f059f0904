package sim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/control"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/event"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/logging"
	"github.com/san-kum/rocketsim/internal/metrics"
	"github.com/san-kum/rocketsim/internal/models"
)

// Simulator drives a flight controller with a pilot and records the run.
type Simulator struct {
	ctrl      *flight.Controller
	pilot     control.Pilot
	metrics   []Metric
	observers []Observer
	log       zerolog.Logger
	warned    logging.Once

	result *Result
}

// New wraps ctrl. State changes and damage are recorded when the
// controller publishes on a bus.
func New(ctrl *flight.Controller, pilot control.Pilot) *Simulator {
	if pilot == nil {
		pilot = control.None{}
	}
	s := &Simulator{
		ctrl:      ctrl,
		pilot:     pilot,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       ctrl.Context().Log,
	}
	if bus := ctrl.Bus(); bus != nil {
		bus.Subscribe(flight.EventStateChanged, func(e event.Event) {
			if s.result != nil {
				s.result.Events = append(s.result.Events, e.(flight.StateChange))
			}
		})
		bus.Subscribe(flight.EventDamage, func(e event.Event) {
			if s.result != nil {
				s.result.Damage = append(s.result.Damage, e.(flight.DamageEvent))
			}
		})
	}
	return s
}

// Build creates the controller, the pilot and the standard metrics for cfg.
func Build(cfg *config.Config, log zerolog.Logger) (*Simulator, error) {
	ctrl, err := flight.FromConfig(cfg, log, flight.WithBus(event.NewBus()))
	if err != nil {
		return nil, err
	}
	pilot, err := control.NewPilot(cfg.Pilot)
	if err != nil {
		return nil, err
	}
	s := New(ctrl, pilot)

	home, _ := ctrl.Universe().Body(cfg.Home)
	s.AddMetric(metrics.NewFuelUsed())
	s.AddMetric(metrics.NewControlEffort())
	s.AddMetric(metrics.NewMaxAltitude())
	s.AddMetric(metrics.NewMaxSpeed())
	s.AddMetric(metrics.NewTouchdowns())
	s.AddMetric(metrics.NewStability(cfg.Thresholds.FastSpin))
	s.AddMetric(metrics.NewEnergy(cfg.Gravity.G, home))
	s.AddMetric(metrics.NewEnergyDrift(cfg.Gravity.G, home))
	return s, nil
}

func (s *Simulator) Controller() *flight.Controller { return s.ctrl }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps the controller for cfg.Duration seconds from its current state.
// On cancellation it returns what was recorded so far with the context
// error.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	every := max(cfg.Every, 1)
	result := &Result{
		Snapshots: make([]flight.Snapshot, 0, steps/every+2),
		Metrics:   make(map[string]float64),
	}
	s.result = result
	defer func() { s.result = nil }()

	for _, m := range s.metrics {
		m.Reset()
	}

	snap := s.ctrl.Snapshot()
	result.Snapshots = append(result.Snapshots, snap)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		s.command(snap.Time)
		snap = s.ctrl.Step(cfg.Dt)
		if !snap.Position.IsValid() || !snap.Velocity.IsValid() {
			s.collect(result)
			return result, &dynamo.StepError{Step: i, Time: snap.Time, Wrapped: dynamo.ErrInvalidState}
		}

		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, obs := range s.observers {
			obs.OnStep(snap)
		}

		result.StepsTaken++
		if result.StepsTaken%every == 0 || i == steps-1 {
			result.Snapshots = append(result.Snapshots, snap)
		}
	}

	s.collect(result)
	s.log.Debug().Int("steps", result.StepsTaken).Str("state", snap.FlightState.String()).Msg("run finished")
	return result, nil
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrInvalidConfig)
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrInvalidConfig)
	}
	return nil
}

// command passes the pilot's settings to the vehicle in a fixed order.
func (s *Simulator) command(t float64) {
	cmd := s.pilot.Command(t, s.ctrl.Vehicle())
	if len(cmd) == 0 {
		return
	}
	ids := make([]models.ThrusterID, 0, len(cmd))
	for id := range cmd {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if _, err := s.ctrl.SetThrusterPower(id, cmd[id]); err != nil {
			s.warned.Warn(s.log, "thruster:"+string(id), fmt.Sprintf("pilot command ignored: %v", err))
		}
	}
}

// RunWithCallback steps until the duration is reached, the callback returns
// false or ctx is done. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(flight.Snapshot) bool) error {
	if err := s.validateConfig(cfg); err != nil {
		return err
	}

	snap := s.ctrl.Snapshot()
	end := snap.Time + cfg.Duration
	for snap.Time < end-cfg.Dt/2 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.command(snap.Time)
		snap = s.ctrl.Step(cfg.Dt)
		if !callback(snap) {
			return nil
		}
	}
	return nil
}
