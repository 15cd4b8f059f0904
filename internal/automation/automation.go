// Package automation runs batches of flights: scripted scenario files and
// randomised landing trials.
package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
	"github.com/san-kum/rocketsim/internal/sim"
)

// Scenario is a named list of flights loaded from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset and overrides selected fields. Zero
// values keep the preset's.
type ScenarioStep struct {
	Name       string              `yaml:"name"`
	Preset     string              `yaml:"preset"`
	Integrator string              `yaml:"integrator"`
	Duration   float64             `yaml:"duration"`
	Dt         float64             `yaml:"dt"`
	Start      *config.StartConfig `yaml:"start,omitempty"`
	Assist     *bool               `yaml:"assist,omitempty"`
	SaveAs     string              `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps: %w", path, dynamo.ErrInvalidConfig)
	}
	return &scenario, nil
}

// Config resolves the step to a full configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset %q: %w", preset, dynamo.ErrInvalidConfig)
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Start != nil {
		cfg.Start = *s.Start
	}
	if s.Assist != nil {
		cfg.Assist.Enabled = *s.Assist
	}
	return cfg, cfg.Validate()
}

// Jobs turns every step into a sweep job. Unnamed steps are numbered.
func (sc *Scenario) Jobs() ([]sim.Job, error) {
	jobs := make([]sim.Job, 0, len(sc.Steps))
	for i, step := range sc.Steps {
		cfg, err := step.Config()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("%s-%d", sc.Name, i+1)
		}
		jobs = append(jobs, sim.Job{Name: name, Config: cfg})
	}
	return jobs, nil
}

// MonteCarloConfig perturbs the start of a base configuration. Each
// perturbation is uniform in [-x, +x].
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Seed      int64
	Altitude  float64
	Tilt      float64
	Velocity  float64
	Spin      float64
	Workers   int
}

// MonteCarloResult is the outcome of one perturbed flight.
type MonteCarloResult struct {
	TrialID int
	Start   config.StartConfig
	Final   models.FlightState
	Health  float64
	Err     error
}

// RunMonteCarlo flies NumTrials perturbed copies of the base start. The
// base must place the vehicle with Start.Body.
func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, log zerolog.Logger) ([]MonteCarloResult, error) {
	if cfg.Base == nil || cfg.Base.Start.Body == "" {
		return nil, fmt.Errorf("monte carlo needs a start body: %w", dynamo.ErrInvalidConfig)
	}
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("trials must be positive, got %d: %w", cfg.NumTrials, dynamo.ErrInvalidConfig)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	jitter := func(x float64) float64 { return (rng.Float64() - 0.5) * 2 * x }

	jobs := make([]sim.Job, cfg.NumTrials)
	starts := make([]config.StartConfig, cfg.NumTrials)
	for i := range jobs {
		c := *cfg.Base
		st := c.Start
		st.Altitude = max(st.Altitude+jitter(cfg.Altitude), 0)
		st.Tilt += jitter(cfg.Tilt)
		st.VX += jitter(cfg.Velocity)
		st.VY += jitter(cfg.Velocity)
		st.Spin += jitter(cfg.Spin)
		c.Start = st
		starts[i] = st
		jobs[i] = sim.Job{Name: fmt.Sprintf("trial-%d", i), Config: &c}
	}

	outcomes := sim.Sweep(ctx, jobs, cfg.Workers, log)
	results := make([]MonteCarloResult, len(outcomes))
	for i, out := range outcomes {
		r := MonteCarloResult{TrialID: i, Start: starts[i], Err: out.Err}
		if out.Result != nil {
			final := out.Result.Final()
			r.Final, r.Health = final.FlightState, final.Health
		}
		results[i] = r
	}
	log.Info().Int("trials", cfg.NumTrials).Int64("seed", seed).Msg("monte carlo finished")
	return results, ctx.Err()
}

// MonteCarloStats counts trials by final flight state. Failed trials are
// counted under failed.
func MonteCarloStats(results []MonteCarloResult) (byState map[models.FlightState]int, failed int) {
	byState = make(map[models.FlightState]int)
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		byState[r.Final]++
	}
	return byState, failed
}
