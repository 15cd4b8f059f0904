package automation

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/models"
)

const scenarioYAML = `
name: drops
steps:
  - name: gentle
    preset: default
    duration: 2
    start: {body: earth, altitude: 5}
  - preset: tumble
    assist: true
    integrator: euler
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenarioJobs(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	require.NoError(t, err)

	jobs, err := sc.Jobs()
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "gentle", jobs[0].Name)
	assert.Equal(t, 2.0, jobs[0].Config.Duration)
	assert.Equal(t, 5.0, jobs[0].Config.Start.Altitude)

	assert.Equal(t, "drops-2", jobs[1].Name)
	assert.True(t, jobs[1].Config.Assist.Enabled)
	assert.Equal(t, "euler", jobs[1].Config.Integrator)
	assert.Equal(t, 0.8, jobs[1].Config.Start.Spin)
}

func TestLoadScenarioErrors(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: empty\n"))
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

	sc, err := LoadScenario(writeScenario(t, "steps:\n  - preset: nowhere\n"))
	require.NoError(t, err)
	_, err = sc.Jobs()
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestRunMonteCarloValidation(t *testing.T) {
	_, err := RunMonteCarlo(context.Background(), MonteCarloConfig{Base: config.DefaultConfig(), NumTrials: 3}, zerolog.Nop())
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)

	base := config.DefaultConfig()
	base.Start = config.StartConfig{Body: "earth", Altitude: 10}
	_, err = RunMonteCarlo(context.Background(), MonteCarloConfig{Base: base}, zerolog.Nop())
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfig)
}

func TestRunMonteCarloReproducible(t *testing.T) {
	base := config.DefaultConfig()
	base.Duration = 1
	base.Start = config.StartConfig{Body: "earth", Altitude: 60}
	mc := MonteCarloConfig{Base: base, NumTrials: 4, Seed: 7, Altitude: 10, Tilt: 5, Workers: 2}

	a, err := RunMonteCarlo(context.Background(), mc, zerolog.Nop())
	require.NoError(t, err)
	b, err := RunMonteCarlo(context.Background(), mc, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, a, 4)
	for i := range a {
		assert.Equal(t, a[i].Start, b[i].Start)
		assert.Equal(t, a[i].Final, b[i].Final)
		assert.InDelta(t, 60, a[i].Start.Altitude, 10)
	}
	assert.Equal(t, 0.0, base.Start.Tilt)

	byState, failed := MonteCarloStats(a)
	assert.Zero(t, failed)
	total := 0
	for _, n := range byState {
		total += n
	}
	assert.Equal(t, 4, total)
	_, stillFlying := byState[models.Flying]
	assert.True(t, stillFlying)
}
