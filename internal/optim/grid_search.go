// Package optim tunes scenario parameters by running the simulator over a
// grid of candidate values.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/sim"
)

// Setters maps a parameter name to the config field it controls.
var Setters = map[string]func(*config.Config, float64){
	"kp":   func(c *config.Config, v float64) { c.Assist.Kp = v },
	"ki":   func(c *config.Config, v float64) { c.Assist.Ki = v },
	"kd":   func(c *config.Config, v float64) { c.Assist.Kd = v },
	"main": func(c *config.Config, v float64) { setScheduledMain(c, v) },
}

// setScheduledMain overrides the main power of every schedule entry that
// burns it. Cut-off entries keep their zero.
func setScheduledMain(c *config.Config, v float64) {
	for _, e := range c.Pilot.Schedule {
		if p, ok := e.Powers["main"]; ok && p > 0 {
			e.Powers["main"] = v
		}
	}
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params but %d ranges: %w", len(params), len(ranges), dynamo.ErrInvalidConfig)
	}
	for i, name := range params {
		if _, ok := Setters[name]; !ok {
			return nil, fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrInvalidConfig)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("parameter %q has no values: %w", name, dynamo.ErrInvalidConfig)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search runs base once per grid point and returns every trial sorted by
// metric, lowest first. Failed trials sort last.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metric string, workers int, log zerolog.Logger) ([]Trial, error) {
	points := g.points()
	jobs := make([]sim.Job, len(points))
	for i, p := range points {
		cfg := clone(base)
		for name, v := range p {
			Setters[name](cfg, v)
		}
		jobs[i] = sim.Job{Name: label(p), Config: cfg}
	}

	outcomes := sim.Sweep(ctx, jobs, workers, log)
	trials := make([]Trial, len(outcomes))
	for i, out := range outcomes {
		tr := Trial{Params: points[i], Value: math.Inf(1), Err: out.Err}
		if out.Err == nil {
			v, ok := out.Result.Metrics[metric]
			if ok {
				tr.Value = v
			} else {
				tr.Err = fmt.Errorf("metric %q not recorded: %w", metric, dynamo.ErrInvalidConfig)
			}
		}
		trials[i] = tr
	}
	if err := ctx.Err(); err != nil {
		return trials, err
	}

	sort.SliceStable(trials, func(i, j int) bool {
		if (trials[i].Err == nil) != (trials[j].Err == nil) {
			return trials[i].Err == nil
		}
		return trials[i].Value < trials[j].Value
	})
	if trials[0].Err != nil {
		return trials, fmt.Errorf("every trial failed: %w", trials[0].Err)
	}
	return trials, nil
}

// points expands the grid in parameter order.
func (g *GridSearch) points() []map[string]float64 {
	out := []map[string]float64{{}}
	for i, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(out)*len(g.ranges[i]))
		for _, cur := range out {
			for _, v := range g.ranges[i] {
				p := make(map[string]float64, len(cur)+1)
				for k, x := range cur {
					p[k] = x
				}
				p[name] = v
				next = append(next, p)
			}
		}
		out = next
	}
	return out
}

func label(p map[string]float64) string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, p[k])
	}
	return strings.Join(parts, ",")
}

// clone copies the parts of cfg a setter may touch so trials never share
// state.
func clone(cfg *config.Config) *config.Config {
	c := *cfg
	c.Bodies = append([]config.BodyConfig(nil), cfg.Bodies...)
	c.Vehicle.Thrusters = append([]config.ThrusterConfig(nil), cfg.Vehicle.Thrusters...)
	c.Pilot.Schedule = make([]config.ScheduleEntry, len(cfg.Pilot.Schedule))
	for i, e := range cfg.Pilot.Schedule {
		powers := make(map[string]float64, len(e.Powers))
		for k, v := range e.Powers {
			powers[k] = v
		}
		c.Pilot.Schedule[i] = config.ScheduleEntry{At: e.At, Powers: powers}
	}
	return &c
}
