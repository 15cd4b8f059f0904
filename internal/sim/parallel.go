package sim

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/rocketsim/internal/config"
)

// Job is one independent run of a sweep.
type Job struct {
	Name   string
	Config *config.Config
}

type Outcome struct {
	Name   string
	Result *Result
	Err    error
}

// Sweep runs every job on its own simulator, at most workers at a time.
// Outcomes are returned in job order.
func Sweep(ctx context.Context, jobs []Job, workers int, log zerolog.Logger) []Outcome {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	outcomes := make([]Outcome, len(jobs))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			out := Outcome{Name: job.Name}
			s, err := Build(job.Config, log.With().Str("job", job.Name).Logger())
			if err != nil {
				out.Err = err
			} else {
				out.Result, out.Err = s.Run(ctx, ConfigFrom(job.Config))
			}
			outcomes[i] = out
			return nil
		})
	}

	g.Wait()
	return outcomes
}

// PresetJobs makes one job per named preset. Unknown names are skipped.
func PresetJobs(names ...string) []Job {
	jobs := make([]Job, 0, len(names))
	for _, name := range names {
		if cfg := config.GetPreset(name); cfg != nil {
			jobs = append(jobs, Job{Name: name, Config: cfg})
		}
	}
	return jobs
}
