package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/rocketsim/internal/automation"
	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/models"
	"github.com/san-kum/rocketsim/internal/optim"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/storage"
)

func printOutcomes(outcomes []sim.Outcome) {
	metricNames := []string{"fuel_used", "max_altitude", "max_speed", "touchdowns", "stability"}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "JOB\tFINAL\tTIME\t%s\n", strings.ToUpper(strings.Join(metricNames, "\t")))
	for _, out := range outcomes {
		if out.Err != nil && out.Result == nil {
			fmt.Fprintf(w, "%s\terror: %v\n", out.Name, out.Err)
			continue
		}
		final := out.Result.Final()
		fmt.Fprintf(w, "%s\t%s\t%.1f", out.Name, final.FlightState, final.Time)
		for _, m := range metricNames {
			fmt.Fprintf(w, "\t%.3f", out.Result.Metrics[m])
		}
		fmt.Fprintln(w)
	}
	w.Flush()
}

func saveOutcomes(jobs []sim.Job, outcomes []sim.Outcome) error {
	st := storage.New(dataDir())
	if err := st.Init(); err != nil {
		return err
	}
	for i, out := range outcomes {
		if out.Result == nil {
			continue
		}
		runID, err := st.Save(out.Name, jobs[i].Config, out.Result)
		if err != nil {
			return err
		}
		log.Info().Str("run", runID).Msg("saved")
	}
	return nil
}

func sweepCommand() *cobra.Command {
	var (
		workers int
		save    bool
	)
	cmd := &cobra.Command{
		Use:   "sweep [preset...]",
		Short: "run several presets in parallel and compare them",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = config.ListPresets()
			}
			jobs := sim.PresetJobs(names...)
			if len(jobs) != len(names) {
				return fmt.Errorf("unknown preset in %v (available: %v)", names, config.ListPresets())
			}

			ctx, cancel := signalContext()
			defer cancel()
			outcomes := sim.Sweep(ctx, jobs, workers, log)
			printOutcomes(outcomes)
			if save {
				return saveOutcomes(jobs, outcomes)
			}
			return ctx.Err()
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default: number of CPUs)")
	cmd.Flags().BoolVar(&save, "save", false, "store every run")
	return cmd
}

// parseGrid reads name=v1,v2,... flags.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, nil, fmt.Errorf("bad parameter %q: want name=v1,v2", spec)
		}
		var vals []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("parameter %s: %w", name, err)
			}
			vals = append(vals, v)
		}
		names = append(names, name)
		ranges = append(ranges, vals)
	}
	return names, ranges, nil
}

func tuneCommand() *cobra.Command {
	var (
		sf      scenarioFlags
		params  []string
		metric  string
		workers int
		top     int
	)
	cmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search parameters to minimise a metric",
		Long:  "grid search over assist gains (kp, ki, kd) or scheduled main power (main)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, cfg, err := sf.resolve(cmd, args)
			if err != nil {
				return err
			}
			names, ranges, err := parseGrid(params)
			if err != nil {
				return err
			}
			g, err := optim.NewGridSearch(names, ranges)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()
			trials, err := g.Search(ctx, cfg, metric, workers, log)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "RANK\tPARAMS\t%s\n", strings.ToUpper(metric))
			for i, tr := range trials[:min(top, len(trials))] {
				val := fmt.Sprintf("%.4f", tr.Value)
				if tr.Err != nil {
					val = tr.Err.Error()
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, paramString(tr.Params), val)
			}
			w.Flush()
			log.Info().Str("preset", name).Int("trials", len(trials)).Msg("tuning finished")
			return err
		},
	}
	sf.register(cmd)
	cmd.Flags().StringArrayVar(&params, "param", []string{"kp=20,40,60", "kd=2,4,8"}, "parameter grid as name=v1,v2,...")
	cmd.Flags().StringVar(&metric, "metric", "stability", "metric to minimise")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default: number of CPUs)")
	cmd.Flags().IntVar(&top, "top", 5, "rows to print")
	return cmd
}

func paramString(p map[string]float64) string {
	parts := make([]string, 0, len(p))
	for _, k := range sortedKeys(p) {
		parts = append(parts, fmt.Sprintf("%s=%g", k, p[k]))
	}
	return strings.Join(parts, " ")
}

func scenarioCommand() *cobra.Command {
	var (
		workers int
		save    bool
	)
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run every step of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			jobs, err := sc.Jobs()
			if err != nil {
				return err
			}
			if sc.Description != "" {
				fmt.Printf("%s: %s\n\n", sc.Name, sc.Description)
			}

			ctx, cancel := signalContext()
			defer cancel()
			outcomes := sim.Sweep(ctx, jobs, workers, log)
			printOutcomes(outcomes)

			for i, step := range sc.Steps {
				if step.SaveAs != "" {
					outcomes[i].Name = step.SaveAs
				} else if !save {
					outcomes[i].Result = nil
				}
			}
			return saveOutcomes(jobs, outcomes)
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (default: number of CPUs)")
	cmd.Flags().BoolVar(&save, "save", false, "store every step, not only those with save_as")
	return cmd
}

func monteCarloCommand() *cobra.Command {
	var (
		sf  scenarioFlags
		mc  automation.MonteCarloConfig
		alt float64
	)
	cmd := &cobra.Command{
		Use:   "montecarlo [preset]",
		Short: "fly randomised copies of a start and count the outcomes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, cfg, err := sf.resolve(cmd, args)
			if err != nil {
				return err
			}
			if cfg.Start.Body == "" {
				cfg.Start = config.StartConfig{Body: cfg.Home, Altitude: alt}
			}
			mc.Base = cfg

			ctx, cancel := signalContext()
			defer cancel()
			results, err := automation.RunMonteCarlo(ctx, mc, log)
			if err != nil && results == nil {
				return err
			}

			byState, failed := automation.MonteCarloStats(results)
			fmt.Printf("%s: %d trials\n", name, len(results))
			for _, s := range []models.FlightState{models.Landed, models.Flying, models.Destroyed} {
				n := byState[s]
				fmt.Printf("  %-10s %4d  %5.1f%%\n", s, n, 100*float64(n)/float64(len(results)))
			}
			if failed > 0 {
				fmt.Printf("  %-10s %4d\n", "failed", failed)
			}
			return err
		},
	}
	sf.register(cmd)
	cmd.Flags().IntVar(&mc.NumTrials, "trials", 50, "number of trials")
	cmd.Flags().Int64Var(&mc.Seed, "seed", 0, "random seed (default: time based)")
	cmd.Flags().Float64Var(&mc.Altitude, "jitter-alt", 20, "altitude perturbation")
	cmd.Flags().Float64Var(&mc.Tilt, "jitter-tilt", 10, "tilt perturbation in degrees")
	cmd.Flags().Float64Var(&mc.Velocity, "jitter-vel", 1, "velocity perturbation per axis")
	cmd.Flags().Float64Var(&mc.Spin, "jitter-spin", 0.05, "spin perturbation")
	cmd.Flags().IntVar(&mc.Workers, "workers", 0, "parallel runs (default: number of CPUs)")
	cmd.Flags().Float64Var(&alt, "altitude", 100, "start altitude when the preset starts landed")
	return cmd
}
