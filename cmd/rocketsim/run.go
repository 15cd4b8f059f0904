package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/sim"
	"github.com/san-kum/rocketsim/internal/storage"
	"github.com/san-kum/rocketsim/internal/tui"
	"github.com/san-kum/rocketsim/internal/viz"
)

// scenarioFlags are shared by the commands that build a configuration.
type scenarioFlags struct {
	configFile string
	dt         float64
	duration   float64
	integrator string
	assist     bool
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configFile, "config", "", "scenario config file (yaml), overrides the preset")
	cmd.Flags().Float64Var(&f.dt, "dt", config.DefaultDt, "timestep in seconds")
	cmd.Flags().Float64Var(&f.duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().StringVar(&f.integrator, "integrator", "", "integrator: euler, verlet or rk4")
	cmd.Flags().BoolVar(&f.assist, "assist", false, "enable assisted stabilization")
}

// resolve returns the preset named in args (default "default"), replaced by
// the config file if one is given. Flags the user set override both.
func (f *scenarioFlags) resolve(cmd *cobra.Command, args []string) (string, *config.Config, error) {
	name := "default"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return "", nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}

	if f.configFile != "" {
		loaded, err := config.Load(f.configFile)
		if err != nil {
			return "", nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("dt") {
		cfg.Dt = f.dt
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = f.duration
	}
	if f.integrator != "" {
		cfg.Integrator = f.integrator
	}
	if cmd.Flags().Changed("assist") {
		cfg.Assist.Enabled = f.assist
	}
	return name, cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runCommand() *cobra.Command {
	var (
		sf        scenarioFlags
		save      bool
		follow    bool
		frameRate int
		every     int
		jsonOut   string
	)
	cmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a batch flight and print its outcome",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, cfg, err := sf.resolve(cmd, args)
			if err != nil {
				return err
			}

			s, err := sim.Build(cfg, log)
			if err != nil {
				return err
			}
			if follow {
				r := tui.NewLiveRenderer(os.Stdout, name, frameRate)
				r.Start()
				defer r.Stop()
				s.AddObserver(r)
			}

			ctx, cancel := signalContext()
			defer cancel()

			runCfg := sim.ConfigFrom(cfg)
			runCfg.Every = every
			log.Info().Str("preset", name).Float64("duration", cfg.Duration).Float64("dt", cfg.Dt).Msg("run started")
			result, err := s.Run(ctx, runCfg)
			if result == nil {
				return err
			}
			if err != nil {
				log.Warn().Err(err).Int("steps", result.StepsTaken).Msg("run stopped early")
			}

			printResult(name, result)

			if save {
				st := storage.New(dataDir())
				if err := st.Init(); err != nil {
					return err
				}
				runID, err := st.Save(name, cfg, result)
				if err != nil {
					return err
				}
				fmt.Printf("\nsaved: %s\n", runID)
			}
			if jsonOut != "" {
				if err := writeJSON(jsonOut, name, cfg, result); err != nil {
					return err
				}
			}
			return err
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&save, "save", true, "store the run under the data directory")
	cmd.Flags().BoolVar(&follow, "follow", false, "draw the flight while it runs")
	cmd.Flags().IntVar(&frameRate, "fps", 20, "frame rate for --follow")
	cmd.Flags().IntVar(&every, "every", 1, "record one snapshot in every N steps")
	cmd.Flags().StringVar(&jsonOut, "json", "", "also write the full run as JSON to this file")
	return cmd
}

func writeJSON(path, name string, cfg *config.Config, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return storage.ExportJSON(f, storage.NewMetadata(name, cfg, result), result)
}

func printResult(name string, result *sim.Result) {
	final := result.Final()
	fmt.Printf("%s: %s", name, final.FlightState)
	if final.LandedOn != "" {
		fmt.Printf(" on %s", final.LandedOn)
	}
	fmt.Printf(" after %.2fs (%d steps)\n", final.Time, result.StepsTaken)
	fmt.Printf("altitude %.1f  speed %.2f  fuel %.1f  health %.0f\n\n", final.Altitude, final.Speed(), final.Fuel, final.Health)

	if len(result.Events) > 0 {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tFROM\tTO\tBODY\tREASON")
		for _, e := range result.Events {
			fmt.Fprintf(w, "%.2f\t%s\t%s\t%s\t%s\n", e.Time, e.From, e.To, e.Body, e.Reason)
		}
		w.Flush()
		fmt.Println()
	}

	printMetrics(result.Metrics)
}

func printMetrics(m map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tVALUE")
	for _, k := range sortedKeys(m) {
		fmt.Fprintf(w, "%s\t%.4f\n", k, m[k])
	}
	w.Flush()
}

func liveCommand() *cobra.Command {
	var sf scenarioFlags
	cmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "fly a preset by hand in the terminal dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, cfg, err := sf.resolve(cmd, args)
			if err != nil {
				return err
			}
			return runProgram(func(log zerolog.Logger) (tea.Model, error) {
				return viz.Launch(cfg, name, log)
			})
		},
	}
	sf.register(cmd)
	return cmd
}

func presetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "list scenario presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tHOME\tSTART\tPILOT\tDURATION")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				start := "landed"
				if cfg.Start.Body != "" {
					start = fmt.Sprintf("%s +%.0f", cfg.Start.Body, cfg.Start.Altitude)
				}
				pilot := cfg.Pilot.Name
				if pilot == "" {
					pilot = "none"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0fs\n", name, cfg.Home, start, pilot, cfg.Duration)
			}
			return w.Flush()
		},
	}
}
