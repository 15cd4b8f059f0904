package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/rocketsim/internal/analysis"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/export"
	"github.com/san-kum/rocketsim/internal/storage"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := storage.New(dataDir()).List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTIME\tDURATION\tDT\tINTEG\tPILOT\tFINAL")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1fs\t%.4fs\t%s\t%s\t%s\n",
					run.ID,
					run.Name,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Dt,
					run.Integrator,
					run.Pilot,
					run.FinalState,
				)
			}
			return w.Flush()
		},
	}
}

func showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run_id]",
		Short: "print a stored run's metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := storage.New(dataDir()).Load(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(meta)
		},
	}
}

func plotCommand() *cobra.Command {
	var columns []string
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot telemetry columns against time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir())
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			tel, err := st.LoadTelemetry(args[0])
			if err != nil {
				return err
			}
			if len(tel.Times) == 0 {
				return fmt.Errorf("no data to plot")
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("final: %s\n", meta.FinalState)
			fmt.Printf("samples: %d\n\n", len(tel.Times))

			for _, name := range columns {
				data, err := tel.Column(name)
				if err != nil {
					return err
				}
				graph := asciigraph.Plot(data,
					asciigraph.Height(10),
					asciigraph.Width(80),
					asciigraph.Caption(fmt.Sprintf("%s vs time (%.1fs)", name, tel.Times[len(tel.Times)-1])),
				)
				fmt.Println(graph)
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&columns, "column", []string{"altitude", "speed", "fuel"},
		"columns to plot: "+strings.Join(storage.Columns, ", "))
	return cmd
}

func exportCommand() *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a stored run as csv, json or svg",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir())
			runID := args[0]

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			switch format {
			case "csv":
				return st.CopyTelemetry(runID, w)
			case "json":
				meta, err := st.Load(runID)
				if err != nil {
					return err
				}
				tel, err := st.LoadTelemetry(runID)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Run       *storage.RunMetadata `json:"run"`
					Telemetry *storage.Telemetry   `json:"telemetry"`
				}{meta, tel})
			case "svg":
				return exportSVG(st, runID, w)
			default:
				return fmt.Errorf("unknown format %q: want csv, json or svg", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv, json or svg")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file (default stdout)")
	return cmd
}

// exportSVG draws the flight path over the bodies at their configured
// start positions.
func exportSVG(st *storage.Store, runID string, w io.Writer) error {
	cfg, err := st.LoadConfig(runID)
	if err != nil {
		return err
	}
	tel, err := st.LoadTelemetry(runID)
	if err != nil {
		return err
	}
	xs, err := tel.Column("x")
	if err != nil {
		return err
	}
	ys, err := tel.Column("y")
	if err != nil {
		return err
	}

	path := make([]dynamo.Vec2, len(xs))
	for i := range xs {
		path[i] = dynamo.V(xs[i], ys[i])
	}
	bodies := make([]export.Circle, len(cfg.Bodies))
	for i, b := range cfg.Bodies {
		bodies[i] = export.Circle{Name: b.Name, Center: dynamo.V(b.X, b.Y), Radius: b.Radius}
	}
	return export.TrajectorySVG(w, path, bodies, 800, 600, "#00ff87")
}

func analyzeCommand() *cobra.Command {
	var column string
	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a telemetry column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir())
			tel, err := st.LoadTelemetry(args[0])
			if err != nil {
				return err
			}
			if len(tel.Times) < 4 {
				return fmt.Errorf("not enough samples: %d", len(tel.Times))
			}
			data, err := tel.Column(column)
			if err != nil {
				return err
			}

			ps := analysis.PowerSpectrum(data)
			plotData := ps[:max(len(ps)/4, 2)]
			graph := asciigraph.Plot(plotData,
				asciigraph.Height(15),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", column)),
			)
			fmt.Println(graph)
			fmt.Println()

			sampleDt := tel.Times[1] - tel.Times[0]
			freq := analysis.DominantFrequency(data, sampleDt)
			fmt.Printf("dominant frequency: %.3f hz\n", freq)
			if freq > 0 {
				fmt.Printf("period: %.3f s\n", 1.0/freq)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&column, "column", "angle", "telemetry column")
	return cmd
}

func phaseCommand() *cobra.Command {
	var xCol, yCol string
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "scatter one telemetry column against another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tel, err := storage.New(dataDir()).LoadTelemetry(args[0])
			if err != nil {
				return err
			}
			xs, err := tel.Column(xCol)
			if err != nil {
				return err
			}
			ys, err := tel.Column(yCol)
			if err != nil {
				return err
			}
			fmt.Print(analysis.NewPortrait(xCol, xs, yCol, ys).ASCII(70, 24))
			return nil
		},
	}
	cmd.Flags().StringVar(&xCol, "x", "angle", "column on the x axis")
	cmd.Flags().StringVar(&yCol, "y", "omega", "column on the y axis")
	return cmd
}
