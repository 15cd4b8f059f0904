package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/rocketsim/internal/logging"
	"github.com/san-kum/rocketsim/internal/viz"
)

var (
	settings     = viper.New()
	settingsFile string
	log          zerolog.Logger
	logSink      io.Closer
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "rocketsim",
		Short:             "rocket landing flight simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if logSink != nil {
				logSink.Close()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProgram(func(log zerolog.Logger) (tea.Model, error) {
				return viz.NewInteractiveApp(log), nil
			})
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsFile, "settings", "", "settings file (default ./rocketsim.yaml or ~/.config/rocketsim/rocketsim.yaml)")
	flags.String("data", ".rocketsim", "run data directory")
	flags.String("log-level", "info", "log level: trace, debug, info, warn, error, off")
	flags.String("log-format", "console", "log format: console or json")
	flags.String("log-file", "", "write logs to a file instead of stderr")

	rootCmd.AddCommand(
		runCommand(), liveCommand(), presetsCommand(),
		listCommand(), showCommand(), plotCommand(), exportCommand(), analyzeCommand(), phaseCommand(),
		sweepCommand(), tuneCommand(), scenarioCommand(), monteCarloCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the settings file, binds ROCKETSIM_* variables and flags, and
// builds the logger.
func setup(cmd *cobra.Command, _ []string) error {
	settings.SetEnvPrefix("ROCKETSIM")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()

	if settingsFile != "" {
		settings.SetConfigFile(settingsFile)
	} else {
		settings.SetConfigName("rocketsim")
		settings.SetConfigType("yaml")
		settings.AddConfigPath(".")
		settings.AddConfigPath("$HOME/.config/rocketsim")
	}
	if err := settings.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if settingsFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read settings: %w", err)
		}
	}
	if err := settings.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	var out io.Writer = os.Stderr
	if path := settings.GetString("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		out, logSink = f, f
	}
	log = logging.New(out, settings.GetString("log-level"), settings.GetString("log-format") == "console")
	return nil
}

func dataDir() string {
	return settings.GetString("data")
}

// runProgram runs a full-screen dashboard. Logging to the terminal would
// tear the screen, so it is silenced unless a log file is set.
func runProgram(build func(zerolog.Logger) (tea.Model, error)) error {
	if settings.GetString("log-file") == "" {
		log = log.Level(zerolog.Disabled)
	}
	m, err := build(log)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
