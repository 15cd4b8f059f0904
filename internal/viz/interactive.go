package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/san-kum/rocketsim/internal/config"
	"github.com/san-kum/rocketsim/internal/event"
	"github.com/san-kum/rocketsim/internal/flight"
)

var (
	cyan = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim  = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	red  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var presetInfo = map[string]string{
	"default": "parked on earth",
	"hover":   "stabilised hover at 150",
	"liftoff": "scheduled burn and coast",
	"descent": "falling from 400",
	"tumble":  "spinning drop",
	"moon":    "parked on the orbiting moon",
	"lowfuel": "nearly empty tank",
}

const (
	stateMenu = iota
	stateSim
)

// App lets the user pick a preset and then flies it in the dashboard.
type App struct {
	state   int
	cursor  int
	presets []string
	log     zerolog.Logger
	err     error
	live    Model
}

func NewInteractiveApp(log zerolog.Logger) App {
	return App{presets: config.ListPresets(), log: log}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		live, cmd := a.live.Update(msg)
		a.live = live.(Model)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter":
		name := a.presets[a.cursor]
		live, err := Launch(config.GetPreset(name), name, a.log)
		if err != nil {
			a.err = err
			return a, nil
		}
		a.live, a.state, a.err = live, stateSim, nil
		return a, a.live.Init()
	}
	return a, nil
}

func (a App) View() string {
	if a.state == stateSim {
		return a.live.View()
	}
	var b strings.Builder
	b.WriteString(cyan.Bold(true).Render("ROCKETSIM") + "\n\n")
	for i, name := range a.presets {
		line := fmt.Sprintf("%-10s %s", name, dim.Render(presetInfo[name]))
		if i == a.cursor {
			b.WriteString(cyan.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}
	if a.err != nil {
		b.WriteString("\n" + red.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n" + KeyHint.Render("↑↓ select  enter fly  q quit"))
	return b.String()
}

// Launch builds a controller for cfg and wraps it in a dashboard.
func Launch(cfg *config.Config, name string, log zerolog.Logger) (Model, error) {
	bus := event.NewBus()
	ctrl, err := flight.FromConfig(cfg, log, flight.WithBus(bus))
	if err != nil {
		return Model{}, err
	}
	return NewModel(ctrl, bus, cfg.Dt, name), nil
}
