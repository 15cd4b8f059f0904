package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/rocketsim/internal/control"
	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/event"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/models"
	"github.com/san-kum/rocketsim/internal/physics"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	eventLines      = 4
	powerStep       = 10.0
	defaultZoom     = 2.0
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// eventLog is shared between the bus subscription and the model copies
// bubbletea makes.
type eventLog struct {
	lines []string
}

func (l *eventLog) add(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > eventLines {
		l.lines = l.lines[len(l.lines)-eventLines:]
	}
}

// Model is the live flight dashboard.
type Model struct {
	ctrl     *flight.Controller
	manual   *control.Manual
	dt       float64
	name     string
	canvas   *Canvas
	zoom     float64
	running  bool
	showHelp bool

	history  []flight.Snapshot
	playHead int
	altitude []float64
	fuel     []float64
	log      *eventLog
}

// NewModel builds a dashboard around ctrl. Key presses reach the vehicle
// through a manual pilot applied before every step.
func NewModel(ctrl *flight.Controller, bus *event.Bus, dt float64, name string) Model {
	m := Model{
		ctrl:     ctrl,
		manual:   control.NewManual(),
		dt:       dt,
		name:     name,
		canvas:   NewCanvas(width, height),
		zoom:     defaultZoom,
		running:  true,
		history:  make([]flight.Snapshot, 0, historyCapacity),
		playHead: -1,
		log:      &eventLog{},
	}
	if bus != nil {
		log := m.log
		bus.Subscribe(flight.EventStateChanged, func(e event.Event) {
			sc := e.(flight.StateChange)
			log.add(fmt.Sprintf("%6.1fs %s → %s %s (%s)", sc.Time, sc.From, sc.To, sc.Body, sc.Reason))
		})
		bus.Subscribe(flight.EventDamage, func(e event.Event) {
			d := e.(flight.DamageEvent)
			log.add(fmt.Sprintf("%6.1fs hit %s at %.1f, health %.0f", d.Time, d.Body, d.Impact, d.Health))
		})
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.handleKey(msg.String())
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) power(id models.ThrusterID) float64 {
	if t, ok := m.ctrl.Vehicle().Thruster(id); ok {
		return t.Power
	}
	return 0
}

func (m *Model) toggle(id models.ThrusterID) {
	t, ok := m.ctrl.Vehicle().Thruster(id)
	if !ok {
		return
	}
	if t.Power > 0 {
		m.manual.Set(id, 0)
	} else {
		m.manual.Set(id, t.MaxPower)
	}
}

func (m *Model) handleKey(key string) {
	switch key {
	case " ":
		m.running = !m.running
	case "up", "w":
		m.manual.Set(models.Main, m.power(models.Main)+powerStep)
	case "down", "s":
		m.manual.Set(models.Main, m.power(models.Main)-powerStep)
	case "x":
		for _, id := range models.ThrusterIDs {
			m.manual.Set(id, 0)
		}
	case "left", "a":
		m.toggle(models.Left)
	case "right", "d":
		m.toggle(models.Right)
	case "b":
		m.toggle(models.Rear)
	case "f":
		m.ctrl.ToggleAssistedStabilization()
	case "r":
		m.ctrl.ResetVehicle()
		m.manual.Command(0, nil)
		m.history = m.history[:0]
		m.altitude = m.altitude[:0]
		m.fuel = m.fuel[:0]
		m.playHead = -1
	case "+", "=":
		m.ctrl.SetTimeScale(m.ctrl.TimeScale() * 2)
	case "-", "_":
		m.ctrl.SetTimeScale(m.ctrl.TimeScale() / 2)
	case "z":
		m.zoom = math.Max(m.zoom/1.5, 0.05)
	case "Z":
		m.zoom = math.Min(m.zoom*1.5, 200)
	case "[":
		m.scrub(-1)
	case "]":
		m.scrub(1)
	case "t":
		NextTheme()
	case "?":
		m.showHelp = !m.showHelp
	}
}

// step applies pending key commands and advances the flight one frame.
func (m *Model) step() {
	v := m.ctrl.Vehicle()
	for id, p := range m.manual.Command(m.ctrl.Time(), v) {
		m.ctrl.SetThrusterPower(id, p)
	}
	snap := m.ctrl.Step(m.dt)

	m.history = appendCapped(m.history, snap)
	m.altitude = appendCapped(m.altitude, snap.Altitude)
	m.fuel = appendCapped(m.fuel, snap.Fuel)
}

func appendCapped[T any](s []T, v T) []T {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// scrub moves the replay position through the recorded history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// current is the snapshot on screen: the replayed one or the live one.
func (m Model) current() flight.Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.ctrl.Snapshot()
}

// project maps a world point to canvas sub-pixels around the camera.
func (m Model) project(p, camera dynamo.Vec2) (float64, float64) {
	cw, ch := float64(m.canvas.Width*2), float64(m.canvas.Height*4)
	return cw/2 + (p.X-camera.X)/m.zoom, ch/2 + (p.Y-camera.Y)/m.zoom
}

func (m Model) draw(s flight.Snapshot) {
	m.canvas.Clear()
	camera := s.Position

	for _, b := range m.ctrl.Universe().Bodies() {
		x, y := m.project(b.Position, camera)
		m.canvas.DrawCircle(x, y, b.Radius/m.zoom)
	}

	half := m.ctrl.Vehicle().Radius
	fwd := dynamo.Forward(s.Angle)
	nose := s.Position.Add(fwd.Scale(half))
	tail := s.Position.Sub(fwd.Scale(half))
	nx, ny := m.project(nose, camera)
	tx, ty := m.project(tail, camera)
	m.canvas.DrawLine(int(tx), int(ty), int(nx), int(ny))
	m.canvas.Fill(nx, ny, 1)

	if f := s.ThrusterForces[models.Main]; !f.IsZero() {
		flame := tail.Sub(fwd.Scale(half * s.ThrusterPowers[models.Main] / 100))
		fx, fy := m.project(flame, camera)
		m.canvas.DrawLine(int(tx), int(ty), int(fx), int(fy))
	}
}

func (m Model) View() string {
	s := m.current()
	m.draw(s)
	canvasView := canvasStyle.Render(m.canvas.String())

	var b strings.Builder
	title := lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Inherit(headerStyle)
	b.WriteString(title.Render(strings.ToUpper(m.name)) + "\n")

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.playHead != -1:
		status = StatusPaused.Render(fmt.Sprintf("REPLAY (%.1fs)", s.Time-m.history[len(m.history)-1].Time))
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	b.WriteString(fmt.Sprintf("%s  x%.2g\n\n", status, m.ctrl.TimeScale()))

	state := s.FlightState.String()
	if s.LandedOn != "" {
		state += " on " + s.LandedOn
	}
	b.WriteString(labelStyle.Render("State") + stateStyle(s.FlightState).Render(state) + "\n")
	b.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", s.Time)) + "\n")
	b.WriteString(labelStyle.Render("Altitude") + valueStyle.Render(fmt.Sprintf("%.1f (%s)", s.Altitude, s.Nearest)) + "\n")
	b.WriteString(labelStyle.Render("Speed") + valueStyle.Render(fmt.Sprintf("%.2f", s.Speed())) + "\n")
	b.WriteString(labelStyle.Render("Spin") + valueStyle.Render(fmt.Sprintf("%.3f rad/s", s.AngularVelocity)) + "\n")
	b.WriteString(labelStyle.Render("Heading") + valueStyle.Render(fmt.Sprintf("%.1f°", dynamo.ToDeg(dynamo.WrapAngle(s.Angle)))) + "\n")

	v := m.ctrl.Vehicle()
	b.WriteString(labelStyle.Render("Fuel") + ProgressBar(s.Fuel/v.FuelMax, 20) + "\n")
	b.WriteString(labelStyle.Render("Health") + ProgressBar(s.Health/v.HealthMax, 20) + "\n")
	twr := physics.ThrustToWeight(v, s.GravityVector.Scale(v.Mass))
	b.WriteString(labelStyle.Render("T/W") + valueStyle.Render(fmt.Sprintf("%.2f", twr)) + "\n")
	assist := "off"
	if s.Assisted {
		assist = "on"
	}
	b.WriteString(labelStyle.Render("Assist") + valueStyle.Render(assist) + "\n")

	b.WriteString("\nTHRUSTERS\n")
	for _, id := range models.ThrusterIDs {
		p, ok := s.ThrusterPowers[id]
		if !ok {
			continue
		}
		b.WriteString(fmt.Sprintf("  %s%5.0f%%\n", labelStyle.Render(string(id)), p))
	}

	if len(m.altitude) > 1 {
		chart := asciigraph.Plot(m.altitude, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Altitude"))
		b.WriteString(graphStyle.Render(chart) + "\n")
	}
	b.WriteString(labelStyle.Render("Fuel use") + SparklineChart(m.fuel, 30) + "\n")

	if len(m.log.lines) > 0 {
		b.WriteString("\nEVENTS\n")
		for _, line := range m.log.lines {
			b.WriteString(KeyHint.Render(line) + "\n")
		}
	}

	b.WriteString(helpStyle.Render("W/S:Main A/D:Turn B:Rear X:Cut\nF:Assist R:Reset SP:Pause ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(b.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  W/Up     - Main thruster +10%       ║
║  S/Down   - Main thruster -10%       ║
║  A/Left   - Toggle left thruster     ║
║  D/Right  - Toggle right thruster    ║
║  B        - Toggle rear thruster     ║
║  X        - Cut all thrusters        ║
║  F        - Toggle stabiliser        ║
║  +/-      - Faster/slower time       ║
║  z/Z      - Zoom in/out              ║
║  [ ]      - Rewind/forward replay    ║
║  Space    - Pause/Resume             ║
║  R        - Reset on home body       ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
