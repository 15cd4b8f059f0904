// Package tui prints a plain ANSI view of a batch run as it progresses,
// for terminals where the full dashboard is not wanted.
package tui

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/san-kum/rocketsim/internal/dynamo"
	"github.com/san-kum/rocketsim/internal/flight"
	"github.com/san-kum/rocketsim/internal/models"
)

const (
	width       = 60
	height      = 16
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer draws the altitude column and a status block at most
// frameRate times per second. It implements sim.Observer.
type LiveRenderer struct {
	out     io.Writer
	name    string
	frames  *rate.Limiter
	ceiling float64
	now     func() time.Time
	canvas  [][]rune
	trail   []int
}

func NewLiveRenderer(out io.Writer, name string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:     out,
		name:    name,
		frames:  rate.NewLimiter(rate.Every(time.Second/time.Duration(max(frameRate, 1))), 1),
		ceiling: 100,
		now:     time.Now,
		canvas:  canvas,
		trail:   make([]int, 0, width),
	}
}

func (r *LiveRenderer) OnStep(s flight.Snapshot) {
	if !r.frames.AllowN(r.now(), 1) {
		return
	}

	r.clear()
	r.drawAltitude(s)
	r.render(s)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// row maps an altitude to a canvas row; the ground is the bottom row.
func (r *LiveRenderer) row(alt float64) int {
	frac := math.Max(alt, 0) / r.ceiling
	return height - 2 - int(frac*float64(height-2))
}

// drawAltitude scrolls the altitude trace and puts the vehicle glyph at
// the right edge. The vertical scale doubles when the vehicle leaves it.
func (r *LiveRenderer) drawAltitude(s flight.Snapshot) {
	for s.Altitude > r.ceiling {
		r.ceiling *= 2
	}
	r.trail = append(r.trail, r.row(s.Altitude))
	if len(r.trail) > width-1 {
		r.trail = r.trail[1:]
	}

	for x := 0; x < width; x++ {
		r.set(x, height-1, '=')
	}
	for i, y := range r.trail[:len(r.trail)-1] {
		r.set(i, y, '.')
	}
	r.set(len(r.trail)-1, r.trail[len(r.trail)-1], glyph(s))
}

func glyph(s flight.Snapshot) rune {
	switch s.FlightState {
	case models.Destroyed:
		return 'X'
	case models.Landed:
		return 'A'
	}
	if f := s.ThrusterForces[models.Main]; !f.IsZero() {
		return '^'
	}
	return 'o'
}

func (r *LiveRenderer) render(s flight.Snapshot) {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.2fs  %s %s\n", r.name, s.Time, s.FlightState, s.LandedOn))
	b.WriteString(fmt.Sprintf("  %-8s %.0f\n", "ceiling", r.ceiling))

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString(fmt.Sprintf("  alt=%.1f speed=%.2f heading=%.1f° spin=%.3f\n",
		s.Altitude, s.Speed(), dynamo.ToDeg(dynamo.WrapAngle(s.Angle)), s.AngularVelocity))
	b.WriteString(fmt.Sprintf("  fuel=%.1f health=%.0f main=%.0f%%\n", s.Fuel, s.Health, s.ThrusterPowers[models.Main]))

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }
