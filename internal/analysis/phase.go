package analysis

import (
	"fmt"
	"strings"
)

// Portrait is a scatter of one telemetry channel against another.
type Portrait struct {
	XLabel, YLabel string
	X, Y           []float64
}

// NewPortrait pairs x and y, truncating to the shorter of the two.
func NewPortrait(xLabel string, x []float64, yLabel string, y []float64) *Portrait {
	n := min(len(x), len(y))
	return &Portrait{XLabel: xLabel, YLabel: yLabel, X: x[:n], Y: y[:n]}
}

func bounds(vals []float64) (lo, hi float64) {
	lo, hi = vals[0], vals[0]
	for _, v := range vals {
		lo, hi = min(lo, v), max(hi, v)
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return lo - span*0.1, hi + span*0.1
}

// ASCII renders the portrait on a width×height grid with axes drawn where
// zero is in range.
func (p *Portrait) ASCII(width, height int) string {
	if len(p.X) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := bounds(p.X)
	minY, maxY := bounds(p.Y)
	col := func(x float64) int { return int((x - minX) / (maxX - minX) * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/(maxY-minY)*float64(height-1)) }

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := range canvas {
			canvas[r][c] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := range canvas[r] {
			canvas[r][c] = '─'
		}
	}

	for i := range p.X {
		r, c := row(p.Y[i]), col(p.X[i])
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%.3g, %.3g] vs %s [%.3g, %.3g]\n", p.YLabel, minY, maxY, p.XLabel, minX, maxX)
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}
