// Package export renders recorded flights to formats viewable outside the
// terminal.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/rocketsim/internal/dynamo"
)

// Circle is a celestial body outline in world coordinates.
type Circle struct {
	Name   string
	Center dynamo.Vec2
	Radius float64
}

// TrajectorySVG writes the flight path as an SVG. The view box is fitted to
// the path with 10% padding and bodies are clipped to it. World y points
// down, as in SVG, so no flip is needed.
func TrajectorySVG(w io.Writer, path []dynamo.Vec2, bodies []Circle, width, height int, stroke string) error {
	if len(path) < 2 {
		return fmt.Errorf("trajectory needs at least 2 points, got %d", len(path))
	}

	minX, maxX := path[0].X, path[0].X
	minY, maxY := path[0].Y, path[0].Y
	for _, p := range path {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2
	strokeWidth := max(rangeX, rangeY) / 400

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="%.2f %.2f %.2f %.2f" preserveAspectRatio="xMidYMid meet">
<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#0a0a0a"/>
`, width, height, minX, minY, rangeX, rangeY, minX, minY, rangeX, rangeY)

	for _, b := range bodies {
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="#1c2a3a" stroke="#5f87af" stroke-width="%.3f"><title>%s</title></circle>
`, b.Center.X, b.Center.Y, b.Radius, strokeWidth, b.Name)
	}

	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="%.3f" d="M`, stroke, strokeWidth)
	for i, p := range path {
		if i == 0 {
			fmt.Fprintf(&sb, "%.2f,%.2f", p.X, p.Y)
		} else {
			fmt.Fprintf(&sb, " L%.2f,%.2f", p.X, p.Y)
		}
	}
	sb.WriteString(`"/>
`)

	end := path[len(path)-1]
	fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.3f" fill="%s"/>
</svg>
`, end.X, end.Y, strokeWidth*3, stroke)

	_, err := io.WriteString(w, sb.String())
	return err
}
