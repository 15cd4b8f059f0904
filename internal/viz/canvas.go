package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800 // Empty braille char
		}
	}
	return c
}

// Set turns on the sub-pixel at (x, y). The canvas is Width*2 by Height*4
// sub-pixels; points outside are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	c.Grid[row][col] |= rune(pixelMap[subY][subX])
}

// Unset clears a pixel
func (c *Canvas) Unset(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	subX := x % 2
	subY := y % 4

	mask := ^rune(pixelMap[subY][subX])
	c.Grid[row][col] &= mask
	if c.Grid[row][col] < 0x2800 {
		c.Grid[row][col] = 0x2800
	}
}

// Clear resets the canvas
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = 0x2800
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle of radius r sub-pixels. Only the part
// inside the canvas is visited, so huge radii stay cheap.
func (c *Canvas) DrawCircle(cx, cy, r float64) {
	if r <= 0 {
		c.Set(int(cx), int(cy))
		return
	}
	w, h := float64(c.Width*2), float64(c.Height*4)
	if cx+r < 0 || cx-r > w || cy+r < 0 || cy-r > h {
		return
	}
	// The disc misses the canvas.
	nx := math.Max(0, math.Min(cx, w))
	ny := math.Max(0, math.Min(cy, h))
	if math.Hypot(nx-cx, ny-cy) > r {
		return
	}
	steps := int(math.Min(math.Max(2*math.Pi*r, 32), 20000))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if x >= 0 && x < w && y >= 0 && y < h {
			c.Set(int(x), int(y))
		}
	}
}

// Fill sets every sub-pixel inside the circle.
func (c *Canvas) Fill(cx, cy, r float64) {
	w, h := c.Width*2, c.Height*4
	y0, y1 := max(0, int(cy-r)), min(h-1, int(cy+r))
	x0, x1 := max(0, int(cx-r)), min(w-1, int(cx+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx, dy := float64(x)-cx, float64(y)-cy
			if dx*dx+dy*dy <= r*r {
				c.Set(x, y)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
