package viz

import (
	"math"
	"strings"

	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/inject"
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

const brailleBlank = 0x2800

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
	}
	c.Clear()
	return c
}

// Set lights the sub-pixel (x, y). The canvas is Width*2 by Height*4
// sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawCircle plots a circle of radius r sub-pixels around (cx, cy).
func (c *Canvas) DrawCircle(cx, cy int, r float64) {
	if r <= 0 {
		c.Set(cx, cy)
		return
	}
	n := int(math.Max(16, 2*math.Pi*r))
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		c.Set(cx+int(math.Round(r*math.Cos(a))), cy+int(math.Round(r*math.Sin(a))))
	}
}

// PlotField lights every sub-pixel whose cell value is at least frac of the
// field maximum. Row 0 of the field is drawn at the bottom.
func (c *Canvas) PlotField(f field.Field, frac float64) {
	n := f.N()
	peak := f.Max()
	if n == 0 || peak <= 0 {
		return
	}
	sw, sh := c.Width*2, c.Height*4
	for py := 0; py < sh; py++ {
		y := n - 1 - py*n/sh
		for px := 0; px < sw; px++ {
			if f.At(px*n/sw, y) >= frac*peak {
				c.Set(px, py)
			}
		}
	}
}

// MarkPunctures draws each puncture as a circle of its physical radius.
func (c *Canvas) MarkPunctures(grid field.Grid, ps []inject.PunctureRecord) {
	sw, sh := float64(c.Width*2), float64(c.Height*4)
	for _, p := range ps {
		x := int(p.X / grid.Extent * sw)
		y := int((1 - p.Y/grid.Extent) * sh)
		c.DrawCircle(x, y, p.Radius/grid.Extent*sw)
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}
