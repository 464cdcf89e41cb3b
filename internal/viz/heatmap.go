package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/halosim/internal/field"
)

var shades = []rune{' ', '·', '░', '▒', '▓', '█'}

type HeatmapOptions struct {
	// Width is the number of terminal columns; rows are Width/2.
	Width int
	// Log shades by log10(1+v) instead of v.
	Log bool
}

// Heatmap renders f as shaded, themed characters with row 0 at the bottom.
// Each character averages the block of cells it covers.
func Heatmap(f field.Field, opts HeatmapOptions) string {
	n := f.N()
	if n == 0 {
		return ""
	}
	cols := opts.Width
	if cols <= 0 || cols > 2*n {
		cols = 2 * n
	}
	rows := max(cols/2, 1)

	cells := make([][]float64, rows)
	peak := 0.0
	for r := range cells {
		cells[r] = make([]float64, cols)
		y0, y1 := span(rows-1-r, rows, n)
		for c := range cells[r] {
			x0, x1 := span(c, cols, n)
			v := blockMean(f, x0, x1, y0, y1)
			if opts.Log {
				v = math.Log10(1 + v)
			}
			cells[r][c] = v
			peak = math.Max(peak, v)
		}
	}

	ramp := CurrentTheme.Ramp
	var b strings.Builder
	for r, row := range cells {
		for _, v := range row {
			level := 0
			if peak > 0 {
				level = int(v / peak * float64(len(shades)-1))
				level = min(max(level, 0), len(shades)-1)
			}
			color := ramp[level*(len(ramp)-1)/(len(shades)-1)]
			b.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(shades[level])))
		}
		if r < len(cells)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// span maps output index i of out onto the half-open cell range of n.
func span(i, out, n int) (int, int) {
	lo := i * n / out
	hi := (i + 1) * n / out
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func blockMean(f field.Field, x0, x1, y0, y1 int) float64 {
	var sum float64
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			sum += f.At(x, y)
		}
	}
	return sum / float64((x1-x0)*(y1-y0))
}
