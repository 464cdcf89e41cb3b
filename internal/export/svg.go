package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// FieldToSVG draws one square of side scale per cell, coloured by the
// current theme's ramp, with row 0 at the bottom. With logScale the shading
// follows log10(1+v).
func FieldToSVG(f field.Field, scale int, logScale bool) string {
	n := f.N()
	if n == 0 || scale <= 0 {
		return ""
	}
	side := n * scale

	shade := func(v float64) float64 {
		if logScale {
			return math.Log10(1 + math.Max(v, 0))
		}
		return v
	}
	peak := shade(f.Max())

	ramp := viz.CurrentTheme.Ramp
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, side, side, side, side))
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			level := 0
			if peak > 0 {
				level = int(shade(f.At(x, y)) / peak * float64(len(ramp)-1))
				level = min(max(level, 0), len(ramp)-1)
			}
			if level == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>
`, x*scale, (n-1-y)*scale, scale, scale, string(ramp[level])))
		}
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// CanvasToSVG converts a Braille canvas to SVG dots.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := int(float64(canvas.Width) * scale * 2)
	height := int(float64(canvas.Height) * scale * 4)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, width, height, width, height))
	sb.WriteString(fmt.Sprintf("<g fill=\"%s\">\n", string(viz.CurrentTheme.Accent)))

	dotRadius := scale * 0.4
	for py := 0; py < canvas.Height*4; py++ {
		for px := 0; px < canvas.Width*2; px++ {
			if !canvas.IsSet(px, py) {
				continue
			}
			cx := float64(px)*scale + scale/2
			cy := float64(py)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CurveToSVG draws y against x as a polyline, e.g. a rotation curve.
func CurveToSVG(xs, ys []float64, width, height int, strokeColor string) string {
	if len(xs) < 2 || len(xs) != len(ys) {
		return ""
	}

	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		minX, maxX = math.Min(minX, xs[i]), math.Max(maxX, xs[i])
		minY, maxY = math.Min(minY, ys[i]), math.Max(maxY, ys[i])
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

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(svgHeader, width, height, width, height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))

	for i := range xs {
		x := (xs[i] - minX) / rangeX * float64(width)
		y := float64(height) - (ys[i]-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
