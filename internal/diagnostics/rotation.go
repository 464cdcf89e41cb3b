package diagnostics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/halosim/internal/field"
)

// RotationCurve pairs radii with the circular velocity sqrt(G·M(<r)/r).
type RotationCurve struct {
	Radius   []float64 `json:"radius"`
	Velocity []float64 `json:"velocity"`
	Enclosed []float64 `json:"enclosed_mass"`
}

func (c RotationCurve) Len() int { return len(c.Radius) }

// MaxVelocity returns the peak circular velocity and the radius it occurs at.
func (c RotationCurve) MaxVelocity() (v, r float64) {
	if len(c.Velocity) == 0 {
		return 0, 0
	}
	i := floats.MaxIdx(c.Velocity)
	return c.Velocity[i], c.Radius[i]
}

// Rotation samples radii evenly over [minRadius, extent/2] and sums mass
// over the cells strictly inside each radius. mass is typically
// frozen + source.
func Rotation(grid field.Grid, mass field.Field, g float64, opts ...Option) RotationCurve {
	o := resolve(grid, opts)

	outer := grid.Extent / 2
	inner := o.minRadius
	if inner >= outer {
		inner = outer / float64(o.radii)
	}

	c := RotationCurve{
		Radius:   floats.Span(make([]float64, o.radii), inner, outer),
		Velocity: make([]float64, o.radii),
		Enclosed: make([]float64, o.radii),
	}

	dist := grid.Distances(o.cx, o.cy)
	data := mass.Data()
	for i, r := range c.Radius {
		var m float64
		for j, d := range dist {
			if d < r {
				m += data[j]
			}
		}
		c.Enclosed[i] = m
		c.Velocity[i] = math.Sqrt(math.Max(g*m/r, 0))
	}
	return c
}
