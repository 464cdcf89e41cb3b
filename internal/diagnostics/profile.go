package diagnostics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/halosim/internal/field"
)

const (
	// DefaultShells is the number of radial shells in a density profile.
	DefaultShells = 29
	// DefaultRadii is the number of sample radii on a rotation curve.
	DefaultRadii = 30
	// DefaultMinRadius is the innermost rotation curve radius.
	DefaultMinRadius = 0.1
)

type options struct {
	centered  bool
	cx, cy    int
	shells    int
	radii     int
	minRadius float64
}

type Option func(*options)

// WithCenter measures distances from lattice cell (x, y) instead of the grid
// centre.
func WithCenter(x, y int) Option {
	return func(o *options) {
		o.centered = true
		o.cx, o.cy = x, y
	}
}

// WithShells sets the number of profile shells. Values below 1 are ignored.
func WithShells(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.shells = n
		}
	}
}

// WithRadii sets the number of rotation curve radii. Values below 2 are ignored.
func WithRadii(n int) Option {
	return func(o *options) {
		if n >= 2 {
			o.radii = n
		}
	}
}

func WithMinRadius(r float64) Option {
	return func(o *options) {
		if r > 0 {
			o.minRadius = r
		}
	}
}

func resolve(grid field.Grid, opts []Option) options {
	o := options{shells: DefaultShells, radii: DefaultRadii, minRadius: DefaultMinRadius}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.centered {
		o.cx, o.cy = grid.Center()
	}
	return o
}

// Profile pairs shell-midpoint radii with the mean density in each shell.
type Profile struct {
	Radius  []float64 `json:"radius"`
	Density []float64 `json:"density"`
}

func (p Profile) Len() int { return len(p.Radius) }

// Peak returns the largest shell density.
func (p Profile) Peak() float64 {
	if len(p.Density) == 0 {
		return 0
	}
	return floats.Max(p.Density)
}

// RadialProfile bins the cells of f into equal-width shells over
// [0, extent/2] by distance from the centre and averages f in each shell.
// A cell belongs to [low, high); empty shells report 0.
func RadialProfile(grid field.Grid, f field.Field, opts ...Option) Profile {
	o := resolve(grid, opts)

	edges := floats.Span(make([]float64, o.shells+1), 0, grid.Extent/2)
	members := make([][]float64, o.shells)

	data := f.Data()
	for i, d := range grid.Distances(o.cx, o.cy) {
		s := shellOf(edges, d)
		if s >= 0 {
			members[s] = append(members[s], data[i])
		}
	}

	p := Profile{
		Radius:  make([]float64, o.shells),
		Density: make([]float64, o.shells),
	}
	for s := range members {
		p.Radius[s] = (edges[s] + edges[s+1]) / 2
		if len(members[s]) > 0 {
			p.Density[s] = stat.Mean(members[s], nil)
		}
	}
	return p
}

// shellOf returns the shell whose [low, high) range contains d, or -1.
func shellOf(edges []float64, d float64) int {
	for s := 0; s < len(edges)-1; s++ {
		if d >= edges[s] && d < edges[s+1] {
			return s
		}
	}
	return -1
}
