// Package poisson solves the periodic 2D Poisson equation ∇²Φ = 4πGρ with a
// spectral method.
package poisson

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/halosim/internal/field"
)

// Solver holds the precomputed k² lattice for one grid. It is safe to reuse
// across solves; Solve never mutates the solver.
type Solver struct {
	grid field.Grid
	g    float64
	k2   [][]float64
}

// NewSolver prepares a solver for grid with gravitational constant g. With
// angular set, wavenumbers carry the 2π factor; otherwise they are the plain
// sample frequencies in cycles per unit length.
func NewSolver(grid field.Grid, g float64, angular bool) *Solver {
	n := grid.Size
	k := Frequencies(n, grid.Spacing())
	if angular {
		for i := range k {
			k[i] *= 2 * math.Pi
		}
	}

	k2 := make([][]float64, n)
	for y := range k2 {
		k2[y] = make([]float64, n)
		for x := range k2[y] {
			k2[y][x] = k[x]*k[x] + k[y]*k[y]
		}
	}
	return &Solver{grid: grid, g: g, k2: k2}
}

func (s *Solver) Grid() field.Grid { return s.grid }

// Solve returns Φ for density rho. Φ_k = -4πG ρ_k / k² for every non-zero
// wavenumber; the DC term is pinned to zero, so the output has zero mean.
func (s *Solver) Solve(rho field.Field) field.Field {
	n := s.grid.Size
	if rho.N() != n {
		panic("poisson: density shape does not match solver grid")
	}

	rhoK := fft.FFT2Real(rho.Rows())
	scale := complex(-4*math.Pi*s.g, 0)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			k2 := s.k2[y][x]
			if k2 == 0 {
				rhoK[y][x] = 0
				continue
			}
			rhoK[y][x] = scale * rhoK[y][x] / complex(k2, 0)
		}
	}
	rhoK[0][0] = 0

	phi := fft.IFFT2(rhoK)
	out := field.New(n)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			out.Set(x, y, real(phi[y][x]))
		}
	}
	return out
}

// Frequencies returns the FFT sample frequencies for n points spaced d apart:
// [0, 1, ..., ceil(n/2)-1, -floor(n/2), ..., -1] / (n*d).
func Frequencies(n int, d float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		k := i
		if i >= (n+1)/2 {
			k = i - n
		}
		out[i] = float64(k) / (float64(n) * d)
	}
	return out
}
