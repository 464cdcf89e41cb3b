package field

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidGrid = errors.New("field: invalid grid")

type Grid struct {
	Size   int
	Extent float64
}

func NewGrid(size int, extent float64) (Grid, error) {
	if size <= 0 {
		return Grid{}, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidGrid, size)
	}
	if !(extent > 0) || math.IsInf(extent, 0) {
		return Grid{}, fmt.Errorf("%w: extent must be positive, got %g", ErrInvalidGrid, extent)
	}
	return Grid{Size: size, Extent: extent}, nil
}

// Spacing is the physical width of one cell.
func (g Grid) Spacing() float64 { return g.Extent / float64(g.Size) }

// Cells is the number of lattice cells, Size*Size.
func (g Grid) Cells() int { return g.Size * g.Size }

// Index maps a world coordinate to a lattice index, floor(coord/spacing)
// clamped to [0, Size).
func (g Grid) Index(coord float64) int {
	i := math.Floor(coord / g.Spacing())
	if math.IsNaN(i) || i < 0 {
		return 0
	}
	if i >= float64(g.Size) {
		return g.Size - 1
	}
	return int(i)
}

// Center returns the lattice index of the grid centre, (Size/2, Size/2).
func (g Grid) Center() (int, int) { return g.Size / 2, g.Size / 2 }

// Distances returns the physical distance of every cell from the cell (cx, cy),
// row-major like a Field.
func (g Grid) Distances(cx, cy int) []float64 {
	n, dx := g.Size, g.Spacing()
	out := make([]float64, n*n)
	for y := 0; y < n; y++ {
		ry := float64(y - cy)
		for x := 0; x < n; x++ {
			rx := float64(x - cx)
			out[y*n+x] = math.Sqrt(rx*rx+ry*ry) * dx
		}
	}
	return out
}

func (g Grid) NewField() Field { return New(g.Size) }
