package field

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type Field struct {
	n    int
	data []float64
}

func New(n int) Field {
	if n < 0 {
		n = 0
	}
	return Field{n: n, data: make([]float64, n*n)}
}

// FromRows copies a square row-major matrix into a new Field.
func FromRows(rows [][]float64) (Field, error) {
	n := len(rows)
	f := New(n)
	for y, row := range rows {
		if len(row) != n {
			return Field{}, fmt.Errorf("field: row %d has %d columns, want %d", y, len(row), n)
		}
		copy(f.data[y*n:(y+1)*n], row)
	}
	return f, nil
}

func (f Field) N() int { return f.n }

func (f Field) At(x, y int) float64 { return f.data[y*f.n+x] }

func (f Field) Set(x, y int, v float64) { f.data[y*f.n+x] = v }

// Data exposes the backing slice. Writes through it mutate the field.
func (f Field) Data() []float64 { return f.data }

func (f Field) Clone() Field {
	c := Field{n: f.n, data: make([]float64, len(f.data))}
	copy(c.data, f.data)
	return c
}

func (f Field) Sum() float64 { return floats.Sum(f.data) }

func (f Field) Max() float64 {
	if len(f.data) == 0 {
		return 0
	}
	return floats.Max(f.data)
}

func (f Field) Min() float64 {
	if len(f.data) == 0 {
		return 0
	}
	return floats.Min(f.data)
}

// Mean is the spatial average over all cells.
func (f Field) Mean() float64 {
	if len(f.data) == 0 {
		return 0
	}
	return f.Sum() / float64(len(f.data))
}

// AddField adds o into f in place.
func (f Field) AddField(o Field) {
	floats.Add(f.data, o.data)
}

// Plus returns f + o as a new field.
func (f Field) Plus(o Field) Field {
	out := Field{n: f.n, data: make([]float64, len(f.data))}
	floats.AddTo(out.data, f.data, o.data)
	return out
}

func (f Field) Zero() {
	for i := range f.data {
		f.data[i] = 0
	}
}

// Rows copies the field into a freshly allocated [y][x] matrix.
func (f Field) Rows() [][]float64 {
	rows := make([][]float64, f.n)
	for y := range rows {
		rows[y] = make([]float64, f.n)
		copy(rows[y], f.data[y*f.n:(y+1)*f.n])
	}
	return rows
}

func (f Field) IsValid() bool {
	for _, v := range f.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (f Field) Equal(o Field) bool {
	return f.n == o.n && floats.Equal(f.data, o.data)
}
