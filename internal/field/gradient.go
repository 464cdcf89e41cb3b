package field

import "fmt"

// EdgePolicy selects how the gradient is defined on the outer ring of cells.
type EdgePolicy string

const (
	// EdgeZero leaves boundary cells at zero: no gradient flux across the
	// outer boundary.
	EdgeZero EdgePolicy = "zero"
	// EdgeOneSided uses first-order one-sided differences on the boundary.
	EdgeOneSided EdgePolicy = "one-sided"
	// EdgePeriodic wraps around, matching the periodic potential solver.
	EdgePeriodic EdgePolicy = "periodic"
)

func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch p := EdgePolicy(s); p {
	case EdgeZero, EdgeOneSided, EdgePeriodic:
		return p, nil
	case "":
		return EdgeZero, nil
	}
	return "", fmt.Errorf("field: unknown edge policy %q", s)
}

// Gradient returns (d/dx, d/dy) of f with cell spacing dx. Interior cells use
// central differences.
func Gradient(f Field, dx float64, edge EdgePolicy) (gx, gy Field) {
	n := f.n
	gx, gy = New(n), New(n)
	if n < 2 || dx == 0 {
		return gx, gy
	}
	inv2 := 1 / (2 * dx)

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			interior := x > 0 && x < n-1 && y > 0 && y < n-1
			i := y*n + x
			switch {
			case interior:
				gx.data[i] = (f.data[i+1] - f.data[i-1]) * inv2
				gy.data[i] = (f.data[i+n] - f.data[i-n]) * inv2
			case edge == EdgePeriodic:
				xp, xm := (x+1)%n, (x-1+n)%n
				yp, ym := (y+1)%n, (y-1+n)%n
				gx.data[i] = (f.data[y*n+xp] - f.data[y*n+xm]) * inv2
				gy.data[i] = (f.data[yp*n+x] - f.data[ym*n+x]) * inv2
			case edge == EdgeOneSided:
				gx.data[i] = oneSided(f, x, y, true, dx)
				gy.data[i] = oneSided(f, x, y, false, dx)
			}
		}
	}
	return gx, gy
}

// oneSided differentiates along one axis: central where both neighbours exist,
// forward/backward on the first/last index.
func oneSided(f Field, x, y int, alongX bool, dx float64) float64 {
	n := f.n
	pos := y
	if alongX {
		pos = x
	}
	at := func(p int) float64 {
		if alongX {
			return f.data[y*n+p]
		}
		return f.data[p*n+x]
	}
	switch pos {
	case 0:
		return (at(1) - at(0)) / dx
	case n - 1:
		return (at(n-1) - at(n-2)) / dx
	}
	return (at(pos+1) - at(pos-1)) / (2 * dx)
}
