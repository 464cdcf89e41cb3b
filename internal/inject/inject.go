// Package inject stamps radially symmetric profiles onto fields. Every stamp
// adds to the target; nothing is ever overwritten.
package inject

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/halosim/internal/field"
)

var ErrInvalidProfile = errors.New("inject: invalid profile")

// PunctureRecord annotates one perturbation injection in physical units.
type PunctureRecord struct {
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Strength float64 `json:"strength" yaml:"strength"`
	Radius   float64 `json:"radius" yaml:"radius"`
}

// ExponentialDisk adds ρ(r) = ρ₀·exp(-r/radius) centred on the cell holding
// world point (x, y). ρ₀ is chosen so the stamped cells sum to exactly mass,
// whatever part of the disk falls off the grid.
func ExponentialDisk(grid field.Grid, target field.Field, x, y, mass, radius float64) error {
	if err := positive("mass", mass); err != nil {
		return err
	}
	if err := positive("radius", radius); err != nil {
		return err
	}

	dist := grid.Distances(grid.Index(x), grid.Index(y))
	profile := make([]float64, len(dist))
	total := 0.0
	for i, r := range dist {
		profile[i] = math.Exp(-r / radius)
		total += profile[i]
	}
	// The centre cell always contributes exp(0), so total >= 1.
	norm := mass / total

	data := target.Data()
	for i, v := range profile {
		data[i] += v * norm
	}
	return nil
}

// Gaussian adds Δ(r) = strength·exp(-2(r/radius)²) centred on the cell holding
// (x, y). The amplitude is preserved, not the total.
func Gaussian(grid field.Grid, target field.Field, x, y, strength, radius float64) (PunctureRecord, error) {
	if err := positive("strength", strength); err != nil {
		return PunctureRecord{}, err
	}
	if err := positive("radius", radius); err != nil {
		return PunctureRecord{}, err
	}

	dist := grid.Distances(grid.Index(x), grid.Index(y))
	data := target.Data()
	for i, r := range dist {
		q := r / radius
		data[i] += strength * math.Exp(-2*q*q)
	}
	return PunctureRecord{X: x, Y: y, Strength: strength, Radius: radius}, nil
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidProfile, name, v)
	}
	return nil
}
