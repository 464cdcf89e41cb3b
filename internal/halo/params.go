package halo

import (
	"fmt"
	"math"

	"github.com/san-kum/halosim/internal/field"
)

const (
	// DefaultG is G in kpc·(km/s)²/M☉.
	DefaultG                 = 4.3e-6
	DefaultFlowSpeed         = 0.001
	DefaultMaxGradient       = 1.0
	DefaultDensityCap        = 1e12
	DefaultFreezeRate        = 0.005
	DefaultMaxFreezeFraction = 0.5
	DefaultNormEpsilon       = 1e-10
	DefaultHistoryLimit      = 512
)

// Params are the stepper's numeric constants.
type Params struct {
	// G scales the Poisson source term. Must be > 0.
	G float64 `yaml:"g" json:"g"`
	// FlowSpeed scales the transport term. Must be >= 0.
	FlowSpeed float64 `yaml:"flow_speed" json:"flow_speed"`
	// MaxGradient caps the per-cell gradient magnitude. Must be > 0.
	MaxGradient float64 `yaml:"max_gradient" json:"max_gradient"`
	// DensityCap is the upper clamp on the mobile field. Must be > 0.
	DensityCap float64 `yaml:"density_cap" json:"density_cap"`
	// FreezeRate is the freeze transfer rate per unit time. Must be >= 0.
	FreezeRate float64 `yaml:"freeze_rate" json:"freeze_rate"`
	// MaxFreezeFraction bounds a single step's freeze to this share of the
	// cell's mobile density. Must be in (0, 1].
	MaxFreezeFraction float64 `yaml:"max_freeze_fraction" json:"max_freeze_fraction"`
	// NormEpsilon is added to max(source) when normalising. Must be >= 0.
	NormEpsilon float64 `yaml:"norm_epsilon" json:"norm_epsilon"`
	// EdgePolicy defines the gradient on boundary cells.
	EdgePolicy field.EdgePolicy `yaml:"edge_policy" json:"edge_policy"`
	// AngularWavenumbers multiplies solver wavenumbers by 2π.
	AngularWavenumbers bool `yaml:"angular_wavenumbers" json:"angular_wavenumbers"`
}

func DefaultParams() Params {
	return Params{
		G:                 DefaultG,
		FlowSpeed:         DefaultFlowSpeed,
		MaxGradient:       DefaultMaxGradient,
		DensityCap:        DefaultDensityCap,
		FreezeRate:        DefaultFreezeRate,
		MaxFreezeFraction: DefaultMaxFreezeFraction,
		NormEpsilon:       DefaultNormEpsilon,
		EdgePolicy:        field.EdgeZero,
	}
}

func (p Params) Validate() error {
	checks := []struct {
		name string
		v    float64
		ok   bool
	}{
		{"g", p.G, p.G > 0},
		{"flow_speed", p.FlowSpeed, p.FlowSpeed >= 0},
		{"max_gradient", p.MaxGradient, p.MaxGradient > 0},
		{"density_cap", p.DensityCap, p.DensityCap > 0},
		{"freeze_rate", p.FreezeRate, p.FreezeRate >= 0},
		{"max_freeze_fraction", p.MaxFreezeFraction, p.MaxFreezeFraction > 0 && p.MaxFreezeFraction <= 1},
		{"norm_epsilon", p.NormEpsilon, p.NormEpsilon >= 0},
	}
	for _, c := range checks {
		if !c.ok || math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%w: %s out of range: %g", ErrInvalidConfiguration, c.name, c.v)
		}
	}
	if _, err := field.ParseEdgePolicy(string(p.EdgePolicy)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return nil
}

// GetParams lists the tunable numeric parameters by name.
func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"g":                   p.G,
		"flow_speed":          p.FlowSpeed,
		"max_gradient":        p.MaxGradient,
		"density_cap":         p.DensityCap,
		"freeze_rate":         p.FreezeRate,
		"max_freeze_fraction": p.MaxFreezeFraction,
	}
}

// SetParam updates one numeric parameter by name. The result is validated.
func (p *Params) SetParam(name string, v float64) error {
	next := *p
	switch name {
	case "g":
		next.G = v
	case "flow_speed":
		next.FlowSpeed = v
	case "max_gradient":
		next.MaxGradient = v
	case "density_cap":
		next.DensityCap = v
	case "freeze_rate":
		next.FreezeRate = v
	case "max_freeze_fraction":
		next.MaxFreezeFraction = v
	default:
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalidConfiguration, name)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*p = next
	return nil
}
