package diagnostics

import (
	"fmt"

	"github.com/san-kum/halosim/internal/halo"
)

type Summary struct {
	Time           float64 `json:"time"`
	Steps          int     `json:"steps"`
	TotalFrozen    float64 `json:"total_frozen"`
	TotalUnfrozen  float64 `json:"total_unfrozen"`
	TotalSource    float64 `json:"total_source"`
	FrozenFraction float64 `json:"frozen_fraction"`
	VMax           float64 `json:"vmax"`
	RMax           float64 `json:"rmax"`
	Punctures      int     `json:"punctures"`
}

// ProfileOf is RadialProfile over the simulation's frozen density.
func ProfileOf(sim *halo.Simulation, opts ...Option) Profile {
	return RadialProfile(sim.Grid(), sim.Frozen(), opts...)
}

// RotationOf is Rotation over frozen + source with the simulation's G.
func RotationOf(sim *halo.Simulation, opts ...Option) RotationCurve {
	return Rotation(sim.Grid(), sim.Frozen().Plus(sim.Source()), sim.Params().G, opts...)
}

// Summarize collects the headline numbers of a run. FrozenFraction is the
// frozen share of the gravitating mass, frozen / (frozen + source), 0 when
// both are empty.
func Summarize(sim *halo.Simulation, opts ...Option) Summary {
	s := Summary{
		Time:          sim.Time(),
		Steps:         sim.Steps(),
		TotalFrozen:   sim.Frozen().Sum(),
		TotalUnfrozen: sim.Unfrozen().Sum(),
		TotalSource:   sim.Source().Sum(),
		Punctures:     len(sim.Punctures()),
	}
	s.FrozenFraction = FrozenFraction(s.TotalFrozen, s.TotalSource)
	s.VMax, s.RMax = RotationOf(sim, opts...).MaxVelocity()
	return s
}

// FrozenFraction returns frozen / (frozen + source), or 0 when there is no
// gravitating mass.
func FrozenFraction(frozen, source float64) float64 {
	if total := frozen + source; total > 0 {
		return frozen / total
	}
	return 0
}

func (s Summary) String() string {
	return fmt.Sprintf("t=%.1f steps=%d frozen=%.4g (fraction %.3g) source=%.4g vmax=%.2f@%.2f",
		s.Time, s.Steps, s.TotalFrozen, s.FrozenFraction, s.TotalSource, s.VMax, s.RMax)
}
