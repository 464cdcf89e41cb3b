package metrics

import (
	"github.com/san-kum/halosim/internal/halo"
	"github.com/san-kum/halosim/internal/history"
)

// Metric accumulates a scalar over the snapshots of a run. Every Metric is a
// halo.Observer.
type Metric interface {
	Name() string
	OnStep(s history.Snapshot)
	Value() float64
	Reset()
}

// Defaults returns the metrics recorded for every run. initialMobile is the
// unfrozen mass after injection, before the first step.
func Defaults(p halo.Params, initialMobile float64) []Metric {
	return []Metric{
		NewFrozenMass(),
		NewFreezeRate(),
		NewMobileLoss(initialMobile),
		NewCapSaturation(p.DensityCap),
	}
}

// Collect reads every metric into a name → value map.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
