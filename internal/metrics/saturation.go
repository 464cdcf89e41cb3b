package metrics

import "github.com/san-kum/halosim/internal/history"

// CapSaturation is the fraction of steps in which no unfrozen cell sits at
// the density cap. 1 means the overflow guard never engaged.
type CapSaturation struct {
	name       string
	ceiling    float64
	violations int
	samples    int
}

func NewCapSaturation(ceiling float64) *CapSaturation {
	return &CapSaturation{
		name:    "cap_saturation",
		ceiling: ceiling,
	}
}

func (c *CapSaturation) Name() string {
	return c.name
}

func (c *CapSaturation) OnStep(s history.Snapshot) {
	c.samples++
	if s.Unfrozen.Max() >= c.ceiling {
		c.violations++
	}
}

func (c *CapSaturation) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *CapSaturation) Reset() {
	c.violations = 0
	c.samples = 0
}
