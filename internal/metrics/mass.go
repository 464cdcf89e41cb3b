package metrics

import "github.com/san-kum/halosim/internal/history"

type FrozenMass struct {
	name   string
	latest float64
}

func NewFrozenMass() *FrozenMass {
	return &FrozenMass{name: "frozen_mass"}
}

func (f *FrozenMass) Name() string              { return f.name }
func (f *FrozenMass) OnStep(s history.Snapshot) { f.latest = s.TotalFrozen }
func (f *FrozenMass) Value() float64            { return f.latest }
func (f *FrozenMass) Reset()                    { f.latest = 0 }

// FreezeRate is the mean frozen mass gained per unit time over the observed
// steps.
type FreezeRate struct {
	name     string
	started  bool
	lastMass float64
	lastTime float64
	gained   float64
	elapsed  float64
}

func NewFreezeRate() *FreezeRate {
	return &FreezeRate{name: "freeze_rate"}
}

func (f *FreezeRate) Name() string { return f.name }

func (f *FreezeRate) OnStep(s history.Snapshot) {
	if f.started {
		f.gained += s.TotalFrozen - f.lastMass
		f.elapsed += s.Time - f.lastTime
	} else {
		// Frozen mass starts at zero, so the first step counts from t = 0.
		f.gained = s.TotalFrozen
		f.elapsed = s.Time
		f.started = true
	}
	f.lastMass = s.TotalFrozen
	f.lastTime = s.Time
}

func (f *FreezeRate) Value() float64 {
	if f.elapsed <= 0 {
		return 0
	}
	return f.gained / f.elapsed
}

func (f *FreezeRate) Reset() {
	*f = FreezeRate{name: f.name}
}

// MobileLoss is the fraction of the initial unfrozen mass no longer in the
// unfrozen field, through freezing or the transport clamp.
type MobileLoss struct {
	name    string
	initial float64
	seeded  bool
	latest  float64
}

// NewMobileLoss measures loss against initial. A non-positive initial is
// replaced by the first observed unfrozen mass.
func NewMobileLoss(initial float64) *MobileLoss {
	return &MobileLoss{name: "mobile_loss", initial: initial, seeded: initial > 0}
}

func (m *MobileLoss) Name() string { return m.name }

func (m *MobileLoss) OnStep(s history.Snapshot) {
	if !m.seeded && m.initial <= 0 {
		m.initial = s.TotalUnfrozen
	}
	m.latest = s.TotalUnfrozen
}

func (m *MobileLoss) Value() float64 {
	if m.initial <= 0 {
		return 0
	}
	return (m.initial - m.latest) / m.initial
}

func (m *MobileLoss) Reset() {
	if !m.seeded {
		m.initial = 0
	}
	m.latest = 0
}
