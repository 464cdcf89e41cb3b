package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/halo"
	"github.com/san-kum/halosim/internal/history"
)

func snap(step int, t, frozen, unfrozen float64) history.Snapshot {
	return history.Snapshot{
		Step:          step,
		Time:          t,
		Unfrozen:      field.New(2),
		Frozen:        field.New(2),
		TotalFrozen:   frozen,
		TotalUnfrozen: unfrozen,
	}
}

func TestFrozenMass(t *testing.T) {
	m := NewFrozenMass()
	m.OnStep(snap(1, 10, 0.5, 9))
	m.OnStep(snap(2, 20, 1.5, 8))
	if m.Value() != 1.5 {
		t.Errorf("got %g, want 1.5", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestFreezeRate(t *testing.T) {
	m := NewFreezeRate()
	if m.Value() != 0 {
		t.Error("expected zero before any step")
	}
	m.OnStep(snap(1, 10, 1, 0))
	m.OnStep(snap(2, 20, 3, 0))
	m.OnStep(snap(3, 40, 4, 0))

	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("got %g, want 0.1", m.Value())
	}

	m.Reset()
	m.OnStep(snap(1, 5, 2, 0))
	if math.Abs(m.Value()-0.4) > 1e-12 {
		t.Errorf("after reset got %g, want 0.4", m.Value())
	}
}

func TestMobileLoss(t *testing.T) {
	tests := []struct {
		name    string
		initial float64
		steps   []float64
		want    float64
	}{
		{"seeded", 10, []float64{9, 7.5}, 0.25},
		{"first observation", 0, []float64{8, 6}, 0.25},
		{"nothing observed", 0, nil, 0},
		{"empty field", 0, []float64{0, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMobileLoss(tt.initial)
			for i, u := range tt.steps {
				m.OnStep(snap(i+1, float64(i+1), 0, u))
			}
			if math.Abs(m.Value()-tt.want) > 1e-12 {
				t.Errorf("got %g, want %g", m.Value(), tt.want)
			}
		})
	}
}

func TestCapSaturation(t *testing.T) {
	m := NewCapSaturation(5)
	if m.Value() != 1 {
		t.Errorf("no samples: got %g, want 1", m.Value())
	}

	calm := snap(1, 1, 0, 0)
	hot := snap(2, 2, 0, 0)
	hot.Unfrozen.Set(1, 1, 5)

	m.OnStep(calm)
	m.OnStep(hot)
	m.OnStep(calm)
	m.OnStep(calm)
	if m.Value() != 0.75 {
		t.Errorf("got %g, want 0.75", m.Value())
	}
}

func TestDefaults_ObserveSimulation(t *testing.T) {
	sim, err := halo.Create(20, 50)
	if err != nil {
		t.Fatal(err)
	}
	if err := sim.InjectSource(25, 25, 1e10, 2); err != nil {
		t.Fatal(err)
	}
	if err := sim.InjectPerturbation(25, 25, 2, 5); err != nil {
		t.Fatal(err)
	}

	ms := Defaults(sim.Params(), sim.Unfrozen().Sum())
	for _, m := range ms {
		sim.AddObserver(m)
	}
	for i := 0; i < 10; i++ {
		if err := sim.Step(10); err != nil {
			t.Fatal(err)
		}
	}

	got := Collect(ms)
	if len(got) != 4 {
		t.Fatalf("got %d metrics, want 4: %v", len(got), got)
	}
	if got["frozen_mass"] != sim.Frozen().Sum() {
		t.Errorf("frozen_mass = %g, want %g", got["frozen_mass"], sim.Frozen().Sum())
	}
	if got["freeze_rate"] <= 0 {
		t.Errorf("freeze_rate = %g, want > 0", got["freeze_rate"])
	}
	if l := got["mobile_loss"]; l <= 0 || l >= 1 {
		t.Errorf("mobile_loss = %g, want in (0,1)", l)
	}
	if got["cap_saturation"] != 1 {
		t.Errorf("cap_saturation = %g, want 1", got["cap_saturation"])
	}
}
