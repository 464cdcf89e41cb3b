package halo

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/halosim/internal/field"
	"github.com/san-kum/halosim/internal/history"
)

func seeded(t *testing.T) *Simulation {
	t.Helper()
	s, err := Create(20, 50)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.InjectSource(25, 25, 1e10, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.InjectPerturbation(25, 25, 2.0, 5); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCreate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		size   int
		extent float64
		opts   []Option
	}{
		{"zero size", 0, 50, nil},
		{"negative extent", 20, -50, nil},
		{"bad freeze fraction", 20, 50, []Option{WithParams(Params{G: 1, MaxGradient: 1, DensityCap: 1, MaxFreezeFraction: 2})}},
		{"zero g", 20, 50, []Option{WithParams(Params{MaxGradient: 1, DensityCap: 1, MaxFreezeFraction: 0.5})}},
		{"unknown edge", 20, 50, []Option{WithParams(func() Params {
			p := DefaultParams()
			p.EdgePolicy = "mirror"
			return p
		}())}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Create(tt.size, tt.extent, tt.opts...)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("expected ErrInvalidConfiguration, got %v", err)
			}
			if s != nil {
				t.Error("expected no simulation on error")
			}
		})
	}
}

func TestCreate_ZeroState(t *testing.T) {
	s, err := Create(8, 4)
	if err != nil {
		t.Fatal(err)
	}
	if s.Time() != 0 || s.Steps() != 0 || s.History().Len() != 0 {
		t.Error("new simulation is not at t=0 with empty history")
	}
	if s.TotalMass() != 0 || s.Potential().Max() != 0 {
		t.Error("new simulation fields are not zero")
	}
}

func TestStep_InvalidDt(t *testing.T) {
	s := seeded(t)
	before := s.Unfrozen()

	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := s.Step(dt); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Step(%v): expected ErrInvalidConfiguration, got %v", dt, err)
		}
	}
	if s.Steps() != 0 || s.Time() != 0 || !s.Unfrozen().Equal(before) {
		t.Error("rejected step mutated state")
	}
}

func TestInject_Invalid(t *testing.T) {
	s, _ := Create(8, 8)
	if err := s.InjectSource(4, 4, -1, 1); !errors.Is(err, ErrInvalidInjection) {
		t.Errorf("expected ErrInvalidInjection, got %v", err)
	}
	if err := s.InjectPerturbation(4, 4, 1, 0); !errors.Is(err, ErrInvalidInjection) {
		t.Errorf("expected ErrInvalidInjection, got %v", err)
	}
	if len(s.Punctures()) != 0 {
		t.Error("rejected perturbation was recorded")
	}
}

func TestPotential_StaleUntilStep(t *testing.T) {
	s := seeded(t)

	if s.Potential().Min() != 0 || s.Potential().Max() != 0 {
		t.Fatal("potential solved before any step")
	}
	fresh := s.SolvePotential()
	if fresh.Min() >= 0 {
		t.Fatal("SolvePotential found no well under the source")
	}

	if err := s.Step(10); err != nil {
		t.Fatal(err)
	}
	if s.Potential().Equal(field.New(20)) {
		t.Error("potential still zero after a step")
	}
}

func TestClampGradient(t *testing.T) {
	gx, _ := field.FromRows([][]float64{{3, 0.3}, {0, -6}})
	gy, _ := field.FromRows([][]float64{{4, 0.4}, {0, 8}})
	clampGradient(gx, gy, 1)

	tests := []struct {
		x, y   int
		wx, wy float64
	}{
		{0, 0, 0.6, 0.8},
		{1, 0, 0.3, 0.4},
		{0, 1, 0, 0},
		{1, 1, -0.6, 0.8},
	}
	for _, tt := range tests {
		if math.Abs(gx.At(tt.x, tt.y)-tt.wx) > 1e-12 || math.Abs(gy.At(tt.x, tt.y)-tt.wy) > 1e-12 {
			t.Errorf("(%d,%d) = (%v,%v), want (%v,%v)", tt.x, tt.y, gx.At(tt.x, tt.y), gy.At(tt.x, tt.y), tt.wx, tt.wy)
		}
	}
}

func TestTransport_Clamps(t *testing.T) {
	foam, _ := field.FromRows([][]float64{{1, 1}, {1, 50}})
	gx, _ := field.FromRows([][]float64{{1, -1}, {0, -1}})
	gy, _ := field.FromRows([][]float64{{1, 0}, {0, 0}})

	// flow·dt = 1: cell (0,0) gets -2·1 → clamped to 0; cell (1,1) grows past the cap.
	transport(foam, gx, gy, 0.1, 60, 10)

	want := []float64{0, 2, 1, 60}
	for i, v := range foam.Data() {
		if v != want[i] {
			t.Errorf("cell %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestFreezeTransfer_Bounded(t *testing.T) {
	foam, _ := field.FromRows([][]float64{{2, 4}, {1, 0}})
	source, _ := field.FromRows([][]float64{{10, 5}, {0, 10}})
	p := DefaultParams()
	p.FreezeRate = 1

	amount := freezeTransfer(foam, source, p, 10)
	for i, a := range amount.Data() {
		if a < 0 {
			t.Errorf("cell %d: negative transfer %v", i, a)
		}
		if a > p.MaxFreezeFraction*foam.Data()[i] {
			t.Errorf("cell %d: transfer %v exceeds half of %v", i, a, foam.Data()[i])
		}
	}
	if amount.At(0, 0) != 1 {
		t.Errorf("capped transfer = %v, want 1", amount.At(0, 0))
	}
	if amount.At(0, 1) != 0 {
		t.Errorf("cell without source froze %v", amount.At(0, 1))
	}
}

func TestFreezeTransfer_Rate(t *testing.T) {
	foam, _ := field.FromRows([][]float64{{2}})
	source, _ := field.FromRows([][]float64{{4}})
	p := DefaultParams()
	p.NormEpsilon = 0

	amount := freezeTransfer(foam, source, p, 10)
	if want := 0.005 * 2 * 1 * 10; math.Abs(amount.At(0, 0)-want) > 1e-15 {
		t.Errorf("transfer = %v, want %v", amount.At(0, 0), want)
	}
}

func TestFreezeTransfer_NoSource(t *testing.T) {
	foam, _ := field.FromRows([][]float64{{2, 2}, {2, 2}})
	p := DefaultParams()
	p.NormEpsilon = 0

	if amount := freezeTransfer(foam, field.New(2), p, 10); amount.Sum() != 0 {
		t.Errorf("froze %v with no source", amount.Sum())
	}
}

func TestStep_SnapshotsAreCopies(t *testing.T) {
	s := seeded(t)
	_ = s.Step(10)
	first, _ := s.History().Latest()
	frozenAtOne := first.Frozen.Clone()

	for i := 0; i < 3; i++ {
		_ = s.Step(10)
	}
	if !first.Frozen.Equal(frozenAtOne) {
		t.Error("snapshot changed after later steps")
	}
	if first.Time != 10 || first.Step != 1 {
		t.Errorf("snapshot stamped (%d, %v), want (1, 10)", first.Step, first.Time)
	}
}

type countingObserver struct {
	times []float64
}

func (c *countingObserver) OnStep(s history.Snapshot) { c.times = append(c.times, s.Time) }

func TestStep_NotifiesObservers(t *testing.T) {
	s := seeded(t)
	obs := &countingObserver{}
	s.AddObserver(obs)

	for i := 0; i < 4; i++ {
		_ = s.Step(5)
	}
	if len(obs.times) != 4 || obs.times[3] != 20 {
		t.Errorf("observer saw %v", obs.times)
	}
}

func TestStep_HistoryRetention(t *testing.T) {
	s, _ := Create(8, 8, WithHistory(history.NewRing(3)))
	_ = s.InjectPerturbation(4, 4, 1, 2)

	for i := 0; i < 10; i++ {
		_ = s.Step(1)
	}
	snaps := s.History().Snapshots()
	if len(snaps) != 3 || snaps[0].Step != 8 {
		t.Errorf("retained %d snapshots starting at step %d", len(snaps), snaps[0].Step)
	}
}

func TestStep_Deterministic(t *testing.T) {
	a, b := seeded(t), seeded(t)
	for i := 0; i < 5; i++ {
		_ = a.Step(10)
		_ = b.Step(10)
	}
	if !a.Frozen().Equal(b.Frozen()) || !a.Unfrozen().Equal(b.Unfrozen()) || !a.Potential().Equal(b.Potential()) {
		t.Error("identical runs diverged")
	}
}

func TestParams_SetParam(t *testing.T) {
	p := DefaultParams()
	if err := p.SetParam("freeze_rate", 0.01); err != nil || p.FreezeRate != 0.01 {
		t.Errorf("SetParam freeze_rate: %v, %v", err, p.FreezeRate)
	}
	if err := p.SetParam("max_freeze_fraction", 1.5); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("expected range error, got %v", err)
	}
	if p.MaxFreezeFraction != DefaultMaxFreezeFraction {
		t.Error("rejected SetParam changed params")
	}
	if err := p.SetParam("nope", 1); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if len(p.GetParams()) != 6 {
		t.Errorf("GetParams returned %d entries", len(p.GetParams()))
	}
}
