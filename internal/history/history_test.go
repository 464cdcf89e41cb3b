package history

import (
	"testing"

	"github.com/san-kum/halosim/internal/field"
)

func snap(step int) Snapshot {
	return Snapshot{Step: step, Time: float64(step) * 10}
}

func TestCapture_CopiesFields(t *testing.T) {
	foam, frozen := field.New(2), field.New(2)
	foam.Set(0, 0, 3)
	frozen.Set(1, 1, 2)

	s := Capture(1, 10, foam, frozen)
	foam.Set(0, 0, 100)
	frozen.Set(1, 1, 100)

	if s.Unfrozen.At(0, 0) != 3 || s.Frozen.At(1, 1) != 2 {
		t.Error("snapshot aliases live fields")
	}
	if s.TotalFrozen != 2 || s.TotalUnfrozen != 3 {
		t.Errorf("totals = (%v, %v), want (2, 3)", s.TotalFrozen, s.TotalUnfrozen)
	}
}

func TestLog(t *testing.T) {
	l := NewLog()
	if _, ok := l.Latest(); ok {
		t.Error("empty log has a latest snapshot")
	}
	for i := 1; i <= 5; i++ {
		l.Append(snap(i))
	}

	if l.Len() != 5 {
		t.Errorf("Len() = %d, want 5", l.Len())
	}
	got := l.Snapshots()
	for i, s := range got {
		if s.Step != i+1 {
			t.Errorf("Snapshots()[%d].Step = %d, want %d", i, s.Step, i+1)
		}
	}

	got[0].Step = 99
	if l.Snapshots()[0].Step != 1 {
		t.Error("Snapshots exposes internal slice")
	}
}

func TestRing(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
		appends  int
		wantLen  int
		oldest   int
		evicted  int
	}{
		{"under capacity", 4, 3, 3, 1, 0},
		{"exactly full", 4, 4, 4, 1, 0},
		{"wrapped", 4, 10, 4, 7, 6},
		{"clamped capacity", 0, 3, 1, 3, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRing(tt.capacity)
			for i := 1; i <= tt.appends; i++ {
				r.Append(snap(i))
			}

			if r.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", r.Len(), tt.wantLen)
			}
			if r.Evicted() != tt.evicted {
				t.Errorf("Evicted() = %d, want %d", r.Evicted(), tt.evicted)
			}

			all := r.Snapshots()
			if all[0].Step != tt.oldest {
				t.Errorf("oldest step = %d, want %d", all[0].Step, tt.oldest)
			}
			for i := 1; i < len(all); i++ {
				if all[i].Time <= all[i-1].Time {
					t.Fatalf("snapshots out of order at %d", i)
				}
			}

			latest, ok := r.Latest()
			if !ok || latest.Step != tt.appends {
				t.Errorf("Latest() = %d, want %d", latest.Step, tt.appends)
			}
		})
	}
}

func TestRing_At(t *testing.T) {
	r := NewRing(2)
	if _, ok := r.At(0); ok {
		t.Error("At on empty ring succeeded")
	}
	r.Append(snap(1))
	r.Append(snap(2))
	r.Append(snap(3))

	if s, _ := r.At(0); s.Step != 2 {
		t.Errorf("At(0).Step = %d, want 2", s.Step)
	}
	if _, ok := r.At(2); ok {
		t.Error("At past the end succeeded")
	}
}

func TestDiscard(t *testing.T) {
	var h History = Discard{}
	h.Append(snap(1))
	if h.Len() != 0 || h.Snapshots() != nil {
		t.Error("Discard retained a snapshot")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	tests := []struct {
		name string
		h    History
	}{
		{"log", NewLog()},
		{"ring", NewRing(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			foam, frozen := field.New(2), field.New(2)
			foam.Set(0, 0, 1)
			frozen.Set(1, 1, 2)
			tt.h.Append(Capture(1, 10, foam, frozen))

			tt.h.Snapshots()[0].Frozen.Set(1, 1, 99)
			tt.h.Snapshots()[0].Unfrozen.Data()[0] = 99
			if s, _ := tt.h.At(0); s.Frozen.At(1, 1) != 2 || s.Unfrozen.At(0, 0) != 1 {
				t.Fatal("writing through Snapshots changed the history")
			}

			s, _ := tt.h.At(0)
			s.Frozen.Set(1, 1, 99)
			latest, _ := tt.h.Latest()
			latest.Unfrozen.Set(0, 0, 99)

			got, ok := tt.h.At(0)
			if !ok || got.Frozen.At(1, 1) != 2 || got.Unfrozen.At(0, 0) != 1 {
				t.Error("writing through At or Latest changed the history")
			}
		})
	}
}

func TestLog_At(t *testing.T) {
	l := NewLog()
	l.Append(snap(1))
	l.Append(snap(2))

	if s, ok := l.At(1); !ok || s.Step != 2 {
		t.Errorf("At(1) = %d, %v", s.Step, ok)
	}
	if _, ok := l.At(2); ok {
		t.Error("At past the end succeeded")
	}
	if _, ok := (Discard{}).At(0); ok {
		t.Error("Discard.At succeeded")
	}
}
