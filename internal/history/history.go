// Package history records the time-ordered snapshots a simulation produces.
//
// Retention is the caller's choice: [Log] keeps everything, [Ring] keeps the
// most recent N snapshots, [Discard] keeps nothing.
package history

import "github.com/san-kum/halosim/internal/field"

// Snapshot is a time-stamped copy of the mobile and frozen fields.
type Snapshot struct {
	Step          int
	Time          float64
	Unfrozen      field.Field
	Frozen        field.Field
	TotalFrozen   float64
	TotalUnfrozen float64
}

// Capture clones unfrozen and frozen so later mutation of the live fields
// cannot reach the snapshot.
func Capture(step int, t float64, unfrozen, frozen field.Field) Snapshot {
	return Snapshot{
		Step:          step,
		Time:          t,
		Unfrozen:      unfrozen.Clone(),
		Frozen:        frozen.Clone(),
		TotalFrozen:   frozen.Sum(),
		TotalUnfrozen: unfrozen.Sum(),
	}
}

// History retains snapshots. Every accessor returns copies, so writing
// through a returned Field never reaches the recorded history.
type History interface {
	Append(s Snapshot)
	// Snapshots returns the retained snapshots, oldest first.
	Snapshots() []Snapshot
	// At returns the i-th retained snapshot, 0 being the oldest.
	At(i int) (Snapshot, bool)
	Len() int
	Latest() (Snapshot, bool)
}

// Clone returns a snapshot with its own copies of both fields.
func (s Snapshot) Clone() Snapshot {
	s.Unfrozen = s.Unfrozen.Clone()
	s.Frozen = s.Frozen.Clone()
	return s
}

// Log retains every snapshot.
type Log struct {
	snaps []Snapshot
}

func NewLog() *Log { return &Log{snaps: make([]Snapshot, 0)} }

func (l *Log) Append(s Snapshot) { l.snaps = append(l.snaps, s) }

func (l *Log) Snapshots() []Snapshot {
	out := make([]Snapshot, len(l.snaps))
	for i, s := range l.snaps {
		out[i] = s.Clone()
	}
	return out
}

func (l *Log) At(i int) (Snapshot, bool) {
	if i < 0 || i >= len(l.snaps) {
		return Snapshot{}, false
	}
	return l.snaps[i].Clone(), true
}

func (l *Log) Len() int { return len(l.snaps) }

func (l *Log) Latest() (Snapshot, bool) { return l.At(len(l.snaps) - 1) }

// Discard retains nothing. Latest is always empty.
type Discard struct{}

func (Discard) Append(Snapshot)          {}
func (Discard) Snapshots() []Snapshot    { return nil }
func (Discard) At(int) (Snapshot, bool)  { return Snapshot{}, false }
func (Discard) Len() int                 { return 0 }
func (Discard) Latest() (Snapshot, bool) { return Snapshot{}, false }
