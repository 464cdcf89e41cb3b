package history

// Ring retains the most recent Cap() snapshots, evicting the oldest.
type Ring struct {
	buf     []Snapshot
	start   int
	count   int
	evicted int
}

func NewRing(capacity int) *Ring {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring{buf: make([]Snapshot, capacity)}
}

func (r *Ring) Cap() int { return len(r.buf) }

func (r *Ring) Len() int { return r.count }

// Evicted counts snapshots dropped to make room.
func (r *Ring) Evicted() int { return r.evicted }

func (r *Ring) Append(s Snapshot) {
	if r.count < len(r.buf) {
		r.buf[(r.start+r.count)%len(r.buf)] = s
		r.count++
		return
	}
	r.buf[r.start] = s
	r.start = (r.start + 1) % len(r.buf)
	r.evicted++
}

// At returns the i-th retained snapshot, 0 being the oldest.
func (r *Ring) At(i int) (Snapshot, bool) {
	if i < 0 || i >= r.count {
		return Snapshot{}, false
	}
	return r.buf[(r.start+i)%len(r.buf)].Clone(), true
}

func (r *Ring) Snapshots() []Snapshot {
	out := make([]Snapshot, r.count)
	for i := range out {
		out[i] = r.buf[(r.start+i)%len(r.buf)].Clone()
	}
	return out
}

func (r *Ring) Latest() (Snapshot, bool) { return r.At(r.count - 1) }
