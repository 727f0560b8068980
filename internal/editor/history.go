package editor

import "roamstay/internal/domain/shared/dates"

// DefaultHistoryCapacity bounds the undo stack.
const DefaultHistoryCapacity = 50

// Snapshot is an immutable copy of the editable calendar state used for
// undo/redo. Snapshots are never persisted server-side.
type Snapshot struct {
	Blocked  map[dates.Date]struct{}
	Selected map[dates.Date]struct{}
}

// Clone deep-copies the snapshot so history entries can never be mutated by
// later edits.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Blocked:  make(map[dates.Date]struct{}, len(s.Blocked)),
		Selected: make(map[dates.Date]struct{}, len(s.Selected)),
	}
	for d := range s.Blocked {
		out.Blocked[d] = struct{}{}
	}
	for d := range s.Selected {
		out.Selected[d] = struct{}{}
	}
	return out
}

// History is a bounded undo/redo stack with a cursor. The entry at the
// cursor is the current state.
type History struct {
	entries  []Snapshot
	index    int
	capacity int
}

func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{index: -1, capacity: capacity}
}

// Commit stores a new snapshot, discarding any redo branch. When the stack
// is full the oldest entry is dropped and the cursor shifts down by one.
func (h *History) Commit(s Snapshot) {
	h.entries = append(h.entries[:h.index+1], s.Clone())
	h.index++
	if len(h.entries) > h.capacity {
		h.entries = h.entries[1:]
		h.index--
	}
}

func (h *History) CanUndo() bool { return h.index > 0 }

func (h *History) CanRedo() bool { return h.index+1 < len(h.entries) }

// Undo steps the cursor back and returns a deep copy of that snapshot. It
// is a no-op at the bottom of the stack.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

// Redo steps the cursor forward. It is a no-op at the top of the stack.
func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.index++
	return h.entries[h.index].Clone(), true
}

// Len reports the number of retained snapshots.
func (h *History) Len() int { return len(h.entries) }
