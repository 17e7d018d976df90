package history

// DefaultSnapshotLimit is the number of steps kept by NewSnapshots when no
// limit is given.
const DefaultSnapshotLimit = 50

// Snapshots is a value history: the current value plus the values before
// and after it.
type Snapshots[T any] struct {
	current T
	past    []T // oldest first
	future  []T // next redo first
	limit   int
}

// NewSnapshots starts a history at initial.
func NewSnapshots[T any](initial T, limit int) *Snapshots[T] {
	if limit <= 0 {
		limit = DefaultSnapshotLimit
	}
	return &Snapshots[T]{current: initial, limit: limit}
}

// Current returns the present value.
func (s *Snapshots[T]) Current() T {
	return s.current
}

// Commit makes next the present value as a new undo step.
func (s *Snapshots[T]) Commit(next T) {
	s.past = trimFront(append(s.past, s.current), s.limit)
	s.current = next
	s.future = nil
}

// Undo steps back one value. It reports false when there is nothing to undo.
func (s *Snapshots[T]) Undo() bool {
	if len(s.past) == 0 {
		return false
	}
	prev := s.past[len(s.past)-1]
	s.past = s.past[:len(s.past)-1]
	s.future = trimBack(append([]T{s.current}, s.future...), s.limit)
	s.current = prev
	return true
}

// Redo steps forward one value. It reports false when there is nothing to
// redo.
func (s *Snapshots[T]) Redo() bool {
	if len(s.future) == 0 {
		return false
	}
	next := s.future[0]
	s.future = s.future[1:]
	s.past = trimFront(append(s.past, s.current), s.limit)
	s.current = next
	return true
}

// CanUndo reports whether Undo would do anything.
func (s *Snapshots[T]) CanUndo() bool { return len(s.past) > 0 }

// CanRedo reports whether Redo would do anything.
func (s *Snapshots[T]) CanRedo() bool { return len(s.future) > 0 }
