package history

// DefaultLimit is the number of undo steps kept by NewStack(0).
const DefaultLimit = 25

// Entry is one reversible user action.
type Entry struct {
	// Label describes the action for display only.
	Label string
	Undo  func()
	Redo  func()
}

// Stack is a bounded undo/redo log of entries.
//
// Stack is not safe for concurrent use; it is owned by the UI loop.
type Stack struct {
	past   []Entry // oldest first
	future []Entry // most recently undone first
	limit  int
}

// NewStack creates a stack that keeps at most limit undo steps.
func NewStack(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit}
}

// Limit returns the maximum number of undo steps kept.
func (s *Stack) Limit() int {
	return s.limit
}

// Push records a completed action and drops the redo branch.
func (s *Stack) Push(e Entry) {
	s.past = trimFront(append(s.past, e), s.limit)
	s.future = nil
}

// Undo reverses the most recent action. It does nothing when there is
// nothing to undo. A panic from the entry's Undo propagates to the caller
// and leaves the stack unchanged.
func (s *Stack) Undo() {
	if len(s.past) == 0 {
		return
	}

	e := s.past[len(s.past)-1]
	if e.Undo != nil {
		e.Undo()
	}

	s.past = s.past[:len(s.past)-1]
	s.future = append([]Entry{e}, s.future...)
}

// Redo re-applies the most recently undone action. Growing past the limit
// evicts the oldest undo step.
func (s *Stack) Redo() {
	if len(s.future) == 0 {
		return
	}

	e := s.future[0]
	if e.Redo != nil {
		e.Redo()
	}

	s.past = trimFront(append(s.past, e), s.limit)
	s.future = s.future[1:]
}

// CanUndo reports whether Undo would do anything.
func (s *Stack) CanUndo() bool {
	return len(s.past) > 0
}

// CanRedo reports whether Redo would do anything.
func (s *Stack) CanRedo() bool {
	return len(s.future) > 0
}

// UndoCount returns the number of undo steps available.
func (s *Stack) UndoCount() int {
	return len(s.past)
}

// RedoCount returns the number of redo steps available.
func (s *Stack) RedoCount() int {
	return len(s.future)
}

// Labels returns the labels of the undo steps, oldest first.
func (s *Stack) Labels() []string {
	labels := make([]string, len(s.past))
	for i, e := range s.past {
		labels[i] = e.Label
	}
	return labels
}

// Clear drops all history.
func (s *Stack) Clear() {
	s.past = nil
	s.future = nil
}

// trimFront keeps the last n elements of xs.
func trimFront[T any](xs []T, n int) []T {
	if len(xs) <= n {
		return xs
	}
	out := make([]T, n)
	copy(out, xs[len(xs)-n:])
	return out
}

// trimBack keeps the first n elements of xs.
func trimBack[T any](xs []T, n int) []T {
	if len(xs) <= n {
		return xs
	}
	return xs[:n]
}
