package selection

// Lasso tracks a modifier-drag rectangle over the map. Unlike Engine it
// does not edit anything while dragging; the caller resolves what lies in
// Rect and commits once the gesture ends.
type Lasso struct {
	active   bool
	deselect bool
	start    Point
	cur      Point
}

// Begin starts a lasso at p. Deselect mode removes instead of adds.
func (l *Lasso) Begin(p Point, deselect bool) {
	l.active = true
	l.deselect = deselect
	l.start = p
	l.cur = p
}

// Move drags the free corner to p.
func (l *Lasso) Move(p Point) {
	if l.active {
		l.cur = p
	}
}

// Active reports whether a lasso is in progress.
func (l *Lasso) Active() bool { return l.active }

// Deselect reports whether the lasso removes from the selection.
func (l *Lasso) Deselect() bool { return l.deselect }

// Rect returns the area covered so far.
func (l *Lasso) Rect() Rect {
	return RectFrom(l.start, l.cur)
}

// End finishes the lasso and returns its area. ok is false when no lasso
// was active.
func (l *Lasso) End() (r Rect, deselect bool, ok bool) {
	if !l.active {
		return Rect{}, false, false
	}
	r, deselect = l.Rect(), l.deselect
	*l = Lasso{}
	return r, deselect, true
}

// Cancel drops the lasso without a result.
func (l *Lasso) Cancel() {
	*l = Lasso{}
}
