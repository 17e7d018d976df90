// Package selection turns a pointer drag over a container into a toggled
// set of selected keys.
//
// The engine keeps no geometry of its own. At the start of a gesture it
// asks the Container for its visible elements and caches their rectangles
// for the rest of the drag; every move then rebuilds the selection from the
// set that was active when the gesture began.
package selection

import (
	"go.uber.org/zap"
)

// DefaultThreshold is the squared distance the pointer must travel before
// a press becomes a drag.
const DefaultThreshold = 25

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
)

// Target describes what the pointer went down on.
type Target struct {
	// Interactive is set for buttons, inputs and drag handles. Presses on
	// them are left to the element.
	Interactive bool
	// Excluded marks a sub-region of the container that never starts a
	// selection.
	Excluded bool
}

// PointerEvent is a pointer press or move in viewport coordinates.
type PointerEvent struct {
	X, Y             int
	Button           Button
	DefaultPrevented bool
	Target           Target
}

// Element is a selectable element as reported by the UI layer.
type Element struct {
	Key  string
	Rect Rect
	// Hidden is the element's own visibility.
	Hidden bool
	// Collapsed is set when an enclosing group is not expanded. Layout
	// collapse does not always make the element itself hidden.
	Collapsed bool
}

// Container is the area box selection runs over.
type Container interface {
	// Bounds returns the container's rectangle in viewport coordinates.
	Bounds() Rect
	// Elements enumerates the selectable elements inside the container.
	Elements() []Element
}

// FilterStore holds the selection the engine edits.
type FilterStore interface {
	Filter() []string
	SetFilter(keys []string)
}

// Item is a cached selectable element.
type Item struct {
	Key  string
	Rect Rect
}

// Result summarizes a finished gesture.
type Result struct {
	// Selected is true when the pointer crossed the threshold.
	Selected bool
	Initial  []string
	Final    []string
}

// Changed reports whether the gesture left a different selection behind.
func (r Result) Changed() bool {
	if !r.Selected || len(r.Initial) != len(r.Final) {
		return r.Selected
	}
	for i := range r.Initial {
		if r.Initial[i] != r.Final[i] {
			return true
		}
	}
	return false
}

// Engine runs box selection gestures over one container.
//
// Engine is driven from a single event loop and is not safe for concurrent
// use.
type Engine struct {
	container Container
	store     FilterStore
	threshold int
	logger    *zap.Logger

	// tracking is true while the engine listens to moves and releases
	// outside the container.
	tracking bool
	start    Point // container-local
	dragging bool
	initial  []string
	last     []string
	items    []Item
	box      *Box
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold sets the squared drag distance threshold.
func WithThreshold(t int) Option {
	return func(e *Engine) {
		if t >= 0 {
			e.threshold = t
		}
	}
}

// WithLogger sets the logger used for gesture tracing.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine editing store. It stays inert until a container
// is attached.
func New(store FilterStore, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		threshold: DefaultThreshold,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Attach binds the engine to a container. A nil container leaves the
// engine inert.
func (e *Engine) Attach(c Container) {
	e.release()
	e.container = c
}

// Detach unbinds the container and abandons any gesture in progress.
func (e *Engine) Detach() {
	e.release()
	e.container = nil
}

// Attached reports whether a container is bound.
func (e *Engine) Attached() bool {
	return e.container != nil
}

// Tracking reports whether a gesture owns the pointer.
func (e *Engine) Tracking() bool {
	return e.tracking
}

// IsSelecting reports whether a drag is past the threshold.
func (e *Engine) IsSelecting() bool {
	return e.dragging
}

// SelectionBox returns the current drag box in container-local
// coordinates. ok is false when no box is shown.
func (e *Engine) SelectionBox() (box Box, ok bool) {
	if e.box == nil {
		return Box{}, false
	}
	return *e.box, true
}

// PointerDown arms a gesture. It reports whether the press was taken.
func (e *Engine) PointerDown(ev PointerEvent) bool {
	if e.container == nil || e.store == nil {
		return false
	}
	if ev.Button != ButtonPrimary || ev.DefaultPrevented {
		return false
	}
	if ev.Target.Interactive || ev.Target.Excluded {
		return false
	}

	// Only one gesture may own the pointer.
	e.release()

	bounds := e.container.Bounds()
	e.start = Point{X: ev.X - bounds.Left, Y: ev.Y - bounds.Top}
	e.initial = append([]string(nil), e.store.Filter()...)
	e.last = e.initial
	e.items = e.snapshot()
	e.tracking = true

	e.logger.Debug("box selection armed",
		zap.Int("x", e.start.X),
		zap.Int("y", e.start.Y),
		zap.Int("items", len(e.items)),
		zap.Int("initial", len(e.initial)))
	return true
}

// PointerMove updates the drag and applies the resulting selection.
func (e *Engine) PointerMove(ev PointerEvent) {
	if !e.tracking || e.container == nil {
		return
	}

	bounds := e.container.Bounds()
	cur := Point{X: ev.X - bounds.Left, Y: ev.Y - bounds.Top}

	if !e.dragging {
		dx := cur.X - e.start.X
		dy := cur.Y - e.start.Y
		if dx*dx+dy*dy <= e.threshold {
			return
		}
		e.dragging = true
	}

	e.box = &Box{StartX: e.start.X, StartY: e.start.Y, EndX: cur.X, EndY: cur.Y}

	absStart := Point{X: e.start.X + bounds.Left, Y: e.start.Y + bounds.Top}
	drag := RectFrom(absStart, Point{X: ev.X, Y: ev.Y})

	e.last = Toggle(e.initial, e.items, drag)
	e.store.SetFilter(e.last)
}

// PointerUp ends the gesture. The selection applied by the last move stays.
func (e *Engine) PointerUp() Result {
	if !e.tracking {
		return Result{}
	}
	res := Result{Selected: e.dragging, Initial: e.initial, Final: e.last}
	e.logger.Debug("box selection finished",
		zap.Bool("selected", res.Selected),
		zap.Int("final", len(res.Final)))
	e.release()
	return res
}

// Cancel ends the gesture like PointerUp.
func (e *Engine) Cancel() Result {
	return e.PointerUp()
}

func (e *Engine) release() {
	e.tracking = false
	e.start = Point{}
	e.dragging = false
	e.initial = nil
	e.last = nil
	e.items = nil
	e.box = nil
}

// snapshot caches the rectangles of all elements that are visible now.
func (e *Engine) snapshot() []Item {
	elements := e.container.Elements()
	items := make([]Item, 0, len(elements))
	for _, el := range elements {
		if el.Hidden || el.Collapsed || el.Key == "" {
			continue
		}
		items = append(items, Item{Key: el.Key, Rect: el.Rect})
	}
	return items
}

// Toggle returns initial with the membership of every item intersecting
// drag flipped. Keys keep their initial order; added keys follow in item
// order.
func Toggle(initial []string, items []Item, drag Rect) []string {
	flip := make(map[string]bool)
	for _, it := range items {
		if it.Rect.Intersects(drag) {
			flip[it.Key] = !flip[it.Key]
		}
	}

	next := make([]string, 0, len(initial)+len(flip))
	present := make(map[string]bool, len(initial))
	for _, k := range initial {
		if present[k] {
			continue
		}
		present[k] = true
		if !flip[k] {
			next = append(next, k)
		}
	}
	added := make(map[string]bool)
	for _, it := range items {
		if flip[it.Key] && !present[it.Key] && !added[it.Key] {
			added[it.Key] = true
			next = append(next, it.Key)
		}
	}
	return next
}
