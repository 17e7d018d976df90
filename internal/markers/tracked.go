package markers

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"atlas/internal/atlas"
	"atlas/internal/history"
	"atlas/internal/selection"
)

// Actions wraps the marker stores so every user change is also recorded
// as one undo step.
type Actions struct {
	History *history.Stack
	Filter  *FilterStore
	Record  *RecordStore
	Logger  *zap.Logger
}

func (a *Actions) log() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// SwitchFilter toggles one filter key.
func (a *Actions) SwitchFilter(key string) {
	wasActive := a.Filter.Active(key)
	a.Filter.SwitchFilter(key)

	label := "Select filter " + key
	if wasActive {
		label = "Deselect filter " + key
	}
	filter := a.Filter
	a.History.Push(history.Entry{
		Label: label,
		Undo:  func() { filter.SwitchFilter(key) },
		Redo:  func() { filter.SwitchFilter(key) },
	})
	a.log().Debug("filter switched", zap.String("key", key), zap.Bool("active", !wasActive))
}

// BatchToggleFilter toggles several filter keys as one step.
func (a *Actions) BatchToggleFilter(keys []string) {
	if len(keys) == 0 {
		return
	}
	keys = slices.Clone(keys)
	a.Filter.BatchToggle(keys)

	filter := a.Filter
	a.History.Push(history.Entry{
		Label: fmt.Sprintf("Batch toggle %d filters", len(keys)),
		Undo:  func() { filter.BatchToggle(keys) },
		Redo:  func() { filter.BatchToggle(keys) },
	})
}

// CommitSelection records a finished box selection gesture. The gesture
// has already applied its final set; undo goes back to the set it started
// from. Gestures that changed nothing are not recorded.
func (a *Actions) CommitSelection(res selection.Result) bool {
	if !res.Changed() {
		return false
	}
	before := slices.Clone(res.Initial)
	after := slices.Clone(res.Final)

	filter := a.Filter
	a.History.Push(history.Entry{
		Label: fmt.Sprintf("Box select %d filters", len(after)),
		Undo:  func() { filter.SetFilter(before) },
		Redo:  func() { filter.SetFilter(after) },
	})
	a.log().Debug("box selection committed",
		zap.Int("before", len(before)),
		zap.Int("after", len(after)))
	return true
}

// ToggleMark flips the collected state of one marker.
func (a *Actions) ToggleMark(id string) {
	marked := a.Record.Toggle(id)

	label := "Mark " + id
	if !marked {
		label = "Unmark " + id
	}
	record := a.Record
	a.History.Push(history.Entry{
		Label: label,
		Undo:  func() { record.Toggle(id) },
		Redo:  func() { record.Toggle(id) },
	})
}

// MarkMany marks (or with unmark set, unmarks) every id as one step. Only
// markers whose state actually changes are recorded. It returns how many
// changed.
func (a *Actions) MarkMany(ids []string, unmark bool) int {
	var changed []string
	for _, id := range ids {
		if a.Record.Has(id) == unmark {
			changed = append(changed, id)
		}
	}
	if len(changed) == 0 {
		return 0
	}

	record := a.Record
	apply := func(mark bool) {
		for _, id := range changed {
			if mark {
				record.Add(id)
			} else {
				record.Delete(id)
			}
		}
	}
	apply(!unmark)

	verb := "Mark"
	if unmark {
		verb = "Unmark"
	}
	a.History.Push(history.Entry{
		Label: fmt.Sprintf("%s %d markers", verb, len(changed)),
		Undo:  func() { apply(unmark) },
		Redo:  func() { apply(!unmark) },
	})
	return len(changed)
}

// ClearMarks unmarks every marker as one step and returns how many were
// marked.
func (a *Actions) ClearMarks() int {
	before := slices.Clone(a.Record.Points())
	if len(before) == 0 {
		return 0
	}
	record := a.Record
	record.Clear()
	a.History.Push(history.Entry{
		Label: fmt.Sprintf("Clear %d marks", len(before)),
		Undo: func() {
			for _, id := range before {
				record.Add(id)
			}
		},
		Redo: func() { record.Clear() },
	})
	a.log().Debug("marks cleared", zap.Int("count", len(before)))
	return len(before)
}

// Visibility decides which markers a map-side lasso can reach.
type Visibility struct {
	Filter        *FilterStore
	Record        *RecordStore
	HideCollected bool
	// Subregion reports whether a subregion is shown. Nil shows all.
	Subregion func(id string) bool
}

// Reachable reports whether m is on screen for lasso purposes.
func (v Visibility) Reachable(m atlas.Marker) bool {
	if v.Filter != nil && !v.Filter.Active(m.Type) {
		return false
	}
	if v.Subregion != nil && !v.Subregion(m.Subregion) {
		return false
	}
	if v.HideCollected && v.Record != nil && v.Record.Has(m.ID) {
		return false
	}
	return true
}

// InRect returns the ids of reachable markers whose projected cell falls
// inside r.
func InRect(ms []atlas.Marker, v Visibility, r selection.Rect, project func(atlas.Marker) selection.Point) []string {
	var ids []string
	for _, m := range ms {
		if !v.Reachable(m) {
			continue
		}
		if r.Contains(project(m)) {
			ids = append(ids, m.ID)
		}
	}
	return ids
}
