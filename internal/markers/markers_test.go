package markers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"atlas/internal/atlas"
	"atlas/internal/history"
	"atlas/internal/selection"
	"atlas/internal/storage"
)

func newActions(t *testing.T, initial ...string) *Actions {
	t.Helper()
	return &Actions{
		History: history.NewStack(25),
		Filter:  NewFilterStore(initial...),
		Record:  LoadRecordStore(context.Background(), storage.NewMemory(), nil),
	}
}

func TestFilterStore(t *testing.T) {
	s := NewFilterStore("a")
	var seen [][]string
	s.Subscribe(func(f []string) { seen = append(seen, f) })

	s.SwitchFilter("b")
	assert.Equal(t, []string{"a", "b"}, s.Filter())
	s.SwitchFilter("a")
	assert.Equal(t, []string{"b"}, s.Filter())
	s.BatchToggle([]string{"b", "c", "d"})
	assert.Equal(t, []string{"c", "d"}, s.Filter())
	s.SetFilter([]string{"x"})
	assert.True(t, s.Active("x"))
	assert.False(t, s.Active("c"))

	assert.Len(t, seen, 4)
	assert.Equal(t, []string{"a", "b"}, seen[0], "earlier snapshots are not mutated")

	s.SetSearch("chest")
	assert.Equal(t, "chest", s.Search())
}

func TestRecordStorePersists(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	s := LoadRecordStore(ctx, kv, nil)
	s.Add("m1")
	s.Add("m1")
	s.Add("m2")
	assert.Equal(t, []string{"m1", "m2"}, s.Points())
	assert.False(t, s.Toggle("m1"))
	assert.True(t, s.Toggle("m3"))
	s.Delete("absent")

	raw, err := kv.Get(ctx, RecordKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"activePoints":["m2","m3"]}`, raw)

	again := LoadRecordStore(ctx, kv, nil)
	assert.Equal(t, []string{"m2", "m3"}, again.Points())

	assert.True(t, again.Has("m3"))
	assert.False(t, again.Has("m1"))

	again.Clear()
	assert.Empty(t, again.Points())
	assert.False(t, again.Has("m2"))
	assert.Empty(t, LoadRecordStore(ctx, kv, nil).Points())
}

func TestRecordStoreDropsDuplicates(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, RecordKey, `{"activePoints":["m1","m2","m1"]}`))

	s := LoadRecordStore(ctx, kv, nil)
	assert.Equal(t, []string{"m1", "m2"}, s.Points())
	s.Delete("m1")
	assert.False(t, s.Has("m1"))
	assert.Equal(t, []string{"m2"}, s.Points())
}

type failingKV struct{ storage.KV }

func (failingKV) Get(context.Context, string) (string, error) { return "", errors.New("disk on fire") }
func (failingKV) Set(context.Context, string, string) error   { return errors.New("disk on fire") }

func TestRecordStoreStorageFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := LoadRecordStore(context.Background(), failingKV{}, zap.New(core))
	assert.Empty(t, s.Points())

	s.Add("m1")
	assert.True(t, s.Has("m1"), "state changes even when the write fails")
	assert.Equal(t, 2, logs.Len())
}

func TestRecordStoreCorruptData(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	require.NoError(t, kv.Set(ctx, RecordKey, "not json"))
	assert.Empty(t, LoadRecordStore(ctx, kv, nil).Points())
}

func TestFilterStorePersists(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	s := LoadFilterStore(ctx, kv, nil)
	assert.Empty(t, s.Filter())
	s.SwitchFilter("a")
	s.BatchToggle([]string{"b", "c"})

	raw, err := kv.Get(ctx, FilterKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b","c"]`, raw)
	assert.Equal(t, []string{"a", "b", "c"}, LoadFilterStore(ctx, kv, nil).Filter())

	require.NoError(t, kv.Set(ctx, FilterKey, "{"))
	core, logs := observer.New(zap.WarnLevel)
	assert.Empty(t, LoadFilterStore(ctx, kv, zap.New(core)).Filter())
	assert.Equal(t, 1, logs.Len())
}

func TestTrackedSwitchFilter(t *testing.T) {
	a := newActions(t, "a")
	a.SwitchFilter("b")
	a.SwitchFilter("a")
	assert.Equal(t, []string{"b"}, a.Filter.Filter())
	assert.Equal(t, []string{"Select filter b", "Deselect filter a"}, a.History.Labels())

	a.History.Undo()
	assert.Equal(t, []string{"b", "a"}, a.Filter.Filter())
	a.History.Undo()
	assert.Equal(t, []string{"a"}, a.Filter.Filter())
	a.History.Redo()
	assert.Equal(t, []string{"a", "b"}, a.Filter.Filter())
}

func TestTrackedBatchToggleFilter(t *testing.T) {
	a := newActions(t, "a")
	a.BatchToggleFilter(nil)
	assert.False(t, a.History.CanUndo())

	a.BatchToggleFilter([]string{"a", "b"})
	assert.Equal(t, []string{"b"}, a.Filter.Filter())
	assert.Equal(t, []string{"Batch toggle 2 filters"}, a.History.Labels())

	a.History.Undo()
	assert.Equal(t, []string{"a"}, a.Filter.Filter())
}

func TestCommitSelection(t *testing.T) {
	a := newActions(t, "a")

	assert.False(t, a.CommitSelection(selection.Result{}))
	assert.False(t, a.CommitSelection(selection.Result{
		Selected: true, Initial: []string{"a"}, Final: []string{"a"},
	}))
	assert.False(t, a.History.CanUndo())

	a.Filter.SetFilter([]string{"b"})
	require.True(t, a.CommitSelection(selection.Result{
		Selected: true, Initial: []string{"a"}, Final: []string{"b"},
	}))

	a.History.Undo()
	assert.Equal(t, []string{"a"}, a.Filter.Filter())
	a.History.Redo()
	assert.Equal(t, []string{"b"}, a.Filter.Filter())
}

func TestBoxSelectionThroughFilterStore(t *testing.T) {
	a := newActions(t, "a")
	e := selection.New(a.Filter, selection.WithThreshold(0))
	e.Attach(staticContainer{
		{Key: "a", Rect: selection.RectAt(0, 0, 4, 1)},
		{Key: "b", Rect: selection.RectAt(0, 1, 4, 1)},
	})

	require.True(t, e.PointerDown(selection.PointerEvent{X: 0, Y: 0}))
	e.PointerMove(selection.PointerEvent{X: 2, Y: 1})
	require.True(t, a.CommitSelection(e.PointerUp()))
	assert.Equal(t, []string{"b"}, a.Filter.Filter())

	a.History.Undo()
	assert.Equal(t, []string{"a"}, a.Filter.Filter())
}

type staticContainer []selection.Element

func (c staticContainer) Bounds() selection.Rect        { return selection.RectAt(0, 0, 20, 10) }
func (c staticContainer) Elements() []selection.Element { return c }

func TestToggleMark(t *testing.T) {
	a := newActions(t)
	a.ToggleMark("m1")
	assert.True(t, a.Record.Has("m1"))
	a.ToggleMark("m1")
	assert.False(t, a.Record.Has("m1"))
	assert.Equal(t, []string{"Mark m1", "Unmark m1"}, a.History.Labels())

	a.History.Undo()
	assert.True(t, a.Record.Has("m1"))
	a.History.Undo()
	assert.False(t, a.Record.Has("m1"))
}

func TestMarkMany(t *testing.T) {
	a := newActions(t)
	a.Record.Add("m2")

	n := a.MarkMany([]string{"m1", "m2", "m3"}, false)
	assert.Equal(t, 2, n)
	assert.ElementsMatch(t, []string{"m1", "m2", "m3"}, a.Record.Points())
	assert.Equal(t, []string{"Mark 2 markers"}, a.History.Labels())

	a.History.Undo()
	assert.Equal(t, []string{"m2"}, a.Record.Points(), "batch counts as one step and keeps prior marks")

	a.History.Redo()
	n = a.MarkMany([]string{"m1", "m4"}, true)
	assert.Equal(t, 1, n)
	assert.ElementsMatch(t, []string{"m2", "m3"}, a.Record.Points())

	assert.Zero(t, a.MarkMany([]string{"m4"}, true))
	assert.Equal(t, 2, a.History.UndoCount())
}

func TestClearMarks(t *testing.T) {
	a := newActions(t)
	assert.Zero(t, a.ClearMarks())
	assert.False(t, a.History.CanUndo(), "clearing nothing records nothing")

	a.Record.Add("m1")
	a.Record.Add("m2")
	assert.Equal(t, 2, a.ClearMarks())
	assert.Empty(t, a.Record.Points())
	assert.Equal(t, []string{"Clear 2 marks"}, a.History.Labels())

	a.History.Undo()
	assert.Equal(t, []string{"m1", "m2"}, a.Record.Points())
	assert.True(t, a.Record.Has("m2"))
	a.History.Redo()
	assert.Empty(t, a.Record.Points())
}

func TestInRect(t *testing.T) {
	ms := []atlas.Marker{
		{ID: "m1", Type: "chest", Subregion: "A", Position: [2]float64{1, 1}},
		{ID: "m2", Type: "ore", Subregion: "A", Position: [2]float64{2, 2}},
		{ID: "m3", Type: "chest", Subregion: "B", Position: [2]float64{3, 3}},
		{ID: "m4", Type: "chest", Subregion: "A", Position: [2]float64{4, 4}},
		{ID: "m5", Type: "chest", Subregion: "A", Position: [2]float64{40, 40}},
	}
	record := LoadRecordStore(context.Background(), nil, nil)
	record.Add("m4")

	v := Visibility{
		Filter:        NewFilterStore("chest"),
		Record:        record,
		HideCollected: true,
		Subregion:     func(id string) bool { return id == "A" },
	}
	project := func(m atlas.Marker) selection.Point {
		return selection.Point{X: int(m.Position[0]), Y: int(m.Position[1])}
	}

	got := InRect(ms, v, selection.RectAt(0, 0, 10, 10), project)
	assert.Equal(t, []string{"m1"}, got)

	v.HideCollected = false
	got = InRect(ms, v, selection.RectAt(0, 0, 10, 10), project)
	assert.Equal(t, []string{"m1", "m4"}, got)
}

func TestRecordExportParse(t *testing.T) {
	s := LoadRecordStore(context.Background(), nil, nil)
	s.Add("m1")
	s.Add("m2")

	ids, err := ParseRecord(s.Export())
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids)

	_, err = ParseRecord("{}")
	assert.ErrorIs(t, err, ErrInvalidRecord)
	_, err = ParseRecord("nope")
	assert.ErrorIs(t, err, ErrInvalidRecord)
}
