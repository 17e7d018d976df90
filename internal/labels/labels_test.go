package labels

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlas/internal/storage"
)

func hub() Label {
	return Label{ID: "VL/HB", Type: KindSub, Region: "VL", Sub: "HB", Point: [2]float64{10, 20}}
}

func passage() Label {
	return Label{ID: "VL/OL/passage", Type: KindSite, Region: "VL", Sub: "OL", Site: "passage", Point: [2]float64{3, 4}}
}

func baseData() Data {
	d := Empty()
	d.Regions["VL"] = Bucket{Labels: map[string]Label{hub().ID: hub()}}
	return d
}

func TestTryParse(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		ok     bool
		labels int
	}{
		{"not json", "{", false, 0},
		{"array", "[]", false, 0},
		{"wrong version", `{"version":2,"regions":{}}`, false, 0},
		{"no regions", `{"version":1}`, true, 0},
		{"valid", `{"version":1,"regions":{"VL":{"labels":{
			"VL/HB":{"id":"VL/HB","type":"sub","region":"VL","sub":"HB","point":[1,2]}}}}}`, true, 1},
		{"drops bad labels", `{"version":1,"regions":{"VL":{"labels":{
			"a":{"id":"a","type":"bogus","region":"VL","sub":"HB","point":[1,2]},
			"b":{"id":"b","type":"site","region":"VL","sub":"HB","point":[1,2]},
			"c":{"id":"c","type":"sub","region":"VL","sub":"HB","point":[1]},
			"d":{"id":"d","type":"sub","region":"VL","sub":"HB","point":[1,"2"]},
			"e":{"id":"e","type":"site","region":"VL","sub":"HB","site":"x","point":[1,2]}}},
			"WL":"nope"}}`, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := TryParse(tt.text)
			assert.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, 1, d.Version)
			n := 0
			for _, b := range d.Regions {
				n += len(b.Labels)
			}
			assert.Equal(t, tt.labels, n)
		})
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	d := baseData()
	d.Regions["VL"].Labels[passage().ID] = passage()

	text := Serialize(d)
	assert.True(t, len(text) > 0 && text[len(text)-1] == '\n')
	assert.Contains(t, text, "\n  \"regions\"")

	back, ok := TryParse(text)
	require.True(t, ok)
	assert.Equal(t, d, back)
}

func TestMerge(t *testing.T) {
	base := baseData()
	moved := hub()
	moved.Point = [2]float64{99, 99}

	incoming := Empty()
	incoming.Regions["VL"] = Bucket{Labels: map[string]Label{moved.ID: moved, passage().ID: passage()}}
	incoming.Regions["WL"] = Bucket{Labels: map[string]Label{}}

	out := Merge(base, incoming)
	assert.Equal(t, [2]float64{99, 99}, out.Regions["VL"].Labels["VL/HB"].Point)
	assert.Len(t, out.Regions["VL"].Labels, 2)
	assert.Contains(t, out.Regions, "WL")
	assert.Equal(t, [2]float64{10, 20}, base.Regions["VL"].Labels["VL/HB"].Point, "base untouched")
}

func TestLoadBase(t *testing.T) {
	dir := t.TempDir()

	d, err := LoadBase(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, d.Regions)

	path := filepath.Join(dir, "labels.json")
	require.NoError(t, os.WriteFile(path, []byte(Serialize(baseData())), 0o644))
	d, err = LoadBase(path)
	require.NoError(t, err)
	assert.True(t, d.Has("VL", "VL/HB"))

	require.NoError(t, os.WriteFile(path, []byte("nope"), 0o644))
	_, err = LoadBase(path)
	assert.Error(t, err)
}

func TestStoreEditUndoRedo(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := NewStore(ctx, baseData(), kv, 50, nil)

	s.Upsert(passage())
	assert.Len(t, s.LabelsForRegion("VL"), 2)
	assert.False(t, s.Remove("VL", "nope"))
	require.True(t, s.Remove("VL", "VL/HB"))
	assert.Equal(t, []Label{passage()}, s.LabelsForRegion("VL"))

	require.True(t, s.Undo())
	assert.Len(t, s.LabelsForRegion("VL"), 2)
	require.True(t, s.Undo())
	assert.Len(t, s.LabelsForRegion("VL"), 1)
	assert.False(t, s.Undo())
	require.True(t, s.Redo())
	assert.Len(t, s.LabelsForRegion("VL"), 2)
	assert.True(t, s.CanRedo())

	assert.Len(t, s.Base().Regions["VL"].Labels, 1, "base untouched")

	raw, err := kv.Get(ctx, StorageKey)
	require.NoError(t, err)
	stored, ok := TryParse(raw)
	require.True(t, ok)
	assert.Len(t, stored.Regions["VL"].Labels, 2, "undo and redo are persisted")
}

func TestStoreLoadsStoredEdits(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()

	first := NewStore(ctx, baseData(), kv, 50, nil)
	first.Upsert(passage())

	second := NewStore(ctx, baseData(), kv, 50, nil)
	assert.Len(t, second.LabelsForRegion("VL"), 2)
	assert.False(t, second.CanUndo())
}

func TestStoreImportAndReset(t *testing.T) {
	s := NewStore(context.Background(), baseData(), nil, 50, nil)

	assert.False(t, s.ImportMerge("garbage"))
	assert.False(t, s.CanUndo())

	incoming := Empty()
	incoming.Regions["WL"] = Bucket{Labels: map[string]Label{"WL/JY": {ID: "WL/JY", Type: KindSub, Region: "WL", Sub: "JY"}}}
	require.True(t, s.ImportMerge(Serialize(incoming)))
	assert.Len(t, s.LabelsForRegion("WL"), 1)
	assert.Len(t, s.LabelsForRegion("VL"), 1)

	s.ResetToBase()
	assert.Empty(t, s.LabelsForRegion("WL"))
	require.True(t, s.Undo())
	assert.Len(t, s.LabelsForRegion("WL"), 1)

	var exported map[string]any
	require.NoError(t, json.Unmarshal([]byte(s.Export()), &exported))
	assert.Equal(t, float64(1), exported["version"])
}

func TestStoreUndoLimit(t *testing.T) {
	s := NewStore(context.Background(), Empty(), nil, 3, nil)
	for i := 0; i < 10; i++ {
		l := hub()
		l.Point = [2]float64{float64(i), 0}
		s.Upsert(l)
	}
	n := 0
	for s.Undo() {
		n++
	}
	assert.Equal(t, 3, n)
	assert.Equal(t, [2]float64{6, 0}, s.LabelsForRegion("VL")[0].Point)
}

func TestPlaceIndex(t *testing.T) {
	var bundle any
	require.NoError(t, json.Unmarshal([]byte(`{
		"VL": {"sub": {
			"HB": {"name": "Hub", "site": {"gate": "Gate", "arch": "Arch"}},
			"OL": {"name": "Outlands"},
			"XX": "broken"
		}},
		"DJ": {"sub": {"name": "Dijiang", "site": {"dock": "Dock", "bay": "Bay"}}}
	}`), &bundle))

	vl := PlaceIndex(bundle, "VL")
	require.Len(t, vl, 4)
	assert.Equal(t, []string{"VL/HB", "VL/OL", "VL/HB/arch", "VL/HB/gate"},
		[]string{vl[0].ID, vl[1].ID, vl[2].ID, vl[3].ID})
	assert.Equal(t, KindSite, vl[2].Kind)
	assert.Equal(t, "HB", vl[2].Sub)

	dj := PlaceIndex(bundle, "DJ")
	require.Len(t, dj, 2)
	assert.Equal(t, "DJ/__root__/bay", dj[0].ID)
	assert.Equal(t, RootSub, dj[0].Sub)

	assert.Nil(t, PlaceIndex(bundle, "WL"))
	assert.Nil(t, PlaceIndex("nope", "VL"))

	d := Empty()
	d.Regions["VL"] = Bucket{Labels: map[string]Label{"VL/OL": {}}}
	assert.Len(t, Unassigned(vl, d), 3)

	l := vl[2].Label([2]float64{1, 2})
	assert.Equal(t, Label{ID: "VL/HB/arch", Type: KindSite, Region: "VL", Sub: "HB", Site: "arch", Point: [2]float64{1, 2}}, l)
}
