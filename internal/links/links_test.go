package links

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atlas/internal/storage"
)

func TestTryParseRejects(t *testing.T) {
	for _, text := range []string{
		"{",
		"[]",
		`{"version":2,"regions":{}}`,
		`{"version":1}`,
		`{"version":1,"regions":[]}`,
	} {
		_, ok := TryParse(text)
		assert.False(t, ok, text)
	}
}

func TestTryParseNormalizes(t *testing.T) {
	d, ok := TryParse(`{
		"version": 1,
		"regions": {
			"VL": {"links": {
				"VL/link_0": {
					"bounds": [[1, 2], [3, 4]],
					"leftLink": {"label": "links.wiki", "url": "https://wiki"},
					"rightLink": {"titleKey": "links.map", "url": 7}
				},
				"VL/link_1": {"id": "custom", "region": "WL", "bounds": [[0, 0], [1, 1]]},
				"VL/bad": {"bounds": [[0, 0], [1]]},
				"VL/worse": {"bounds": [[0, "0"], [1, 1]]}
			}},
			"WL": "junk"
		}
	}`)
	require.True(t, ok)

	assert.Equal(t, Config{
		Left:  Target{TitleKey: "links.wiki", URL: "https://wiki"},
		Right: Target{TitleKey: "links.map"},
	}, d.Config)

	vl := d.Regions["VL"].Links
	require.Len(t, vl, 2)
	assert.Equal(t, Link{ID: "VL/link_0", Region: "VL", Bounds: Bounds{{1, 2}, {3, 4}}}, vl["VL/link_0"])
	assert.Equal(t, Link{ID: "custom", Region: "WL", Bounds: Bounds{{0, 0}, {1, 1}}}, vl["VL/link_1"])

	assert.Empty(t, d.Regions["WL"].Links)
	assert.Contains(t, d.Regions, "WL")

	assert.NotContains(t, Serialize(d), "label\"", "legacy fields are stripped")
}

func TestTryParseDefaultConfig(t *testing.T) {
	d, ok := TryParse(`{"version":1,"regions":{"VL":{"links":{}}}}`)
	require.True(t, ok)
	assert.Equal(t, Config{}, d.Config)

	d, ok = TryParse(`{"version":1,"config":{"leftLink":{"titleKey":"a","url":"u"},"rightLink":{}},"regions":{}}`)
	require.True(t, ok)
	assert.Equal(t, Target{TitleKey: "a", URL: "u"}, d.Config.Left)
}

func TestMerge(t *testing.T) {
	base := Empty()
	base.Config.Left.URL = "base"
	base.Regions["VL"] = Bucket{Links: map[string]Link{
		"VL/link_0": {ID: "VL/link_0", Region: "VL", Bounds: Bounds{{0, 0}, {1, 1}}},
		"VL/link_1": {ID: "VL/link_1", Region: "VL"},
	}}
	overlay := Empty()
	overlay.Config.Left.URL = "overlay"
	overlay.Regions["VL"] = Bucket{Links: map[string]Link{
		"VL/link_0": {ID: "VL/link_0", Region: "VL", Bounds: Bounds{{5, 5}, {6, 6}}},
	}}
	overlay.Regions["WL"] = Bucket{Links: map[string]Link{"WL/link_0": {ID: "WL/link_0", Region: "WL"}}}

	out := Merge(base, overlay)
	assert.Equal(t, "overlay", out.Config.Left.URL)
	assert.Len(t, out.Regions["VL"].Links, 2)
	assert.Equal(t, Bounds{{5, 5}, {6, 6}}, out.Regions["VL"].Links["VL/link_0"].Bounds)
	assert.Len(t, out.Regions["WL"].Links, 1)
	assert.Equal(t, Bounds{{0, 0}, {1, 1}}, base.Regions["VL"].Links["VL/link_0"].Bounds, "base untouched")
}

func TestGeometry(t *testing.T) {
	assert.Equal(t, Bounds{{1.235, 2}, {3.333, -0.001}}, RoundBounds(Bounds{{1.23456, 2.0001}, {3.3333, -0.0011}}))

	assert.Equal(t, Bounds{{2, 1}, {8, 7}}, SquareBounds([2]float64{8, 1}, [2]float64{2, 4}))
	assert.Equal(t, Bounds{{0, 0}, {0.333, 0.333}}, SquareBounds([2]float64{0, 0}, [2]float64{1.0 / 3, 0.1}))

	b := Bounds{{0, 0}, {2, 2}}
	assert.True(t, b.Contains(2, 0))
	assert.False(t, b.Contains(2.1, 1))
}

func TestNextID(t *testing.T) {
	assert.Equal(t, "VL/link_0", NextID("VL", nil))
	assert.Equal(t, "VL/link_1", NextID("VL", map[string]Link{"VL/link_0": {}, "VL/link_2": {}}))
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemory()
	s := NewStore(ctx, Empty(), kv, 50, nil)

	l0 := s.Add("VL", [2]float64{0, 0}, [2]float64{4, 2})
	assert.Equal(t, "VL/link_0", l0.ID)
	assert.Equal(t, Bounds{{0, 0}, {4, 4}}, l0.Bounds)
	l1 := s.Add("VL", [2]float64{10, 10}, [2]float64{11, 11})
	assert.Equal(t, "VL/link_1", l1.ID)

	got, ok := s.At("VL", 3, 3)
	require.True(t, ok)
	assert.Equal(t, l0, got)
	_, ok = s.At("VL", 6, 6)
	assert.False(t, ok)

	assert.False(t, s.Remove("VL", "nope"))
	require.True(t, s.Remove("VL", l0.ID))
	s.UpdateConfig(Config{Left: Target{TitleKey: "links.wiki", URL: "https://wiki"}})

	reopened := NewStore(ctx, Empty(), kv, 50, nil)
	assert.Equal(t, []Link{l1}, reopened.LinksForRegion("VL"))
	assert.Equal(t, "links.wiki", reopened.Config().Left.TitleKey)

	require.True(t, s.Undo())
	assert.Equal(t, Config{}, s.Config())
	require.True(t, s.Undo())
	assert.Len(t, s.LinksForRegion("VL"), 2)

	require.True(t, s.Redo())
	assert.Len(t, s.LinksForRegion("VL"), 1)
	assert.True(t, s.CanRedo())

	s.ResetToBase()
	assert.Empty(t, s.LinksForRegion("VL"))
	assert.False(t, s.CanRedo())

	assert.False(t, s.ImportMerge("nope"))
	require.True(t, s.ImportMerge(`{"version":1,"regions":{"DJ":{"links":{"DJ/link_0":{"bounds":[[0,0],[1,1]]}}}}}`))
	assert.Len(t, s.LinksForRegion("DJ"), 1)

	back, ok := TryParse(s.Export())
	require.True(t, ok)
	assert.Equal(t, s.Current(), back)
}
