package atlas

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const regionsYAML = `
default: Wuling
regions:
  - key: Valley_4
    dimensions: [1000, 800]
    max_zoom: 5
    tile_size: 256
    initial_zoom: 2
    subregions:
      - id: VL_HB
        name: Hub
        bounds: [[0, 0], [500, 800]]
      - id: VL_PL
        name: Plains
        bounds: [[500, 0], [1000, 800]]
  - key: Wuling
    code: WL
    dimensions: [600, 600]
    subregions:
      - id: WL_JY
        name: Jiangyuan
        bounds: [[0, 0], [600, 600]]
`

const typesJSON = `{
  "chest": {"key": "chest", "category": {"main": "collect", "sub": "box"}},
  "ore":   {"category": {"main": "collect", "sub": "mineral"}},
  "boss":  {"key": "boss", "noFrame": true, "category": {"main": "combat", "sub": "elite"}},
  "amber": {"key": "amber", "category": {"main": "collect", "sub": "mineral"}}
}`

func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "regions.yaml"), []byte(regionsYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.json"), []byte(typesJSON), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "markers"), 0o755))
	files := map[string]string{
		"VL_HB.json": `[{"id":"m1","position":[10,10],"type":"chest"},{"id":"m2","position":[20,20],"type":"ore"}]`,
		"VL_PL.json": `[{"id":"m3","position":[600,100],"subregionId":"VL_PL","type":"chest"}]`,
		"WL_JY.json": `[{"id":"m4","position":[5,5],"type":"chest"},{"id":"m5","position":[9,9],"type":"boss"}]`,
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "markers", name), []byte(body), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	d, err := Load(context.Background(), writeFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "Wuling", d.DefaultRegion)
	require.Len(t, d.Regions, 2)

	vl, ok := d.Region("Valley_4")
	require.True(t, ok)
	assert.Equal(t, "VL", vl.Code, "code falls back to the built-in table")
	assert.Equal(t, [2]float64{1000, 800}, vl.Dimensions)
	assert.Equal(t, []string{"VL_HB", "VL_PL"}, vl.SubregionIDs())

	assert.Equal(t, "ore", d.Types["ore"].Key, "key falls back to the map key")
	assert.True(t, d.Types["boss"].NoFrame)

	m, ok := d.Marker("m1")
	require.True(t, ok)
	assert.Equal(t, "VL_HB", m.Subregion, "subregion comes from the file name")

	assert.Len(t, d.RegionMarkers("Valley_4"), 3)
	assert.Len(t, d.WorldMarkers(), 5)
	assert.Empty(t, d.RegionMarkers("Nowhere"))
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("bad marker file", func(t *testing.T) {
		dir := writeFixture(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "markers", "bad.json"), []byte("{"), 0o644))
		_, err := Load(context.Background(), dir)
		assert.ErrorIs(t, err, ErrInvalidData)
	})

	t.Run("no regions", func(t *testing.T) {
		dir := writeFixture(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "regions.yaml"), []byte("regions: []\n"), 0o644))
		_, err := Load(context.Background(), dir)
		assert.ErrorIs(t, err, ErrInvalidData)
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Load(ctx, writeFixture(t))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTypeTree(t *testing.T) {
	d, err := Load(context.Background(), writeFixture(t))
	require.NoError(t, err)

	tree := d.TypeTree()
	require.Len(t, tree, 2)
	assert.Equal(t, "collect", tree[0].Main)
	require.Len(t, tree[0].Groups, 2)
	assert.Equal(t, "box", tree[0].Groups[0].Sub)
	assert.Equal(t, "mineral", tree[0].Groups[1].Sub)
	assert.Equal(t, "amber", tree[0].Groups[1].Types[0].Key)
	assert.Equal(t, "ore", tree[0].Groups[1].Types[1].Key)
	assert.Equal(t, "combat", tree[1].Main)
}

func TestMarkerCounts(t *testing.T) {
	d, err := Load(context.Background(), writeFixture(t))
	require.NoError(t, err)

	collected := func(id string) bool { return id == "m1" || id == "m4" }

	assert.Equal(t, Count{Total: 3, Collected: 2}, d.WorldMarkerCount("chest", collected))
	assert.Equal(t, Count{Total: 2, Collected: 1}, d.RegionMarkerCount("chest", "Valley_4", collected))
	assert.Equal(t, Count{}, d.RegionMarkerCount("", "Valley_4", collected))
	assert.Equal(t, Count{Total: 1}, d.WorldMarkerCount("boss", nil))

	counts := d.RegionCounts("Valley_4", collected)
	assert.Equal(t, d.RegionMarkerCount("chest", "Valley_4", collected), counts["chest"])
	for key, c := range counts {
		assert.Equal(t, d.RegionMarkerCount(key, "Valley_4", collected), c, key)
	}
	assert.Empty(t, d.RegionCounts("nowhere", collected))
}

func TestRegionCode(t *testing.T) {
	for key, want := range map[string]string{
		"Valley_4":   "VL",
		"Wuling":     "WL",
		"Dijiang":    "DJ",
		"Weekraid_1": "ES",
		"Jinlong":    "JL",
		"":           "",
		"Other":      "",
	} {
		assert.Equal(t, want, RegionCode(key), key)
	}
}

func TestSubregionContains(t *testing.T) {
	s := Subregion{Bounds: [2][2]float64{{10, 20}, {0, 0}}}
	assert.True(t, s.Contains(5, 5))
	assert.True(t, s.Contains(10, 20))
	assert.False(t, s.Contains(11, 5))
}
