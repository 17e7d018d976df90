package atlas

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Dataset is the loaded, read-only map data.
type Dataset struct {
	DefaultRegion string
	Regions       []Region
	Types         map[string]MarkerType

	regionByKey map[string]*Region
	subregions  map[string]Subregion
	markers     map[string][]Marker // by subregion id
	markerByID  map[string]Marker
}

type regionsFile struct {
	Default string   `yaml:"default"`
	Regions []Region `yaml:"regions"`
}

// Load reads a data directory laid out as
//
//	regions.yaml
//	types.json
//	markers/<subregion id>.json
//
// Marker files are read concurrently.
func Load(ctx context.Context, dir string) (*Dataset, error) {
	var rf regionsFile
	if err := readYAML(filepath.Join(dir, "regions.yaml"), &rf); err != nil {
		return nil, err
	}
	if len(rf.Regions) == 0 {
		return nil, fmt.Errorf("%w: regions.yaml lists no regions", ErrInvalidData)
	}

	types := make(map[string]MarkerType)
	if err := readJSON(filepath.Join(dir, "types.json"), &types); err != nil {
		return nil, err
	}
	for key, t := range types {
		if t.Key == "" {
			t.Key = key
			types[key] = t
		}
	}

	files, err := filepath.Glob(filepath.Join(dir, "markers", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list marker files: %w", err)
	}

	var (
		mu      sync.Mutex
		markers = make(map[string][]Marker, len(files))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var ms []Marker
			if err := readJSON(f, &ms); err != nil {
				return err
			}
			sub := strings.TrimSuffix(filepath.Base(f), ".json")
			for i := range ms {
				if ms[i].Subregion == "" {
					ms[i].Subregion = sub
				}
			}
			mu.Lock()
			markers[sub] = ms
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return NewDataset(rf.Default, rf.Regions, types, markers), nil
}

// NewDataset assembles a dataset from parts already in memory.
func NewDataset(defaultRegion string, regions []Region, types map[string]MarkerType, markers map[string][]Marker) *Dataset {
	d := &Dataset{
		DefaultRegion: defaultRegion,
		Regions:       regions,
		Types:         types,
		regionByKey:   make(map[string]*Region, len(regions)),
		subregions:    make(map[string]Subregion),
		markers:       markers,
		markerByID:    make(map[string]Marker),
	}
	if d.Types == nil {
		d.Types = make(map[string]MarkerType)
	}
	if d.markers == nil {
		d.markers = make(map[string][]Marker)
	}
	for i := range d.Regions {
		r := &d.Regions[i]
		if r.Code == "" {
			r.Code = RegionCode(r.Key)
		}
		d.regionByKey[r.Key] = r
		for _, s := range r.Subregions {
			d.subregions[s.ID] = s
		}
	}
	for _, ms := range d.markers {
		for _, m := range ms {
			d.markerByID[m.ID] = m
		}
	}
	if _, ok := d.regionByKey[d.DefaultRegion]; !ok && len(d.Regions) > 0 {
		d.DefaultRegion = d.Regions[0].Key
	}
	return d
}

// Region returns the region with the given key.
func (d *Dataset) Region(key string) (Region, bool) {
	r, ok := d.regionByKey[key]
	if !ok {
		return Region{}, false
	}
	return *r, true
}

// Subregion returns the subregion with the given id.
func (d *Dataset) Subregion(id string) (Subregion, bool) {
	s, ok := d.subregions[id]
	return s, ok
}

// Marker returns the marker with the given id.
func (d *Dataset) Marker(id string) (Marker, bool) {
	m, ok := d.markerByID[id]
	return m, ok
}

// SubregionMarkers returns the markers of one subregion.
func (d *Dataset) SubregionMarkers(id string) []Marker {
	return d.markers[id]
}

// RegionMarkers returns every marker in the region's subregions.
func (d *Dataset) RegionMarkers(key string) []Marker {
	r, ok := d.regionByKey[key]
	if !ok {
		return nil
	}
	var out []Marker
	for _, s := range r.Subregions {
		out = append(out, d.markers[s.ID]...)
	}
	return out
}

// WorldMarkers returns every marker, ordered by subregion id then file
// order.
func (d *Dataset) WorldMarkers() []Marker {
	subs := make([]string, 0, len(d.markers))
	for id := range d.markers {
		subs = append(subs, id)
	}
	sort.Strings(subs)
	var out []Marker
	for _, id := range subs {
		out = append(out, d.markers[id]...)
	}
	return out
}

// TypeGroup is a sub category and its marker types.
type TypeGroup struct {
	Sub   string
	Types []MarkerType
}

// TypeCategory is a main category and its sub categories.
type TypeCategory struct {
	Main   string
	Groups []TypeGroup
}

// TypeTree groups marker types by main then sub category. Categories and
// types are sorted by key so the filter list renders the same every time.
func (d *Dataset) TypeTree() []TypeCategory {
	tree := make(map[string]map[string][]MarkerType)
	for _, t := range d.Types {
		if tree[t.Category.Main] == nil {
			tree[t.Category.Main] = make(map[string][]MarkerType)
		}
		tree[t.Category.Main][t.Category.Sub] = append(tree[t.Category.Main][t.Category.Sub], t)
	}

	out := make([]TypeCategory, 0, len(tree))
	for _, main := range sortedKeys(tree) {
		cat := TypeCategory{Main: main}
		for _, sub := range sortedKeys(tree[main]) {
			types := tree[main][sub]
			sort.Slice(types, func(i, j int) bool { return types[i].Key < types[j].Key })
			cat.Groups = append(cat.Groups, TypeGroup{Sub: sub, Types: types})
		}
		out = append(out, cat)
	}
	return out
}

// WorldMarkerCount counts markers of one type across every region.
func (d *Dataset) WorldMarkerCount(typeKey string, collected func(id string) bool) Count {
	return count(d.WorldMarkers(), typeKey, collected)
}

// RegionMarkerCount counts markers of one type in one region.
func (d *Dataset) RegionMarkerCount(typeKey, region string, collected func(id string) bool) Count {
	return count(d.RegionMarkers(region), typeKey, collected)
}

// RegionCounts counts the markers of every type in one region in a single
// pass over its markers.
func (d *Dataset) RegionCounts(region string, collected func(id string) bool) map[string]Count {
	out := make(map[string]Count)
	for _, m := range d.RegionMarkers(region) {
		c := out[m.Type]
		c.Total++
		if collected != nil && collected(m.ID) {
			c.Collected++
		}
		out[m.Type] = c
	}
	return out
}

func count(ms []Marker, typeKey string, collected func(string) bool) Count {
	var c Count
	if typeKey == "" {
		return c
	}
	for _, m := range ms {
		if m.Type != typeKey {
			continue
		}
		c.Total++
		if collected != nil && collected(m.ID) {
			c.Collected++
		}
	}
	return c
}

// RegionCode maps a region key to the short code used by locale bundles
// and link data. Unknown keys map to "".
func RegionCode(key string) string {
	switch key {
	case "Valley_4":
		return "VL"
	case "Wuling":
		return "WL"
	case "Dijiang":
		return "DJ"
	case "Weekraid_1":
		return "ES"
	case "Jinlong":
		return "JL"
	}
	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidData, path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidData, path, err)
	}
	return nil
}
