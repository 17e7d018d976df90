// Package links holds the clickable link areas drawn on the map, the shared
// tooltip targets they open, and the authoring store that edits them.
package links

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
)

// Bounds is a square in max-zoom pixel space: [[x1, y1], [x2, y2]].
type Bounds [2][2]float64

// Target is one tooltip link. TitleKey is a locale key, not a title.
type Target struct {
	TitleKey string `json:"titleKey"`
	URL      string `json:"url"`
}

// Config is shared by every link area.
type Config struct {
	Left  Target `json:"leftLink"`
	Right Target `json:"rightLink"`
}

// Link is one clickable area. ID looks like "VL/link_0".
type Link struct {
	ID     string `json:"id"`
	Region string `json:"region"`
	Bounds Bounds `json:"bounds"`
}

// Bucket holds one region's links by id.
type Bucket struct {
	Links map[string]Link `json:"links"`
}

// Data is the versioned link document.
type Data struct {
	Version int               `json:"version"`
	Config  Config            `json:"config"`
	Regions map[string]Bucket `json:"regions"`
}

// Empty returns an empty version 1 document.
func Empty() Data {
	return Data{Version: 1, Regions: map[string]Bucket{}}
}

// Clone returns a deep copy of d.
func (d Data) Clone() Data {
	out := Data{Version: d.Version, Config: d.Config, Regions: make(map[string]Bucket, len(d.Regions))}
	for region, b := range d.Regions {
		out.Regions[region] = Bucket{Links: maps.Clone(b.Links)}
	}
	return out
}

// ForRegion returns the links of one region ordered by id.
func (d Data) ForRegion(region string) []Link {
	b := d.Regions[region]
	out := make([]Link, 0, len(b.Links))
	for _, id := range slices.Sorted(maps.Keys(b.Links)) {
		out = append(out, b.Links[id])
	}
	return out
}

// Has reports whether the region holds a link with id.
func (d Data) Has(region, id string) bool {
	_, ok := d.Regions[region].Links[id]
	return ok
}

// Serialize renders d as indented JSON with a trailing newline.
func Serialize(d Data) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(d); err != nil {
		return ""
	}
	return buf.String()
}

// TryParse decodes and normalizes a link document. It reports false for
// anything that is not a JSON object of version 1 with a regions object.
//
// Older documents carried leftLink/rightLink on every link and named the
// title "label"; the first such link becomes the shared config.
func TryParse(text string) (Data, bool) {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Data{}, false
	}
	return normalize(raw)
}

func normalize(raw any) (Data, bool) {
	obj, ok := raw.(map[string]any)
	if !ok || obj["version"] != float64(1) {
		return Data{}, false
	}
	regions, ok := obj["regions"].(map[string]any)
	if !ok {
		return Data{}, false
	}

	cfg, ok := parseConfig(obj["config"])
	if !ok {
		cfg = legacyConfig(regions)
	}

	out := Data{Version: 1, Config: cfg, Regions: make(map[string]Bucket, len(regions))}
	for regionKey, v := range regions {
		links := map[string]Link{}
		if bucket, ok := v.(map[string]any); ok {
			if raw, ok := bucket["links"].(map[string]any); ok {
				for id, lv := range raw {
					if l, ok := parseLink(lv, id, regionKey); ok {
						links[id] = l
					}
				}
			}
		}
		out.Regions[regionKey] = Bucket{Links: links}
	}
	return out, true
}

func legacyConfig(regions map[string]any) Config {
	// Walk sorted so the pick does not depend on map order.
	for _, key := range slices.Sorted(maps.Keys(regions)) {
		bucket, ok := regions[key].(map[string]any)
		if !ok {
			continue
		}
		links, ok := bucket["links"].(map[string]any)
		if !ok {
			continue
		}
		for _, id := range slices.Sorted(maps.Keys(links)) {
			if cfg, ok := parseConfig(links[id]); ok {
				return cfg
			}
		}
	}
	return Config{}
}

func parseConfig(raw any) (Config, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Config{}, false
	}
	left, okl := obj["leftLink"]
	right, okr := obj["rightLink"]
	if !okl || !okr {
		return Config{}, false
	}
	return Config{Left: parseTarget(left), Right: parseTarget(right)}, true
}

func parseTarget(raw any) Target {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Target{}
	}
	var t Target
	if s, ok := obj["titleKey"].(string); ok {
		t.TitleKey = s
	} else if s, ok := obj["label"].(string); ok {
		t.TitleKey = s
	}
	t.URL, _ = obj["url"].(string)
	return t
}

func parseLink(raw any, id, region string) (Link, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Link{}, false
	}
	b, ok := parseBounds(obj["bounds"])
	if !ok {
		return Link{}, false
	}
	l := Link{ID: id, Region: region, Bounds: b}
	if s, ok := obj["id"].(string); ok {
		l.ID = s
	}
	if s, ok := obj["region"].(string); ok {
		l.Region = s
	}
	return l, true
}

func parseBounds(raw any) (Bounds, bool) {
	pair, ok := raw.([]any)
	if !ok || len(pair) != 2 {
		return Bounds{}, false
	}
	var b Bounds
	for i, corner := range pair {
		xy, ok := corner.([]any)
		if !ok || len(xy) != 2 {
			return Bounds{}, false
		}
		for j, n := range xy {
			f, ok := n.(float64)
			if !ok {
				return Bounds{}, false
			}
			b[i][j] = f
		}
	}
	return b, true
}

// Merge lays overlay over base. The overlay's config wins; per region, the
// links are the union with overlay links replacing base links of the same id.
func Merge(base, overlay Data) Data {
	out := Data{Version: 1, Config: overlay.Config, Regions: make(map[string]Bucket)}
	for _, d := range []Data{base, overlay} {
		for region, b := range d.Regions {
			merged := out.Regions[region].Links
			if merged == nil {
				merged = make(map[string]Link, len(b.Links))
			}
			maps.Copy(merged, b.Links)
			out.Regions[region] = Bucket{Links: merged}
		}
	}
	return out
}

// RoundBounds rounds every coordinate to three decimal places.
func RoundBounds(b Bounds) Bounds {
	for i := range b {
		for j := range b[i] {
			b[i][j] = math.Round(b[i][j]*1000) / 1000
		}
	}
	return b
}

// SquareBounds turns the rectangle spanned by two corners into a square
// whose side is the larger of its width and height, anchored at the minimum
// corner and rounded.
func SquareBounds(a, b [2]float64) Bounds {
	size := max(math.Abs(b[0]-a[0]), math.Abs(b[1]-a[1]))
	x, y := min(a[0], b[0]), min(a[1], b[1])
	return RoundBounds(Bounds{{x, y}, {x + size, y + size}})
}

// NextID returns the first free "REGION/link_N" id in the region.
func NextID(region string, existing map[string]Link) string {
	for n := 0; ; n++ {
		id := fmt.Sprintf("%s/link_%d", region, n)
		if _, taken := existing[id]; !taken {
			return id
		}
	}
}

// Contains reports whether the point lies inside b, edges included.
func (b Bounds) Contains(x, y float64) bool {
	return x >= min(b[0][0], b[1][0]) && x <= max(b[0][0], b[1][0]) &&
		y >= min(b[0][1], b[1][1]) && y <= max(b[0][1], b[1][1])
}
