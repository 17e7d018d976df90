// Package labels holds the place-name labels drawn on the map and the
// authoring store that edits them.
package labels

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Kind is the kind of place a label names.
type Kind string

const (
	KindSub  Kind = "sub"
	KindSite Kind = "site"
)

// Label pins a localized place name to a point. ID is language-agnostic:
// "VL/HB" for a subregion, "VL/OL/originium_passage" for a site.
type Label struct {
	ID     string `json:"id"`
	Type   Kind   `json:"type"`
	Region string `json:"region"`
	// Sub is the stable subregion short code, never localized.
	Sub   string     `json:"sub"`
	Site  string     `json:"site,omitempty"`
	Point [2]float64 `json:"point"`
}

// Bucket holds one region's labels by id.
type Bucket struct {
	Labels map[string]Label `json:"labels"`
}

// Data is the versioned label document.
type Data struct {
	Version int               `json:"version"`
	Regions map[string]Bucket `json:"regions"`
}

// Empty returns an empty version 1 document.
func Empty() Data {
	return Data{Version: 1, Regions: map[string]Bucket{}}
}

// Clone returns a deep copy of d.
func (d Data) Clone() Data {
	out := Data{Version: d.Version, Regions: make(map[string]Bucket, len(d.Regions))}
	for region, b := range d.Regions {
		out.Regions[region] = Bucket{Labels: maps.Clone(b.Labels)}
	}
	return out
}

func sortedIDs(m map[string]Label) []string {
	return slices.Sorted(maps.Keys(m))
}

// ForRegion returns the labels of one region.
func (d Data) ForRegion(region string) []Label {
	b, ok := d.Regions[region]
	if !ok {
		return nil
	}
	out := make([]Label, 0, len(b.Labels))
	for _, id := range sortedIDs(b.Labels) {
		out = append(out, b.Labels[id])
	}
	return out
}

// Has reports whether the region holds a label with id.
func (d Data) Has(region, id string) bool {
	_, ok := d.Regions[region].Labels[id]
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

// TryParse decodes and sanitizes a label document. It reports false for
// anything that is not JSON or not version 1.
func TryParse(text string) (Data, bool) {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Data{}, false
	}
	obj, ok := raw.(map[string]any)
	if !ok || obj["version"] != float64(1) {
		return Data{}, false
	}
	return Sanitize(raw), true
}

// Sanitize keeps only well-formed labels from a decoded JSON value. Any
// shape it does not recognize yields an empty document.
func Sanitize(raw any) Data {
	out := Empty()
	obj, ok := raw.(map[string]any)
	if !ok || obj["version"] != float64(1) {
		return out
	}
	regions, ok := obj["regions"].(map[string]any)
	if !ok {
		return out
	}
	for region, bucketRaw := range regions {
		bucket, ok := bucketRaw.(map[string]any)
		if !ok {
			continue
		}
		labelsRaw, ok := bucket["labels"].(map[string]any)
		if !ok {
			continue
		}
		labels := make(map[string]Label, len(labelsRaw))
		for id, v := range labelsRaw {
			if l, ok := parseLabel(v); ok {
				labels[id] = l
			}
		}
		out.Regions[region] = Bucket{Labels: labels}
	}
	return out
}

func parseLabel(v any) (Label, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Label{}, false
	}
	id, ok1 := obj["id"].(string)
	typ, ok2 := obj["type"].(string)
	region, ok3 := obj["region"].(string)
	sub, ok4 := obj["sub"].(string)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Label{}, false
	}
	if typ != string(KindSub) && typ != string(KindSite) {
		return Label{}, false
	}
	pt, ok := obj["point"].([]any)
	if !ok || len(pt) != 2 {
		return Label{}, false
	}
	x, okx := pt[0].(float64)
	y, oky := pt[1].(float64)
	if !okx || !oky {
		return Label{}, false
	}
	l := Label{ID: id, Type: Kind(typ), Region: region, Sub: sub, Point: [2]float64{x, y}}
	if l.Type == KindSite {
		site, ok := obj["site"].(string)
		if !ok {
			return Label{}, false
		}
		l.Site = site
	}
	return l, true
}

// Merge lays incoming over base: per label id, incoming wins.
func Merge(base, incoming Data) Data {
	out := Data{Version: 1, Regions: make(map[string]Bucket, len(base.Regions))}
	for region, b := range base.Regions {
		out.Regions[region] = b
	}
	for region, in := range incoming.Regions {
		merged := make(map[string]Label)
		maps.Copy(merged, out.Regions[region].Labels)
		maps.Copy(merged, in.Labels)
		out.Regions[region] = Bucket{Labels: merged}
	}
	return out
}
