// Package atlas loads the static map data: regions, subregions, marker
// types and the markers themselves.
package atlas

import "errors"

// ErrInvalidData is wrapped by every load error caused by bad input.
var ErrInvalidData = errors.New("atlas: invalid data")

// Region is one top-level map.
type Region struct {
	Key         string      `yaml:"key"`
	Code        string      `yaml:"code"`
	Dimensions  [2]float64  `yaml:"dimensions"`
	MaxZoom     int         `yaml:"max_zoom"`
	TileSize    int         `yaml:"tile_size"`
	InitialZoom int         `yaml:"initial_zoom"`
	Subregions  []Subregion `yaml:"subregions"`
}

// SubregionIDs returns the ids of the region's subregions in order.
func (r Region) SubregionIDs() []string {
	ids := make([]string, len(r.Subregions))
	for i, s := range r.Subregions {
		ids[i] = s.ID
	}
	return ids
}

// Subregion is an area inside a region. Bounds are [[x1, y1], [x2, y2]] in
// the region's pixel space.
type Subregion struct {
	ID     string        `yaml:"id"`
	Name   string        `yaml:"name"`
	Bounds [2][2]float64 `yaml:"bounds"`
}

// Contains reports whether (x, y) lies inside the subregion bounds.
func (s Subregion) Contains(x, y float64) bool {
	x1, x2 := minmax(s.Bounds[0][0], s.Bounds[1][0])
	y1, y2 := minmax(s.Bounds[0][1], s.Bounds[1][1])
	return x >= x1 && x <= x2 && y >= y1 && y <= y2
}

// Marker is one collectible point on the map. Position is [x, y] in the
// region's pixel space.
type Marker struct {
	ID        string     `json:"id"`
	Position  [2]float64 `json:"position"`
	Subregion string     `json:"subregionId"`
	Type      string     `json:"type"`
}

// Category places a marker type in the filter tree.
type Category struct {
	Main string `json:"main"`
	Sub  string `json:"sub"`
}

// MarkerType describes a kind of marker.
type MarkerType struct {
	Key      string   `json:"key"`
	NoFrame  bool     `json:"noFrame,omitempty"`
	SubIcon  string   `json:"subIcon,omitempty"`
	Category Category `json:"category"`
}

// Count is a collected/total pair.
type Count struct {
	Total     int
	Collected int
}

func minmax(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}
