package labels

import (
	"sort"
	"strings"
)

// RootSub is the sub key used for sites of regions without subregions.
const RootSub = "__root__"

// Place is an entry of the label tool's place list.
type Place struct {
	ID     string
	Kind   Kind
	Region string
	Sub    string
	Site   string
	// Name is the localized display name.
	Name string
}

// Label returns a label for p pinned at pt.
func (p Place) Label(pt [2]float64) Label {
	return Label{ID: p.ID, Type: p.Kind, Region: p.Region, Sub: p.Sub, Site: p.Site, Point: pt}
}

// PlaceIndex lists the places of one region from a locale node shaped like
//
//	{"<code>": {"sub": {"<sub>": {"name": "...", "site": {"<site>": "..."}}}}}
//
// or, for regions without subregions,
//
//	{"<code>": {"sub": {"name": "...", "site": {"<site>": "..."}}}}
//
// Subregions come first, then sites, each sorted by name.
func PlaceIndex(regionBundle any, regionCode string) []Place {
	regions, ok := regionBundle.(map[string]any)
	if !ok {
		return nil
	}
	region, ok := regions[regionCode].(map[string]any)
	if !ok {
		return nil
	}
	subNode, ok := region["sub"].(map[string]any)
	if !ok {
		return nil
	}

	var places []Place
	if _, flat := subNode["name"].(string); flat {
		sites, ok := subNode["site"].(map[string]any)
		if !ok {
			return nil
		}
		for key, v := range sites {
			name, ok := v.(string)
			if !ok {
				continue
			}
			places = append(places, Place{
				ID:     regionCode + "/" + RootSub + "/" + key,
				Kind:   KindSite,
				Region: regionCode,
				Sub:    RootSub,
				Site:   key,
				Name:   name,
			})
		}
		sortPlaces(places)
		return places
	}

	for subKey, v := range subNode {
		sub, ok := v.(map[string]any)
		if !ok {
			continue
		}
		name, ok := sub["name"].(string)
		if !ok {
			continue
		}
		places = append(places, Place{
			ID:     regionCode + "/" + subKey,
			Kind:   KindSub,
			Region: regionCode,
			Sub:    subKey,
			Name:   name,
		})

		sites, ok := sub["site"].(map[string]any)
		if !ok {
			continue
		}
		for siteKey, sv := range sites {
			siteName, ok := sv.(string)
			if !ok {
				continue
			}
			places = append(places, Place{
				ID:     regionCode + "/" + subKey + "/" + siteKey,
				Kind:   KindSite,
				Region: regionCode,
				Sub:    subKey,
				Site:   siteKey,
				Name:   siteName,
			})
		}
	}
	sortPlaces(places)
	return places
}

func sortPlaces(ps []Place) {
	sort.SliceStable(ps, func(i, j int) bool {
		if ps[i].Kind != ps[j].Kind {
			return ps[i].Kind == KindSub
		}
		if c := strings.Compare(ps[i].Name, ps[j].Name); c != 0 {
			return c < 0
		}
		return ps[i].ID < ps[j].ID
	})
}

// Unassigned filters out places that already have a label in d.
func Unassigned(places []Place, d Data) []Place {
	var out []Place
	for _, p := range places {
		if !d.Has(p.Region, p.ID) {
			out = append(out, p)
		}
	}
	return out
}
