package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"atlas/internal/atlas"
	"atlas/internal/selection"
)

// draftType is the marker type the mark tool places: the type row under
// the sidebar cursor.
func (m *model) draftType() (string, bool) {
	if m.sidebar.cursor < 0 || m.sidebar.cursor >= len(m.sidebar.rows) {
		return "", false
	}
	row := m.sidebar.rows[m.sidebar.cursor]
	return row.key, row.kind == rowType
}

// draftAt returns the draft drawn at viewport cell p.
func (m *model) draftAt(p selection.Point) (atlas.Marker, bool) {
	for _, d := range m.drafts.Region(m.region().Key) {
		if m.projectMarker(d) == p {
			return d, true
		}
	}
	return atlas.Marker{}, false
}

// toggleDraft removes the draft at p, or places one of the current type in
// the subregion under p.
func (m *model) toggleDraft(p selection.Point) {
	region := m.region()
	if d, ok := m.draftAt(p); ok {
		m.drafts.Remove(region.Key, d.ID)
		m.successMessage = fmt.Sprintf("Removed draft %s", d.ID)
		return
	}

	typeKey, ok := m.draftType()
	if !ok {
		m.errorMessage = "Move the sidebar cursor onto a marker type"
		return
	}
	pt := m.unproject(p)
	for _, s := range region.Subregions {
		if s.Contains(pt[0], pt[1]) {
			d := m.drafts.Add(region.Key, s.ID, typeKey, pt[0], pt[1])
			m.successMessage = fmt.Sprintf("Placed %s in %s", m.tr.TypeName(typeKey), s.ID)
			m.logger.Debug("draft placed", zap.String("id", d.ID))
			return
		}
	}
	m.errorMessage = "Outside every subregion"
}

// saveDrafts writes one mark-tool-<region>.json file per region holding
// drafts.
func (m *model) saveDrafts() {
	regions := m.drafts.Regions()
	if len(regions) == 0 {
		m.errorMessage = "No drafts to save"
		return
	}
	for _, region := range regions {
		text, err := m.drafts.Export(region)
		if err == nil {
			path := m.cfg.SavePath(fmt.Sprintf("mark-tool-%s.json", region))
			err = os.WriteFile(path, []byte(text+"\n"), 0o644)
		}
		if err != nil {
			m.logger.Warn("save drafts", zap.String("region", region), zap.Error(err))
			m.errorMessage = fmt.Sprintf("Save failed: %s", err)
			return
		}
	}
	m.successMessage = fmt.Sprintf("Saved drafts of %d regions", len(regions))
}
