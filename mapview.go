package main

import (
	"math"
	"strings"

	"github.com/mattn/go-runewidth"

	"atlas/internal/atlas"
	"atlas/internal/labels"
	"atlas/internal/links"
	"atlas/internal/markers"
	"atlas/internal/selection"
)

// grid is a rendered pane: one rune and one style class per cell.
type grid struct {
	w, h    int
	cells   [][]rune
	classes [][]cellClass
}

func newGrid(w, h int) *grid {
	w, h = max(w, 1), max(h, 1)
	g := &grid{w: w, h: h, cells: make([][]rune, h), classes: make([][]cellClass, h)}
	for y := range g.cells {
		g.cells[y] = []rune(strings.Repeat(" ", w))
		g.classes[y] = make([]cellClass, w)
	}
	return g
}

// cellWidth measures runes in terminal cells. Ambiguous-width runes such as
// the box drawing set count as one cell whatever the locale.
var cellWidth = &runewidth.Condition{StrictEmojiNeutral: true}

// wideTail fills the second cell of a double-width rune.
const wideTail rune = 0

func (g *grid) set(x, y int, r rune, class cellClass) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	w := cellWidth.RuneWidth(r)
	if w == 2 && x+1 >= g.w {
		r, w = ' ', 1
	}
	g.split(x, y)
	g.cells[y][x] = r
	g.classes[y][x] = class
	if w == 2 {
		g.split(x+1, y)
		g.cells[y][x+1] = wideTail
		g.classes[y][x+1] = class
	}
}

// split blanks the other half of a wide rune covering (x, y).
func (g *grid) split(x, y int) {
	row := g.cells[y]
	switch {
	case row[x] == wideTail && x > 0:
		row[x-1] = ' '
	case x+1 < g.w && row[x+1] == wideTail:
		row[x+1] = ' '
	}
}

// text writes s starting at (x, y), clipped to the grid. Double-width runes
// take two cells.
func (g *grid) text(x, y int, s string, class cellClass) {
	for _, r := range s {
		w := cellWidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		g.set(x, y, r, class)
		x += w
	}
}

// cellText returns the printable text of cells, dropping wide rune tails.
func cellText(cells []rune) string {
	var b strings.Builder
	for _, r := range cells {
		if r != wideTail {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// outline draws the border of r. A one-row rectangle is drawn as a bar.
func (g *grid) outline(r selection.Rect, class cellClass) {
	if r.Top == r.Bottom {
		for x := r.Left; x <= r.Right; x++ {
			g.set(x, r.Top, '█', class)
		}
		return
	}
	for x := r.Left + 1; x < r.Right; x++ {
		g.set(x, r.Top, '─', class)
		g.set(x, r.Bottom, '─', class)
	}
	for y := r.Top + 1; y < r.Bottom; y++ {
		g.set(r.Left, y, '│', class)
		g.set(r.Right, y, '│', class)
	}
	g.set(r.Left, r.Top, '┌', class)
	g.set(r.Right, r.Top, '┐', class)
	g.set(r.Left, r.Bottom, '└', class)
	g.set(r.Right, r.Bottom, '┘', class)
}

// empty reports whether nothing was drawn.
func (g *grid) empty() bool {
	for y := range g.cells {
		for x := range g.cells[y] {
			if g.cells[y][x] != ' ' {
				return false
			}
		}
	}
	return true
}

// lines renders the grid. Styled output wraps runs of equal class in their
// lipgloss style.
func (g *grid) lines(styled bool) []string {
	out := make([]string, g.h)
	for y := range g.cells {
		if !styled {
			out[y] = cellText(g.cells[y])
			continue
		}
		var b strings.Builder
		start := 0
		for x := 1; x <= g.w; x++ {
			if x < g.w && g.classes[y][x] == g.classes[y][start] {
				continue
			}
			run := cellText(g.cells[y][start:x])
			if st, ok := cellStyles[g.classes[y][start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = x
		}
		out[y] = b.String()
	}
	return out
}

// mapBounds is the map pane in viewport coordinates.
func (m *model) mapBounds() selection.Rect {
	left := sidebarWidth + 1
	return selection.Rect{Left: left, Top: 1, Right: max(left, m.width-1), Bottom: max(1, m.height-2)}
}

func (m *model) region() atlas.Region {
	if len(m.data.Regions) == 0 {
		return atlas.Region{}
	}
	return m.data.Regions[m.regionIndex]
}

func (m *model) regionCode() string {
	return codeOf(m.region())
}

// codeOf is the short code locale bundles and annotations use for r.
func codeOf(r atlas.Region) string {
	if r.Code != "" {
		return r.Code
	}
	return atlas.RegionCode(r.Key)
}

// fitView zooms so the whole region fits the pane, centered.
func (m *model) fitView() {
	b := m.mapBounds()
	dim := m.region().Dimensions
	if dim[0] <= 0 || dim[1] <= 0 {
		m.view = mapView{scale: 1}
		return
	}
	w, h := float64(b.Width()), float64(b.Height())
	scale := math.Max(dim[0]/w, dim[1]/(h*cellAspect))
	m.view = mapView{
		scale: scale,
		panX:  (dim[0] - w*scale) / 2,
		panY:  (dim[1] - h*scale*cellAspect) / 2,
	}
}

// zoom scales the view around the pane center.
func (m *model) zoom(factor float64) {
	b := m.mapBounds()
	cx := m.view.panX + float64(b.Width())*m.view.scale/2
	cy := m.view.panY + float64(b.Height())*m.view.scale*cellAspect/2
	m.view.scale = math.Max(m.view.scale/factor, 0.01)
	m.view.panX = cx - float64(b.Width())*m.view.scale/2
	m.view.panY = cy - float64(b.Height())*m.view.scale*cellAspect/2
}

// project maps a region pixel to a viewport cell.
func (m *model) project(x, y float64) selection.Point {
	b := m.mapBounds()
	return selection.Point{
		X: b.Left + int(math.Floor((x-m.view.panX)/m.view.scale)),
		Y: b.Top + int(math.Floor((y-m.view.panY)/(m.view.scale*cellAspect))),
	}
}

// unproject maps a viewport cell to the region pixel at its center.
func (m *model) unproject(p selection.Point) [2]float64 {
	b := m.mapBounds()
	return [2]float64{
		m.view.panX + (float64(p.X-b.Left)+0.5)*m.view.scale,
		m.view.panY + (float64(p.Y-b.Top)+0.5)*m.view.scale*cellAspect,
	}
}

func (m *model) projectMarker(mk atlas.Marker) selection.Point {
	return m.project(mk.Position[0], mk.Position[1])
}

func (m *model) visibility() markers.Visibility {
	region := m.region()
	return markers.Visibility{
		Filter:        m.actions.Filter,
		Record:        m.actions.Record,
		HideCollected: m.hideCollected,
		Subregion: func(id string) bool {
			for _, s := range region.Subregions {
				if s.ID == id {
					return true
				}
			}
			return false
		},
	}
}

// cursorPoint is the map cursor in viewport coordinates.
func (m *model) cursorPoint() selection.Point {
	b := m.mapBounds()
	return selection.Point{X: b.Left + m.cursorX, Y: b.Top + m.cursorY}
}

// markerAt returns the reachable marker drawn at viewport cell p.
func (m *model) markerAt(p selection.Point) (atlas.Marker, bool) {
	v := m.visibility()
	for _, mk := range m.data.RegionMarkers(m.region().Key) {
		if v.Reachable(mk) && m.projectMarker(mk) == p {
			return mk, true
		}
	}
	return atlas.Marker{}, false
}

func (m *model) linkAt(p selection.Point) (links.Link, bool) {
	pt := m.unproject(p)
	return m.links.At(m.regionCode(), pt[0], pt[1])
}

// labelAt returns the label whose anchor is drawn at viewport cell p.
func (m *model) labelAt(p selection.Point) (labels.Label, bool) {
	for _, l := range m.labels.LabelsForRegion(m.regionCode()) {
		if m.project(l.Point[0], l.Point[1]) == p {
			return l, true
		}
	}
	return labels.Label{}, false
}

// labelName is the localized text of a label.
func (m *model) labelName(l labels.Label) string {
	base := "region." + l.Region + ".sub."
	var key string
	switch {
	case l.Type == labels.KindSub:
		key = base + l.Sub + ".name"
	case l.Sub == labels.RootSub:
		key = base + "site." + l.Site
	default:
		key = base + l.Sub + ".site." + l.Site
	}
	return m.tr.Or(key, l.ID)
}

// renderMap draws the map pane. Coordinates in the grid are pane-local.
func (m *model) renderMap(withCursor bool) *grid {
	b := m.mapBounds()
	g := newGrid(b.Width(), b.Height())
	local := func(p selection.Point) selection.Point {
		return selection.Point{X: p.X - b.Left, Y: p.Y - b.Top}
	}
	localRect := func(r selection.Rect) selection.Rect {
		return r.Translate(-b.Left, -b.Top)
	}

	region := m.region()
	for _, s := range region.Subregions {
		a := local(m.project(s.Bounds[0][0], s.Bounds[0][1]))
		c := local(m.project(s.Bounds[1][0], s.Bounds[1][1]))
		r := selection.RectFrom(a, c)
		g.outline(r, cellSubregion)
		name := s.Name
		if name == "" {
			name = s.ID
		}
		g.text(r.Left+1, r.Top, " "+name+" ", cellSubregion)
	}

	for _, l := range m.links.LinksForRegion(m.regionCode()) {
		a := local(m.project(l.Bounds[0][0], l.Bounds[0][1]))
		c := local(m.project(l.Bounds[1][0], l.Bounds[1][1]))
		g.outline(selection.RectFrom(a, c), cellLink)
	}

	v := m.visibility()
	for _, mk := range m.data.RegionMarkers(region.Key) {
		if !v.Reachable(mk) {
			continue
		}
		p := local(m.projectMarker(mk))
		if m.actions.Record.Has(mk.ID) {
			g.set(p.X, p.Y, '○', cellCollected)
		} else {
			g.set(p.X, p.Y, '●', cellMarker)
		}
	}

	for _, d := range m.drafts.Region(region.Key) {
		p := local(m.projectMarker(d))
		g.set(p.X, p.Y, '◆', cellDraft)
	}

	for _, l := range m.labels.LabelsForRegion(m.regionCode()) {
		p := local(m.project(l.Point[0], l.Point[1]))
		name := m.labelName(l)
		g.text(p.X-cellWidth.StringWidth(name)/2, p.Y, name, cellLabel)
	}

	if m.lasso.Active() {
		g.outline(localRect(m.lasso.Rect()), cellSelection)
	}
	if m.linkStart != nil {
		sq := links.SquareBounds(*m.linkStart, m.linkCurrent)
		a := local(m.project(sq[0][0], sq[0][1]))
		c := local(m.project(sq[1][0], sq[1][1]))
		g.outline(selection.RectFrom(a, c), cellSelection)
	}
	if withCursor && m.focus == FocusMap {
		g.set(m.cursorX, m.cursorY, '█', cellCursor)
	}
	return g
}
