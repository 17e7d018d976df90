package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"atlas/internal/atlas"
	"atlas/internal/locale"
	"atlas/internal/selection"
)

// sidebar is the marker type filter list. It is the container box
// selection runs over: every type row is a selectable element keyed by its
// type key.
type sidebar struct {
	rows      []sidebarRow
	collapsed map[string]bool
	scroll    int
	cursor    int // index into rows
	top       int // viewport row of the first list line
	height    int // list lines, drawer excluded
	width     int
}

func newSidebar() *sidebar {
	return &sidebar{collapsed: make(map[string]bool), width: sidebarWidth}
}

// rebuild regenerates the rows from the type tree.
func (s *sidebar) rebuild(tree []atlas.TypeCategory, tr *locale.Translator, search string, count func(typeKey string) atlas.Count) {
	search = strings.ToLower(strings.TrimSpace(search))
	var cursorKey string
	if s.cursor >= 0 && s.cursor < len(s.rows) {
		cursorKey = s.rows[s.cursor].group + "|" + s.rows[s.cursor].key
	}

	s.rows = s.rows[:0]
	for _, cat := range tree {
		mainAt := len(s.rows)
		s.rows = append(s.rows, sidebarRow{
			kind:  rowMain,
			key:   cat.Main,
			group: cat.Main,
			label: tr.MainCategoryName(cat.Main),
		})
		mainShown := false
		for _, g := range cat.Groups {
			group := cat.Main + "/" + g.Sub
			subAt := len(s.rows)
			s.rows = append(s.rows, sidebarRow{
				kind:      rowSub,
				key:       g.Sub,
				group:     group,
				label:     tr.SubCategoryName(g.Sub),
				depth:     1,
				collapsed: s.collapsed[cat.Main],
			})
			subShown := false
			for _, t := range g.Types {
				name := tr.TypeName(t.Key)
				hidden := search != "" && !strings.Contains(strings.ToLower(name), search) &&
					!strings.Contains(strings.ToLower(t.Key), search)
				s.rows = append(s.rows, sidebarRow{
					kind:      rowType,
					key:       t.Key,
					group:     group,
					label:     name,
					depth:     2,
					collapsed: s.collapsed[cat.Main] || s.collapsed[group],
					hidden:    hidden,
					count:     count(t.Key),
				})
				subShown = subShown || !hidden
			}
			s.rows[subAt].hidden = !subShown
			mainShown = mainShown || subShown
		}
		s.rows[mainAt].hidden = !mainShown
	}

	s.cursor = 0
	for i, r := range s.rows {
		if r.group+"|"+r.key == cursorKey {
			s.cursor = i
			break
		}
	}
	s.clampCursor()
}

// groupTypes returns the keys of the visible type rows under row i: the
// row itself for a type, every type below it for a header.
func (s *sidebar) groupTypes(i int) []string {
	h := s.rows[i]
	if h.kind == rowType {
		return []string{h.key}
	}
	var keys []string
	for _, r := range s.rows {
		if r.kind != rowType || r.hidden {
			continue
		}
		if r.group == h.group || strings.HasPrefix(r.group, h.group+"/") {
			keys = append(keys, r.key)
		}
	}
	return keys
}

// shown reports whether row i takes a line in the list.
func (s *sidebar) shown(i int) bool {
	return !s.rows[i].hidden && !s.rows[i].collapsed
}

// lines returns the indices of the rows that take a line, in order.
func (s *sidebar) lines() []int {
	var out []int
	for i := range s.rows {
		if s.shown(i) {
			out = append(out, i)
		}
	}
	return out
}

// Bounds is the whole sidebar, drawer included.
func (s *sidebar) Bounds() selection.Rect {
	return selection.RectAt(0, s.top, s.width, s.height+drawerHeight)
}

// Elements reports every type row. Rows scrolled out of view keep their
// positions outside the list; rows of a closed group have no area.
func (s *sidebar) Elements() []selection.Element {
	line := make(map[int]int)
	for n, i := range s.lines() {
		line[i] = n
	}
	var out []selection.Element
	for i, r := range s.rows {
		if r.kind != rowType {
			continue
		}
		el := selection.Element{Key: r.key, Hidden: r.hidden, Collapsed: r.collapsed}
		if n, ok := line[i]; ok {
			el.Rect = selection.RectAt(0, s.top+n-s.scroll, s.width, 1)
		}
		out = append(out, el)
	}
	return out
}

// rowAt returns the row drawn at viewport row y.
func (s *sidebar) rowAt(y int) (int, bool) {
	if y < s.top || y >= s.top+s.height {
		return 0, false
	}
	ls := s.lines()
	n := y - s.top + s.scroll
	if n < 0 || n >= len(ls) {
		return 0, false
	}
	return ls[n], true
}

// inDrawer reports whether viewport row y is on the drawer strip.
func (s *sidebar) inDrawer(y int) bool {
	return y >= s.top+s.height && y < s.top+s.height+drawerHeight
}

// target classifies a press at viewport row y for the selection engine.
func (s *sidebar) target(y int) selection.Target {
	if s.inDrawer(y) {
		return selection.Target{Excluded: true}
	}
	if i, ok := s.rowAt(y); ok && s.rows[i].kind != rowType {
		return selection.Target{Interactive: true}
	}
	return selection.Target{}
}

func (s *sidebar) toggleGroup(group string) {
	s.collapsed[group] = !s.collapsed[group]
}

func (s *sidebar) moveCursor(delta int) {
	ls := s.lines()
	if len(ls) == 0 {
		return
	}
	pos := 0
	for n, i := range ls {
		if i == s.cursor {
			pos = n
			break
		}
	}
	pos = max(0, min(len(ls)-1, pos+delta))
	s.cursor = ls[pos]
	s.follow(pos)
}

func (s *sidebar) clampCursor() {
	ls := s.lines()
	if len(ls) == 0 {
		s.cursor, s.scroll = 0, 0
		return
	}
	for n, i := range ls {
		if i >= s.cursor {
			s.cursor = i
			s.follow(n)
			return
		}
	}
	s.cursor = ls[len(ls)-1]
	s.follow(len(ls) - 1)
}

// follow scrolls so that line n is visible.
func (s *sidebar) follow(n int) {
	if n < s.scroll {
		s.scroll = n
	}
	if s.height > 0 && n >= s.scroll+s.height {
		s.scroll = n - s.height + 1
	}
}

func (s *sidebar) scrollBy(delta int) {
	maxScroll := max(0, len(s.lines())-s.height)
	s.scroll = max(0, min(maxScroll, s.scroll+delta))
}

// render draws the list and the drawer, one string per viewport row. box is
// the drag rectangle in viewport coordinates, if one is showing.
func (s *sidebar) render(active func(key string) bool, focused bool, hideCollected bool, marked int, box *selection.Rect) []string {
	g := newGrid(s.width, s.height)
	ls := s.lines()
	for n := 0; n < s.height && s.scroll+n < len(ls); n++ {
		i := ls[s.scroll+n]
		text, class := s.renderRow(s.rows[i], active, focused && i == s.cursor)
		g.text(0, n, text+strings.Repeat(" ", max(0, s.width-lipgloss.Width(text))), class)
	}
	if box != nil {
		g.outline(box.Translate(0, -s.top), cellSelection)
	}

	out := make([]string, 0, s.height+drawerHeight)
	out = append(out, g.lines(true)[:s.height]...)

	toggle := "off"
	if hideCollected {
		toggle = "on"
	}
	out = append(out,
		drawerStyle.Width(s.width).Render(fit(" hide collected ["+toggle+"]", s.width)),
		drawerStyle.Width(s.width).Render(fit(fmt.Sprintf(" marked %d", marked), s.width)),
	)
	return out
}

func (s *sidebar) renderRow(r sidebarRow, active func(string) bool, cursor bool) (string, cellClass) {
	var text string
	var class cellClass
	switch r.kind {
	case rowMain, rowSub:
		arrow := "▾"
		if s.collapsed[r.group] {
			arrow = "▸"
		}
		text = strings.Repeat("  ", r.depth) + arrow + " " + r.label
		class = cellHeader
	case rowType:
		box := "[ ]"
		class = cellType
		if active(r.key) {
			box = "[x]"
			class = cellActiveType
		}
		counter := fmt.Sprintf("%d/%d", r.count.Collected, r.count.Total)
		left := strings.Repeat("  ", r.depth) + box + " " + r.label
		pad := s.width - lipgloss.Width(left) - lipgloss.Width(counter) - 1
		if pad < 1 {
			left = fit(left, s.width-lipgloss.Width(counter)-2)
			pad = 1
		}
		text = left + strings.Repeat(" ", pad) + counter
	}
	if cursor {
		class = cellRowCursor
	}
	return fit(text, s.width), class
}

// fit truncates s to at most w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r)) > w-1 {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
