package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"atlas/internal/atlas"
	"atlas/internal/labels"
	"atlas/internal/links"
	"atlas/internal/markers"
	"atlas/internal/selection"
	"atlas/internal/watch"
)

// overlayMsg carries a changed overlay document from the watcher.
type overlayMsg watch.Change

func newModel(a *app) model {
	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "type name"
	search.CharLimit = 64

	filename := textinput.New()
	filename.Prompt = "file: "
	filename.CharLimit = 255

	inputs := make([]textinput.Model, 4)
	for i, p := range []string{"left title: ", "left url: ", "right title: ", "right url: "} {
		inputs[i] = textinput.New()
		inputs[i].Prompt = p
		inputs[i].CharLimit = 512
	}

	m := model{
		app:        a,
		focus:      FocusSidebar,
		help:       a.cfg.Export.ShowHelp,
		keys:       defaultKeyMap(),
		helpUI:     help.New(),
		sidebar:    newSidebar(),
		pressedRow: -1,
		search:     search,
		filename:   filename,
		linkInputs: inputs,
	}
	m.engine = selection.New(a.actions.Filter,
		selection.WithThreshold(a.cfg.Selection.Threshold),
		selection.WithLogger(a.logger))
	m.engine.Attach(m.sidebar)

	for i, r := range a.data.Regions {
		if r.Key == a.cfg.Region || (a.cfg.Region == "" && r.Key == a.data.DefaultRegion) {
			m.regionIndex = i
		}
	}
	m.refreshSidebar()
	return m
}

func (m model) Init() tea.Cmd {
	return m.waitForOverlay()
}

// waitForOverlay blocks on the next overlay change.
func (m model) waitForOverlay() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	ch := m.watcher.Changes()
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return overlayMsg(c)
	}
}

// layout sizes the panes after a resize.
func (m *model) layout() {
	m.sidebar.top = 1
	m.sidebar.height = max(0, m.height-2-drawerHeight)
	m.sidebar.clampCursor()
	m.helpUI.Width = m.width
	m.fitView()
	m.ensureCursorInBounds()
}

// refreshSidebar rebuilds the filter rows from the current filter, search
// and record.
func (m *model) refreshSidebar() {
	counts := m.data.RegionCounts(m.region().Key, m.actions.Record.Has)
	m.sidebar.rebuild(m.data.TypeTree(), m.tr, m.search.Value(), func(typeKey string) atlas.Count {
		return counts[typeKey]
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case overlayMsg:
		m.applyOverlay(watch.Change(msg))
		return m, m.waitForOverlay()

	case tea.MouseMsg:
		if m.help {
			return m, nil
		}
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		if m.help {
			return m.updateHelp(msg)
		}
		switch m.mode {
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeFileInput:
			return m.updateFileInput(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		case ModeLinkConfig:
			return m.updateLinkConfig(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel), msg.String() == "q":
		m.help = false
		m.helpScroll = 0
	case key.Matches(msg, m.keys.Down):
		m.helpScroll++
	case key.Matches(msg, m.keys.Up):
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	m.successMessage = ""
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		if msg.String() == "ctrl+c" || !m.cfg.Export.Confirmations {
			return m, tea.Quit
		}
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit

	case key.Matches(msg, k.Cancel):
		m.cancelGesture()
		if m.inTool() {
			m.mode = ModeNormal
		}

	case key.Matches(msg, k.Help):
		m.help = true

	case key.Matches(msg, k.Undo):
		m.undo()
	case key.Matches(msg, k.Redo):
		m.redo()

	case key.Matches(msg, k.Region):
		if len(m.data.Regions) > 0 {
			m.cancelGesture()
			m.regionIndex = (m.regionIndex + 1) % len(m.data.Regions)
			m.placeIndex = 0
			m.fitView()
			m.refreshSidebar()
		}
	case key.Matches(msg, k.Focus):
		if m.focus == FocusSidebar {
			m.focus = FocusMap
		} else {
			m.focus = FocusSidebar
		}

	case key.Matches(msg, k.Up):
		m.handleNavigation(direction{0, -1}, m.getMoveSpeed(msg.String()))
	case key.Matches(msg, k.Down):
		m.handleNavigation(direction{0, 1}, m.getMoveSpeed(msg.String()))
	case key.Matches(msg, k.Left):
		m.handleNavigation(direction{-1, 0}, m.getMoveSpeed(msg.String()))
	case key.Matches(msg, k.Right):
		m.handleNavigation(direction{1, 0}, m.getMoveSpeed(msg.String()))

	case key.Matches(msg, k.ZoomIn):
		m.zoom(zoomStep)
	case key.Matches(msg, k.ZoomOut):
		m.zoom(1 / zoomStep)
	case key.Matches(msg, k.ZoomFit):
		m.fitView()

	case key.Matches(msg, k.Toggle):
		m.activate()

	case key.Matches(msg, k.Search):
		m.mode = ModeSearch
		m.focus = FocusSidebar
		return m, m.search.Focus()

	case key.Matches(msg, k.HideCollected):
		m.hideCollected = !m.hideCollected

	case key.Matches(msg, k.Export):
		m.exportData()
	case key.Matches(msg, k.Import):
		m.importData()

	case key.Matches(msg, k.PNG):
		return m, m.startFileInput(FileOpSavePNG, "atlas.png")
	case key.Matches(msg, k.TXT):
		return m, m.startFileInput(FileOpSaveVisualTXT, "atlas.txt")

	case key.Matches(msg, k.LabelTool):
		m.cancelGesture()
		if m.mode == ModeLabelTool {
			m.mode = ModeNormal
		} else {
			m.mode = ModeLabelTool
			m.focus = FocusMap
			m.placeIndex = 0
		}
	case key.Matches(msg, k.LinkTool):
		m.cancelGesture()
		if m.mode == ModeLinkTool {
			m.mode = ModeNormal
		} else {
			m.mode = ModeLinkTool
			m.focus = FocusMap
		}

	case key.Matches(msg, k.MarkTool):
		m.cancelGesture()
		if m.mode == ModeMarkTool {
			m.mode = ModeNormal
		} else {
			m.mode = ModeMarkTool
			m.focus = FocusMap
		}

	case m.inTool():
		return m.updateTool(msg)

	case key.Matches(msg, k.ToggleGroup):
		m.toggleGroupTypes()
	case key.Matches(msg, k.ClearMarks):
		if len(m.actions.Record.Points()) == 0 {
			m.errorMessage = "Nothing is marked"
			return m, nil
		}
		m.confirmAction = ConfirmClearMarks
		if !m.cfg.Export.Confirmations {
			m.confirm()
			return m, nil
		}
		m.mode = ModeConfirm
	}
	return m, nil
}

// inTool reports whether an authoring tool with its own history is open.
func (m *model) inTool() bool {
	return m.mode == ModeLabelTool || m.mode == ModeLinkTool || m.mode == ModeMarkTool
}

// toggleGroupTypes flips the shown types of the category under the sidebar
// cursor as one step: all of them off when all are on, otherwise the ones
// that are off.
func (m *model) toggleGroupTypes() {
	if m.sidebar.cursor < 0 || m.sidebar.cursor >= len(m.sidebar.rows) {
		return
	}
	keys := m.sidebar.groupTypes(m.sidebar.cursor)
	var off []string
	for _, k := range keys {
		if !m.actions.Filter.Active(k) {
			off = append(off, k)
		}
	}
	if len(off) > 0 {
		keys = off
	}
	m.actions.BatchToggleFilter(keys)
	m.refreshSidebar()
}

// updateTool handles the keys only the authoring tools bind.
func (m model) updateTool(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.ToolUndo):
		m.undo()
	case key.Matches(msg, k.ToolRedo):
		m.redo()

	case m.mode == ModeMarkTool && key.Matches(msg, k.Reset):
		if m.drafts.Clear(m.region().Key) {
			m.successMessage = "Cleared the drafts of this region"
		}
	case m.mode == ModeMarkTool && key.Matches(msg, k.Remove):
		if d, ok := m.draftAt(m.cursorPoint()); ok && m.drafts.Remove(m.region().Key, d.ID) {
			m.successMessage = fmt.Sprintf("Removed draft %s", d.ID)
			return m, nil
		}
		m.errorMessage = "No draft under cursor"
	case m.mode == ModeMarkTool && key.Matches(msg, k.SaveDrafts):
		m.saveDrafts()

	case key.Matches(msg, k.Reset):
		if m.mode == ModeLabelTool {
			m.confirmAction = ConfirmResetLabels
		} else {
			m.confirmAction = ConfirmResetLinks
		}
		if !m.cfg.Export.Confirmations {
			m.confirm()
			return m, nil
		}
		m.mode = ModeConfirm

	case key.Matches(msg, k.Remove):
		p := m.cursorPoint()
		if m.mode == ModeLabelTool {
			if l, ok := m.labelAt(p); ok && m.labels.Remove(l.Region, l.ID) {
				m.successMessage = fmt.Sprintf("Removed label %s", l.ID)
				return m, nil
			}
			m.errorMessage = "No label under cursor"
			return m, nil
		}
		if l, ok := m.linkAt(p); ok && m.links.Remove(l.Region, l.ID) {
			m.successMessage = fmt.Sprintf("Removed link %s", l.ID)
			return m, nil
		}
		m.errorMessage = "No link under cursor"

	case m.mode == ModeLabelTool && key.Matches(msg, k.PrevPlace):
		m.placeIndex--
		m.clampPlace()
	case m.mode == ModeLabelTool && key.Matches(msg, k.NextPlace):
		m.placeIndex++
		m.clampPlace()

	case m.mode == ModeLinkTool && key.Matches(msg, k.LinkConfig):
		return m, m.startLinkConfig()
	}
	return m, nil
}

// places lists the places of the current region that have no label yet.
func (m *model) places() []labels.Place {
	all := labels.PlaceIndex(m.tr.Regions(), m.regionCode())
	return labels.Unassigned(all, m.labels.Current())
}

func (m *model) clampPlace() {
	n := len(m.places())
	if n == 0 {
		m.placeIndex = 0
		return
	}
	m.placeIndex = (m.placeIndex%n + n) % n
}

// activate is the toggle key: it acts on whatever has focus.
func (m *model) activate() {
	if m.focus == FocusSidebar {
		if m.sidebar.cursor >= len(m.sidebar.rows) {
			return
		}
		row := m.sidebar.rows[m.sidebar.cursor]
		if row.kind == rowType {
			m.actions.SwitchFilter(row.key)
		} else {
			m.sidebar.toggleGroup(row.group)
			m.refreshSidebar()
		}
		return
	}

	p := m.cursorPoint()
	switch m.mode {
	case ModeLabelTool:
		m.placeLabel(p)
	case ModeMarkTool:
		m.toggleDraft(p)
	case ModeLinkTool:
		if m.linkStart == nil {
			start := m.unproject(p)
			m.linkStart = &start
			m.linkCurrent = start
			m.successMessage = "Move to the opposite corner and press enter"
			return
		}
		m.finishLink(*m.linkStart, m.unproject(p))
	default:
		m.clickMap(p)
	}
}

func (m *model) placeLabel(p selection.Point) {
	ps := m.places()
	if len(ps) == 0 {
		m.errorMessage = "Every place in this region has a label"
		return
	}
	m.clampPlace()
	place := ps[m.placeIndex]
	m.labels.Upsert(place.Label(m.unproject(p)))
	m.successMessage = fmt.Sprintf("Placed %s", place.Name)
	m.clampPlace()
}

func (m *model) finishLink(a, b [2]float64) {
	m.linkStart = nil
	l := m.links.Add(m.regionCode(), a, b)
	m.successMessage = fmt.Sprintf("Added link %s", l.ID)
}

// clickMap toggles the marker at p or describes the link under it.
func (m *model) clickMap(p selection.Point) {
	if mk, ok := m.markerAt(p); ok {
		m.actions.ToggleMark(mk.ID)
		m.refreshSidebar()
		if m.actions.Record.Has(mk.ID) {
			m.successMessage = fmt.Sprintf("Marked %s", m.tr.TypeName(mk.Type))
		} else {
			m.successMessage = fmt.Sprintf("Unmarked %s", m.tr.TypeName(mk.Type))
		}
		return
	}
	if l, ok := m.linkAt(p); ok {
		cfg := m.links.Config()
		m.successMessage = fmt.Sprintf("%s: %s (%s) | %s (%s)", l.ID,
			m.tr.Or(cfg.Left.TitleKey, cfg.Left.TitleKey), cfg.Left.URL,
			m.tr.Or(cfg.Right.TitleKey, cfg.Right.TitleKey), cfg.Right.URL)
	}
}

// cancelGesture drops any pointer gesture in progress. A box selection
// keeps what it applied so far.
func (m *model) cancelGesture() {
	if m.engine.Tracking() {
		if res := m.engine.Cancel(); res.Selected {
			m.actions.CommitSelection(res)
			m.refreshSidebar()
		}
	}
	m.lasso.Cancel()
	m.linkStart = nil
	m.mapPress = nil
	m.pressedRow = -1
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	p := selection.Point{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.wheel(p, -1)
		case tea.MouseButtonWheelDown:
			m.wheel(p, 1)
		case tea.MouseButtonLeft:
			m.pointerDown(msg, p)
		}
	case tea.MouseActionMotion:
		m.pointerMove(p)
	case tea.MouseActionRelease:
		m.pointerUp(p)
	}
}

func (m *model) wheel(p selection.Point, delta int) {
	if m.sidebar.Bounds().Contains(p) {
		m.sidebar.scrollBy(delta * 3)
		return
	}
	if m.mapBounds().Contains(p) {
		if delta < 0 {
			m.zoom(zoomStep)
		} else {
			m.zoom(1 / zoomStep)
		}
	}
}

func (m *model) pointerDown(msg tea.MouseMsg, p selection.Point) {
	m.errorMessage = ""
	m.successMessage = ""
	// A press while a gesture is still open means its release was lost.
	if m.engine.Tracking() || m.lasso.Active() {
		m.cancelGesture()
	}

	if m.sidebar.Bounds().Contains(p) {
		m.focus = FocusSidebar
		if m.sidebar.inDrawer(p.Y) {
			if p.Y == m.sidebar.top+m.sidebar.height {
				m.hideCollected = !m.hideCollected
			}
			return
		}
		row, onRow := m.sidebar.rowAt(p.Y)
		target := m.sidebar.target(p.Y)
		if target.Interactive {
			m.sidebar.cursor = row
			m.sidebar.toggleGroup(m.sidebar.rows[row].group)
			m.refreshSidebar()
			return
		}
		m.pressedRow = -1
		if onRow {
			m.pressedRow = row
			m.sidebar.cursor = row
		}
		m.engine.PointerDown(selection.PointerEvent{X: p.X, Y: p.Y, Button: selection.ButtonPrimary, Target: target})
		return
	}

	b := m.mapBounds()
	if !b.Contains(p) {
		return
	}
	m.focus = FocusMap
	m.cursorX, m.cursorY = p.X-b.Left, p.Y-b.Top
	switch {
	case msg.Ctrl:
		m.lasso.Begin(p, msg.Shift)
	case m.mode == ModeLinkTool:
		start := m.unproject(p)
		m.linkStart = &start
		m.linkCurrent = start
	default:
		m.mapPress = &p
	}
}

func (m *model) pointerMove(p selection.Point) {
	switch {
	case m.engine.Tracking():
		m.engine.PointerMove(selection.PointerEvent{X: p.X, Y: p.Y, Button: selection.ButtonPrimary})
	case m.lasso.Active():
		m.lasso.Move(m.clampToMap(p))
	case m.linkStart != nil:
		m.linkCurrent = m.unproject(m.clampToMap(p))
	}
}

func (m *model) pointerUp(p selection.Point) {
	switch {
	case m.engine.Tracking():
		res := m.engine.PointerUp()
		if res.Selected {
			if m.actions.CommitSelection(res) {
				m.successMessage = fmt.Sprintf("Box selection: %d filters", len(res.Final))
			}
		} else if m.pressedRow >= 0 && m.pressedRow < len(m.sidebar.rows) {
			if row := m.sidebar.rows[m.pressedRow]; row.kind == rowType {
				m.actions.SwitchFilter(row.key)
			}
		}
		m.pressedRow = -1
		m.refreshSidebar()

	case m.lasso.Active():
		m.lasso.Move(m.clampToMap(p))
		r, deselect, _ := m.lasso.End()
		if r.Width() < minLassoSize && r.Height() < minLassoSize {
			return
		}
		v := m.visibility()
		if deselect {
			v.HideCollected = false
		}
		ids := markers.InRect(m.data.RegionMarkers(m.region().Key), v, r, m.projectMarker)
		n := m.actions.MarkMany(ids, deselect)
		if deselect {
			m.successMessage = fmt.Sprintf("Unmarked %d markers", n)
		} else {
			m.successMessage = fmt.Sprintf("Marked %d markers", n)
		}
		m.refreshSidebar()

	case m.linkStart != nil:
		start := *m.linkStart
		end := m.unproject(m.clampToMap(p))
		if m.project(start[0], start[1]) == m.project(end[0], end[1]) {
			m.successMessage = "Move to the opposite corner and press enter"
			return
		}
		m.finishLink(start, end)

	case m.mapPress != nil:
		press := *m.mapPress
		m.mapPress = nil
		if press != p {
			return
		}
		switch m.mode {
		case ModeLabelTool:
			m.placeLabel(p)
		case ModeMarkTool:
			m.toggleDraft(p)
		default:
			m.clickMap(p)
		}
	}
}

func (m *model) clampToMap(p selection.Point) selection.Point {
	b := m.mapBounds()
	return selection.Point{
		X: max(b.Left, min(b.Right, p.X)),
		Y: max(b.Top, min(b.Bottom, p.Y)),
	}
}

func (m model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search.SetValue("")
		fallthrough
	case "enter":
		m.search.Blur()
		m.mode = ModeNormal
		m.actions.Filter.SetSearch(m.search.Value())
		m.refreshSidebar()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.actions.Filter.SetSearch(m.search.Value())
	m.refreshSidebar()
	return m, cmd
}

func (m *model) startFileInput(op FileOperation, suggested string) tea.Cmd {
	m.mode = ModeFileInput
	m.fileOp = op
	m.filename.SetValue(suggested)
	m.filename.CursorEnd()
	return m.filename.Focus()
}

func (m model) updateFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filename.Blur()
		m.mode = ModeNormal
		m.errorMessage = ""
		return m, nil
	case "enter":
		name := m.filename.Value()
		if name == "" {
			m.errorMessage = "Filename cannot be empty"
			return m, nil
		}
		name = withExtension(name, m.fileOp)
		m.filename.SetValue(name)
		path := m.cfg.SavePath(name)
		if _, err := os.Stat(path); err == nil && m.cfg.Export.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmOverwriteFile
			return m, nil
		}
		m.saveFile(path)
		return m, nil
	}
	var cmd tea.Cmd
	m.filename, cmd = m.filename.Update(msg)
	return m, cmd
}

func withExtension(name string, op FileOperation) string {
	ext := ".txt"
	if op == FileOpSavePNG {
		ext = ".png"
	}
	if filepath.Ext(name) == "" {
		return name + ext
	}
	return name
}

// saveFile runs the pending export and leaves file input mode on success.
func (m *model) saveFile(path string) {
	var err error
	switch m.fileOp {
	case FileOpSavePNG:
		err = m.exportPNG(path)
	case FileOpSaveVisualTXT:
		err = m.exportVisualTXT(path)
	}
	if err != nil {
		m.logger.Warn("export failed", zap.String("path", path), zap.Error(err))
		if errors.Is(err, ErrNothingToExport) {
			m.errorMessage = "Nothing to export"
		} else {
			m.errorMessage = err.Error()
		}
		m.mode = ModeFileInput
		return
	}
	m.filename.Blur()
	m.mode = ModeNormal
	m.errorMessage = ""
	m.successMessage = fmt.Sprintf("Saved %s", path)
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.confirmAction == ConfirmQuit {
			return m, tea.Quit
		}
		m.confirm()
	case "n", "N", "esc":
		switch m.confirmAction {
		case ConfirmOverwriteFile:
			m.mode = ModeFileInput
		case ConfirmResetLabels:
			m.mode = ModeLabelTool
		case ConfirmResetLinks:
			m.mode = ModeLinkTool
		default:
			m.mode = ModeNormal
		}
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// confirm carries out the pending confirmable action.
func (m *model) confirm() {
	switch m.confirmAction {
	case ConfirmOverwriteFile:
		m.saveFile(m.cfg.SavePath(m.filename.Value()))
	case ConfirmResetLabels:
		m.labels.ResetToBase()
		m.mode = ModeLabelTool
		m.successMessage = "Labels reset to shipped data"
	case ConfirmResetLinks:
		m.links.ResetToBase()
		m.mode = ModeLinkTool
		m.successMessage = "Links reset to shipped data"
	case ConfirmClearMarks:
		n := m.actions.ClearMarks()
		m.mode = ModeNormal
		m.successMessage = fmt.Sprintf("Cleared %d marks", n)
		m.refreshSidebar()
	}
}

func (m *model) startLinkConfig() tea.Cmd {
	cfg := m.links.Config()
	for i, v := range []string{cfg.Left.TitleKey, cfg.Left.URL, cfg.Right.TitleKey, cfg.Right.URL} {
		m.linkInputs[i].SetValue(v)
		m.linkInputs[i].Blur()
	}
	m.linkFocus = 0
	m.mode = ModeLinkConfig
	return m.linkInputs[0].Focus()
}

func (m model) updateLinkConfig(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeLinkTool
		return m, nil
	case "enter":
		v := func(i int) string { return m.linkInputs[i].Value() }
		m.links.UpdateConfig(links.Config{
			Left:  links.Target{TitleKey: v(0), URL: v(1)},
			Right: links.Target{TitleKey: v(2), URL: v(3)},
		})
		m.mode = ModeLinkTool
		m.successMessage = "Link targets updated"
		return m, nil
	case "tab", "down", "shift+tab", "up":
		step := 1
		if msg.String() == "shift+tab" || msg.String() == "up" {
			step = len(m.linkInputs) - 1
		}
		m.linkInputs[m.linkFocus].Blur()
		m.linkFocus = (m.linkFocus + step) % len(m.linkInputs)
		return m, m.linkInputs[m.linkFocus].Focus()
	}
	var cmd tea.Cmd
	m.linkInputs[m.linkFocus], cmd = m.linkInputs[m.linkFocus].Update(msg)
	return m, cmd
}

// applyOverlay merges a changed overlay document into its store.
func (m *model) applyOverlay(c watch.Change) {
	if c.Err != nil {
		m.logger.Warn("read overlay", zap.String("path", c.Path), zap.Error(c.Err))
		return
	}
	var ok bool
	switch c.Path {
	case absPath(m.cfg.Overlays.Labels):
		ok = m.labels.ImportMerge(c.Text)
	case absPath(m.cfg.Overlays.Links):
		ok = m.links.ImportMerge(c.Text)
	default:
		return
	}
	if !ok {
		m.logger.Warn("overlay rejected", zap.String("path", c.Path))
		m.errorMessage = fmt.Sprintf("Ignored invalid overlay %s", filepath.Base(c.Path))
		return
	}
	m.logger.Info("overlay merged", zap.String("path", c.Path))
	m.successMessage = fmt.Sprintf("Merged %s", filepath.Base(c.Path))
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
