package main

import "strings"

// direction is a unit step on the grid.
type direction struct{ dx, dy int }

func (m *model) handleNavigation(d direction, speed int) {
	if m.focus == FocusSidebar {
		m.sidebar.moveCursor(d.dy * speed)
		return
	}
	m.handleCursorMove(d, speed)
}

// handlePan shifts the view by whole cells.
func (m *model) handlePan(dx, dy int) {
	m.view.panX += float64(dx) * m.view.scale
	m.view.panY += float64(dy) * m.view.scale * cellAspect
}

// handleCursorMove moves the map cursor. Pushing past the pane edge pans
// the view instead.
func (m *model) handleCursorMove(d direction, speed int) {
	b := m.mapBounds()
	x := m.cursorX + d.dx*speed
	y := m.cursorY + d.dy*speed

	panX, panY := 0, 0
	switch {
	case x < 0:
		panX, x = x, 0
	case x >= b.Width():
		panX, x = x-b.Width()+1, b.Width()-1
	}
	switch {
	case y < 0:
		panY, y = y, 0
	case y >= b.Height():
		panY, y = y-b.Height()+1, b.Height()-1
	}
	if panX != 0 || panY != 0 {
		m.handlePan(panX, panY)
	}
	m.cursorX, m.cursorY = x, y
	if m.linkStart != nil {
		m.linkCurrent = m.unproject(m.cursorPoint())
	}
}

func (m *model) ensureCursorInBounds() {
	b := m.mapBounds()
	m.cursorX = max(0, min(b.Width()-1, m.cursorX))
	m.cursorY = max(0, min(b.Height()-1, m.cursorY))
}

func (m *model) getMoveSpeed(key string) int {
	if strings.HasPrefix(key, "shift+") {
		return 2
	}
	return 1
}
