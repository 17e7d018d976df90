package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"atlas/internal/selection"
)

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.help {
		return m.helpView()
	}
	if m.width < sidebarWidth+1+minMapWidth || m.height < 4+drawerHeight {
		return "Terminal too small"
	}

	var result strings.Builder
	result.WriteString(m.renderRegionBar(m.width))
	result.WriteString("\n")

	side := m.sidebar.render(m.actions.Filter.Active, m.focus == FocusSidebar, m.hideCollected, len(m.actions.Record.Points()), m.selectionRect())
	pane := m.renderMap(true).lines(true)
	sep := separatorStyle.Render("│")
	for i := 0; i < m.height-2; i++ {
		var left, right string
		if i < len(side) {
			left = side[i]
		}
		if i < len(pane) {
			right = pane[i]
		}
		result.WriteString(left)
		result.WriteString(sep)
		result.WriteString(right)
		result.WriteString("\n")
	}

	result.WriteString(m.statusLine())
	return result.String()
}

// selectionRect is the box selection drag rectangle in viewport
// coordinates, or nil before the gesture passes its threshold.
func (m *model) selectionRect() *selection.Rect {
	box, ok := m.engine.SelectionBox()
	if !ok {
		return nil
	}
	b := m.sidebar.Bounds()
	r := box.Rect().Translate(b.Left, b.Top)
	return &r
}

// renderRegionBar lists the regions with the current one highlighted.
func (m *model) renderRegionBar(width int) string {
	var bar strings.Builder
	bar.WriteString(titleStyle.Render(" atlas "))
	for i, r := range m.data.Regions {
		name := m.tr.Or("region."+codeOf(r)+".name", r.Key)
		if i == m.regionIndex {
			bar.WriteString(activeTabStyle.Render(name))
		} else {
			bar.WriteString(tabStyle.Render(name))
		}
	}
	if m.inTool() {
		bar.WriteString(tabStyle.Render("| " + m.modeString()))
	}

	out := bar.String()
	if w := lipgloss.Width(out); w < width {
		out += strings.Repeat(" ", width-w)
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(out)
}

func (m model) statusLine() string {
	var status string
	switch m.mode {
	case ModeSearch:
		status = fmt.Sprintf("Mode: SEARCH | %s | Enter=keep, Esc=clear", m.search.View())
	case ModeFileInput:
		op := "Export TXT"
		if m.fileOp == FileOpSavePNG {
			op = "Export PNG"
		}
		status = fmt.Sprintf("Mode: FILE | %s %s | Enter=confirm, Esc=cancel", op, m.filename.View())
		if m.errorMessage != "" {
			status = fmt.Sprintf("Mode: FILE | ERROR: %s | %s %s | Enter=retry, Esc=cancel", m.errorMessage, op, m.filename.View())
		}
		return statusStyle.Render(fit(status, m.width))
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmQuit:
			message = "Quit atlas? (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.filename.Value())
		case ConfirmResetLabels:
			message = "Drop every label edit and return to the shipped labels? (y/n)"
		case ConfirmResetLinks:
			message = "Drop every link edit and return to the shipped links? (y/n)"
		case ConfirmClearMarks:
			message = fmt.Sprintf("Unmark all %d marked markers? (y/n)", len(m.actions.Record.Points()))
		}
		return statusStyle.Render(fit("Mode: CONFIRM | "+message, m.width))
	case ModeLinkConfig:
		status = fmt.Sprintf("Mode: LINK TARGETS | %s | Tab=next, Enter=save, Esc=cancel", m.linkInputs[m.linkFocus].View())
	case ModeLabelTool:
		ps := m.places()
		place := "no unlabeled places"
		if len(ps) > 0 {
			i := max(0, min(len(ps)-1, m.placeIndex))
			place = fmt.Sprintf("place %d/%d: %s", i+1, len(ps), ps[i].Name)
		}
		status = fmt.Sprintf("Mode: LABEL | %s | [/]=choose, Enter=place, x=remove", place)
	case ModeMarkTool:
		typeName := "no type selected"
		if typeKey, ok := m.draftType(); ok {
			typeName = m.tr.TypeName(typeKey)
		}
		status = fmt.Sprintf("Mode: MARK | %d drafts | type: %s | Enter=place/remove, R=clear, w=save",
			len(m.drafts.Region(m.region().Key)), typeName)
	case ModeLinkTool:
		status = fmt.Sprintf("Mode: LINK | %d links | drag or Enter twice=add, x=remove, e=targets",
			len(m.links.LinksForRegion(m.regionCode())))
	default:
		status = fmt.Sprintf("Mode: %s | Filters: %d | Undo: %d", m.modeString(),
			len(m.actions.Filter.Filter()), m.actions.History.UndoCount())
		if box, ok := m.engine.SelectionBox(); ok {
			r := box.Rect()
			status += fmt.Sprintf(" | Selecting %dx%d", r.Width(), r.Height())
		}
		if m.lasso.Active() {
			verb := "Marking"
			if m.lasso.Deselect() {
				verb = "Unmarking"
			}
			r := m.lasso.Rect()
			status += fmt.Sprintf(" | %s %dx%d", verb, r.Width(), r.Height())
		}
	}

	switch {
	case m.errorMessage != "":
		return errorStyle.Render(fit(status+" | ERROR: "+m.errorMessage, m.width))
	case m.successMessage != "":
		return successStyle.Render(fit(status+" | "+m.successMessage, m.width))
	case m.mode == ModeNormal:
		status += " | " + m.helpUI.ShortHelpView(m.keys.ShortHelp())
	}
	return statusStyle.Render(fit(status, m.width))
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModeSearch:
		return "SEARCH"
	case ModeLabelTool:
		return "LABEL"
	case ModeLinkTool:
		return "LINK"
	case ModeMarkTool:
		return "MARK"
	case ModeLinkConfig:
		return "LINK TARGETS"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

var helpSections = []string{"Navigation", "Filters and markers", "Label and link tools", "General"}

func (m model) helpView() string {
	helpLines := []string{
		"atlas help",
		"==========",
		"",
		"Mouse:",
		"------",
		"  click type row      Toggle one filter",
		"  drag over sidebar   Box select: flips every type the box touches",
		"  click marker        Mark or unmark it as collected",
		"  ctrl+drag on map    Mark every visible marker in the box",
		"  ctrl+shift+drag     Unmark every marker in the box",
		"  wheel               Scroll the filter list or zoom the map",
		"",
	}
	for i, group := range m.keys.FullHelp() {
		if i < len(helpSections) {
			helpLines = append(helpLines, helpSections[i]+":", strings.Repeat("-", len(helpSections[i])+1))
		}
		for _, b := range group {
			helpLines = append(helpLines, helpLine(b))
		}
		helpLines = append(helpLines, "")
	}

	visibleHeight := max(1, m.height-1)
	startLine := min(m.helpScroll, max(0, len(helpLines)-visibleHeight))
	endLine := min(len(helpLines), startLine+visibleHeight)

	result := strings.Join(helpLines[startLine:endLine], "\n")
	result += "\n" + fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		startLine+1, endLine, len(helpLines))
	return result
}

func helpLine(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("  %-18s  %s", h.Key, h.Desc)
}
