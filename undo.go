package main

import "fmt"

// undo steps back in the history the current mode edits: the label, link
// or draft store inside their tools, the marker/filter history otherwise.
func (m *model) undo() {
	switch m.mode {
	case ModeLabelTool:
		if !m.labels.Undo() {
			m.errorMessage = "Nothing to undo"
			return
		}
		m.successMessage = "Label edit undone"
	case ModeLinkTool:
		if !m.links.Undo() {
			m.errorMessage = "Nothing to undo"
			return
		}
		m.successMessage = "Link edit undone"
	case ModeMarkTool:
		if !m.drafts.Undo() {
			m.errorMessage = "Nothing to undo"
			return
		}
		m.successMessage = "Draft edit undone"
	default:
		h := m.actions.History
		if !h.CanUndo() {
			m.errorMessage = "Nothing to undo"
			return
		}
		labels := h.Labels()
		h.Undo()
		m.successMessage = fmt.Sprintf("Undid: %s", labels[len(labels)-1])
		m.refreshSidebar()
	}
	m.errorMessage = ""
}

func (m *model) redo() {
	switch m.mode {
	case ModeLabelTool:
		if !m.labels.Redo() {
			m.errorMessage = "Nothing to redo"
			return
		}
		m.successMessage = "Label edit redone"
	case ModeLinkTool:
		if !m.links.Redo() {
			m.errorMessage = "Nothing to redo"
			return
		}
		m.successMessage = "Link edit redone"
	case ModeMarkTool:
		if !m.drafts.Redo() {
			m.errorMessage = "Nothing to redo"
			return
		}
		m.successMessage = "Draft edit redone"
	default:
		h := m.actions.History
		if !h.CanRedo() {
			m.errorMessage = "Nothing to redo"
			return
		}
		h.Redo()
		labels := h.Labels()
		m.successMessage = fmt.Sprintf("Redid: %s", labels[len(labels)-1])
		m.refreshSidebar()
	}
	m.errorMessage = ""
}
