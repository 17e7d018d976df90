package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	tabStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
	activeTabStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62")).Padding(0, 1)
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	typeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeTypeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	drawerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("236"))
	separatorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
	successStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
)

// cellClass picks the style of one map or sidebar cell.
type cellClass int

const (
	cellPlain cellClass = iota
	cellMarker
	cellCollected
	cellLabel
	cellLink
	cellSubregion
	cellSelection
	cellCursor
	cellDraft
	cellHeader
	cellType
	cellActiveType
	cellRowCursor
)

var cellStyles = map[cellClass]lipgloss.Style{
	cellMarker:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
	cellCollected: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	cellLabel:     lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
	cellLink:      lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
	cellSubregion: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	cellSelection: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
	cellCursor:    lipgloss.NewStyle().Foreground(lipgloss.Color("231")),
	cellDraft:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),

	cellHeader:     headerStyle,
	cellType:       typeStyle,
	cellActiveType: activeTypeStyle,
	cellRowCursor:  activeTypeStyle.Reverse(true),
}
