package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeLabelTool
	ModeLinkTool
	ModeMarkTool
	ModeLinkConfig
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpSavePNG FileOperation = iota
	FileOpSaveVisualTXT
)

type ConfirmAction int

const (
	ConfirmQuit ConfirmAction = iota
	ConfirmOverwriteFile
	ConfirmResetLabels
	ConfirmResetLinks
	ConfirmClearMarks
)

// Focus is the pane keyboard navigation acts on.
type Focus int

const (
	FocusSidebar Focus = iota
	FocusMap
)

// rowKind is the kind of a sidebar row.
type rowKind int

const (
	rowMain rowKind = iota
	rowSub
	rowType
)

const (
	sidebarWidth = 34
	drawerHeight = 2
	minMapWidth  = 20
	cellAspect   = 2.0 // terminal cells are about twice as tall as wide
	zoomStep     = 1.5
	minLassoSize = 2 // cells on either axis before a lasso counts
)
