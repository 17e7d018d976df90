package main

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"atlas/internal/atlas"
	"atlas/internal/config"
	"atlas/internal/drafts"
	"atlas/internal/labels"
	"atlas/internal/links"
	"atlas/internal/locale"
	"atlas/internal/markers"
	"atlas/internal/selection"
	"atlas/internal/watch"
)

// app bundles everything the model reads or edits. It is built once by
// the root command and shared by pointer.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	data    *atlas.Dataset
	tr      *locale.Translator
	actions *markers.Actions
	labels  *labels.Store
	links   *links.Store
	drafts  *drafts.Store
	watcher *watch.Watcher
}

type model struct {
	*app

	width      int
	height     int
	mode       Mode
	focus      Focus
	help       bool
	helpScroll int
	keys       keyMap
	helpUI     help.Model

	regionIndex int
	view        mapView
	cursorX     int // map-pane local cell
	cursorY     int

	sidebar       *sidebar
	engine        *selection.Engine
	pressedRow    int // sidebar row under the last press, -1 for none
	lasso         selection.Lasso
	mapPress      *selection.Point
	hideCollected bool

	search textinput.Model

	// label tool
	placeIndex int

	// link tool
	linkStart   *[2]float64
	linkCurrent [2]float64
	linkInputs  []textinput.Model
	linkFocus   int

	filename      textinput.Model
	fileOp        FileOperation
	confirmAction ConfirmAction

	errorMessage   string
	successMessage string
}

// mapView is the visible window onto the current region, in region pixels.
type mapView struct {
	panX, panY float64 // pixel at the top-left cell
	scale      float64 // pixels per cell column
}

// sidebarRow is one rendered line of the filter list.
type sidebarRow struct {
	kind  rowKind
	key   string // type key for rowType, category key otherwise
	group string // "main" or "main/sub" collapse key
	label string
	depth int
	// collapsed is set when an enclosing group is closed.
	collapsed bool
	hidden    bool
	count     atlas.Count
}
