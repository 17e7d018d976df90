package main

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Undo          key.Binding
	Redo          key.Binding
	Region        key.Binding
	Focus         key.Binding
	Up            key.Binding
	Down          key.Binding
	Left          key.Binding
	Right         key.Binding
	Toggle        key.Binding
	ZoomIn        key.Binding
	ZoomOut       key.Binding
	ZoomFit       key.Binding
	Search        key.Binding
	HideCollected key.Binding
	Export        key.Binding
	Import        key.Binding
	PNG           key.Binding
	TXT           key.Binding
	LabelTool     key.Binding
	LinkTool      key.Binding
	MarkTool      key.Binding
	SaveDrafts    key.Binding
	ToggleGroup   key.Binding
	ClearMarks    key.Binding
	Remove        key.Binding
	Reset         key.Binding
	ToolUndo      key.Binding
	ToolRedo      key.Binding
	LinkConfig    key.Binding
	PrevPlace     key.Binding
	NextPlace     key.Binding
	Help          key.Binding
	Cancel        key.Binding
	Quit          key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Undo:          key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo")),
		Redo:          key.NewBinding(key.WithKeys("ctrl+y", "ctrl+shift+z"), key.WithHelp("ctrl+y", "redo")),
		Region:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next region")),
		Focus:         key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "switch pane")),
		Up:            key.NewBinding(key.WithKeys("up", "k", "shift+up"), key.WithHelp("↑/k", "up")),
		Down:          key.NewBinding(key.WithKeys("down", "j", "shift+down"), key.WithHelp("↓/j", "down")),
		Left:          key.NewBinding(key.WithKeys("left", "h", "shift+left"), key.WithHelp("←/h", "left")),
		Right:         key.NewBinding(key.WithKeys("right", "l", "shift+right"), key.WithHelp("→/l", "right")),
		Toggle:        key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "toggle")),
		ZoomIn:        key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:       key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		ZoomFit:       key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "fit region")),
		Search:        key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search types")),
		HideCollected: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "hide collected")),
		Export:        key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "copy data")),
		Import:        key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "paste data")),
		PNG:           key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "export PNG")),
		TXT:           key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "export TXT")),
		LabelTool:     key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "label tool")),
		LinkTool:      key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "link tool")),
		MarkTool:      key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "mark tool")),
		SaveDrafts:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save drafts")),
		ToggleGroup:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle group")),
		ClearMarks:    key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "clear marks")),
		Remove:        key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		Reset:         key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset to base")),
		ToolUndo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "tool undo")),
		ToolRedo:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "tool redo")),
		LinkConfig:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit link targets")),
		PrevPlace:     key.NewBinding(key.WithKeys("["), key.WithHelp("[", "previous place")),
		NextPlace:     key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next place")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Cancel:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is shown in the status line.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Undo, k.Redo, k.Region, k.Search, k.Help, k.Quit}
}

// FullHelp is shown by the help screen, one column per group.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Focus, k.Region, k.ZoomIn, k.ZoomOut, k.ZoomFit},
		{k.Toggle, k.ToggleGroup, k.Search, k.HideCollected, k.ClearMarks, k.Undo, k.Redo, k.Export, k.Import, k.PNG, k.TXT},
		{k.LabelTool, k.PrevPlace, k.NextPlace, k.LinkTool, k.LinkConfig, k.MarkTool, k.SaveDrafts, k.Remove, k.Reset, k.ToolUndo, k.ToolRedo},
		{k.Help, k.Cancel, k.Quit},
	}
}
