// Package config loads the atlas configuration from layered YAML files,
// the ~/.atlasrc file and ATLAS_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config holds the complete application configuration
type Config struct {
	DataDir  string `yaml:"data_dir" json:"data_dir"` // regions.yaml, types.json, markers/
	Locale   string `yaml:"locale" json:"locale"`     // language tag; empty negotiates from $LANG
	Database string `yaml:"database" json:"database"` // sqlite file holding user state
	LogFile  string `yaml:"log_file" json:"log_file"` // zap output; the TUI owns the terminal
	Verbose  bool   `yaml:"verbose" json:"verbose"`   // debug logging
	Region   string `yaml:"region" json:"region"`     // region shown on start; empty uses the dataset default

	History   HistoryConfig   `yaml:"history" json:"history"`
	Selection SelectionConfig `yaml:"selection" json:"selection"`
	Overlays  OverlayConfig   `yaml:"overlays" json:"overlays"`
	Export    ExportConfig    `yaml:"export" json:"export"`
}

// HistoryConfig bounds the undo histories
type HistoryConfig struct {
	Limit           int `yaml:"limit" json:"limit"`                       // marker/filter actions
	AnnotationLimit int `yaml:"annotation_limit" json:"annotation_limit"` // label and link edits
}

// SelectionConfig tunes the box selection gesture
type SelectionConfig struct {
	// Threshold is the squared pointer travel, in cells, before a press
	// becomes a box selection.
	Threshold int `yaml:"threshold" json:"threshold"`
}

// OverlayConfig names label/link documents that are merged on start and
// re-merged whenever they change on disk
type OverlayConfig struct {
	Labels string `yaml:"labels" json:"labels"`
	Links  string `yaml:"links" json:"links"`
	Watch  bool   `yaml:"watch" json:"watch"`
}

// ExportConfig configures PNG/TXT export and clipboard prompts
type ExportConfig struct {
	SaveDirectory string `yaml:"save_directory" json:"save_directory"`
	Confirmations bool   `yaml:"confirmations" json:"confirmations"`
	ShowHelp      bool   `yaml:"show_help" json:"show_help"` // help panel open on start
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		DataDir:  "./data",
		Database: "~/.local/share/atlas/atlas.db",
		LogFile:  "~/.cache/atlas/atlas.log",
		History: HistoryConfig{
			Limit:           25,
			AnnotationLimit: 50,
		},
		Selection: SelectionConfig{
			Threshold: 0,
		},
		Overlays: OverlayConfig{
			Watch: true,
		},
		Export: ExportConfig{
			Confirmations: true,
			ShowHelp:      true,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must be set")
	}
	if c.History.Limit < 1 {
		return fmt.Errorf("history.limit must be greater than 0")
	}
	if c.History.AnnotationLimit < 1 {
		return fmt.Errorf("history.annotation_limit must be greater than 0")
	}
	if c.Selection.Threshold < 0 {
		return fmt.Errorf("selection.threshold must be non-negative")
	}
	return nil
}

// SavePath joins filename onto the export directory, creating it if needed.
func (c *Config) SavePath(filename string) string {
	if c.Export.SaveDirectory == "" {
		return filename
	}
	dir := ExpandPath(c.Export.SaveDirectory)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return filename
	}
	return filepath.Join(dir, filename)
}
