package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.atlas.yaml",               // project-specific config (highest priority)
	"~/.config/atlas/config.yaml", // user config
	"/etc/atlas/config.yaml",      // system config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	rcPath      string
	getenv      func(string) string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		rcPath:      "~/" + RCFile,
		getenv:      os.Getenv,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.atlas.yaml
// 4. ~/.config/atlas/config.yaml
// 5. /etc/atlas/config.yaml
// 6. ~/.atlasrc
// 7. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if l.rcPath != "" {
		if err := applyRCFile(config, ExpandPath(l.rcPath)); err != nil {
			return nil, err
		}
	}

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("load config from %s: %w", customPath, err)
		}
	} else {
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := ExpandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := loadFromFile(config, path); err != nil {
				return nil, fmt.Errorf("load config from %s: %w", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// loadFromFile decodes a YAML file over config. Keys absent from the file
// keep their current value.
func loadFromFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}
	return nil
}

func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		"ATLAS_DATA_DIR": func(v string) error { config.DataDir = v; return nil },
		"ATLAS_LOCALE":   func(v string) error { config.Locale = v; return nil },
		"ATLAS_DATABASE": func(v string) error { config.Database = v; return nil },
		"ATLAS_LOG_FILE": func(v string) error { config.LogFile = v; return nil },
		"ATLAS_VERBOSE":  func(v string) error { return parseBool(v, &config.Verbose) },
		"ATLAS_REGION":   func(v string) error { config.Region = v; return nil },

		"ATLAS_HISTORY_LIMIT":            func(v string) error { return parseInt(v, &config.History.Limit) },
		"ATLAS_HISTORY_ANNOTATION_LIMIT": func(v string) error { return parseInt(v, &config.History.AnnotationLimit) },
		"ATLAS_SELECTION_THRESHOLD":      func(v string) error { return parseInt(v, &config.Selection.Threshold) },

		"ATLAS_OVERLAYS_LABELS": func(v string) error { config.Overlays.Labels = v; return nil },
		"ATLAS_OVERLAYS_LINKS":  func(v string) error { config.Overlays.Links = v; return nil },
		"ATLAS_OVERLAYS_WATCH":  func(v string) error { return parseBool(v, &config.Overlays.Watch) },

		"ATLAS_EXPORT_SAVE_DIRECTORY": func(v string) error { config.Export.SaveDirectory = v; return nil },
		"ATLAS_EXPORT_CONFIRMATIONS":  func(v string) error { return parseBool(v, &config.Export.Confirmations) },
	}

	for envVar, setter := range envMappings {
		if value := l.getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}
	return nil
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}
	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}
	return nil
}

// ExpandPath expands a leading ~ to the home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func parseInt(value string, target *int) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*target = v
	return nil
}

func parseBool(value string, target *bool) error {
	v, err := strconv.ParseBool(value)
	if err != nil {
		return err
	}
	*target = v
	return nil
}
