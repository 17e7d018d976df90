package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RCFile is the plain key = value settings file kept in the home directory.
const RCFile = ".atlasrc"

// applyRCFile reads "key = value" lines from path. A missing file is not an
// error; unknown keys and malformed lines are skipped.
func applyRCFile(config *Config, path string) error {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			value = ExpandPath(value)
			if !filepath.IsAbs(value) {
				if absPath, err := filepath.Abs(value); err == nil {
					value = absPath
				}
			}
			config.Export.SaveDirectory = value
		case "startmenu", "start_menu", "showhelp", "show_help":
			config.Export.ShowHelp = strings.ToLower(value) == "true"
		case "confirmations", "confirm":
			config.Export.Confirmations = strings.ToLower(value) == "true"
		case "datadir", "data_dir":
			config.DataDir = ExpandPath(value)
		case "locale", "lang":
			config.Locale = value
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}
