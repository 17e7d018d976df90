package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 25, cfg.History.Limit)
	assert.Equal(t, 50, cfg.History.AnnotationLimit)
	assert.Equal(t, 0, cfg.Selection.Threshold)
	assert.True(t, cfg.Overlays.Watch)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"no data dir", func(c *Config) { c.DataDir = "" }, "data_dir must be set"},
		{"zero history", func(c *Config) { c.History.Limit = 0 }, "history.limit must be greater than 0"},
		{"zero annotation history", func(c *Config) { c.History.AnnotationLimit = -1 }, "history.annotation_limit must be greater than 0"},
		{"negative threshold", func(c *Config) { c.Selection.Threshold = -1 }, "selection.threshold must be non-negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.EqualError(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func testLoader(t *testing.T, env map[string]string, paths ...string) *Loader {
	t.Helper()
	return &Loader{
		configPaths: paths,
		getenv:      func(k string) string { return env[k] },
	}
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	project := writeFile(t, dir, "project.yaml", "history:\n  limit: 10\n")
	system := writeFile(t, dir, "system.yaml", "history:\n  limit: 99\n  annotation_limit: 7\nregion: Wuling\n")

	l := testLoader(t, map[string]string{"ATLAS_REGION": "Dijiang"}, project, filepath.Join(dir, "absent.yaml"), system)
	cfg, err := l.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.History.Limit, "project beats system")
	assert.Equal(t, 7, cfg.History.AnnotationLimit, "system fills what project leaves out")
	assert.Equal(t, "Dijiang", cfg.Region, "env beats files")
	assert.Equal(t, "./data", cfg.DataDir)
}

func TestLoadConfigCustomPath(t *testing.T) {
	dir := t.TempDir()
	custom := writeFile(t, dir, "atlas.yml", "selection:\n  threshold: 4\n")

	cfg, err := testLoader(t, nil).LoadConfig(custom)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Selection.Threshold)

	_, err = testLoader(t, nil).LoadConfig(writeFile(t, dir, "atlas.toml", ""))
	assert.ErrorContains(t, err, "extension")

	_, err = testLoader(t, nil).LoadConfig(writeFile(t, dir, "bad.yaml", "history: [\n"))
	assert.ErrorContains(t, err, "parse YAML")

	_, err = testLoader(t, nil).LoadConfig(writeFile(t, dir, "invalid.yaml", "history:\n  limit: 0\n"))
	assert.ErrorContains(t, err, "validation failed")
}

func TestLoadConfigEnvErrors(t *testing.T) {
	_, err := testLoader(t, map[string]string{"ATLAS_HISTORY_LIMIT": "lots"}).LoadConfig("")
	assert.ErrorContains(t, err, "ATLAS_HISTORY_LIMIT")

	cfg, err := testLoader(t, map[string]string{
		"ATLAS_VERBOSE":        "true",
		"ATLAS_OVERLAYS_WATCH": "false",
	}).LoadConfig("")
	require.NoError(t, err)
	assert.True(t, cfg.Verbose)
	assert.False(t, cfg.Overlays.Watch)
}

func TestRCFile(t *testing.T) {
	dir := t.TempDir()
	rc := writeFile(t, dir, RCFile, `# atlas settings
savedir = `+filepath.Join(dir, "exports")+`
start_menu = false
confirm = FALSE
nonsense line
lang = en
unknown = 1
`)
	l := testLoader(t, nil)
	l.rcPath = rc
	cfg, err := l.LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "exports"), cfg.Export.SaveDirectory)
	assert.False(t, cfg.Export.ShowHelp)
	assert.False(t, cfg.Export.Confirmations)
	assert.Equal(t, "en", cfg.Locale)

	assert.Equal(t, filepath.Join(dir, "exports", "map.png"), cfg.SavePath("map.png"))
	assert.DirExists(t, filepath.Join(dir, "exports"))

	l.rcPath = filepath.Join(dir, "missing")
	_, err = l.LoadConfig("")
	assert.NoError(t, err)
}

func TestSavePathWithoutDirectory(t *testing.T) {
	assert.Equal(t, "map.png", DefaultConfig().SavePath("map.png"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".atlasrc"), ExpandPath("~/.atlasrc"))
	assert.Equal(t, "./x", ExpandPath("./x"))
	assert.Equal(t, "/etc/atlas/config.yaml", ExpandPath("/etc/atlas/config.yaml"))
}
