package locale

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNegotiate(t *testing.T) {
	supported := []language.Tag{language.MustParse("zh-TW"), language.English}

	tests := []struct {
		accept string
		want   language.Tag
	}{
		{"", DefaultTag},
		{"en-US,en;q=0.9", language.English},
		{"zh-Hant-TW", language.MustParse("zh-TW")},
		{"ja", DefaultTag},
		{";;;", DefaultTag},
	}
	for _, tt := range tests {
		t.Run(tt.accept, func(t *testing.T) {
			got := Negotiate(tt.accept, supported)
			base, _ := got.Base()
			wantBase, _ := tt.want.Base()
			assert.Equal(t, wantBase, base)
		})
	}
	assert.Equal(t, DefaultTag, Negotiate("en", nil))
}

func TestFromEnv(t *testing.T) {
	supported := []language.Tag{language.MustParse("zh-TW"), language.MustParse("en-US")}

	tests := []struct {
		env  string
		pref string
		want language.Tag
	}{
		{"en_US.UTF-8", "en-US", language.MustParse("en-US")},
		{"en_US", "en-US", language.MustParse("en-US")},
		{"en_GB.ISO-8859-1@euro", "en-GB", language.MustParse("en-US")},
		{"zh_TW.UTF-8", "zh-TW", language.MustParse("zh-TW")},
		{"C.UTF-8", "", DefaultTag},
		{"POSIX", "", DefaultTag},
		{"", "", DefaultTag},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			pref := FromEnv(tt.env)
			assert.Equal(t, tt.pref, pref)
			assert.Equal(t, tt.want, Negotiate(pref, supported))
		})
	}
}

func TestEnvPreference(t *testing.T) {
	env := map[string]string{"LANG": "zh_TW.UTF-8", "LC_MESSAGES": "en_US.UTF-8"}
	assert.Equal(t, "en-US", EnvPreference(func(k string) string { return env[k] }))

	env["LC_ALL"] = "C"
	assert.Equal(t, "", EnvPreference(func(k string) string { return env[k] }))

	assert.Equal(t, "", EnvPreference(func(string) string { return "" }))
}

func TestTranslator(t *testing.T) {
	tr := New(DefaultTag, map[string]any{
		"markerType": map[string]any{
			"key":  map[string]any{"chest": "Chest"},
			"main": map[string]any{"collection": "Collection"},
		},
		"region": map[string]any{"VL": map[string]any{"name": "Valley"}},
	})

	assert.Equal(t, "Chest", tr.T("markerType.key.chest"))
	assert.Equal(t, "", tr.T("markerType.key.missing"))
	assert.Equal(t, "", tr.T("markerType.key"), "non-string nodes are not text")
	assert.Equal(t, "", tr.T("markerType.key.chest.deeper"))

	assert.Equal(t, "Chest", tr.TypeName("chest"))
	assert.Equal(t, "ore", tr.TypeName("ore"))
	assert.Equal(t, "Collection", tr.MainCategoryName("collection"))
	assert.Equal(t, "misc", tr.SubCategoryName("misc"))

	regions, ok := tr.Regions().(map[string]any)
	require.True(t, ok)
	assert.Contains(t, regions, "VL")

	var nilT *Translator
	assert.Equal(t, "", nilT.T("a"))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zh-TW.json"), []byte(`{"ui":{"title":"地圖"}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.json"), []byte(`{"ui":{"title":"Map"}}`), 0o644))

	b, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, b.Tags(), 2)

	assert.Equal(t, "Map", b.Translator("en-GB").T("ui.title"))
	assert.Equal(t, "地圖", b.Translator("fr").T("ui.title"))

	_, err = LoadDir(t.TempDir())
	assert.ErrorIs(t, err, ErrNoCatalogs)

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "en.json"), []byte(`{`), 0o644))
	_, err = LoadDir(bad)
	assert.Error(t, err)
}
