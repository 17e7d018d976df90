// Package locale loads the nested JSON message catalogs and resolves
// dot-path keys against the negotiated language.
package locale

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// ErrNoCatalogs is returned when a catalog directory holds no catalogs.
var ErrNoCatalogs = errors.New("no locale catalogs")

// DefaultTag is used when nothing better matches.
var DefaultTag = language.MustParse("zh-TW")

// Negotiate picks the supported tag that best matches an Accept-Language
// style preference list such as "en-US,en;q=0.9". It falls back to
// DefaultTag.
func Negotiate(accept string, supported []language.Tag) language.Tag {
	if len(supported) == 0 {
		return DefaultTag
	}
	prefs, _, err := language.ParseAcceptLanguage(strings.TrimSpace(accept))
	if err != nil || len(prefs) == 0 {
		return DefaultTag
	}
	_, idx, conf := language.NewMatcher(supported).Match(prefs...)
	if conf == language.No {
		return DefaultTag
	}
	return supported[idx]
}

// FromEnv turns a POSIX locale name such as "en_US.UTF-8" or
// "sr_RS@latin" into a BCP 47 preference. "C" and "POSIX" state no
// preference and yield "".
func FromEnv(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.IndexAny(name, ".@"); i >= 0 {
		name = name[:i]
	}
	if name == "C" || name == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(name, "_", "-")
}

// EnvPreference reads the first locale set among LC_ALL, LC_MESSAGES and
// LANG.
func EnvPreference(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := getenv(key); v != "" {
			return FromEnv(v)
		}
	}
	return ""
}

// Bundle holds every catalog found in a directory, keyed by language tag.
type Bundle struct {
	catalogs map[language.Tag]map[string]any
	tags     []language.Tag
}

// LoadDir reads every "<tag>.json" file in dir.
func LoadDir(dir string) (*Bundle, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	sort.Strings(paths)

	b := &Bundle{catalogs: map[language.Tag]map[string]any{}}
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		b.catalogs[tag] = doc
		b.tags = append(b.tags, tag)
	}
	if len(b.tags) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoCatalogs, dir)
	}
	return b, nil
}

// Tags lists the loaded languages.
func (b *Bundle) Tags() []language.Tag {
	return b.tags
}

// Translator negotiates accept against the loaded languages and returns a
// translator for the winner. If the winner has no catalog the first
// loaded one is used.
func (b *Bundle) Translator(accept string) *Translator {
	tag := Negotiate(accept, b.tags)
	doc, ok := b.catalogs[tag]
	if !ok {
		tag = b.tags[0]
		doc = b.catalogs[tag]
	}
	return New(tag, doc)
}

// Translator resolves keys against one catalog.
type Translator struct {
	tag  language.Tag
	data map[string]any
}

// New wraps a decoded catalog.
func New(tag language.Tag, data map[string]any) *Translator {
	return &Translator{tag: tag, data: data}
}

// Tag is the catalog's language.
func (t *Translator) Tag() language.Tag {
	return t.tag
}

// Lookup walks a dot path and returns the node found there.
func (t *Translator) Lookup(key string) (any, bool) {
	if t == nil {
		return nil, false
	}
	var node any = t.data
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return node, true
}

// T returns the string at a dot path, or "" when there is none.
func (t *Translator) T(key string) string {
	v, ok := t.Lookup(key)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Or returns the string at key, or fallback when there is none.
func (t *Translator) Or(key, fallback string) string {
	if s := t.T(key); s != "" {
		return s
	}
	return fallback
}

// TypeName is the display name of a marker type key.
func (t *Translator) TypeName(key string) string {
	return t.Or("markerType.key."+key, key)
}

// SubCategoryName is the display name of a second-level type category.
func (t *Translator) SubCategoryName(sub string) string {
	return t.Or("markerType.sub."+sub, sub)
}

// MainCategoryName is the display name of a top-level type category.
func (t *Translator) MainCategoryName(main string) string {
	return t.Or("markerType.main."+main, main)
}

// Regions returns the node holding region and place names, as consumed by
// the label tool's place index.
func (t *Translator) Regions() any {
	v, _ := t.Lookup("region")
	return v
}
