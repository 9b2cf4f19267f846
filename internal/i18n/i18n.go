// ABOUTME: Locale catalogs embedded from JSON files and the translator used by pages.
// ABOUTME: Lookups fall back to the default locale, then to the key itself.

package i18n

import (
	"embed"
	"fmt"
	"net/http"
	"path"
	"strings"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLocale is used when a key is missing from the requested locale.
const DefaultLocale = "en"

// Locales lists every shipped locale. The generator keeps all of them in sync.
var Locales = []string{"en", "es", "zh"}

// LocaleDir is the repository-relative directory holding the locale files.
const LocaleDir = "internal/i18n/locales"

// Catalog holds one tree per locale.
type Catalog struct {
	trees map[string]Tree
}

// Load parses the embedded locale files.
func Load() (*Catalog, error) {
	c := &Catalog{trees: make(map[string]Tree, len(Locales))}
	for _, locale := range Locales {
		data, err := localeFS.ReadFile(path.Join("locales", locale+".json"))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", locale, err)
		}
		tree, err := ParseTree(data)
		if err != nil {
			return nil, fmt.Errorf("locale %s: %w", locale, err)
		}
		c.trees[locale] = tree
	}
	return c, nil
}

// MustLoad is Load for package-level initialization and tests.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Tree returns the tree for locale, or nil.
func (c *Catalog) Tree(locale string) Tree {
	return c.trees[locale]
}

// Translator returns a translator for locale; unknown locales use the default.
func (c *Catalog) Translator(locale string) *Translator {
	primary, ok := c.trees[locale]
	if !ok {
		locale = DefaultLocale
		primary = c.trees[DefaultLocale]
	}
	return &Translator{locale: locale, primary: primary, fallback: c.trees[DefaultLocale]}
}

// Negotiate picks a locale from ?lang=, the lang cookie, or Accept-Language.
func (c *Catalog) Negotiate(r *http.Request, def string) string {
	if lang := r.URL.Query().Get("lang"); c.has(lang) {
		return lang
	}
	if cookie, err := r.Cookie("lang"); err == nil && c.has(cookie.Value) {
		return cookie.Value
	}
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if c.has(base) {
			return base
		}
	}
	if c.has(def) {
		return def
	}
	return DefaultLocale
}

func (c *Catalog) has(locale string) bool {
	_, ok := c.trees[locale]
	return locale != "" && ok
}

// Translator resolves dotted keys for one locale.
type Translator struct {
	locale   string
	primary  Tree
	fallback Tree
}

func (t *Translator) Locale() string { return t.locale }

// Has reports whether key resolves in the locale or the fallback.
func (t *Translator) Has(key string) bool {
	if _, ok := t.primary.Lookup(key); ok {
		return true
	}
	_, ok := t.fallback.Lookup(key)
	return ok
}

// T translates key, returning the key itself when nothing matches.
func (t *Translator) T(key string) string {
	if s, ok := t.primary.Lookup(key); ok {
		return s
	}
	if s, ok := t.fallback.Lookup(key); ok {
		return s
	}
	return key
}

// Tf translates key and substitutes {name} placeholders from vars.
func (t *Translator) Tf(key string, vars map[string]string) string {
	s := t.T(key)
	for k, v := range vars {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}

// First returns the translation of the first key that resolves, or the last key.
func (t *Translator) First(keys ...string) string {
	for _, k := range keys {
		if t.Has(k) {
			return t.T(k)
		}
	}
	if len(keys) == 0 {
		return ""
	}
	return keys[len(keys)-1]
}
