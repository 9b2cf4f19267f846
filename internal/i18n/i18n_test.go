// ABOUTME: Tests for the embedded locale catalogs and translator fallbacks.
// ABOUTME: Every shipped locale must validate cleanly and carry the same keys.

package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbeddedLocalesValidate(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, locale := range Locales {
		tree := c.Tree(locale)
		if tree == nil {
			t.Fatalf("locale %s missing", locale)
		}
		if v := Validate(tree); len(v) != 0 {
			t.Errorf("locale %s has violations: %v", locale, v)
		}
	}
}

func TestLocalesShareKeys(t *testing.T) {
	c := MustLoad()
	keys := func(tree Tree) map[string]bool {
		out := map[string]bool{}
		walk(tree, "", func(path string, _ any) { out[path] = true })
		return out
	}

	base := keys(c.Tree(DefaultLocale))
	for _, locale := range Locales[1:] {
		other := keys(c.Tree(locale))
		for k := range base {
			if !other[k] {
				t.Errorf("locale %s missing key %s", locale, k)
			}
		}
		for k := range other {
			if !base[k] {
				t.Errorf("locale %s has extra key %s", locale, k)
			}
		}
	}
}

func TestTranslatorFallbacks(t *testing.T) {
	c := &Catalog{trees: map[string]Tree{
		"en": {"common": Tree{"save": "Save", "only": "English only"}},
		"es": {"common": Tree{"save": "Guardar"}},
	}}

	es := c.Translator("es")
	if got := es.T("common.save"); got != "Guardar" {
		t.Errorf("T(common.save) = %q", got)
	}
	if got := es.T("common.only"); got != "English only" {
		t.Errorf("expected fallback to default locale, got %q", got)
	}
	if got := es.T("common.missing"); got != "common.missing" {
		t.Errorf("expected key echo, got %q", got)
	}

	unknown := c.Translator("fr")
	if unknown.Locale() != "en" {
		t.Errorf("unknown locale should resolve to en, got %s", unknown.Locale())
	}
}

func TestTfAndFirst(t *testing.T) {
	c := &Catalog{trees: map[string]Tree{
		"en": {
			"common":    Tree{"required": "{field} is required", "created": "Created"},
			"customers": Tree{"created": "Customer created"},
		},
	}}
	tr := c.Translator("en")

	if got := tr.Tf("common.required", map[string]string{"field": "Name"}); got != "Name is required" {
		t.Errorf("Tf = %q", got)
	}
	if got := tr.First("customers.created", "common.created"); got != "Customer created" {
		t.Errorf("First picked %q", got)
	}
	if got := tr.First("widgets.created", "common.created"); got != "Created" {
		t.Errorf("First fallback picked %q", got)
	}
	if got := tr.First("a.b", "c.d"); got != "c.d" {
		t.Errorf("First with no match = %q", got)
	}
}

func TestNegotiate(t *testing.T) {
	c := MustLoad()

	tests := []struct {
		name   string
		url    string
		cookie string
		accept string
		want   string
	}{
		{name: "query wins", url: "/?lang=zh", cookie: "es", accept: "es", want: "zh"},
		{name: "cookie", url: "/", cookie: "es", want: "es"},
		{name: "accept language", url: "/", accept: "fr-FR, es-MX;q=0.8", want: "es"},
		{name: "unknown query ignored", url: "/?lang=xx", want: "en"},
		{name: "default", url: "/", want: "en"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			if tt.accept != "" {
				r.Header.Set("Accept-Language", tt.accept)
			}
			if got := c.Negotiate(r, "en"); got != tt.want {
				t.Errorf("Negotiate = %s, want %s", got, tt.want)
			}
		})
	}
}
