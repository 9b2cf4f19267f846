// ABOUTME: Tests for the page registry and the built-in page definitions.
// ABOUTME: Every page must be valid, ordered, and translated in every locale.

package pages

import (
	"slices"
	"strings"
	"testing"

	"github.com/2389/rigdesk/internal/admin"
	"github.com/2389/rigdesk/internal/crud"
	"github.com/2389/rigdesk/internal/i18n"
)

func TestBuiltInPagesRegistered(t *testing.T) {
	want := []string{"customers", "technicians", "miners", "work-orders", "invoices", "payments"}
	got := Names()
	if len(got) < len(want) {
		t.Fatalf("Names() = %v", got)
	}
	if !slices.Equal(got[:len(want)], want) {
		t.Errorf("navigation order = %v, want %v first", got, want)
	}
}

func TestGet(t *testing.T) {
	p, ok := Get("work-orders")
	if !ok {
		t.Fatal("work-orders not registered")
	}
	if p.Path() != "/work-orders" || p.LabelKey() != "workOrders.title" {
		t.Errorf("Path() = %s, LabelKey() = %s", p.Path(), p.LabelKey())
	}
	if _, ok := Get("nope"); ok {
		t.Error("unknown page should not be found")
	}
}

func TestInitialSortDirections(t *testing.T) {
	tests := []struct {
		key  string
		want crud.SortDirection
	}{
		{"customers", crud.Asc},
		{"technicians", crud.Asc},
		{"miners", crud.Asc},
		{"work-orders", crud.Desc},
		{"invoices", crud.Desc},
		{"payments", crud.Desc},
	}
	for _, tt := range tests {
		p, ok := Get(tt.key)
		if !ok {
			t.Fatalf("%s not registered", tt.key)
		}
		got := p.(interface{ startDirection() crud.SortDirection }).startDirection()
		if got != tt.want {
			t.Errorf("%s start direction = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestNav(t *testing.T) {
	nav := Nav()
	if nav[0].Path != "/" {
		t.Errorf("first entry = %v, want dashboard", nav[0])
	}
	if last := nav[len(nav)-1]; last.Path != admin.LogsPath {
		t.Errorf("last entry = %v, want logs", last)
	}
}

func TestPageLabelsTranslated(t *testing.T) {
	cat := i18n.MustLoad()
	for _, locale := range i18n.Locales {
		tr := cat.Translator(locale)
		for _, item := range Nav() {
			if !tr.Has(item.LabelKey) {
				t.Errorf("%s: missing nav label %s", locale, item.LabelKey)
			}
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil || !strings.Contains(r.(string), "already registered") {
			t.Errorf("expected duplicate panic, got %v", r)
		}
	}()
	p, _ := Get("customers")
	Register(p)
}

func TestDefineRejectsInvalidConfig(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid config")
		}
	}()
	Define(crud.Config[testItem]{EntityKey: "broken", APIEndpoint: "no-slash"})
}

type testItem struct{ ID string }

func (i testItem) GetID() string { return i.ID }
