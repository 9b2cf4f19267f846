// ABOUTME: Tests for the create-page scaffolder.
// ABOUTME: Runs against a temp repository root seeded with the real locale files.

package generator

import (
	"bytes"
	"errors"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2389/rigdesk/internal/i18n"
)

// setupRoot creates a repository root with go.mod and the shipped locale files.
func setupRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/shop\n\ngo 1.25\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(root, i18n.LocaleDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, locale := range i18n.Locales {
		data, err := os.ReadFile(filepath.Join("..", "i18n", "locales", locale+".json"))
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, locale+".json"), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func readFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func snapshotLocales(t *testing.T, root string) map[string][]byte {
	t.Helper()
	out := make(map[string][]byte)
	for _, locale := range i18n.Locales {
		out[locale] = []byte(readFile(t, root, filepath.Join(i18n.LocaleDir, locale+".json")))
	}
	return out
}

func assertLocalesUnchanged(t *testing.T, root string, before map[string][]byte) {
	t.Helper()
	for locale, data := range snapshotLocales(t, root) {
		if !bytes.Equal(data, before[locale]) {
			t.Errorf("%s.json was modified", locale)
		}
	}
}

func assertGoSource(t *testing.T, src string) {
	t.Helper()
	if _, err := parser.ParseFile(token.NewFileSet(), "generated.go", src, parser.AllErrors); err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, src)
	}
}

func TestGenerateDefaultStub(t *testing.T) {
	root := setupRoot(t)

	res, err := Generate(Options{Root: root, EntityKey: "spare-parts", Name: "SparePart", APIPath: "/api/spare-parts"})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(res.Created) != 2 || len(res.Updated) != 3 {
		t.Errorf("Result = %+v", res)
	}

	page := readFile(t, root, "internal/pages/spare_parts.go")
	assertGoSource(t, page)
	for _, want := range []string{
		"type SparePart struct",
		`"example.com/shop/internal/crud"`,
		`"spare-parts"`,
		`"spare-parts.fields.name"`,
		"Required: true",
		"func (r SparePart) GetID() string",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q", want)
		}
	}

	route := readFile(t, root, "internal/api/spare_parts.go")
	assertGoSource(t, route)
	for _, want := range []string{`Register("/api/spare-parts"`, `Records(context.Background(), "spare_parts")`, "ValidateRecord"} {
		if !strings.Contains(route, want) {
			t.Errorf("route missing %q", want)
		}
	}

	for _, locale := range i18n.Locales {
		tree, err := i18n.ParseTree([]byte(readFile(t, root, filepath.Join(i18n.LocaleDir, locale+".json"))))
		if err != nil {
			t.Fatalf("%s: %v", locale, err)
		}
		if v := i18n.Validate(tree); len(v) != 0 {
			t.Errorf("%s: merged catalog invalid: %v", locale, v)
		}
		if _, ok := tree.Lookup("spare-parts.fields.name"); !ok {
			t.Errorf("%s: missing spare-parts.fields.name", locale)
		}
		if _, ok := tree.Lookup("customers.title"); !ok {
			t.Errorf("%s: existing entries must survive the merge", locale)
		}
	}
	en, _ := i18n.ParseTree([]byte(readFile(t, root, filepath.Join(i18n.LocaleDir, "en.json"))))
	if title, _ := en.Lookup("spare-parts.title"); title != "Spare Parts" {
		t.Errorf("title = %q", title)
	}
}

func TestGenerateWithFields(t *testing.T) {
	root := setupRoot(t)
	schema, err := ParseSchema([]byte(`
title:
  en: Spare Parts
  es: Repuestos
  zh: 备件
fields:
  - key: sku
    required: true
    sortable: true
    label: {en: SKU, es: Código, zh: 编号}
  - key: stock
    type: number
  - key: condition
    type: select
    filter: true
    options: [NEW, USED]
`))
	if err != nil {
		t.Fatalf("ParseSchema() error = %v", err)
	}

	if _, err := Generate(Options{Root: root, EntityKey: "parts", Name: "Part", APIPath: "/api/parts", Schema: schema}); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	page := readFile(t, root, "internal/pages/parts.go")
	assertGoSource(t, page)
	for _, want := range []string{
		"Sku       string",
		"Stock     float64",
		"crud.FieldNumber",
		`crud.EnumOptions("parts.condition", []string{"NEW", "USED"})`,
		"Filters: []crud.Filter{",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("page missing %q\n%s", want, page)
		}
	}
	if strings.Contains(page, "I18nPrefix") {
		t.Error("generated pages translate under their entity key")
	}

	route := readFile(t, root, "internal/api/parts.go")
	if !strings.Contains(route, `WithExportColumns("name", "sku", "stock", "condition", "createdAt")`) {
		t.Errorf("route export columns wrong:\n%s", route)
	}

	es, _ := i18n.ParseTree([]byte(readFile(t, root, filepath.Join(i18n.LocaleDir, "es.json"))))
	for key, want := range map[string]string{
		"parts.title":           "Repuestos",
		"parts.fields.sku":      "Código",
		"parts.fields.stock":    "Stock",
		"parts.condition.USED":  "Used",
		"parts.messages.created": "Creado",
	} {
		if got, _ := es.Lookup(key); got != want {
			t.Errorf("es %s = %q, want %q", key, got, want)
		}
	}
}

func TestGenerateRefusesToOverwrite(t *testing.T) {
	root := setupRoot(t)
	opts := Options{Root: root, EntityKey: "parts", Name: "Part", APIPath: "/api/parts"}
	if _, err := Generate(opts); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	before := snapshotLocales(t, root)

	opts.Name = "Widget"
	if _, err := Generate(opts); !errors.Is(err, ErrExists) {
		t.Fatalf("error = %v, want ErrExists", err)
	}
	if strings.Contains(readFile(t, root, "internal/pages/parts.go"), "Widget") {
		t.Error("page was overwritten without --force")
	}
	assertLocalesUnchanged(t, root, before)

	opts.Force = true
	res, err := Generate(opts)
	if err != nil {
		t.Fatalf("forced Generate() error = %v", err)
	}
	if len(res.Updated) != 5 {
		t.Errorf("Updated = %v", res.Updated)
	}
	if !strings.Contains(readFile(t, root, "internal/pages/parts.go"), "type Widget struct") {
		t.Error("--force should overwrite the page")
	}
}

func TestGenerateRejectsReservedKeys(t *testing.T) {
	for _, key := range []string{"common", "api", "logs", "customers", "work-orders"} {
		t.Run(key, func(t *testing.T) {
			root := setupRoot(t)
			before := snapshotLocales(t, root)
			_, err := Generate(Options{Root: root, EntityKey: key, Name: "Thing", APIPath: "/api/things"})
			if err == nil || !strings.Contains(err.Error(), "reserved") {
				t.Fatalf("error = %v, want reserved key error", err)
			}
			assertLocalesUnchanged(t, root, before)
		})
	}
}

func TestGenerateRejectsSectionOwnedElsewhere(t *testing.T) {
	root := setupRoot(t)
	for _, locale := range i18n.Locales {
		path := filepath.Join(root, i18n.LocaleDir, locale+".json")
		tree, err := i18n.ParseTree([]byte(readFile(t, root, filepath.Join(i18n.LocaleDir, locale+".json"))))
		if err != nil {
			t.Fatal(err)
		}
		tree["warranties"] = map[string]any{"title": "Warranties"}
		data, err := tree.Marshal()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	before := snapshotLocales(t, root)

	_, err := Generate(Options{Root: root, EntityKey: "warranties", Name: "Warranty", APIPath: "/api/warranties"})
	if err == nil || !strings.Contains(err.Error(), "already defined") {
		t.Fatalf("error = %v, want section collision", err)
	}
	if _, err := os.Stat(filepath.Join(root, "internal/pages/warranties.go")); !os.IsNotExist(err) {
		t.Error("page should not be written")
	}
	assertLocalesUnchanged(t, root, before)
}

func TestGenerateRollsBackFailedCommit(t *testing.T) {
	root := setupRoot(t)
	opts := Options{Root: root, EntityKey: "parts", Name: "Part", APIPath: "/api/parts"}
	if _, err := Generate(opts); err != nil {
		t.Fatalf("first Generate() error = %v", err)
	}
	before := snapshotLocales(t, root)
	page := readFile(t, root, "internal/pages/parts.go")

	// Fail the last rename, after the page, route, and two locales were replaced.
	calls := 0
	rename = func(from, to string) error {
		calls++
		if calls == 5 {
			return errors.New("disk full")
		}
		return os.Rename(from, to)
	}
	t.Cleanup(func() { rename = os.Rename })

	opts.Name, opts.Force = "Widget", true
	if _, err := Generate(opts); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("error = %v, want commit failure", err)
	}
	if got := readFile(t, root, "internal/pages/parts.go"); got != page {
		t.Error("page should be restored after a failed commit")
	}
	assertLocalesUnchanged(t, root, before)

	for _, dir := range []string{"internal/pages", "internal/api", i18n.LocaleDir} {
		leftovers, _ := filepath.Glob(filepath.Join(root, dir, ".rigdesk-*"))
		if len(leftovers) != 0 {
			t.Errorf("temp files left in %s: %v", dir, leftovers)
		}
	}
}

func TestGenerateRemovesNewFilesOnFailedCommit(t *testing.T) {
	root := setupRoot(t)
	before := snapshotLocales(t, root)

	calls := 0
	rename = func(from, to string) error {
		calls++
		if calls == 3 {
			return errors.New("disk full")
		}
		return os.Rename(from, to)
	}
	t.Cleanup(func() { rename = os.Rename })

	if _, err := Generate(Options{Root: root, EntityKey: "parts", Name: "Part", APIPath: "/api/parts"}); err == nil {
		t.Fatal("expected commit failure")
	}
	for _, rel := range []string{"internal/pages/parts.go", "internal/api/parts.go"} {
		if _, err := os.Stat(filepath.Join(root, rel)); !os.IsNotExist(err) {
			t.Errorf("%s should have been removed", rel)
		}
	}
	assertLocalesUnchanged(t, root, before)
}

func TestGenerateValidationBlocksAllWrites(t *testing.T) {
	root := setupRoot(t)
	before := snapshotLocales(t, root)
	schema := &Schema{Fields: []Field{{Key: "sku", Type: "text", Label: map[string]string{"en": "SKU", "es": "  ", "zh": "编号"}}}}

	_, err := Generate(Options{Root: root, EntityKey: "parts", Name: "Part", APIPath: "/api/parts", Schema: schema})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(ve.Violations) != 1 || ve.Violations[0].Path != "es:parts.fields.sku" {
		t.Errorf("violations = %v", ve.Violations)
	}
	if !strings.Contains(err.Error(), "es:parts.fields.sku: empty translation") {
		t.Errorf("error text = %q", err)
	}

	for _, rel := range []string{"internal/pages/parts.go", "internal/api/parts.go"} {
		if _, err := os.Stat(filepath.Join(root, rel)); !os.IsNotExist(err) {
			t.Errorf("%s should not exist", rel)
		}
	}
	assertLocalesUnchanged(t, root, before)
}

func TestGenerateUnparseableLocale(t *testing.T) {
	root := setupRoot(t)
	zh := filepath.Join(root, i18n.LocaleDir, "zh.json")
	if err := os.WriteFile(zh, []byte(`{"common": `), 0o644); err != nil {
		t.Fatal(err)
	}
	before := snapshotLocales(t, root)

	if _, err := Generate(Options{Root: root, EntityKey: "parts", Name: "Part", APIPath: "/api/parts"}); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := os.Stat(filepath.Join(root, "internal/pages/parts.go")); !os.IsNotExist(err) {
		t.Error("no files should be written when a locale does not parse")
	}
	assertLocalesUnchanged(t, root, before)
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"uppercase key", Options{EntityKey: "Parts", Name: "Part", APIPath: "/api/parts"}},
		{"underscore key", Options{EntityKey: "spare_parts", Name: "Part", APIPath: "/api/parts"}},
		{"trailing dash", Options{EntityKey: "parts-", Name: "Part", APIPath: "/api/parts"}},
		{"lowercase name", Options{EntityKey: "parts", Name: "part", APIPath: "/api/parts"}},
		{"reserved name", Options{EntityKey: "parts", Name: "Page", APIPath: "/api/parts"}},
		{"path outside api", Options{EntityKey: "parts", Name: "Part", APIPath: "/parts"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Root = t.TempDir()
			if _, err := Generate(tt.opts); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseSchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad yaml", "fields: [", "parse fields file"},
		{"bad key", "fields: [{key: Sku}]", "lowerCamelCase"},
		{"reserved key", "fields: [{key: name}]", "reserved"},
		{"duplicate", "fields: [{key: sku}, {key: sku}]", "duplicate"},
		{"unknown type", "fields: [{key: sku, type: blob}]", "unknown type"},
		{"select without options", "fields: [{key: kind, type: select}]", "need options"},
		{"filter on text", "fields: [{key: sku, filter: true}]", "only select"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchema([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestHumanize(t *testing.T) {
	tests := map[string]string{
		"spare-parts": "Spare Parts",
		"sparePart":   "Spare Part",
		"IN_STOCK":    "In Stock",
		"sku":         "Sku",
	}
	for in, want := range tests {
		if got := humanize(in); got != want {
			t.Errorf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestModulePathFallback(t *testing.T) {
	if got := modulePath(t.TempDir()); got != DefaultModule {
		t.Errorf("modulePath() = %q", got)
	}
}
