// ABOUTME: create-page scaffolder: page config, API route, and locale entries for a new entity.
// ABOUTME: Everything is computed and validated in memory before any file is written.

package generator

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/iancoleman/strcase"

	"github.com/2389/rigdesk/internal/i18n"
)

// DefaultModule is used when the target root has no readable go.mod.
const DefaultModule = "github.com/2389/rigdesk"

var (
	entityKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)
	namePattern      = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	apiPathPattern   = regexp.MustCompile(`^/api/[a-z0-9][a-z0-9/-]*$`)
	// reservedNames are identifiers the pages package already declares.
	reservedNames = []string{"Page", "Option"}
	// reservedKeys collide with shared locale sections, routes, or built-in pages.
	reservedKeys = []string{
		"common", "api", "admin", "logs", "healthz",
		"customers", "technicians", "miners", "work-orders", "invoices", "payments",
	}

	// rename is swapped in tests to simulate a failing commit.
	rename = os.Rename
)

// ErrExists is returned when a target file exists and Force is not set.
var ErrExists = errors.New("file already exists")

// Options describes one create-page run.
type Options struct {
	Root      string
	EntityKey string
	Name      string
	APIPath   string
	Schema    *Schema
	Force     bool
}

// Result lists the files a run wrote, relative to Root.
type Result struct {
	Created []string
	Updated []string
}

// ValidationError reports invalid locale entries. Nothing was written.
type ValidationError struct {
	Violations []i18n.Violation
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		lines[i] = "  " + v.String()
	}
	return fmt.Sprintf("translation validation failed:\n%s", strings.Join(lines, "\n"))
}

type pendingFile struct {
	rel    string
	data   []byte
	merged bool // rewritten in place; new sources need --force to overwrite
}

// Generate scaffolds the entity described by opts.
func Generate(opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if opts.Schema == nil {
		opts.Schema = &Schema{}
	}
	data := newTemplateData(opts)

	page, err := render(pageTmpl, data)
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	route, err := render(routeTmpl, data)
	if err != nil {
		return nil, fmt.Errorf("render route: %w", err)
	}
	files := []pendingFile{
		{rel: filepath.Join("internal", "pages", data.FileName), data: page},
		{rel: filepath.Join("internal", "api", data.FileName), data: route},
	}

	// A top-level locale section may only be rewritten by the page that owns it.
	_, statErr := os.Stat(filepath.Join(opts.Root, files[0].rel))
	locales, err := mergeLocales(opts.Root, data, statErr == nil)
	if err != nil {
		return nil, err
	}
	files = append(files, locales...)

	res := &Result{}
	for _, f := range files {
		_, statErr := os.Stat(filepath.Join(opts.Root, f.rel))
		exists := statErr == nil
		if exists && !f.merged && !opts.Force {
			return nil, fmt.Errorf("%s: %w (use --force to overwrite)", f.rel, ErrExists)
		}
		if exists {
			res.Updated = append(res.Updated, f.rel)
		} else {
			res.Created = append(res.Created, f.rel)
		}
	}

	if err := writeAll(opts.Root, files); err != nil {
		return nil, err
	}
	return res, nil
}

func (o Options) validate() error {
	switch {
	case !entityKeyPattern.MatchString(o.EntityKey):
		return fmt.Errorf("invalid entity key %q: use lowercase words separated by dashes", o.EntityKey)
	case slices.Contains(reservedKeys, o.EntityKey):
		return fmt.Errorf("invalid entity key %q: reserved", o.EntityKey)
	case !namePattern.MatchString(o.Name):
		return fmt.Errorf("invalid name %q: use PascalCase", o.Name)
	case slices.Contains(reservedNames, o.Name):
		return fmt.Errorf("invalid name %q: already declared by the pages package", o.Name)
	case !apiPathPattern.MatchString(o.APIPath):
		return fmt.Errorf("invalid api path %q: must start with /api/", o.APIPath)
	}
	return nil
}

type fieldData struct {
	Key        string
	GoName     string
	GoType     string
	FieldType  string
	Required   bool
	Sortable   bool
	Options    []string
	OptionList string
}

type templateData struct {
	Module        string
	Key           string
	Name          string
	Singular      string
	Title         string
	Prefix        string
	Table         string
	FileName      string
	APIPath       string
	ExportColumns string
	Fields        []fieldData
	Filters       []fieldData
	schema        *Schema
}

func newTemplateData(opts Options) templateData {
	snake := strcase.ToSnake(opts.EntityKey)
	d := templateData{
		Module:   modulePath(opts.Root),
		Key:      opts.EntityKey,
		Name:     opts.Name,
		Singular: strings.ToLower(strcase.ToDelimited(opts.Name, ' ')),
		Title:    humanize(opts.EntityKey),
		Prefix:   opts.EntityKey,
		Table:    snake,
		FileName: snake + ".go",
		APIPath:  opts.APIPath,
		schema:   opts.Schema,
	}

	export := []string{strconv.Quote("name")}
	for _, f := range opts.Schema.Fields {
		fd := fieldData{
			Key:       f.Key,
			GoName:    strcase.ToCamel(f.Key),
			GoType:    "string",
			FieldType: "crud.Field" + strcase.ToCamel(f.Type),
			Required:  f.Required,
			Sortable:  f.Sortable,
			Options:   f.Options,
		}
		if f.Type == "number" {
			fd.GoType = "float64"
		}
		if len(f.Options) > 0 {
			quoted := make([]string, len(f.Options))
			for i, o := range f.Options {
				quoted[i] = strconv.Quote(o)
			}
			fd.OptionList = "[]string{" + strings.Join(quoted, ", ") + "}"
		}
		d.Fields = append(d.Fields, fd)
		if f.Filter {
			d.Filters = append(d.Filters, fd)
		}
		export = append(export, strconv.Quote(f.Key))
	}
	d.ExportColumns = strings.Join(append(export, strconv.Quote("createdAt")), ", ")
	return d
}

func render(t *template.Template, data templateData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}

// modulePath reads the module line of root/go.mod.
func modulePath(root string) string {
	f, err := os.Open(filepath.Join(root, "go.mod"))
	if err != nil {
		return DefaultModule
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if mod, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "module "); ok {
			return strings.Trim(strings.TrimSpace(mod), `"`)
		}
	}
	return DefaultModule
}

// humanize turns "spare-parts" or "sparePart" into "Spare Parts".
func humanize(s string) string {
	words := strings.Fields(strcase.ToDelimited(s, ' '))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

type stagedFile struct {
	path    string
	tmp     string
	orig    []byte
	existed bool
}

// writeAll stages every file next to its target, then renames them into
// place. If a rename fails, targets already replaced are restored.
func writeAll(root string, files []pendingFile) error {
	staged := make([]stagedFile, 0, len(files))
	discard := func() {
		for _, sf := range staged {
			os.Remove(sf.tmp)
		}
	}

	for _, f := range files {
		path := filepath.Join(root, f.rel)
		sf := stagedFile{path: path}
		orig, err := os.ReadFile(path)
		switch {
		case err == nil:
			sf.orig, sf.existed = orig, true
		case !os.IsNotExist(err):
			discard()
			return fmt.Errorf("read %s: %w", f.rel, err)
		}
		if sf.tmp, err = stageFile(path, f.data); err != nil {
			discard()
			return err
		}
		staged = append(staged, sf)
	}

	for i, sf := range staged {
		if err := rename(sf.tmp, sf.path); err != nil {
			discard()
			restore(staged[:i])
			return fmt.Errorf("rename into %s: %w", sf.path, err)
		}
	}
	return nil
}

func restore(done []stagedFile) {
	for _, sf := range done {
		if !sf.existed {
			os.Remove(sf.path)
			continue
		}
		if err := writeFileAtomic(sf.path, sf.orig); err != nil {
			log.Printf("generator: failed to restore %s: %v", sf.path, err)
		}
	}
}

// stageFile writes data to a temp file in the target's directory and returns its name.
func stageFile(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".rigdesk-*")
	if err != nil {
		return "", fmt.Errorf("create temp file in %s: %w", dir, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("chmod %s: %w", path, err)
	}
	return tmp.Name(), nil
}

// writeFileAtomic writes data to a temp file in the target directory and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := stageFile(path, data)
	if err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into %s: %w", path, err)
	}
	return nil
}
