// ABOUTME: Declarative configuration for a generic CRUD page.
// ABOUTME: Columns, form fields, filters, endpoints, sort defaults, and lifecycle hooks.

package crud

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Item is anything a CRUD page can list. Identity is the id returned here.
type Item interface {
	GetID() string
}

// SortDirection orders a sorted view.
type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

// Flip returns the opposite direction.
func (d SortDirection) Flip() SortDirection {
	if d == Desc {
		return Asc
	}
	return Desc
}

// ParseSortDirection maps anything but "desc" to Asc.
func ParseSortDirection(s string) SortDirection {
	if strings.EqualFold(s, string(Desc)) {
		return Desc
	}
	return Asc
}

// FieldType selects the input rendered for a form field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldEmail    FieldType = "email"
	FieldNumber   FieldType = "number"
	FieldSelect   FieldType = "select"
	FieldTextarea FieldType = "textarea"
	FieldDate     FieldType = "date"
)

// Option is one choice of a select field or filter. LabelKey wins over Label.
type Option struct {
	Value    string
	Label    string
	LabelKey string
}

// Column describes one table column.
type Column[T any] struct {
	Key      string
	LabelKey string
	Sortable bool
	// Render overrides the default cell text.
	Render func(T) string
	// ValuePrefix translates the raw value as "<prefix>.<value>".
	ValuePrefix string
}

// FormField describes one input of the create/edit modal.
type FormField struct {
	Key      string
	LabelKey string
	Type     FieldType
	Required bool
	Options  []Option
	// OptionsEndpoint loads select options from another list endpoint;
	// each option's value is the record id and its label is OptionLabel.
	OptionsEndpoint string
	OptionLabel     string
	Default         string
	Placeholder     string
	Validate        func(string) error
}

// Filter is an equality filter rendered in the filter bar.
type Filter struct {
	Key      string
	LabelKey string
	Type     FieldType
	Options  []Option
}

// FormData holds raw form values keyed by field key.
type FormData map[string]string

// Clone returns a copy of f.
func (f FormData) Clone() FormData {
	out := make(FormData, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Hooks run around mutations. Before-hooks may rewrite the form or abort it.
type Hooks[T any] struct {
	OnBeforeCreate func(FormData) (FormData, error)
	OnBeforeUpdate func(T, FormData) (FormData, error)
	OnAfterCreate  func(T)
	OnAfterUpdate  func(T)
	OnAfterDelete  func(id string)
}

// Config defines one CRUD page.
type Config[T any] struct {
	EntityKey   string
	APIEndpoint string
	// Optional overrides. Update and delete overrides may contain "{id}";
	// without it the id is sent as an ?id= query parameter.
	CreateEndpoint string
	UpdateEndpoint string
	DeleteEndpoint string

	I18nPrefix string
	Columns    []Column[T]
	FormFields []FormField
	Filters    []Filter

	InitialSortField     string
	InitialSortDirection SortDirection

	Hooks Hooks[T]

	// Record overrides the JSON projection used for search, filters, and sort.
	Record func(T) map[string]any
}

// Validate reports configuration mistakes that would break the page at runtime.
func (c Config[T]) Validate() error {
	var errs []error
	if c.EntityKey == "" {
		errs = append(errs, errors.New("entity key is required"))
	}
	if !strings.HasPrefix(c.APIEndpoint, "/") {
		errs = append(errs, fmt.Errorf("api endpoint %q must start with /", c.APIEndpoint))
	}
	if len(c.Columns) == 0 {
		errs = append(errs, errors.New("at least one column is required"))
	}
	seen := make(map[string]bool)
	for _, f := range c.FormFields {
		if f.Key == "" {
			errs = append(errs, errors.New("form field without key"))
			continue
		}
		if seen[f.Key] {
			errs = append(errs, fmt.Errorf("duplicate form field %q", f.Key))
		}
		seen[f.Key] = true
	}
	return errors.Join(errs...)
}

// Prefix returns the translation prefix, defaulting to the entity key.
func (c Config[T]) Prefix() string {
	if c.I18nPrefix != "" {
		return c.I18nPrefix
	}
	return c.EntityKey
}

// StartDirection returns the direction a newly activated column starts with.
func (c Config[T]) StartDirection() SortDirection {
	if c.InitialSortDirection == "" {
		return Asc
	}
	return c.InitialSortDirection
}

// CreateURL resolves the create endpoint.
func (c Config[T]) CreateURL() string {
	if c.CreateEndpoint != "" {
		return c.CreateEndpoint
	}
	return c.APIEndpoint
}

// UpdateURL resolves the update endpoint for id.
func (c Config[T]) UpdateURL(id string) string {
	return itemURL(c.UpdateEndpoint, c.APIEndpoint, id)
}

// DeleteURL resolves the delete endpoint for id.
func (c Config[T]) DeleteURL(id string) string {
	return itemURL(c.DeleteEndpoint, c.APIEndpoint, id)
}

func itemURL(override, base, id string) string {
	if override == "" {
		return strings.TrimRight(base, "/") + "/" + url.PathEscape(id)
	}
	if strings.Contains(override, "{id}") {
		return strings.ReplaceAll(override, "{id}", url.PathEscape(id))
	}
	sep := "?"
	if strings.Contains(override, "?") {
		sep = "&"
	}
	return override + sep + "id=" + url.QueryEscape(id)
}

// Field returns the form field with key, if any.
func (c Config[T]) Field(key string) (FormField, bool) {
	for _, f := range c.FormFields {
		if f.Key == key {
			return f, true
		}
	}
	return FormField{}, false
}

// Sortable reports whether key names a sortable column.
func (c Config[T]) Sortable(key string) bool {
	for _, col := range c.Columns {
		if col.Key == key {
			return col.Sortable
		}
	}
	return false
}
