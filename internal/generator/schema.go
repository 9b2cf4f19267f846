// ABOUTME: YAML field schema accepted by create-page --fields.
// ABOUTME: Declares extra columns and form inputs plus their per-locale labels.

package generator

import (
	"fmt"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// Schema is the --fields document.
type Schema struct {
	// Title overrides the page title per locale.
	Title  map[string]string `yaml:"title"`
	Fields []Field           `yaml:"fields"`
}

// Field is one extra attribute of a scaffolded entity.
type Field struct {
	Key      string            `yaml:"key"`
	Type     string            `yaml:"type"`
	Required bool              `yaml:"required"`
	Sortable bool              `yaml:"sortable"`
	Filter   bool              `yaml:"filter"`
	Options  []string          `yaml:"options"`
	Label    map[string]string `yaml:"label"`
}

var (
	fieldKeyPattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)
	fieldTypes      = []string{"text", "email", "number", "select", "textarea", "date"}
	// reservedFieldKeys are record columns or locale keys the page already owns.
	reservedFieldKeys = []string{"id", "name", "createdAt", "updatedAt", "title", "subtitle", "actions", "fields", "messages", "emptyCta", "searchPlaceholder"}
)

// LoadSchema reads and validates a --fields file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fields file: %w", err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes and validates a --fields document.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse fields file: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) validate() error {
	seen := make(map[string]bool)
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Type == "" {
			f.Type = "text"
		}
		switch {
		case !fieldKeyPattern.MatchString(f.Key):
			return fmt.Errorf("field %d: key %q must be lowerCamelCase", i+1, f.Key)
		case slices.Contains(reservedFieldKeys, f.Key):
			return fmt.Errorf("field %q: key is reserved", f.Key)
		case seen[f.Key]:
			return fmt.Errorf("field %q: duplicate key", f.Key)
		case !slices.Contains(fieldTypes, f.Type):
			return fmt.Errorf("field %q: unknown type %q", f.Key, f.Type)
		case f.Type == "select" && len(f.Options) == 0:
			return fmt.Errorf("field %q: select fields need options", f.Key)
		case f.Filter && f.Type != "select":
			return fmt.Errorf("field %q: only select fields can be filters", f.Key)
		}
		seen[f.Key] = true
	}
	return nil
}
