// ABOUTME: Go source templates for scaffolded pages and API routes.
// ABOUTME: Rendered with text/template and then gofmt'ed.

package generator

import "text/template"

var pageTmpl = template.Must(template.New("page").Parse(`// ABOUTME: {{.Title}} page configuration.
// ABOUTME: Scaffolded by rigdesk create-page; edit columns and fields as needed.

package pages

import (
	"time"

	"{{.Module}}/internal/crud"
)

// {{.Name}} is one {{.Singular}} as served by {{.APIPath}}.
type {{.Name}} struct {
	ID        string    ` + "`json:\"id\"`" + `
	Name      string    ` + "`json:\"name\"`" + `
{{- range .Fields}}
	{{.GoName}} {{.GoType}} ` + "`json:\"{{.Key}}\"`" + `
{{- end}}
	CreatedAt time.Time ` + "`json:\"createdAt\"`" + `
	UpdatedAt time.Time ` + "`json:\"updatedAt\"`" + `
}

func (r {{.Name}}) GetID() string { return r.ID }

func init() {
	Define(crud.Config[{{.Name}}]{
		EntityKey:   "{{.Key}}",
		APIEndpoint: "{{.APIPath}}",
		Columns: []crud.Column[{{.Name}}]{
			{Key: "name", LabelKey: "{{.Prefix}}.fields.name", Sortable: true},
{{- range .Fields}}
			{Key: "{{.Key}}", LabelKey: "{{$.Prefix}}.fields.{{.Key}}"{{if .Sortable}}, Sortable: true{{end}}{{if .Options}}, ValuePrefix: "{{$.Prefix}}.{{.Key}}"{{end}}},
{{- end}}
			{Key: "createdAt", LabelKey: "{{.Prefix}}.fields.createdAt", Sortable: true},
		},
		FormFields: []crud.FormField{
			{Key: "name", LabelKey: "{{.Prefix}}.fields.name", Type: crud.FieldText, Required: true},
{{- range .Fields}}
			{Key: "{{.Key}}", LabelKey: "{{$.Prefix}}.fields.{{.Key}}", Type: {{.FieldType}}{{if .Required}}, Required: true{{end}}{{if .Options}},
				Options: crud.EnumOptions("{{$.Prefix}}.{{.Key}}", {{.OptionList}}){{end}}},
{{- end}}
		},
{{- if .Filters}}
		Filters: []crud.Filter{
{{- range .Filters}}
			{Key: "{{.Key}}", LabelKey: "{{$.Prefix}}.fields.{{.Key}}", Type: crud.FieldSelect,
				Options: crud.EnumOptions("{{$.Prefix}}.{{.Key}}", {{.OptionList}})},
{{- end}}
		},
{{- end}}
		InitialSortField: "name",
	})
}
`))

var routeTmpl = template.Must(template.New("route").Parse(`// ABOUTME: REST routes for {{.Title}} at {{.APIPath}}.
// ABOUTME: Scaffolded by rigdesk create-page; backed by the {{.Table}} record table.

package api

import (
	"context"
	"net/http"

	"{{.Module}}/internal/store"
)

func init() {
	Register("{{.APIPath}}", func(d Deps) (http.Handler, error) {
		table, err := d.Store.Records(context.Background(), "{{.Table}}")
		if err != nil {
			return nil, err
		}
		return NewResource[store.Record]("{{.Singular}}", table, ValidateRecord).
			WithExportColumns({{.ExportColumns}}).
			Routes(), nil
	})
}
`))
