// ABOUTME: Stateless HTML building blocks for CRUD pages.
// ABOUTME: Filter bar, sortable table, empty/loading/error states, modals, and toasts.

package admin

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"

	"github.com/2389/rigdesk/internal/crud"
)

// SelectOption is one rendered <option>.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// SearchInput renders the free-text search box.
func SearchInput(name, value, placeholder string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<input type="search" name="%s" value="%s" placeholder="%s" class="block w-64 rounded border-gray-300 shadow-sm px-3 py-2 border text-sm">`,
		html.EscapeString(name), html.EscapeString(value), html.EscapeString(placeholder)))
}

// SelectFilter renders a filter dropdown led by an "all" entry.
func SelectFilter(name, label, allLabel string, opts []SelectOption) template.HTML {
	var sb strings.Builder
	sb.WriteString(`<label class="text-sm text-gray-600 flex items-center gap-2">`)
	sb.WriteString(html.EscapeString(label))
	sb.WriteString(fmt.Sprintf(`<select name="%s" class="rounded border-gray-300 px-2 py-2 border text-sm" onchange="this.form.submit()">`, html.EscapeString(name)))

	anySelected := false
	for _, o := range opts {
		anySelected = anySelected || o.Selected
	}
	sb.WriteString(fmt.Sprintf(`<option value="all"%s>%s</option>`, selectedAttr(!anySelected), html.EscapeString(allLabel)))
	for _, o := range opts {
		sb.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`,
			html.EscapeString(o.Value), selectedAttr(o.Selected), html.EscapeString(o.Label)))
	}
	sb.WriteString(`</select></label>`)
	return template.HTML(sb.String())
}

// FilterBarData configures FilterBar.
type FilterBarData struct {
	Action      string
	Hidden      map[string]string
	Controls    []template.HTML
	SubmitLabel string
	ClearURL    string
	ClearLabel  string
}

// FilterBar wraps search and filter controls in a GET form.
func FilterBar(d FilterBarData) template.HTML {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<form method="get" action="%s" class="flex flex-wrap items-center gap-3 mb-4" role="search">`, html.EscapeString(d.Action)))

	keys := make([]string, 0, len(d.Hidden))
	for k := range d.Hidden {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`, html.EscapeString(k), html.EscapeString(d.Hidden[k])))
	}

	for _, c := range d.Controls {
		sb.WriteString(string(c))
	}
	sb.WriteString(fmt.Sprintf(`<button type="submit" class="px-3 py-2 bg-gray-100 text-gray-700 rounded text-sm hover:bg-gray-200">%s</button>`, html.EscapeString(d.SubmitLabel)))
	if d.ClearURL != "" {
		sb.WriteString(fmt.Sprintf(`<a href="%s" class="text-sm text-gray-500 hover:text-gray-700">%s</a>`, html.EscapeString(d.ClearURL), html.EscapeString(d.ClearLabel)))
	}
	sb.WriteString(`</form>`)
	return template.HTML(sb.String())
}

// SortHeader renders a toggling header link. Only the active column shows an indicator.
func SortHeader(label, href string, active bool, dir crud.SortDirection) template.HTML {
	indicator := ""
	ariaSort := ""
	if active {
		indicator = ` <span aria-hidden="true">▲</span>`
		ariaSort = ` aria-sort="ascending"`
		if dir == crud.Desc {
			indicator = ` <span aria-hidden="true">▼</span>`
			ariaSort = ` aria-sort="descending"`
		}
	}
	return template.HTML(fmt.Sprintf(`<a href="%s" class="hover:text-gray-700"%s>%s%s</a>`,
		html.EscapeString(href), ariaSort, html.EscapeString(label), indicator))
}

// TableRow is one rendered row. Cells are plain text and are escaped.
type TableRow struct {
	ID      string
	Cells   []string
	Actions template.HTML
}

// Table renders headers and rows. Headers are trusted HTML (see SortHeader).
func Table(headers []template.HTML, rows []TableRow, actionsLabel string) template.HTML {
	var sb strings.Builder
	sb.WriteString(`<table class="min-w-full divide-y divide-gray-200">`)
	sb.WriteString(`<thead class="bg-gray-50"><tr>`)
	for _, h := range headers {
		sb.WriteString(`<th class="px-6 py-3 text-left text-xs font-medium text-gray-500 uppercase">`)
		sb.WriteString(string(h))
		sb.WriteString(`</th>`)
	}
	if actionsLabel != "" {
		sb.WriteString(fmt.Sprintf(`<th class="px-6 py-3 text-right text-xs font-medium text-gray-500 uppercase">%s</th>`, html.EscapeString(actionsLabel)))
	}
	sb.WriteString(`</tr></thead>`)

	sb.WriteString(`<tbody class="bg-white divide-y divide-gray-200">`)
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf(`<tr data-id="%s">`, html.EscapeString(row.ID)))
		for _, cell := range row.Cells {
			sb.WriteString(`<td class="px-6 py-4 whitespace-nowrap text-sm text-gray-900">`)
			if cell == "" {
				sb.WriteString(`<span class="text-gray-400">—</span>`)
			} else {
				sb.WriteString(html.EscapeString(cell))
			}
			sb.WriteString(`</td>`)
		}
		if actionsLabel != "" {
			sb.WriteString(`<td class="px-6 py-4 whitespace-nowrap text-right text-sm space-x-3">`)
			sb.WriteString(string(row.Actions))
			sb.WriteString(`</td>`)
		}
		sb.WriteString(`</tr>`)
	}
	sb.WriteString(`</tbody></table>`)
	return template.HTML(sb.String())
}

// EmptyState renders the no-rows message with an optional call to action.
func EmptyState(message, ctaLabel, ctaURL string) template.HTML {
	var sb strings.Builder
	sb.WriteString(`<div class="text-center py-12 bg-white rounded-lg shadow" data-state="empty">`)
	sb.WriteString(fmt.Sprintf(`<p class="text-gray-500">%s</p>`, html.EscapeString(message)))
	if ctaURL != "" {
		sb.WriteString(fmt.Sprintf(`<a href="%s" class="mt-4 inline-block px-4 py-2 bg-purple-600 text-white rounded hover:bg-purple-700">%s</a>`,
			html.EscapeString(ctaURL), html.EscapeString(ctaLabel)))
	}
	sb.WriteString(`</div>`)
	return template.HTML(sb.String())
}

// Loading renders a loading placeholder.
func Loading(label string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<div class="py-12 text-center text-gray-500" data-state="loading" role="status"><span class="animate-pulse">%s</span></div>`,
		html.EscapeString(label)))
}

// ErrorPanel renders a load failure with a retry link.
func ErrorPanel(message, retryLabel, retryURL string) template.HTML {
	return template.HTML(fmt.Sprintf(
		`<div class="rounded-lg border border-red-200 bg-red-50 p-6 text-center" data-state="error" role="alert"><p class="text-red-700">%s</p><a href="%s" class="mt-4 inline-block px-4 py-2 bg-red-600 text-white rounded hover:bg-red-700">%s</a></div>`,
		html.EscapeString(message), html.EscapeString(retryURL), html.EscapeString(retryLabel)))
}

// ActionButtons renders the per-row edit and delete links.
func ActionButtons(editURL, editLabel, deleteURL, deleteLabel string) template.HTML {
	var parts []string
	if editURL != "" {
		parts = append(parts, fmt.Sprintf(`<a href="%s" class="text-blue-600 hover:text-blue-900">%s</a>`,
			html.EscapeString(editURL), html.EscapeString(editLabel)))
	}
	if deleteURL != "" {
		parts = append(parts, fmt.Sprintf(`<a href="%s" class="text-red-600 hover:text-red-900">%s</a>`,
			html.EscapeString(deleteURL), html.EscapeString(deleteLabel)))
	}
	return template.HTML(strings.Join(parts, " "))
}

// FormInput is one input of FormModal.
type FormInput struct {
	Name        string
	Label       string
	Type        crud.FieldType
	Value       string
	Required    bool
	Placeholder string
	Options     []SelectOption
}

// FormModalData configures FormModal.
type FormModalData struct {
	Title           string
	Action          string
	Inputs          []FormInput
	SubmitLabel     string
	SubmittingLabel string
	Submitting      bool
	CancelURL       string
	CancelLabel     string
	SelectLabel     string
}

// FormModal renders the create/edit dialog. While submitting the button is
// disabled and shows the in-progress label; the layout's submit guard applies
// the same state in the browser as soon as the form is sent.
func FormModal(d FormModalData) template.HTML {
	var sb strings.Builder
	sb.WriteString(`<div class="fixed inset-0 bg-gray-900/50 flex items-center justify-center z-40" role="dialog" aria-modal="true">`)
	sb.WriteString(fmt.Sprintf(`<form method="post" action="%s" class="bg-white rounded-lg shadow p-6 space-y-4 w-full max-w-2xl" data-submit-guard>`, html.EscapeString(d.Action)))
	sb.WriteString(fmt.Sprintf(`<h2 class="text-lg font-semibold text-gray-900">%s</h2>`, html.EscapeString(d.Title)))

	for _, in := range d.Inputs {
		sb.WriteString(`<div>`)
		sb.WriteString(fmt.Sprintf(`<label for="field-%s" class="block text-sm font-medium text-gray-700">%s</label>`,
			html.EscapeString(in.Name), html.EscapeString(in.Label)))
		sb.WriteString(renderInput(in, d.SelectLabel))
		sb.WriteString(`</div>`)
	}

	label := d.SubmitLabel
	disabled := ""
	if d.Submitting {
		label = d.SubmittingLabel
		disabled = ` disabled aria-busy="true"`
	}
	sb.WriteString(`<div class="flex gap-4">`)
	sb.WriteString(fmt.Sprintf(`<button type="submit" class="px-4 py-2 bg-purple-600 text-white rounded hover:bg-purple-700 disabled:opacity-50"%s data-submitting-label="%s">%s</button>`,
		disabled, html.EscapeString(d.SubmittingLabel), html.EscapeString(label)))
	sb.WriteString(fmt.Sprintf(`<a href="%s" class="px-4 py-2 bg-gray-200 text-gray-700 rounded hover:bg-gray-300">%s</a>`,
		html.EscapeString(d.CancelURL), html.EscapeString(d.CancelLabel)))
	sb.WriteString(`</div></form></div>`)
	return template.HTML(sb.String())
}

func renderInput(in FormInput, selectLabel string) string {
	const class = `mt-1 block w-full rounded border-gray-300 shadow-sm px-3 py-2 border`
	name := html.EscapeString(in.Name)
	id := "field-" + name
	req := requiredAttr(in.Required)
	placeholder := ""
	if in.Placeholder != "" {
		placeholder = fmt.Sprintf(` placeholder="%s"`, html.EscapeString(in.Placeholder))
	}

	switch in.Type {
	case crud.FieldTextarea:
		return fmt.Sprintf(`<textarea id="%s" name="%s"%s%s class="%s">%s</textarea>`,
			id, name, req, placeholder, class, html.EscapeString(in.Value))
	case crud.FieldSelect:
		var sb strings.Builder
		sb.WriteString(fmt.Sprintf(`<select id="%s" name="%s"%s class="%s">`, id, name, req, class))
		sb.WriteString(fmt.Sprintf(`<option value="">%s</option>`, html.EscapeString(selectLabel)))
		for _, o := range in.Options {
			sb.WriteString(fmt.Sprintf(`<option value="%s"%s>%s</option>`,
				html.EscapeString(o.Value), selectedAttr(o.Value == in.Value), html.EscapeString(o.Label)))
		}
		sb.WriteString(`</select>`)
		return sb.String()
	case crud.FieldNumber:
		return fmt.Sprintf(`<input type="number" step="any" id="%s" name="%s" value="%s"%s%s class="%s">`,
			id, name, html.EscapeString(in.Value), req, placeholder, class)
	case crud.FieldEmail, crud.FieldDate:
		return fmt.Sprintf(`<input type="%s" id="%s" name="%s" value="%s"%s%s class="%s">`,
			in.Type, id, name, html.EscapeString(in.Value), req, placeholder, class)
	default:
		return fmt.Sprintf(`<input type="text" id="%s" name="%s" value="%s"%s%s class="%s">`,
			id, name, html.EscapeString(in.Value), req, placeholder, class)
	}
}

// ConfirmModalData configures ConfirmModal.
type ConfirmModalData struct {
	Title           string
	Message         string
	Action          string
	ConfirmLabel    string
	SubmittingLabel string
	Submitting      bool
	CancelURL       string
	CancelLabel     string
}

// ConfirmModal renders the blocking delete confirmation.
func ConfirmModal(d ConfirmModalData) template.HTML {
	label := d.ConfirmLabel
	disabled := ""
	if d.Submitting {
		label = d.SubmittingLabel
		disabled = ` disabled aria-busy="true"`
	}
	return template.HTML(fmt.Sprintf(
		`<div class="fixed inset-0 bg-gray-900/50 flex items-center justify-center z-40" role="alertdialog" aria-modal="true">`+
			`<form method="post" action="%s" class="bg-white rounded-lg shadow p-6 space-y-4 w-full max-w-md" data-submit-guard>`+
			`<h2 class="text-lg font-semibold text-gray-900">%s</h2><p class="text-sm text-gray-600">%s</p>`+
			`<div class="flex gap-4"><button type="submit" class="px-4 py-2 bg-red-600 text-white rounded hover:bg-red-700 disabled:opacity-50"%s data-submitting-label="%s">%s</button>`+
			`<a href="%s" class="px-4 py-2 bg-gray-200 text-gray-700 rounded hover:bg-gray-300">%s</a></div></form></div>`,
		html.EscapeString(d.Action), html.EscapeString(d.Title), html.EscapeString(d.Message),
		disabled, html.EscapeString(d.SubmittingLabel), html.EscapeString(label), html.EscapeString(d.CancelURL), html.EscapeString(d.CancelLabel)))
}

// Toasts renders toast messages inline.
func Toasts(toasts []crud.Toast) template.HTML {
	if len(toasts) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<div class="fixed top-4 right-4 space-y-2 z-50" aria-live="polite">`)
	for _, t := range toasts {
		class := "bg-green-600"
		if t.Kind == crud.ToastError {
			class = "bg-red-600"
		}
		sb.WriteString(fmt.Sprintf(`<div class="toast %s text-white px-4 py-2 rounded shadow" data-toast="%s">%s</div>`,
			class, html.EscapeString(string(t.Kind)), html.EscapeString(t.Message)))
	}
	sb.WriteString(`</div>`)
	return template.HTML(sb.String())
}

// ToastTrigger encodes the last toast as an HX-Trigger showToast event.
func ToastTrigger(toasts []crud.Toast) (string, bool) {
	if len(toasts) == 0 {
		return "", false
	}
	data, err := json.Marshal(map[string]crud.Toast{"showToast": toasts[len(toasts)-1]})
	if err != nil {
		return "", false
	}
	return string(data), true
}

func selectedAttr(selected bool) string {
	if selected {
		return " selected"
	}
	return ""
}

func requiredAttr(required bool) string {
	if required {
		return " required"
	}
	return ""
}
