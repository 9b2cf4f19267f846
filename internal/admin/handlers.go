// ABOUTME: HTTP handlers for the dashboard and the read-only request log page.
// ABOUTME: Both read the store directly; entity pages go through the REST API instead.

package admin

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"log"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/2389/rigdesk/internal/crud"
	"github.com/2389/rigdesk/internal/i18n"
	"github.com/2389/rigdesk/internal/store"
)

// LogsPath is where the request log page is mounted.
const LogsPath = "/admin/logs"

// logsLimit caps how many log rows the page fetches.
const logsLimit = 200

var logMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

type Handlers struct {
	env *Env
}

func NewHandlers(env *Env) *Handlers {
	return &Handlers{env: env}
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
	r.Get(LogsPath, h.logsList)
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tr := h.env.Translator(r)

	counts, err := h.env.Store.Counts(ctx)
	if err != nil {
		log.Printf("admin: dashboard counts: %v", err)
		h.env.render(w, r, tr, tr.T("common.dashboard.title"),
			ErrorPanel(tr.T("common.states.error"), tr.T("common.actions.retry"), "/"), "", http.StatusInternalServerError)
		return
	}
	stats, err := h.env.Store.GetRequestLogStats(ctx)
	if err != nil {
		log.Printf("admin: dashboard stats: %v", err)
		stats = &store.RequestLogStats{}
	}

	var sb strings.Builder
	sb.WriteString(`<h1 class="text-2xl font-bold text-gray-900">` + html.EscapeString(tr.T("common.dashboard.title")) + `</h1>`)
	sb.WriteString(`<p class="text-sm text-gray-500 mb-6">` + html.EscapeString(tr.T("common.dashboard.subtitle")) + `</p>`)

	sb.WriteString(`<div class="grid grid-cols-2 md:grid-cols-3 gap-4 mb-8">`)
	for _, item := range h.env.Nav {
		entity := strings.TrimPrefix(item.Path, "/")
		n, ok := counts[entity]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf(
			`<a href="%s" class="bg-white rounded-lg shadow p-5 hover:shadow-md" data-entity="%s"><div class="text-sm text-gray-500">%s</div><div class="text-3xl font-semibold text-gray-900">%d</div><div class="text-xs text-gray-400">%s</div></a>`,
			html.EscapeString(item.Path), html.EscapeString(entity), html.EscapeString(tr.T(item.LabelKey)), n,
			html.EscapeString(tr.T("common.dashboard.records"))))
	}
	sb.WriteString(`</div>`)

	sb.WriteString(`<div class="grid grid-cols-2 md:grid-cols-4 gap-4">`)
	for _, card := range []struct {
		key   string
		value int
	}{
		{"common.dashboard.totalRequests", stats.TotalRequests},
		{"common.dashboard.todayRequests", stats.TodayRequests},
		{"common.dashboard.errorRequests", stats.ErrorRequests},
		{"common.dashboard.avgDuration", stats.AvgDurationMs},
	} {
		sb.WriteString(fmt.Sprintf(`<div class="bg-white rounded-lg shadow p-4"><div class="text-xs text-gray-500">%s</div><div class="text-xl font-semibold">%d</div></div>`,
			html.EscapeString(tr.T(card.key)), card.value))
	}
	sb.WriteString(`</div>`)
	sb.WriteString(fmt.Sprintf(`<a href="%s" class="mt-4 inline-block text-sm text-purple-700 hover:underline">%s</a>`,
		LogsPath, html.EscapeString(tr.T("common.dashboard.viewLogs"))))

	h.env.render(w, r, tr, tr.T("common.dashboard.title"), template.HTML(sb.String()), "", http.StatusOK)
}

// logColumns are the sortable columns of the log table, in display order.
var logColumns = []string{"timestamp", "entity", "method", "path", "statusCode", "durationMs", "operator", "ipAddress"}

func (h *Handlers) logsList(w http.ResponseWriter, r *http.Request) {
	tr := h.env.Translator(r)
	q := r.URL.Query()
	filters := FiltersFromQuery(q)

	query := &store.RequestLogQuery{Limit: logsLimit}
	if v := filters["entity"]; crud.FilterActive(v) {
		query.Entity = v
	}
	if v := filters["method"]; crud.FilterActive(v) {
		query.Method = v
	}
	if v := filters["statusCode"]; crud.FilterActive(v) {
		query.StatusCode, _ = strconv.Atoi(v)
	}

	logs, err := h.env.Store.GetRequestLogs(r.Context(), query)
	if err != nil {
		log.Printf("admin: request logs: %v", err)
		h.env.render(w, r, tr, tr.T("logs.title"),
			ErrorPanel(tr.T("common.states.error"), tr.T("common.actions.retry"), NewURL(LogsPath).PreserveFromRequest(r).String()),
			"", http.StatusInternalServerError)
		return
	}

	view := crud.ViewQuery{Search: q.Get(ParamSearch)}
	if field := q.Get(ParamSort); slices.Contains(logColumns, field) {
		view.SortField = field
		view.SortDirection = crud.ParseSortDirection(q.Get(ParamDir))
	}
	rows := crud.Derive(logs, func(l store.RequestLog) map[string]any { return crud.Project(l) }, view)

	h.env.render(w, r, tr, tr.T("logs.title"), h.logsBody(r, tr, view, filters, rows), "", http.StatusOK)
}

func (h *Handlers) logsBody(r *http.Request, tr *i18n.Translator, view crud.ViewQuery, filters map[string]string, logs []store.RequestLog) template.HTML {
	var sb strings.Builder
	sb.WriteString(`<h1 class="text-2xl font-bold text-gray-900">` + html.EscapeString(tr.T("logs.title")) + `</h1>`)
	sb.WriteString(`<p class="text-sm text-gray-500 mb-6">` + html.EscapeString(tr.T("logs.subtitle")) + `</p>`)

	var entityOpts []SelectOption
	for _, item := range h.env.Nav {
		entity := strings.TrimPrefix(item.Path, "/")
		if entity == "" || item.Path == LogsPath {
			continue
		}
		entityOpts = append(entityOpts, SelectOption{Value: entity, Label: tr.T(item.LabelKey), Selected: filters["entity"] == entity})
	}
	var methodOpts []SelectOption
	for _, m := range logMethods {
		methodOpts = append(methodOpts, SelectOption{Value: m, Label: m, Selected: filters["method"] == m})
	}

	hidden := map[string]string{}
	if view.SortField != "" {
		hidden[ParamSort] = view.SortField
		hidden[ParamDir] = string(view.SortDirection)
	}
	if lang := r.URL.Query().Get(ParamLanguage); lang != "" {
		hidden[ParamLanguage] = lang
	}
	sb.WriteString(string(FilterBar(FilterBarData{
		Action: LogsPath,
		Hidden: hidden,
		Controls: []template.HTML{
			SearchInput(ParamSearch, view.Search, tr.T("logs.searchPlaceholder")),
			SelectFilter(FilterPrefix+"entity", tr.T("logs.fields.entity"), tr.T("common.filters.all"), entityOpts),
			SelectFilter(FilterPrefix+"method", tr.T("logs.fields.method"), tr.T("common.filters.all"), methodOpts),
		},
		SubmitLabel: tr.T("common.actions.search"),
		ClearURL:    NewURL(LogsPath).PreserveFromRequest(r).ClearFilters().String(),
		ClearLabel:  tr.T("common.actions.clearFilters"),
	})))

	if len(logs) == 0 {
		sb.WriteString(string(EmptyState(tr.T("logs.emptyCta"), "", "")))
		return template.HTML(sb.String())
	}

	headers := make([]template.HTML, len(logColumns))
	for i, key := range logColumns {
		field, dir := crud.NextSort(view.SortField, view.SortDirection, key, crud.Desc)
		href := NewURL(LogsPath).PreserveFromRequest(r).WithSort(field, string(dir)).String()
		headers[i] = SortHeader(tr.T("logs.fields."+key), href, view.SortField == key, view.SortDirection)
	}

	rows := make([]TableRow, len(logs))
	for i, l := range logs {
		rows[i] = TableRow{
			ID: l.GetID(),
			Cells: []string{
				l.Timestamp.Format("2006-01-02 15:04:05"),
				l.Entity,
				l.Method,
				l.Path,
				strconv.Itoa(l.StatusCode),
				strconv.Itoa(l.DurationMs),
				l.Operator,
				l.IPAddress,
			},
			Actions: logDetails(l),
		}
	}
	sb.WriteString(`<div class="bg-white rounded-lg shadow overflow-x-auto">`)
	sb.WriteString(string(Table(headers, rows, tr.T("common.table.actions"))))
	sb.WriteString(`</div>`)
	return template.HTML(sb.String())
}

// logDetails renders the bodies and error of one log entry behind a disclosure.
func logDetails(l store.RequestLog) template.HTML {
	if l.RequestBody == "" && l.ResponseBody == "" && l.Error == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<details class="text-left"><summary class="cursor-pointer text-blue-600">JSON</summary>`)
	if l.Error != "" {
		sb.WriteString(`<p class="text-red-600 text-xs">` + html.EscapeString(l.Error) + `</p>`)
	}
	for _, body := range []string{l.RequestBody, l.ResponseBody} {
		if body != "" {
			sb.WriteString(`<pre class="text-xs bg-gray-50 p-2 rounded max-w-xl overflow-x-auto">` + html.EscapeString(prettyJSON(body)) + `</pre>`)
		}
	}
	sb.WriteString(`</details>`)
	return template.HTML(sb.String())
}

// prettyJSON formats JSON with indentation, or returns original string if not valid JSON
func prettyJSON(s string) string {
	if s == "" {
		return s
	}
	var obj any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return s
	}
	pretty, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return s
	}
	return string(pretty)
}
