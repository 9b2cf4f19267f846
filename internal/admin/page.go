// ABOUTME: HTTP handler that drives a crud.Session for one entity page.
// ABOUTME: View state lives in the query string; forms post back and the page re-renders with toasts.

package admin

import (
	"context"
	"errors"
	"html"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/2389/rigdesk/internal/auth"
	"github.com/2389/rigdesk/internal/crud"
	"github.com/2389/rigdesk/internal/i18n"
)

// internalBaseURL is the origin used for in-process API calls.
const internalBaseURL = "http://rigdesk.internal"

// Page serves the list, modals, and mutations of one entity.
type Page[T crud.Item] struct {
	cfg      crud.Config[T]
	env      *Env
	basePath string

	// inflight holds the mutations currently running, keyed by operator, action, and id.
	inflight sync.Map
}

// NewPage creates a page mounted at "/<EntityKey>".
func NewPage[T crud.Item](cfg crud.Config[T], env *Env) *Page[T] {
	return &Page[T]{cfg: cfg, env: env, basePath: "/" + cfg.EntityKey}
}

func (p *Page[T]) Config() crud.Config[T] { return p.cfg }

// Routes returns the page router, to be mounted at the page's base path.
func (p *Page[T]) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", p.list)
	r.Post("/", p.create)
	r.Post("/{id}", p.update)
	r.Post("/{id}/delete", p.remove)
	return r
}

// session builds a per-request session whose API calls carry the caller's identity.
func (p *Page[T]) session(r *http.Request) (*crud.Session[T], *crud.ToastBuffer) {
	hc := &http.Client{Transport: crud.HandlerTransport{Handler: p.env.API, RemoteAddr: r.RemoteAddr}}
	header := http.Header{}
	header.Set(auth.OperatorHeader, auth.OperatorFromContext(r.Context()))
	if ua := r.Header.Get("User-Agent"); ua != "" {
		header.Set("User-Agent", ua)
	}
	client := crud.NewClient[T](hc, internalBaseURL).WithHeader(header)

	toasts := &crud.ToastBuffer{}
	s := crud.NewSession(p.cfg, client, p.env.Translator(r), toasts)
	return s, toasts
}

// applyView restores search, filters, and sort from the query string.
func (p *Page[T]) applyView(s *crud.Session[T], r *http.Request) {
	q := r.URL.Query()
	s.SetSearch(q.Get(ParamSearch))
	filters := FiltersFromQuery(q)
	for _, f := range p.cfg.Filters {
		if v, ok := filters[f.Key]; ok {
			s.SetFilter(f.Key, v)
		}
	}
	if field := q.Get(ParamSort); field != "" && p.cfg.Sortable(field) {
		s.SetSort(field, crud.ParseSortDirection(q.Get(ParamDir)))
	}
}

func (p *Page[T]) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, toasts := p.session(r)
	s.Load(ctx)
	p.applyView(s, r)

	q := r.URL.Query()
	var err error
	switch crud.ModalKind(q.Get(ParamModal)) {
	case crud.ModalCreate:
		s.OpenCreate()
		s.LoadOptions(ctx)
	case crud.ModalEdit:
		if err = s.OpenEdit(q.Get(ParamID)); err == nil {
			s.LoadOptions(ctx)
		}
	case crud.ModalDelete:
		err = s.OpenDelete(q.Get(ParamID))
	}
	if errors.Is(err, crud.ErrItemNotFound) && s.LoadError() == nil {
		toasts.Notify(crud.Toast{Kind: crud.ToastError, Message: s.Translator().T("common.messages.genericError")})
	}
	p.render(w, r, s, toasts, http.StatusOK)
}

func (p *Page[T]) create(w http.ResponseWriter, r *http.Request) {
	p.mutate(w, r, crud.ActionCreate, func(ctx context.Context, s *crud.Session[T]) error {
		s.OpenCreate()
		s.SetForm(postedForm(r))
		return s.SubmitCreate(ctx)
	})
}

func (p *Page[T]) update(w http.ResponseWriter, r *http.Request) {
	p.mutate(w, r, crud.ActionUpdate, func(ctx context.Context, s *crud.Session[T]) error {
		if err := s.OpenEdit(chi.URLParam(r, "id")); err != nil {
			return err
		}
		s.SetForm(postedForm(r))
		return s.SubmitUpdate(ctx)
	})
}

func (p *Page[T]) remove(w http.ResponseWriter, r *http.Request) {
	p.mutate(w, r, crud.ActionDelete, func(ctx context.Context, s *crud.Session[T]) error {
		if err := s.OpenDelete(chi.URLParam(r, "id")); err != nil {
			return err
		}
		return s.ConfirmDelete(ctx)
	})
}

// mutate loads the list, runs op, and re-renders. Failures keep the modal open.
// A repeat of a mutation that is still running for the same operator is rejected.
func (p *Page[T]) mutate(w http.ResponseWriter, r *http.Request, action crud.Action, op func(context.Context, *crud.Session[T]) error) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	s, toasts := p.session(r)
	s.Load(ctx)
	p.applyView(s, r)

	status := http.StatusOK
	err := crud.ErrInFlight
	key := inflightKey(r, action)
	if _, running := p.inflight.LoadOrStore(key, struct{}{}); !running {
		func() {
			defer p.inflight.Delete(key)
			err = op(ctx, s)
		}()
	}
	if err != nil {
		status = http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, crud.ErrInFlight):
			status = http.StatusConflict
			toasts.Notify(crud.Toast{Kind: crud.ToastError, Message: s.Translator().T("common.messages.inFlight")})
		case errors.Is(err, crud.ErrItemNotFound):
			status = http.StatusNotFound
			toasts.Notify(crud.Toast{Kind: crud.ToastError, Message: s.Translator().T("common.messages.genericError")})
		}
		if s.Modal().Kind != crud.ModalNone {
			s.LoadOptions(ctx)
		}
	}
	p.render(w, r, s, toasts, status)
}

func inflightKey(r *http.Request, action crud.Action) string {
	return auth.OperatorFromContext(r.Context()) + "|" + string(action) + "|" + chi.URLParam(r, "id")
}

func postedForm(r *http.Request) crud.FormData {
	out := make(crud.FormData, len(r.PostForm))
	for k := range r.PostForm {
		out[k] = r.PostForm.Get(k)
	}
	return out
}

func (p *Page[T]) render(w http.ResponseWriter, r *http.Request, s *crud.Session[T], toasts *crud.ToastBuffer, status int) {
	tr := s.Translator()
	body := p.body(r, s)
	pending := toasts.Drain()
	if trigger, ok := ToastTrigger(pending); ok {
		w.Header().Set("HX-Trigger", trigger)
	}
	p.env.render(w, r, tr, tr.T(p.cfg.Prefix()+".title"), body, Toasts(pending), status)
}

func (p *Page[T]) viewURL(r *http.Request, path string) *URLBuilder {
	return NewURL(path).PreserveFromRequest(r)
}

func (p *Page[T]) itemPath(id string) string {
	return p.basePath + "/" + url.PathEscape(id)
}

func (p *Page[T]) body(r *http.Request, s *crud.Session[T]) template.HTML {
	tr := s.Translator()
	prefix := p.cfg.Prefix()
	q := s.Query()

	var sb strings.Builder

	// Header with title, subtitle, create and export actions
	createURL := p.viewURL(r, p.basePath).WithModal(string(crud.ModalCreate), "").String()
	sb.WriteString(`<div class="flex items-start justify-between mb-6"><div>`)
	sb.WriteString(`<h1 class="text-2xl font-bold text-gray-900">` + html.EscapeString(tr.T(prefix+".title")) + `</h1>`)
	if tr.Has(prefix + ".subtitle") {
		sb.WriteString(`<p class="text-sm text-gray-500">` + html.EscapeString(tr.T(prefix+".subtitle")) + `</p>`)
	}
	sb.WriteString(`</div><div class="flex gap-2">`)
	sb.WriteString(`<a href="` + html.EscapeString(p.cfg.APIEndpoint+"/export?format=csv") + `" class="px-3 py-2 bg-white border rounded text-sm text-gray-700">` + html.EscapeString(tr.T("common.actions.export")) + `</a>`)
	sb.WriteString(`<a href="` + html.EscapeString(p.cfg.APIEndpoint+"/export?format=xlsx") + `" class="px-3 py-2 bg-white border rounded text-sm text-gray-700">` + html.EscapeString(tr.T("common.actions.exportExcel")) + `</a>`)
	sb.WriteString(`<a href="` + html.EscapeString(createURL) + `" class="px-4 py-2 bg-purple-600 text-white rounded hover:bg-purple-700 text-sm">` +
		html.EscapeString(tr.First(prefix+".actions.create", "common.actions.create")) + `</a>`)
	sb.WriteString(`</div></div>`)

	sb.WriteString(string(p.filterBar(r, s, tr, q)))

	switch {
	case !s.Loaded():
		sb.WriteString(string(Loading(tr.T("common.states.loading"))))
	case s.LoadError() != nil:
		sb.WriteString(string(ErrorPanel(tr.T("common.states.error"), tr.T("common.actions.retry"), p.viewURL(r, p.basePath).String())))
	default:
		rows := s.View()
		if len(rows) == 0 {
			sb.WriteString(string(EmptyState(tr.T("common.states.empty"), tr.First(prefix+".emptyCta", "common.actions.create"), createURL)))
		} else {
			sb.WriteString(`<div class="bg-white rounded-lg shadow overflow-x-auto">`)
			sb.WriteString(string(Table(p.headers(r, tr, q), p.rows(r, s, rows), tr.T("common.table.actions"))))
			sb.WriteString(`</div>`)
		}
	}

	sb.WriteString(string(p.modal(r, s, tr)))
	return template.HTML(sb.String())
}

func (p *Page[T]) filterBar(r *http.Request, s *crud.Session[T], tr *i18n.Translator, q crud.ViewQuery) template.HTML {
	prefix := p.cfg.Prefix()
	controls := []template.HTML{SearchInput(ParamSearch, q.Search, tr.First(prefix+".searchPlaceholder", "common.actions.search"))}
	for _, f := range p.cfg.Filters {
		opts := make([]SelectOption, len(f.Options))
		for i, o := range f.Options {
			opts[i] = SelectOption{Value: o.Value, Label: crud.OptionText(tr, o), Selected: q.Filters[f.Key] == o.Value}
		}
		controls = append(controls, SelectFilter(FilterPrefix+f.Key, tr.T(f.LabelKey), tr.T("common.filters.all"), opts))
	}

	hidden := map[string]string{}
	if q.SortField != "" {
		hidden[ParamSort] = q.SortField
		hidden[ParamDir] = string(q.SortDirection)
	}
	if lang := r.URL.Query().Get(ParamLanguage); lang != "" {
		hidden[ParamLanguage] = lang
	}

	return FilterBar(FilterBarData{
		Action:      p.basePath,
		Hidden:      hidden,
		Controls:    controls,
		SubmitLabel: tr.T("common.actions.search"),
		ClearURL:    p.viewURL(r, p.basePath).ClearFilters().String(),
		ClearLabel:  tr.T("common.actions.clearFilters"),
	})
}

func (p *Page[T]) headers(r *http.Request, tr *i18n.Translator, q crud.ViewQuery) []template.HTML {
	headers := make([]template.HTML, len(p.cfg.Columns))
	for i, col := range p.cfg.Columns {
		label := tr.T(col.LabelKey)
		if !col.Sortable {
			headers[i] = template.HTML(html.EscapeString(label))
			continue
		}
		field, dir := crud.NextSort(q.SortField, q.SortDirection, col.Key, p.cfg.StartDirection())
		href := p.viewURL(r, p.basePath).WithSort(field, string(dir)).String()
		headers[i] = SortHeader(label, href, q.SortField == col.Key, q.SortDirection)
	}
	return headers
}

func (p *Page[T]) rows(r *http.Request, s *crud.Session[T], items []T) []TableRow {
	tr := s.Translator()
	rows := make([]TableRow, len(items))
	for i, item := range items {
		cells := make([]string, len(p.cfg.Columns))
		for j, col := range p.cfg.Columns {
			cells[j] = s.CellText(col, item)
		}
		id := item.GetID()
		rows[i] = TableRow{
			ID:    id,
			Cells: cells,
			Actions: ActionButtons(
				p.viewURL(r, p.basePath).WithModal(string(crud.ModalEdit), id).String(), tr.T("common.actions.edit"),
				p.viewURL(r, p.basePath).WithModal(string(crud.ModalDelete), id).String(), tr.T("common.actions.delete"),
			),
		}
	}
	return rows
}

func (p *Page[T]) modal(r *http.Request, s *crud.Session[T], tr *i18n.Translator) template.HTML {
	m := s.Modal()
	prefix := p.cfg.Prefix()
	cancelURL := p.viewURL(r, p.basePath).String()

	switch m.Kind {
	case crud.ModalCreate, crud.ModalEdit:
		inputs := make([]FormInput, len(p.cfg.FormFields))
		for i, f := range p.cfg.FormFields {
			var opts []SelectOption
			for _, o := range s.Options(f) {
				opts = append(opts, SelectOption{Value: o.Value, Label: crud.OptionText(tr, o)})
			}
			inputs[i] = FormInput{
				Name:        f.Key,
				Label:       tr.T(f.LabelKey),
				Type:        f.Type,
				Value:       m.Form[f.Key],
				Required:    f.Required,
				Placeholder: f.Placeholder,
				Options:     opts,
			}
		}

		d := FormModalData{
			Inputs:      inputs,
			CancelURL:   cancelURL,
			CancelLabel: tr.T("common.actions.cancel"),
			SelectLabel: tr.T("common.select.placeholder"),
		}
		if m.Kind == crud.ModalCreate {
			d.Title = tr.First(prefix+".actions.create", "common.actions.create")
			d.Action = p.viewURL(r, p.basePath).String()
			d.SubmitLabel = tr.T("common.actions.create")
			d.SubmittingLabel = tr.T("common.actions.creating")
			d.Submitting = s.Submitting(crud.ActionCreate)
		} else {
			d.Title = tr.T("common.actions.edit")
			d.Action = p.viewURL(r, p.itemPath(m.Selected.GetID())).String()
			d.SubmitLabel = tr.T("common.actions.save")
			d.SubmittingLabel = tr.T("common.actions.saving")
			d.Submitting = s.Submitting(crud.ActionUpdate)
		}
		return FormModal(d)

	case crud.ModalDelete:
		return ConfirmModal(ConfirmModalData{
			Title:           tr.T("common.confirmDelete.title"),
			Message:         tr.T("common.confirmDelete.message"),
			Action:          p.viewURL(r, p.itemPath(m.Selected.GetID())+"/delete").String(),
			ConfirmLabel:    tr.T("common.actions.delete"),
			SubmittingLabel: tr.T("common.actions.deleting"),
			Submitting:      s.Submitting(crud.ActionDelete),
			CancelURL:       cancelURL,
			CancelLabel:     tr.T("common.actions.cancel"),
		})
	}
	return ""
}
