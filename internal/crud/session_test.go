// ABOUTME: Tests for the CRUD session against an in-process fake API.
// ABOUTME: Verifies load/retry, re-fetch after mutations, toasts, hooks, and the in-flight guard.

package crud

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/2389/rigdesk/internal/i18n"
)

// fakeAPI serves /api/widgets with the {success,data,error} envelope.
type fakeAPI struct {
	mu       sync.Mutex
	items    []widget
	nextID   int
	calls    []string
	bodies   []map[string]any
	failList bool
	failWith string // error message for mutations
	entered  chan struct{}
	release  chan struct{}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.RequestURI())
	f.mu.Unlock()

	if r.Method != http.MethodGet && f.entered != nil {
		f.entered <- struct{}{}
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	writeJSON := func(status int, v map[string]any) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/widgets"), "/")
	switch {
	case r.Method == http.MethodGet:
		if f.failList {
			writeJSON(http.StatusInternalServerError, map[string]any{"success": false, "error": "boom"})
			return
		}
		writeJSON(http.StatusOK, map[string]any{"success": true, "data": f.items})
	case f.failWith != "":
		writeJSON(http.StatusBadRequest, map[string]any{"success": false, "error": f.failWith})
	case r.Method == http.MethodPost:
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.bodies = append(f.bodies, body)
		f.nextID++
		item := widget{ID: fmt.Sprintf("srv-%d", f.nextID), Name: fmt.Sprint(body["name"]), Status: fmt.Sprint(body["status"])}
		if p, ok := body["price"].(float64); ok {
			item.Price = p
		}
		f.items = append(f.items, item)
		writeJSON(http.StatusCreated, map[string]any{"success": true, "data": item})
	case r.Method == http.MethodPut:
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		f.bodies = append(f.bodies, body)
		for i := range f.items {
			if f.items[i].ID == id {
				f.items[i].Name = fmt.Sprint(body["name"])
				writeJSON(http.StatusOK, map[string]any{"success": true, "data": f.items[i]})
				return
			}
		}
		writeJSON(http.StatusNotFound, map[string]any{"success": false, "error": "widget not found"})
	case r.Method == http.MethodDelete:
		for i := range f.items {
			if f.items[i].ID == id {
				f.items = append(f.items[:i], f.items[i+1:]...)
				writeJSON(http.StatusOK, map[string]any{"success": true})
				return
			}
		}
		writeJSON(http.StatusNotFound, map[string]any{"success": false, "error": "widget not found"})
	}
}

func (f *fakeAPI) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func widgetConfig() Config[widget] {
	return Config[widget]{
		EntityKey:   "widgets",
		APIEndpoint: "/api/widgets",
		Columns: []Column[widget]{
			{Key: "name", LabelKey: "widgets.fields.name", Sortable: true},
			{Key: "status", LabelKey: "widgets.fields.status", ValuePrefix: "customers.status"},
		},
		FormFields: []FormField{
			{Key: "name", LabelKey: "widgets.fields.name", Type: FieldText, Required: true},
			{Key: "status", LabelKey: "widgets.fields.status", Type: FieldSelect, Default: "ACTIVE"},
			{Key: "price", LabelKey: "widgets.fields.price", Type: FieldNumber},
		},
	}
}

func newTestSession(t *testing.T, api *fakeAPI, cfg Config[widget]) (*Session[widget], *ToastBuffer) {
	t.Helper()
	hc := &http.Client{Transport: HandlerTransport{Handler: api}}
	client := NewClient[widget](hc, "http://rigdesk.test")
	toasts := &ToastBuffer{}
	tr := i18n.MustLoad().Translator("en")
	return NewSession(cfg, client, tr, toasts), toasts
}

func TestLoadAndView(t *testing.T) {
	api := &fakeAPI{items: []widget{{ID: "1", Name: "Acme"}, {ID: "2", Name: "Zeta"}}}
	s, _ := newTestSession(t, api, widgetConfig())

	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := len(s.View()); got != 2 {
		t.Errorf("expected 2 rows, got %d", got)
	}
	if api.count("GET /api/widgets") != 1 {
		t.Errorf("expected exactly one GET, calls: %v", api.calls)
	}
}

func TestFailedLoadThenRetry(t *testing.T) {
	api := &fakeAPI{items: []widget{{ID: "1", Name: "Acme"}}, failList: true}
	s, _ := newTestSession(t, api, widgetConfig())

	err := s.Load(context.Background())
	if err == nil {
		t.Fatal("expected load error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Errorf("expected APIError 500, got %v", err)
	}
	if s.LoadError() == nil || len(s.Items()) != 0 || len(s.View()) != 0 {
		t.Errorf("failed load should leave items empty and an error set")
	}

	api.mu.Lock()
	api.failList = false
	api.mu.Unlock()

	if err := s.Retry(context.Background()); err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if s.LoadError() != nil || len(s.View()) != 1 {
		t.Errorf("retry should recover, rows=%d err=%v", len(s.View()), s.LoadError())
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.calls) != 2 || api.calls[0] != api.calls[1] {
		t.Errorf("retry should re-issue the identical request, calls: %v", api.calls)
	}
}

func TestCreateRefetchesOnceAndShowsNewItem(t *testing.T) {
	api := &fakeAPI{items: []widget{{ID: "1", Name: "Acme"}}}
	cfg := widgetConfig()
	var created widget
	cfg.Hooks.OnAfterCreate = func(w widget) { created = w }
	s, toasts := newTestSession(t, api, cfg)

	ctx := context.Background()
	if err := s.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	s.OpenCreate()
	if got := s.Modal().Form["status"]; got != "ACTIVE" {
		t.Errorf("expected default status, got %q", got)
	}
	s.SetForm(FormData{"name": "Gamma", "price": "12.50", "ignored": "x"})

	if err := s.SubmitCreate(ctx); err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}

	if n := api.count("GET"); n != 2 {
		t.Errorf("expected one initial GET and exactly one re-GET, got %d", n)
	}
	if n := api.count("POST /api/widgets"); n != 1 {
		t.Errorf("expected one POST, got %d", n)
	}
	if created.ID != "srv-1" {
		t.Errorf("OnAfterCreate got %+v", created)
	}

	found := false
	for _, w := range s.View() {
		if w.ID == created.ID {
			found = true
		}
	}
	if !found {
		t.Errorf("created item %s not in view %v", created.ID, ids(s.View()))
	}

	if s.Modal().Kind != ModalNone {
		t.Errorf("modal should close on success")
	}
	got := toasts.Drain()
	if len(got) != 1 || got[0].Kind != ToastSuccess || got[0].Message != "Created successfully" {
		t.Errorf("unexpected toasts %+v", got)
	}

	body := api.bodies[0]
	if body["price"] != 12.5 {
		t.Errorf("number field should be sent as a number, got %#v", body["price"])
	}
	if _, ok := body["ignored"]; ok {
		t.Errorf("unknown form keys must not be sent")
	}
}

func TestCreateValidationKeepsModalOpen(t *testing.T) {
	tests := []struct {
		name    string
		form    FormData
		wantMsg string
	}{
		{"required", FormData{"name": "  "}, "name is required"},
		{"invalid number", FormData{"name": "Gamma", "price": "abc"}, "price must be a number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			s, toasts := newTestSession(t, api, widgetConfig())
			s.Load(context.Background())
			s.OpenCreate()
			s.SetForm(tt.form)

			err := s.SubmitCreate(context.Background())
			if !errors.Is(err, ErrInvalidForm) {
				t.Fatalf("expected ErrInvalidForm, got %v", err)
			}
			if api.count("POST") != 0 {
				t.Errorf("no request should be sent")
			}
			if s.Modal().Kind != ModalCreate {
				t.Errorf("modal should stay open")
			}
			got := toasts.Drain()
			if len(got) != 1 || got[0].Kind != ToastError {
				t.Fatalf("expected one error toast, got %+v", got)
			}
			if !strings.Contains(got[0].Message, tt.wantMsg) {
				t.Errorf("toast %q does not mention %q", got[0].Message, tt.wantMsg)
			}
		})
	}
}

func TestCreateServerErrorSurfacesMessage(t *testing.T) {
	api := &fakeAPI{failWith: "email must be a valid email address"}
	s, toasts := newTestSession(t, api, widgetConfig())
	ctx := context.Background()
	s.Load(ctx)
	s.OpenCreate()
	s.SetForm(FormData{"name": "Gamma"})

	if err := s.SubmitCreate(ctx); err == nil {
		t.Fatal("expected error")
	}
	got := toasts.Drain()
	if len(got) != 1 || got[0].Message != "email must be a valid email address" {
		t.Errorf("unexpected toasts %+v", got)
	}
	if s.Modal().Kind != ModalCreate || s.Modal().Form["name"] != "Gamma" {
		t.Errorf("modal and form should be preserved on failure")
	}
	if api.count("GET") != 1 {
		t.Errorf("a failed mutation must not re-fetch")
	}
}

func TestBeforeCreateHookCanAbortOrRewrite(t *testing.T) {
	api := &fakeAPI{}
	cfg := widgetConfig()
	cfg.Hooks.OnBeforeCreate = func(f FormData) (FormData, error) {
		if f["name"] == "forbidden" {
			return nil, &HookError{Message: "name not allowed"}
		}
		f["name"] = strings.ToUpper(f["name"])
		return f, nil
	}
	s, toasts := newTestSession(t, api, cfg)
	ctx := context.Background()
	s.Load(ctx)

	s.OpenCreate()
	s.SetForm(FormData{"name": "forbidden"})
	if err := s.SubmitCreate(ctx); err == nil {
		t.Fatal("expected hook error")
	}
	if got := toasts.Drain(); len(got) != 1 || got[0].Message != "name not allowed" {
		t.Errorf("unexpected toasts %+v", got)
	}

	s.SetForm(FormData{"name": "quiet"})
	if err := s.SubmitCreate(ctx); err != nil {
		t.Fatalf("SubmitCreate: %v", err)
	}
	if api.bodies[0]["name"] != "QUIET" {
		t.Errorf("hook rewrite not applied: %v", api.bodies[0])
	}
}

func TestEditPrefillsAndUpdates(t *testing.T) {
	api := &fakeAPI{items: []widget{{ID: "1", Name: "Acme", Status: "ACTIVE", Price: 3}}}
	cfg := widgetConfig()
	var updated widget
	cfg.Hooks.OnAfterUpdate = func(w widget) { updated = w }
	s, toasts := newTestSession(t, api, cfg)
	ctx := context.Background()
	s.Load(ctx)

	if err := s.OpenEdit("missing"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if err := s.OpenEdit("1"); err != nil {
		t.Fatalf("OpenEdit: %v", err)
	}
	form := s.Modal().Form
	if form["name"] != "Acme" || form["price"] != "3" || form["status"] != "ACTIVE" {
		t.Errorf("form not pre-filled: %v", form)
	}

	s.SetFormValue("name", "Acme Corp")
	if err := s.SubmitUpdate(ctx); err != nil {
		t.Fatalf("SubmitUpdate: %v", err)
	}
	if api.count("PUT /api/widgets/1") != 1 {
		t.Errorf("expected PUT to item url, calls %v", api.calls)
	}
	if api.bodies[0]["id"] != "1" {
		t.Errorf("update payload should carry unedited fields, got %v", api.bodies[0])
	}
	if updated.Name != "Acme Corp" || s.View()[0].Name != "Acme Corp" {
		t.Errorf("update not reflected: hook=%+v view=%+v", updated, s.View())
	}
	if got := toasts.Drain(); len(got) != 1 || got[0].Message != "Updated successfully" {
		t.Errorf("unexpected toasts %+v", got)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	api := &fakeAPI{items: []widget{{ID: "1", Name: "Acme"}, {ID: "2", Name: "Zeta"}}}
	cfg := widgetConfig()
	var deleted string
	cfg.Hooks.OnAfterDelete = func(id string) { deleted = id }
	s, toasts := newTestSession(t, api, cfg)
	ctx := context.Background()
	s.Load(ctx)

	if err := s.ConfirmDelete(ctx); !errors.Is(err, ErrNoModal) {
		t.Fatalf("delete without confirmation modal should fail, got %v", err)
	}
	if api.count("DELETE") != 0 {
		t.Fatal("no delete request without confirmation")
	}

	if err := s.OpenDelete("1"); err != nil {
		t.Fatalf("OpenDelete: %v", err)
	}
	if err := s.ConfirmDelete(ctx); err != nil {
		t.Fatalf("ConfirmDelete: %v", err)
	}
	if deleted != "1" {
		t.Errorf("OnAfterDelete got %q", deleted)
	}
	equalIDs(t, s.View(), "2")
	if got := toasts.Drain(); len(got) != 1 || got[0].Kind != ToastSuccess {
		t.Errorf("unexpected toasts %+v", got)
	}
}

func TestDeleteEndpointOverride(t *testing.T) {
	api := &fakeAPI{items: []widget{{ID: "1"}}}
	cfg := widgetConfig()
	cfg.DeleteEndpoint = "/api/widgets"
	s, _ := newTestSession(t, api, cfg)
	ctx := context.Background()
	s.Load(ctx)
	s.OpenDelete("1")
	s.ConfirmDelete(ctx)

	if api.count("DELETE /api/widgets?id=1") != 1 {
		t.Errorf("expected query id delete, calls %v", api.calls)
	}
}

func TestInFlightGuard(t *testing.T) {
	api := &fakeAPI{entered: make(chan struct{}), release: make(chan struct{})}
	s, _ := newTestSession(t, api, widgetConfig())
	ctx := context.Background()
	s.Load(ctx)
	s.OpenCreate()
	s.SetForm(FormData{"name": "Gamma"})

	done := make(chan error, 1)
	go func() { done <- s.SubmitCreate(ctx) }()

	<-api.entered
	if !s.Submitting(ActionCreate) {
		t.Error("create should be marked as submitting")
	}
	if err := s.SubmitCreate(ctx); !errors.Is(err, ErrInFlight) {
		t.Errorf("second trigger should return ErrInFlight, got %v", err)
	}
	close(api.release)

	if err := <-done; err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if n := api.count("POST"); n != 1 {
		t.Errorf("expected exactly one POST, got %d", n)
	}
	if s.Submitting(ActionCreate) {
		t.Error("submitting flag should clear after completion")
	}
}

func TestInFlightFlagClearsOnPanic(t *testing.T) {
	api := &fakeAPI{}
	cfg := widgetConfig()
	cfg.Hooks.OnBeforeCreate = func(FormData) (FormData, error) { panic("hook exploded") }
	s, _ := newTestSession(t, api, cfg)
	s.Load(context.Background())
	s.OpenCreate()

	func() {
		defer func() { recover() }()
		s.SubmitCreate(context.Background())
	}()

	if s.Submitting(ActionCreate) {
		t.Error("submitting flag must be cleared when a hook panics")
	}
}

func TestToggleSortAndMemoizedView(t *testing.T) {
	api := &fakeAPI{items: []widget{{ID: "1", Name: "b"}, {ID: "2", Name: "a"}, {ID: "3", Name: "c"}}}
	cfg := widgetConfig()
	cfg.InitialSortDirection = Desc
	s, _ := newTestSession(t, api, cfg)
	s.Load(context.Background())

	if s.Sorted() {
		t.Error("no sort before the first toggle")
	}
	s.ToggleSort("name")
	equalIDs(t, s.View(), "3", "1", "2")
	s.ToggleSort("name")
	equalIDs(t, s.View(), "2", "1", "3")
	s.ToggleSort("status")
	if q := s.Query(); q.SortField != "status" || q.SortDirection != Desc {
		t.Errorf("new column should reset to the initial direction, got %+v", q)
	}

	first := s.View()
	second := s.View()
	if &first[0] != &second[0] {
		t.Error("View should be memoized while nothing changes")
	}
	s.SetSearch("c")
	if third := s.View(); len(third) != 1 {
		t.Errorf("search should recompute the view, got %v", ids(third))
	}
}

func TestCellText(t *testing.T) {
	api := &fakeAPI{}
	cfg := widgetConfig()
	s, _ := newTestSession(t, api, cfg)
	item := widget{ID: "1", Name: "Acme", Status: "INACTIVE"}

	if got := s.CellText(cfg.Columns[0], item); got != "Acme" {
		t.Errorf("plain cell = %q", got)
	}
	if got := s.CellText(cfg.Columns[1], item); got != "Inactive" {
		t.Errorf("prefixed cell = %q", got)
	}
	custom := Column[widget]{Key: "name", Render: func(w widget) string { return "<" + w.Name + ">" }}
	if got := s.CellText(custom, item); got != "<Acme>" {
		t.Errorf("render override = %q", got)
	}
}

func TestLoadOptions(t *testing.T) {
	api := &fakeAPI{items: []widget{{ID: "c1", Name: "Acme"}}}
	cfg := widgetConfig()
	cfg.FormFields = append(cfg.FormFields, FormField{
		Key: "customerId", LabelKey: "x", Type: FieldSelect, OptionsEndpoint: "/api/widgets", OptionLabel: "name",
	})
	s, _ := newTestSession(t, api, cfg)
	s.LoadOptions(context.Background())

	field, _ := cfg.Field("customerId")
	opts := s.Options(field)
	if len(opts) != 1 || opts[0].Value != "c1" || opts[0].Label != "Acme" {
		t.Errorf("unexpected options %+v", opts)
	}
}
