// ABOUTME: Per-request CRUD controller state: items, view query, modal, and mutations.
// ABOUTME: Items change only through a full re-fetch; every mutation emits one toast.

package crud

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/2389/rigdesk/internal/i18n"
)

var (
	// ErrInFlight is returned when an action is triggered while the same action is running.
	ErrInFlight = errors.New("action already in progress")
	// ErrItemNotFound is returned when an edit or delete targets an id not in the list.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidForm is returned when local form validation fails.
	ErrInvalidForm = errors.New("invalid form")
	// ErrNoModal is returned when a submit does not match the open modal.
	ErrNoModal = errors.New("no matching modal is open")
)

// ModalKind identifies which modal is open.
type ModalKind string

const (
	ModalNone   ModalKind = ""
	ModalCreate ModalKind = "create"
	ModalEdit   ModalKind = "edit"
	ModalDelete ModalKind = "delete"
)

// Action names a mutation for the in-flight guard.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Modal is the open modal and its form.
type Modal[T any] struct {
	Kind     ModalKind
	Selected T
	HasItem  bool
	Form     FormData
}

// Session drives one CRUD page.
type Session[T Item] struct {
	cfg      Config[T]
	client   *Client[T]
	tr       *i18n.Translator
	notifier Notifier

	mu         sync.Mutex
	items      []T
	version    uint64
	loaded     bool
	loadErr    error
	query      ViewQuery
	sortTouch  bool
	modal      Modal[T]
	submitting map[Action]bool
	options    map[string][]Option

	memoKey     string
	memoVersion uint64
	memoRows    []T
	memoValid   bool
}

// NewSession creates a session. notifier may be nil.
func NewSession[T Item](cfg Config[T], client *Client[T], tr *i18n.Translator, notifier Notifier) *Session[T] {
	if notifier == nil {
		notifier = &ToastBuffer{}
	}
	s := &Session[T]{
		cfg:        cfg,
		client:     client,
		tr:         tr,
		notifier:   notifier,
		submitting: make(map[Action]bool),
		options:    make(map[string][]Option),
		query:      ViewQuery{Filters: make(map[string]string)},
	}
	if cfg.InitialSortField != "" {
		s.query.SortField = cfg.InitialSortField
		s.query.SortDirection = cfg.StartDirection()
		s.sortTouch = true
	}
	return s
}

func (s *Session[T]) Config() Config[T]             { return s.cfg }
func (s *Session[T]) Translator() *i18n.Translator { return s.tr }

// Load fetches the full list. On failure the session holds no items and reports the error.
func (s *Session[T]) Load(ctx context.Context) error {
	items, err := s.client.List(ctx, s.cfg.APIEndpoint)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.version++
	s.loaded = true
	if err != nil {
		s.items = nil
		s.loadErr = err
		return err
	}
	s.items = items
	s.loadErr = nil
	return nil
}

// Retry re-issues the list request.
func (s *Session[T]) Retry(ctx context.Context) error {
	return s.Load(ctx)
}

// LoadError returns the error of the last load, if it failed.
func (s *Session[T]) LoadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

// Loaded reports whether a load has completed.
func (s *Session[T]) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Items returns the fetched items.
func (s *Session[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items
}

// LoadOptions fills select options for fields with an OptionsEndpoint.
// Failures are logged and leave the static options in place.
func (s *Session[T]) LoadOptions(ctx context.Context) {
	for _, f := range s.cfg.FormFields {
		if f.OptionsEndpoint == "" {
			continue
		}
		recs, err := s.client.Records(ctx, f.OptionsEndpoint)
		if err != nil {
			log.Printf("crud: failed to load options for %s.%s: %v", s.cfg.EntityKey, f.Key, err)
			continue
		}
		opts := make([]Option, 0, len(recs))
		for _, rec := range recs {
			id := Stringify(rec["id"])
			label := Stringify(rec[f.OptionLabel])
			if label == "" {
				label = id
			}
			opts = append(opts, Option{Value: id, Label: label})
		}
		s.mu.Lock()
		s.options[f.Key] = opts
		s.mu.Unlock()
	}
}

// Options returns the choices for a form field.
func (s *Session[T]) Options(f FormField) []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	if opts, ok := s.options[f.Key]; ok {
		return opts
	}
	return f.Options
}

// Project returns the field projection of item.
func (s *Session[T]) Project(item T) map[string]any {
	if s.cfg.Record != nil {
		return s.cfg.Record(item)
	}
	return Project(item)
}

// Query returns a copy of the current view query.
func (s *Session[T]) Query() ViewQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.query
	q.Filters = make(map[string]string, len(s.query.Filters))
	for k, v := range s.query.Filters {
		q.Filters[k] = v
	}
	return q
}

func (s *Session[T]) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Search = term
}

// SetFilter sets one filter. "all" or an empty value clears it.
func (s *Session[T]) SetFilter(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !FilterActive(value) {
		delete(s.query.Filters, key)
		return
	}
	s.query.Filters[key] = value
}

// ClearFilters removes the search term and all filters.
func (s *Session[T]) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.Search = ""
	s.query.Filters = make(map[string]string)
}

// SetSort sets the sort state directly, as restored from a URL.
func (s *Session[T]) SetSort(field string, dir SortDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if field == "" {
		return
	}
	s.query.SortField = field
	s.query.SortDirection = dir
	s.sortTouch = true
}

// ToggleSort activates key with the configured start direction or flips it if already active.
func (s *Session[T]) ToggleSort(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query.SortField, s.query.SortDirection = NextSort(s.query.SortField, s.query.SortDirection, key, s.cfg.StartDirection())
	s.sortTouch = true
}

// Sorted reports whether any sort has been applied.
func (s *Session[T]) Sorted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortTouch
}

// View returns the derived rows, recomputed only when items or the query change.
func (s *Session[T]) View() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.query.key()
	if s.memoValid && s.memoVersion == s.version && s.memoKey == key {
		return s.memoRows
	}
	s.memoRows = Derive(s.items, s.Project, s.query)
	s.memoKey = key
	s.memoVersion = s.version
	s.memoValid = true
	return s.memoRows
}

// Modal returns the open modal.
func (s *Session[T]) Modal() Modal[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.modal
	m.Form = s.modal.Form.Clone()
	return m
}

// Submitting reports whether action is in flight.
func (s *Session[T]) Submitting(a Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting[a]
}

// OpenCreate opens the create modal with field defaults.
func (s *Session[T]) OpenCreate() {
	form := make(FormData, len(s.cfg.FormFields))
	for _, f := range s.cfg.FormFields {
		form[f.Key] = f.Default
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = Modal[T]{Kind: ModalCreate, Form: form}
}

// OpenEdit opens the edit modal pre-filled from the item with id.
func (s *Session[T]) OpenEdit(id string) error {
	item, ok := s.find(id)
	if !ok {
		return ErrItemNotFound
	}
	rec := s.Project(item)
	form := make(FormData, len(s.cfg.FormFields))
	for _, f := range s.cfg.FormFields {
		form[f.Key] = formValue(f, rec[f.Key])
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = Modal[T]{Kind: ModalEdit, Selected: item, HasItem: true, Form: form}
	return nil
}

// OpenDelete opens the delete confirmation for the item with id.
func (s *Session[T]) OpenDelete(id string) error {
	item, ok := s.find(id)
	if !ok {
		return ErrItemNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = Modal[T]{Kind: ModalDelete, Selected: item, HasItem: true}
	return nil
}

// CloseModal closes any modal and clears its form.
func (s *Session[T]) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = Modal[T]{}
}

// SetFormValue changes one form value of the open modal.
func (s *Session[T]) SetFormValue(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modal.Form == nil {
		s.modal.Form = make(FormData)
	}
	s.modal.Form[key] = value
}

// SetForm replaces the values of known form fields from data.
func (s *Session[T]) SetForm(data FormData) {
	for _, f := range s.cfg.FormFields {
		if v, ok := data[f.Key]; ok {
			s.SetFormValue(f.Key, v)
		}
	}
}

// SubmitCreate validates the form and creates the item.
func (s *Session[T]) SubmitCreate(ctx context.Context) error {
	if err := s.begin(ActionCreate); err != nil {
		return err
	}
	defer s.end(ActionCreate)

	m := s.Modal()
	if m.Kind != ModalCreate {
		return ErrNoModal
	}
	form := m.Form
	if hook := s.cfg.Hooks.OnBeforeCreate; hook != nil {
		var err error
		if form, err = hook(form); err != nil {
			s.fail(err)
			return err
		}
	}
	payload, err := s.payload(form, nil)
	if err != nil {
		return err
	}

	created, err := s.client.Create(ctx, s.cfg.CreateURL(), payload)
	if err != nil {
		s.fail(err)
		return err
	}
	s.succeed(ctx, "created")
	if hook := s.cfg.Hooks.OnAfterCreate; hook != nil {
		hook(created)
	}
	return nil
}

// SubmitUpdate validates the form and updates the selected item.
func (s *Session[T]) SubmitUpdate(ctx context.Context) error {
	if err := s.begin(ActionUpdate); err != nil {
		return err
	}
	defer s.end(ActionUpdate)

	m := s.Modal()
	if m.Kind != ModalEdit || !m.HasItem {
		return ErrNoModal
	}
	form := m.Form
	if hook := s.cfg.Hooks.OnBeforeUpdate; hook != nil {
		var err error
		if form, err = hook(m.Selected, form); err != nil {
			s.fail(err)
			return err
		}
	}
	payload, err := s.payload(form, s.Project(m.Selected))
	if err != nil {
		return err
	}

	updated, err := s.client.Update(ctx, s.cfg.UpdateURL(m.Selected.GetID()), payload)
	if err != nil {
		s.fail(err)
		return err
	}
	s.succeed(ctx, "updated")
	if hook := s.cfg.Hooks.OnAfterUpdate; hook != nil {
		hook(updated)
	}
	return nil
}

// ConfirmDelete deletes the item selected by OpenDelete.
func (s *Session[T]) ConfirmDelete(ctx context.Context) error {
	if err := s.begin(ActionDelete); err != nil {
		return err
	}
	defer s.end(ActionDelete)

	m := s.Modal()
	if m.Kind != ModalDelete || !m.HasItem {
		return ErrNoModal
	}
	id := m.Selected.GetID()

	if err := s.client.Delete(ctx, s.cfg.DeleteURL(id)); err != nil {
		s.fail(err)
		return err
	}
	s.succeed(ctx, "deleted")
	if hook := s.cfg.Hooks.OnAfterDelete; hook != nil {
		hook(id)
	}
	return nil
}

func (s *Session[T]) begin(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting[a] {
		return ErrInFlight
	}
	s.submitting[a] = true
	return nil
}

func (s *Session[T]) end(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.submitting, a)
}

// succeed toasts, closes the modal, and re-fetches the list once.
func (s *Session[T]) succeed(ctx context.Context, verb string) {
	prefix := s.cfg.Prefix()
	s.notifier.Notify(Toast{
		Kind:    ToastSuccess,
		Message: s.tr.First(prefix+".messages."+verb, "common.messages."+verb),
	})
	s.CloseModal()

	// A failed refresh leaves the session in the load error state.
	if err := s.Load(ctx); err != nil {
		log.Printf("crud: refresh %s after %s failed: %v", s.cfg.EntityKey, verb, err)
	}
}

func (s *Session[T]) fail(err error) {
	msg := s.tr.T("common.messages.genericError")
	var apiErr *APIError
	var hookErr *HookError
	switch {
	case errors.As(err, &apiErr) && apiErr.Message != "":
		msg = apiErr.Message
	case errors.As(err, &hookErr):
		msg = hookErr.Message
	}
	s.notifier.Notify(Toast{Kind: ToastError, Message: msg})
}

// HookError is returned by a before-hook to show Message verbatim in the error toast.
type HookError struct{ Message string }

func (e *HookError) Error() string { return e.Message }

// payload validates form and converts it to a request body. base, when set,
// supplies fields the form does not carry.
func (s *Session[T]) payload(form FormData, base map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(base)+len(form))
	for k, v := range base {
		out[k] = v
	}

	for _, f := range s.cfg.FormFields {
		raw := strings.TrimSpace(form[f.Key])
		label := s.tr.T(f.LabelKey)

		if f.Required && raw == "" {
			s.notifier.Notify(Toast{Kind: ToastError, Message: s.tr.Tf("common.messages.required", map[string]string{"field": label})})
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidForm, f.Key)
		}
		if f.Validate != nil && raw != "" {
			if err := f.Validate(raw); err != nil {
				s.notifier.Notify(Toast{Kind: ToastError, Message: err.Error()})
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidForm, f.Key, err)
			}
		}

		if f.Type == FieldNumber {
			if raw == "" {
				out[f.Key] = 0.0
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				s.notifier.Notify(Toast{Kind: ToastError, Message: s.tr.Tf("common.messages.invalidNumber", map[string]string{"field": label})})
				return nil, fmt.Errorf("%w: %s is not a number", ErrInvalidForm, f.Key)
			}
			out[f.Key] = n
			continue
		}
		out[f.Key] = raw
	}
	return out, nil
}

func (s *Session[T]) find(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.GetID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// formValue converts a projected value into the string an input shows.
func formValue(f FormField, v any) string {
	s := Stringify(v)
	if f.Type == FieldDate && len(s) > 10 {
		return s[:10]
	}
	return s
}

// CellText renders the display text of col for item.
func (s *Session[T]) CellText(col Column[T], item T) string {
	if col.Render != nil {
		return col.Render(item)
	}
	v := Stringify(s.Project(item)[col.Key])
	if col.ValuePrefix != "" && v != "" {
		return s.tr.T(col.ValuePrefix + "." + v)
	}
	return v
}

// OptionText resolves the label shown for an option.
func OptionText(tr *i18n.Translator, o Option) string {
	switch {
	case o.LabelKey != "":
		return tr.T(o.LabelKey)
	case o.Label != "":
		return o.Label
	}
	return o.Value
}

// EnumOptions builds options for values labelled by "<prefix>.<value>".
func EnumOptions(prefix string, values []string) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Value: v, LabelKey: prefix + "." + v}
	}
	return opts
}
