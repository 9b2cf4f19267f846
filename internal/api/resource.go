// ABOUTME: Generic REST resource implementing the {success, data, error} contract.
// ABOUTME: Serves list, get, create, update, delete, and export for any repository.

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/2389/rigdesk/internal/errors"
	"github.com/2389/rigdesk/internal/store"
	"github.com/2389/rigdesk/internal/validation"
)

const maxBodyBytes = 1 << 20

// Repository is the persistence contract a Resource serves.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// Resource exposes one entity over HTTP.
type Resource[T any] struct {
	name          string
	repo          Repository[T]
	validate      func(*T) error
	exportColumns []string
}

// NewResource creates a resource. name is the singular noun used in messages;
// validate normalizes and checks a decoded body and may be nil.
func NewResource[T any](name string, repo Repository[T], validate func(*T) error) *Resource[T] {
	return &Resource[T]{name: name, repo: repo, validate: validate}
}

// WithExportColumns fixes the column order used by the export endpoint.
func (res *Resource[T]) WithExportColumns(columns ...string) *Resource[T] {
	res.exportColumns = columns
	return res
}

// Routes returns the resource router. Update and delete accept the id either
// as a path segment or as an ?id= query parameter.
func (res *Resource[T]) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Put("/", res.update)
	r.Delete("/", res.delete)
	r.Get("/export", res.export)
	r.Get("/{id}", res.get)
	r.Put("/{id}", res.update)
	r.Delete("/{id}", res.delete)
	return r
}

type successResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(successResponse{Success: true, Data: data})
}

func (res *Resource[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := res.repo.List(r.Context())
	if err != nil {
		res.writeStoreError(w, "list", err)
		return
	}
	writeData(w, http.StatusOK, items)
}

func (res *Resource[T]) get(w http.ResponseWriter, r *http.Request) {
	item, err := res.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		res.writeStoreError(w, "get", err)
		return
	}
	writeData(w, http.StatusOK, item)
}

func (res *Resource[T]) create(w http.ResponseWriter, r *http.Request) {
	item, ok := res.decode(w, r)
	if !ok {
		return
	}

	created, err := res.repo.Create(r.Context(), item)
	if err != nil {
		res.writeStoreError(w, "create", err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (res *Resource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}
	item, ok := res.decode(w, r)
	if !ok {
		return
	}

	updated, err := res.repo.Update(r.Context(), id, item)
	if err != nil {
		res.writeStoreError(w, "update", err)
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (res *Resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requestID(w, r)
	if !ok {
		return
	}

	if err := res.repo.Delete(r.Context(), id); err != nil {
		res.writeStoreError(w, "delete", err)
		return
	}
	writeData(w, http.StatusOK, nil)
}

func requestID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		id = r.URL.Query().Get("id")
	}
	if id == "" {
		apierrors.WriteErrorWithField(w, http.StatusBadRequest, apierrors.ErrValidationFailed, "id is required", "id")
		return "", false
	}
	return id, true
}

// decode reads and validates the JSON body, writing a 400 on failure.
func (res *Resource[T]) decode(w http.ResponseWriter, r *http.Request) (T, bool) {
	var item T
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&item); err != nil {
		apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrInvalidBody, "invalid request body")
		return item, false
	}

	if res.validate != nil {
		if err := res.validate(&item); err != nil {
			var ve *validation.ValidationErrors
			if errors.As(err, &ve) && ve.HasErrors() {
				apierrors.WriteErrorWithField(w, http.StatusBadRequest, apierrors.ErrValidationFailed, ve.Error(), ve.Errors[0].Field)
			} else {
				apierrors.WriteError(w, http.StatusBadRequest, apierrors.ErrValidationFailed, err.Error())
			}
			return item, false
		}
	}
	return item, true
}

func (res *Resource[T]) writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		apierrors.WriteError(w, http.StatusNotFound, apierrors.ErrNotFound, res.name+" not found")
	case errors.Is(err, store.ErrConflict):
		apierrors.WriteErrorWithDetails(w, http.StatusConflict, apierrors.ErrConflict,
			fmt.Sprintf("%s conflicts with existing records", res.name), err.Error())
	default:
		log.Printf("api: failed to %s %s: %v", op, res.name, err)
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrInternal, fmt.Sprintf("failed to %s %s", op, res.name))
	}
}
