// ABOUTME: Route registry for REST resources.
// ABOUTME: Resource files register a builder in init() and the server mounts them all at startup.

package api

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/2389/rigdesk/internal/store"
)

// Deps carries what a resource builder needs to construct its handler.
type Deps struct {
	Store *store.Store
}

// Builder constructs the handler mounted at a registered path.
type Builder func(Deps) (http.Handler, error)

var (
	registry = make(map[string]Builder)
	mu       sync.RWMutex
)

// Register adds a resource builder under path, e.g. "/api/customers".
func Register(path string, b Builder) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[path]; exists {
		panic(fmt.Sprintf("api route %q already registered", path))
	}
	registry[path] = b
}

// Paths returns all registered paths in sorted order
func Paths() []string {
	mu.RLock()
	defer mu.RUnlock()

	paths := make([]string, 0, len(registry))
	for p := range registry {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Mount builds every registered resource and mounts it on r.
func Mount(r chi.Router, d Deps) error {
	for _, path := range Paths() {
		mu.RLock()
		build := registry[path]
		mu.RUnlock()

		h, err := build(d)
		if err != nil {
			return fmt.Errorf("failed to build %s: %w", path, err)
		}
		r.Mount(path, h)
	}
	return nil
}
