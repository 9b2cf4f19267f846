// ABOUTME: Page registry for entity pages.
// ABOUTME: Page files register themselves in init() via Define; the server mounts them all.

package pages

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/2389/rigdesk/internal/admin"
	"github.com/2389/rigdesk/internal/crud"
)

// Page is one registered entity page.
type Page interface {
	// Key is the entity key, also the URL segment ("work-orders").
	Key() string
	// LabelKey is the translation key of the navigation label.
	LabelKey() string
	Path() string
	Handler(env *admin.Env) http.Handler
	order() int
}

// defaultOrder places pages without an explicit position after the built-in ones.
const defaultOrder = 100

type definition[T crud.Item] struct {
	cfg      crud.Config[T]
	position int
}

func (d definition[T]) Key() string      { return d.cfg.EntityKey }
func (d definition[T]) LabelKey() string { return d.cfg.Prefix() + ".title" }
func (d definition[T]) Path() string     { return "/" + d.cfg.EntityKey }
func (d definition[T]) order() int       { return d.position }

func (d definition[T]) Handler(env *admin.Env) http.Handler {
	return admin.NewPage(d.cfg, env).Routes()
}

func (d definition[T]) startDirection() crud.SortDirection { return d.cfg.StartDirection() }

// Option customizes a page definition.
type Option func(*int)

// WithOrder sets the page's position in the navigation.
func WithOrder(n int) Option {
	return func(pos *int) { *pos = n }
}

var (
	registry = make(map[string]Page)
	mu       sync.RWMutex
)

// Define validates cfg and registers it as a page. It panics on an invalid
// config or a duplicate key, so mistakes surface at startup.
func Define[T crud.Item](cfg crud.Config[T], opts ...Option) {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("page %q: %v", cfg.EntityKey, err))
	}
	d := definition[T]{cfg: cfg, position: defaultOrder}
	for _, opt := range opts {
		opt(&d.position)
	}
	Register(d)
}

// Register adds a page to the registry
func Register(p Page) {
	mu.Lock()
	defer mu.Unlock()

	key := p.Key()
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("page %q already registered", key))
	}
	registry[key] = p
}

// Get retrieves a page by key
func Get(key string) (Page, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, ok := registry[key]
	return p, ok
}

// All returns all registered pages in navigation order.
func All() []Page {
	mu.RLock()
	defer mu.RUnlock()

	pages := make([]Page, 0, len(registry))
	for _, p := range registry {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool {
		if pages[i].order() != pages[j].order() {
			return pages[i].order() < pages[j].order()
		}
		return pages[i].Key() < pages[j].Key()
	})
	return pages
}

// Names returns all registered page keys in navigation order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, p := range all {
		names[i] = p.Key()
	}
	return names
}

// Nav builds the navigation: dashboard, every page, then the request log.
func Nav() []admin.NavItem {
	nav := []admin.NavItem{{Path: "/", LabelKey: "common.nav.dashboard"}}
	for _, p := range All() {
		nav = append(nav, admin.NavItem{Path: p.Path(), LabelKey: p.LabelKey()})
	}
	return append(nav, admin.NavItem{Path: admin.LogsPath, LabelKey: "common.nav.logs"})
}

// Mount mounts every registered page on r at its path.
func Mount(r chi.Router, env *admin.Env) {
	for _, p := range All() {
		r.Mount(p.Path(), p.Handler(env))
	}
}
