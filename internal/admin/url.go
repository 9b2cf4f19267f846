// ABOUTME: URL builder for page links that carry the view state in the query string.
// ABOUTME: Search, filters, sort, and modal state survive every link and form post.

package admin

import (
	"net/http"
	"net/url"
	"strings"
)

// View state query parameters.
const (
	ParamSearch   = "q"
	ParamSort     = "sort"
	ParamDir      = "dir"
	ParamModal    = "modal"
	ParamID       = "id"
	FilterPrefix  = "f_"
	ParamLanguage = "lang"
)

// URLBuilder builds page URLs fluently.
type URLBuilder struct {
	basePath string
	params   url.Values
}

// NewURL starts a builder for basePath, e.g. "/customers".
func NewURL(basePath string) *URLBuilder {
	return &URLBuilder{basePath: basePath, params: make(url.Values)}
}

// PreserveFromRequest copies the view state from r, dropping modal parameters.
func (b *URLBuilder) PreserveFromRequest(r *http.Request) *URLBuilder {
	for k, v := range r.URL.Query() {
		if isViewParam(k) {
			b.params[k] = v
		}
	}
	return b
}

// WithSearch sets the search term; an empty term removes it.
func (b *URLBuilder) WithSearch(q string) *URLBuilder {
	if q == "" {
		b.params.Del(ParamSearch)
		return b
	}
	b.params.Set(ParamSearch, q)
	return b
}

// WithSort sets the sort field and direction.
func (b *URLBuilder) WithSort(field, direction string) *URLBuilder {
	if field != "" {
		b.params.Set(ParamSort, field)
		b.params.Set(ParamDir, direction)
	}
	return b
}

// WithFilter sets a filter; "all" or empty clears it.
func (b *URLBuilder) WithFilter(key, value string) *URLBuilder {
	if value == "" || value == "all" {
		b.params.Del(FilterPrefix + key)
		return b
	}
	b.params.Set(FilterPrefix+key, value)
	return b
}

// WithModal opens a modal, optionally for an item.
func (b *URLBuilder) WithModal(kind, id string) *URLBuilder {
	b.params.Set(ParamModal, kind)
	if id != "" {
		b.params.Set(ParamID, id)
	}
	return b
}

// WithParam sets an arbitrary parameter
func (b *URLBuilder) WithParam(key, value string) *URLBuilder {
	if key != "" {
		b.params.Set(key, value)
	}
	return b
}

// RemoveParam removes a parameter
func (b *URLBuilder) RemoveParam(key string) *URLBuilder {
	b.params.Del(key)
	return b
}

// ClearFilters removes the search term and every filter.
func (b *URLBuilder) ClearFilters() *URLBuilder {
	b.params.Del(ParamSearch)
	for k := range b.params {
		if strings.HasPrefix(k, FilterPrefix) {
			b.params.Del(k)
		}
	}
	return b
}

// String builds and returns the final URL
func (b *URLBuilder) String() string {
	if len(b.params) == 0 {
		return b.basePath
	}
	return b.basePath + "?" + b.params.Encode()
}

// isViewParam reports whether key belongs to the list view rather than a modal.
func isViewParam(key string) bool {
	switch key {
	case ParamSearch, ParamSort, ParamDir, ParamLanguage:
		return true
	}
	return strings.HasPrefix(key, FilterPrefix)
}

// FiltersFromQuery extracts f_<key> parameters.
func FiltersFromQuery(q url.Values) map[string]string {
	out := make(map[string]string)
	for k := range q {
		if strings.HasPrefix(k, FilterPrefix) {
			out[strings.TrimPrefix(k, FilterPrefix)] = q.Get(k)
		}
	}
	return out
}
