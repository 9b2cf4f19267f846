// ABOUTME: Pure search, filter, and sort over fetched items.
// ABOUTME: Items are compared through their JSON projection so any record type works.

package crud

import (
	"cmp"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ViewQuery is the view state applied by Derive.
type ViewQuery struct {
	Search        string
	Filters       map[string]string
	SortField     string
	SortDirection SortDirection
}

// key identifies a query for memoization.
func (q ViewQuery) key() string {
	var sb strings.Builder
	sb.WriteString(q.Search)
	sb.WriteByte(0)
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(q.Filters[k])
		sb.WriteByte(0)
	}
	sb.WriteString(q.SortField)
	sb.WriteByte(0)
	sb.WriteString(string(q.SortDirection))
	return sb.String()
}

// FilterActive reports whether a filter value narrows the list.
func FilterActive(value string) bool {
	return value != "" && value != "all"
}

// Project returns the JSON object form of item. Non-object encodings yield nil.
func Project(item any) map[string]any {
	data, err := json.Marshal(item)
	if err != nil {
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

// Stringify renders a projected value the way search and filters see it.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}

// Compare orders two projected values. Nil sorts first, numbers compare
// numerically, strings lexically, false before true; mixed types compare by
// their string form.
func Compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case string:
		if y, ok := b.(string); ok {
			// JSON timestamps drop trailing zeros, so compare them as times.
			if tx, err := time.Parse(time.RFC3339Nano, x); err == nil {
				if ty, err := time.Parse(time.RFC3339Nano, y); err == nil {
					return tx.Compare(ty)
				}
			}
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(Stringify(a), Stringify(b))
}

// Derive applies search, then filters, then sort, and returns a new slice.
// items is never modified.
func Derive[T any](items []T, project func(T) map[string]any, q ViewQuery) []T {
	type row struct {
		item T
		rec  map[string]any
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	rows := make([]row, 0, len(items))
	for _, item := range items {
		rec := project(item)
		if needle != "" && !matchesSearch(rec, needle) {
			continue
		}
		if !matchesFilters(rec, q.Filters) {
			continue
		}
		rows = append(rows, row{item: item, rec: rec})
	}

	if q.SortField != "" {
		desc := q.SortDirection == Desc
		sort.SliceStable(rows, func(i, j int) bool {
			c := Compare(rows[i].rec[q.SortField], rows[j].rec[q.SortField])
			if desc {
				return c > 0
			}
			return c < 0
		})
	}

	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.item
	}
	return out
}

func matchesSearch(rec map[string]any, needle string) bool {
	for _, v := range rec {
		if strings.Contains(strings.ToLower(Stringify(v)), needle) {
			return true
		}
	}
	return false
}

func matchesFilters(rec map[string]any, filters map[string]string) bool {
	for key, want := range filters {
		if !FilterActive(want) {
			continue
		}
		if Stringify(rec[key]) != want {
			return false
		}
	}
	return true
}

// NextSort returns the sort state after a header click on key.
func NextSort(field string, dir SortDirection, key string, initial SortDirection) (string, SortDirection) {
	if field == key {
		return key, dir.Flip()
	}
	if initial == "" {
		initial = Asc
	}
	return key, initial
}
