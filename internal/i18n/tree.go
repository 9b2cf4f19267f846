// ABOUTME: Nested string trees backing the locale catalogs.
// ABOUTME: Parse, deep-merge, validate, look up, and serialize translation data.

package i18n

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Tree is a nested map whose leaves should all be non-empty strings.
type Tree map[string]any

// Violation describes one invalid leaf, addressed by its dotted path.
type Violation struct {
	Path    string
	Message string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// ParseTree decodes a JSON object into a Tree.
func ParseTree(data []byte) (Tree, error) {
	var t Tree
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&t); err != nil {
		return nil, fmt.Errorf("parse locale tree: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("parse locale tree: document is not an object")
	}
	return normalize(t), nil
}

// normalize converts nested map[string]any values to Tree so type switches see one type.
func normalize(t Tree) Tree {
	for k, v := range t {
		if m, ok := v.(map[string]any); ok {
			t[k] = normalize(Tree(m))
		}
	}
	return t
}

// Marshal serializes a tree as indented JSON with sorted keys and a trailing newline.
func (t Tree) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of t.
func (t Tree) Clone() Tree {
	out := make(Tree, len(t))
	for k, v := range t {
		if sub, ok := asTree(v); ok {
			out[k] = sub.Clone()
			continue
		}
		out[k] = v
	}
	return out
}

// Merge deep-merges src into dst and returns dst. When both sides hold an
// object under the same key the objects merge recursively; otherwise the
// value from src replaces the one in dst.
func Merge(dst, src Tree) Tree {
	if dst == nil {
		dst = Tree{}
	}
	for k, sv := range src {
		srcSub, srcIsTree := asTree(sv)
		dstSub, dstIsTree := asTree(dst[k])
		switch {
		case srcIsTree && dstIsTree:
			dst[k] = Merge(dstSub, srcSub)
		case srcIsTree:
			dst[k] = srcSub.Clone()
		default:
			dst[k] = sv
		}
	}
	return dst
}

// Validate walks the tree and reports every leaf that is not a string or is blank.
// Violations are returned in path order.
func Validate(t Tree) []Violation {
	var out []Violation
	walk(t, "", func(path string, v any) {
		s, ok := v.(string)
		switch {
		case !ok:
			out = append(out, Violation{Path: path, Message: fmt.Sprintf("expected string, got %s", typeName(v))})
		case strings.TrimSpace(s) == "":
			out = append(out, Violation{Path: path, Message: "empty translation"})
		}
	})
	return out
}

// Lookup resolves a dotted key to a string leaf.
func (t Tree) Lookup(key string) (string, bool) {
	var cur any = t
	for _, part := range strings.Split(key, ".") {
		node, ok := asTree(cur)
		if !ok {
			return "", false
		}
		cur, ok = node[part]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

// Set writes value at a dotted key, creating intermediate objects.
func (t Tree) Set(key string, value any) {
	parts := strings.Split(key, ".")
	node := t
	for _, part := range parts[:len(parts)-1] {
		next, ok := asTree(node[part])
		if !ok {
			next = Tree{}
			node[part] = next
		}
		node = next
	}
	node[parts[len(parts)-1]] = value
}

func walk(t Tree, prefix string, fn func(path string, v any)) {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if sub, ok := asTree(t[k]); ok {
			walk(sub, path, fn)
			continue
		}
		fn(path, t[k])
	}
}

func asTree(v any) (Tree, bool) {
	switch m := v.(type) {
	case Tree:
		return m, true
	case map[string]any:
		return Tree(m), true
	}
	return nil, false
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64, int:
		return "number"
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", v)
}
