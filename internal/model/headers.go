package model

import (
	"sort"
	"strings"
)

// Field is a single header line.
type Field struct {
	Name  string
	Value string
}

// Headers is an ordered list of header fields. The same name may appear more
// than once (e.g. Set-Cookie), and insertion order is kept.
//
// Unlike [net/http.Header], names are stored exactly as given. Only lookups
// ignore case.
type Headers []Field

// NewHeaders builds Headers from name/value pairs, e.g.
//
//	NewHeaders("Accept", "*/*", "Content-Type", "text/plain")
//
// A trailing name without a value is dropped.
func NewHeaders(kv ...string) Headers {
	h := make(Headers, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		h = append(h, Field{kv[i], kv[i+1]})
	}
	return h
}

// Insert appends the pair. Existing fields with the same name are kept.
func (h *Headers) Insert(name, value string) {
	*h = append(*h, Field{name, value})
}

// Get returns the value of the first field matching name, case-insensitively.
func (h Headers) Get(name string) (string, bool) {
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// GetAll returns every value whose name matches, in insertion order.
func (h Headers) GetAll(name string) []string {
	var vs []string
	for _, f := range h {
		if strings.EqualFold(f.Name, name) {
			vs = append(vs, f.Value)
		}
	}
	return vs
}

// Sort orders the fields by name. It is stable, so repeated names keep their
// relative order. Only meant for printing; lookups do not depend on it.
func (h Headers) Sort() {
	sort.SliceStable(h, func(i, j int) bool { return h[i].Name < h[j].Name })
}

func (h Headers) Clone() Headers {
	if h == nil {
		return nil
	}
	return append(make(Headers, 0, len(h)), h...)
}

func (h Headers) Len() int { return len(h) }
