// Package keywords derives an ordered, de-duplicated keyword list from
// metadata fields.
package keywords

import (
	"strings"

	"github.com/goliatone/go-metagen/internal/value"
)

// DefaultFields lists the metadata keys consulted when none are configured.
var DefaultFields = []string{"keywords", "tags"}

// DefaultDelimiters splits string fields.
const DefaultDelimiters = ",;"

type options struct {
	delimiters string
	limit      int
	lower      bool
}

// Option tweaks derivation.
type Option func(*options)

// WithDelimiters replaces the separator set used to split strings.
func WithDelimiters(delims string) Option {
	return func(o *options) {
		if delims != "" {
			o.delimiters = delims
		}
	}
}

// WithLimit caps the number of keywords returned. Zero means no cap.
func WithLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithLowercase folds keywords to lower case before de-duplication.
func WithLowercase() Option {
	return func(o *options) {
		o.lower = true
	}
}

// Derive collects keywords from fields in order. Sequences contribute each
// element, strings are split on the delimiter set, and every part is trimmed.
// Empty parts and repeats are dropped; the first occurrence keeps its place.
// Missing fields and values that are neither strings nor sequences are
// skipped.
func Derive(meta *value.Mapping, fields []string, opts ...Option) []string {
	cfg := options{delimiters: DefaultDelimiters}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if len(fields) == 0 {
		fields = DefaultFields
	}

	out := []string{}
	seen := map[string]struct{}{}
	add := func(part string) bool {
		part = strings.TrimSpace(part)
		if cfg.lower {
			part = strings.ToLower(part)
		}
		if part == "" {
			return true
		}
		if _, ok := seen[part]; ok {
			return true
		}
		seen[part] = struct{}{}
		out = append(out, part)
		return cfg.limit == 0 || len(out) < cfg.limit
	}

	for _, field := range fields {
		v, ok := meta.Lookup(field)
		if !ok {
			continue
		}
		if k := v.Kind(); k != value.KindString && k != value.KindSequence {
			continue
		}
		if !collect(v, cfg.delimiters, add) {
			break
		}
	}
	return out
}

func collect(v value.Value, delims string, add func(string) bool) bool {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		for _, part := range split(s, delims) {
			if !add(part) {
				return false
			}
		}
	case value.KindNumber, value.KindBool:
		// only reachable for sequence elements
		return add(v.Text(""))
	case value.KindSequence:
		items, _ := v.AsSequence()
		for _, item := range items {
			if !collect(item, delims, add) {
				return false
			}
		}
	}
	return true
}

func split(s, delims string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(delims, r)
	})
}
