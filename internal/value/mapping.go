package value

import (
	"strconv"
	"strings"
)

// Mapping is an ordered collection of unique string keys to values.
// Insertion order is preserved; re-setting an existing key replaces the
// value in place.
type Mapping struct {
	keys   []string
	values []Value
	index  map[string]int
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{index: map[string]int{}}
}

// Set stores value under key, keeping the key's first position when it
// already exists.
func (m *Mapping) Set(key string, v Value) {
	if m.index == nil {
		m.index = map[string]int{}
	}
	if i, ok := m.index[key]; ok {
		m.values[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, v)
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	i, ok := m.index[key]
	if !ok {
		return Value{}, false
	}
	return m.values[i], true
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Lookup resolves a dotted path ("author.name") through nested mappings.
// A key that literally contains dots is matched before descending.
func (m *Mapping) Lookup(path string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	if v, ok := m.Get(path); ok {
		return v, true
	}
	head, rest, found := strings.Cut(path, ".")
	if !found {
		return Value{}, false
	}
	v, ok := m.Get(head)
	if !ok {
		return Value{}, false
	}
	nested, ok := v.AsMapping()
	if !ok {
		return Value{}, false
	}
	return nested.Lookup(rest)
}

// Keys returns a copy of the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each visits entries in insertion order until fn returns false.
func (m *Mapping) Each(fn func(key string, v Value) bool) {
	if m == nil {
		return
	}
	for i, key := range m.keys {
		if !fn(key, m.values[i]) {
			return
		}
	}
}

// Clone returns a deep copy.
func (m *Mapping) Clone() *Mapping {
	out := NewMapping()
	m.Each(func(key string, v Value) bool {
		out.Set(key, cloneValue(v))
		return true
	})
	return out
}

func cloneValue(v Value) Value {
	switch v.kind {
	case KindSequence:
		items := make([]Value, len(v.items))
		for i, item := range v.items {
			items[i] = cloneValue(item)
		}
		return Value{kind: KindSequence, items: items}
	case KindMapping:
		return MappingValue(v.mapping.Clone())
	default:
		return v
	}
}

func mappingEqual(a, b *Mapping, ordered bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, key := range a.Keys() {
		if ordered && b.keys[i] != key {
			return false
		}
		av, _ := a.Get(key)
		bv, ok := b.Get(key)
		if !ok || !equal(av, bv, ordered) {
			return false
		}
	}
	return true
}

// Equal compares two mappings ignoring key order.
func (m *Mapping) Equal(other *Mapping) bool {
	return mappingEqual(m, other, false)
}

// GoString renders the mapping in a compact, ordered, JSON-like form.
func (m *Mapping) GoString() string {
	var b strings.Builder
	b.WriteByte('{')
	m.Each(func(key string, v Value) bool {
		if b.Len() > 1 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(key))
		b.WriteString(": ")
		b.WriteString(v.GoString())
		return true
	})
	b.WriteByte('}')
	return b.String()
}
