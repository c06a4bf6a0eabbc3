package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind enumerates the closed set of variants a Value can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
)

// String renders the kind label used in validation messages and configuration.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// ParseKind resolves a configuration label into a Kind.
func ParseKind(label string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "null", "nil":
		return KindNull, true
	case "bool", "boolean":
		return KindBool, true
	case "number", "float", "int", "integer":
		return KindNumber, true
	case "string", "text":
		return KindString, true
	case "sequence", "list", "array":
		return KindSequence, true
	case "mapping", "map", "object", "table":
		return KindMapping, true
	default:
		return KindNull, false
	}
}

// Value is an immutable metadata datum. The zero Value is Null.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	text    string
	items   []Value
	mapping *Mapping
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, boolean: b} }

// Number wraps a double-precision number.
func Number(f float64) Value { return Value{kind: KindNumber, number: f} }

// String wraps a UTF-8 string.
func String(s string) Value { return Value{kind: KindString, text: s} }

// Strings builds a sequence of string values.
func Strings(values ...string) Value {
	items := make([]Value, len(values))
	for i, s := range values {
		items[i] = String(s)
	}
	return Value{kind: KindSequence, items: items}
}

// Sequence wraps an ordered list. The slice is copied.
func Sequence(items ...Value) Value {
	return Value{kind: KindSequence, items: append([]Value{}, items...)}
}

// MappingValue wraps a mapping. A nil mapping is treated as empty.
func MappingValue(m *Mapping) Value {
	if m == nil {
		m = NewMapping()
	}
	return Value{kind: KindMapping, mapping: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean payload and whether the value is a Bool.
func (v Value) AsBool() (bool, bool) {
	return v.boolean, v.kind == KindBool
}

// AsNumber returns the numeric payload and whether the value is a Number.
func (v Value) AsNumber() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// AsString returns the string payload and whether the value is a String.
func (v Value) AsString() (string, bool) {
	return v.text, v.kind == KindString
}

// AsSequence returns a copy of the sequence items.
func (v Value) AsSequence() ([]Value, bool) {
	if v.kind != KindSequence {
		return nil, false
	}
	return append([]Value(nil), v.items...), true
}

// AsMapping returns the nested mapping. Callers must not mutate it.
func (v Value) AsMapping() (*Mapping, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	return v.mapping, true
}

// Len reports the number of items for sequences and mappings, the byte
// length for strings and zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindString:
		return len(v.text)
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return v.mapping.Len()
	default:
		return 0
	}
}

// IsEmpty reports whether the value carries no usable content: null, an
// empty or blank string, an empty sequence or an empty mapping.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.text) == ""
	case KindSequence, KindMapping:
		return v.Len() == 0
	default:
		return false
	}
}

// Equal reports deep equality. Mappings compare by key set and per-key
// values; use SameOrder to also require identical key order.
func (v Value) Equal(other Value) bool {
	return equal(v, other, false)
}

// SameOrder is Equal plus identical mapping key order at every level.
func (v Value) SameOrder(other Value) bool {
	return equal(v, other, true)
}

func equal(a, b Value, ordered bool) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		if math.IsNaN(a.number) && math.IsNaN(b.number) {
			return true
		}
		return a.number == b.number
	case KindString:
		return a.text == b.text
	case KindSequence:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !equal(a.items[i], b.items[i], ordered) {
				return false
			}
		}
		return true
	case KindMapping:
		return mappingEqual(a.mapping, b.mapping, ordered)
	default:
		return false
	}
}

// Text renders scalars as plain text: numbers in shortest decimal form,
// booleans as true/false, null as the empty string. Sequences join their
// rendered items with sep; mappings render as the empty string.
func (v Value) Text(sep string) string {
	switch v.kind {
	case KindNull:
		return ""
	case KindBool:
		return strconv.FormatBool(v.boolean)
	case KindNumber:
		return FormatNumber(v.number)
	case KindString:
		return v.text
	case KindSequence:
		parts := make([]string, 0, len(v.items))
		for _, item := range v.items {
			if item.kind == KindMapping || item.kind == KindNull {
				continue
			}
			parts = append(parts, item.Text(sep))
		}
		return strings.Join(parts, sep)
	default:
		return ""
	}
}

// FormatNumber renders a number in fixed decimal notation without exponent
// and without trailing zeros.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// GoString supports %#v in test failure output.
func (v Value) GoString() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindString:
		return strconv.Quote(v.text)
	case KindSequence:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.GoString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		return v.mapping.GoString()
	default:
		return v.Text("")
	}
}

func (v Value) String() string { return v.GoString() }

var _ fmt.GoStringer = Value{}
