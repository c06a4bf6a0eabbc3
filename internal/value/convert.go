package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// FromAny converts a generic Go tree (as produced by encoding/json,
// yaml or toml decoders) into a Value. Map keys are sorted so the result is
// deterministic; callers that know the source order should build mappings
// directly instead.
func FromAny(input any) (Value, error) {
	switch v := input.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case *Mapping:
		return MappingValue(v), nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("value: number %q: %w", v.String(), err)
		}
		return Number(f), nil
	case float64:
		return Number(v), nil
	case float32:
		return Number(float64(v)), nil
	case int:
		return Number(float64(v)), nil
	case int8:
		return Number(float64(v)), nil
	case int16:
		return Number(float64(v)), nil
	case int32:
		return Number(float64(v)), nil
	case int64:
		return Number(float64(v)), nil
	case uint:
		return Number(float64(v)), nil
	case uint8:
		return Number(float64(v)), nil
	case uint16:
		return Number(float64(v)), nil
	case uint32:
		return Number(float64(v)), nil
	case uint64:
		return Number(float64(v)), nil
	case time.Time:
		return String(v.Format(time.RFC3339)), nil
	case fmt.Stringer:
		return String(v.String()), nil
	}

	rv := reflect.ValueOf(input)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := FromAny(rv.Index(i).Interface())
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindSequence, items: items}, nil
	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		lookup := make(map[string]reflect.Value, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key := fmt.Sprint(iter.Key().Interface())
			keys = append(keys, key)
			lookup[key] = iter.Value()
		}
		sort.Strings(keys)
		out := NewMapping()
		for _, key := range keys {
			item, err := FromAny(lookup[key].Interface())
			if err != nil {
				return Value{}, err
			}
			out.Set(key, item)
		}
		return MappingValue(out), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromAny(rv.Elem().Interface())
	}
	return Value{}, fmt.Errorf("value: unsupported type %T", input)
}

// FromMap builds a mapping from a Go map with sorted keys.
func FromMap(input map[string]any) (*Mapping, error) {
	v, err := FromAny(input)
	if err != nil {
		return nil, err
	}
	m, _ := v.AsMapping()
	return m, nil
}

// ToAny converts a Value into plain Go types: nil, bool, float64, string,
// []any and map[string]any. Key order is lost for mappings.
func ToAny(v Value) any {
	switch v.kind {
	case KindBool:
		return v.boolean
	case KindNumber:
		return v.number
	case KindString:
		return v.text
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = ToAny(item)
		}
		return out
	case KindMapping:
		return v.mapping.ToMap()
	default:
		return nil
	}
}

// ToMap converts the mapping into a plain Go map.
func (m *Mapping) ToMap() map[string]any {
	out := make(map[string]any, m.Len())
	m.Each(func(key string, v Value) bool {
		out[key] = ToAny(v)
		return true
	})
	return out
}

// MarshalJSON encodes the value, keeping mapping key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	return MappingValue(m).MarshalJSON()
}

func writeJSON(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.boolean))
	case KindString:
		if err := writeJSONString(buf, v.text); err != nil {
			return err
		}
	case KindNumber:
		raw, err := json.Marshal(v.number)
		if err != nil {
			return fmt.Errorf("value: encode number: %w", err)
		}
		buf.Write(raw)
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMapping:
		buf.WriteByte('{')
		var err error
		first := true
		v.mapping.Each(func(key string, item Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err = writeJSONString(buf, key); err != nil {
				return false
			}
			buf.WriteByte(':')
			if err = writeJSON(buf, item); err != nil {
				return false
			}
			return true
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	}
	return nil
}

// writeJSONString quotes s without escaping HTML characters, so rendered
// meta tags stay readable.
func writeJSONString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
