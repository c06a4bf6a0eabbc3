package notation

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/goliatone/go-metagen/internal/value"
)

const tomlPathSep = "\x00"

func parseTOML(text string) (*value.Mapping, error) {
	raw := map[string]any{}
	md, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, tomlError(text, err)
	}

	order := tomlKeyOrder(md.Keys())
	out, err := tomlTable(raw, nil, order)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func tomlError(text string, err error) *ParseError {
	var perr toml.ParseError
	if errors.As(err, &perr) {
		line, col := perr.Position.Line, perr.Position.Col
		if col == 0 {
			line, col = lineCol(text, int64(perr.Position.Start))
		}
		return newParseError(TOML, line, col, perr.Message, err)
	}
	return newParseError(TOML, 0, 0, err.Error(), err)
}

// tomlKeyOrder records the first document position of each key, scoped by its
// parent path, so decoded tables can be rebuilt in source order.
func tomlKeyOrder(keys []toml.Key) map[string]int {
	order := make(map[string]int, len(keys))
	for i, key := range keys {
		for depth := 1; depth <= len(key); depth++ {
			path := strings.Join(key[:depth], tomlPathSep)
			if _, ok := order[path]; !ok {
				order[path] = i
			}
		}
	}
	return order
}

func tomlTable(table map[string]any, parent []string, order map[string]int) (*value.Mapping, error) {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		pi, iok := order[tomlPath(parent, names[i])]
		pj, jok := order[tomlPath(parent, names[j])]
		switch {
		case iok && jok:
			if pi != pj {
				return pi < pj
			}
			return names[i] < names[j]
		case iok:
			return true
		case jok:
			return false
		default:
			return names[i] < names[j]
		}
	})

	out := value.NewMapping()
	for _, name := range names {
		v, err := tomlValue(table[name], append(parent[:len(parent):len(parent)], name), order)
		if err != nil {
			return nil, err
		}
		out.Set(name, v)
	}
	return out, nil
}

func tomlPath(parent []string, name string) string {
	if len(parent) == 0 {
		return name
	}
	return strings.Join(parent, tomlPathSep) + tomlPathSep + name
}

func tomlValue(raw any, path []string, order map[string]int) (value.Value, error) {
	switch v := raw.(type) {
	case nil:
		return value.Null(), nil
	case map[string]any:
		m, err := tomlTable(v, path, order)
		if err != nil {
			return value.Value{}, err
		}
		return value.MappingValue(m), nil
	case []map[string]any:
		items := make([]value.Value, 0, len(v))
		for _, table := range v {
			m, err := tomlTable(table, path, order)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, value.MappingValue(m))
		}
		return value.Sequence(items...), nil
	case []any:
		items := make([]value.Value, 0, len(v))
		for _, item := range v {
			converted, err := tomlValue(item, path, order)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, converted)
		}
		return value.Sequence(items...), nil
	case time.Time:
		return value.String(formatTOMLTime(v)), nil
	default:
		converted, err := value.FromAny(v)
		if err != nil {
			return value.Value{}, newParseError(TOML, 0, 0, fmt.Sprintf("key %q: %v", strings.Join(path, "."), err), err)
		}
		return converted, nil
	}
}

// formatTOMLTime keeps local dates and times in their original shape instead
// of pinning them to a zone.
func formatTOMLTime(t time.Time) string {
	switch t.Location().String() {
	case "date-local":
		return t.Format("2006-01-02")
	case "time-local":
		return t.Format("15:04:05.999999999")
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05.999999999")
	default:
		return t.Format(time.RFC3339Nano)
	}
}

func encodeTOML(m *value.Mapping) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(tomlTree(m)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// tomlTree drops nulls, which TOML cannot represent, and narrows integral
// numbers so they round-trip as integers.
func tomlTree(m *value.Mapping) map[string]any {
	out := make(map[string]any, m.Len())
	m.Each(func(key string, v value.Value) bool {
		if v.IsNull() {
			return true
		}
		out[key] = tomlAny(v)
		return true
	})
	return out
}

func tomlAny(v value.Value) any {
	switch v.Kind() {
	case value.KindNumber:
		f, _ := v.AsNumber()
		if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1<<53 {
			return int64(f)
		}
		return f
	case value.KindSequence:
		items, _ := v.AsSequence()
		out := make([]any, 0, len(items))
		for _, item := range items {
			if item.IsNull() {
				continue
			}
			out = append(out, tomlAny(item))
		}
		return out
	case value.KindMapping:
		m, _ := v.AsMapping()
		return tomlTree(m)
	default:
		return value.ToAny(v)
	}
}
