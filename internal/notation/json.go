package notation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-metagen/internal/value"
)

func parseJSON(text string) (*value.Mapping, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, jsonError(text, dec, err)
	}
	if tok == nil {
		return value.NewMapping(), nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		line, col := lineCol(text, dec.InputOffset())
		return nil, newParseError(JSON, line, col, "top-level value must be an object", nil)
	}

	out, err := jsonObject(text, dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		line, col := lineCol(text, dec.InputOffset())
		if err != nil {
			return nil, jsonError(text, dec, err)
		}
		return nil, newParseError(JSON, line, col, "unexpected content after object", nil)
	}
	return out, nil
}

func jsonError(text string, dec *json.Decoder, err error) *ParseError {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		line, col := lineCol(text, syntax.Offset)
		return newParseError(JSON, line, col, syntax.Error(), err)
	}
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		line, col := lineCol(text, int64(len(text)))
		return newParseError(JSON, line, col, "unexpected end of input", err)
	}
	line, col := lineCol(text, dec.InputOffset())
	return newParseError(JSON, line, col, err.Error(), err)
}

// jsonObject reads members after an opening brace; duplicate members keep
// their first position and take the last value.
func jsonObject(text string, dec *json.Decoder) (*value.Mapping, error) {
	out := value.NewMapping()
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, jsonError(text, dec, err)
		}
		if delim, ok := tok.(json.Delim); ok && delim == '}' {
			return out, nil
		}
		key, ok := tok.(string)
		if !ok {
			line, col := lineCol(text, dec.InputOffset())
			return nil, newParseError(JSON, line, col, fmt.Sprintf("expected object key, got %v", tok), nil)
		}
		v, err := jsonValue(text, dec)
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
}

func jsonValue(text string, dec *json.Decoder) (value.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return value.Value{}, jsonError(text, dec, err)
	}

	switch t := tok.(type) {
	case nil:
		return value.Null(), nil
	case bool:
		return value.Bool(t), nil
	case string:
		return value.String(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			line, col := lineCol(text, dec.InputOffset())
			return value.Value{}, newParseError(JSON, line, col, "number out of range: "+t.String(), err)
		}
		return value.Number(f), nil
	case json.Delim:
		switch t {
		case '{':
			m, err := jsonObject(text, dec)
			if err != nil {
				return value.Value{}, err
			}
			return value.MappingValue(m), nil
		case '[':
			var items []value.Value
			for dec.More() {
				item, err := jsonValue(text, dec)
				if err != nil {
					return value.Value{}, err
				}
				items = append(items, item)
			}
			if _, err := dec.Token(); err != nil {
				return value.Value{}, jsonError(text, dec, err)
			}
			return value.Sequence(items...), nil
		}
	}

	line, col := lineCol(text, dec.InputOffset())
	return value.Value{}, newParseError(JSON, line, col, fmt.Sprintf("unexpected token %v", tok), nil)
}

func encodeJSON(m *value.Mapping) (string, error) {
	if m == nil {
		m = value.NewMapping()
	}
	raw, err := m.MarshalJSON()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}
