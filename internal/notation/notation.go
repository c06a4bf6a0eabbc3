// Package notation translates frontmatter headers written in YAML, TOML or
// JSON into the value model. Each adapter is a pure function pair (parse and
// encode); the ordered adapter list returned by Defaults doubles as the
// detection priority used by the frontmatter package.
package notation

import (
	"strings"

	"github.com/goliatone/go-metagen/internal/value"
)

// Notation names a supported header syntax.
type Notation string

const (
	None Notation = ""
	YAML Notation = "yaml"
	TOML Notation = "toml"
	JSON Notation = "json"
)

func (n Notation) String() string {
	if n == None {
		return "none"
	}
	return string(n)
}

// Parse resolves a notation label, accepting common file extensions.
func Parse(label string) (Notation, bool) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(label), ".")) {
	case "yaml", "yml":
		return YAML, true
	case "toml", "tml":
		return TOML, true
	case "json":
		return JSON, true
	default:
		return None, false
	}
}

// Delimiter describes one opening/closing marker pair for a notation.
type Delimiter struct {
	// Start is the trimmed opening line, e.g. "---" or "+++".
	Start string
	// End is the trimmed closing line.
	End string
	// KeepDelims passes the delimiter lines to the parser (bare JSON objects).
	KeepDelims bool
	// RequiresBlankLine demands an empty line (or end of input) after End.
	RequiresBlankLine bool
}

// ParseFunc turns raw header text into a mapping.
type ParseFunc func(text string) (*value.Mapping, error)

// EncodeFunc renders a mapping as header text without delimiters.
type EncodeFunc func(m *value.Mapping) (string, error)

// Adapter binds a notation to its delimiters and translators.
type Adapter struct {
	Notation   Notation
	Delimiters []Delimiter
	Parse      ParseFunc
	Encode     EncodeFunc
}

// Defaults returns a fresh adapter list in detection priority order:
// YAML, then TOML, then JSON.
func Defaults() []Adapter {
	return []Adapter{YAMLAdapter(), TOMLAdapter(), JSONAdapter()}
}

// Find returns the adapter registered for n.
func Find(adapters []Adapter, n Notation) (Adapter, bool) {
	for _, adapter := range adapters {
		if adapter.Notation == n {
			return adapter, true
		}
	}
	return Adapter{}, false
}

// YAMLAdapter handles `---` and `---yaml` headers.
func YAMLAdapter() Adapter {
	return Adapter{
		Notation: YAML,
		Delimiters: []Delimiter{
			{Start: "---", End: "---"},
			{Start: "---yaml", End: "---"},
		},
		Parse:  guardEmpty(parseYAML),
		Encode: encodeYAML,
	}
}

// TOMLAdapter handles `+++` and `---toml` headers.
func TOMLAdapter() Adapter {
	return Adapter{
		Notation: TOML,
		Delimiters: []Delimiter{
			{Start: "+++", End: "+++"},
			{Start: "---toml", End: "---"},
		},
		Parse:  guardEmpty(parseTOML),
		Encode: encodeTOML,
	}
}

// JSONAdapter handles `;;;`, `---json` and bare `{ ... }` headers. The bare
// form keeps its braces and must be followed by a blank line.
func JSONAdapter() Adapter {
	return Adapter{
		Notation: JSON,
		Delimiters: []Delimiter{
			{Start: ";;;", End: ";;;"},
			{Start: "---json", End: "---"},
			{Start: "{", End: "}", KeepDelims: true, RequiresBlankLine: true},
		},
		Parse:  guardEmpty(parseJSON),
		Encode: encodeJSON,
	}
}

func guardEmpty(fn ParseFunc) ParseFunc {
	return func(text string) (*value.Mapping, error) {
		if strings.TrimSpace(text) == "" {
			return value.NewMapping(), nil
		}
		return fn(text)
	}
}
