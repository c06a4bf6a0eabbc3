package notation

import (
	"errors"
	"testing"

	"github.com/goliatone/go-metagen/internal/value"
)

func sampleMapping() *value.Mapping {
	author := value.NewMapping()
	author.Set("name", value.String("Ada Lovelace"))
	author.Set("handle", value.String("@ada"))

	m := value.NewMapping()
	m.Set("title", value.String("Hello: World"))
	m.Set("draft", value.Bool(false))
	m.Set("weight", value.Number(10))
	m.Set("ratio", value.Number(0.75))
	m.Set("tags", value.Strings("go", "yes", "123"))
	m.Set("author", value.MappingValue(author))
	return m
}

func TestAdaptersRoundTrip(t *testing.T) {
	for _, adapter := range Defaults() {
		t.Run(adapter.Notation.String(), func(t *testing.T) {
			want := sampleMapping()
			text, err := adapter.Encode(want)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := adapter.Parse(text)
			if err != nil {
				t.Fatalf("parse: %v\n%s", err, text)
			}
			if !got.Equal(want) {
				t.Fatalf("round trip mismatch\nwant %#v\ngot  %#v\ntext:\n%s", want, got, text)
			}
		})
	}
}

func TestParsePreservesDocumentOrder(t *testing.T) {
	cases := []struct {
		notation Notation
		text     string
	}{
		{YAML, "zeta: 1\nalpha: 2\nmid: 3\n"},
		{TOML, "zeta = 1\nalpha = 2\nmid = 3\n"},
		{JSON, `{"zeta": 1, "alpha": 2, "mid": 3}`},
	}
	for _, tc := range cases {
		t.Run(tc.notation.String(), func(t *testing.T) {
			adapter, _ := Find(Defaults(), tc.notation)
			m, err := adapter.Parse(tc.text)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			keys := m.Keys()
			want := []string{"zeta", "alpha", "mid"}
			for i := range want {
				if keys[i] != want[i] {
					t.Fatalf("expected %v, got %v", want, keys)
				}
			}
		})
	}
}

func TestTOMLNestedTablesKeepOrder(t *testing.T) {
	text := "title = \"x\"\n\n[params]\nzeta = true\nalpha = false\n\n[author]\nname = \"Ada\"\n"
	m, err := parseTOML(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if keys := m.Keys(); len(keys) != 3 || keys[1] != "params" || keys[2] != "author" {
		t.Fatalf("unexpected top-level order %v", keys)
	}
	params, _ := m.Get("params")
	nested, _ := params.AsMapping()
	if keys := nested.Keys(); keys[0] != "zeta" || keys[1] != "alpha" {
		t.Fatalf("unexpected nested order %v", keys)
	}
}

func TestTOMLLocalDateKeepsShape(t *testing.T) {
	m, err := parseTOML("date = 2024-03-05\nstamp = 2024-03-05T10:11:12Z\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	date, _ := m.Get("date")
	if got := date.Text(""); got != "2024-03-05" {
		t.Fatalf("expected local date text, got %q", got)
	}
	stamp, _ := m.Get("stamp")
	if got := stamp.Text(""); got != "2024-03-05T10:11:12Z" {
		t.Fatalf("expected RFC3339 text, got %q", got)
	}
}

func TestYAMLScalarsAndMergeKeys(t *testing.T) {
	text := `base: &base
  layout: post
  comments: true
page:
  <<: *base
  comments: false
count: 0x10
empty:
published: 2024-01-02
quoted: "42"
`
	m, err := parseYAML(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if v, _ := m.Lookup("page.layout"); v.Text("") != "post" {
		t.Fatalf("expected merged layout, got %#v", v)
	}
	if v, _ := m.Lookup("page.comments"); v.Text("") != "false" {
		t.Fatalf("expected explicit key to win over merge, got %#v", v)
	}
	if v, _ := m.Get("count"); v.Kind() != value.KindNumber || v.Text("") != "16" {
		t.Fatalf("expected hex integer to decode, got %#v", v)
	}
	if v, _ := m.Get("empty"); !v.IsNull() {
		t.Fatalf("expected empty value to be null, got %#v", v)
	}
	if v, _ := m.Get("published"); v.Kind() != value.KindString || v.Text("") != "2024-01-02" {
		t.Fatalf("expected timestamp source text, got %#v", v)
	}
	if v, _ := m.Get("quoted"); v.Kind() != value.KindString {
		t.Fatalf("expected quoted number to stay a string, got %#v", v)
	}
}

func TestYAMLEncodeQuotesAmbiguousStrings(t *testing.T) {
	m := value.NewMapping()
	m.Set("flag", value.String("true"))
	m.Set("n", value.String("12"))

	text, err := encodeYAML(m)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	back, err := parseYAML(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v, _ := back.Get("flag"); v.Kind() != value.KindString {
		t.Fatalf("expected string to survive encoding, got %#v in\n%s", v, text)
	}
	if v, _ := back.Get("n"); v.Kind() != value.KindString {
		t.Fatalf("expected numeric-looking string to survive encoding, got %#v in\n%s", v, text)
	}
}

func TestParseErrorsCarryLine(t *testing.T) {
	cases := []struct {
		notation Notation
		text     string
		line     int
	}{
		{YAML, "title: ok\nbad: [unclosed\n", 0},
		{TOML, "title = \"ok\"\nbroken = \n", 2},
		{JSON, "{\n  \"title\": \"ok\",\n  \"x\": ,\n}", 3},
	}
	for _, tc := range cases {
		t.Run(tc.notation.String(), func(t *testing.T) {
			adapter, _ := Find(Defaults(), tc.notation)
			_, err := adapter.Parse(tc.text)
			if err == nil {
				t.Fatalf("expected parse error")
			}
			if !errors.Is(err, ErrNotationParse) {
				t.Fatalf("expected ErrNotationParse, got %v", err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Notation != tc.notation {
				t.Fatalf("expected notation %s, got %s", tc.notation, perr.Notation)
			}
			if tc.line > 0 && perr.Line != tc.line {
				t.Fatalf("expected line %d, got %d (%v)", tc.line, perr.Line, err)
			}
		})
	}
}

func TestJSONRejectsTrailingContent(t *testing.T) {
	if _, err := parseJSON(`{"a": 1} {"b": 2}`); !errors.Is(err, ErrNotationParse) {
		t.Fatalf("expected trailing content to fail, got %v", err)
	}
}

func TestTopLevelMustBeMapping(t *testing.T) {
	if _, err := parseYAML("- a\n- b\n"); err == nil {
		t.Fatalf("expected yaml sequence to be rejected")
	}
	if _, err := parseJSON(`[1, 2]`); err == nil {
		t.Fatalf("expected json array to be rejected")
	}
}

func TestEmptyHeaderIsEmptyMapping(t *testing.T) {
	for _, adapter := range Defaults() {
		m, err := adapter.Parse("  \n")
		if err != nil {
			t.Fatalf("%s: unexpected error %v", adapter.Notation, err)
		}
		if m.Len() != 0 {
			t.Fatalf("%s: expected empty mapping, got %#v", adapter.Notation, m)
		}
	}
}

func TestParseLabel(t *testing.T) {
	if n, ok := Parse(".yml"); !ok || n != YAML {
		t.Fatalf("expected .yml to resolve to yaml, got %v %v", n, ok)
	}
	if _, ok := Parse("ini"); ok {
		t.Fatalf("expected unknown label to fail")
	}
	if None.String() != "none" {
		t.Fatalf("expected none label, got %q", None.String())
	}
}
