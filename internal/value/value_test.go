package value

import (
	"encoding/json"
	"testing"
)

func TestMappingPreservesInsertionOrder(t *testing.T) {
	m := NewMapping()
	m.Set("title", String("Post"))
	m.Set("date", String("2024-01-02"))
	m.Set("tags", Strings("go", "yaml"))
	m.Set("title", String("Renamed"))

	keys := m.Keys()
	want := []string{"title", "date", "tags"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), keys)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: expected %q, got %q", i, want[i], keys[i])
		}
	}

	title, _ := m.Get("title")
	if s, _ := title.AsString(); s != "Renamed" {
		t.Fatalf("expected replaced title, got %q", s)
	}
}

func TestMappingLookupDottedPath(t *testing.T) {
	author := NewMapping()
	author.Set("name", String("Ada"))
	m := NewMapping()
	m.Set("author", MappingValue(author))
	m.Set("og.title", String("literal"))

	if v, ok := m.Lookup("author.name"); !ok || v.Text("") != "Ada" {
		t.Fatalf("expected nested lookup to resolve, got %v %v", v, ok)
	}
	if v, ok := m.Lookup("og.title"); !ok || v.Text("") != "literal" {
		t.Fatalf("expected literal dotted key to win, got %v %v", v, ok)
	}
	if _, ok := m.Lookup("author.email"); ok {
		t.Fatalf("expected missing nested key to report false")
	}
}

func TestEqualIgnoresMappingOrder(t *testing.T) {
	a := NewMapping()
	a.Set("a", Number(1))
	a.Set("b", Bool(true))
	b := NewMapping()
	b.Set("b", Bool(true))
	b.Set("a", Number(1))

	if !MappingValue(a).Equal(MappingValue(b)) {
		t.Fatalf("expected mappings with same entries to be equal")
	}
	if MappingValue(a).SameOrder(MappingValue(b)) {
		t.Fatalf("expected SameOrder to detect differing key order")
	}
	if Number(1).Equal(String("1")) {
		t.Fatalf("expected different kinds to be unequal")
	}
}

func TestTextRendering(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want string
	}{
		{"null", Null(), ""},
		{"bool", Bool(false), "false"},
		{"integer", Number(42), "42"},
		{"fraction", Number(3.25), "3.25"},
		{"large", Number(1e21), "1000000000000000000000"},
		{"sequence", Sequence(String("a"), Number(2), Bool(true)), "a, 2, true"},
		{"mapping", MappingValue(nil), ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Text(", "); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	if !String("  ").IsEmpty() {
		t.Fatalf("expected blank string to be empty")
	}
	if !Sequence().IsEmpty() {
		t.Fatalf("expected empty sequence to be empty")
	}
	if Number(0).IsEmpty() || Bool(false).IsEmpty() {
		t.Fatalf("expected zero scalars to be non-empty")
	}
}

func TestFromAnySortsMapKeys(t *testing.T) {
	v, err := FromAny(map[string]any{
		"z":    1,
		"a":    []any{"x", 2.5, nil},
		"flag": true,
	})
	if err != nil {
		t.Fatalf("FromAny: %v", err)
	}
	m, ok := v.AsMapping()
	if !ok {
		t.Fatalf("expected mapping, got %v", v.Kind())
	}
	if keys := m.Keys(); keys[0] != "a" || keys[1] != "flag" || keys[2] != "z" {
		t.Fatalf("expected sorted keys, got %v", keys)
	}
	seq, _ := m.Get("a")
	items, _ := seq.AsSequence()
	if len(items) != 3 || !items[2].IsNull() {
		t.Fatalf("unexpected sequence conversion: %#v", seq)
	}
}

func TestMarshalJSONKeepsOrder(t *testing.T) {
	m := NewMapping()
	m.Set("zeta", String("z"))
	m.Set("alpha", Sequence(Number(1), Null()))

	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"zeta":"z","alpha":[1,null]}`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestMarshalJSONKeepsHTML(t *testing.T) {
	m := NewMapping()
	m.Set("tag", String(`<meta name="a" content="b & c">`))

	raw, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"tag":"<meta name=\"a\" content=\"b & c\">"}`
	if string(raw) != want {
		t.Fatalf("expected %s, got %s", want, raw)
	}
}

func TestCloneIsDeep(t *testing.T) {
	inner := NewMapping()
	inner.Set("k", String("v"))
	m := NewMapping()
	m.Set("nested", MappingValue(inner))

	clone := m.Clone()
	inner.Set("k", String("changed"))

	v, _ := clone.Lookup("nested.k")
	if v.Text("") != "v" {
		t.Fatalf("expected clone to be isolated from source mutation, got %q", v.Text(""))
	}
}

func TestParseKind(t *testing.T) {
	if k, ok := ParseKind("Array"); !ok || k != KindSequence {
		t.Fatalf("expected array to map to sequence, got %v %v", k, ok)
	}
	if _, ok := ParseKind("date"); ok {
		t.Fatalf("expected unknown label to be rejected")
	}
}
