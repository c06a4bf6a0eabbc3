package keywords

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-metagen/internal/value"
)

func TestDerive(t *testing.T) {
	nested := value.NewMapping()
	nested.Set("keywords", value.String("deep"))

	cases := []struct {
		name   string
		meta   func() *value.Mapping
		fields []string
		opts   []Option
		want   []string
	}{
		{
			name: "duplicate string entries",
			meta: func() *value.Mapping {
				m := value.NewMapping()
				m.Set("keywords", value.String("rust, metadata, rust"))
				return m
			},
			fields: []string{"keywords"},
			want:   []string{"rust", "metadata"},
		},
		{
			name: "semicolons and blanks",
			meta: func() *value.Mapping {
				m := value.NewMapping()
				m.Set("keywords", value.String(" a ;; b,, ,c "))
				return m
			},
			fields: []string{"keywords"},
			want:   []string{"a", "b", "c"},
		},
		{
			name: "sequence flattening across fields",
			meta: func() *value.Mapping {
				m := value.NewMapping()
				m.Set("tags", value.Sequence(value.String("go"), value.Number(2024), value.Sequence(value.String("yaml, toml"))))
				m.Set("keywords", value.Strings("Go", "go"))
				return m
			},
			fields: []string{"keywords", "tags"},
			want:   []string{"Go", "go", "2024", "yaml", "toml"},
		},
		{
			name: "missing and unsupported fields",
			meta: func() *value.Mapping {
				m := value.NewMapping()
				m.Set("keywords", value.Number(5))
				m.Set("tags", value.MappingValue(nil))
				return m
			},
			fields: []string{"keywords", "tags", "absent"},
			want:   []string{},
		},
		{
			name: "nested path",
			meta: func() *value.Mapping {
				m := value.NewMapping()
				m.Set("seo", value.MappingValue(nested))
				return m
			},
			fields: []string{"seo.keywords"},
			want:   []string{"deep"},
		},
		{
			name: "limit and lowercase",
			meta: func() *value.Mapping {
				m := value.NewMapping()
				m.Set("keywords", value.String("A, a, B, C"))
				return m
			},
			fields: []string{"keywords"},
			opts:   []Option{WithLowercase(), WithLimit(2)},
			want:   []string{"a", "b"},
		},
		{
			name: "custom delimiters",
			meta: func() *value.Mapping {
				m := value.NewMapping()
				m.Set("keywords", value.String("a|b, c"))
				return m
			},
			fields: []string{"keywords"},
			opts:   []Option{WithDelimiters("|")},
			want:   []string{"a", "b, c"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Derive(tc.meta(), tc.fields, tc.opts...)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestDeriveDefaultsAndNilMapping(t *testing.T) {
	if got := Derive(nil, nil); len(got) != 0 {
		t.Fatalf("expected no keywords from nil mapping, got %v", got)
	}

	m := value.NewMapping()
	m.Set("tags", value.Strings("x"))
	if got := Derive(m, nil); !reflect.DeepEqual(got, []string{"x"}) {
		t.Fatalf("expected default fields to include tags, got %v", got)
	}
}

func TestDeriveIgnoresDuplicateOrdering(t *testing.T) {
	a := value.NewMapping()
	a.Set("keywords", value.String("rust, metadata, rust, metadata"))
	b := value.NewMapping()
	b.Set("keywords", value.String("rust, rust, metadata"))

	if !reflect.DeepEqual(Derive(a, nil), Derive(b, nil)) {
		t.Fatalf("expected duplicate placement not to change the result")
	}
}
