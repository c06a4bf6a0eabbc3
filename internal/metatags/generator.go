// Package metatags renders metadata into HTML <meta> tags and reads them
// back out of HTML documents.
package metatags

import (
	"strings"

	"github.com/goliatone/go-metagen/internal/htmlesc"
	"github.com/goliatone/go-metagen/internal/value"
)

// DefaultSeparator joins sequence values.
const DefaultSeparator = ", "

// Tag is a single meta tag. Content is stored unescaped.
type Tag struct {
	Key       string
	Attribute string
	Kind      AttrKind
	Group     Group
	Content   string
}

// Render writes the tag as HTML with escaped attribute values.
func (t Tag) Render(selfClosing bool) string {
	var b strings.Builder
	b.WriteString(`<meta `)
	b.WriteString(t.Kind.String())
	b.WriteString(`="`)
	b.WriteString(htmlesc.Escape(t.Attribute))
	b.WriteString(`" content="`)
	b.WriteString(htmlesc.Escape(t.Content))
	if selfClosing {
		b.WriteString(`" />`)
	} else {
		b.WriteString(`">`)
	}
	return b.String()
}

func (t Tag) String() string {
	return t.Render(false)
}

// Block is an ordered set of rendered tags.
type Block struct {
	Tags        []Tag
	SelfClosing bool
}

func (b Block) Len() int {
	return len(b.Tags)
}

// Strings renders each tag in order.
func (b Block) Strings() []string {
	out := make([]string, len(b.Tags))
	for i, tag := range b.Tags {
		out[i] = tag.Render(b.SelfClosing)
	}
	return out
}

// String joins the rendered tags with newlines.
func (b Block) String() string {
	return strings.Join(b.Strings(), "\n")
}

// GroupBlock pairs a group with its tags.
type GroupBlock struct {
	Group Group
	Block Block
}

// Groups splits the block by group following GroupOrder. Groups outside
// GroupOrder follow in first-seen order. Empty groups are omitted.
func (b Block) Groups() []GroupBlock {
	buckets := map[Group][]Tag{}
	var extra []Group
	known := map[Group]bool{}
	for _, g := range GroupOrder {
		known[g] = true
	}
	for _, tag := range b.Tags {
		if !known[tag.Group] {
			if _, seen := buckets[tag.Group]; !seen {
				extra = append(extra, tag.Group)
			}
		}
		buckets[tag.Group] = append(buckets[tag.Group], tag)
	}

	var out []GroupBlock
	for _, g := range append(append([]Group(nil), GroupOrder...), extra...) {
		tags := buckets[g]
		if len(tags) == 0 {
			continue
		}
		out = append(out, GroupBlock{Group: g, Block: Block{Tags: tags, SelfClosing: b.SelfClosing}})
	}
	return out
}

// ToMapping returns attribute to content. Later duplicates win.
func (b Block) ToMapping() *value.Mapping {
	out := value.NewMapping()
	for _, tag := range b.Tags {
		out.Set(tag.Attribute, value.String(tag.Content))
	}
	return out
}

type options struct {
	separator   string
	selfClosing bool
}

// Option configures Generate.
type Option func(*options)

// WithSeparator sets the string used to join sequence values.
func WithSeparator(sep string) Option {
	return func(o *options) {
		o.separator = sep
	}
}

// WithSelfClosing renders tags as `<meta ... />`.
func WithSelfClosing(enabled bool) Option {
	return func(o *options) {
		o.selfClosing = enabled
	}
}

// Generate renders one tag per field present in meta, in field map order.
// Absent, null and mapping values produce nothing. The output is a pure
// function of its inputs.
func Generate(meta *value.Mapping, fields FieldMap, opts ...Option) Block {
	cfg := options{separator: DefaultSeparator}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	block := Block{SelfClosing: cfg.selfClosing}
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		v, ok := meta.Lookup(field.Key)
		if !ok {
			continue
		}
		switch v.Kind() {
		case value.KindNull, value.KindMapping:
			continue
		}
		block.Tags = append(block.Tags, Tag{
			Key:       field.Key,
			Attribute: field.attribute(),
			Kind:      field.Kind,
			Group:     field.group(),
			Content:   v.Text(cfg.separator),
		})
	}
	return block
}
