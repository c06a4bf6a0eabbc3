package metatags

import (
	"fmt"
	"strings"
)

// AttrKind selects the attribute that carries the tag identifier.
type AttrKind int

const (
	AttrName AttrKind = iota
	AttrProperty
	AttrHTTPEquiv
)

func (k AttrKind) String() string {
	switch k {
	case AttrProperty:
		return "property"
	case AttrHTTPEquiv:
		return "http-equiv"
	default:
		return "name"
	}
}

// ParseAttrKind accepts "name", "property" or "http-equiv". Empty means name.
func ParseAttrKind(label string) (AttrKind, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "name":
		return AttrName, nil
	case "property":
		return AttrProperty, nil
	case "http-equiv", "httpequiv":
		return AttrHTTPEquiv, nil
	default:
		return AttrName, fmt.Errorf("metatags: unknown attribute kind %q", label)
	}
}

// Group buckets tags the way head templates usually lay them out.
type Group string

const (
	GroupApple   Group = "apple"
	GroupPrimary Group = "primary"
	GroupOG      Group = "og"
	GroupMS      Group = "ms"
	GroupTwitter Group = "twitter"
)

// GroupOrder is the rendering order used by Block.Groups.
var GroupOrder = []Group{GroupApple, GroupPrimary, GroupOG, GroupMS, GroupTwitter}

// GroupFor classifies an attribute value by its well-known prefix.
func GroupFor(attribute string) Group {
	switch {
	case strings.HasPrefix(attribute, "apple-"):
		return GroupApple
	case strings.HasPrefix(attribute, "msapplication-"):
		return GroupMS
	case strings.HasPrefix(attribute, "og:"):
		return GroupOG
	case strings.HasPrefix(attribute, "twitter:"):
		return GroupTwitter
	default:
		return GroupPrimary
	}
}

// Field maps one metadata key to one meta tag.
type Field struct {
	// Key is the metadata key, optionally a dotted path.
	Key string
	// Attribute is the rendered identifier; defaults to Key.
	Attribute string
	Kind      AttrKind
	// Group defaults to GroupFor(Attribute).
	Group Group
}

func (f Field) attribute() string {
	if f.Attribute != "" {
		return f.Attribute
	}
	return f.Key
}

func (f Field) group() Group {
	if f.Group != "" {
		return f.Group
	}
	return GroupFor(f.attribute())
}

// FieldMap is an ordered list of fields; rendering follows its order.
type FieldMap []Field

// Simple builds a name-attribute field map where each key renders as itself.
func Simple(keys ...string) FieldMap {
	out := make(FieldMap, 0, len(keys))
	for _, key := range keys {
		out = append(out, Field{Key: key})
	}
	return out
}

// DefaultFieldMap covers the common apple, primary, Open Graph, Microsoft and
// Twitter tags. Open Graph tags use the property attribute.
func DefaultFieldMap() FieldMap {
	fields := FieldMap{
		{Key: "apple-mobile-web-app-capable"},
		{Key: "apple-mobile-web-app-status-bar-style"},
		{Key: "apple-mobile-web-app-title"},
		{Key: "author"},
		{Key: "description"},
		{Key: "keywords"},
		{Key: "viewport"},
		{Key: "og:title", Kind: AttrProperty},
		{Key: "og:description", Kind: AttrProperty},
		{Key: "og:image", Kind: AttrProperty},
		{Key: "og:url", Kind: AttrProperty},
		{Key: "og:type", Kind: AttrProperty},
		{Key: "msapplication-TileColor"},
		{Key: "msapplication-TileImage"},
		{Key: "twitter:card"},
		{Key: "twitter:site"},
		{Key: "twitter:title"},
		{Key: "twitter:description"},
		{Key: "twitter:image"},
	}
	for i := range fields {
		fields[i].Group = GroupFor(fields[i].Key)
	}
	return fields
}
