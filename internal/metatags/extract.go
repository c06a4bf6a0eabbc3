package metatags

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Extract collects <meta> tags that carry content and one of name, property
// or http-equiv. Attribute values are returned unescaped.
func Extract(document string) (Block, error) {
	return ExtractReader(strings.NewReader(document))
}

// ExtractReader is Extract over a reader.
func ExtractReader(r io.Reader) (Block, error) {
	z := html.NewTokenizer(r)
	var block Block
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return Block{}, fmt.Errorf("metatags: tokenize html: %w", err)
			}
			return block, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			token := z.Token()
			if token.Data != "meta" {
				continue
			}
			if tag, ok := tagFromAttrs(token.Attr); ok {
				block.Tags = append(block.Tags, tag)
			}
		}
	}
}

func tagFromAttrs(attrs []html.Attribute) (Tag, bool) {
	var (
		ident      = map[AttrKind]string{}
		content    string
		hasContent bool
	)
	for _, attr := range attrs {
		switch strings.ToLower(attr.Key) {
		case "name":
			ident[AttrName] = attr.Val
		case "property":
			ident[AttrProperty] = attr.Val
		case "http-equiv":
			ident[AttrHTTPEquiv] = attr.Val
		case "content":
			content, hasContent = attr.Val, true
		}
	}
	if !hasContent {
		return Tag{}, false
	}
	for _, kind := range []AttrKind{AttrName, AttrProperty, AttrHTTPEquiv} {
		if id, ok := ident[kind]; ok && id != "" {
			return Tag{
				Key:       id,
				Attribute: id,
				Kind:      kind,
				Group:     GroupFor(id),
				Content:   content,
			}, true
		}
	}
	return Tag{}, false
}
