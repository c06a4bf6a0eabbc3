package cli

import (
	"fmt"
	"io"

	"github.com/goliatone/go-metagen/internal/markdown"
	"github.com/goliatone/go-metagen/internal/notation"
	"github.com/goliatone/go-metagen/internal/value"
)

// encode writes m in the selected output notation.
func (a *app) encode(w io.Writer, m *value.Mapping) error {
	n, ok := notation.Parse(a.format)
	if !ok {
		return fmt.Errorf("invalid output format: %s", a.format)
	}
	adapter, ok := notation.Find(notation.Defaults(), n)
	if !ok || adapter.Encode == nil {
		return fmt.Errorf("no encoder for %s", n)
	}
	text, err := adapter.Encode(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", n, err)
	}
	_, err = io.WriteString(w, text)
	return err
}

// documentsRecord wraps several records so every notation can encode them.
func documentsRecord(records []*value.Mapping) *value.Mapping {
	items := make([]value.Value, len(records))
	for i, rec := range records {
		items[i] = value.MappingValue(rec)
	}
	out := value.NewMapping()
	out.Set("documents", value.Sequence(items...))
	return out
}

func resultRecord(res *markdown.Result) *value.Mapping {
	rec := value.NewMapping()
	rec.Set("path", value.String(res.Path))

	bundle := res.Bundle
	if bundle == nil {
		if res.Err != nil {
			rec.Set("error", value.String(res.Err.Error()))
		}
		return rec
	}

	rec.Set("notation", value.String(bundle.Notation.String()))
	metadata := bundle.Metadata
	if metadata == nil {
		metadata = value.NewMapping()
	}
	rec.Set("metadata", value.MappingValue(metadata))
	rec.Set("keywords", value.Strings(bundle.Keywords...))
	rec.Set("meta_tags", value.Strings(bundle.Tags.Strings()...))
	if len(res.HTML) > 0 {
		rec.Set("html", value.String(string(res.HTML)))
	}
	if violations := bundle.Validation.Violations; len(violations) > 0 {
		lines := make([]string, len(violations))
		for i, v := range violations {
			lines[i] = v.String()
		}
		rec.Set("violations", value.Strings(lines...))
	}
	return rec
}
