// Package enrich derives normalised fields from extracted metadata: a
// canonical date and a URL slug.
package enrich

import (
	"errors"
	"fmt"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-slug"

	"github.com/goliatone/go-metagen/internal/value"
)

const (
	// DateLayout is the canonical output layout.
	DateLayout = "2006-01-02"

	textCodeDateParse = "DATE_PARSE_FAILED"
	textCodeSlug      = "SLUG_DERIVATION_FAILED"
)

// ErrDateParse reports a date value that matches no supported layout.
var ErrDateParse = errors.New("date parse failed")

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	DateLayout,
	"2006/01/02",
	"02/01/2006",
	"01/02/2006",
	"January 2, 2006",
	"2 January 2006",
	"Jan 2, 2006",
}

// Options selects the fields Process reads and writes.
type Options struct {
	DateField  string
	TitleField string
	SlugField  string
	// Slugger turns a title into a slug. Defaults to go-slug normalisation.
	Slugger func(string) (string, error)
}

// DefaultOptions uses the conventional date, title and slug keys.
func DefaultOptions() Options {
	return Options{
		DateField:  "date",
		TitleField: "title",
		SlugField:  "slug",
		Slugger:    slug.Normalize,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.DateField == "" {
		o.DateField = def.DateField
	}
	if o.TitleField == "" {
		o.TitleField = def.TitleField
	}
	if o.SlugField == "" {
		o.SlugField = def.SlugField
	}
	if o.Slugger == nil {
		o.Slugger = def.Slugger
	}
	return o
}

// Process returns a copy of meta with the date standardised to YYYY-MM-DD
// and a slug derived from the title when none is set. meta is not modified.
func Process(meta *value.Mapping, opts Options) (*value.Mapping, error) {
	opts = opts.withDefaults()
	out := meta.Clone()

	if raw, ok := out.Get(opts.DateField); ok && !raw.IsNull() {
		text, isString := raw.AsString()
		if !isString {
			return nil, dateError(raw.Text(", "), fmt.Errorf("%w: %s value is a %s", ErrDateParse, opts.DateField, raw.Kind()))
		}
		date, err := StandardizeDate(text)
		if err != nil {
			return nil, err
		}
		out.Set(opts.DateField, value.String(date))
	}

	if existing, ok := out.Get(opts.SlugField); !ok || existing.IsEmpty() {
		if title, ok := out.Get(opts.TitleField); ok && title.Kind() == value.KindString && !title.IsEmpty() {
			text, _ := title.AsString()
			derived, err := opts.Slugger(text)
			if err != nil {
				return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "derive slug from "+opts.TitleField).
					WithTextCode(textCodeSlug)
			}
			if derived != "" {
				out.Set(opts.SlugField, value.String(derived))
			}
		}
	}

	return out, nil
}

// StandardizeDate parses s with the supported layouts and formats it as
// YYYY-MM-DD. Day-first slashed dates win over month-first ones when both
// parse.
func StandardizeDate(s string) (string, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "", dateError(s, fmt.Errorf("%w: empty date", ErrDateParse))
	}
	if len(trimmed) < 8 {
		return "", dateError(s, fmt.Errorf("%w: %q is too short", ErrDateParse, trimmed))
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", dateError(s, fmt.Errorf("%w: unsupported date %q", ErrDateParse, trimmed))
}

func dateError(raw string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "standardize date").
		WithTextCode(textCodeDateParse).
		WithMetadata(map[string]any{"value": raw})
}
