// Package frontmatter splits a document into its metadata header and body.
//
// Detection is decided once, from the first non-blank line, against an ordered
// list of notation adapters. The matching adapter parses the header; a failure
// is reported as-is and no other notation is attempted.
package frontmatter

import (
	"errors"
	"io"
	"strings"

	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/internal/notation"
	"github.com/goliatone/go-metagen/internal/value"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

const byteOrderMark = "\ufeff"

// Document is the result of a successful extraction.
type Document struct {
	Metadata *value.Mapping
	Body     string
	Notation notation.Notation
	Header   Header
}

// HasFrontmatter reports whether a header block was present.
func (d *Document) HasFrontmatter() bool {
	return d != nil && d.Header.Found
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithNotations replaces the adapter list. Order is detection priority.
func WithNotations(adapters ...notation.Adapter) Option {
	return func(e *Extractor) {
		if len(adapters) == 0 {
			return
		}
		e.adapters = append([]notation.Adapter(nil), adapters...)
	}
}

// WithLogger injects the logger used for debug traces. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(e *Extractor) {
		if logger == nil {
			e.logger = logging.NoOp()
			return
		}
		e.logger = logger
	}
}

// Extractor runs detection and parsing. It holds no mutable state and is safe
// for concurrent use.
type Extractor struct {
	adapters []notation.Adapter
	logger   interfaces.Logger
}

// NewExtractor returns an extractor using notation.Defaults unless overridden.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		adapters: notation.Defaults(),
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Notations returns a copy of the adapter list in priority order.
func (e *Extractor) Notations() []notation.Adapter {
	return append([]notation.Adapter(nil), e.adapters...)
}

// Extract separates text into metadata and body. Text without frontmatter
// returns an empty mapping and the input unchanged as body.
func (e *Extractor) Extract(input string) (*Document, error) {
	text := strings.TrimPrefix(input, byteOrderMark)

	header, err := Detect(text, e.adapters)
	if err != nil {
		e.logger.Debug("frontmatter.detect.failed", "error", err)
		if errors.Is(err, ErrUnterminatedHeader) {
			return nil, wrapUnterminated(err)
		}
		return nil, wrapRead(err)
	}

	if !header.Found {
		return &Document{
			Metadata: value.NewMapping(),
			Body:     input,
			Notation: notation.None,
		}, nil
	}

	adapter, _ := notation.Find(e.adapters, header.Notation)
	meta, err := adapter.Parse(header.Raw)
	if err != nil {
		e.logger.Debug("frontmatter.parse.failed", "notation", header.Notation.String(), "error", err)
		return nil, wrapNotationParse(header.Notation, err)
	}
	if meta == nil {
		meta = value.NewMapping()
	}

	e.logger.Trace("frontmatter.extract.success",
		"notation", header.Notation.String(),
		"keys", meta.Len(),
		"header_bytes", header.Len(),
	)

	return &Document{
		Metadata: meta,
		Body:     text[header.End:],
		Notation: header.Notation,
		Header:   header,
	}, nil
}

// ExtractBytes is Extract over a byte slice.
func (e *Extractor) ExtractBytes(data []byte) (*Document, error) {
	return e.Extract(string(data))
}

// ExtractReader reads r fully before extracting.
func (e *Extractor) ExtractReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapRead(err)
	}
	return e.Extract(string(data))
}

// Extract runs a default extractor over text.
func Extract(text string) (*Document, error) {
	return NewExtractor().Extract(text)
}
