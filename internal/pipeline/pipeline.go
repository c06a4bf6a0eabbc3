// Package pipeline chains extraction, validation, enrichment and derivation
// into a single Bundle per document.
package pipeline

import (
	"github.com/goliatone/go-metagen/internal/enrich"
	"github.com/goliatone/go-metagen/internal/frontmatter"
	"github.com/goliatone/go-metagen/internal/keywords"
	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/internal/metatags"
	"github.com/goliatone/go-metagen/internal/notation"
	"github.com/goliatone/go-metagen/internal/validation"
	"github.com/goliatone/go-metagen/internal/value"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

// Bundle is the derived output for one document.
type Bundle struct {
	Metadata   *value.Mapping
	Body       string
	Notation   notation.Notation
	Keywords   []string
	Tags       metatags.Block
	Validation validation.Result
}

// HasFrontmatter reports whether the document carried a header.
func (b *Bundle) HasFrontmatter() bool {
	return b != nil && b.Notation != notation.None
}

// Config holds the pipeline stages' settings.
type Config struct {
	Rules         []validation.Rule
	KeywordFields []string
	KeywordOpts   []keywords.Option
	FieldMap      metatags.FieldMap
	TagOpts       []metatags.Option
	Enrich        bool
	EnrichOptions enrich.Options
}

// DefaultConfig validates nothing, reads keywords and tags, and renders the
// default field map.
func DefaultConfig() Config {
	return Config{
		KeywordFields: append([]string(nil), keywords.DefaultFields...),
		FieldMap:      metatags.DefaultFieldMap(),
		EnrichOptions: enrich.DefaultOptions(),
	}
}

// Option customises a Pipeline.
type Option func(*Pipeline)

// WithExtractor overrides the extractor.
func WithExtractor(extractor *frontmatter.Extractor) Option {
	return func(p *Pipeline) {
		if extractor != nil {
			p.extractor = extractor
		}
	}
}

// WithLogger injects a logger. Defaults to a no-op logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(p *Pipeline) {
		if logger == nil {
			p.logger = logging.NoOp()
			return
		}
		p.logger = logger
	}
}

// Pipeline is safe for concurrent use; it holds configuration only.
type Pipeline struct {
	extractor *frontmatter.Extractor
	config    Config
	logger    interfaces.Logger
}

// New builds a pipeline from cfg.
func New(cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		config: cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.extractor == nil {
		p.extractor = frontmatter.NewExtractor(frontmatter.WithLogger(p.logger))
	}
	return p
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.config
}

// Run processes text. Extraction and enrichment errors abort with a nil
// bundle. A validation failure still returns the full bundle together with
// the validation error so callers can report every violation.
func (p *Pipeline) Run(text string) (*Bundle, error) {
	doc, err := p.extractor.Extract(text)
	if err != nil {
		return nil, err
	}
	return p.RunDocument(doc)
}

// RunDocument applies the stages after extraction to doc.
func (p *Pipeline) RunDocument(doc *frontmatter.Document) (*Bundle, error) {
	meta := doc.Metadata
	result := validation.Validate(meta, p.config.Rules)

	if p.config.Enrich {
		enriched, err := enrich.Process(meta, p.config.EnrichOptions)
		if err != nil {
			return nil, err
		}
		meta = enriched
	}

	bundle := &Bundle{
		Metadata:   meta,
		Body:       doc.Body,
		Notation:   doc.Notation,
		Keywords:   keywords.Derive(meta, p.config.KeywordFields, p.config.KeywordOpts...),
		Tags:       metatags.Generate(meta, p.config.FieldMap, p.config.TagOpts...),
		Validation: result,
	}

	if err := result.Err(); err != nil {
		p.logger.Debug("pipeline.validation.failed", "violations", len(result.Violations))
		return bundle, err
	}
	return bundle, nil
}
