// Package metagen extracts frontmatter metadata from documents written in
// YAML, TOML or JSON, validates it and derives keywords and HTML meta tags.
package metagen

import (
	"github.com/goliatone/go-metagen/internal/di"
	"github.com/goliatone/go-metagen/internal/enrich"
	"github.com/goliatone/go-metagen/internal/frontmatter"
	"github.com/goliatone/go-metagen/internal/htmlesc"
	"github.com/goliatone/go-metagen/internal/keywords"
	"github.com/goliatone/go-metagen/internal/markdown"
	"github.com/goliatone/go-metagen/internal/metatags"
	"github.com/goliatone/go-metagen/internal/notation"
	"github.com/goliatone/go-metagen/internal/pipeline"
	"github.com/goliatone/go-metagen/internal/validation"
	"github.com/goliatone/go-metagen/internal/value"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

type (
	Value    = value.Value
	Kind     = value.Kind
	Mapping  = value.Mapping
	Notation = notation.Notation
	Adapter  = notation.Adapter

	Document  = frontmatter.Document
	Header    = frontmatter.Header
	Extractor = frontmatter.Extractor

	Rule       = validation.Rule
	Result     = validation.Result
	Violation  = validation.Violation
	RuleConfig = validation.RuleConfig

	KeywordOption = keywords.Option

	Tag       = metatags.Tag
	Block     = metatags.Block
	Field     = metatags.Field
	FieldMap  = metatags.FieldMap
	TagOption = metatags.Option

	Bundle         = pipeline.Bundle
	Pipeline       = pipeline.Pipeline
	PipelineConfig = pipeline.Config

	DocumentResult = markdown.Result
	DocumentBatch  = markdown.Batch
	// DocumentService exports the filesystem document processor contract.
	DocumentService = interfaces.DocumentProcessor[*markdown.Result, *markdown.Batch]
)

const (
	NotationNone = notation.None
	NotationYAML = notation.YAML
	NotationTOML = notation.TOML
	NotationJSON = notation.JSON
)

var (
	ErrUnterminatedHeader = frontmatter.ErrUnterminatedHeader
	ErrNotationParse      = frontmatter.ErrNotationParse
	ErrValidationFailed   = validation.ErrValidationFailed
	ErrDateParse          = enrich.ErrDateParse
)

// Extract splits text into metadata and body using the default notations.
// Text without frontmatter yields an empty mapping and the input as body.
func Extract(text string) (*Document, error) {
	return frontmatter.Extract(text)
}

// ExtractWith restricts detection to adapters, in priority order.
func ExtractWith(text string, adapters ...Adapter) (*Document, error) {
	return frontmatter.NewExtractor(frontmatter.WithNotations(adapters...)).Extract(text)
}

// DefaultNotations returns the YAML, TOML and JSON adapters in detection order.
func DefaultNotations() []Adapter {
	return notation.Defaults()
}

// Validate checks meta against rules and reports every violation.
func Validate(meta *Mapping, rules []Rule) Result {
	return validation.Validate(meta, rules)
}

// DeriveKeywords collects keywords from fields, or from keywords and tags
// when fields is empty.
func DeriveKeywords(meta *Mapping, fields []string, opts ...KeywordOption) []string {
	return keywords.Derive(meta, fields, opts...)
}

// GenerateMetaTags renders a meta tag for every field of fields present in
// meta. A nil field map renders the default tag set.
func GenerateMetaTags(meta *Mapping, fields FieldMap, opts ...TagOption) Block {
	if fields == nil {
		fields = metatags.DefaultFieldMap()
	}
	return metatags.Generate(meta, fields, opts...)
}

// ExtractMetaTags parses the meta tags of an HTML document.
func ExtractMetaTags(html string) (Block, error) {
	return metatags.Extract(html)
}

// DefaultFieldMap returns the grouped default tag set.
func DefaultFieldMap() FieldMap {
	return metatags.DefaultFieldMap()
}

// Escape replaces the five HTML special characters with entities.
func Escape(s string) string {
	return htmlesc.Escape(s)
}

// Unescape reverses Escape and decodes numeric character references.
func Unescape(s string) string {
	return htmlesc.Unescape(s)
}

// Process runs text through the default pipeline.
func Process(text string) (*Bundle, error) {
	return pipeline.New(pipeline.DefaultConfig()).Run(text)
}

// Module represents the top level metagen runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Pipeline returns the configured metadata pipeline.
func (m *Module) Pipeline() *Pipeline {
	return m.container.Pipeline()
}

// Process runs text through the configured pipeline. A validation failure
// returns the bundle together with the error.
func (m *Module) Process(text string) (*Bundle, error) {
	return m.container.Pipeline().Run(text)
}

// Documents returns the document service rooted at the configured content
// directory.
func (m *Module) Documents() (DocumentService, error) {
	svc, err := m.container.MarkdownService()
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// Logger returns a logger scoped to module.
func (m *Module) Logger(module string) interfaces.Logger {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Logger(module)
}
