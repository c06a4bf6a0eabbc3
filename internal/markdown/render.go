package markdown

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-metagen/pkg/interfaces"
)

// defaultExtensions are enabled when ParseOptions names none.
var defaultExtensions = []string{"gfm", "linkify", "tasklist"}

var extenders = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"typographer":   extension.Typographer,
}

var extensionAliases = map[string]string{
	"tables":   "table",
	"autolink": "linkify",
}

// GoldmarkParser renders document bodies to HTML with goldmark. Engines are
// built lazily per distinct option set and shared between goroutines.
type GoldmarkParser struct {
	defaults interfaces.ParseOptions
	engines  sync.Map // engineKey -> goldmark.Markdown
}

var _ interfaces.MarkdownParser = (*GoldmarkParser)(nil)

// NewGoldmarkParser returns a parser using defaults for Parse. Raw HTML is
// rendered unless SafeMode is set.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{defaults: defaults}
}

func (p *GoldmarkParser) Parse(body []byte) ([]byte, error) {
	return p.render(body, p.defaults)
}

// ParseWithOptions layers opts over the parser defaults. Extensions replace
// the default list, the boolean switches can only be turned on.
func (p *GoldmarkParser) ParseWithOptions(body []byte, opts interfaces.ParseOptions) ([]byte, error) {
	merged := p.defaults
	if len(opts.Extensions) > 0 {
		merged.Extensions = opts.Extensions
	}
	merged.HardWraps = merged.HardWraps || opts.HardWraps
	merged.SafeMode = merged.SafeMode || opts.SafeMode
	return p.render(body, merged)
}

func (p *GoldmarkParser) render(body []byte, opts interfaces.ParseOptions) ([]byte, error) {
	var out bytes.Buffer
	if err := p.engine(opts).Convert(body, &out); err != nil {
		return nil, fmt.Errorf("markdown: render: %w", err)
	}
	return out.Bytes(), nil
}

type engineKey struct {
	extensions string
	hardWraps  bool
	safeMode   bool
}

func (p *GoldmarkParser) engine(opts interfaces.ParseOptions) goldmark.Markdown {
	names := extensionNames(opts.Extensions)
	key := engineKey{
		extensions: strings.Join(names, ","),
		hardWraps:  opts.HardWraps,
		safeMode:   opts.SafeMode,
	}
	if cached, ok := p.engines.Load(key); ok {
		return cached.(goldmark.Markdown)
	}

	var rendererOpts []renderer.Option
	if opts.HardWraps {
		rendererOpts = append(rendererOpts, html.WithHardWraps())
	}
	if !opts.SafeMode {
		rendererOpts = append(rendererOpts, html.WithUnsafe())
	}
	exts := make([]goldmark.Extender, 0, len(names))
	for _, name := range names {
		exts = append(exts, extenders[name])
	}

	engine := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	actual, _ := p.engines.LoadOrStore(key, engine)
	return actual.(goldmark.Markdown)
}

// extensionNames resolves aliases, drops unknown names and duplicates, and
// sorts the result so equivalent option sets share an engine.
func extensionNames(requested []string) []string {
	if len(requested) == 0 {
		requested = defaultExtensions
	}
	names := make([]string, 0, len(requested))
	for _, raw := range requested {
		name := strings.ToLower(strings.TrimSpace(raw))
		if alias, ok := extensionAliases[name]; ok {
			name = alias
		}
		if _, ok := extenders[name]; ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return slices.Compact(names)
}
