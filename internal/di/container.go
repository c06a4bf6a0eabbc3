package di

import (
	"fmt"
	"io/fs"
	"strings"
	"sync"

	documentscmd "github.com/goliatone/go-metagen/internal/commands/documents"
	"github.com/goliatone/go-metagen/internal/frontmatter"
	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/internal/logging/console"
	"github.com/goliatone/go-metagen/internal/logging/gologger"
	"github.com/goliatone/go-metagen/internal/markdown"
	"github.com/goliatone/go-metagen/internal/pipeline"
	"github.com/goliatone/go-metagen/internal/runtimeconfig"
	"github.com/goliatone/go-metagen/internal/watch"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

// Container wires the extraction pipeline, document services, command
// handlers and logging from a runtime configuration.
type Container struct {
	config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	extractor      *frontmatter.Extractor
	pipeline       *pipeline.Pipeline
	parser         interfaces.MarkdownParser
	markdownFS     fs.FS

	markdownOnce sync.Once
	markdownSvc  *markdown.Service
	markdownErr  error
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by the logging section.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithMarkdownFS serves the content directory from filesystem instead of disk.
func WithMarkdownFS(filesystem fs.FS) Option {
	return func(c *Container) {
		if filesystem != nil {
			c.markdownFS = filesystem
		}
	}
}

// WithMarkdownParser overrides the goldmark renderer.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.parser = parser
		}
	}
}

// NewContainer validates cfg and builds the shared services.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.loggerProvider == nil {
		provider, err := configureLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	adapters, err := cfg.Adapters()
	if err != nil {
		return nil, err
	}
	c.extractor = frontmatter.NewExtractor(
		frontmatter.WithNotations(adapters...),
		frontmatter.WithLogger(logging.ExtractLogger(c.loggerProvider)),
	)

	pipelineCfg, err := cfg.PipelineConfig()
	if err != nil {
		return nil, err
	}
	c.pipeline = pipeline.New(pipelineCfg,
		pipeline.WithExtractor(c.extractor),
		pipeline.WithLogger(logging.PipelineLogger(c.loggerProvider)),
	)

	if c.parser == nil {
		c.parser = markdown.NewGoldmarkParser(cfg.Markdown.Parser)
	}
	return c, nil
}

func configureLoggerProvider(cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
	case "console", "":
		level, err := console.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		format := console.FormatText
		if strings.EqualFold(strings.TrimSpace(cfg.Format), string(console.FormatJSON)) {
			format = console.FormatJSON
		}
		return console.NewProvider(console.Options{MinLevel: &level, Format: format}), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, cfg.Provider)
	}
}

// Config returns the configuration the container was built from.
func (c *Container) Config() runtimeconfig.Config {
	return c.config
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns a module scoped logger.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// Extractor returns the extractor restricted to the configured notations.
func (c *Container) Extractor() *frontmatter.Extractor {
	return c.extractor
}

// Pipeline returns the configured metadata pipeline.
func (c *Container) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Parser returns the markdown renderer.
func (c *Container) Parser() interfaces.MarkdownParser {
	return c.parser
}

// MarkdownService returns the service rooted at the configured content
// directory. It is built on first use.
func (c *Container) MarkdownService() (*markdown.Service, error) {
	c.markdownOnce.Do(func() {
		var opts []markdown.ServiceOption
		if c.markdownFS != nil {
			opts = append(opts, markdown.WithFS(c.markdownFS))
		}
		c.markdownSvc, c.markdownErr = c.NewMarkdownService(c.config.Markdown.ContentDir, opts...)
	})
	return c.markdownSvc, c.markdownErr
}

// NewMarkdownService builds a service rooted at root that shares the
// container's pipeline, renderer and logging.
func (c *Container) NewMarkdownService(root string, opts ...markdown.ServiceOption) (*markdown.Service, error) {
	mcfg := c.config.Markdown
	base := []markdown.ServiceOption{
		markdown.WithPipeline(c.pipeline),
		markdown.WithParser(c.parser),
		markdown.WithServiceLogger(logging.MarkdownLogger(c.loggerProvider)),
	}
	return markdown.NewService(markdown.Config{
		BasePath:   root,
		Pattern:    mcfg.Pattern,
		Recursive:  mcfg.Recursive,
		Workers:    mcfg.Workers,
		RenderHTML: mcfg.RenderHTML,
		Parser:     mcfg.Parser,
	}, append(base, opts...)...)
}

// ProcessFileHandler binds a process_file command handler to service.
func (c *Container) ProcessFileHandler(service documentscmd.Processor, sink func(*markdown.Result)) *documentscmd.ProcessFileHandler {
	return documentscmd.NewProcessFileHandler(service, sink, logging.CommandsLogger(c.loggerProvider))
}

// ProcessDirectoryHandler binds a process_directory command handler to service.
func (c *Container) ProcessDirectoryHandler(service documentscmd.Processor, sink func(*markdown.Batch)) *documentscmd.ProcessDirectoryHandler {
	return documentscmd.NewProcessDirectoryHandler(service, sink, logging.CommandsLogger(c.loggerProvider))
}

// NewWatcher builds a watcher over root using the watch section. match may be
// nil to accept every file.
func (c *Container) NewWatcher(root string, match func(string) bool) (*watch.Watcher, error) {
	return watch.New(watch.Config{
		Root:       root,
		Debounce:   c.config.Watch.Debounce(),
		Match:      match,
		SkipHidden: c.config.Watch.SkipHidden,
	}, logging.WatchLogger(c.loggerProvider))
}
