package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/internal/pipeline"
	"github.com/goliatone/go-metagen/internal/validation"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

const textCodeDocumentLoad = "DOCUMENT_LOAD_FAILED"

// Config controls how the service discovers, processes and renders files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	// Workers bounds directory concurrency; zero means runtime.NumCPU().
	Workers    int
	RenderHTML bool
	Parser     interfaces.ParseOptions
}

// Result is the outcome for one file. Err is set for failures that still
// produced a bundle (validation) as well as for hard failures.
type Result struct {
	Path     string
	Bundle   *pipeline.Bundle
	HTML     []byte
	Checksum []byte
	ModTime  time.Time
	Err      error
}

// Failed reports whether processing the file produced an error.
func (r *Result) Failed() bool {
	return r != nil && r.Err != nil
}

// Batch summarises a directory run.
type Batch struct {
	RunID    uuid.UUID
	Dir      string
	Results  []*Result
	Started  time.Time
	Duration time.Duration
}

// Failures returns the results that carry an error, in path order.
func (b *Batch) Failures() []*Result {
	if b == nil {
		return nil
	}
	var out []*Result
	for _, res := range b.Results {
		if res.Failed() {
			out = append(out, res)
		}
	}
	return out
}

// Err joins every per-document error, or returns nil.
func (b *Batch) Err() error {
	var errs []error
	for _, res := range b.Failures() {
		errs = append(errs, fmt.Errorf("%s: %w", res.Path, res.Err))
	}
	return errors.Join(errs...)
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithFS replaces the filesystem rooted at BasePath.
func WithFS(filesystem fs.FS) ServiceOption {
	return func(s *Service) {
		if filesystem != nil {
			s.fs = filesystem
		}
	}
}

// WithParser overrides the HTML renderer.
func WithParser(parser interfaces.MarkdownParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithPipeline overrides the metadata pipeline.
func WithPipeline(p *pipeline.Pipeline) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.pipeline = p
		}
	}
}

// WithServiceLogger injects a logger.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Service processes filesystem-backed documents.
type Service struct {
	cfg      Config
	fs       fs.FS
	loader   *Loader
	parser   interfaces.MarkdownParser
	pipeline *pipeline.Pipeline
	logger   interfaces.Logger
}

var _ interfaces.DocumentProcessor[*Result, *Batch] = (*Service)(nil)

// NewService constructs a service. Without WithFS the filesystem is
// os.DirFS(BasePath) and BasePath must exist.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	svc := &Service{
		cfg:    cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	if svc.fs == nil {
		var err error
		if svc.fs, err = dirFS(cfg.BasePath); err != nil {
			return nil, err
		}
	}
	if svc.parser == nil {
		svc.parser = NewGoldmarkParser(cfg.Parser)
	}
	if svc.pipeline == nil {
		svc.pipeline = pipeline.New(pipeline.DefaultConfig(), pipeline.WithLogger(svc.logger))
	}

	svc.loader = NewLoader(svc.fs, LoaderConfig{
		BasePath:  cfg.BasePath,
		Pattern:   cfg.Pattern,
		Recursive: cfg.Recursive,
	})
	return svc, nil
}

// Loader exposes the underlying loader.
func (s *Service) Loader() *Loader {
	return s.loader
}

// Process runs one file through the pipeline. The returned error mirrors
// Result.Err; a validation failure still returns a populated Result.
func (s *Service) Process(ctx context.Context, path string) (*Result, error) {
	res := s.process(ctx, s.relative(path))
	return res, res.Err
}

// ProcessDirectory processes every matching file under dir with a bounded
// worker pool. Per-document failures are collected on the batch; only
// discovery errors and cancellation abort the run.
func (s *Service) ProcessDirectory(ctx context.Context, dir string, opts interfaces.ProcessOptions) (*Batch, error) {
	batch := &Batch{
		RunID:   uuid.New(),
		Dir:     s.relative(dir),
		Started: time.Now(),
	}
	logger := logging.WithFields(s.logger, map[string]any{
		"run_id": batch.RunID.String(),
		"dir":    batch.Dir,
	})

	paths, err := s.loader.Discover(ctx, batch.Dir, LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	})
	if err != nil {
		logger.Error("markdown.directory.discover_failed", "error", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "discover documents in "+batch.Dir).
			WithTextCode(textCodeDocumentLoad)
	}

	results := make([]*Result, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < s.workers(len(paths)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.process(ctx, paths[i])
			}
		}()
	}

dispatch:
	for i := range paths {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		logger.Warn("markdown.directory.cancelled", "error", err)
		return nil, err
	}

	slices.SortFunc(results, func(a, b *Result) int {
		return strings.Compare(a.Path, b.Path)
	})
	batch.Results = results
	batch.Duration = time.Since(batch.Started)

	logger.Info("markdown.directory.processed",
		"documents", len(results),
		"failed", len(batch.Failures()),
		"duration", batch.Duration,
	)
	return batch, nil
}

// Render converts Markdown into HTML using the configured parser.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, opts)
}

func (s *Service) process(ctx context.Context, path string) *Result {
	res := &Result{Path: path}
	logger := logging.WithDocumentContext(s.logger, path, "")

	src, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		res.Err = goerrors.Wrap(err, goerrors.CategoryNotFound, "load "+path).
			WithTextCode(textCodeDocumentLoad)
		logger.Error("markdown.document.load_failed", "error", err)
		return res
	}
	res.Checksum = src.Checksum
	res.ModTime = src.ModTime

	bundle, err := s.pipeline.Run(string(src.Data))
	res.Bundle = bundle
	if err != nil {
		res.Err = err
		if errors.Is(err, validation.ErrValidationFailed) {
			logger.Warn("markdown.document.invalid", "violations", len(bundle.Validation.Violations))
		} else {
			logger.Error("markdown.document.failed", "error", err)
			return res
		}
	}

	if s.cfg.RenderHTML && bundle != nil {
		html, renderErr := s.Render(ctx, []byte(bundle.Body), s.cfg.Parser)
		if renderErr != nil {
			res.Err = errors.Join(res.Err, fmt.Errorf("markdown render document %s: %w", path, renderErr))
			return res
		}
		res.HTML = html
	}

	logging.WithDocumentContext(logger, "", bundle.Notation.String()).Debug("markdown.document.processed")
	return res
}

func (s *Service) workers(jobs int) int {
	n := s.cfg.Workers
	if n <= 0 {
		n = runtime.NumCPU()
	}
	if jobs < n {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}

// relative maps path onto the service filesystem. Paths the loader cannot
// resolve are kept as given so the load error names them.
func (s *Service) relative(path string) string {
	if rel, err := s.loader.resolve(path); err == nil {
		return rel
	}
	return filepath.ToSlash(path)
}

func dirFS(base string) (fs.FS, error) {
	if strings.TrimSpace(base) == "" {
		base = "."
	}
	info, err := os.Stat(base)
	switch {
	case err != nil:
		return nil, fmt.Errorf("markdown: content directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("markdown: content directory %s is not a directory", base)
	}
	return os.DirFS(base), nil
}
