package interfaces

import "context"

// MarkdownParser converts a document body into HTML. Implementations should be
// reusable across goroutines.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown rendering, keeping option names readable for
// configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty" toml:"extensions,omitempty"`
	HardWraps  bool     `json:"hard_wraps,omitempty" yaml:"hard_wraps,omitempty" toml:"hard_wraps,omitempty"`
	SafeMode   bool     `json:"safe_mode,omitempty" yaml:"safe_mode,omitempty" toml:"safe_mode,omitempty"`
}

// ProcessOptions narrows a directory run.
type ProcessOptions struct {
	// Pattern overrides the service glob (for example "*.md").
	Pattern string
	// Recursive overrides the service recursion setting when non-nil.
	Recursive *bool
}

// DocumentProcessor is the file-level contract the commands layer depends on.
// R is the per-document result and B the batch result.
type DocumentProcessor[R any, B any] interface {
	Process(ctx context.Context, path string) (R, error)
	ProcessDirectory(ctx context.Context, dir string, opts ProcessOptions) (B, error)
}
