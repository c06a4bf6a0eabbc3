package runtimeconfig

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/goliatone/go-metagen/internal/enrich"
	"github.com/goliatone/go-metagen/internal/keywords"
	"github.com/goliatone/go-metagen/internal/metatags"
	"github.com/goliatone/go-metagen/internal/notation"
	"github.com/goliatone/go-metagen/internal/validation"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

var (
	ErrNotationUnknown         = errors.New("metagen config: notation is not supported")
	ErrNotationDuplicate       = errors.New("metagen config: notation listed more than once")
	ErrValidationRuleInvalid   = errors.New("metagen config: validation rule is invalid")
	ErrKeywordLimitInvalid     = errors.New("metagen config: keyword limit must be zero or positive")
	ErrMetaTagKeyRequired      = errors.New("metagen config: meta tag key is required")
	ErrMetaTagKindInvalid      = errors.New("metagen config: meta tag attribute kind is invalid")
	ErrMarkdownWorkersInvalid  = errors.New("metagen config: markdown workers must be zero or positive")
	ErrWatchDebounceInvalid    = errors.New("metagen config: watch debounce must be zero or positive")
	ErrLoggingProviderRequired = errors.New("metagen config: logging provider is required")
	ErrLoggingProviderUnknown  = errors.New("metagen config: logging provider is invalid")
	ErrLoggingLevelInvalid     = errors.New("metagen config: logging level is invalid")
	ErrLoggingFormatInvalid    = errors.New("metagen config: logging format is invalid")
)

// Config aggregates the settings for extraction, derivation, document I/O and
// logging. Every section can be loaded from YAML, TOML or JSON.
type Config struct {
	// Notations lists the enabled header notations in detection priority.
	Notations  []string         `json:"notations" yaml:"notations" toml:"notations"`
	Validation ValidationConfig `json:"validation" yaml:"validation" toml:"validation"`
	Keywords   KeywordsConfig   `json:"keywords" yaml:"keywords" toml:"keywords"`
	MetaTags   MetaTagsConfig   `json:"meta_tags" yaml:"meta_tags" toml:"meta_tags"`
	Enrich     EnrichConfig     `json:"enrich" yaml:"enrich" toml:"enrich"`
	Markdown   MarkdownConfig   `json:"markdown" yaml:"markdown" toml:"markdown"`
	Watch      WatchConfig      `json:"watch" yaml:"watch" toml:"watch"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging" toml:"logging"`
}

// ValidationConfig holds the metadata rules applied after extraction.
type ValidationConfig struct {
	Rules []validation.RuleConfig `json:"rules" yaml:"rules" toml:"rules"`
}

// KeywordsConfig configures keyword derivation.
type KeywordsConfig struct {
	Fields     []string `json:"fields" yaml:"fields" toml:"fields"`
	Delimiters string   `json:"delimiters" yaml:"delimiters" toml:"delimiters"`
	Limit      int      `json:"limit" yaml:"limit" toml:"limit"`
	Lowercase  bool     `json:"lowercase" yaml:"lowercase" toml:"lowercase"`
}

// MetaTagsConfig configures meta tag generation. Fields replaces the default
// field map unless ExtendDefaults is set, in which case it is appended.
type MetaTagsConfig struct {
	Fields         []MetaTagField `json:"fields" yaml:"fields" toml:"fields"`
	ExtendDefaults bool           `json:"extend_defaults" yaml:"extend_defaults" toml:"extend_defaults"`
	SelfClosing    bool           `json:"self_closing" yaml:"self_closing" toml:"self_closing"`
	Separator      string         `json:"separator" yaml:"separator" toml:"separator"`
}

// MetaTagField mirrors metatags.Field.
type MetaTagField struct {
	Key       string `json:"key" yaml:"key" toml:"key"`
	Attribute string `json:"attribute,omitempty" yaml:"attribute,omitempty" toml:"attribute,omitempty"`
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty" toml:"kind,omitempty"`
	Group     string `json:"group,omitempty" yaml:"group,omitempty" toml:"group,omitempty"`
}

// EnrichConfig toggles date standardisation and slug derivation.
type EnrichConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	DateField  string `json:"date_field" yaml:"date_field" toml:"date_field"`
	TitleField string `json:"title_field" yaml:"title_field" toml:"title_field"`
	SlugField  string `json:"slug_field" yaml:"slug_field" toml:"slug_field"`
}

// MarkdownConfig captures filesystem and rendering behaviour for documents.
type MarkdownConfig struct {
	ContentDir string                  `json:"content_dir" yaml:"content_dir" toml:"content_dir"`
	Pattern    string                  `json:"pattern" yaml:"pattern" toml:"pattern"`
	Recursive  bool                    `json:"recursive" yaml:"recursive" toml:"recursive"`
	Workers    int                     `json:"workers" yaml:"workers" toml:"workers"`
	RenderHTML bool                    `json:"render_html" yaml:"render_html" toml:"render_html"`
	Parser     interfaces.ParseOptions `json:"parser" yaml:"parser" toml:"parser"`
}

// WatchConfig configures the filesystem watcher.
type WatchConfig struct {
	DebounceMS int  `json:"debounce_ms" yaml:"debounce_ms" toml:"debounce_ms"`
	SkipHidden bool `json:"skip_hidden" yaml:"skip_hidden" toml:"skip_hidden"`
}

// Debounce returns the configured quiet period.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `json:"provider" yaml:"provider" toml:"provider"`
	Level     string   `json:"level" yaml:"level" toml:"level"`
	Format    string   `json:"format" yaml:"format" toml:"format"`
	AddSource bool     `json:"add_source" yaml:"add_source" toml:"add_source"`
	Focus     []string `json:"focus" yaml:"focus" toml:"focus"`
}

// DefaultConfig enables every notation, derives keywords from keywords and
// tags, renders the default meta tag set and validates nothing.
func DefaultConfig() Config {
	return Config{
		Notations: []string{string(notation.YAML), string(notation.TOML), string(notation.JSON)},
		Keywords: KeywordsConfig{
			Fields:     append([]string(nil), keywords.DefaultFields...),
			Delimiters: keywords.DefaultDelimiters,
		},
		MetaTags: MetaTagsConfig{
			Separator: metatags.DefaultSeparator,
		},
		Enrich: EnrichConfig{
			DateField:  "date",
			TitleField: "title",
			SlugField:  "slug",
		},
		Markdown: MarkdownConfig{
			ContentDir: "content",
			Pattern:    "*.md",
			Recursive:  true,
			Workers:    runtime.NumCPU(),
		},
		Watch: WatchConfig{
			DebounceMS: 150,
			SkipHidden: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "text",
		},
	}
}

// Validate performs consistency checks. Errors wrap the package sentinels.
func (cfg Config) Validate() error {
	seen := map[notation.Notation]bool{}
	for _, label := range cfg.Notations {
		n, ok := notation.Parse(label)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotationUnknown, label)
		}
		if seen[n] {
			return fmt.Errorf("%w: %s", ErrNotationDuplicate, label)
		}
		seen[n] = true
	}

	for i, rule := range cfg.Validation.Rules {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("%w: rule %d (%s): %v", ErrValidationRuleInvalid, i, rule.Field, err)
		}
	}

	if cfg.Keywords.Limit < 0 {
		return ErrKeywordLimitInvalid
	}

	for i, field := range cfg.MetaTags.Fields {
		if strings.TrimSpace(field.Key) == "" {
			return fmt.Errorf("%w: field %d", ErrMetaTagKeyRequired, i)
		}
		if _, err := metatags.ParseAttrKind(field.Kind); err != nil {
			return fmt.Errorf("%w: %s", ErrMetaTagKindInvalid, field.Kind)
		}
	}

	if cfg.Markdown.Workers < 0 {
		return ErrMarkdownWorkersInvalid
	}
	if cfg.Watch.DebounceMS < 0 {
		return ErrWatchDebounceInvalid
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(provider, format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(provider, format string) bool {
	format = strings.ToLower(strings.TrimSpace(format))
	if provider == "console" {
		return format == "text" || format == "json"
	}
	switch format {
	case "json", "console", "text", "pretty":
		return true
	default:
		return false
	}
}

// EnrichOptions converts the enrich section.
func (cfg Config) EnrichOptions() enrich.Options {
	opts := enrich.DefaultOptions()
	if cfg.Enrich.DateField != "" {
		opts.DateField = cfg.Enrich.DateField
	}
	if cfg.Enrich.TitleField != "" {
		opts.TitleField = cfg.Enrich.TitleField
	}
	if cfg.Enrich.SlugField != "" {
		opts.SlugField = cfg.Enrich.SlugField
	}
	return opts
}
