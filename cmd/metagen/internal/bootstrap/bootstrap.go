package bootstrap

import (
	"fmt"
	"strings"

	metagen "github.com/goliatone/go-metagen"
	"github.com/goliatone/go-metagen/internal/di"
	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/internal/validation"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

// Options captures configuration for CLI bootstraps. Non-empty fields
// override the values read from ConfigPath.
type Options struct {
	ConfigPath     string
	Notations      []string
	Require        []string
	LogProvider    string
	LogLevel       string
	LogFormat      string
	RenderHTML     *bool
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the metagen module and the CLI logger.
type Module struct {
	Module    *metagen.Module
	Container *di.Container
	Logger    interfaces.Logger
}

// LoadConfig resolves the runtime configuration for opts.
func LoadConfig(opts Options) (metagen.Config, error) {
	cfg := metagen.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := metagen.LoadConfig(path)
		if err != nil {
			return metagen.Config{}, err
		}
		cfg = loaded
	}

	if len(opts.Notations) > 0 {
		cfg.Notations = cloneStrings(opts.Notations)
	}
	for _, field := range opts.Require {
		cfg.Validation.Rules = append(cfg.Validation.Rules, validation.RuleConfig{Field: field, Required: true})
	}
	if provider := strings.TrimSpace(opts.LogProvider); provider != "" {
		cfg.Logging.Provider = provider
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}
	if format := strings.TrimSpace(opts.LogFormat); format != "" {
		cfg.Logging.Format = format
	}
	if opts.RenderHTML != nil {
		cfg.Markdown.RenderHTML = *opts.RenderHTML
	}
	return cfg, cfg.Validate()
}

// BuildModule constructs a metagen module configured for CLI use.
func BuildModule(opts Options) (*Module, error) {
	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := metagen.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise metagen module: %w", err)
	}

	container := module.Container()
	return &Module{
		Module:    module,
		Container: container,
		Logger:    logging.CommandsLogger(container.LoggerProvider()),
	}, nil
}

// SplitList parses a comma separated list into a trimmed slice.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
