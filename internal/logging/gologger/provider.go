// Package gologger backs the metagen logging contract with go-logger.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

// Config mirrors the logging section of the runtime configuration.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	// Focus restricts output to the named modules, e.g. metagen.watch.
	Focus []string
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

// Provider hands out go-logger child loggers, one per module name.
type Provider struct {
	root    *glog.BaseLogger
	modules sync.Map // module name -> interfaces.Logger
}

var _ interfaces.LoggerProvider = (*Provider)(nil)

// NewProvider builds the root go-logger. Format is json (default), console,
// text (same as console) or pretty.
func NewProvider(cfg Config) (*Provider, error) {
	options, err := optionsFor(cfg)
	if err != nil {
		return nil, err
	}

	root := glog.NewLogger(options...)
	if focus := cleanNames(cfg.Focus); len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

func optionsFor(cfg Config) ([]glog.Option, error) {
	var options []glog.Option

	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		options = append(options, glog.WithLevel(level))
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", "json":
		options = append(options, glog.WithLoggerTypeJSON())
	case "console", "text":
		options = append(options, glog.WithLoggerTypeConsole())
	case "pretty":
		options = append(options, glog.WithLoggerTypePretty())
	default:
		return nil, fmt.Errorf("gologger: unsupported format %q", cfg.Format)
	}

	if cfg.AddSource {
		options = append(options, glog.WithAddSource(true))
	}
	return options, nil
}

// GetLogger returns the logger for module, building it on first use. An
// empty name returns the root logger.
func (p *Provider) GetLogger(module string) interfaces.Logger {
	if p == nil || p.root == nil {
		return logging.NoOp()
	}
	module = strings.TrimSpace(module)
	if module == "" {
		return adapt(p.root)
	}
	if cached, ok := p.modules.Load(module); ok {
		return cached.(interfaces.Logger)
	}
	logger, _ := p.modules.LoadOrStore(module, adapt(p.root.GetLogger(module)))
	return logger.(interfaces.Logger)
}

// adapt wraps a go-logger Logger. Loggers without native field support
// receive fields as leading key/value arguments on every call.
func adapt(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return &adapter{inner: inner}
}

type adapter struct {
	inner glog.Logger
	// prefix carries fields for loggers that do not implement
	// glog.FieldsLogger, flattened in key order.
	prefix []any
}

func (l *adapter) args(args []any) []any {
	if len(l.prefix) == 0 {
		return args
	}
	return append(slices.Clone(l.prefix), args...)
}

func (l *adapter) Trace(msg string, args ...any) { l.inner.Trace(msg, l.args(args)...) }
func (l *adapter) Debug(msg string, args ...any) { l.inner.Debug(msg, l.args(args)...) }
func (l *adapter) Info(msg string, args ...any)  { l.inner.Info(msg, l.args(args)...) }
func (l *adapter) Warn(msg string, args ...any)  { l.inner.Warn(msg, l.args(args)...) }
func (l *adapter) Error(msg string, args ...any) { l.inner.Error(msg, l.args(args)...) }
func (l *adapter) Fatal(msg string, args ...any) { l.inner.Fatal(msg, l.args(args)...) }

func (l *adapter) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	if native, ok := l.inner.(glog.FieldsLogger); ok {
		return &adapter{inner: native.WithFields(maps.Clone(fields)), prefix: l.prefix}
	}

	prefix := slices.Clone(l.prefix)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		prefix = append(prefix, key, fields[key])
	}
	return &adapter{inner: l.inner, prefix: prefix}
}

// WithContext binds ctx and lifts any fields stored with
// logging.ContextWithFields onto the logger.
func (l *adapter) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	bound := &adapter{inner: l.inner.WithContext(ctx), prefix: l.prefix}
	return bound.WithFields(logging.ContextFields(ctx))
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
