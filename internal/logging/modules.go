package logging

import (
	"context"

	"github.com/goliatone/go-metagen/pkg/interfaces"
)

// Logger module names.
const (
	RootModule     = "metagen"
	ExtractModule  = "metagen.extract"
	PipelineModule = "metagen.pipeline"
	MarkdownModule = "metagen.markdown"
	CommandsModule = "metagen.commands"
	WatchModule    = "metagen.watch"
)

// ModuleLogger asks provider for the named module logger and tags it with a
// module field. Missing providers or loggers yield NoOp.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = RootModule
	}
	var logger interfaces.Logger
	if provider != nil {
		logger = provider.GetLogger(module)
	}
	if logger == nil {
		return NoOp()
	}
	return WithFields(logger, Fields{"module": module})
}

func ExtractLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, ExtractModule)
}

func PipelineLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, PipelineModule)
}

func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, MarkdownModule)
}

func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, CommandsModule)
}

func WatchLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, WatchModule)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger { return discard{} }

type discard struct{}

func (discard) Trace(string, ...any)                          {}
func (discard) Debug(string, ...any)                          {}
func (discard) Info(string, ...any)                           {}
func (discard) Warn(string, ...any)                           {}
func (discard) Error(string, ...any)                          {}
func (discard) Fatal(string, ...any)                          {}
func (d discard) WithFields(map[string]any) interfaces.Logger { return d }
func (d discard) WithContext(context.Context) interfaces.Logger {
	return d
}
