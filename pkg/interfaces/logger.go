package interfaces

import "context"

// Logger is the leveled, key/value logger every metagen package writes to.
// Its method set matches go-logger's glog.Logger apart from the return type
// of WithContext.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)

	WithContext(ctx context.Context) Logger
}

// FieldsLogger is the optional extension for loggers with persistent fields.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}

// LoggerProvider resolves the logger for a module name such as
// "metagen.extract".
type LoggerProvider interface {
	GetLogger(module string) Logger
}

// LoggerProviderFunc adapts a function to LoggerProvider.
type LoggerProviderFunc func(module string) Logger

func (f LoggerProviderFunc) GetLogger(module string) Logger { return f(module) }
