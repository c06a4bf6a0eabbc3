// Package logging holds the module-scoped logger helpers shared by metagen
// packages. Concrete backends live in the console and gologger subpackages.
package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-metagen/pkg/interfaces"
)

// Fields is a set of structured logging attributes.
type Fields map[string]any

// Document builds the fields describing a processed document. Blank values
// are left out.
func Document(path, notation string) Fields {
	fields := Fields{}
	fields.setText("document_path", path)
	fields.setText("notation", notation)
	return fields
}

func (f Fields) setText(key, text string) {
	if text = strings.TrimSpace(text); text != "" {
		f[key] = text
	}
}

// WithFields attaches fields to logger when it supports them. The map is
// copied so callers may reuse it.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fl.WithFields(maps.Clone(fields))
}

// WithDocumentContext is WithFields(logger, Document(path, notation)).
func WithDocumentContext(logger interfaces.Logger, path, notation string) interfaces.Logger {
	return WithFields(logger, Document(path, notation))
}

type fieldsKey struct{}

// ContextWithFields layers fields over those already stored on ctx. Later
// keys win.
func ContextWithFields(ctx context.Context, fields map[string]any) context.Context {
	if ctx == nil || len(fields) == 0 {
		return ctx
	}
	layered := ContextFields(ctx)
	if layered == nil {
		layered = make(map[string]any, len(fields))
	}
	maps.Copy(layered, fields)
	return context.WithValue(ctx, fieldsKey{}, layered)
}

// ContextFields returns a copy of the fields stored on ctx, or nil.
func ContextFields(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	if stored, _ := ctx.Value(fieldsKey{}).(map[string]any); len(stored) > 0 {
		return maps.Clone(stored)
	}
	return nil
}
