// Package documentscmd exposes document processing as go-command handlers.
package documentscmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-metagen/internal/commands"
	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/internal/markdown"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

const (
	processFileOperation      = "documents.process_file"
	processDirectoryOperation = "documents.process_directory"
)

// Processor is the service contract the handlers depend on.
type Processor = interfaces.DocumentProcessor[*markdown.Result, *markdown.Batch]

var (
	_ command.Commander[ProcessFileCommand]      = (*ProcessFileHandler)(nil)
	_ command.Commander[ProcessDirectoryCommand] = (*ProcessDirectoryHandler)(nil)
)

// ProcessFileHandler runs ProcessFileCommand.
type ProcessFileHandler struct {
	inner *commands.Handler[ProcessFileCommand]
}

// NewProcessFileHandler binds the handler to service. sink, when set,
// receives every result, including failed ones that still carry a bundle.
func NewProcessFileHandler(service Processor, sink func(*markdown.Result), logger interfaces.Logger, opts ...commands.HandlerOption[ProcessFileCommand]) *ProcessFileHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ProcessFileCommand) error {
		res, err := service.Process(ctx, msg.Path)
		if res != nil && sink != nil {
			sink(res)
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[ProcessFileCommand]{
		commands.WithLogger[ProcessFileCommand](logger),
		commands.Describe(processFileOperation, func(msg ProcessFileCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		commands.WithReporter(commands.LogReporter[ProcessFileCommand]()),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ProcessFileHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ProcessFileCommand].
func (h *ProcessFileHandler) Execute(ctx context.Context, msg ProcessFileCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ProcessDirectoryHandler runs ProcessDirectoryCommand.
type ProcessDirectoryHandler struct {
	inner *commands.Handler[ProcessDirectoryCommand]
}

// NewProcessDirectoryHandler binds the handler to service. sink receives the
// batch before FailOnError is applied.
func NewProcessDirectoryHandler(service Processor, sink func(*markdown.Batch), logger interfaces.Logger, opts ...commands.HandlerOption[ProcessDirectoryCommand]) *ProcessDirectoryHandler {
	if logger == nil {
		logger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ProcessDirectoryCommand) error {
		batch, err := service.ProcessDirectory(ctx, msg.Directory, interfaces.ProcessOptions{
			Pattern:   msg.Pattern,
			Recursive: msg.Recursive,
		})
		if err != nil {
			return err
		}
		if sink != nil {
			sink(batch)
		}
		failures := batch.Failures()
		logging.WithFields(logger, map[string]any{
			"run_id":    batch.RunID.String(),
			"documents": len(batch.Results),
			"failed":    len(failures),
		}).Info("documents.command.process_directory.completed")

		if msg.FailOnError && len(failures) > 0 {
			return batch.Err()
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ProcessDirectoryCommand]{
		commands.WithLogger[ProcessDirectoryCommand](logger),
		commands.Describe(processDirectoryOperation, func(msg ProcessDirectoryCommand) map[string]any {
			fields := map[string]any{"directory": msg.Directory}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Recursive != nil {
				fields["recursive"] = *msg.Recursive
			}
			return fields
		}),
		commands.WithReporter(commands.LogReporter[ProcessDirectoryCommand]()),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ProcessDirectoryHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ProcessDirectoryCommand].
func (h *ProcessDirectoryHandler) Execute(ctx context.Context, msg ProcessDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}
