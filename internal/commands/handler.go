// Package commands wraps go-command handlers with message validation, a
// timeout, structured logging and go-errors categorisation.
package commands

import (
	"context"
	"fmt"
	"maps"
	"time"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

// DefaultTimeout bounds a single execution.
const DefaultTimeout = 5 * time.Minute

type HandlerOption[T command.Message] func(*Handler[T])

// Handler implements command.Commander[T] around a CommandFunc.
type Handler[T command.Message] struct {
	run       command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	describe  func(T) map[string]any
	reporter  Reporter[T]
}

func NewHandler[T command.Message](run command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if run == nil {
		panic("commands: nil CommandFunc")
	}
	h := &Handler[T]{run: run, logger: logging.NoOp(), timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates msg, then runs the wrapped function under the handler
// timeout. A panic inside the function is returned as a failed execution.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return invalid(err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		_, err = classify(err)
		return err
	}

	name := command.GetMessageType(msg)
	fields := map[string]any{"command": name}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.describe != nil {
		maps.Copy(fields, h.describe(msg))
	}
	logger := logging.WithFields(h.logger, fields)
	logger.Debug("command.started")

	started := time.Now()
	outcome, err := classify(h.invoke(ctx, msg))

	if h.reporter == nil {
		if err != nil {
			logger.Error("command.failed", "error", err)
		}
		return err
	}
	h.reporter(ctx, msg, Report{
		Command:   name,
		Operation: h.operation,
		Fields:    fields,
		Duration:  time.Since(started),
		Outcome:   outcome,
		Err:       err,
		Logger:    logger,
	})
	return err
}

func (h *Handler[T]) invoke(ctx context.Context, msg T) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("commands: panic: %v", r)
		}
	}()
	if err = h.run(ctx, msg); err == nil {
		err = ctx.Err()
	}
	return err
}

// WithTimeout replaces DefaultTimeout. Zero or less disables the timeout.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// Describe names the operation and derives per-message log fields.
func Describe[T command.Message](operation string, fields func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
		h.describe = fields
	}
}

func WithReporter[T command.Message](reporter Reporter[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.reporter = reporter
	}
}
