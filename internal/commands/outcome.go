package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

// Outcome classifies a finished command.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// Report describes one command execution. Logger already carries Fields.
type Report struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Outcome   Outcome
	Err       error
	Logger    interfaces.Logger
}

// Reporter receives a Report after every execution.
type Reporter[T command.Message] func(ctx context.Context, msg T, report Report)

// LogReporter writes one entry per execution at info level on success and
// error level otherwise.
func LogReporter[T command.Message]() Reporter[T] {
	return func(_ context.Context, _ T, report Report) {
		logger := report.Logger
		if logger == nil {
			logger = logging.NoOp()
		}
		elapsed := report.Duration.Milliseconds()
		if report.Outcome == OutcomeSuccess {
			logger.Info("command.completed", "duration_ms", elapsed)
			return
		}
		logger.Error("command."+string(report.Outcome), "duration_ms", elapsed, "error", report.Err)
	}
}

const validationCode = "COMMAND_VALIDATION_FAILED"

var contextFailures = []struct {
	target  error
	message string
	code    string
}{
	{context.Canceled, "command cancelled", "COMMAND_CANCELLED"},
	{context.DeadlineExceeded, "command timed out", "COMMAND_TIMEOUT"},
}

// invalid turns ozzo field errors from Validate into a go-errors
// validation error.
func invalid(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.FromOzzoValidation(err, "invalid command message").
		WithTextCode(validationCode)
}

// classify maps an execution error to its outcome. Errors that already carry
// a go-errors category keep it; anything else is wrapped as a command error.
func classify(err error) (Outcome, error) {
	if err == nil {
		return OutcomeSuccess, nil
	}
	for _, failure := range contextFailures {
		if !errors.Is(err, failure.target) {
			continue
		}
		if goerrors.IsWrapped(err) {
			return OutcomeCancelled, err
		}
		return OutcomeCancelled, goerrors.Wrap(err, goerrors.CategoryCommand, failure.message).
			WithTextCode(failure.code)
	}
	if goerrors.IsWrapped(err) {
		return OutcomeFailed, err
	}
	return OutcomeFailed, goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
		WithTextCode("COMMAND_EXECUTION_FAILED")
}
