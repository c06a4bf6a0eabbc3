package validation

import (
	"errors"
	"fmt"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const textCodeValidationFailed = "METADATA_VALIDATION_FAILED"

// ErrValidationFailed is matched by the error returned from Result.Err.
var ErrValidationFailed = errors.New("metadata validation failed")

// RuleKind names the broken rule.
type RuleKind string

const (
	MissingRequired RuleKind = "missing-required"
	WrongType       RuleKind = "wrong-type"
	EmptyValue      RuleKind = "empty-value"
)

// Violation describes one failed rule.
type Violation struct {
	Field    string   `json:"field"`
	Rule     RuleKind `json:"rule"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
	Message  string   `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s (%s)", v.Field, v.Message, v.Rule)
}

// Result holds every violation found, in rule order.
type Result struct {
	Violations []Violation `json:"violations,omitempty"`
}

// Valid reports whether no violations were found.
func (r Result) Valid() bool {
	return len(r.Violations) == 0
}

// Fields returns the offending field paths in order.
func (r Result) Fields() []string {
	out := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		out[i] = v.Field
	}
	return out
}

func (r Result) String() string {
	if r.Valid() {
		return "valid"
	}
	parts := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// Err converts the result into a go-errors validation error, or nil when
// valid. errors.Is(err, ErrValidationFailed) holds for the returned error.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	fields := make([]goerrors.FieldError, len(r.Violations))
	for i, v := range r.Violations {
		fields[i] = goerrors.FieldError{
			Field:   v.Field,
			Message: v.Message,
			Value:   string(v.Rule),
		}
	}
	err := goerrors.NewValidation(ErrValidationFailed.Error(), fields...).
		WithTextCode(textCodeValidationFailed)
	err.Source = ErrValidationFailed
	return err
}

// Violations extracts violations from an error produced by Result.Err.
func Violations(err error) []Violation {
	fields, ok := goerrors.GetValidationErrors(err)
	if !ok {
		return nil
	}
	out := make([]Violation, 0, len(fields))
	for _, f := range fields {
		rule, _ := f.Value.(string)
		out = append(out, Violation{Field: f.Field, Rule: RuleKind(rule), Message: f.Message})
	}
	return out
}
