// Package validation checks metadata mappings against field rules. Every
// rule is evaluated; violations are collected in rule order.
package validation

import (
	"errors"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-metagen/internal/value"
)

const (
	codeMissingRequired = "metagen.validation.missing_required"
	codeWrongType       = "metagen.validation.wrong_type"
	codeEmptyValue      = "metagen.validation.empty_value"
)

// field is what the ozzo rules receive for each metadata rule.
type field struct {
	value   value.Value
	present bool
}

// Validate evaluates rules against meta without mutating it.
func Validate(meta *value.Mapping, rules []Rule) Result {
	result := Result{}
	for _, rule := range rules {
		v, ok := meta.Lookup(rule.Field)
		target := field{value: v, present: ok}

		err := ozzo.Validate(target, compile(rule)...)
		if err == nil {
			continue
		}
		result.Violations = append(result.Violations, violationFrom(rule, target, err))
	}
	return result
}

func compile(rule Rule) []ozzo.Rule {
	return []ozzo.Rule{
		ozzo.By(func(v any) error {
			f := v.(field)
			if !f.present && rule.Required {
				return ozzo.NewError(codeMissingRequired, "is required")
			}
			return nil
		}),
		ozzo.By(func(v any) error {
			f := v.(field)
			if !f.present || f.value.IsNull() || rule.accepts(f.value) {
				return nil
			}
			return ozzo.NewError(codeWrongType, "must be {{.expected}}, got {{.actual}}").
				SetParams(map[string]any{
					"expected": rule.expected(),
					"actual":   f.value.Kind().String(),
				})
		}),
		ozzo.By(func(v any) error {
			f := v.(field)
			if !f.present || rule.AllowEmpty || !f.value.IsEmpty() {
				return nil
			}
			return ozzo.NewError(codeEmptyValue, "must not be empty")
		}),
	}
}

func violationFrom(rule Rule, f field, err error) Violation {
	out := Violation{
		Field:    rule.Field,
		Expected: rule.expected(),
		Message:  err.Error(),
	}
	if f.present {
		out.Actual = f.value.Kind().String()
	}

	var verr ozzo.Error
	if errors.As(err, &verr) {
		switch verr.Code() {
		case codeMissingRequired:
			out.Rule = MissingRequired
		case codeWrongType:
			out.Rule = WrongType
		case codeEmptyValue:
			out.Rule = EmptyValue
		}
	}
	return out
}
