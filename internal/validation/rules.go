package validation

import (
	"fmt"
	"strings"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-metagen/internal/value"
)

// Rule describes the expectations for one metadata field.
type Rule struct {
	// Field is a key or dotted path into nested mappings.
	Field string
	// Kinds lists accepted kinds; empty accepts any kind. Listing
	// KindSequence also accepts a String, which downstream consumers split.
	Kinds []value.Kind
	// Elements restricts sequence items to these kinds when set.
	Elements []value.Kind
	Required bool
	// AllowEmpty accepts null, blank strings and empty collections.
	AllowEmpty bool
}

// Required returns a rule for a mandatory field of the given kinds.
func Required(field string, kinds ...value.Kind) Rule {
	return Rule{Field: field, Kinds: kinds, Required: true}
}

// Optional returns a rule that only checks shape when the field exists.
func Optional(field string, kinds ...value.Kind) Rule {
	return Rule{Field: field, Kinds: kinds}
}

func (r Rule) accepts(v value.Value) bool {
	if len(r.Kinds) == 0 {
		return true
	}
	kind := v.Kind()
	for _, k := range r.Kinds {
		if k == kind {
			return r.elementsMatch(v)
		}
		if k == value.KindSequence && kind == value.KindString {
			return true
		}
	}
	return false
}

func (r Rule) elementsMatch(v value.Value) bool {
	if len(r.Elements) == 0 || v.Kind() != value.KindSequence {
		return true
	}
	items, _ := v.AsSequence()
	for _, item := range items {
		if !containsKind(r.Elements, item.Kind()) {
			return false
		}
	}
	return true
}

func (r Rule) expected() string {
	if len(r.Kinds) == 0 {
		return "any"
	}
	labels := make([]string, 0, len(r.Kinds))
	for _, k := range r.Kinds {
		label := k.String()
		if k == value.KindSequence && len(r.Elements) > 0 {
			label = fmt.Sprintf("sequence of %s", kindList(r.Elements))
		}
		labels = append(labels, label)
	}
	return strings.Join(labels, " or ")
}

func containsKind(kinds []value.Kind, kind value.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func kindList(kinds []value.Kind) string {
	labels := make([]string, len(kinds))
	for i, k := range kinds {
		labels[i] = k.String()
	}
	return strings.Join(labels, "|")
}

// RuleConfig is the serialisable form of a Rule.
type RuleConfig struct {
	Field      string `json:"field" yaml:"field" toml:"field"`
	Type       string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Required   bool   `json:"required,omitempty" yaml:"required,omitempty" toml:"required,omitempty"`
	AllowEmpty bool   `json:"allow_empty,omitempty" yaml:"allow_empty,omitempty" toml:"allow_empty,omitempty"`
}

// Validate checks the field path and type label.
func (c RuleConfig) Validate() error {
	return ozzo.ValidateStruct(&c,
		ozzo.Field(&c.Field, ozzo.Required, ozzo.By(func(v any) error {
			if strings.TrimSpace(v.(string)) == "" {
				return ozzo.NewError("metagen.validation.field_required", "field is required")
			}
			return nil
		})),
		ozzo.Field(&c.Type, ozzo.By(func(v any) error {
			if _, _, err := parseTypeLabel(v.(string)); err != nil {
				return ozzo.NewError("metagen.validation.type_invalid", err.Error())
			}
			return nil
		})),
	)
}

// Rule converts the config into a Rule.
func (c RuleConfig) Rule() (Rule, error) {
	if err := c.Validate(); err != nil {
		return Rule{}, err
	}
	kinds, elements, _ := parseTypeLabel(c.Type)
	return Rule{
		Field:      strings.TrimSpace(c.Field),
		Kinds:      kinds,
		Elements:   elements,
		Required:   c.Required,
		AllowEmpty: c.AllowEmpty,
	}, nil
}

// RulesFromConfig converts a list of rule configs, stopping at the first
// invalid entry.
func RulesFromConfig(configs []RuleConfig) ([]Rule, error) {
	rules := make([]Rule, 0, len(configs))
	for i, cfg := range configs {
		rule, err := cfg.Rule()
		if err != nil {
			return nil, fmt.Errorf("validation rule %d (%s): %w", i, cfg.Field, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// parseTypeLabel accepts "any", a kind label, "sequence-or-string", or a
// "|" separated list such as "string|number".
func parseTypeLabel(label string) ([]value.Kind, []value.Kind, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "", "any":
		return nil, nil, nil
	case "sequence-or-string", "list-or-string", "strings":
		return []value.Kind{value.KindSequence, value.KindString}, []value.Kind{value.KindString}, nil
	}

	var kinds []value.Kind
	for _, part := range strings.Split(label, "|") {
		kind, ok := value.ParseKind(part)
		if !ok {
			return nil, nil, fmt.Errorf("unknown type %q", part)
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil, nil
}
