package runtimeconfig

import (
	"fmt"

	"github.com/goliatone/go-metagen/internal/keywords"
	"github.com/goliatone/go-metagen/internal/metatags"
	"github.com/goliatone/go-metagen/internal/notation"
	"github.com/goliatone/go-metagen/internal/pipeline"
	"github.com/goliatone/go-metagen/internal/validation"
)

// Adapters resolves Notations in order. An empty list yields the defaults.
func (cfg Config) Adapters() ([]notation.Adapter, error) {
	if len(cfg.Notations) == 0 {
		return notation.Defaults(), nil
	}
	all := notation.Defaults()
	out := make([]notation.Adapter, 0, len(cfg.Notations))
	for _, label := range cfg.Notations {
		n, ok := notation.Parse(label)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotationUnknown, label)
		}
		adapter, ok := notation.Find(all, n)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNotationUnknown, label)
		}
		out = append(out, adapter)
	}
	return out, nil
}

// Rules converts the validation section.
func (cfg Config) Rules() ([]validation.Rule, error) {
	rules, err := validation.RulesFromConfig(cfg.Validation.Rules)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationRuleInvalid, err)
	}
	return rules, nil
}

// FieldMap converts the meta tag section.
func (cfg Config) FieldMap() (metatags.FieldMap, error) {
	var fields metatags.FieldMap
	if len(cfg.MetaTags.Fields) == 0 || cfg.MetaTags.ExtendDefaults {
		fields = metatags.DefaultFieldMap()
	}
	for _, f := range cfg.MetaTags.Fields {
		kind, err := metatags.ParseAttrKind(f.Kind)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrMetaTagKindInvalid, f.Kind)
		}
		fields = append(fields, metatags.Field{
			Key:       f.Key,
			Attribute: f.Attribute,
			Kind:      kind,
			Group:     metatags.Group(f.Group),
		})
	}
	return fields, nil
}

// KeywordOptions converts the keywords section.
func (cfg Config) KeywordOptions() []keywords.Option {
	opts := []keywords.Option{
		keywords.WithDelimiters(cfg.Keywords.Delimiters),
		keywords.WithLimit(cfg.Keywords.Limit),
	}
	if cfg.Keywords.Lowercase {
		opts = append(opts, keywords.WithLowercase())
	}
	return opts
}

// PipelineConfig assembles a pipeline configuration from every section.
func (cfg Config) PipelineConfig() (pipeline.Config, error) {
	rules, err := cfg.Rules()
	if err != nil {
		return pipeline.Config{}, err
	}
	fields, err := cfg.FieldMap()
	if err != nil {
		return pipeline.Config{}, err
	}

	keywordFields := cfg.Keywords.Fields
	if len(keywordFields) == 0 {
		keywordFields = keywords.DefaultFields
	}

	tagOpts := []metatags.Option{metatags.WithSelfClosing(cfg.MetaTags.SelfClosing)}
	if cfg.MetaTags.Separator != "" {
		tagOpts = append(tagOpts, metatags.WithSeparator(cfg.MetaTags.Separator))
	}

	return pipeline.Config{
		Rules:         rules,
		KeywordFields: append([]string(nil), keywordFields...),
		KeywordOpts:   cfg.KeywordOptions(),
		FieldMap:      fields,
		TagOpts:       tagOpts,
		Enrich:        cfg.Enrich.Enabled,
		EnrichOptions: cfg.EnrichOptions(),
	}, nil
}
