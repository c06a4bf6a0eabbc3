package metagen

import "github.com/goliatone/go-metagen/internal/runtimeconfig"

var (
	ErrNotationUnknown         = runtimeconfig.ErrNotationUnknown
	ErrNotationDuplicate       = runtimeconfig.ErrNotationDuplicate
	ErrValidationRuleInvalid   = runtimeconfig.ErrValidationRuleInvalid
	ErrKeywordLimitInvalid     = runtimeconfig.ErrKeywordLimitInvalid
	ErrMetaTagKeyRequired      = runtimeconfig.ErrMetaTagKeyRequired
	ErrMetaTagKindInvalid      = runtimeconfig.ErrMetaTagKindInvalid
	ErrMarkdownWorkersInvalid  = runtimeconfig.ErrMarkdownWorkersInvalid
	ErrWatchDebounceInvalid    = runtimeconfig.ErrWatchDebounceInvalid
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigFormatUnknown     = runtimeconfig.ErrConfigFormatUnknown
)

type (
	Config           = runtimeconfig.Config
	ValidationConfig = runtimeconfig.ValidationConfig
	KeywordsConfig   = runtimeconfig.KeywordsConfig
	MetaTagsConfig   = runtimeconfig.MetaTagsConfig
	MetaTagField     = runtimeconfig.MetaTagField
	EnrichConfig     = runtimeconfig.EnrichConfig
	MarkdownConfig   = runtimeconfig.MarkdownConfig
	WatchConfig      = runtimeconfig.WatchConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML, TOML or JSON config file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.Load(path)
}
