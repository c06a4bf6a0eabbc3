package runtimeconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrConfigFormatUnknown is returned for files whose extension is not yaml,
// yml, toml or json.
var ErrConfigFormatUnknown = errors.New("metagen config: unsupported config file format")

// Load reads path over DefaultConfig and validates the result. The format
// follows the file extension. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("metagen config: read %s: %w", path, err)
	}
	return Parse(data, filepath.Ext(path))
}

// Parse decodes data in the given format ("yaml", ".toml", ...) over
// DefaultConfig and validates the result.
func Parse(data []byte, format string) (Config, error) {
	cfg := DefaultConfig()

	var err error
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "yaml", "yml":
		err = decodeYAML(data, &cfg)
	case "toml":
		err = decodeTOML(data, &cfg)
	case "json":
		err = decodeJSON(data, &cfg)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrConfigFormatUnknown, format)
	}
	if err != nil {
		return Config{}, fmt.Errorf("metagen config: decode: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

func decodeJSON(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}
