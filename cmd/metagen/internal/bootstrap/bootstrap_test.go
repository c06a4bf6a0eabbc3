package bootstrap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	metagen "github.com/goliatone/go-metagen"
)

func TestBuildModuleAppliesOverrides(t *testing.T) {
	render := true
	resources, err := BuildModule(Options{
		Notations:  []string{"json"},
		LogLevel:   "error",
		RenderHTML: &render,
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	if resources.Module == nil || resources.Container == nil || resources.Logger == nil {
		t.Fatal("expected module, container and logger to be initialised")
	}
	cfg := resources.Container.Config()
	if len(cfg.Notations) != 1 || cfg.Notations[0] != "json" || !cfg.Markdown.RenderHTML || cfg.Logging.Level != "error" {
		t.Fatalf("expected overrides to apply, got %+v", cfg)
	}
}

func TestLoadConfigReadsFileThenOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metagen.toml")
	content := "notations = [\"toml\"]\n\n[logging]\nlevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(Options{ConfigPath: path, LogLevel: "warn"})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Notations[0] != "toml" || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestLoadConfigRejectsInvalidOverride(t *testing.T) {
	if _, err := LoadConfig(Options{LogFormat: "pretty"}); !errors.Is(err, metagen.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" yaml, ,toml ")
	if len(got) != 2 || got[0] != "yaml" || got[1] != "toml" {
		t.Fatalf("unexpected list %v", got)
	}
	if SplitList("  ") != nil {
		t.Fatal("expected nil for blank input")
	}
}
