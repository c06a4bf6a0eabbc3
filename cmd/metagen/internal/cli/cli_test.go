package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-metagen/internal/logging"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

var quiet = interfaces.LoggerProviderFunc(func(string) interfaces.Logger { return logging.NoOp() })

func writeContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"post.md":       "---\ntitle: Hello\ndescription: First post\nkeywords: go, yaml\nog:title: Hello & welcome\n---\n# Hello\n",
		"blog/entry.md": "+++\ntitle = \"Entry\"\ntags = [\"toml\", \"go\"]\n+++\nBody\n",
		"notes.txt":     "ignored",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(
		WithStreams(strings.NewReader(stdin), &out, &errOut),
		WithLoggerProvider(quiet),
	)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExtractFileAsJSON(t *testing.T) {
	dir := writeContent(t)
	out, err := run(t, "", "extract", filepath.Join(dir, "post.md"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for _, want := range []string{`"notation": "yaml"`, `"title": "Hello"`, `"go"`, `content=\"First post\"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output:\n%s", want, out)
		}
	}
}

func TestExtractStdinAsYAML(t *testing.T) {
	out, err := run(t, ";;;\n{\"title\": \"Piped\"}\n;;;\nbody\n", "extract", "-", "--format", "yaml")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(out, "path: '-'") && !strings.Contains(out, `path: "-"`) {
		t.Fatalf("expected stdin path in output:\n%s", out)
	}
	if !strings.Contains(out, "notation: json") || !strings.Contains(out, "title: Piped") {
		t.Fatalf("unexpected yaml output:\n%s", out)
	}
}

func TestExtractDirectoryAsTOML(t *testing.T) {
	dir := writeContent(t)
	out, err := run(t, "", "extract", dir, "--format", "toml")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Count(out, "[[documents]]") != 2 {
		t.Fatalf("expected two document tables:\n%s", out)
	}
	if strings.Contains(out, "notes.txt") {
		t.Fatalf("expected non-markdown files to be skipped:\n%s", out)
	}
}

func TestExtractReportsBrokenHeader(t *testing.T) {
	_, err := run(t, "---\ntitle: [unclosed\n---\n", "extract")
	if err == nil {
		t.Fatal("expected broken yaml to fail")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	dir := writeContent(t)
	out, err := run(t, "", "validate", dir, "--require", "title,description")
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("expected one failing document, got %v", err)
	}
	if !strings.Contains(out, "post.md: valid") || !strings.Contains(out, "entry.md: description") {
		t.Fatalf("unexpected validate output:\n%s", out)
	}
}

func TestKeywordsSingleDocument(t *testing.T) {
	dir := writeContent(t)
	out, err := run(t, "", "keywords", filepath.Join(dir, "blog", "entry.md"), "--lowercase")
	if err != nil {
		t.Fatalf("keywords: %v", err)
	}
	if out != "toml\ngo\n" {
		t.Fatalf("unexpected keywords %q", out)
	}
}

func TestTagsGrouped(t *testing.T) {
	dir := writeContent(t)
	out, err := run(t, "", "tags", filepath.Join(dir, "post.md"), "--grouped", "--self-closing")
	if err != nil {
		t.Fatalf("tags: %v", err)
	}
	for _, want := range []string{
		"<!-- primary -->",
		`<meta name="description" content="First post" />`,
		"<!-- og -->",
		`<meta property="og:title" content="Hello &amp; welcome" />`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output:\n%s", want, out)
		}
	}
}

func TestScanHTML(t *testing.T) {
	html := `<html><head>
<meta name="description" content="Tom &amp; Jerry">
<meta property="og:type" content="article">
<meta charset="utf-8">
</head></html>`
	out, err := run(t, html, "scan", "--grouped")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	for _, want := range []string{`"primary"`, `"description": "Tom & Jerry"`, `"og:type": "article"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output:\n%s", want, out)
		}
	}
}

func TestInvalidOutputFormat(t *testing.T) {
	if _, err := run(t, "", "extract", "--format", "xml"); err == nil {
		t.Fatal("expected invalid format to fail")
	}
}
