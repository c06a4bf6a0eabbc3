package markdown

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"

	"github.com/goliatone/go-metagen/internal/frontmatter"
	"github.com/goliatone/go-metagen/internal/notation"
	"github.com/goliatone/go-metagen/internal/pipeline"
	"github.com/goliatone/go-metagen/internal/validation"
	"github.com/goliatone/go-metagen/internal/value"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

func siteFS() fstest.MapFS {
	return fstest.MapFS{
		"about.md":           {Data: []byte("---\ntitle: About\nkeywords: go, notes\n---\n# About\n\nHello **world**\n")},
		"blog/post.md":       {Data: []byte("+++\ntitle = \"Post\"\ntags = [\"go\"]\n+++\nPost body\n")},
		"blog/data.md":       {Data: []byte(";;;\n{\"title\": \"Data\"}\n;;;\nData body\n")},
		"blog/broken.md":     {Data: []byte("---\ntitle: [unclosed\n---\nbody\n")},
		"notes.txt":          {Data: []byte("---\ntitle: Ignored\n---\n")},
		"drafts/untitled.md": {Data: []byte("no header here\n")},
	}
}

func newTestService(tb testing.TB, cfg Config, opts ...ServiceOption) *Service {
	tb.Helper()
	opts = append([]ServiceOption{WithFS(siteFS())}, opts...)
	svc, err := NewService(cfg, opts...)
	if err != nil {
		tb.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestServiceProcess(t *testing.T) {
	svc := newTestService(t, Config{RenderHTML: true})

	res, err := svc.Process(context.Background(), "about.md")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Bundle.Notation != notation.YAML {
		t.Fatalf("expected yaml, got %s", res.Bundle.Notation)
	}
	if got := strings.Join(res.Bundle.Keywords, ","); got != "go,notes" {
		t.Fatalf("unexpected keywords %q", got)
	}
	if len(res.Checksum) == 0 {
		t.Fatalf("expected checksum to be populated")
	}
	html := string(res.HTML)
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "<strong>world</strong>") {
		t.Fatalf("expected rendered body, got %q", html)
	}
}

func TestServiceProcessMissingFile(t *testing.T) {
	svc := newTestService(t, Config{})
	res, err := svc.Process(context.Background(), "missing.md")
	if err == nil || !res.Failed() {
		t.Fatalf("expected missing file to fail")
	}
}

func TestServiceProcessDirectoryCollectsErrors(t *testing.T) {
	svc := newTestService(t, Config{Recursive: true, Workers: 3})

	batch, err := svc.ProcessDirectory(context.Background(), ".", interfaces.ProcessOptions{})
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if batch.RunID == uuid.Nil {
		t.Fatalf("expected run id")
	}

	var paths []string
	for _, res := range batch.Results {
		paths = append(paths, res.Path)
	}
	want := "about.md,blog/broken.md,blog/data.md,blog/post.md,drafts/untitled.md"
	if got := strings.Join(paths, ","); got != want {
		t.Fatalf("unexpected paths\nwant %s\ngot  %s", want, got)
	}

	failures := batch.Failures()
	if len(failures) != 1 || failures[0].Path != "blog/broken.md" {
		t.Fatalf("expected only broken.md to fail, got %v", failures)
	}
	if !errors.Is(failures[0].Err, frontmatter.ErrNotationParse) {
		t.Fatalf("expected notation parse error, got %v", failures[0].Err)
	}
	if !errors.Is(batch.Err(), frontmatter.ErrNotationParse) {
		t.Fatalf("expected joined batch error")
	}

	byPath := map[string]*Result{}
	for _, res := range batch.Results {
		byPath[res.Path] = res
	}
	if byPath["blog/data.md"].Bundle.Notation != notation.JSON {
		t.Fatalf("expected json notation for data.md")
	}
	if byPath["drafts/untitled.md"].Bundle.HasFrontmatter() {
		t.Fatalf("expected untitled.md without frontmatter")
	}
}

func TestServiceProcessDirectoryNonRecursiveOverride(t *testing.T) {
	svc := newTestService(t, Config{Recursive: true})

	no := false
	batch, err := svc.ProcessDirectory(context.Background(), ".", interfaces.ProcessOptions{Recursive: &no})
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if len(batch.Results) != 1 || batch.Results[0].Path != "about.md" {
		t.Fatalf("expected only about.md, got %d results", len(batch.Results))
	}
}

func TestServiceProcessDirectoryValidationFailuresKeepBundle(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.Rules = []validation.Rule{validation.Required("author", value.KindString)}

	svc := newTestService(t, Config{}, WithPipeline(pipeline.New(cfg)))
	batch, err := svc.ProcessDirectory(context.Background(), "blog", interfaces.ProcessOptions{Pattern: "post.md"})
	if err != nil {
		t.Fatalf("ProcessDirectory: %v", err)
	}
	if len(batch.Results) != 1 {
		t.Fatalf("expected one result, got %d", len(batch.Results))
	}
	res := batch.Results[0]
	if !errors.Is(res.Err, validation.ErrValidationFailed) || res.Bundle == nil {
		t.Fatalf("expected validation failure with bundle, got %+v", res)
	}
}

func TestServiceProcessDirectoryCancelled(t *testing.T) {
	svc := newTestService(t, Config{Recursive: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.ProcessDirectory(ctx, ".", interfaces.ProcessOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
