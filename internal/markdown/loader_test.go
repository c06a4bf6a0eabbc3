package markdown

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoaderLoadFile(t *testing.T) {
	loader := NewLoader(siteFS(), LoaderConfig{})

	src, err := loader.LoadFile(context.Background(), "./blog/post.md")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if src.Path != "blog/post.md" {
		t.Fatalf("expected cleaned path, got %q", src.Path)
	}
	if len(src.Checksum) != 32 {
		t.Fatalf("expected sha256 checksum, got %d bytes", len(src.Checksum))
	}
}

func TestLoaderDiscoverPatternAndRecursion(t *testing.T) {
	loader := NewLoader(siteFS(), LoaderConfig{Recursive: true})

	paths, err := loader.Discover(context.Background(), ".", LoadParams{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := strings.Join(paths, ","); got != "about.md,blog/broken.md,blog/data.md,blog/post.md,drafts/untitled.md" {
		t.Fatalf("unexpected paths %s", got)
	}

	paths, err = loader.Discover(context.Background(), ".", LoadParams{Pattern: "*.txt"})
	if err != nil {
		t.Fatalf("Discover txt: %v", err)
	}
	if len(paths) != 1 || paths[0] != "notes.txt" {
		t.Fatalf("expected notes.txt, got %v", paths)
	}

	paths, err = loader.Discover(context.Background(), ".", LoadParams{Pattern: "blog/p*.md"})
	if err != nil {
		t.Fatalf("Discover nested pattern: %v", err)
	}
	if len(paths) != 1 || paths[0] != "blog/post.md" {
		t.Fatalf("expected blog/post.md, got %v", paths)
	}
}

func TestLoaderRejectsAbsolutePathWithoutBase(t *testing.T) {
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{})
	if _, err := loader.LoadFile(context.Background(), "/tmp/post.md"); err == nil {
		t.Fatalf("expected absolute path without base to fail")
	}
}

func TestLoaderRejectsEscapingAbsolutePath(t *testing.T) {
	loader := NewLoader(fstest.MapFS{}, LoaderConfig{BasePath: "/srv/content"})
	if _, err := loader.LoadFile(context.Background(), "/srv/other/post.md"); err == nil {
		t.Fatalf("expected path outside the base to fail")
	}
	if _, err := loader.LoadFile(context.Background(), "/srv/content/missing.md"); err == nil {
		t.Fatalf("expected missing file to fail")
	}
}

func TestLoaderNonRecursiveDiscover(t *testing.T) {
	loader := NewLoader(siteFS(), LoaderConfig{})
	paths, err := loader.Discover(context.Background(), "blog", LoadParams{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if got := strings.Join(paths, ","); got != "blog/broken.md,blog/data.md,blog/post.md" {
		t.Fatalf("unexpected paths %s", got)
	}
	if _, err := loader.LoadFile(context.Background(), "blog"); err == nil {
		t.Fatalf("expected directory load to fail")
	}
}

func TestLoaderMatches(t *testing.T) {
	cases := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"", "docs/a.md", true},
		{"", "docs/a.txt", false},
		{"blog/*.md", "blog/a.md", true},
		{"blog/*.md", "docs/blog/a.md", false},
		{"**/blog/*.md", "docs/blog/a.md", true},
		{"**/*.md", "a/b/c.md", true},
		{"[", "a.md", false},
	}
	for _, tc := range cases {
		loader := NewLoader(fstest.MapFS{}, LoaderConfig{Pattern: tc.pattern})
		if got := loader.Matches(tc.name); got != tc.want {
			t.Fatalf("pattern %q name %q: expected %v, got %v", tc.pattern, tc.name, tc.want, got)
		}
	}
}
