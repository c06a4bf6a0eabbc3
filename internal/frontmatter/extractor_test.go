package frontmatter

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-metagen/internal/notation"
	"github.com/goliatone/go-metagen/internal/value"
)

func TestExtractWithoutFrontmatterReturnsInput(t *testing.T) {
	inputs := []string{
		"",
		"# Heading\n\nBody text.\n",
		"\n\nplain paragraph\n---\nnot a header\n",
		"title: looks like yaml\n---\n",
	}
	for _, input := range inputs {
		doc, err := Extract(input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		if doc.Body != input {
			t.Fatalf("expected body to equal input\nwant %q\ngot  %q", input, doc.Body)
		}
		if doc.Metadata.Len() != 0 || doc.HasFrontmatter() || doc.Notation != notation.None {
			t.Fatalf("expected empty metadata for %q, got %#v", input, doc.Metadata)
		}
	}
}

func TestExtractNotations(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		notation notation.Notation
		body     string
	}{
		{
			name:     "yaml",
			input:    "---\ntitle: My Post\ntags: [a, b]\n---\nBody\n",
			notation: notation.YAML,
			body:     "Body\n",
		},
		{
			name:     "yaml explicit",
			input:    "---yaml\ntitle: My Post\n---\nBody\n",
			notation: notation.YAML,
			body:     "Body\n",
		},
		{
			name:     "toml",
			input:    "+++\ntitle = \"My Post\"\n+++\nBody\n",
			notation: notation.TOML,
			body:     "Body\n",
		},
		{
			name:     "toml explicit",
			input:    "---toml\ntitle = \"My Post\"\n---\nBody\n",
			notation: notation.TOML,
			body:     "Body\n",
		},
		{
			name:     "json semicolons",
			input:    ";;;\n{\"title\": \"My Post\"}\n;;;\nBody\n",
			notation: notation.JSON,
			body:     "Body\n",
		},
		{
			name:     "json bare object",
			input:    "{\n  \"title\": \"My Post\"\n}\n\nBody\n",
			notation: notation.JSON,
			body:     "Body\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Extract(tc.input)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if doc.Notation != tc.notation {
				t.Fatalf("expected notation %s, got %s", tc.notation, doc.Notation)
			}
			if doc.Body != tc.body {
				t.Fatalf("expected body %q, got %q", tc.body, doc.Body)
			}
			title, ok := doc.Metadata.Get("title")
			if !ok || title.Text("") != "My Post" {
				t.Fatalf("expected title, got %#v", doc.Metadata)
			}
			if got := tc.input[doc.Header.Start:doc.Header.End] + doc.Body; got != tc.input {
				t.Fatalf("expected header span and body to cover input, got %q", got)
			}
		})
	}
}

func TestExtractUnterminatedHeader(t *testing.T) {
	inputs := []string{
		"---\ntitle: never closed\n",
		"+++\ntitle = \"x\"\n",
		"---",
		"{\n  \"title\": \"x\"\n}\nno blank line",
	}
	for _, input := range inputs {
		doc, err := Extract(input)
		if err == nil {
			t.Fatalf("expected unterminated error for %q, got %#v", input, doc)
		}
		if doc != nil {
			t.Fatalf("expected no partial document for %q", input)
		}
		if !errors.Is(err, ErrUnterminatedHeader) {
			t.Fatalf("expected ErrUnterminatedHeader, got %v", err)
		}
		if !goerrors.IsCategory(err, goerrors.CategoryBadInput) {
			t.Fatalf("expected bad_input category, got %v", err)
		}
	}
}

func TestExtractParseFailureIsTyped(t *testing.T) {
	_, err := Extract("---\ntitle: [unclosed\n---\nbody\n")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !errors.Is(err, ErrNotationParse) {
		t.Fatalf("expected ErrNotationParse, got %v", err)
	}
	var perr *notation.ParseError
	if !errors.As(err, &perr) || perr.Notation != notation.YAML {
		t.Fatalf("expected yaml ParseError, got %v", err)
	}
	var gerr *goerrors.Error
	if !errors.As(err, &gerr) || gerr.TextCode != textCodeNotationParse {
		t.Fatalf("expected go-errors wrapper with text code, got %v", err)
	}
}

func TestExtractNeverFallsBackToAnotherNotation(t *testing.T) {
	// Valid TOML inside YAML delimiters must fail as YAML.
	_, err := Extract("---\ntitle = \"x\"\n[section]\n---\n")
	var perr *notation.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if perr.Notation != notation.YAML {
		t.Fatalf("expected yaml failure, got %s", perr.Notation)
	}
}

func TestDetectPriorityFollowsAdapterOrder(t *testing.T) {
	custom := notation.TOMLAdapter()
	custom.Delimiters = append(custom.Delimiters, notation.Delimiter{Start: "---", End: "---"})

	input := "---\ntitle = \"x\"\n---\n"

	header, err := Detect(input, []notation.Adapter{custom, notation.YAMLAdapter()})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if header.Notation != notation.TOML {
		t.Fatalf("expected first registered adapter to win, got %s", header.Notation)
	}

	header, err = Detect(input, notation.Defaults())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if header.Notation != notation.YAML {
		t.Fatalf("expected yaml by default, got %s", header.Notation)
	}
}

func TestDetectSkipsLeadingBlankLines(t *testing.T) {
	input := "\n  \n---\ntitle: x\n---\nbody"
	header, err := Detect(input, notation.Defaults())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if !header.Found || header.Start != 4 {
		t.Fatalf("expected header at offset 4, got %+v", header)
	}
	if strings.TrimSpace(header.Raw) != "title: x" {
		t.Fatalf("unexpected raw header %q", header.Raw)
	}
}

func TestExtractEmptyHeader(t *testing.T) {
	doc, err := Extract("---\n---\nbody")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !doc.HasFrontmatter() || doc.Metadata.Len() != 0 || doc.Body != "body" {
		t.Fatalf("unexpected document %#v", doc)
	}
}

func TestExtractStripsByteOrderMark(t *testing.T) {
	doc, err := Extract("\ufeff---\ntitle: x\n---\n")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !doc.HasFrontmatter() {
		t.Fatalf("expected frontmatter after BOM")
	}
}

func TestExtractWithCustomNotations(t *testing.T) {
	e := NewExtractor(WithNotations(notation.JSONAdapter()))
	doc, err := e.Extract("---\ntitle: x\n---\n")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if doc.HasFrontmatter() {
		t.Fatalf("expected yaml delimiters to be ignored without the yaml adapter")
	}
}

func TestExtractFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "*.md"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("expected fixtures under testdata")
	}

	var reference *value.Mapping
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			t.Fatalf("open %s: %v", path, err)
		}
		doc, err := NewExtractor().ExtractReader(f)
		f.Close()
		if err != nil {
			t.Fatalf("extract %s: %v", path, err)
		}
		if strings.TrimSpace(doc.Body) != "Same body." {
			t.Fatalf("%s: unexpected body %q", path, doc.Body)
		}
		if reference == nil {
			reference = doc.Metadata
			continue
		}
		if !doc.Metadata.Equal(reference) {
			t.Fatalf("%s: metadata differs across notations\nwant %#v\ngot  %#v", path, reference, doc.Metadata)
		}
	}
}
