package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// DefaultPattern matches Markdown documents.
const DefaultPattern = "*.md"

// LoaderConfig controls document discovery.
type LoaderConfig struct {
	// BasePath lets callers pass absolute OS paths; they are made relative to
	// it before touching the filesystem.
	BasePath string
	// Pattern is a glob. Patterns without a slash match the file name, a
	// leading "**/" matches at any depth.
	Pattern   string
	Recursive bool
}

// LoadParams override the loader pattern and recursion for one call.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}

// Source is a raw document as read from the filesystem.
type Source struct {
	Path     string
	Data     []byte
	ModTime  time.Time
	Checksum []byte
}

// Loader finds and reads documents from an fs.FS.
type Loader struct {
	fsys      fs.FS
	base      string
	glob      glob
	recursive bool
}

func NewLoader(fsys fs.FS, cfg LoaderConfig) *Loader {
	l := &Loader{fsys: fsys, recursive: cfg.Recursive, glob: compileGlob(cfg.Pattern)}
	if base := strings.TrimSpace(cfg.BasePath); base != "" {
		l.base = filepath.Clean(base)
	}
	return l
}

// Matches reports whether the slash or OS separated path matches the loader
// pattern.
func (l *Loader) Matches(name string) bool {
	return l.glob.match(filepath.ToSlash(name))
}

// LoadFile reads one document and hashes its content with SHA-256.
func (l *Loader) LoadFile(ctx context.Context, name string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rel, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	f, err := l.fsys.Open(rel)
	if err != nil {
		return nil, fmt.Errorf("markdown: open %s: %w", rel, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("markdown: stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("markdown: %s is a directory", rel)
	}

	hash := sha256.New()
	data, err := io.ReadAll(io.TeeReader(f, hash))
	if err != nil {
		return nil, fmt.Errorf("markdown: read %s: %w", rel, err)
	}
	return &Source{Path: rel, Data: data, ModTime: info.ModTime(), Checksum: hash.Sum(nil)}, nil
}

// Discover returns the sorted paths under dir that match the pattern.
func (l *Loader) Discover(ctx context.Context, dir string, params LoadParams) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := l.resolve(dir)
	if err != nil {
		return nil, err
	}

	g := l.glob
	if strings.TrimSpace(params.Pattern) != "" {
		g = compileGlob(params.Pattern)
	}
	recursive := l.recursive
	if params.Recursive != nil {
		recursive = *params.Recursive
	}

	var found []string
	err = fs.WalkDir(l.fsys, root, func(name string, d fs.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		case d.IsDir():
			if name != root && !recursive {
				return fs.SkipDir
			}
		case g.match(name):
			found = append(found, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("markdown: walk %s: %w", root, err)
	}
	slices.Sort(found)
	return found, nil
}

// resolve turns name into a clean fs.FS path.
func (l *Loader) resolve(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ".", nil
	}
	if filepath.IsAbs(name) {
		if l.base == "" {
			return "", fmt.Errorf("markdown: absolute path %s needs a base path", name)
		}
		rel, err := filepath.Rel(l.base, filepath.Clean(name))
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return "", fmt.Errorf("markdown: %s is outside %s", name, l.base)
		}
		name = rel
	}
	return path.Clean(filepath.ToSlash(name)), nil
}

type glob struct {
	pattern  string
	anyDepth bool
	full     bool
}

func compileGlob(pattern string) glob {
	pattern = filepath.ToSlash(strings.TrimSpace(pattern))
	if pattern == "" {
		pattern = DefaultPattern
	}
	g := glob{}
	for strings.HasPrefix(pattern, "**/") {
		g.anyDepth = true
		pattern = pattern[3:]
	}
	g.pattern = pattern
	g.full = strings.Contains(pattern, "/")
	return g
}

func (g glob) match(name string) bool {
	if !g.full {
		ok, _ := path.Match(g.pattern, path.Base(name))
		return ok
	}
	for {
		if ok, _ := path.Match(g.pattern, name); ok {
			return true
		}
		_, rest, more := strings.Cut(name, "/")
		if !g.anyDepth || !more {
			return false
		}
		name = rest
	}
}
