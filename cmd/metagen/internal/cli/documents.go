package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	documentscmd "github.com/goliatone/go-metagen/internal/commands/documents"
	"github.com/goliatone/go-metagen/internal/di"
	"github.com/goliatone/go-metagen/internal/markdown"
)

const stdinPath = "-"

// collect runs target through the document command handlers. Per-document
// failures are reported on the results; the returned error covers setup
// problems only. An empty target or "-" reads stdin.
func (a *app) collect(ctx context.Context, container *di.Container, target, pattern string) ([]*markdown.Result, error) {
	target = strings.TrimSpace(target)
	if target == "" || target == stdinPath {
		return a.collectStdin(container)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		svc, err := container.NewMarkdownService(target)
		if err != nil {
			return nil, err
		}
		var batch *markdown.Batch
		handler := container.ProcessDirectoryHandler(svc, func(b *markdown.Batch) { batch = b })
		err = handler.Execute(ctx, documentscmd.ProcessDirectoryCommand{Directory: ".", Pattern: pattern})
		if batch == nil {
			return nil, err
		}
		for _, res := range batch.Results {
			res.Path = filepath.Join(target, res.Path)
		}
		return batch.Results, nil
	}

	svc, err := container.NewMarkdownService(filepath.Dir(target))
	if err != nil {
		return nil, err
	}
	var result *markdown.Result
	handler := container.ProcessFileHandler(svc, func(res *markdown.Result) { result = res })
	err = handler.Execute(ctx, documentscmd.ProcessFileCommand{Path: filepath.Base(target)})
	if result == nil {
		return nil, err
	}
	result.Path = target
	return []*markdown.Result{result}, nil
}

func (a *app) collectStdin(container *di.Container) ([]*markdown.Result, error) {
	data, err := io.ReadAll(a.in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	bundle, err := container.Pipeline().Run(string(data))
	if bundle == nil {
		return []*markdown.Result{{Path: stdinPath, Err: err}}, nil
	}
	res := &markdown.Result{Path: stdinPath, Bundle: bundle, Err: err}
	if container.Config().Markdown.RenderHTML {
		html, renderErr := container.Parser().Parse([]byte(bundle.Body))
		if renderErr != nil {
			return nil, renderErr
		}
		res.HTML = html
	}
	return []*markdown.Result{res}, nil
}

// firstBundle returns the single bundle for commands that operate on one
// document, failing when extraction did not produce one.
func firstBundle(results []*markdown.Result) (*markdown.Result, error) {
	if len(results) != 1 {
		return nil, fmt.Errorf("expected a single document, got %d", len(results))
	}
	res := results[0]
	if res.Bundle == nil {
		return nil, fmt.Errorf("%s: %w", res.Path, res.Err)
	}
	return res, nil
}
