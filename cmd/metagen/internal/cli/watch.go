package cli

import (
	"context"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	documentscmd "github.com/goliatone/go-metagen/internal/commands/documents"
	"github.com/goliatone/go-metagen/internal/markdown"
	"github.com/goliatone/go-metagen/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var initial bool
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Re-extract documents whenever they change",
		Long: `Watch a content directory (the configured content_dir by default) and print a
record for every document that is created or modified. Changes are debounced
so a burst of writes produces a single record per file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := a.build(nil)
			if err != nil {
				return err
			}
			container := module.Container

			root := container.Config().Markdown.ContentDir
			if len(args) == 1 {
				root = args[0]
			}

			svc, err := container.NewMarkdownService(root)
			if err != nil {
				return err
			}
			loader := svc.Loader()
			watcher, err := container.NewWatcher(root, func(path string) bool {
				rel, err := filepath.Rel(root, path)
				return err == nil && loader.Matches(rel)
			})
			if err != nil {
				return err
			}
			defer watcher.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			emit := func(res *markdown.Result) {
				if err := a.encode(cmd.OutOrStdout(), resultRecord(res)); err != nil {
					module.Logger.Error("watch.emit.failed", "path", res.Path, "error", err)
				}
			}
			handler := container.ProcessFileHandler(svc, emit)

			if initial {
				dirHandler := container.ProcessDirectoryHandler(svc, func(batch *markdown.Batch) {
					for _, res := range batch.Results {
						emit(res)
					}
				})
				if err := dirHandler.Execute(ctx, documentscmd.ProcessDirectoryCommand{Directory: "."}); err != nil {
					module.Logger.Warn("watch.initial.failed", "error", err)
				}
			}

			return watcher.Watch(ctx, func(ctx context.Context, changes []watch.Change) {
				for _, change := range changes {
					if change.Removed {
						module.Logger.Info("watch.document.removed", "path", change.Path)
						continue
					}
					rel, err := filepath.Rel(root, change.Path)
					if err != nil {
						continue
					}
					// Per-document failures are emitted on the record.
					_ = handler.Execute(ctx, documentscmd.ProcessFileCommand{Path: rel})
				}
			})
		},
	}
	cmd.Flags().BoolVar(&initial, "initial", false, "Process every matching document before watching")
	return cmd
}
