package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-metagen/cmd/metagen/internal/bootstrap"
	"github.com/goliatone/go-metagen/internal/value"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		pattern string
		html    bool
	)
	cmd := &cobra.Command{
		Use:   "extract [path|-]",
		Short: "Print the metadata, keywords and meta tags of documents",
		Long: `Extract the frontmatter of a document or directory and print one record per
document with its metadata, keywords and meta tags.

Examples:
  metagen extract post.md
  metagen extract content --format yaml
  cat post.md | metagen extract -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := a.build(func(opts *bootstrap.Options) {
				if cmd.Flags().Changed("html") {
					opts.RenderHTML = &html
				}
			})
			if err != nil {
				return err
			}

			results, err := a.collect(cmd.Context(), module.Container, argOrStdin(args), pattern)
			if err != nil {
				return err
			}

			records := make([]*value.Mapping, len(results))
			failed := 0
			for i, res := range results {
				records[i] = resultRecord(res)
				if res.Bundle == nil {
					failed++
				}
			}

			out := documentsRecord(records)
			if len(records) == 1 {
				out = records[0]
			}
			if err := a.encode(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d documents could not be extracted", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob applied to file names when extracting a directory")
	cmd.Flags().BoolVar(&html, "html", false, "Render the document body to HTML")
	return cmd
}

func argOrStdin(args []string) string {
	if len(args) == 0 {
		return stdinPath
	}
	return args[0]
}
