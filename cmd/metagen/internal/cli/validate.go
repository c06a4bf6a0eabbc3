package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-metagen/cmd/metagen/internal/bootstrap"
)

func newValidateCmd(a *app) *cobra.Command {
	var (
		pattern string
		require []string
	)
	cmd := &cobra.Command{
		Use:   "validate [path|-]",
		Short: "Check document metadata against the configured rules",
		Long: `Validate the frontmatter of a document or directory against the rules of the
config file plus any --require fields. Every violation is reported; the command
fails when at least one document is invalid.

Examples:
  metagen validate content --require title,date
  metagen validate post.md --config metagen.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := a.build(func(opts *bootstrap.Options) {
				opts.Require = require
			})
			if err != nil {
				return err
			}

			results, err := a.collect(cmd.Context(), module.Container, argOrStdin(args), pattern)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, res := range results {
				switch {
				case res.Bundle == nil:
					failed++
					fmt.Fprintf(out, "%s: error: %v\n", res.Path, res.Err)
				case !res.Bundle.Validation.Valid():
					failed++
					for _, v := range res.Bundle.Validation.Violations {
						fmt.Fprintf(out, "%s: %s\n", res.Path, v)
					}
				default:
					fmt.Fprintf(out, "%s: valid\n", res.Path)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed validation", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob applied to file names when validating a directory")
	cmd.Flags().StringSliceVar(&require, "require", nil, "Fields that must be present (repeatable or comma separated)")
	return cmd
}
