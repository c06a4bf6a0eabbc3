package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-metagen/internal/metatags"
	"github.com/goliatone/go-metagen/internal/value"
)

func newTagsCmd(a *app) *cobra.Command {
	var (
		grouped     bool
		selfClosing bool
		only        []string
	)
	cmd := &cobra.Command{
		Use:   "tags [path|-]",
		Short: "Render the HTML meta tags of documents",
		Long: `Render <meta> tags for the document's metadata using the configured field map.
A single document prints the HTML block; a directory prints a record per
document in the selected --format.

Examples:
  metagen tags post.md --grouped
  metagen tags post.md --only title,description --self-closing`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := a.build(nil)
			if err != nil {
				return err
			}
			results, err := a.collect(cmd.Context(), module.Container, argOrStdin(args), "")
			if err != nil {
				return err
			}

			pipelineCfg := module.Container.Pipeline().Config()
			fields := pipelineCfg.FieldMap
			if len(only) > 0 {
				fields = metatags.Simple(only...)
			}
			opts := append([]metatags.Option(nil), pipelineCfg.TagOpts...)
			if cmd.Flags().Changed("self-closing") {
				opts = append(opts, metatags.WithSelfClosing(selfClosing))
			}

			if len(results) == 1 {
				res, err := firstBundle(results)
				if err != nil {
					return err
				}
				block := metatags.Generate(res.Bundle.Metadata, fields, opts...)
				return writeBlock(cmd, block, grouped)
			}

			out := value.NewMapping()
			for _, res := range results {
				if res.Bundle == nil {
					continue
				}
				block := metatags.Generate(res.Bundle.Metadata, fields, opts...)
				out.Set(res.Path, value.Strings(block.Strings()...))
			}
			return a.encode(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&grouped, "grouped", false, "Separate tag groups with HTML comments")
	cmd.Flags().BoolVar(&selfClosing, "self-closing", false, "Render tags as <meta ... />")
	cmd.Flags().StringSliceVar(&only, "only", nil, "Render only these keys with the name attribute")
	return cmd
}

func writeBlock(cmd *cobra.Command, block metatags.Block, grouped bool) error {
	out := cmd.OutOrStdout()
	if block.Len() == 0 {
		return nil
	}
	if !grouped {
		_, err := fmt.Fprintln(out, block.String())
		return err
	}
	for _, group := range block.Groups() {
		if _, err := fmt.Fprintf(out, "<!-- %s -->\n%s\n", group.Group, group.Block.String()); err != nil {
			return err
		}
	}
	return nil
}
