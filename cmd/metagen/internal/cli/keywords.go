package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-metagen/internal/keywords"
	"github.com/goliatone/go-metagen/internal/value"
)

func newKeywordsCmd(a *app) *cobra.Command {
	var (
		fields     []string
		delimiters string
		limit      int
		lowercase  bool
	)
	cmd := &cobra.Command{
		Use:   "keywords [path|-]",
		Short: "Derive the keyword list of documents",
		Long: `Collect keywords from the keywords and tags fields (or --fields), splitting
strings on commas and semicolons. A single document prints one keyword per
line; a directory prints a record per document.`,
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

			cfg := module.Container.Config()
			if len(fields) == 0 {
				fields = cfg.Keywords.Fields
			}
			opts := cfg.KeywordOptions()
			if cmd.Flags().Changed("delimiters") {
				opts = append(opts, keywords.WithDelimiters(delimiters))
			}
			if cmd.Flags().Changed("limit") {
				opts = append(opts, keywords.WithLimit(limit))
			}
			if lowercase {
				opts = append(opts, keywords.WithLowercase())
			}

			if len(results) == 1 {
				res, err := firstBundle(results)
				if err != nil {
					return err
				}
				derived := keywords.Derive(res.Bundle.Metadata, fields, opts...)
				if len(derived) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), strings.Join(derived, "\n"))
				}
				return nil
			}

			out := value.NewMapping()
			for _, res := range results {
				if res.Bundle == nil {
					continue
				}
				out.Set(res.Path, value.Strings(keywords.Derive(res.Bundle.Metadata, fields, opts...)...))
			}
			return a.encode(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Metadata fields to read, in order")
	cmd.Flags().StringVar(&delimiters, "delimiters", keywords.DefaultDelimiters, "Characters that split string values")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of keywords (0 for no limit)")
	cmd.Flags().BoolVar(&lowercase, "lowercase", false, "Fold keywords to lower case before deduplication")
	return cmd
}
