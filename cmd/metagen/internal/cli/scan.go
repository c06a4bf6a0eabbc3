package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-metagen/internal/metatags"
	"github.com/goliatone/go-metagen/internal/value"
)

func newScanCmd(a *app) *cobra.Command {
	var grouped bool
	cmd := &cobra.Command{
		Use:   "scan [file.html|-]",
		Short: "Read the meta tags of an HTML document",
		Long: `Parse an HTML document and print the content of every <meta> tag carrying a
name, property or http-equiv attribute, keyed by that attribute.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = a.in
			if path := argOrStdin(args); path != stdinPath {
				file, err := os.Open(path)
				if err != nil {
					return err
				}
				defer file.Close()
				r = file
			}

			block, err := metatags.ExtractReader(r)
			if err != nil {
				return err
			}
			if !grouped {
				return a.encode(cmd.OutOrStdout(), block.ToMapping())
			}

			out := value.NewMapping()
			for _, group := range block.Groups() {
				out.Set(string(group.Group), value.MappingValue(group.Block.ToMapping()))
			}
			if err := a.encode(cmd.OutOrStdout(), out); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&grouped, "grouped", false, "Nest tags under their group")
	return cmd
}
