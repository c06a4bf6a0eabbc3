// Package cli implements the metagen command line.
package cli

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-metagen/cmd/metagen/internal/bootstrap"
	"github.com/goliatone/go-metagen/pkg/interfaces"
)

var validOutputFormats = []string{"json", "yaml", "toml"}

// app carries flag values and streams shared by every subcommand.
type app struct {
	configPath  string
	format      string
	notations   string
	logProvider string
	logLevel    string
	logFormat   string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	loggerProvider interfaces.LoggerProvider
	module         *bootstrap.Module
}

// Option customises the root command. Used by tests.
type Option func(*app)

// WithStreams replaces stdin, stdout and stderr.
func WithStreams(in io.Reader, out, errOut io.Writer) Option {
	return func(a *app) {
		if in != nil {
			a.in = in
		}
		if out != nil {
			a.out = out
		}
		if errOut != nil {
			a.errOut = errOut
		}
	}
}

// WithLoggerProvider bypasses the logging section of the configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(a *app) {
		a.loggerProvider = provider
	}
}

// NewRootCmd builds the metagen command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{
		format: "json",
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:   "metagen",
		Short: "Extract and derive metadata from document frontmatter",
		Long: `metagen reads the YAML (---), TOML (+++) or JSON (;;; or {...}) header of
Markdown documents, validates it, and derives keywords and HTML meta tags.

Paths may be a single file, a directory (processed recursively) or "-" for stdin.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(validOutputFormats, a.format) {
				return fmt.Errorf("invalid output format: %s (valid: %v)", a.format, validOutputFormats)
			}
			return nil
		},
	}
	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Path to a YAML, TOML or JSON config file")
	flags.StringVarP(&a.format, "format", "f", a.format, "Output format: json, yaml or toml")
	flags.StringVar(&a.notations, "notations", "", "Comma separated header notations to detect, in priority order")
	flags.StringVar(&a.logProvider, "log-provider", "", "Logging provider: console or gologger")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format: text or json (gologger also accepts console, pretty)")

	root.AddCommand(
		newExtractCmd(a),
		newValidateCmd(a),
		newKeywordsCmd(a),
		newTagsCmd(a),
		newScanCmd(a),
		newWatchCmd(a),
	)
	return root
}

// Execute runs the root command with the process streams.
func Execute() error {
	return NewRootCmd().Execute()
}

// build constructs the module on first use. extra adjusts bootstrap options
// for a single subcommand.
func (a *app) build(extra func(*bootstrap.Options)) (*bootstrap.Module, error) {
	if a.module != nil {
		return a.module, nil
	}
	opts := bootstrap.Options{
		ConfigPath:     a.configPath,
		Notations:      bootstrap.SplitList(a.notations),
		LogProvider:    a.logProvider,
		LogLevel:       a.logLevel,
		LogFormat:      a.logFormat,
		LoggerProvider: a.loggerProvider,
	}
	if extra != nil {
		extra(&opts)
	}
	module, err := bootstrap.BuildModule(opts)
	if err != nil {
		return nil, err
	}
	a.module = module
	return module, nil
}
