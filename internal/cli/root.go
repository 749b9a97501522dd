// Package cli implements the layoffs command line tool.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wdm0006/layoffs/pkg/logging"
)

// Version is set at build time with -ldflags "-X".
var Version = "0.1.0-dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose   bool
	Format    string // "json" | "text"
	LogLevel  string
	LogFormat string
}

var ValidFormats = []string{"text", "json"}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "layoffs",
		Short: "Clean raw layoff-event datasets",
		Long: `layoffs stages, deduplicates, standardizes and reconciles raw
layoff-event records into an analysis-ready table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "report format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level, overrides the config file")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (json|console), overrides the config file")

	cmd.AddCommand(NewCleanCommand(opts))
	cmd.AddCommand(NewProfileCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewVersionCommand())
	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// logger builds the process logger. Flags win over the config values.
func (o *RootOptions) logger(level, format string) (*zap.Logger, error) {
	if o.LogLevel != "" {
		level = o.LogLevel
	}
	if o.LogFormat != "" {
		format = o.LogFormat
	}
	if o.Verbose {
		level = "debug"
	}
	log, err := logging.New(level, format)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configure logging", err)
	}
	return log, nil
}

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "layoffs", Version)
		},
	}
}
