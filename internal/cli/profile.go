package cli

import (
	"github.com/spf13/cobra"

	"github.com/wdm0006/layoffs/pkg/config"
	iox "github.com/wdm0006/layoffs/pkg/io/ioutils"
	"github.com/wdm0006/layoffs/pkg/profile"
)

func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		topK  int
		sheet string
		typed bool
	)
	cmd := &cobra.Command{
		Use:   "profile <file>",
		Short: "Summarize the columns of a raw dataset",
		Long: `Print per-column counts, nulls, blanks and the most frequent values
of a csv, jsonl, xlsx or parquet file. Cells are profiled as read, before
any cleaning. With --typed, csv and jsonl columns are read with inferred
int, float and bool kinds, which suits profiling a cleaned output file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := rootOpts.logger("", "")
			if err != nil {
				return err
			}
			in := config.InputConfig{Path: args[0], Type: iox.Format(args[0]), Sheet: sheet}
			if in.Type == "" {
				in.Type = "csv"
			}
			read := readFrame
			if typed {
				read = readTypedFrame
			}
			f, err := read(in, log)
			if err != nil {
				return WrapExitError(ExitCommandError, "read input", err)
			}
			p := profile.Profile(f, topK)
			return writeOutput(cmd.OutOrStdout(), rootOpts.Format, p.ReportJSON(), p.ReportText)
		},
	}
	cmd.Flags().IntVar(&topK, "top", 5, "most frequent values to show per text column (0 for none)")
	cmd.Flags().BoolVar(&typed, "typed", false, "infer column kinds (csv and jsonl only)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "xlsx sheet, default the first")
	return cmd
}
