package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wdm0006/layoffs/pkg/config"
	iox "github.com/wdm0006/layoffs/pkg/io/ioutils"
	"github.com/wdm0006/layoffs/pkg/layoffs"
	"github.com/wdm0006/layoffs/pkg/layoffs/layoffstest"
)

func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		rows int
		out  string
		gen  = layoffstest.DefaultOptions
	)
	cmd := &cobra.Command{
		Use:   "generate --rows N --out <file>",
		Short: "Write a synthetic messy raw dataset",
		Long: `Write raw layoff records with exact duplicates, Crypto industry
variants, "United States." countries, blanks, NULL spellings, bad dates and
out-of-range numbers. The output type follows the file extension; jsonl
keeps absent fields as null, csv writes them empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows < 0 {
				return NewExitError(ExitCommandError, "--rows must not be negative")
			}
			o := config.OutputConfig{Path: out, Type: iox.Format(out)}
			if o.Type == "" {
				o.Type = "csv"
			}
			raw := layoffs.NewRawTable(layoffstest.Generate(rows, gen))
			if err := writeFrame(o, raw.Frame(), ""); err != nil {
				return WrapExitError(ExitCommandError, "write output", err)
			}
			if out != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", rows, out)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&rows, "rows", 1000, "number of records")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file (csv, jsonl, xlsx, parquet; .gz for compressed csv/jsonl); - for stdout")
	cmd.Flags().Int64Var(&gen.Seed, "seed", gen.Seed, "random seed")
	cmd.Flags().Float64Var(&gen.Duplicate, "duplicates", gen.Duplicate, "chance a record repeats an earlier one")
	cmd.Flags().Float64Var(&gen.Absent, "absent", gen.Absent, "chance a field is absent")
	return cmd
}
