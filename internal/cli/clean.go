package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wdm0006/layoffs/pkg/config"
	"github.com/wdm0006/layoffs/pkg/layoffs"
	"github.com/wdm0006/layoffs/pkg/metrics"
)

type cleanOptions struct {
	configPath string
	envFiles   []string
}

func NewCleanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &cleanOptions{}
	cmd := &cobra.Command{
		Use:   "clean --config <file>",
		Short: "Run the four cleaning stages over a raw dataset",
		Long: `Load the raw dataset named in the config, stage it, remove exact
duplicates, standardize fields, reconcile blanks and missing industries,
then write the clean table and print a run report.

Exit status is 1 when a stage fails and 2 for configuration or
I/O problems.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, rootOpts, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "cleaning config (json, toml or yaml)")
	cmd.Flags().StringSliceVar(&opts.envFiles, "env-file", nil, "dotenv files to load before applying LAYOFFS_* overrides (default .env)")
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func runClean(cmd *cobra.Command, rootOpts *RootOptions, opts *cleanOptions) error {
	ctx := cmd.Context()
	cfg, err := config.Load(opts.configPath, opts.envFiles...)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	log, err := rootOpts.logger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	f, err := readFrame(cfg.Input, log)
	if err != nil {
		return WrapExitError(ExitCommandError, "read input", err)
	}
	raw, err := layoffs.RawFromFrame(f)
	if err != nil {
		return WrapExitError(ExitCommandError, "read input", err)
	}
	log.Debug("input loaded", zap.String("path", cfg.Input.Path), zap.String("type", cfg.Input.Type), zap.Int("rows", raw.Len()))

	cleanerOpts, err := cfg.CleanerOptions(log)
	if err != nil {
		return WrapExitError(ExitCommandError, "build rules", err)
	}
	clean, rep, err := layoffs.NewCleaner(cleanerOpts...).Run(ctx, raw)
	if err != nil {
		return WrapExitError(ExitFailure, "cleaning failed", err)
	}

	if cfg.Output.Type == "sqlite" {
		err = publish(ctx, cfg.Output, clean.Frame(), rep.RunID, rep.Counts(), rep.StartedAt, log)
	} else {
		err = writeFrame(cfg.Output, clean.Frame(), clean.DateLayout())
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "write output", err)
	}
	log.Info("output written", zap.String("path", cfg.Output.Path), zap.String("type", cfg.Output.Type), zap.Int("rows", clean.Len()))

	if cfg.Metrics.Textfile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(rep)
		if err := rec.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			return WrapExitError(ExitCommandError, "write metrics", err)
		}
	}
	return writeOutput(cmd.OutOrStdout(), rootOpts.Format, rep, rep.Text)
}
