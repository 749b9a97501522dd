package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/wdm0006/layoffs/pkg/config"
	"github.com/wdm0006/layoffs/pkg/io/csvio"
	"github.com/wdm0006/layoffs/pkg/io/jsonlio"
	"github.com/wdm0006/layoffs/pkg/io/parquetio"
	"github.com/wdm0006/layoffs/pkg/io/sqliteio"
	"github.com/wdm0006/layoffs/pkg/io/xlsxio"
	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// readFrame loads path as untyped text columns.
func readFrame(in config.InputConfig, log *zap.Logger) (*j.Frame, error) {
	switch in.Type {
	case "csv":
		r, closer, err := csvio.Open(in.Path, csvio.ReaderOptions{HasHeader: true, Delimiter: config.Delimiter(in.Delimiter)})
		if err != nil {
			return nil, err
		}
		defer closer.Close()
		f, err := r.ReadRaw()
		if err != nil {
			return nil, err
		}
		if w := r.Warnings(); w != "" {
			log.Warn("repaired ragged records", zap.String("path", in.Path), zap.String("repairs", w))
		}
		return f, nil
	case "jsonl":
		r, closer, err := jsonlio.Open(in.Path, jsonlio.ReaderOptions{})
		if err != nil {
			return nil, err
		}
		defer closer.Close()
		return r.ReadRaw()
	case "xlsx":
		return xlsxio.ReadRaw(in.Path, in.Sheet)
	case "parquet":
		return parquetio.ReadRaw(in.Path)
	default:
		return nil, fmt.Errorf("unsupported input type %q", in.Type)
	}
}

// readTypedFrame reads csv or jsonl with column kinds inferred from a
// sample of rows.
func readTypedFrame(in config.InputConfig, _ *zap.Logger) (*j.Frame, error) {
	switch in.Type {
	case "csv":
		r, closer, err := csvio.Open(in.Path, csvio.ReaderOptions{HasHeader: true, Delimiter: config.Delimiter(in.Delimiter)})
		if err != nil {
			return nil, err
		}
		defer closer.Close()
		schema, _, err := r.InferSchema()
		if err != nil {
			return nil, err
		}
		return r.ReadAll(schema)
	case "jsonl":
		r, closer, err := jsonlio.Open(in.Path, jsonlio.ReaderOptions{})
		if err != nil {
			return nil, err
		}
		defer closer.Close()
		schema, err := r.InferSchema()
		if err != nil {
			return nil, err
		}
		return r.ReadAll(schema)
	default:
		return nil, fmt.Errorf("typed read of %q input is not supported", in.Type)
	}
}

// writeFrame writes f to a file sink with dates in dateLayout. The sqlite
// sink is handled by publish since it also records the run.
func writeFrame(out config.OutputConfig, f *j.Frame, dateLayout string) error {
	switch out.Type {
	case "csv":
		return csvio.WriteAll(out.Path, f, csvio.WriterOptions{Delimiter: config.Delimiter(out.Delimiter), TimeLayout: dateLayout})
	case "jsonl":
		return jsonlio.WriteAll(out.Path, f, jsonlio.WriterOptions{TimeLayout: dateLayout})
	case "xlsx":
		return xlsxio.WriteAll(out.Path, f, xlsxio.WriterOptions{TimeLayout: dateLayout})
	case "parquet":
		return parquetio.WriteAll(out.Path, f, parquetio.WriterOptions{TimeLayout: dateLayout})
	default:
		return fmt.Errorf("unsupported output type %q", out.Type)
	}
}

// publish replaces the configured table with f and records the run
// counters next to it.
func publish(ctx context.Context, out config.OutputConfig, f *j.Frame, runID string, counts map[string]int, at time.Time, log *zap.Logger) error {
	store, err := sqliteio.Open(out.Path, log)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Publish(ctx, out.Table, f); err != nil {
		return err
	}
	return store.RecordRun(ctx, runID, out.Table, counts, at)
}
