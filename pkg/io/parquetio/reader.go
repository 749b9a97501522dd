// Package parquetio reads raw tables from Parquet files and writes frames
// back out as Parquet.
package parquetio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	parquet "github.com/segmentio/parquet-go"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// ReadRaw reads every row of a flat Parquet file into a frame of string
// columns named after the leaf columns. Null values stay null; everything
// else is rendered as text.
func ReadRaw(path string) (*j.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()
	st, err := file.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(file, st.Size())
	if err != nil {
		return nil, fmt.Errorf("parquet open %s: %w", path, err)
	}
	paths := pf.Schema().Columns()
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = strings.Join(p, ".")
	}
	f, err := j.NewStringFrame(names)
	if err != nil {
		return nil, err
	}
	buf := make([]parquet.Row, 256)
	for _, rg := range pf.RowGroups() {
		if err := readGroup(rg, f, names, buf); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func readGroup(rg parquet.RowGroup, f *j.Frame, names []string, buf []parquet.Row) error {
	rows := rg.Rows()
	defer func() { _ = rows.Close() }()
	for {
		n, err := rows.ReadRows(buf)
		for _, row := range buf[:n] {
			f.AppendNullRow()
			r := f.Rows() - 1
			for _, v := range row {
				c := v.Column()
				if c < 0 || c >= len(names) || v.IsNull() {
					continue
				}
				_ = f.SetCell(r, names[c], text(v))
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
	}
}

func text(v parquet.Value) string {
	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Float:
		return strconv.FormatFloat(float64(v.Float()), 'f', -1, 32)
	case parquet.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64)
	case parquet.ByteArray, parquet.FixedLenByteArray:
		return string(v.ByteArray())
	default:
		return v.String()
	}
}
