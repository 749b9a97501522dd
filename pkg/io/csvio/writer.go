package csvio

import (
	"encoding/csv"
	"io"
	"strconv"

	iox "github.com/wdm0006/layoffs/pkg/io/ioutils"
	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// DefaultTimeLayout renders time cells as calendar dates.
const DefaultTimeLayout = "2006-01-02"

type WriterOptions struct {
	Delimiter  rune   // default ','
	TimeLayout string // default DefaultTimeLayout
	NullText   string // written for null cells; default ""
}

// WriteAll writes a Frame to a CSV file with headers. A .gz path is
// compressed; "-" writes to stdout.
func WriteAll(path string, f *j.Frame, opt WriterOptions) error {
	out, err := iox.CreateMaybeCompressed(path)
	if err != nil {
		return err
	}
	if err := Write(out, f, opt); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// Write writes f to w with a header row.
func Write(w io.Writer, f *j.Frame, opt WriterOptions) error {
	cw := csv.NewWriter(w)
	if opt.Delimiter != 0 {
		cw.Comma = opt.Delimiter
	}
	layout := opt.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}

	schema := f.Schema()
	if err := cw.Write(schema.Names()); err != nil {
		return err
	}
	cols := make([]j.Column, len(schema.Columns))
	for i, cs := range schema.Columns {
		cols[i], _ = f.ColumnByName(cs.Name)
	}
	row := make([]string, len(cols))
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			row[c] = opt.NullText
			switch col := col.(type) {
			case *j.FloatColumn:
				if v, ok := col.Get(r); ok {
					row[c] = strconv.FormatFloat(v, 'f', -1, 64)
				}
			case *j.IntColumn:
				if v, ok := col.Get(r); ok {
					row[c] = strconv.FormatInt(v, 10)
				}
			case *j.BoolColumn:
				if v, ok := col.Get(r); ok {
					row[c] = strconv.FormatBool(v)
				}
			case *j.StringColumn:
				if v, ok := col.Get(r); ok {
					row[c] = v
				}
			case *j.TimeColumn:
				if v, ok := col.Get(r); ok {
					row[c] = v.Format(layout)
				}
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
