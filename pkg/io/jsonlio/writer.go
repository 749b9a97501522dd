package jsonlio

import (
	"encoding/json"
	"io"

	iox "github.com/wdm0006/layoffs/pkg/io/ioutils"
	j "github.com/wdm0006/layoffs/pkg/janitor"
)

type WriterOptions struct {
	TimeLayout string // default "2006-01-02"
}

// WriteAll writes one JSON object per row to path.
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

// Write encodes every row of f as an object with a key per column. Null
// cells are written as JSON null.
func Write(w io.Writer, f *j.Frame, opt WriterOptions) error {
	layout := opt.TimeLayout
	if layout == "" {
		layout = "2006-01-02"
	}
	enc := json.NewEncoder(w)
	schema := f.Schema()
	for r := 0; r < f.Rows(); r++ {
		m := make(map[string]any, len(schema.Columns))
		for _, cs := range schema.Columns {
			col, _ := f.ColumnByName(cs.Name)
			m[cs.Name] = nil
			switch c := col.(type) {
			case *j.FloatColumn:
				if v, ok := c.Get(r); ok {
					m[cs.Name] = v
				}
			case *j.IntColumn:
				if v, ok := c.Get(r); ok {
					m[cs.Name] = v
				}
			case *j.BoolColumn:
				if v, ok := c.Get(r); ok {
					m[cs.Name] = v
				}
			case *j.StringColumn:
				if v, ok := c.Get(r); ok {
					m[cs.Name] = v
				}
			case *j.TimeColumn:
				if v, ok := c.Get(r); ok {
					m[cs.Name] = v.Format(layout)
				}
			}
		}
		if err := enc.Encode(m); err != nil {
			return err
		}
	}
	return nil
}
