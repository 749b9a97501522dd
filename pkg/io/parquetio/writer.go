package parquetio

import (
	"encoding/json"
	"fmt"

	local "github.com/xitongsys/parquet-go-source/local"
	pw "github.com/xitongsys/parquet-go/writer"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// DefaultTimeLayout is how time cells are stored; Parquet gets them as
// UTF8 text.
const DefaultTimeLayout = "2006-01-02"

type WriterOptions struct {
	TimeLayout string // default DefaultTimeLayout
}

func parquetSchemaJSON(s j.Schema) string {
	type field struct {
		Tag string `json:"Tag"`
	}
	type schema struct {
		Tag    string  `json:"Tag"`
		Fields []field `json:"Fields"`
	}
	sc := schema{Tag: "name=schema, repetitiontype=REQUIRED"}
	for _, cs := range s.Columns {
		tag := "name=" + cs.Name + ", repetitiontype=OPTIONAL, type="
		switch cs.Type {
		case j.KindFloat:
			tag += "DOUBLE"
		case j.KindInt:
			tag += "INT64"
		case j.KindBool:
			tag += "BOOLEAN"
		default:
			tag += "UTF8"
		}
		sc.Fields = append(sc.Fields, field{Tag: tag})
	}
	b, _ := json.Marshal(sc)
	return string(b)
}

// WriteAll writes a Frame to a Parquet file using the parquet-go JSONWriter.
// Null cells are omitted from the row, which stores them as null.
func WriteAll(path string, f *j.Frame, opt WriterOptions) (err error) {
	layout := opt.TimeLayout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	writer, err := pw.NewJSONWriter(parquetSchemaJSON(f.Schema()), fw, 4)
	if err != nil {
		_ = fw.Close()
		return fmt.Errorf("parquet writer init: %w", err)
	}
	defer func() {
		if serr := writer.WriteStop(); serr != nil && err == nil {
			err = fmt.Errorf("parquet write stop: %w", serr)
		}
		if cerr := fw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	schema := f.Schema()
	for r := 0; r < f.Rows(); r++ {
		rec := make(map[string]any, len(schema.Columns))
		for _, cs := range schema.Columns {
			col, _ := f.ColumnByName(cs.Name)
			switch c := col.(type) {
			case *j.FloatColumn:
				if v, ok := c.Get(r); ok {
					rec[cs.Name] = v
				}
			case *j.IntColumn:
				if v, ok := c.Get(r); ok {
					rec[cs.Name] = v
				}
			case *j.BoolColumn:
				if v, ok := c.Get(r); ok {
					rec[cs.Name] = v
				}
			case *j.StringColumn:
				if v, ok := c.Get(r); ok {
					rec[cs.Name] = v
				}
			case *j.TimeColumn:
				if v, ok := c.Get(r); ok {
					rec[cs.Name] = v.Format(layout)
				}
			}
		}
		line, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("parquet encode row %d: %w", r, err)
		}
		if err := writer.Write(string(line)); err != nil {
			return fmt.Errorf("parquet write row %d: %w", r, err)
		}
	}
	return nil
}
