// Package xlsxio reads raw tables from spreadsheets and writes frames to
// a single-sheet workbook.
package xlsxio

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// ReadRaw loads a sheet (the first one when sheet is "") into a frame of
// string columns. The first row is the header. An empty cell is the blank
// string, since a spreadsheet cannot tell empty from missing; rows with no
// cells at all are skipped.
func ReadRaw(path, sheet string) (*j.Frame, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = wb.Close() }()
	if sheet == "" {
		sheet = wb.GetSheetName(0)
	}
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return j.NewStringFrame(nil)
	}
	names := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		names[i] = strings.TrimPrefix(h, "\ufeff")
	}
	f, err := j.NewStringFrame(names)
	if err != nil {
		return nil, err
	}
	for _, rec := range rows[1:] {
		if len(rec) == 0 {
			continue
		}
		f.AppendNullRow()
		r := f.Rows() - 1
		for i, name := range names {
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			_ = f.SetCell(r, name, v)
		}
	}
	return f, nil
}

type WriterOptions struct {
	Sheet      string // default "Sheet1"
	TimeLayout string // default "2006-01-02"
}

// WriteAll writes f to a new workbook with a header row. Null cells are
// left empty; numbers are stored as numbers.
func WriteAll(path string, f *j.Frame, opt WriterOptions) error {
	if opt.Sheet == "" {
		opt.Sheet = "Sheet1"
	}
	if opt.TimeLayout == "" {
		opt.TimeLayout = "2006-01-02"
	}
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()
	if err := wb.SetSheetName(wb.GetSheetName(0), opt.Sheet); err != nil {
		return err
	}
	schema := f.Schema()
	header := make([]any, len(schema.Columns))
	cols := make([]j.Column, len(schema.Columns))
	for i, cs := range schema.Columns {
		header[i] = cs.Name
		cols[i], _ = f.ColumnByName(cs.Name)
	}
	if err := wb.SetSheetRow(opt.Sheet, "A1", &header); err != nil {
		return err
	}
	for r := 0; r < f.Rows(); r++ {
		for c, col := range cols {
			if col.IsNull(r) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			var v any
			switch col := col.(type) {
			case *j.FloatColumn:
				v, _ = col.Get(r)
			case *j.IntColumn:
				v, _ = col.Get(r)
			case *j.BoolColumn:
				v, _ = col.Get(r)
			case *j.StringColumn:
				v, _ = col.Get(r)
			case *j.TimeColumn:
				t, _ := col.Get(r)
				v = t.Format(opt.TimeLayout)
			}
			if err := wb.SetCellValue(opt.Sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return wb.SaveAs(path)
}
