package layoffs

import (
	"fmt"
	"strings"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

const (
	ColCompany             = "company"
	ColLocation            = "location"
	ColIndustry            = "industry"
	ColTotalLaidOff        = "total_laid_off"
	ColPercentageLaidOff   = "percentage_laid_off"
	ColDate                = "date"
	ColStage               = "stage"
	ColCountry             = "country"
	ColFundsRaisedMillions = "funds_raised_millions"

	// ColRowNum holds the duplicate rank between staging and reconciliation.
	ColRowNum = "row_num"
)

// BusinessFields are the nine columns that define row identity.
var BusinessFields = []string{
	ColCompany, ColLocation, ColIndustry, ColTotalLaidOff, ColPercentageLaidOff,
	ColDate, ColStage, ColCountry, ColFundsRaisedMillions,
}

// TextFields are the business fields that stay strings after cleaning.
var TextFields = []string{ColCompany, ColLocation, ColIndustry, ColStage, ColCountry}

// RawSchema is the schema of a raw table: every business field as text.
func RawSchema() j.Schema {
	s := j.Schema{Columns: make([]j.ColumnSchema, len(BusinessFields))}
	for i, n := range BusinessFields {
		s.Columns[i] = j.ColumnSchema{Name: n, Type: j.KindString, Nullable: true}
	}
	return s
}

// RawRecord is one record as the loader delivered it. A nil field is an
// explicit absence; every other value is kept verbatim, "" and "NULL"
// included.
type RawRecord struct {
	Company             *string
	Location            *string
	Industry            *string
	TotalLaidOff        *string
	PercentageLaidOff   *string
	Date                *string
	Stage               *string
	Country             *string
	FundsRaisedMillions *string
}

// Text returns a pointer to s, for building RawRecords.
func Text(s string) *string { return &s }

func (r RawRecord) cells() []*string {
	return []*string{
		r.Company, r.Location, r.Industry, r.TotalLaidOff, r.PercentageLaidOff,
		r.Date, r.Stage, r.Country, r.FundsRaisedMillions,
	}
}

// RawTable is the stage-one input. It is never modified by the pipeline.
type RawTable struct {
	f *j.Frame
}

// NewRawTable copies records into a raw table.
func NewRawTable(records []RawRecord) RawTable {
	f := j.NewFrame(RawSchema())
	for row, rec := range records {
		f.AppendNullRow()
		for i, v := range rec.cells() {
			if v != nil {
				_ = f.SetCell(row, BusinessFields[i], *v)
			}
		}
	}
	return RawTable{f: f}
}

// RawFromFrame projects a loaded frame onto the nine business fields.
// Header names are matched case-insensitively after trimming; columns other
// than the business fields are ignored. Every business field must be present
// and hold text.
func RawFromFrame(f *j.Frame) (RawTable, error) {
	byName := make(map[string]string, f.Cols())
	for _, cs := range f.Schema().Columns {
		byName[normalizeHeader(cs.Name)] = cs.Name
	}
	out := j.NewFrame(RawSchema())
	for r := 0; r < f.Rows(); r++ {
		out.AppendNullRow()
	}
	for _, want := range BusinessFields {
		src, ok := byName[want]
		if !ok {
			return RawTable{}, fmt.Errorf("%w: missing column %q", ErrSchema, want)
		}
		col, _ := f.ColumnByName(src)
		sc, ok := col.(*j.StringColumn)
		if !ok {
			return RawTable{}, fmt.Errorf("%w: column %q is %v, want string", ErrSchema, src, col.Kind())
		}
		for r := 0; r < sc.Len(); r++ {
			if v, ok := sc.Get(r); ok {
				_ = out.SetCell(r, want, v)
			}
		}
	}
	return RawTable{f: out}, nil
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

// Len reports the number of raw records.
func (t RawTable) Len() int {
	if t.f == nil {
		return 0
	}
	return t.f.Rows()
}

// Frame returns a copy of the raw table.
func (t RawTable) Frame() *j.Frame { return t.frame().Clone() }

func (t RawTable) frame() *j.Frame {
	if t.f == nil {
		return j.NewFrame(RawSchema())
	}
	return t.f
}
