package layoffs

import (
	"database/sql"
	"strconv"
	"time"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// Record is one row of the clean table. An invalid field means the value
// was not reported.
type Record struct {
	Company             sql.Null[string]
	Location            sql.Null[string]
	Industry            sql.Null[string]
	TotalLaidOff        sql.Null[int64]
	PercentageLaidOff   sql.Null[float64]
	Date                sql.Null[time.Time]
	Stage               sql.Null[string]
	Country             sql.Null[string]
	FundsRaisedMillions sql.Null[float64]
}

// CleanTable is the output of Reconcile.
type CleanTable struct {
	f      *j.Frame
	counts map[string]int
	layout string
}

func (t CleanTable) Len() int {
	if t.f == nil {
		return 0
	}
	return t.f.Rows()
}

// Frame returns a copy of the clean table. Text fields are strings, the
// date a time column, total_laid_off an int column and the other two
// metrics float columns.
func (t CleanTable) Frame() *j.Frame {
	if t.f == nil {
		return j.NewFrame(CleanSchema())
	}
	return t.f.Clone()
}

// Counts returns the reconciliation counters.
func (t CleanTable) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// CleanSchema is the schema every clean table has.
func CleanSchema() j.Schema {
	kinds := map[string]j.Kind{
		ColTotalLaidOff:        j.KindInt,
		ColPercentageLaidOff:   j.KindFloat,
		ColDate:                j.KindTime,
		ColFundsRaisedMillions: j.KindFloat,
	}
	s := j.Schema{Columns: make([]j.ColumnSchema, len(BusinessFields))}
	for i, n := range BusinessFields {
		k, ok := kinds[n]
		if !ok {
			k = j.KindString
		}
		s.Columns[i] = j.ColumnSchema{Name: n, Type: k, Nullable: true}
	}
	return s
}

func nullString(c j.Column, r int) sql.Null[string] {
	if sc, ok := c.(*j.StringColumn); ok {
		v, ok := sc.Get(r)
		return sql.Null[string]{V: v, Valid: ok}
	}
	return sql.Null[string]{}
}

// Records returns the clean rows in order.
func (t CleanTable) Records() []Record {
	if t.f == nil {
		return nil
	}
	cols := make(map[string]j.Column, len(BusinessFields))
	for _, n := range BusinessFields {
		cols[n], _ = t.f.ColumnByName(n)
	}
	out := make([]Record, t.f.Rows())
	for r := range out {
		rec := Record{
			Company:  nullString(cols[ColCompany], r),
			Location: nullString(cols[ColLocation], r),
			Industry: nullString(cols[ColIndustry], r),
			Stage:    nullString(cols[ColStage], r),
			Country:  nullString(cols[ColCountry], r),
		}
		if c, ok := cols[ColTotalLaidOff].(*j.IntColumn); ok {
			v, ok := c.Get(r)
			rec.TotalLaidOff = sql.Null[int64]{V: v, Valid: ok}
		}
		if c, ok := cols[ColPercentageLaidOff].(*j.FloatColumn); ok {
			v, ok := c.Get(r)
			rec.PercentageLaidOff = sql.Null[float64]{V: v, Valid: ok}
		}
		if c, ok := cols[ColDate].(*j.TimeColumn); ok {
			v, ok := c.Get(r)
			rec.Date = sql.Null[time.Time]{V: v, Valid: ok}
		}
		if c, ok := cols[ColFundsRaisedMillions].(*j.FloatColumn); ok {
			v, ok := c.Get(r)
			rec.FundsRaisedMillions = sql.Null[float64]{V: v, Valid: ok}
		}
		out[r] = rec
	}
	return out
}

// DateLayout is the layout the date field was parsed with. Writing dates
// in it keeps a written table cleanable again.
func (t CleanTable) DateLayout() string {
	if t.layout == "" {
		return Options{}.dateLayout()
	}
	return t.layout
}

// RawRecords renders the clean rows back into raw form: dates in the layout
// they were parsed with, numbers in their shortest decimal form, absence as
// nil. Feeding the result through the pipeline again reproduces the table.
func (t CleanTable) RawRecords() []RawRecord {
	layout := t.DateLayout()
	text := func(n sql.Null[string]) *string {
		if !n.Valid {
			return nil
		}
		return Text(n.V)
	}
	recs := t.Records()
	out := make([]RawRecord, len(recs))
	for i, r := range recs {
		raw := RawRecord{
			Company:  text(r.Company),
			Location: text(r.Location),
			Industry: text(r.Industry),
			Stage:    text(r.Stage),
			Country:  text(r.Country),
		}
		if r.TotalLaidOff.Valid {
			raw.TotalLaidOff = Text(strconv.FormatInt(r.TotalLaidOff.V, 10))
		}
		if r.PercentageLaidOff.Valid {
			raw.PercentageLaidOff = Text(strconv.FormatFloat(r.PercentageLaidOff.V, 'f', -1, 64))
		}
		if r.Date.Valid {
			raw.Date = Text(r.Date.V.Format(layout))
		}
		if r.FundsRaisedMillions.Valid {
			raw.FundsRaisedMillions = Text(strconv.FormatFloat(r.FundsRaisedMillions.V, 'f', -1, 64))
		}
		out[i] = raw
	}
	return out
}
