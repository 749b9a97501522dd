package profile

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

func sample(t *testing.T) *j.Frame {
	t.Helper()
	f := j.NewFrame(j.Schema{Columns: []j.ColumnSchema{
		{Name: "company", Type: j.KindString, Nullable: true},
		{Name: "total", Type: j.KindInt, Nullable: true},
		{Name: "pct", Type: j.KindFloat, Nullable: true},
		{Name: "date", Type: j.KindTime, Nullable: true},
	}})
	rows := [][]any{
		{"Acme", int64(10), 0.5, time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"Acme", int64(30), nil, time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC)},
		{" ", nil, nil, nil},
		{nil, int64(20), 0.25, nil},
	}
	for r, row := range rows {
		f.AppendNullRow()
		for c, v := range row {
			require.NoError(t, f.SetCell(r, f.Schema().Columns[c].Name, v))
		}
	}
	return f
}

func TestProfileColumns(t *testing.T) {
	c := Profile(sample(t), 1)
	assert.Equal(t, 4, c.Rows())
	cols := c.Columns()
	require.Len(t, cols, 4)

	str := cols[0].Str
	assert.Equal(t, 3, str.Count)
	assert.Equal(t, 1, str.Nulls)
	assert.Equal(t, 1, str.Blank)
	assert.Equal(t, []ValueCount{{"Acme", 2}}, str.Top(1))

	num := cols[1].Num
	assert.Equal(t, 3, num.Count)
	assert.Equal(t, 10.0, num.Min)
	assert.Equal(t, 30.0, num.Max)
	assert.Equal(t, 20.0, num.Mean())

	assert.Equal(t, 2, cols[2].Num.Nulls)

	tm := cols[3].Time
	assert.Equal(t, 2, tm.Count)
	assert.Equal(t, time.Date(2022, 12, 1, 0, 0, 0, 0, time.UTC), tm.Min)
	assert.Equal(t, time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC), tm.Max)
}

func TestTopBreaksTiesByValue(t *testing.T) {
	s := &StringStats{Freqs: map[string]int{"b": 2, "a": 2, "c": 5}}
	assert.Equal(t, []ValueCount{{"c", 5}, {"a", 2}, {"b", 2}}, s.Top(0))
	assert.Len(t, s.Top(2), 2)
}

func TestReportText(t *testing.T) {
	text := Profile(sample(t), 2).ReportText()
	assert.Contains(t, text, "Profile Summary (4 rows)")
	assert.Contains(t, text, "- total (int): count=3 nulls=1 min=10 max=30 mean=20")
	assert.Contains(t, text, "- date (time): count=2 nulls=2 min=2022-12-01 max=2023-03-09")
	assert.Contains(t, text, `* "Acme": 2`)
}

func TestReportJSONAllNull(t *testing.T) {
	f := j.NewFrame(j.Schema{Columns: []j.ColumnSchema{{Name: "x", Type: j.KindFloat, Nullable: true}}})
	f.AppendNullRow()
	rep := Profile(f, 0).ReportJSON()
	b, err := json.Marshal(rep)
	require.NoError(t, err, "an empty range must not produce Inf")
	assert.JSONEq(t, `{"rows":1,"columns":[{"name":"x","kind":"float","num":{"count":0,"nulls":1}}]}`, string(b))
}

func TestConsumeFrameSkipsKindChanges(t *testing.T) {
	c := NewCollector(sample(t).Schema(), 0)
	other, err := j.NewStringFrame([]string{"total"})
	require.NoError(t, err)
	other.AppendNullRow()
	c.ConsumeFrame(other)
	assert.Equal(t, 0, c.Columns()[1].Num.Nulls)
	assert.Equal(t, 1, c.Rows())
}
