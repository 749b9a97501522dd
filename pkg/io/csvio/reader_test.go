package csvio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

func cell(t *testing.T, f *j.Frame, row int, name string) (string, bool) {
	t.Helper()
	col, ok := f.ColumnByName(name)
	require.True(t, ok, name)
	sc, ok := col.(*j.StringColumn)
	require.True(t, ok, name)
	return sc.Get(row)
}

func TestReadRawKeepsCellsVerbatim(t *testing.T) {
	r, c, err := Open("testdata/layoffs_raw.csv", ReaderOptions{HasHeader: true})
	require.NoError(t, err)
	defer c.Close()

	f, err := r.ReadRaw()
	require.NoError(t, err)
	require.Equal(t, 3, f.Rows())
	assert.Equal(t, "company", f.Schema().Columns[0].Name, "BOM stripped")

	v, ok := cell(t, f, 0, "company")
	assert.True(t, ok)
	assert.Equal(t, " Acme", v)

	v, ok = cell(t, f, 0, "industry")
	assert.True(t, ok, "blank is a value, not null")
	assert.Equal(t, "", v)

	v, _ = cell(t, f, 0, "percentage_laid_off")
	assert.Equal(t, "NULL", v)

	_, ok = cell(t, f, 2, "funds_raised_millions")
	assert.False(t, ok, "missing trailing field is null")
	assert.Equal(t, map[string]int{"short_records": 1, "long_records": 0}, r.Counts())
	assert.Equal(t, "short_records=1", r.Warnings())
}

func TestReadRawStrict(t *testing.T) {
	r := NewReaderFrom(strings.NewReader("a,b\n1,2,3\n"), ReaderOptions{HasHeader: true, Strict: true})
	_, err := r.ReadRaw()
	assert.ErrorContains(t, err, "long record at line 2")
}

func TestReadRawEmptyInput(t *testing.T) {
	f, err := NewReaderFrom(strings.NewReader(""), ReaderOptions{}).ReadRaw()
	require.NoError(t, err)
	assert.Equal(t, 0, f.Rows())
	assert.Equal(t, 0, f.Cols())
}

func TestReadRawDuplicateHeader(t *testing.T) {
	_, err := NewReaderFrom(strings.NewReader("a,a\n1,2\n"), ReaderOptions{}).ReadRaw()
	assert.ErrorContains(t, err, "duplicate column")
}

func TestSniffDelimiter(t *testing.T) {
	r := NewReaderFrom(strings.NewReader("company;industry\nAcme;Retail\n"), ReaderOptions{})
	f, err := r.ReadRaw()
	require.NoError(t, err)
	v, _ := cell(t, f, 0, "industry")
	assert.Equal(t, "Retail", v)
}

func TestInferAndRead(t *testing.T) {
	in := "company,total,pct,ok\nAcme,10,0.5,true\nBeta,,0.25,false\nGamma,7,1,\n"
	r := NewReaderFrom(strings.NewReader(in), ReaderOptions{HasHeader: true})
	schema, names, err := r.InferSchema()
	require.NoError(t, err)
	assert.Equal(t, []string{"company", "total", "pct", "ok"}, names)
	assert.Equal(t, j.KindString, schema.Columns[0].Type)
	assert.Equal(t, j.KindInt, schema.Columns[1].Type)
	assert.Equal(t, j.KindFloat, schema.Columns[2].Type)

	f, err := r.ReadAll(schema)
	require.NoError(t, err)
	require.Equal(t, 3, f.Rows())
	col, _ := f.ColumnByName("total")
	assert.True(t, col.IsNull(1))
	v, ok := col.(*j.IntColumn).Get(2)
	assert.True(t, ok)
	assert.Equal(t, int64(7), v)
}

func TestInferHeaderOnly(t *testing.T) {
	r := NewReaderFrom(strings.NewReader("a,b\n"), ReaderOptions{HasHeader: true})
	schema, _, err := r.InferSchema()
	require.NoError(t, err)
	f, err := r.ReadAll(schema)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Rows())
	assert.Equal(t, 2, f.Cols())
}
