package jsonlio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

func cell(t *testing.T, f *j.Frame, row int, name string) (string, bool) {
	t.Helper()
	col, ok := f.ColumnByName(name)
	require.True(t, ok, name)
	return col.(*j.StringColumn).Get(row)
}

func TestReadRaw(t *testing.T) {
	in := `{"company":"Acme","industry":"","total_laid_off":100,"percentage_laid_off":null}
{"company":"Beta","industry":"Retail","total_laid_off":"NULL","percentage_laid_off":0.25,"remote":true}
`
	f, err := NewReaderFrom(strings.NewReader(in), ReaderOptions{}).ReadRaw()
	require.NoError(t, err)
	require.Equal(t, 2, f.Rows())
	assert.Equal(t, []string{"company", "industry", "percentage_laid_off", "remote", "total_laid_off"}, f.Schema().Names())

	v, ok := cell(t, f, 0, "industry")
	assert.True(t, ok)
	assert.Equal(t, "", v)
	v, _ = cell(t, f, 0, "total_laid_off")
	assert.Equal(t, "100", v)
	_, ok = cell(t, f, 0, "percentage_laid_off")
	assert.False(t, ok, "json null")
	_, ok = cell(t, f, 0, "remote")
	assert.False(t, ok, "missing key")

	v, _ = cell(t, f, 1, "total_laid_off")
	assert.Equal(t, "NULL", v)
	v, _ = cell(t, f, 1, "remote")
	assert.Equal(t, "true", v)
}

func TestReadRawBadObject(t *testing.T) {
	_, err := NewReaderFrom(strings.NewReader("{\"a\":1}\n{oops}\n"), ReaderOptions{}).ReadRaw()
	assert.ErrorContains(t, err, "jsonl object 2")
}

func TestInferAndRead(t *testing.T) {
	in := "{\"n\":1,\"x\":0.5,\"s\":\"a\"}\n{\"n\":2,\"x\":1,\"s\":\"b\"}\n{\"n\":3,\"s\":\"c\"}\n"
	r := NewReaderFrom(strings.NewReader(in), ReaderOptions{SampleRows: 2})
	schema, err := r.InferSchema()
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "s", "x"}, schema.Names())
	assert.Equal(t, j.KindInt, schema.Columns[0].Type)
	assert.Equal(t, j.KindFloat, schema.Columns[2].Type)

	f, err := r.ReadAll(schema)
	require.NoError(t, err)
	require.Equal(t, 3, f.Rows(), "sampled rows and the rest")
	col, _ := f.ColumnByName("x")
	assert.True(t, col.IsNull(2))
}

func TestWriteThenReadRaw(t *testing.T) {
	f := j.NewFrame(j.Schema{Columns: []j.ColumnSchema{
		{Name: "company", Type: j.KindString},
		{Name: "date", Type: j.KindTime},
		{Name: "total", Type: j.KindInt},
	}})
	f.AppendNullRow()
	require.NoError(t, f.SetCell(0, "company", "Acme"))
	require.NoError(t, f.SetCell(0, "date", time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC)))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, WriterOptions{}))
	assert.Equal(t, "{\"company\":\"Acme\",\"date\":\"2023-03-09\",\"total\":null}\n", buf.String())

	path := filepath.Join(t.TempDir(), "out.jsonl")
	require.NoError(t, WriteAll(path, f, WriterOptions{TimeLayout: "1/2/2006"}))
	r, c, err := Open(path, ReaderOptions{})
	require.NoError(t, err)
	defer c.Close()
	back, err := r.ReadRaw()
	require.NoError(t, err)
	v, _ := cell(t, back, 0, "date")
	assert.Equal(t, "3/9/2023", v)
	_, ok := cell(t, back, 0, "total")
	assert.False(t, ok)
}
