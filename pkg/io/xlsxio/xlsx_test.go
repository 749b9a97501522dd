package xlsxio

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

func cell(t *testing.T, f *j.Frame, row int, name string) string {
	t.Helper()
	col, ok := f.ColumnByName(name)
	require.True(t, ok, name)
	v, ok := col.(*j.StringColumn).Get(row)
	require.True(t, ok)
	return v
}

func TestReadRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layoffs.xlsx")
	wb := excelize.NewFile()
	sheet := "Layoffs"
	require.NoError(t, wb.SetSheetName(wb.GetSheetName(0), sheet))
	require.NoError(t, wb.SetSheetRow(sheet, "A1", &[]any{"company", "industry", "country"}))
	require.NoError(t, wb.SetSheetRow(sheet, "A2", &[]any{"Acme", "Crypto Currency", "United States."}))
	require.NoError(t, wb.SetCellValue(sheet, "A3", "Beta"))
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	f, err := ReadRaw(path, "")
	require.NoError(t, err)
	require.Equal(t, 2, f.Rows())
	assert.Equal(t, []string{"company", "industry", "country"}, f.Schema().Names())
	assert.Equal(t, "United States.", cell(t, f, 0, "country"))
	assert.Equal(t, "Beta", cell(t, f, 1, "company"))
	assert.Equal(t, "", cell(t, f, 1, "industry"), "empty cells are blank")

	_, err = ReadRaw(path, "Missing")
	assert.Error(t, err)
}

func TestWriteAllReadRaw(t *testing.T) {
	f := j.NewFrame(j.Schema{Columns: []j.ColumnSchema{
		{Name: "company", Type: j.KindString},
		{Name: "date", Type: j.KindTime},
		{Name: "industry", Type: j.KindString},
	}})
	f.AppendNullRow()
	require.NoError(t, f.SetCell(0, "company", "Acme"))
	require.NoError(t, f.SetCell(0, "date", time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCell(0, "industry", "Retail"))
	f.AppendNullRow()
	require.NoError(t, f.SetCell(1, "company", "Beta"))

	path := filepath.Join(t.TempDir(), "clean.xlsx")
	require.NoError(t, WriteAll(path, f, WriterOptions{Sheet: "clean"}))

	back, err := ReadRaw(path, "clean")
	require.NoError(t, err)
	require.Equal(t, 2, back.Rows())
	assert.Equal(t, "2023-03-09", cell(t, back, 0, "date"))
	assert.Equal(t, "Retail", cell(t, back, 0, "industry"))
	assert.Equal(t, "", cell(t, back, 1, "industry"))
}
