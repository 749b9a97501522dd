package janitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringFrame(t *testing.T, vals ...any) *Frame {
	t.Helper()
	f := NewFrame(Schema{Columns: []ColumnSchema{
		{Name: "s", Type: KindString, Nullable: true},
		{Name: "n", Type: KindInt, Nullable: true},
	}})
	for i, v := range vals {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "s", v))
		require.NoError(t, f.SetCell(i, "n", int64(i)))
	}
	return f
}

func TestTakeAndClone(t *testing.T) {
	f := stringFrame(t, "a", nil, "c")

	g := f.Take([]int{2, 0})
	require.Equal(t, 2, g.Rows())
	col, _ := g.ColumnByName("s")
	v, ok := col.(*StringColumn).Get(0)
	assert.True(t, ok)
	assert.Equal(t, "c", v)

	c := f.Clone()
	cc, _ := c.ColumnByName("s")
	cc.(*StringColumn).Set(0, "changed")
	orig, _ := f.ColumnByName("s")
	v, _ = orig.(*StringColumn).Get(0)
	assert.Equal(t, "a", v, "clone must not share storage")
	assert.True(t, c.Schema().Columns[1].Type == KindInt)
}

func TestFilterSelectDrop(t *testing.T) {
	f := stringFrame(t, "a", "b", "c")
	n, _ := f.ColumnByName("n")
	odd := f.Filter(func(r int) bool {
		v, _ := n.(*IntColumn).Get(r)
		return v%2 == 0
	})
	assert.Equal(t, 2, odd.Rows())

	only, err := f.Select("n")
	require.NoError(t, err)
	assert.Equal(t, []string{"n"}, only.Schema().Names())

	_, err = f.Select("missing")
	assert.Error(t, err)

	dropped := f.DropColumn("n")
	assert.Equal(t, []string{"s"}, dropped.Schema().Names())
	assert.Equal(t, 3, dropped.Rows())
	assert.Equal(t, 2, f.Cols(), "drop returns a copy")
}

func TestAddAndReplaceColumn(t *testing.T) {
	f := stringFrame(t, "a", "b")
	require.NoError(t, f.AddColumn(NewNullIntColumn("rank", 2)))
	assert.Error(t, f.AddColumn(NewNullIntColumn("rank", 2)))
	assert.Error(t, f.AddColumn(NewNullIntColumn("short", 1)))

	tc := NewTimeColumn("s", 2)
	tc.Set(0, time.Date(2023, 3, 9, 0, 0, 0, 0, time.UTC))
	tc.SetNull(1)
	require.NoError(t, f.ReplaceColumn(tc))
	assert.Equal(t, KindTime, f.Schema().Columns[0].Type)
	col, _ := f.ColumnByName("s")
	assert.Equal(t, KindTime, col.Kind())
}

func TestRowKeyNullsAndBlanks(t *testing.T) {
	f := stringFrame(t, "", nil, nil, "x")
	keys := make([]string, 4)
	for r := range keys {
		k, err := f.RowKey(r, []string{"s"})
		require.NoError(t, err)
		keys[r] = k
	}
	assert.NotEqual(t, keys[0], keys[1], "blank and null must not group together")
	assert.Equal(t, keys[1], keys[2], "nulls group together")
	assert.NotEqual(t, keys[0], keys[3])

	_, err := f.RowKey(0, []string{"nope"})
	assert.Error(t, err)
}

func TestRowKeyIsInjectiveAcrossColumns(t *testing.T) {
	f := NewFrame(Schema{Columns: []ColumnSchema{{Name: "a", Type: KindString}, {Name: "b", Type: KindString}}})
	f.AppendNullRow()
	f.AppendNullRow()
	_ = f.SetCell(0, "a", "ab")
	_ = f.SetCell(0, "b", "c")
	_ = f.SetCell(1, "a", "a")
	_ = f.SetCell(1, "b", "bc")
	keys, err := f.RowKeys([]string{"a", "b"})
	require.NoError(t, err)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestNewStringFrame(t *testing.T) {
	f, err := NewStringFrame([]string{"company", "industry"})
	require.NoError(t, err)
	assert.Equal(t, []string{"company", "industry"}, f.Schema().Names())
	assert.Equal(t, KindString, f.Schema().Columns[1].Type)

	_, err = NewStringFrame([]string{"company", "company"})
	assert.ErrorContains(t, err, "duplicate column: company")
}
