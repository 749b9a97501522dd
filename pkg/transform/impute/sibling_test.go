package impute

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

func companies(t *testing.T, rows ...[3]any) *j.Frame {
	t.Helper()
	f := j.NewFrame(j.Schema{Columns: []j.ColumnSchema{
		{Name: "company", Type: j.KindString, Nullable: true},
		{Name: "location", Type: j.KindString, Nullable: true},
		{Name: "industry", Type: j.KindString, Nullable: true},
	}})
	for i, r := range rows {
		f.AppendNullRow()
		require.NoError(t, f.SetCell(i, "company", r[0]))
		require.NoError(t, f.SetCell(i, "location", r[1]))
		require.NoError(t, f.SetCell(i, "industry", r[2]))
	}
	return f
}

func industries(f *j.Frame) []any {
	col, _ := f.ColumnByName("industry")
	c := col.(*j.StringColumn)
	out := make([]any, c.Len())
	for i := range out {
		if v, ok := c.Get(i); ok {
			out[i] = v
		}
	}
	return out
}

func TestSiblingFillsByCompany(t *testing.T) {
	f := companies(t,
		[3]any{"Acme", "SF Bay Area", nil},
		[3]any{"Acme", "New York", "Retail"},
		[3]any{"Solo", "Austin", nil},
		[3]any{nil, "Austin", nil},
		[3]any{nil, "Austin", "Travel"},
	)
	s := &Sibling{Keys: []string{"company"}, Column: "industry"}
	_, err := s.Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{"Retail", "Retail", nil, nil, "Travel"}, industries(f))
	assert.Equal(t, 1, s.Counts()["industry.backfilled"])
}

func TestSiblingWithLocationRefinement(t *testing.T) {
	f := companies(t,
		[3]any{"Acme", "SF Bay Area", nil},
		[3]any{"Acme", "New York", "Retail"},
		[3]any{"Acme", "New York", nil},
	)
	s := &Sibling{Keys: []string{"company", "location"}, Column: "industry"}
	_, err := s.Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, "Retail", "Retail"}, industries(f))
}

func TestSiblingIsSinglePass(t *testing.T) {
	f := companies(t, [3]any{"Acme", "x", nil}, [3]any{"Acme", "y", nil})
	s := &Sibling{Keys: []string{"company"}, Column: "industry"}
	_, err := s.Apply(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, []any{nil, nil}, industries(f))
	assert.Equal(t, 0, s.Counts()["industry.backfilled"])
}

func TestSiblingErrors(t *testing.T) {
	f := companies(t, [3]any{"Acme", "x", nil})
	_, err := (&Sibling{Keys: []string{"company"}, Column: "nope"}).Apply(context.Background(), f)
	assert.Error(t, err)
	_, err = (&Sibling{Keys: []string{"nope"}, Column: "industry"}).Apply(context.Background(), f)
	assert.Error(t, err)
}
