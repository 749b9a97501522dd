package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

func frame(t *testing.T) *j.Frame {
	t.Helper()
	f := j.NewFrame(j.Schema{Columns: []j.ColumnSchema{
		{Name: "s", Type: j.KindString, Nullable: true},
		{Name: "n", Type: j.KindInt, Nullable: true},
		{Name: "x", Type: j.KindFloat, Nullable: true},
	}})
	for i := 0; i < 3; i++ {
		f.AppendNullRow()
	}
	_ = f.SetCell(0, "s", "a")
	_ = f.SetCell(1, "s", "b")
	_ = f.SetCell(0, "n", int64(5))
	_ = f.SetCell(1, "x", 0.5)
	return f
}

func TestInSetAndRange(t *testing.T) {
	f := frame(t)
	_, err := NewInSet("s", []string{"a", "b"}).Apply(context.Background(), f)
	assert.NoError(t, err)
	_, err = NewInSet("s", []string{"a"}).Apply(context.Background(), f)
	assert.ErrorIs(t, err, ErrViolation)
	assert.Contains(t, err.Error(), `1 values outside the allowed set ("b")`)
	_, err = NewInSet("n", []string{"5"}).Apply(context.Background(), f)
	assert.Error(t, err, "numeric columns are not vocabularies")

	one := 1.0
	_, err = (&Range{Column: "x", Max: &one}).Apply(context.Background(), f)
	assert.NoError(t, err)
	_, err = (&Range{Column: "n", Max: &one}).Apply(context.Background(), f)
	assert.ErrorIs(t, err, ErrViolation)
	assert.Contains(t, err.Error(), "first at row 0")
	_, err = (&Range{Column: "s", Max: &one}).Apply(context.Background(), f)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrViolation)
}

func TestUnique(t *testing.T) {
	f := frame(t)
	_, err := (&Unique{Columns: []string{"s", "n"}}).Apply(context.Background(), f)
	require.NoError(t, err)

	_ = f.SetCell(2, "s", "a")
	_ = f.SetCell(2, "n", int64(5))
	_, err = (&Unique{Columns: []string{"s", "n"}}).Apply(context.Background(), f)
	assert.ErrorIs(t, err, ErrViolation)
	assert.Contains(t, err.Error(), "3 rows but 2 distinct")
}

func TestNotBlank(t *testing.T) {
	f := frame(t)
	_, err := (&NotBlank{}).Apply(context.Background(), f)
	require.NoError(t, err)
	_ = f.SetCell(2, "s", "")
	_, err = (&NotBlank{}).Apply(context.Background(), f)
	assert.ErrorIs(t, err, ErrViolation)
}

func TestAnyPresent(t *testing.T) {
	f := frame(t)
	_, err := (&AnyPresent{Columns: []string{"n", "x"}}).Apply(context.Background(), f)
	assert.ErrorIs(t, err, ErrViolation, "row 2 has neither")
	_ = f.SetCell(2, "x", 0.1)
	_, err = (&AnyPresent{Columns: []string{"n", "x"}}).Apply(context.Background(), f)
	assert.NoError(t, err)
	_, err = (&AnyPresent{Columns: []string{"zz"}}).Apply(context.Background(), f)
	assert.Error(t, err)
}
