package janitor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	j "github.com/wdm0006/layoffs/pkg/janitor"
	std "github.com/wdm0006/layoffs/pkg/transform/standardize"
)

type failing struct{}

func (failing) Name() string { return "failing" }
func (failing) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	return nil, errors.New("boom")
}

func TestPipeline(t *testing.T) {
	s := j.Schema{Columns: []j.ColumnSchema{{Name: "s", Type: j.KindString, Nullable: true}, {Name: "d", Type: j.KindString, Nullable: true}}}
	f := j.NewFrame(s)
	for i := 0; i < 2; i++ {
		f.AppendNullRow()
	}
	_ = f.SetCell(0, "s", " Foo ")
	_ = f.SetCell(0, "d", "3/9/2023")
	_ = f.SetCell(1, "d", "soon")

	p := j.NewPipeline().Add(&std.Trim{Column: "s"}).Add(&std.ParseDate{Column: "d"})
	out, err := p.Run(context.Background(), f)
	require.NoError(t, err)

	colS, _ := out.ColumnByName("s")
	s0, _ := colS.(*j.StringColumn).Get(0)
	assert.Equal(t, "Foo", s0)
	assert.True(t, colS.IsNull(1))

	colD, _ := out.ColumnByName("d")
	assert.Equal(t, j.KindTime, colD.Kind())
	assert.Equal(t, map[string]int{"s.trim": 1, "d.coerce_failures": 1}, p.Counts())
}

func TestPipelineWrapsStepName(t *testing.T) {
	f := j.NewFrame(j.Schema{})
	_, err := j.NewPipeline(failing{}).Run(context.Background(), f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing: boom")
}

func TestPipelineHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := j.NewPipeline(&std.Trim{Column: "s"}).Run(ctx, j.NewFrame(j.Schema{}))
	assert.ErrorIs(t, err, context.Canceled)
}
