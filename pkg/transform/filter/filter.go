// Package filter drops rows from a frame.
package filter

import (
	"context"
	"fmt"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// DropAllNull removes rows in which every one of Columns is null.
type DropAllNull struct {
	Columns []string
	dropped int
}

func (t *DropAllNull) Name() string { return "drop_all_null" }

func (t *DropAllNull) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	cols := make([]j.Column, len(t.Columns))
	for i, n := range t.Columns {
		c, ok := f.ColumnByName(n)
		if !ok {
			return f, fmt.Errorf("drop_all_null: unknown column %s", n)
		}
		cols[i] = c
	}
	out := f.Filter(func(r int) bool {
		for _, c := range cols {
			if !c.IsNull(r) {
				return true
			}
		}
		return false
	})
	t.dropped = f.Rows() - out.Rows()
	return out, nil
}

func (t *DropAllNull) Counts() map[string]int { return map[string]int{"dropped_all_null": t.dropped} }
