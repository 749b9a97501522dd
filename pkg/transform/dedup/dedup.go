// Package dedup ranks and removes rows that repeat the same values across a
// set of key columns.
package dedup

import (
	"context"
	"fmt"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// RowNumber adds an int column holding each row's 1-based position among
// the rows that share its Partition values, in source order.
type RowNumber struct {
	Partition []string
	Column    string
}

func (t *RowNumber) Name() string { return "row_number" }

func (t *RowNumber) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	keys, err := f.RowKeys(t.Partition)
	if err != nil {
		return f, fmt.Errorf("row_number: %w", err)
	}
	seen := make(map[string]int64, len(keys))
	rank := j.NewIntColumn(t.Column, f.Rows())
	for r, k := range keys {
		seen[k]++
		rank.Set(r, seen[k])
	}
	if _, exists := f.ColumnByName(t.Column); exists {
		return f, f.ReplaceColumn(rank)
	}
	return f, f.AddColumn(rank)
}

// KeepFirst retains the rows whose rank column equals 1.
type KeepFirst struct {
	Column  string
	removed int
}

func (t *KeepFirst) Name() string { return "keep_first" }

func (t *KeepFirst) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, fmt.Errorf("keep_first: unknown column %s", t.Column)
	}
	rank, ok := col.(*j.IntColumn)
	if !ok {
		return f, fmt.Errorf("keep_first: column %s is %v, want int", t.Column, col.Kind())
	}
	out := f.Filter(func(r int) bool {
		v, ok := rank.Get(r)
		return ok && v == 1
	})
	t.removed = f.Rows() - out.Rows()
	return out, nil
}

func (t *KeepFirst) Counts() map[string]int { return map[string]int{"duplicates_removed": t.removed} }

// DropDuplicates keeps the first row of every group sharing Columns.
type DropDuplicates struct {
	Columns []string
	removed int
}

func (t *DropDuplicates) Name() string { return "drop_duplicates" }

func (t *DropDuplicates) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	keys, err := f.RowKeys(t.Columns)
	if err != nil {
		return f, fmt.Errorf("drop_duplicates: %w", err)
	}
	seen := make(map[string]struct{}, len(keys))
	out := f.Filter(func(r int) bool {
		if _, dup := seen[keys[r]]; dup {
			return false
		}
		seen[keys[r]] = struct{}{}
		return true
	})
	t.removed = f.Rows() - out.Rows()
	return out, nil
}

func (t *DropDuplicates) Counts() map[string]int { return map[string]int{"duplicates_removed": t.removed} }
