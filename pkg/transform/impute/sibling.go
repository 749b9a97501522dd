// Package impute fills null cells from values already present in the frame.
package impute

import (
	"context"
	"fmt"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// Sibling fills null cells of Column with the value another row holds,
// where that row matches on every one of Keys (exact, non-null match).
//
// The lookup index is built before anything is filled, so a single Apply
// is one pass: a value copied into a row is never copied onward from it.
// When several siblings disagree the first present value in row order
// wins.
type Sibling struct {
	Keys   []string
	Column string
	filled int
}

func (t *Sibling) Name() string { return "impute_sibling" }

func (t *Sibling) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	t.filled = 0
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, fmt.Errorf("impute_sibling: unknown column %s", t.Column)
	}
	target, ok := col.(*j.StringColumn)
	if !ok {
		return f, fmt.Errorf("impute_sibling: column %s is %v, want string", t.Column, col.Kind())
	}
	keyCols := make([]j.Column, len(t.Keys))
	for i, k := range t.Keys {
		c, ok := f.ColumnByName(k)
		if !ok {
			return f, fmt.Errorf("impute_sibling: unknown key column %s", k)
		}
		keyCols[i] = c
	}
	keys, err := f.RowKeys(t.Keys)
	if err != nil {
		return f, fmt.Errorf("impute_sibling: %w", err)
	}
	hasNullKey := func(r int) bool {
		for _, c := range keyCols {
			if c.IsNull(r) {
				return true
			}
		}
		return false
	}

	index := make(map[string]string)
	for r := 0; r < f.Rows(); r++ {
		v, ok := target.Get(r)
		if !ok || hasNullKey(r) {
			continue
		}
		if _, seen := index[keys[r]]; !seen {
			index[keys[r]] = v
		}
	}
	for r := 0; r < f.Rows(); r++ {
		if !target.IsNull(r) || hasNullKey(r) {
			continue
		}
		if v, ok := index[keys[r]]; ok {
			target.Set(r, v)
			t.filled++
		}
	}
	return f, nil
}

func (t *Sibling) Counts() map[string]int {
	return map[string]int{t.Column + ".backfilled": t.filled}
}
