package standardize

import (
	"context"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// BlankToNull turns absence spellings ("" and "NULL" by default) into real
// nulls in each of Columns. Leading and trailing space is ignored when
// matching, so "  " is blank too.
type BlankToNull struct {
	Columns []string
	Tokens  []string
	counts  map[string]int
}

func (t *BlankToNull) Name() string { return "blank_to_null" }

func (t *BlankToNull) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	t.counts = make(map[string]int, len(t.Columns))
	for _, name := range t.Columns {
		col, ok := f.ColumnByName(name)
		if !ok {
			continue
		}
		c, ok := col.(*j.StringColumn)
		if !ok {
			continue
		}
		n := 0
		for i := 0; i < c.Len(); i++ {
			if v, ok := c.Get(i); ok && isNullToken(v, t.Tokens) {
				c.SetNull(i)
				n++
			}
		}
		t.counts[countKey(name, "blanked")] = n
	}
	return f, nil
}

func (t *BlankToNull) Counts() map[string]int { return t.counts }
