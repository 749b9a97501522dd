package standardize

import (
	"context"
	"fmt"
	"strings"
	"time"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// DefaultDateLayout reads month/day/year, with or without zero padding.
const DefaultDateLayout = "1/2/2006"

// ParseDate converts a string column into a time column. Absence tokens
// become null silently; any other value that does not parse becomes null
// and is counted as a coercion failure. A column that is already typed is
// left as is.
type ParseDate struct {
	Column     string
	Layout     string
	NullTokens []string
	failures   int
}

func (t *ParseDate) Name() string { return "parse_date" }

func (t *ParseDate) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	t.failures = 0
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, fmt.Errorf("parse_date: unknown column %s", t.Column)
	}
	if col.Kind() == j.KindTime {
		return f, nil
	}
	sc, ok := col.(*j.StringColumn)
	if !ok {
		return f, fmt.Errorf("parse_date: column %s is %v, want string", t.Column, col.Kind())
	}
	layout := t.Layout
	if layout == "" {
		layout = DefaultDateLayout
	}
	out := j.NewTimeColumn(t.Column, sc.Len())
	for i := 0; i < sc.Len(); i++ {
		v, ok := sc.Get(i)
		if !ok || isNullToken(v, t.NullTokens) {
			out.SetNull(i)
			continue
		}
		d, err := time.Parse(layout, strings.TrimSpace(v))
		if err != nil {
			out.SetNull(i)
			t.failures++
			continue
		}
		out.Set(i, d)
	}
	return f, f.ReplaceColumn(out)
}

func (t *ParseDate) Counts() map[string]int {
	return map[string]int{countKey(t.Column, "coerce_failures"): t.failures}
}
