package validate

import (
	"context"
	"fmt"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// Range fails when a present numeric cell lies outside [Min, Max]. A nil
// bound is open. Text and time columns are rejected.
type Range struct {
	Column string
	Min    *float64
	Max    *float64
}

func (t *Range) Name() string { return "validate_range" }

func (t *Range) outside(v float64) bool {
	return (t.Min != nil && v < *t.Min) || (t.Max != nil && v > *t.Max)
}

func (t *Range) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, fmt.Errorf("validate_range: unknown column %s", t.Column)
	}
	var value func(int) (float64, bool)
	switch c := col.(type) {
	case *j.FloatColumn:
		value = c.Get
	case *j.IntColumn:
		value = func(i int) (float64, bool) {
			v, ok := c.Get(i)
			return float64(v), ok
		}
	default:
		return f, fmt.Errorf("validate_range: column %s is %v, want a number", t.Column, col.Kind())
	}
	bad, first := 0, -1
	for i := 0; i < col.Len(); i++ {
		if v, ok := value(i); ok && t.outside(v) {
			if first < 0 {
				first = i
			}
			bad++
		}
	}
	if bad > 0 {
		return f, fmt.Errorf("validate_range: column %s has %d out-of-range values, first at row %d: %w", t.Column, bad, first, ErrViolation)
	}
	return f, nil
}
