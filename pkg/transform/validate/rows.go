package validate

import (
	"context"
	"fmt"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// Unique fails when two rows share every value of Columns.
type Unique struct{ Columns []string }

func (t *Unique) Name() string { return "validate_unique" }

func (t *Unique) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	keys, err := f.RowKeys(t.Columns)
	if err != nil {
		return f, fmt.Errorf("validate_unique: %w", err)
	}
	distinct := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		distinct[k] = struct{}{}
	}
	if len(distinct) != len(keys) {
		return f, fmt.Errorf("validate_unique: %d rows but %d distinct over %v: %w", len(keys), len(distinct), t.Columns, ErrViolation)
	}
	return f, nil
}

// NotBlank fails when any string column holds an empty value. Null cells
// are fine; only "" is rejected.
type NotBlank struct{}

func (t *NotBlank) Name() string { return "validate_not_blank" }

func (t *NotBlank) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	for _, cs := range f.Schema().Columns {
		col, _ := f.ColumnByName(cs.Name)
		sc, ok := col.(*j.StringColumn)
		if !ok {
			continue
		}
		var bad int
		for i := 0; i < sc.Len(); i++ {
			if v, ok := sc.Get(i); ok && v == "" {
				bad++
			}
		}
		if bad > 0 {
			return f, fmt.Errorf("validate_not_blank: column %s has %d empty strings: %w", cs.Name, bad, ErrViolation)
		}
	}
	return f, nil
}

// AnyPresent fails when a row has every one of Columns null.
type AnyPresent struct{ Columns []string }

func (t *AnyPresent) Name() string { return "validate_any_present" }

func (t *AnyPresent) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	cols := make([]j.Column, len(t.Columns))
	for i, n := range t.Columns {
		c, ok := f.ColumnByName(n)
		if !ok {
			return f, fmt.Errorf("validate_any_present: unknown column %s", n)
		}
		cols[i] = c
	}
	var bad int
	for r := 0; r < f.Rows(); r++ {
		present := false
		for _, c := range cols {
			if !c.IsNull(r) {
				present = true
				break
			}
		}
		if !present {
			bad++
		}
	}
	if bad > 0 {
		return f, fmt.Errorf("validate_any_present: %d rows have none of %v: %w", bad, t.Columns, ErrViolation)
	}
	return f, nil
}
