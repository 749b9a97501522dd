// Package standardize holds field-scoped normalization rules and the
// coercions that turn raw text cells into typed cells.
//
// Every rule is total (null cells pass through untouched) and idempotent,
// so a rule table can be extended without changing what earlier rules do.
package standardize

import (
	"strings"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// DefaultNullTokens are the raw spellings that mean "not reported".
var DefaultNullTokens = []string{"", "NULL"}

// rewrite applies fn to every non-null cell of a string column and returns
// how many cells changed. Missing or non-string columns are left alone.
func rewrite(f *j.Frame, column string, fn func(string) string) int {
	col, ok := f.ColumnByName(column)
	if !ok {
		return 0
	}
	c, ok := col.(*j.StringColumn)
	if !ok {
		return 0
	}
	changed := 0
	for i := 0; i < c.Len(); i++ {
		v, ok := c.Get(i)
		if !ok {
			continue
		}
		if nv := fn(v); nv != v {
			c.Set(i, nv)
			changed++
		}
	}
	return changed
}

func isNullToken(v string, tokens []string) bool {
	if tokens == nil {
		tokens = DefaultNullTokens
	}
	v = strings.TrimSpace(v)
	for _, t := range tokens {
		if v == t {
			return true
		}
	}
	return false
}

func countKey(column, what string) string { return column + "." + what }
