package validate

import (
	"context"
	"fmt"
	"sort"
	"strings"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// InSet fails when a present cell of a text column holds a value outside
// the allowed vocabulary. Null cells always pass.
type InSet struct {
	Column string
	Values map[string]struct{}
}

func NewInSet(col string, vals []string) *InSet {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return &InSet{Column: col, Values: m}
}

func (t *InSet) Name() string { return "validate_in" }

func (t *InSet) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, fmt.Errorf("validate_in: unknown column %s", t.Column)
	}
	sc, ok := col.(*j.StringColumn)
	if !ok {
		return f, fmt.Errorf("validate_in: column %s is %v, want string", t.Column, col.Kind())
	}
	outside := map[string]int{}
	bad := 0
	for i := 0; i < sc.Len(); i++ {
		v, ok := sc.Get(i)
		if !ok {
			continue
		}
		if _, allowed := t.Values[v]; !allowed {
			outside[v]++
			bad++
		}
	}
	if bad == 0 {
		return f, nil
	}
	vals := make([]string, 0, len(outside))
	for v := range outside {
		vals = append(vals, fmt.Sprintf("%q", v))
	}
	sort.Strings(vals)
	if len(vals) > 3 {
		vals = append(vals[:3], "...")
	}
	return f, fmt.Errorf("validate_in: column %s has %d values outside the allowed set (%s): %w",
		t.Column, bad, strings.Join(vals, ", "), ErrViolation)
}
