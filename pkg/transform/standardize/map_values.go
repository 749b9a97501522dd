package standardize

import (
	"context"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// MapValues rewrites exact matches using Map. For the rule to stay
// idempotent no target value may itself be a key.
type MapValues struct {
	Column  string
	Map     map[string]string
	changed int
}

func (t *MapValues) Name() string { return "map_values" }

func (t *MapValues) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	t.changed = rewrite(f, t.Column, func(v string) string {
		if nv, ok := t.Map[v]; ok {
			return nv
		}
		return v
	})
	return f, nil
}

func (t *MapValues) Counts() map[string]int {
	return map[string]int{countKey(t.Column, "map_values"): t.changed}
}
