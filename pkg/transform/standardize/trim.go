package standardize

import (
	"context"
	"strings"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// Trim strips leading and trailing whitespace.
type Trim struct {
	Column  string
	changed int
}

func (t *Trim) Name() string { return "trim" }

func (t *Trim) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	t.changed = rewrite(f, t.Column, strings.TrimSpace)
	return f, nil
}

func (t *Trim) Counts() map[string]int {
	return map[string]int{countKey(t.Column, "trim"): t.changed}
}
