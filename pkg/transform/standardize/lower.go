package standardize

import (
	"context"
	"strings"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

type Lower struct {
	Column  string
	changed int
}

func (t *Lower) Name() string { return "lower" }

func (t *Lower) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	t.changed = rewrite(f, t.Column, strings.ToLower)
	return f, nil
}

func (t *Lower) Counts() map[string]int {
	return map[string]int{countKey(t.Column, "lower"): t.changed}
}
