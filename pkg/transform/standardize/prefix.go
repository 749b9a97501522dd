package standardize

import (
	"context"
	"strings"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// Prefix collapses every value starting with Prefix to exactly Prefix,
// e.g. "Crypto Currency" and "CryptoCurrency" both become "Crypto".
// The match is case sensitive.
type Prefix struct {
	Column  string
	Prefix  string
	changed int
}

func (t *Prefix) Name() string { return "prefix" }

func (t *Prefix) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	if t.Prefix == "" {
		return f, nil
	}
	t.changed = rewrite(f, t.Column, func(v string) string {
		if strings.HasPrefix(v, t.Prefix) {
			return t.Prefix
		}
		return v
	})
	return f, nil
}

func (t *Prefix) Counts() map[string]int {
	return map[string]int{countKey(t.Column, "prefix"): t.changed}
}
