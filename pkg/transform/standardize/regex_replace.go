package standardize

import (
	"context"
	"regexp"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// RegexReplace rewrites every match of Pattern with Replace. Anchoring the
// pattern (as in `^United States\.+$`) keeps the rule idempotent.
type RegexReplace struct {
	Column  string
	Pattern string
	Replace string
	re      *regexp.Regexp
	changed int
}

func (t *RegexReplace) Name() string { return "regex_replace" }

// Compile validates the pattern ahead of the first Apply.
func (t *RegexReplace) Compile() error {
	if t.re != nil {
		return nil
	}
	re, err := regexp.Compile(t.Pattern)
	if err != nil {
		return err
	}
	t.re = re
	return nil
}

func (t *RegexReplace) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	if err := t.Compile(); err != nil {
		return f, err
	}
	t.changed = rewrite(f, t.Column, func(v string) string {
		return t.re.ReplaceAllString(v, t.Replace)
	})
	return f, nil
}

func (t *RegexReplace) Counts() map[string]int {
	return map[string]int{countKey(t.Column, "regex_replace"): t.changed}
}
