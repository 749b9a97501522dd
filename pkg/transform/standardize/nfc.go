package standardize

import (
	"context"

	"golang.org/x/text/unicode/norm"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// NFC rewrites values to Unicode normalization form C so that visually
// identical names ("Café" composed vs decomposed) compare equal.
type NFC struct {
	Column  string
	changed int
}

func (t *NFC) Name() string { return "nfc" }

func (t *NFC) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	t.changed = rewrite(f, t.Column, norm.NFC.String)
	return f, nil
}

func (t *NFC) Counts() map[string]int {
	return map[string]int{countKey(t.Column, "nfc"): t.changed}
}
