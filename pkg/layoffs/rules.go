package layoffs

import (
	j "github.com/wdm0006/layoffs/pkg/janitor"
	std "github.com/wdm0006/layoffs/pkg/transform/standardize"
)

// DefaultRules returns a fresh copy of the standard rule table. Rules run in
// order before the date and number coercions, and each one touches a single
// field, so appending a rule never changes what the earlier ones do.
func DefaultRules() []j.Transform {
	return []j.Transform{
		&std.Trim{Column: ColCompany},
		&std.Prefix{Column: ColIndustry, Prefix: "Crypto"},
		&std.RegexReplace{Column: ColCountry, Pattern: `^United States\.+$`, Replace: "United States"},
	}
}

// Options tune the stages. The zero value selects the defaults.
type Options struct {
	// Rules is the standardization rule table; nil means DefaultRules.
	Rules []j.Transform
	// DateLayout is the Go layout of the raw date field.
	DateLayout string
	// NullTokens are the raw spellings of "not reported". The empty
	// string is always one of them.
	NullTokens []string
	// BackfillKeys are the columns a sibling row must share to lend its
	// industry. The default is company alone; adding location trades
	// recall for precision.
	BackfillKeys []string
}

func (o Options) rules() []j.Transform {
	if o.Rules == nil {
		return DefaultRules()
	}
	return o.Rules
}

func (o Options) dateLayout() string {
	if o.DateLayout == "" {
		return std.DefaultDateLayout
	}
	return o.DateLayout
}

// nullTokens always includes the empty string: blank text never survives
// reconciliation.
func (o Options) nullTokens() []string {
	if o.NullTokens == nil {
		return std.DefaultNullTokens
	}
	for _, t := range o.NullTokens {
		if t == "" {
			return o.NullTokens
		}
	}
	return append([]string{""}, o.NullTokens...)
}

func (o Options) backfillKeys() []string {
	if len(o.BackfillKeys) == 0 {
		return []string{ColCompany}
	}
	return o.BackfillKeys
}
