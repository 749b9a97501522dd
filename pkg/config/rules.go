package config

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	j "github.com/wdm0006/layoffs/pkg/janitor"
	"github.com/wdm0006/layoffs/pkg/layoffs"
	std "github.com/wdm0006/layoffs/pkg/transform/standardize"
	val "github.com/wdm0006/layoffs/pkg/transform/validate"
)

// Rule is one entry of the standardization rule table. Op selects the
// rule; the other fields are its parameters.
type Rule struct {
	Op      string            `json:"op" toml:"op" yaml:"op"`
	Column  string            `json:"column" toml:"column" yaml:"column"`
	Pattern string            `json:"pattern,omitempty" toml:"pattern,omitempty" yaml:"pattern,omitempty"`
	Replace string            `json:"replace,omitempty" toml:"replace,omitempty" yaml:"replace,omitempty"`
	Prefix  string            `json:"prefix,omitempty" toml:"prefix,omitempty" yaml:"prefix,omitempty"`
	Map     map[string]string `json:"map,omitempty" toml:"map,omitempty" yaml:"map,omitempty"`
	Values  []string          `json:"values,omitempty" toml:"values,omitempty" yaml:"values,omitempty"`
}

type ruleBuilder func(r Rule, nullTokens []string) (j.Transform, error)

var ruleOps = map[string]ruleBuilder{
	"trim":  func(r Rule, _ []string) (j.Transform, error) { return &std.Trim{Column: r.Column}, nil },
	"lower": func(r Rule, _ []string) (j.Transform, error) { return &std.Lower{Column: r.Column}, nil },
	"nfc":   func(r Rule, _ []string) (j.Transform, error) { return &std.NFC{Column: r.Column}, nil },
	"prefix": func(r Rule, _ []string) (j.Transform, error) {
		if r.Prefix == "" {
			return nil, errors.New("prefix is required")
		}
		return &std.Prefix{Column: r.Column, Prefix: r.Prefix}, nil
	},
	"regex_replace": func(r Rule, _ []string) (j.Transform, error) {
		t := &std.RegexReplace{Column: r.Column, Pattern: r.Pattern, Replace: r.Replace}
		if r.Pattern == "" {
			return nil, errors.New("pattern is required")
		}
		if err := t.Compile(); err != nil {
			return nil, err
		}
		return t, nil
	},
	"map_values": func(r Rule, _ []string) (j.Transform, error) {
		if len(r.Map) == 0 {
			return nil, errors.New("map is required")
		}
		for from, to := range r.Map {
			if _, chained := r.Map[to]; chained && from != to {
				return nil, fmt.Errorf("map target %q is also a key", to)
			}
		}
		return &std.MapValues{Column: r.Column, Map: r.Map}, nil
	},
	// Absence tokens are allowed too; they are resolved after the rules run.
	"validate_in": func(r Rule, tokens []string) (j.Transform, error) {
		if len(r.Values) == 0 {
			return nil, errors.New("values is required")
		}
		return val.NewInSet(r.Column, append(slices.Clone(r.Values), tokens...)), nil
	},
}

// Ops lists the supported rule ops.
func Ops() []string {
	out := make([]string, 0, len(ruleOps))
	for op := range ruleOps {
		out = append(out, op)
	}
	slices.Sort(out)
	return out
}

func (c CleaningConfig) tokens() []string {
	if c.NullTokens == nil {
		return std.DefaultNullTokens
	}
	return c.NullTokens
}

// BuildRules turns the rule table into transforms. Configured rules run
// after the default ones unless ReplaceDefaultRules is set. An empty table
// without ReplaceDefaultRules yields nil, which selects the default rules.
func (c CleaningConfig) BuildRules() ([]j.Transform, error) {
	if len(c.Rules) == 0 && !c.ReplaceDefaultRules {
		return nil, nil
	}
	out := make([]j.Transform, 0, len(c.Rules)+3)
	if !c.ReplaceDefaultRules {
		out = append(out, layoffs.DefaultRules()...)
	}
	for i, r := range c.Rules {
		build, ok := ruleOps[r.Op]
		if !ok {
			return nil, fmt.Errorf("rules[%d]: unknown op %q (want one of %v)", i, r.Op, Ops())
		}
		if r.Column == "" {
			return nil, fmt.Errorf("rules[%d] %s: column is required", i, r.Op)
		}
		if !slices.Contains(layoffs.BusinessFields, r.Column) {
			return nil, fmt.Errorf("rules[%d] %s: unknown column %q", i, r.Op, r.Column)
		}
		t, err := build(r, c.tokens())
		if err != nil {
			return nil, fmt.Errorf("rules[%d] %s: %w", i, r.Op, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (c CleaningConfig) validate() error {
	for _, k := range c.BackfillKeys {
		if k == layoffs.ColIndustry || !slices.Contains(layoffs.BusinessFields, k) {
			return fmt.Errorf("cleaning.backfill_keys: %q cannot be a backfill key", k)
		}
	}
	_, err := c.BuildRules()
	return err
}

// CleanerOptions translates the cleaning section into Cleaner options.
func (c *Config) CleanerOptions(log *zap.Logger) ([]layoffs.Option, error) {
	rules, err := c.Cleaning.BuildRules()
	if err != nil {
		return nil, err
	}
	opts := []layoffs.Option{layoffs.WithLogger(log)}
	if rules != nil {
		opts = append(opts, layoffs.WithRules(rules...))
	}
	if c.Cleaning.DateLayout != "" {
		opts = append(opts, layoffs.WithDateLayout(c.Cleaning.DateLayout))
	}
	if c.Cleaning.NullTokens != nil {
		opts = append(opts, layoffs.WithNullTokens(c.Cleaning.NullTokens...))
	}
	if len(c.Cleaning.BackfillKeys) > 0 {
		opts = append(opts, layoffs.WithBackfillKeys(c.Cleaning.BackfillKeys...))
	}
	return opts, nil
}
