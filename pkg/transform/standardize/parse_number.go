package standardize

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// ParseNumber converts a string column into an int or float column.
// Values outside [Min, Max] are treated like unparseable ones: the cell
// becomes null and a coercion failure is counted.
type ParseNumber struct {
	Column     string
	Kind       j.Kind // KindInt or KindFloat
	Min        *float64
	Max        *float64
	NullTokens []string
	failures   int
}

// Only plain decimal text is numeric. Prefixed (0x, 0o, 0b), separated
// (1_000) and hex-float literals are coercion failures.
var (
	decimalInt   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalFloat = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

func (t *ParseNumber) Name() string { return "parse_number" }

func (t *ParseNumber) inRange(v float64) bool {
	if t.Min != nil && v < *t.Min {
		return false
	}
	if t.Max != nil && v > *t.Max {
		return false
	}
	return true
}

func (t *ParseNumber) Apply(ctx context.Context, f *j.Frame) (*j.Frame, error) {
	t.failures = 0
	col, ok := f.ColumnByName(t.Column)
	if !ok {
		return f, fmt.Errorf("parse_number: unknown column %s", t.Column)
	}
	if col.Kind() == t.Kind {
		return f, nil
	}
	sc, ok := col.(*j.StringColumn)
	if !ok {
		return f, fmt.Errorf("parse_number: column %s is %v, want string", t.Column, col.Kind())
	}
	var out j.Column
	switch t.Kind {
	case j.KindInt:
		ic := j.NewNullIntColumn(t.Column, sc.Len())
		for i := 0; i < sc.Len(); i++ {
			v, ok := sc.Get(i)
			if !ok || isNullToken(v, t.NullTokens) {
				continue
			}
			v = strings.TrimSpace(v)
			if !decimalInt.MatchString(v) {
				t.failures++
				continue
			}
			// base 10 so zero padding reads as decimal, never octal
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil || !t.inRange(float64(n)) {
				t.failures++
				continue
			}
			ic.Set(i, n)
		}
		out = ic
	case j.KindFloat:
		fc := j.NewNullFloatColumn(t.Column, sc.Len())
		for i := 0; i < sc.Len(); i++ {
			v, ok := sc.Get(i)
			if !ok || isNullToken(v, t.NullTokens) {
				continue
			}
			v = strings.TrimSpace(v)
			if !decimalFloat.MatchString(v) {
				t.failures++
				continue
			}
			x, err := cast.ToFloat64E(v)
			if err != nil || math.IsNaN(x) || math.IsInf(x, 0) || !t.inRange(x) {
				t.failures++
				continue
			}
			fc.Set(i, x)
		}
		out = fc
	default:
		return f, fmt.Errorf("parse_number: unsupported kind %v", t.Kind)
	}
	return f, f.ReplaceColumn(out)
}

func (t *ParseNumber) Counts() map[string]int {
	return map[string]int{countKey(t.Column, "coerce_failures"): t.failures}
}
