package ioutils

import (
	"regexp"
	"strconv"
	"strings"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

var numericCell = regexp.MustCompile(`^[-+]?[0-9]*\.?[0-9]+([eE][-+]?[0-9]+)?$`)

// KindTally guesses a column kind from sampled text cells. Blank cells
// carry no vote.
type KindTally struct {
	num, integer, boolean, text int
}

func (t *KindTally) Observe(s string) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
	case numericCell.MatchString(s):
		t.num++
		if !strings.ContainsAny(s, ".eE") {
			t.integer++
		}
	case strings.EqualFold(s, "true") || strings.EqualFold(s, "false"):
		t.boolean++
	default:
		t.text++
	}
}

// Kind is int when every numeric vote was integral, float for other numeric
// majorities, bool for a boolean majority, and string otherwise.
func (t KindTally) Kind() j.Kind {
	switch {
	case t.num > t.text && t.num >= t.boolean:
		if t.integer == t.num {
			return j.KindInt
		}
		return j.KindFloat
	case t.boolean > t.text:
		return j.KindBool
	default:
		return j.KindString
	}
}

// ParseCell converts s to a value of kind k. ok is false for blank or
// unparseable text so the caller leaves the cell null. An int cell accepts
// integral floats such as "3.0".
func ParseCell(k j.Kind, s string) (v any, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	switch k {
	case j.KindFloat:
		x, err := strconv.ParseFloat(s, 64)
		return x, err == nil
	case j.KindInt:
		if x, err := strconv.ParseInt(s, 10, 64); err == nil {
			return x, true
		}
		x, err := strconv.ParseFloat(s, 64)
		if err != nil || x != float64(int64(x)) {
			return nil, false
		}
		return int64(x), true
	case j.KindBool:
		x, err := strconv.ParseBool(strings.ToLower(s))
		return x, err == nil
	default:
		return s, true
	}
}
