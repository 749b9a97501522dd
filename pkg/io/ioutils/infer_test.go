package ioutils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

func tally(cells ...string) j.Kind {
	var t KindTally
	for _, c := range cells {
		t.Observe(c)
	}
	return t.Kind()
}

func TestKindTally(t *testing.T) {
	assert.Equal(t, j.KindInt, tally("10", " 7", ""))
	assert.Equal(t, j.KindFloat, tally("10", "0.5", "1e3"))
	assert.Equal(t, j.KindBool, tally("true", "FALSE", ""))
	assert.Equal(t, j.KindString, tally("Acme", "10", "Beta"))
	assert.Equal(t, j.KindString, tally("", " "), "no votes")
}

func TestParseCell(t *testing.T) {
	v, ok := ParseCell(j.KindInt, "3.0")
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)

	_, ok = ParseCell(j.KindInt, "3.5")
	assert.False(t, ok)

	v, ok = ParseCell(j.KindBool, "True")
	assert.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = ParseCell(j.KindString, "  Acme ")
	assert.True(t, ok)
	assert.Equal(t, "Acme", v)

	_, ok = ParseCell(j.KindFloat, " ")
	assert.False(t, ok)
}
