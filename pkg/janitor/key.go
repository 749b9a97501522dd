package janitor

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RowKey encodes the named cells of one row into a string such that two rows
// share a key exactly when every named cell is equal. Nulls compare equal to
// each other and never equal to any value, the empty string included.
func (f *Frame) RowKey(row int, names []string) (string, error) {
	var b strings.Builder
	for _, n := range names {
		c, ok := f.ColumnByName(n)
		if !ok {
			return "", fmt.Errorf("unknown column: %s", n)
		}
		if c.IsNull(row) {
			b.WriteByte(0)
			continue
		}
		var s string
		switch col := c.(type) {
		case *BoolColumn:
			v, _ := col.Get(row)
			s = strconv.FormatBool(v)
		case *IntColumn:
			v, _ := col.Get(row)
			s = strconv.FormatInt(v, 10)
		case *FloatColumn:
			v, _ := col.Get(row)
			s = strconv.FormatFloat(v, 'g', -1, 64)
		case *StringColumn:
			s, _ = col.Get(row)
		case *TimeColumn:
			v, _ := col.Get(row)
			s = v.UTC().Format(time.RFC3339Nano)
		}
		b.WriteByte(1)
		b.WriteString(strconv.Itoa(len(s)))
		b.WriteByte(':')
		b.WriteString(s)
	}
	return b.String(), nil
}

// RowKeys returns RowKey for every row of f.
func (f *Frame) RowKeys(names []string) ([]string, error) {
	keys := make([]string, f.nrows)
	for r := range keys {
		k, err := f.RowKey(r, names)
		if err != nil {
			return nil, err
		}
		keys[r] = k
	}
	return keys, nil
}
