// Package profile summarizes the columns of a frame: how many cells are
// present, the numeric and date ranges, and the most frequent text values.
package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

type NumStats struct {
	Count int     `json:"count"`
	Nulls int     `json:"nulls"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Sum   float64 `json:"sum"`
}

// Mean is zero for a column with no values.
func (s *NumStats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.Sum / float64(s.Count)
}

type BoolStats struct {
	Count int `json:"count"`
	Nulls int `json:"nulls"`
	True  int `json:"true"`
	False int `json:"false"`
}

type TimeStats struct {
	Count int       `json:"count"`
	Nulls int       `json:"nulls"`
	Min   time.Time `json:"min"`
	Max   time.Time `json:"max"`
}

type StringStats struct {
	Count int            `json:"count"`
	Nulls int            `json:"nulls"`
	Blank int            `json:"blank"` // "" or whitespace only
	Freqs map[string]int `json:"-"`
}

// ValueCount is one entry of a top-k list.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Top returns the k most frequent values, ties broken by value. k <= 0
// returns every value.
func (s *StringStats) Top(k int) []ValueCount {
	out := make([]ValueCount, 0, len(s.Freqs))
	for v, n := range s.Freqs {
		out = append(out, ValueCount{v, n})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Value < out[b].Value
	})
	if k > 0 && k < len(out) {
		out = out[:k]
	}
	return out
}

type ColumnProfile struct {
	Name string
	Kind j.Kind
	Num  *NumStats
	Bool *BoolStats
	Time *TimeStats
	Str  *StringStats
}

// Collector accumulates column profiles over one or more frames sharing a
// schema.
type Collector struct {
	cols  []ColumnProfile
	index map[string]int
	topK  int
	rows  int
}

func NewCollector(schema j.Schema, topK int) *Collector {
	c := &Collector{index: make(map[string]int), topK: topK}
	c.cols = make([]ColumnProfile, len(schema.Columns))
	for i, cs := range schema.Columns {
		cp := ColumnProfile{Name: cs.Name, Kind: cs.Type}
		switch cs.Type {
		case j.KindFloat, j.KindInt:
			cp.Num = &NumStats{Min: math.Inf(1), Max: math.Inf(-1)}
		case j.KindBool:
			cp.Bool = &BoolStats{}
		case j.KindTime:
			cp.Time = &TimeStats{}
		case j.KindString:
			cp.Str = &StringStats{Freqs: make(map[string]int)}
		}
		c.cols[i] = cp
		c.index[cs.Name] = i
	}
	return c
}

// Profile is NewCollector plus a single ConsumeFrame.
func Profile(f *j.Frame, topK int) *Collector {
	c := NewCollector(f.Schema(), topK)
	c.ConsumeFrame(f)
	return c
}

// ConsumeFrame adds f to the profile. Columns missing from the collector's
// schema, or whose kind changed, are skipped.
func (c *Collector) ConsumeFrame(f *j.Frame) {
	c.rows += f.Rows()
	for _, cs := range f.Schema().Columns {
		idx, ok := c.index[cs.Name]
		if !ok || c.cols[idx].Kind != cs.Type {
			continue
		}
		cp := &c.cols[idx]
		col, _ := f.ColumnByName(cs.Name)
		switch col := col.(type) {
		case *j.FloatColumn:
			for i := 0; i < col.Len(); i++ {
				v, ok := col.Get(i)
				if !ok {
					cp.Num.Nulls++
					continue
				}
				cp.Num.add(v)
			}
		case *j.IntColumn:
			for i := 0; i < col.Len(); i++ {
				v, ok := col.Get(i)
				if !ok {
					cp.Num.Nulls++
					continue
				}
				cp.Num.add(float64(v))
			}
		case *j.BoolColumn:
			for i := 0; i < col.Len(); i++ {
				v, ok := col.Get(i)
				if !ok {
					cp.Bool.Nulls++
					continue
				}
				cp.Bool.Count++
				if v {
					cp.Bool.True++
				} else {
					cp.Bool.False++
				}
			}
		case *j.TimeColumn:
			for i := 0; i < col.Len(); i++ {
				v, ok := col.Get(i)
				if !ok {
					cp.Time.Nulls++
					continue
				}
				if cp.Time.Count == 0 || v.Before(cp.Time.Min) {
					cp.Time.Min = v
				}
				if cp.Time.Count == 0 || v.After(cp.Time.Max) {
					cp.Time.Max = v
				}
				cp.Time.Count++
			}
		case *j.StringColumn:
			for i := 0; i < col.Len(); i++ {
				v, ok := col.Get(i)
				if !ok {
					cp.Str.Nulls++
					continue
				}
				cp.Str.Count++
				if strings.TrimSpace(v) == "" {
					cp.Str.Blank++
				}
				cp.Str.Freqs[v]++
			}
		}
	}
}

func (s *NumStats) add(v float64) {
	s.Count++
	s.Sum += v
	if v < s.Min {
		s.Min = v
	}
	if v > s.Max {
		s.Max = v
	}
}

// Columns returns the profiles in schema order.
func (c *Collector) Columns() []ColumnProfile { return c.cols }

// Rows is the number of rows consumed.
func (c *Collector) Rows() int { return c.rows }

func (c *Collector) ReportText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Profile Summary (%d rows)\n", c.rows)
	for _, cp := range c.cols {
		fmt.Fprintf(&b, "- %s (%v): ", cp.Name, cp.Kind)
		switch {
		case cp.Num != nil:
			if cp.Num.Count == 0 {
				fmt.Fprintf(&b, "count=0 nulls=%d\n", cp.Num.Nulls)
				continue
			}
			fmt.Fprintf(&b, "count=%d nulls=%d min=%.6g max=%.6g mean=%.6g\n",
				cp.Num.Count, cp.Num.Nulls, cp.Num.Min, cp.Num.Max, cp.Num.Mean())
		case cp.Bool != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d true=%d false=%d\n", cp.Bool.Count, cp.Bool.Nulls, cp.Bool.True, cp.Bool.False)
		case cp.Time != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d", cp.Time.Count, cp.Time.Nulls)
			if cp.Time.Count > 0 {
				fmt.Fprintf(&b, " min=%s max=%s", cp.Time.Min.Format("2006-01-02"), cp.Time.Max.Format("2006-01-02"))
			}
			b.WriteByte('\n')
		case cp.Str != nil:
			fmt.Fprintf(&b, "count=%d nulls=%d blank=%d distinct=%d\n", cp.Str.Count, cp.Str.Nulls, cp.Str.Blank, len(cp.Str.Freqs))
			if c.topK > 0 {
				for _, vc := range cp.Str.Top(c.topK) {
					fmt.Fprintf(&b, "  * %q: %d\n", vc.Value, vc.Count)
				}
			}
		default:
			b.WriteByte('\n')
		}
	}
	return b.String()
}

type JSONProfile struct {
	Rows    int          `json:"rows"`
	Columns []JSONColumn `json:"columns"`
}

type JSONColumn struct {
	Name string     `json:"name"`
	Kind string     `json:"kind"`
	Num  *JSONNum   `json:"num,omitempty"`
	Bool *BoolStats `json:"bool,omitempty"`
	Time *TimeStats `json:"time,omitempty"`
	Str  *JSONStr   `json:"str,omitempty"`
}

// JSONNum omits the range of an all-null column, which would be infinite.
type JSONNum struct {
	Count int      `json:"count"`
	Nulls int      `json:"nulls"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Mean  *float64 `json:"mean,omitempty"`
}

type JSONStr struct {
	Count    int          `json:"count"`
	Nulls    int          `json:"nulls"`
	Blank    int          `json:"blank"`
	Distinct int          `json:"distinct"`
	Top      []ValueCount `json:"top,omitempty"`
}

func (c *Collector) ReportJSON() JSONProfile {
	out := JSONProfile{Rows: c.rows, Columns: make([]JSONColumn, 0, len(c.cols))}
	for _, cp := range c.cols {
		jc := JSONColumn{Name: cp.Name, Kind: cp.Kind.String(), Bool: cp.Bool}
		if cp.Num != nil {
			jc.Num = &JSONNum{Count: cp.Num.Count, Nulls: cp.Num.Nulls}
			if cp.Num.Count > 0 {
				lo, hi, mean := cp.Num.Min, cp.Num.Max, cp.Num.Mean()
				jc.Num.Min, jc.Num.Max, jc.Num.Mean = &lo, &hi, &mean
			}
		}
		if cp.Time != nil {
			jc.Time = cp.Time
		}
		if cp.Str != nil {
			jc.Str = &JSONStr{Count: cp.Str.Count, Nulls: cp.Str.Nulls, Blank: cp.Str.Blank, Distinct: len(cp.Str.Freqs)}
			if c.topK > 0 {
				jc.Str.Top = cp.Str.Top(c.topK)
			}
		}
		out.Columns = append(out.Columns, jc)
	}
	return out
}
