// Package golearn converts clean layoff frames to and from golearn
// DenseInstances so they can feed github.com/sjwhitworth/golearn models.
//
// golearn has no missing values. Null numbers travel as NaN and null text
// as the empty category; FromDenseInstances turns both back into nulls.
package golearn

import (
	"fmt"
	"math"
	"time"

	"github.com/sjwhitworth/golearn/base"

	j "github.com/wdm0006/layoffs/pkg/janitor"
)

// DateLayout is how time cells are encoded as categories.
const DateLayout = "2006-01-02"

// ToDenseInstances converts f into DenseInstances. Int and float columns
// become float attributes; text and date columns become categorical ones.
// When class is non-empty that column is marked as the class attribute.
func ToDenseInstances(f *j.Frame, class string) (*base.DenseInstances, error) {
	schema := f.Schema()
	attrs := make([]base.Attribute, len(schema.Columns))
	for i, cs := range schema.Columns {
		switch cs.Type {
		case j.KindFloat, j.KindInt:
			attrs[i] = base.NewFloatAttribute(cs.Name)
		case j.KindString, j.KindTime:
			ca := new(base.CategoricalAttribute)
			ca.SetName(cs.Name)
			attrs[i] = ca
		default:
			return nil, fmt.Errorf("golearn: column %s has unsupported kind %v", cs.Name, cs.Type)
		}
	}
	inst := base.NewDenseInstances()
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		specs[i] = inst.AddAttribute(a)
	}
	if err := inst.Extend(f.Rows()); err != nil {
		return nil, err
	}

	nan := base.PackFloatToBytes(math.NaN())
	for c, cs := range schema.Columns {
		col, _ := f.ColumnByName(cs.Name)
		for r := 0; r < f.Rows(); r++ {
			switch col := col.(type) {
			case *j.FloatColumn:
				v, ok := col.Get(r)
				if !ok {
					inst.Set(specs[c], r, nan)
					continue
				}
				inst.Set(specs[c], r, base.PackFloatToBytes(v))
			case *j.IntColumn:
				v, ok := col.Get(r)
				if !ok {
					inst.Set(specs[c], r, nan)
					continue
				}
				inst.Set(specs[c], r, base.PackFloatToBytes(float64(v)))
			case *j.StringColumn:
				v, _ := col.Get(r)
				inst.Set(specs[c], r, attrs[c].GetSysValFromString(v))
			case *j.TimeColumn:
				var s string
				if v, ok := col.Get(r); ok {
					s = v.Format(DateLayout)
				}
				inst.Set(specs[c], r, attrs[c].GetSysValFromString(s))
			}
		}
	}
	if class != "" {
		i, ok := indexOf(schema, class)
		if !ok {
			return nil, fmt.Errorf("golearn: unknown class column %s", class)
		}
		if err := inst.AddClassAttribute(attrs[i]); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func indexOf(s j.Schema, name string) (int, bool) {
	for i, cs := range s.Columns {
		if cs.Name == name {
			return i, true
		}
	}
	return 0, false
}

// FromDenseInstances converts inst back into a frame. Float attributes
// become float columns and categorical ones string columns; a categorical
// attribute named in dates is parsed back into a time column.
func FromDenseInstances(inst *base.DenseInstances, dates ...string) (*j.Frame, error) {
	isDate := make(map[string]bool, len(dates))
	for _, d := range dates {
		isDate[d] = true
	}
	attrs := inst.AllAttributes()
	schema := j.Schema{Columns: make([]j.ColumnSchema, len(attrs))}
	specs := make([]base.AttributeSpec, len(attrs))
	for i, a := range attrs {
		k := j.KindString
		if _, ok := a.(*base.FloatAttribute); ok {
			k = j.KindFloat
		} else if isDate[a.GetName()] {
			k = j.KindTime
		}
		schema.Columns[i] = j.ColumnSchema{Name: a.GetName(), Type: k, Nullable: true}
		spec, err := inst.GetAttribute(a)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	f := j.NewFrame(schema)
	_, nrows := inst.Size()
	for r := 0; r < nrows; r++ {
		f.AppendNullRow()
		for c, cs := range schema.Columns {
			raw := inst.Get(specs[c], r)
			switch cs.Type {
			case j.KindFloat:
				if v := base.UnpackBytesToFloat(raw); !math.IsNaN(v) {
					_ = f.SetCell(r, cs.Name, v)
				}
			case j.KindTime:
				s := attrs[c].GetStringFromSysVal(raw)
				if s == "" {
					continue
				}
				d, err := time.Parse(DateLayout, s)
				if err != nil {
					return nil, fmt.Errorf("golearn: row %d column %s: %w", r, cs.Name, err)
				}
				_ = f.SetCell(r, cs.Name, d)
			default:
				if s := attrs[c].GetStringFromSysVal(raw); s != "" {
					_ = f.SetCell(r, cs.Name, s)
				}
			}
		}
	}
	return f, nil
}
