package janitor

import (
	"fmt"
	"time"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Frame is a columnar container for tabular data.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		f.cols[i] = newColumn(cs.Name, cs.Type)
		f.index[cs.Name] = i
	}
	return f
}

// NewStringFrame returns an empty frame of nullable string columns, the
// shape loaders produce before any typing happens.
func NewStringFrame(names []string) (*Frame, error) {
	s := Schema{Columns: make([]ColumnSchema, len(names))}
	seen := make(map[string]struct{}, len(names))
	for i, n := range names {
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("duplicate column: %s", n)
		}
		seen[n] = struct{}{}
		s.Columns[i] = ColumnSchema{Name: n, Type: KindString, Nullable: true}
	}
	return NewFrame(s), nil
}

func newColumn(name string, k Kind) Column {
	switch k {
	case KindBool:
		return NewBoolColumn(name, 0)
	case KindInt:
		return NewIntColumn(name, 0)
	case KindFloat:
		return NewFloatColumn(name, 0)
	case KindString:
		return NewStringColumn(name, 0)
	case KindTime:
		return NewTimeColumn(name, 0)
	default:
		panic("invalid column kind")
	}
}

// fromColumns builds a frame around already populated columns of equal length.
func fromColumns(cols []Column, nrows int) *Frame {
	f := &Frame{cols: cols, index: make(map[string]int, len(cols)), nrows: nrows}
	f.schema.Columns = make([]ColumnSchema, len(cols))
	for i, c := range cols {
		f.schema.Columns[i] = ColumnSchema{Name: c.Name(), Type: c.Kind(), Nullable: true}
		f.index[c.Name()] = i
	}
	return f
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Take returns a new frame holding the given rows, in the given order.
func (f *Frame) Take(rows []int) *Frame {
	cols := make([]Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.Take(rows)
	}
	return fromColumns(cols, len(rows))
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	rows := make([]int, f.nrows)
	for i := range rows {
		rows[i] = i
	}
	return f.Take(rows)
}

// Filter returns a new frame with the rows for which keep returns true.
func (f *Frame) Filter(keep func(row int) bool) *Frame {
	rows := make([]int, 0, f.nrows)
	for r := 0; r < f.nrows; r++ {
		if keep(r) {
			rows = append(rows, r)
		}
	}
	return f.Take(rows)
}

// Select returns a copy of f restricted to the named columns, in that order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	all := make([]int, f.nrows)
	for i := range all {
		all[i] = i
	}
	cols := make([]Column, len(names))
	for i, n := range names {
		c, ok := f.ColumnByName(n)
		if !ok {
			return nil, fmt.Errorf("unknown column: %s", n)
		}
		cols[i] = c.Take(all)
	}
	return fromColumns(cols, f.nrows), nil
}

// DropColumn returns a copy of f without the named column. Unknown names are ignored.
func (f *Frame) DropColumn(name string) *Frame {
	keep := make([]string, 0, len(f.cols))
	for _, cs := range f.schema.Columns {
		if cs.Name != name {
			keep = append(keep, cs.Name)
		}
	}
	out, _ := f.Select(keep...)
	return out
}

// AddColumn appends col to f. The column must have one cell per row.
func (f *Frame) AddColumn(col Column) error {
	if _, dup := f.index[col.Name()]; dup {
		return fmt.Errorf("column %s already exists", col.Name())
	}
	if col.Len() != f.nrows {
		return fmt.Errorf("column %s has %d cells, frame has %d rows", col.Name(), col.Len(), f.nrows)
	}
	f.index[col.Name()] = len(f.cols)
	f.cols = append(f.cols, col)
	f.schema.Columns = append(f.schema.Columns, ColumnSchema{Name: col.Name(), Type: col.Kind(), Nullable: true})
	return nil
}

// ReplaceColumn swaps the column with the same name for col, possibly changing its kind.
func (f *Frame) ReplaceColumn(col Column) error {
	i, ok := f.index[col.Name()]
	if !ok {
		return fmt.Errorf("unknown column: %s", col.Name())
	}
	if col.Len() != f.nrows {
		return fmt.Errorf("column %s has %d cells, frame has %d rows", col.Name(), col.Len(), f.nrows)
	}
	f.cols[i] = col
	f.schema.Columns[i].Type = col.Kind()
	return nil
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		c.AppendNull()
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist).
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	if v == nil {
		f.cols[i].SetNull(row)
		return nil
	}
	switch col := f.cols[i].(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool", name)
		}
		col.Set(row, b)
	case *IntColumn:
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("column %s expects int/int64", name)
		}
	case *FloatColumn:
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("column %s expects float64", name)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.Set(row, s)
	case *TimeColumn:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time", name)
		}
		col.Set(row, t)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}
