package janitor

import "time"

// Column is a typed, nullable column abstraction.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	// SetNull clears cell i; the stored value is reset to the zero value.
	SetNull(i int)
	AppendNull()
	// Take returns a new column holding the given rows, in order.
	Take(rows []int) Column
}

// cells is the storage shared by every column type: a value slice and a
// parallel null mask.
type cells[T any] struct {
	name  string
	data  []T
	nulls []bool
}

func newCells[T any](name string, n int, null bool) cells[T] {
	c := cells[T]{name: name, data: make([]T, n), nulls: make([]bool, n)}
	if null {
		for i := range c.nulls {
			c.nulls[i] = true
		}
	}
	return c
}

func (c *cells[T]) Name() string        { return c.name }
func (c *cells[T]) Len() int            { return len(c.data) }
func (c *cells[T]) IsNull(i int) bool   { return c.nulls[i] }
func (c *cells[T]) Get(i int) (T, bool) { return c.data[i], !c.nulls[i] }
func (c *cells[T]) Set(i int, v T)      { c.data[i], c.nulls[i] = v, false }
func (c *cells[T]) Append(v T)          { c.data, c.nulls = append(c.data, v), append(c.nulls, false) }

func (c *cells[T]) AppendNull() {
	var zero T
	c.data, c.nulls = append(c.data, zero), append(c.nulls, true)
}

func (c *cells[T]) SetNull(i int) {
	var zero T
	c.data[i], c.nulls[i] = zero, true
}

func (c *cells[T]) take(rows []int) cells[T] {
	out := cells[T]{name: c.name, data: make([]T, len(rows)), nulls: make([]bool, len(rows))}
	for i, r := range rows {
		out.data[i], out.nulls[i] = c.data[r], c.nulls[r]
	}
	return out
}

type BoolColumn struct{ cells[bool] }

func NewBoolColumn(name string, n int) *BoolColumn { return &BoolColumn{newCells[bool](name, n, false)} }
func (c *BoolColumn) Kind() Kind                   { return KindBool }
func (c *BoolColumn) Take(rows []int) Column       { return &BoolColumn{c.take(rows)} }

type IntColumn struct{ cells[int64] }

func NewIntColumn(name string, n int) *IntColumn { return &IntColumn{newCells[int64](name, n, false)} }

// NewNullIntColumn returns a column of n null cells.
func NewNullIntColumn(name string, n int) *IntColumn { return &IntColumn{newCells[int64](name, n, true)} }
func (c *IntColumn) Kind() Kind                      { return KindInt }
func (c *IntColumn) Take(rows []int) Column          { return &IntColumn{c.take(rows)} }

type FloatColumn struct{ cells[float64] }

func NewFloatColumn(name string, n int) *FloatColumn { return &FloatColumn{newCells[float64](name, n, false)} }

// NewNullFloatColumn returns a column of n null cells.
func NewNullFloatColumn(name string, n int) *FloatColumn {
	return &FloatColumn{newCells[float64](name, n, true)}
}
func (c *FloatColumn) Kind() Kind             { return KindFloat }
func (c *FloatColumn) Take(rows []int) Column { return &FloatColumn{c.take(rows)} }

type StringColumn struct{ cells[string] }

func NewStringColumn(name string, n int) *StringColumn { return &StringColumn{newCells[string](name, n, false)} }

// NewNullStringColumn returns a column of n null cells.
func NewNullStringColumn(name string, n int) *StringColumn {
	return &StringColumn{newCells[string](name, n, true)}
}
func (c *StringColumn) Kind() Kind             { return KindString }
func (c *StringColumn) Take(rows []int) Column { return &StringColumn{c.take(rows)} }

type TimeColumn struct{ cells[time.Time] }

func NewTimeColumn(name string, n int) *TimeColumn { return &TimeColumn{newCells[time.Time](name, n, false)} }

// NewNullTimeColumn returns a column of n null cells.
func NewNullTimeColumn(name string, n int) *TimeColumn {
	return &TimeColumn{newCells[time.Time](name, n, true)}
}
func (c *TimeColumn) Kind() Kind             { return KindTime }
func (c *TimeColumn) Take(rows []int) Column { return &TimeColumn{c.take(rows)} }
