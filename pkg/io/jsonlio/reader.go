// Package jsonlio reads and writes newline-delimited JSON objects.
package jsonlio

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	iox "github.com/wdm0006/layoffs/pkg/io/ioutils"
	j "github.com/wdm0006/layoffs/pkg/janitor"
)

type ReaderOptions struct {
	SampleRows int
}

type Reader struct {
	dec  *json.Decoder
	opt  ReaderOptions
	buf  []map[string]any
	keys []string
}

// Open opens a JSONL file, optionally gzip compressed. The caller closes
// the returned Closer.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	return NewReaderFrom(rc, opt), rc, nil
}

func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Reader{dec: dec, opt: opt}
}

func (r *Reader) next() (map[string]any, error) {
	if len(r.buf) > 0 {
		m := r.buf[0]
		r.buf = r.buf[1:]
		return m, nil
	}
	var m map[string]any
	if err := r.dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadRaw reads every object into a frame of string columns, one per key
// seen anywhere in the input, sorted by name. JSON null and a missing key
// are null; numbers keep their literal text; other scalars and nested
// values are rendered as JSON.
func (r *Reader) ReadRaw() (*j.Frame, error) {
	var objs []map[string]any
	keys := map[string]struct{}{}
	for {
		m, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("jsonl object %d: %w", len(objs)+1, err)
		}
		objs = append(objs, m)
		for k := range m {
			keys[k] = struct{}{}
		}
	}
	f, err := j.NewStringFrame(sortedKeys(keys))
	if err != nil {
		return nil, err
	}
	for row, m := range objs {
		f.AppendNullRow()
		for k, v := range m {
			if s, ok := text(v); ok {
				_ = f.SetCell(row, k, s)
			}
		}
	}
	return f, nil
}

func text(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (r *Reader) InferSchema() (j.Schema, error) {
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	var sample []map[string]any
	keysSet := map[string]struct{}{}
	for len(sample) < max {
		var m map[string]any
		if err := r.dec.Decode(&m); err != nil {
			if err == io.EOF {
				break
			}
			return j.Schema{}, err
		}
		sample = append(sample, m)
		for k := range m {
			keysSet[k] = struct{}{}
		}
	}
	r.buf = append(r.buf, sample...)
	r.keys = sortedKeys(keysSet)
	kinds := inferKinds(sample, r.keys)
	schema := j.Schema{Columns: make([]j.ColumnSchema, len(r.keys))}
	for i, k := range r.keys {
		schema.Columns[i] = j.ColumnSchema{Name: k, Type: kinds[i], Nullable: true}
	}
	return schema, nil
}

func (r *Reader) ReadAll(schema j.Schema) (*j.Frame, error) {
	f := j.NewFrame(schema)
	for {
		m, err := r.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		f.AppendNullRow()
		setRowFromMap(f, f.Rows()-1, m)
	}
	return f, nil
}

func setRowFromMap(f *j.Frame, row int, m map[string]any) {
	for _, cs := range f.Schema().Columns {
		s, ok := text(m[cs.Name])
		if !ok {
			continue
		}
		if cs.Type == j.KindString {
			_ = f.SetCell(row, cs.Name, s)
			continue
		}
		if v, ok := iox.ParseCell(cs.Type, s); ok {
			_ = f.SetCell(row, cs.Name, v)
		}
	}
}

// inferKinds votes on the text form of each value, so a JSON number and a
// numeric string count the same.
func inferKinds(sample []map[string]any, keys []string) []j.Kind {
	kinds := make([]j.Kind, len(keys))
	for i, k := range keys {
		var t iox.KindTally
		for _, m := range sample {
			if s, ok := text(m[k]); ok {
				t.Observe(s)
			}
		}
		kinds[i] = t.Kind()
	}
	return kinds
}
