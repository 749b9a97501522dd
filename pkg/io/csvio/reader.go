// Package csvio reads and writes delimited text files.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	iox "github.com/wdm0006/layoffs/pkg/io/ioutils"
	j "github.com/wdm0006/layoffs/pkg/janitor"
)

type ReaderOptions struct {
	HasHeader  bool
	Delimiter  rune // 0 = sniff, default ','
	SampleRows int  // for inference; default 100
	Strict     bool // if true, error on short/long records
}

type Reader struct {
	r   *csv.Reader
	opt ReaderOptions
	buf [][]string
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// Open opens a CSV file, optionally gzip compressed, and returns a Reader.
// The caller closes the returned Closer.
func Open(path string, opt ReaderOptions) (*Reader, io.Closer, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, nil, err
	}
	return NewReaderFrom(rc, opt), rc, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(r io.Reader, opt ReaderOptions) *Reader {
	br := bufio.NewReader(r)
	comma, lazy := opt.Delimiter, false
	if comma == 0 {
		sample, _ := br.Peek(4096)
		comma, lazy = sniffDelimiterAndQuotes(sample)
	}
	rr := csv.NewReader(br)
	rr.Comma = comma
	rr.LazyQuotes = lazy
	rr.FieldsPerRecord = -1
	return &Reader{r: rr, opt: opt}
}

func (r *Reader) header() ([]string, error) {
	rec, err := r.r.Read()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(rec))
	for i := range rec {
		names[i] = strings.ToValidUTF8(rec[i], "?")
	}
	// strip BOM on first header cell if present
	if len(names) > 0 {
		names[0] = strings.TrimPrefix(names[0], "\ufeff")
	}
	return names, nil
}

// ReadRaw reads a headed file into a frame of string columns, one per
// header cell. Cells are kept verbatim, blanks included; only a cell
// missing from a short record is null.
func (r *Reader) ReadRaw() (*j.Frame, error) {
	names, err := r.header()
	if errors.Is(err, io.EOF) {
		return j.NewStringFrame(nil)
	}
	if err != nil {
		return nil, err
	}
	f, err := j.NewStringFrame(names)
	if err != nil {
		return nil, err
	}
	for line := 2; ; line++ {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := r.checkWidth(len(rec), len(names), line); err != nil {
			return nil, err
		}
		f.AppendNullRow()
		row := f.Rows() - 1
		for i, name := range names {
			if i < len(rec) {
				_ = f.SetCell(row, name, strings.ToValidUTF8(rec[i], "?"))
			}
		}
	}
	return f, nil
}

func (r *Reader) checkWidth(got, want, line int) error {
	switch {
	case got < want:
		r.shortRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv short record at line %d: need %d fields, got %d", line, want, got)
		}
	case got > want:
		r.longRecords++
		if r.opt.Strict {
			return fmt.Errorf("csv long record at line %d: need %d fields, got %d", line, want, got)
		}
	}
	return nil
}

// InferSchema reads header (if present) and samples rows to determine column kinds.
func (r *Reader) InferSchema() (j.Schema, []string, error) {
	var names []string
	var rec []string
	var err error
	if r.opt.HasHeader {
		if names, err = r.header(); err != nil {
			return j.Schema{}, nil, err
		}
		rec, err = r.r.Read()
		if err == io.EOF {
			return stringSchema(names), names, nil
		}
		if err != nil {
			return j.Schema{}, nil, err
		}
	} else {
		if rec, err = r.r.Read(); err != nil {
			return j.Schema{}, nil, err
		}
		names = make([]string, len(rec))
		for i := range names {
			names[i] = "col_" + strconv.Itoa(i)
		}
	}

	sample := [][]string{rec}
	max := r.opt.SampleRows
	if max <= 0 {
		max = 100
	}
	for i := 1; i < max; i++ {
		rr, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return j.Schema{}, nil, err
		}
		sample = append(sample, rr)
	}

	kinds := inferKinds(sample, len(names))
	schema := j.Schema{Columns: make([]j.ColumnSchema, len(names))}
	for i := range names {
		schema.Columns[i] = j.ColumnSchema{Name: names[i], Type: kinds[i], Nullable: true}
	}
	// retain sampled rows for subsequent ReadAll
	r.buf = append(r.buf, sample...)
	return schema, names, nil
}

func stringSchema(names []string) j.Schema {
	s := j.Schema{Columns: make([]j.ColumnSchema, len(names))}
	for i, n := range names {
		s.Columns[i] = j.ColumnSchema{Name: n, Type: j.KindString, Nullable: true}
	}
	return s
}

// ReadAll loads the rest of the CSV into a Frame typed by schema. Blank and
// unparseable cells are null.
func (r *Reader) ReadAll(schema j.Schema) (*j.Frame, error) {
	f := j.NewFrame(schema)
	for line := 2; ; line++ {
		var rec []string
		if len(r.buf) > 0 {
			rec, r.buf = r.buf[0], r.buf[1:]
		} else {
			var err error
			rec, err = r.r.Read()
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
		}
		if err := r.checkWidth(len(rec), len(schema.Columns), line); err != nil {
			return nil, err
		}
		f.AppendNullRow()
		row := f.Rows() - 1
		for i, cs := range schema.Columns {
			if i >= len(rec) {
				continue
			}
			if v, ok := iox.ParseCell(cs.Type, strings.ToValidUTF8(rec[i], "?")); ok {
				_ = f.SetCell(row, cs.Name, v)
			}
		}
	}
	return f, nil
}

func inferKinds(rows [][]string, ncol int) []j.Kind {
	tallies := make([]iox.KindTally, ncol)
	for _, row := range rows {
		for c := 0; c < ncol && c < len(row); c++ {
			tallies[c].Observe(row[c])
		}
	}
	kinds := make([]j.Kind, ncol)
	for c, t := range tallies {
		kinds[c] = t.Kind()
	}
	return kinds
}

// sniffDelimiterAndQuotes picks the candidate delimiter that occurs most in
// the first line of sample. An odd quote count there enables LazyQuotes.
func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	best, bestCount := ',', 0
	for _, c := range []rune{',', '\t', ';', '|'} {
		if cnt := bytes.Count(sample, []byte(string(c))); cnt > bestCount {
			best, bestCount = c, cnt
		}
	}
	return best, bytes.Count(sample, []byte{'"'})%2 != 0
}

// Counts reports record-width repairs made so far.
func (r *Reader) Counts() map[string]int {
	return map[string]int{"short_records": r.shortRecords, "long_records": r.longRecords}
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}
