// Package ioutils holds helpers shared by the file formats: gzip-aware
// open and create, and cell kind inference for typed reads.
package ioutils

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OpenMaybeCompressed opens a file path or stdin ("-" or "") for reading.
// Input ending in .gz or starting with the gzip magic is decompressed.
func OpenMaybeCompressed(path string) (io.ReadCloser, error) {
	if path == "-" || path == "" {
		return sniffGzip(bufio.NewReader(os.Stdin), func() error { return nil })
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := sniffGzip(bufio.NewReader(f), f.Close)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return rc, nil
}

func sniffGzip(br *bufio.Reader, closeFn func() error) (io.ReadCloser, error) {
	b, err := br.Peek(2)
	if err != nil || b[0] != 0x1f || b[1] != 0x8b {
		return readCloser{Reader: br, closeFn: closeFn}, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, err
	}
	return readCloser{Reader: zr, closeFn: func() error { _ = zr.Close(); return closeFn() }}, nil
}

// CreateMaybeCompressed creates a file (or stdout for "-" or "") and returns
// a buffered writer. A path ending in .gz is gzip compressed.
func CreateMaybeCompressed(path string) (io.WriteCloser, error) {
	if path == "-" || path == "" {
		bw := bufio.NewWriter(os.Stdout)
		return writeCloser{Writer: bw, closeFn: bw.Flush}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(f)
	if filepath.Ext(path) == ".gz" {
		zw := gzip.NewWriter(bw)
		return writeCloser{Writer: zw, closeFn: func() error {
			if err := zw.Close(); err != nil {
				_ = f.Close()
				return err
			}
			if err := bw.Flush(); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		}}, nil
	}
	return writeCloser{Writer: bw, closeFn: func() error {
		if err := bw.Flush(); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}}, nil
}

// Format returns the lower-cased file extension of path without the dot,
// ignoring a trailing .gz: "events.csv.gz" is "csv".
func Format(path string) string {
	path = strings.TrimSuffix(strings.ToLower(path), ".gz")
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

type readCloser struct {
	io.Reader
	closeFn func() error
}

func (r readCloser) Close() error { return r.closeFn() }

type writeCloser struct {
	io.Writer
	closeFn func() error
}

func (w writeCloser) Close() error { return w.closeFn() }
