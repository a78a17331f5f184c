// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tables appends rows to the three flat output tables of an
// extraction run: papers, authorship edges and citation edges.
package tables

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/citegraph/pkg/types"
)

// Output table file names.
const (
	PapersFile        = "paper.csv"
	AuthorshipRawFile = "write_raw.csv"
	AuthorshipFile    = "write.csv"
	CitationsFile     = "cite_raw.csv"
)

// Writer appends rows to paper.csv, write_raw.csv and cite_raw.csv. The
// files are opened in append mode and never truncated, so rows from
// earlier runs are kept.
type Writer struct {
	files      []*os.File
	papers     *csv.Writer
	authorship *csv.Writer
	citations  *csv.Writer
}

// Open opens (creating if needed) the three tables under dir for appending.
func Open(dir string) (*Writer, error) {
	w := &Writer{}
	open := func(name string) (*csv.Writer, error) {
		path := filepath.Join(dir, name)
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		w.files = append(w.files, f)
		return csv.NewWriter(f), nil
	}

	var err error
	if w.papers, err = open(PapersFile); err != nil {
		w.Close()
		return nil, err
	}
	if w.authorship, err = open(AuthorshipRawFile); err != nil {
		w.Close()
		return nil, err
	}
	if w.citations, err = open(CitationsFile); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// WritePaper appends one row to paper.csv.
func (w *Writer) WritePaper(r types.PaperRow) error {
	return w.papers.Write([]string{strconv.Itoa(r.Index), r.Year, strconv.Itoa(r.AuthorCount)})
}

// WriteAuthorship appends one row to write_raw.csv.
func (w *Writer) WriteAuthorship(e types.AuthorshipEdge) error {
	return w.authorship.Write([]string{strconv.Itoa(e.AuthorIndex), strconv.Itoa(e.PaperIndex)})
}

// WriteCitation appends one row to cite_raw.csv.
func (w *Writer) WriteCitation(e types.CitationEdge) error {
	return w.citations.Write([]string{e.Source, e.Target})
}

// Flush pushes buffered rows of all three tables to disk.
func (w *Writer) Flush() error {
	var errs []error
	for _, cw := range []*csv.Writer{w.papers, w.authorship, w.citations} {
		if cw == nil {
			continue
		}
		cw.Flush()
		errs = append(errs, cw.Error())
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("flushing tables: %w", err)
	}
	return nil
}

// Close flushes and closes the tables. It is safe to call more than once.
func (w *Writer) Close() error {
	if w.files == nil {
		return nil
	}
	errs := []error{w.Flush()}
	for _, f := range w.files {
		errs = append(errs, f.Close())
	}
	w.files = nil
	return errors.Join(errs...)
}
