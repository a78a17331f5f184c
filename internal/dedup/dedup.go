// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dedup collapses repeated (author index, paper index) rows of the
// raw authorship table, keeping the first occurrence of each pair.
package dedup

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/citegraph/internal/tables"
	"github.com/pdiddy/citegraph/pkg/types"
)

// ErrMalformedRow is returned when an authorship row does not have
// exactly two fields.
var ErrMalformedRow = errors.New("malformed authorship row")

// Pair is one authorship row. Values are kept as written; they are not
// parsed as integers.
type Pair struct {
	Author string
	Paper  string
}

// Result holds counts from a dedup run.
type Result struct {
	Read    int
	Written int
}

// Duplicates returns the number of rows dropped.
func (r Result) Duplicates() int {
	return r.Read - r.Written
}

// Collect reads every row of r and returns the distinct pairs in the order
// they were first seen, along with the number of rows read. Rows are read
// one line at a time so that a blank line counts as a row with no fields
// instead of being skipped.
func Collect(r io.Reader) ([]Pair, int, error) {
	scanner := bufio.NewScanner(r)

	seen := make(map[Pair]struct{})
	var pairs []Pair
	read := 0
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			return nil, read, fmt.Errorf("%w: line %d has 0 fields", ErrMalformedRow, lineNum)
		}

		cr := csv.NewReader(strings.NewReader(line))
		cr.FieldsPerRecord = 2
		row, err := cr.Read()
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				return nil, read, fmt.Errorf("%w: line %d has %d fields", ErrMalformedRow, lineNum, len(row))
			}
			return nil, read, fmt.Errorf("reading authorship row %d: %w", lineNum, err)
		}

		read++
		p := Pair{Author: row[0], Paper: row[1]}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		pairs = append(pairs, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, read, fmt.Errorf("reading authorship rows: %w", err)
	}
	return pairs, read, nil
}

// WritePairs writes pairs to w as two-column CSV.
func WritePairs(w io.Writer, pairs []Pair) error {
	cw := csv.NewWriter(w)
	for _, p := range pairs {
		if err := cw.Write([]string{p.Author, p.Paper}); err != nil {
			return fmt.Errorf("writing authorship row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Dedup copies the distinct rows of r to w in first-seen order.
func Dedup(r io.Reader, w io.Writer) (Result, error) {
	pairs, read, err := Collect(r)
	if err != nil {
		return Result{Read: read}, err
	}
	if err := WritePairs(w, pairs); err != nil {
		return Result{Read: read}, err
	}
	return Result{Read: read, Written: len(pairs)}, nil
}

// Run deduplicates cfg.InputPath into cfg.OutputPath. The whole input is
// read before the output is touched, and the output is replaced through a
// temporary file, so InputPath and OutputPath may name the same file.
func Run(ctx context.Context, cfg types.DedupConfig, w io.Writer) (Result, error) {
	in := cfg.InputPath
	if in == "" {
		in = tables.AuthorshipRawFile
	}
	out := cfg.OutputPath
	if out == "" {
		out = tables.AuthorshipFile
	}

	f, err := os.Open(in)
	if err != nil {
		return Result{}, fmt.Errorf("opening %s: %w", in, err)
	}
	pairs, read, err := Collect(f)
	f.Close()
	if err != nil {
		return Result{Read: read}, fmt.Errorf("%s: %w", in, err)
	}

	if err := ctx.Err(); err != nil {
		return Result{Read: read}, err
	}

	if err := writeAtomic(out, pairs); err != nil {
		return Result{Read: read}, err
	}

	res := Result{Read: read, Written: len(pairs)}
	fmt.Fprintf(w, "deduplicated %s -> %s: %d rows read, %d written, %d duplicates removed\n",
		in, out, res.Read, res.Written, res.Duplicates())
	return res, nil
}

// writeAtomic writes pairs to a temporary file next to path and renames it
// over path.
func writeAtomic(path string, pairs []Pair) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".dedup-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writeErr := WritePairs(tmpFile, pairs)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
