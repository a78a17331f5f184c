// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns a directory of line-delimited JSON paper records
// into the paper, authorship and citation tables, assigning dense indices
// to papers and canonical authors along the way.
package extract

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdiddy/citegraph/internal/index"
	"github.com/pdiddy/citegraph/internal/record"
	"github.com/pdiddy/citegraph/internal/tables"
	"github.com/pdiddy/citegraph/pkg/types"
)

const defaultMaxLineBytes = 64 * 1024 * 1024

// RowWriter receives the rows produced for accepted records.
// *tables.Writer satisfies it.
type RowWriter interface {
	WritePaper(types.PaperRow) error
	WriteAuthorship(types.AuthorshipEdge) error
	WriteCitation(types.CitationEdge) error
}

// Summary holds counts from an extraction run.
type Summary struct {
	Files    int
	Records  int
	Accepted int
	Skipped  map[record.Reason]int

	Papers  int
	Authors int
}

// SkippedTotal returns the number of records skipped for any reason.
func (s Summary) SkippedTotal() int {
	n := 0
	for _, c := range s.Skipped {
		n += c
	}
	return n
}

// IndexMap is an index.Assigner that can also be persisted as a JSON
// object. *index.Dense satisfies it.
type IndexMap interface {
	index.Assigner
	json.Marshaler
}

// Extractor owns the identifier maps for one run. Records must be fed in
// corpus order; index values depend on it.
type Extractor struct {
	papers    IndexMap
	canonical *index.Canonical
	authors   IndexMap
	mode      types.CitationMode
	summary   Summary
}

// New returns an Extractor with empty dense maps.
func New(mode types.CitationMode) *Extractor {
	return NewWithIndices(mode, index.NewDense(), index.NewDense())
}

// NewWithIndices returns an Extractor that assigns paper and author indices
// through the given maps.
func NewWithIndices(mode types.CitationMode, papers, authors IndexMap) *Extractor {
	if mode == "" {
		mode = types.CitationsMixed
	}
	return &Extractor{
		papers:    papers,
		canonical: index.NewCanonical(),
		authors:   authors,
		mode:      mode,
		summary:   Summary{Skipped: make(map[record.Reason]int)},
	}
}

// Process validates one record and, if accepted, indexes it and writes its
// rows to rw. Diagnostics for skipped records go to log.
func (e *Extractor) Process(rec types.PaperRecord, rw RowWriter, log io.Writer) (record.Reason, error) {
	e.summary.Records++

	paper, reason := record.Validate(rec, e.canonical)
	if reason != record.ReasonNone {
		e.summary.Skipped[reason]++
		if msg := reason.Diagnostic(); msg != "" {
			fmt.Fprintln(log, msg)
		}
		return reason, nil
	}
	e.summary.Accepted++

	paperIdx := e.papers.Assign(paper.ID)
	authorIdx := make([]int, len(paper.Authors))
	for i, a := range paper.Authors {
		canonical, _ := e.canonical.Resolve(a.IDs[0])
		authorIdx[i] = e.authors.Assign(canonical)
	}

	if err := rw.WritePaper(types.PaperRow{
		Index:       paperIdx,
		Year:        paper.Year,
		AuthorCount: paper.AuthorCount,
	}); err != nil {
		return reason, fmt.Errorf("writing paper %s: %w", paper.ID, err)
	}

	for _, ai := range authorIdx {
		if err := rw.WriteAuthorship(types.AuthorshipEdge{AuthorIndex: ai, PaperIndex: paperIdx}); err != nil {
			return reason, fmt.Errorf("writing authorship for %s: %w", paper.ID, err)
		}
	}

	for _, edge := range e.citationEdges(paper, paperIdx) {
		if err := rw.WriteCitation(edge); err != nil {
			return reason, fmt.Errorf("writing citation for %s: %w", paper.ID, err)
		}
	}

	return reason, nil
}

// citationEdges returns incoming edges followed by outgoing edges.
//
// In mixed mode the outgoing source is the paper's dense index while the
// incoming target is its external id. Consumers of cite_raw.csv depend on
// that layout; use CitationsExternal for a consistent one.
func (e *Extractor) citationEdges(paper types.Paper, paperIdx int) []types.CitationEdge {
	self := paper.ID
	if e.mode == types.CitationsMixed {
		self = strconv.Itoa(paperIdx)
	}
	edges := make([]types.CitationEdge, 0, len(paper.InCitations)+len(paper.OutCitations))
	for _, citer := range paper.InCitations {
		edges = append(edges, types.CitationEdge{Source: citer, Target: paper.ID})
	}
	for _, cited := range paper.OutCitations {
		edges = append(edges, types.CitationEdge{Source: self, Target: cited})
	}
	return edges
}

// Summary returns the counts accumulated so far.
func (e *Extractor) Summary() Summary {
	s := e.summary
	s.Papers = e.papers.Len()
	s.Authors = e.authors.Len()
	return s
}

// Persist writes the paper index, author identifier and author index maps
// to dir, replacing any earlier copies.
func (e *Extractor) Persist(dir string) error {
	for _, m := range []struct {
		name string
		data json.Marshaler
	}{
		{index.PaperIndexFile, e.papers},
		{index.AuthorIDsFile, e.canonical},
		{index.AuthorIndexFile, e.authors},
	} {
		if err := index.WriteFile(filepath.Join(dir, m.name), m.data); err != nil {
			return err
		}
	}
	return nil
}

// ProcessFile feeds every line of the file at path through Process.
// Blank lines are ignored; any other line that is not a JSON object
// aborts the run.
func (e *Extractor) ProcessFile(path string, maxLine int, rw RowWriter, log io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if maxLine <= 0 {
		maxLine = defaultMaxLineBytes
	}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLine)), maxLine)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := record.Parse(line)
		if err != nil {
			return fmt.Errorf("%s line %d: %w", path, lineNum, err)
		}
		if _, err := e.Process(rec, rw, log); err != nil {
			return fmt.Errorf("%s line %d: %w", path, lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// Run processes every file in cfg.InputDir in directory order, appending
// rows to the tables in cfg.OutputDir, then persists the identifier maps.
// Progress and skip diagnostics are written to w. Any malformed line or
// I/O failure stops the run.
func Run(ctx context.Context, cfg types.ExtractConfig, w io.Writer) (sum Summary, err error) {
	if cfg.CitationMode != "" && !cfg.CitationMode.Valid() {
		return Summary{}, fmt.Errorf("unsupported citation mode %q: use %s or %s",
			cfg.CitationMode, types.CitationsMixed, types.CitationsExternal)
	}

	entries, err := os.ReadDir(cfg.InputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("reading input directory %s: %w", cfg.InputDir, err)
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = "."
	}

	tw, err := tables.Open(outDir)
	if err != nil {
		return Summary{}, err
	}
	defer func() {
		if cerr := tw.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ex := New(cfg.CitationMode)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		select {
		case <-ctx.Done():
			return ex.Summary(), ctx.Err()
		default:
		}

		fmt.Fprintf(w, "--------Processing %s-----------\n", entry.Name())
		if err := ex.ProcessFile(filepath.Join(cfg.InputDir, entry.Name()), cfg.MaxLineBytes, tw, w); err != nil {
			return ex.Summary(), err
		}
		if err := tw.Flush(); err != nil {
			return ex.Summary(), err
		}
		ex.summary.Files++
	}

	if err := ex.Persist(outDir); err != nil {
		return ex.Summary(), err
	}

	sum = ex.Summary()
	fmt.Fprintf(w, "\nRun summary: %d files, %d records, %d accepted, %d skipped (%d papers, %d authors)\n",
		sum.Files, sum.Records, sum.Accepted, sum.SkippedTotal(), sum.Papers, sum.Authors)
	return sum, nil
}
