// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph loads the extraction tables and identifier maps into a
// SQLite database so downstream tools can build vertex and edge sets
// with SQL instead of re-parsing CSV.
package graph

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/citegraph/internal/index"
	"github.com/pdiddy/citegraph/internal/tables"
	"github.com/pdiddy/citegraph/pkg/types"
)

const dbFile = "graph.db"

// Store manages the graph SQLite database.
type Store struct {
	db        *sql.DB
	tablesDir string
}

// NewStore opens or creates the graph database. It defaults to
// TablesDir/graph.db and creates the schema if it does not exist.
func NewStore(cfg types.GraphConfig) (*Store, error) {
	tablesDir := cfg.TablesDir
	if tablesDir == "" {
		tablesDir = "."
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = filepath.Join(tablesDir, dbFile)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, tablesDir: tablesDir}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			idx INTEGER NOT NULL,
			year TEXT,
			author_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_idx ON papers(idx)`,
		`CREATE TABLE IF NOT EXISTS authorship (
			author_idx INTEGER NOT NULL,
			paper_idx INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_authorship_paper ON authorship(paper_idx)`,
		`CREATE TABLE IF NOT EXISTS citations (
			source TEXT NOT NULL,
			target TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_source ON citations(source)`,
		`CREATE INDEX IF NOT EXISTS idx_citations_target ON citations(target)`,
		`CREATE TABLE IF NOT EXISTS paper_ids (
			external_id TEXT PRIMARY KEY,
			idx INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS author_ids (
			canonical_id TEXT PRIMARY KEY,
			idx INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS author_aliases (
			external_id TEXT PRIMARY KEY,
			canonical_id TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// LoadSummary holds row counts from a Load.
type LoadSummary struct {
	Papers        int
	Authorship    int
	Citations     int
	PaperIDs      int
	AuthorIDs     int
	AuthorAliases int

	// AuthorshipFile is the authorship table that was loaded: write.csv
	// when present, write_raw.csv otherwise.
	AuthorshipFile string
}

// Load replaces the database contents with the tables and identifier maps
// found in the tables directory. Everything is loaded in one transaction.
func (s *Store) Load(ctx context.Context, w io.Writer) (LoadSummary, error) {
	var sum LoadSummary

	paperIdx, err := index.LoadDense(filepath.Join(s.tablesDir, index.PaperIndexFile))
	if err != nil {
		return sum, err
	}
	authorIdx, err := index.LoadDense(filepath.Join(s.tablesDir, index.AuthorIndexFile))
	if err != nil {
		return sum, err
	}
	aliases, err := index.LoadCanonical(filepath.Join(s.tablesDir, index.AuthorIDsFile))
	if err != nil {
		return sum, err
	}

	sum.AuthorshipFile = tables.AuthorshipFile
	if _, err := os.Stat(filepath.Join(s.tablesDir, sum.AuthorshipFile)); errors.Is(err, os.ErrNotExist) {
		sum.AuthorshipFile = tables.AuthorshipRawFile
		fmt.Fprintf(w, "warning: %s not found, loading %s\n", tables.AuthorshipFile, tables.AuthorshipRawFile)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return sum, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"papers", "authorship", "citations", "paper_ids", "author_ids", "author_aliases"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return sum, fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if sum.Papers, err = s.loadCSV(ctx, tx, tables.PapersFile, 3,
		`INSERT INTO papers (idx, year, author_count) VALUES (?, ?, ?)`,
		func(row []string) ([]any, error) {
			idx, err := strconv.Atoi(row[0])
			if err != nil {
				return nil, err
			}
			n, err := strconv.Atoi(row[2])
			if err != nil {
				return nil, err
			}
			return []any{idx, row[1], n}, nil
		}); err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "loaded %s (%d rows)\n", tables.PapersFile, sum.Papers)

	if sum.Authorship, err = s.loadCSV(ctx, tx, sum.AuthorshipFile, 2,
		`INSERT INTO authorship (author_idx, paper_idx) VALUES (?, ?)`,
		func(row []string) ([]any, error) {
			a, err := strconv.Atoi(row[0])
			if err != nil {
				return nil, err
			}
			p, err := strconv.Atoi(row[1])
			if err != nil {
				return nil, err
			}
			return []any{a, p}, nil
		}); err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "loaded %s (%d rows)\n", sum.AuthorshipFile, sum.Authorship)

	if sum.Citations, err = s.loadCSV(ctx, tx, tables.CitationsFile, 2,
		`INSERT INTO citations (source, target) VALUES (?, ?)`,
		func(row []string) ([]any, error) {
			return []any{row[0], row[1]}, nil
		}); err != nil {
		return sum, err
	}
	fmt.Fprintf(w, "loaded %s (%d rows)\n", tables.CitationsFile, sum.Citations)

	if sum.PaperIDs, err = insertDense(ctx, tx, `INSERT INTO paper_ids (external_id, idx) VALUES (?, ?)`, paperIdx); err != nil {
		return sum, fmt.Errorf("loading %s: %w", index.PaperIndexFile, err)
	}
	if sum.AuthorIDs, err = insertDense(ctx, tx, `INSERT INTO author_ids (canonical_id, idx) VALUES (?, ?)`, authorIdx); err != nil {
		return sum, fmt.Errorf("loading %s: %w", index.AuthorIndexFile, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO author_aliases (external_id, canonical_id) VALUES (?, ?)`)
	if err != nil {
		return sum, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()
	for _, id := range aliases.Keys() {
		canonical, _ := aliases.Resolve(id)
		if _, err := stmt.ExecContext(ctx, id, canonical); err != nil {
			return sum, fmt.Errorf("inserting author alias %s: %w", id, err)
		}
		sum.AuthorAliases++
	}
	fmt.Fprintf(w, "loaded identifier maps (%d papers, %d authors, %d author ids)\n",
		sum.PaperIDs, sum.AuthorIDs, sum.AuthorAliases)

	if err := tx.Commit(); err != nil {
		return sum, fmt.Errorf("committing load: %w", err)
	}
	return sum, nil
}

// loadCSV inserts every row of the named table file using insert. convert
// maps a CSV row onto the statement arguments.
func (s *Store) loadCSV(ctx context.Context, tx *sql.Tx, name string, fields int, insert string, convert func([]string) ([]any, error)) (int, error) {
	path := filepath.Join(s.tablesDir, name)
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("preparing insert for %s: %w", name, err)
	}
	defer stmt.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = fields

	n := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, fmt.Errorf("reading %s: %w", name, err)
		}
		args, err := convert(row)
		if err != nil {
			return n, fmt.Errorf("%s row %d: %w", name, n+1, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return n, fmt.Errorf("inserting %s row %d: %w", name, n+1, err)
		}
		n++
	}
	return n, nil
}

func insertDense(ctx context.Context, tx *sql.Tx, insert string, d *index.Dense) (int, error) {
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, id := range d.Keys() {
		idx, _ := d.Lookup(id)
		if _, err := stmt.ExecContext(ctx, id, idx); err != nil {
			return n, fmt.Errorf("inserting %s: %w", id, err)
		}
		n++
	}
	return n, nil
}
