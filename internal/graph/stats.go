// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Stats summarizes the loaded graph.
type Stats struct {
	Papers            int `json:"papers" yaml:"papers"`
	PaperRows         int `json:"paper_rows" yaml:"paper_rows"`
	Authors           int `json:"authors" yaml:"authors"`
	AuthorIdentifiers int `json:"author_identifiers" yaml:"author_identifiers"`
	AuthorshipEdges   int `json:"authorship_edges" yaml:"authorship_edges"`
	CitationEdges     int `json:"citation_edges" yaml:"citation_edges"`

	// InternalCitations counts citation edges whose endpoints are both
	// indexed papers. An endpoint matches either an external id in
	// paper_ids or, for edges written with dense indices, an idx.
	InternalCitations int `json:"internal_citations" yaml:"internal_citations"`

	MinYear int `json:"min_year,omitempty" yaml:"min_year,omitempty"`
	MaxYear int `json:"max_year,omitempty" yaml:"max_year,omitempty"`
}

const internalCitationsQuery = `
WITH known(key) AS (
	SELECT external_id FROM paper_ids
	UNION
	SELECT CAST(idx AS TEXT) FROM paper_ids
)
SELECT count(*) FROM citations
WHERE source IN (SELECT key FROM known)
  AND target IN (SELECT key FROM known)`

// Stats computes vertex and edge counts for the loaded graph.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	counts := []struct {
		dest  *int
		query string
	}{
		{&st.Papers, `SELECT count(*) FROM paper_ids`},
		{&st.PaperRows, `SELECT count(*) FROM papers`},
		{&st.Authors, `SELECT count(*) FROM author_ids`},
		{&st.AuthorIdentifiers, `SELECT count(*) FROM author_aliases`},
		{&st.AuthorshipEdges, `SELECT count(*) FROM authorship`},
		{&st.CitationEdges, `SELECT count(*) FROM citations`},
		{&st.InternalCitations, internalCitationsQuery},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return st, fmt.Errorf("querying stats: %w", err)
		}
	}

	var minYear, maxYear sql.NullInt64
	if err := s.db.QueryRowContext(ctx,
		`SELECT MIN(CAST(year AS INTEGER)), MAX(CAST(year AS INTEGER)) FROM papers WHERE year != ''`,
	).Scan(&minYear, &maxYear); err != nil {
		return st, fmt.Errorf("querying year range: %w", err)
	}
	st.MinYear = int(minYear.Int64)
	st.MaxYear = int(maxYear.Int64)

	return st, nil
}

// ExportYAML writes the graph stats to graph-stats.yaml in the tables
// directory and returns the path written.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(st)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	path := filepath.Join(s.tablesDir, "graph-stats.yaml")
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes the graph stats to graph-stats.json in the tables
// directory and returns the path written.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	st, err := s.Stats(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	path := filepath.Join(s.tablesDir, "graph-stats.json")
	return path, os.WriteFile(path, data, 0o644)
}
