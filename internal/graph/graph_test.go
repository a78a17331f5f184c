// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citegraph/internal/dedup"
	"github.com/pdiddy/citegraph/internal/extract"
	"github.com/pdiddy/citegraph/internal/tables"
	"github.com/pdiddy/citegraph/pkg/types"
)

// --- test helpers ---

var corpus = []string{
	`{"id":"p1","authors":[{"ids":["a1","a2"]},{"ids":["b1"]}],"year":2020,"inCitations":["p2"],"outCitations":["p3","ext1"]}`,
	`{"id":"p2","authors":[{"ids":["a2"]}],"year":2018,"inCitations":[],"outCitations":["p1"]}`,
	`{"id":"p3","authors":[{"ids":["b1"]},{"ids":["b1"]}],"year":2021,"inCitations":["p1"],"outCitations":[]}`,
}

// buildTables runs extraction (and optionally dedup) over the fixture
// corpus and returns the tables directory.
func buildTables(t *testing.T, withDedup bool) string {
	t.Helper()
	tmp := t.TempDir()
	in := filepath.Join(tmp, "corpus")
	require.NoError(t, os.MkdirAll(in, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "part-0.json"), []byte(strings.Join(corpus, "\n")+"\n"), 0o644))

	out := filepath.Join(tmp, "tables")
	require.NoError(t, os.MkdirAll(out, 0o755))
	_, err := extract.Run(context.Background(), types.ExtractConfig{InputDir: in, OutputDir: out}, &bytes.Buffer{})
	require.NoError(t, err)

	if withDedup {
		_, err := dedup.Run(context.Background(), types.DedupConfig{
			InputPath:  filepath.Join(out, tables.AuthorshipRawFile),
			OutputPath: filepath.Join(out, tables.AuthorshipFile),
		}, &bytes.Buffer{})
		require.NoError(t, err)
	}
	return out
}

func openStore(t *testing.T, dir string) *Store {
	t.Helper()
	store, err := NewStore(types.GraphConfig{TablesDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// --- schema tests ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store := openStore(t, t.TempDir())

	for _, table := range []string{"papers", "authorship", "citations", "paper_ids", "author_ids", "author_aliases"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s should exist", table)
	}
}

func TestNewStoreCustomDBPath(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "custom.db")
	store, err := NewStore(types.GraphConfig{TablesDir: dir, DBPath: dbPath})
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

// --- load tests ---

func TestLoad(t *testing.T) {
	dir := buildTables(t, true)
	store := openStore(t, dir)

	var log bytes.Buffer
	sum, err := store.Load(context.Background(), &log)
	require.NoError(t, err)

	assert.Equal(t, LoadSummary{
		Papers:         3,
		Authorship:     4,
		Citations:      5,
		PaperIDs:       3,
		AuthorIDs:      2,
		AuthorAliases:  3,
		AuthorshipFile: tables.AuthorshipFile,
	}, sum)
	assert.Contains(t, log.String(), "loaded paper.csv (3 rows)")
	assert.NotContains(t, log.String(), "warning")

	var canonical string
	require.NoError(t, store.db.QueryRow(
		`SELECT canonical_id FROM author_aliases WHERE external_id = 'a2'`).Scan(&canonical))
	assert.Equal(t, "a1", canonical)
}

func TestLoadFallsBackToRawAuthorship(t *testing.T) {
	dir := buildTables(t, false)
	store := openStore(t, dir)

	var log bytes.Buffer
	sum, err := store.Load(context.Background(), &log)
	require.NoError(t, err)
	assert.Equal(t, tables.AuthorshipRawFile, sum.AuthorshipFile)
	assert.Equal(t, 5, sum.Authorship, "raw table keeps the duplicate row")
	assert.Contains(t, log.String(), "warning: write.csv not found")
}

func TestLoadReplacesPreviousContents(t *testing.T) {
	dir := buildTables(t, true)
	store := openStore(t, dir)

	for i := 0; i < 2; i++ {
		_, err := store.Load(context.Background(), &bytes.Buffer{})
		require.NoError(t, err)
	}

	st, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.PaperRows)
	assert.Equal(t, 5, st.CitationEdges)
}

func TestLoadMissingMaps(t *testing.T) {
	dir := t.TempDir()
	store := openStore(t, dir)

	_, err := store.Load(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paperIndex")
}

func TestLoadBadPaperRow(t *testing.T) {
	dir := buildTables(t, true)
	f, err := os.OpenFile(filepath.Join(dir, tables.PapersFile), os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("x,2020,1\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	store := openStore(t, dir)
	_, err = store.Load(context.Background(), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paper.csv row 4")

	st, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, st.PaperRows, "failed load is rolled back")
}

// --- stats and export tests ---

func expectedStats() Stats {
	return Stats{
		Papers:            3,
		PaperRows:         3,
		Authors:           2,
		AuthorIdentifiers: 3,
		AuthorshipEdges:   4,
		CitationEdges:     5,
		InternalCitations: 4,
		MinYear:           2018,
		MaxYear:           2021,
	}
}

func TestStats(t *testing.T) {
	dir := buildTables(t, true)
	store := openStore(t, dir)
	_, err := store.Load(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	st, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, expectedStats(), st)
}

func TestStatsEmpty(t *testing.T) {
	store := openStore(t, t.TempDir())
	st, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{}, st)
}

func TestExportYAML(t *testing.T) {
	dir := buildTables(t, true)
	store := openStore(t, dir)
	_, err := store.Load(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	path, err := store.ExportYAML(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "graph-stats.yaml"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Stats
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, expectedStats(), got)
	assert.Contains(t, string(data), "internal_citations: 4")
}

func TestExportJSON(t *testing.T) {
	dir := buildTables(t, true)
	store := openStore(t, dir)
	_, err := store.Load(context.Background(), &bytes.Buffer{})
	require.NoError(t, err)

	path, err := store.ExportJSON(context.Background())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Stats
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, expectedStats(), got)
}
