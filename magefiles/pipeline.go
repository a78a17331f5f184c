//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	corpusDir = "data/corpus"
	tablesDir = "data/tables"
)

func citegraph(args ...string) error {
	return sh.RunV(filepath.Join(binDir, binName), args...)
}

// Raw runs the extraction pass over data/corpus into data/tables.
// Existing tables are removed first so the run starts clean.
func Raw() error {
	mg.Deps(Build, Init)
	for _, name := range []string{"paper.csv", "write_raw.csv", "cite_raw.csv"} {
		if err := os.Remove(filepath.Join(tablesDir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", name, err)
		}
	}
	return citegraph("raw", corpusDir, "--out-dir", tablesDir)
}

// Dedup collapses duplicate authorship rows in data/tables.
func Dedup() error {
	mg.Deps(Build)
	return citegraph("dedup", "--out-dir", tablesDir)
}

// Graph runs both passes and loads the result into data/tables/graph.db.
func Graph() error {
	mg.SerialDeps(Raw, Dedup)
	if err := citegraph("graph", "load", "--out-dir", tablesDir); err != nil {
		return err
	}
	return citegraph("graph", "stats", "--out-dir", tablesDir, "--export", "yaml")
}
