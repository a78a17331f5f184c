//go:build mage

// Package main contains Mage build targets for citegraph developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the pipeline expects.
var projectDirs = []string{
	"data/corpus",
	"data/tables",
}

// Init creates the project directory structure for the pipeline.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

const (
	binDir  = "bin"
	binName = "citegraph"
	cmdPkg  = "./cmd/citegraph"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Stats prints the size of the working data: corpus files and records under
// data/corpus, then the row count of each table under data/tables.
func Stats() error {
	files, records, err := corpusSize(corpusDir)
	if err != nil {
		return err
	}
	fmt.Printf("Corpus files:   %d\n", files)
	fmt.Printf("Corpus records: %d\n", records)

	for _, name := range []string{"paper.csv", "write_raw.csv", "write.csv", "cite_raw.csv"} {
		path := filepath.Join(tablesDir, name)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			fmt.Printf("%-15s -\n", name)
			continue
		}
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		rows, err := countRows(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		fmt.Printf("%-15s %d rows\n", name, rows)
	}
	return nil
}

// corpusSize counts the regular files directly under dir and the non-blank
// lines they hold. A missing dir counts as empty.
func corpusSize(dir string) (files, records int, err error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		f, err := os.Open(path)
		if err != nil {
			return 0, 0, fmt.Errorf("opening %s: %w", path, err)
		}
		n, err := countRows(f)
		f.Close()
		if err != nil {
			return 0, 0, fmt.Errorf("reading %s: %w", path, err)
		}
		files++
		records += n
	}
	return files, records, nil
}

// countRows counts non-blank lines in r. Corpus records can be long, so the
// scanner buffer is allowed to grow well past the default.
func countRows(r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	n := 0
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) > 0 {
			n++
		}
	}
	return n, sc.Err()
}
