package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/dedup"
	"github.com/pdiddy/citegraph/internal/tables"
	"github.com/pdiddy/citegraph/pkg/types"
)

var dedupCmd = &cobra.Command{
	Use:   "dedup",
	Short: "Collapse duplicate rows of the authorship table",
	Long: `Dedup reads write_raw.csv and writes write.csv with every distinct
(author index, paper index) pair kept once, in the order first seen.
write.csv is replaced on every run. A row without exactly two fields
aborts the run.`,
	Args: cobra.NoArgs,
	RunE: runDedup,
}

func init() {
	dedupCmd.Flags().String("in", tables.AuthorshipRawFile, "raw authorship table, relative to --out-dir")
	dedupCmd.Flags().String("out", tables.AuthorshipFile, "deduplicated authorship table, relative to --out-dir")
	viper.BindPFlag("dedup.in", dedupCmd.Flags().Lookup("in"))
	viper.BindPFlag("dedup.out", dedupCmd.Flags().Lookup("out"))

	rootCmd.AddCommand(dedupCmd)
}

func runDedup(cmd *cobra.Command, args []string) error {
	outDir := viper.GetString("out_dir")
	cfg := types.DedupConfig{
		InputPath:  resolvePath(outDir, viper.GetString("dedup.in")),
		OutputPath: resolvePath(outDir, viper.GetString("dedup.out")),
	}

	_, err := dedup.Run(context.Background(), cfg, os.Stdout)
	return err
}

// resolvePath joins relative paths onto dir and leaves absolute ones alone.
func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
