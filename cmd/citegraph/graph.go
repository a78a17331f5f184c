// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/citegraph/internal/graph"
	"github.com/pdiddy/citegraph/pkg/types"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Load the extracted tables into a SQLite graph store",
	Long: `Graph materializes paper.csv, write.csv (or write_raw.csv), cite_raw.csv
and the identifier maps into a SQLite database for downstream graph
construction, and reports vertex and edge counts.`,
}

// --- load subcommand ---

var graphLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Replace the graph database contents with the current tables",
	Args:  cobra.NoArgs,
	RunE:  runGraphLoad,
}

func runGraphLoad(cmd *cobra.Command, args []string) error {
	store, err := graph.NewStore(graphConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	sum, err := store.Load(context.Background(), os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("\nLoad summary: %d paper rows, %d authorship edges, %d citation edges\n",
		sum.Papers, sum.Authorship, sum.Citations)
	return nil
}

// --- stats subcommand ---

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print vertex and edge counts of the loaded graph",
	Long: `Stats prints vertex and edge counts for the loaded graph. With --export
the stats are also written to graph-stats.yaml or graph-stats.json next to
the tables.`,
	Args: cobra.NoArgs,
	RunE: runGraphStats,
}

func runGraphStats(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	export, _ := cmd.Flags().GetString("export")

	store, err := graph.NewStore(graphConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	st, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			return err
		}
	} else {
		fmt.Printf("%-20s %d\n", "papers", st.Papers)
		fmt.Printf("%-20s %d\n", "paper rows", st.PaperRows)
		fmt.Printf("%-20s %d\n", "authors", st.Authors)
		fmt.Printf("%-20s %d\n", "author identifiers", st.AuthorIdentifiers)
		fmt.Printf("%-20s %d\n", "authorship edges", st.AuthorshipEdges)
		fmt.Printf("%-20s %d\n", "citation edges", st.CitationEdges)
		fmt.Printf("%-20s %d\n", "internal citations", st.InternalCitations)
		if st.MinYear != 0 || st.MaxYear != 0 {
			fmt.Printf("%-20s %d-%d\n", "years", st.MinYear, st.MaxYear)
		}
	}

	var path string
	switch export {
	case "":
		return nil
	case "yaml":
		path, err = store.ExportYAML(ctx)
	case "json":
		path, err = store.ExportJSON(ctx)
	default:
		return fmt.Errorf("unsupported export format %q: use yaml or json", export)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stderr, "Exported to", path)
	return nil
}

// --- shared helpers ---

func graphConfig() types.GraphConfig {
	return types.GraphConfig{
		TablesDir: viper.GetString("out_dir"),
		DBPath:    viper.GetString("graph.db"),
	}
}

func init() {
	graphCmd.PersistentFlags().String("db", "", "SQLite database path (default: <out-dir>/graph.db)")
	viper.BindPFlag("graph.db", graphCmd.PersistentFlags().Lookup("db"))

	graphStatsCmd.Flags().Bool("json", false, "output stats as JSON")
	graphStatsCmd.Flags().String("export", "", "also write stats to a file: yaml or json")

	graphCmd.AddCommand(graphLoadCmd)
	graphCmd.AddCommand(graphStatsCmd)

	rootCmd.AddCommand(graphCmd)
}
