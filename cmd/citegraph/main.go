// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the citegraph CLI.
// Subcommands: raw (extraction pass), dedup (authorship dedup pass),
// graph (SQLite graph store), version.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the citegraph CLI.
var rootCmd = &cobra.Command{
	Use:   "citegraph",
	Short: "Turn paper record dumps into flat graph tables",
	Long: `citegraph converts a directory of line-delimited JSON paper records
(id, authors, year, citations) into flat CSV tables for graph construction:
papers, author-to-paper authorship edges, and citation edges.

Run "raw" over the corpus first, then "dedup" to collapse repeated
authorship edges. "graph" loads the results into SQLite.`,
	SilenceUsage: true,
}

// configName is the config file base name searched for in . and
// ~/.config/citegraph.
const configName = "citegraph"

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", fmt.Sprintf("config file (default: ./%[1]s.yaml or ~/.config/citegraph/%[1]s.yaml)", configName))
	rootCmd.PersistentFlags().String("out-dir", ".", "directory holding the output tables and identifier maps")
	viper.BindPFlag("out_dir", rootCmd.PersistentFlags().Lookup("out-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "citegraph"))
		}
	}

	viper.SetEnvPrefix("CITEGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
