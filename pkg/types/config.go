package types

// ExtractConfig holds settings for the raw extraction pass.
type ExtractConfig struct {
	// InputDir is the directory of newline-delimited JSON record files.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives paper.csv, write_raw.csv, cite_raw.csv and the
	// three identifier map files (default ".").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// CitationMode selects the cite_raw.csv layout (default mixed).
	CitationMode CitationMode `json:"citation_mode" yaml:"citation_mode"`

	// MaxLineBytes bounds the length of a single input line (default 64 MiB).
	MaxLineBytes int `json:"max_line_bytes" yaml:"max_line_bytes"`
}

// DedupConfig holds settings for the authorship dedup pass.
type DedupConfig struct {
	// InputPath is the raw authorship table (default write_raw.csv).
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is rewritten from scratch on every run (default write.csv).
	OutputPath string `json:"output_path" yaml:"output_path"`
}

// GraphConfig holds settings for the SQLite graph store.
type GraphConfig struct {
	// TablesDir is the directory holding the extraction outputs.
	TablesDir string `json:"tables_dir" yaml:"tables_dir"`

	// DBPath is the SQLite database file (default TablesDir/graph.db).
	DBPath string `json:"db_path" yaml:"db_path"`
}
