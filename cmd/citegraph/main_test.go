package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		dir, path, want string
	}{
		{dir: "out", path: "write.csv", want: filepath.Join("out", "write.csv")},
		{dir: "", path: "write.csv", want: "write.csv"},
		{dir: "out", path: "/tmp/write.csv", want: "/tmp/write.csv"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolvePath(tt.dir, tt.path))
	}
}

func TestConfigFlagNamesSearchedFile(t *testing.T) {
	usage := rootCmd.PersistentFlags().Lookup("config").Usage
	assert.Contains(t, usage, "./citegraph.yaml")
	assert.Contains(t, usage, "~/.config/citegraph/citegraph.yaml")
	assert.NotContains(t, usage, "config.yaml")
}

func TestRawThenDedup(t *testing.T) {
	tmp := t.TempDir()
	in := filepath.Join(tmp, "corpus")
	require.NoError(t, os.MkdirAll(in, 0o755))
	line := `{"id":"p1","authors":[{"ids":["a1"]},{"ids":["a1"]}],"year":2020,"inCitations":[],"outCitations":[]}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(in, "part-0.json"), []byte(line), 0o644))

	rootCmd.SetArgs([]string{"raw", in, "--out-dir", tmp})
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"dedup", "--out-dir", tmp})
	require.NoError(t, rootCmd.Execute())

	raw, err := os.ReadFile(filepath.Join(tmp, "write_raw.csv"))
	require.NoError(t, err)
	assert.Equal(t, "0,0\n0,0\n", string(raw))

	deduped, err := os.ReadFile(filepath.Join(tmp, "write.csv"))
	require.NoError(t, err)
	assert.Equal(t, "0,0\n", string(deduped))
}

func TestRawRequiresOneArgument(t *testing.T) {
	rootCmd.SetArgs([]string{"raw"})
	assert.Error(t, rootCmd.Execute())
}
