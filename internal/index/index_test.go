// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenseAssign(t *testing.T) {
	d := NewDense()

	assert.Equal(t, 0, d.Assign("p1"))
	assert.Equal(t, 1, d.Assign("p2"))
	assert.Equal(t, 0, d.Assign("p1"), "repeat id reuses its index")
	assert.Equal(t, 2, d.Assign("p3"))
	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []string{"p1", "p2", "p3"}, d.Keys())

	i, ok := d.Lookup("p2")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = d.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 3, d.Len(), "lookup does not assign")
}

func TestCanonicalFirstWriteWins(t *testing.T) {
	c := NewCanonical()
	c.Register("a1", "a1", "a2")
	c.Register("a3", "a3", "a2")

	got, ok := c.Resolve("a2")
	require.True(t, ok)
	assert.Equal(t, "a1", got, "a2 keeps its first binding")

	got, ok = c.Resolve("a3")
	require.True(t, ok)
	assert.Equal(t, "a3", got)

	assert.Equal(t, []string{"a1", "a2", "a3"}, c.Keys())
}

func TestDenseMarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{name: "empty", want: `{}`},
		{name: "insertion order", ids: []string{"zeta", "alpha"}, want: `{"zeta": 0, "alpha": 1}`},
		{name: "escapes quotes", ids: []string{`a"b`}, want: `{"a\"b": 0}`},
		{name: "escapes non-ASCII", ids: []string{"é"}, want: `{"\u00e9": 0}`},
		{name: "surrogate pair", ids: []string{"😀"}, want: `{"\ud83d\ude00": 0}`},
		{name: "html characters kept", ids: []string{"<&>"}, want: `{"<&>": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDense()
			for _, id := range tt.ids {
				d.Assign(id)
			}
			got, err := d.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestCanonicalMarshalJSON(t *testing.T) {
	c := NewCanonical()
	c.Register("a1", "a1", "a2")
	got, err := c.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"a1": "a1", "a2": "a1"}`, string(got))
}

func TestWriteFileOverwritesAndReloads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PaperIndexFile)
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer"), 0o644))

	d := NewDense()
	d.Assign("p9")
	d.Assign("p1")
	require.NoError(t, WriteFile(path, d))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"p9": 0, "p1": 1}`, string(data))

	loaded, err := LoadDense(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"p9", "p1"}, loaded.Keys())
	assert.Equal(t, 2, loaded.Assign("p2"), "assignment continues after loaded indices")
}

func TestLoadCanonical(t *testing.T) {
	path := filepath.Join(t.TempDir(), AuthorIDsFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"a2": "a1", "a1": "a1"}`), 0o644))

	c, err := LoadCanonical(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1"}, c.Keys())
	got, _ := c.Resolve("a2")
	assert.Equal(t, "a1", got)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadDense(filepath.Join(dir, "missing"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad")
	require.NoError(t, os.WriteFile(bad, []byte(`["not", "an", "object"]`), 0o644))
	_, err = LoadDense(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected JSON object")

	wrongType := filepath.Join(dir, "wrong")
	require.NoError(t, os.WriteFile(wrongType, []byte(`{"p1": "zero"}`), 0o644))
	_, err = LoadDense(wrongType)
	require.Error(t, err)
}

func TestWriteFileFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no-such-dir", PaperIndexFile)
	err := WriteFile(path, NewDense())
	require.Error(t, err)
}
