package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldCheck(t *testing.T) {
	tests := []struct {
		word string
		max  int
		want bool
	}{
		{"word", 0, true},
		{"doesn't", 0, true},
		{"giella-teknologiija", 0, true},
		{"Čáhci", 0, true},
		{"", 0, false},
		{"1984", 0, false},
		{"3.14", 0, false},
		{"e-mail@host", 0, false},
		{"zzzz", 0, false},
		{"zz", 0, true},
		{"longword", 4, false},
		{"four", 4, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShouldCheck(tt.word, tt.max), tt.word)
	}
}

func TestCreateRankList(t *testing.T) {
	assert.Equal(t, []uint16{}, CreateRankList(0))
	assert.Equal(t, []uint16{1, 2, 3}, CreateRankList(3))
}

func TestTOMLRecovery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[a]\nn = 3\nf = 1.5\ni = 2\nb = true\ns = \"x\"\n"), 0o644))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	sec, ok := ExtractSection(data, "a")
	require.True(t, ok)

	n, ok := ExtractInt64(sec, "n")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	f, ok := ExtractFloat(sec, "f")
	assert.True(t, ok)
	assert.Equal(t, 1.5, f)
	f, ok = ExtractFloat(sec, "i")
	assert.True(t, ok)
	assert.Equal(t, 2.0, f)
	b, ok := ExtractBool(sec, "b")
	assert.True(t, ok)
	assert.True(t, b)
	s, ok := ExtractString(sec, "s")
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	_, ok = ExtractBool(sec, "n")
	assert.False(t, ok)

	require.NoError(t, os.WriteFile(path, []byte("[a\nbroken"), 0o644))
	_, err = ParseTOMLWithRecovery(path)
	assert.Error(t, err)
}

func TestSaveTOMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.toml")
	in := struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
	}{"se", 4}
	require.NoError(t, SaveTOMLFile(in, path))

	var out struct {
		Name  string `toml:"name"`
		Count int    `toml:"count"`
	}
	require.NoError(t, LoadTOMLFile(path, &out))
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Count, out.Count)
}

func TestIsArchiveAndFind(t *testing.T) {
	dir := t.TempDir()
	zhfst := filepath.Join(dir, "se.zhfst")
	require.NoError(t, os.WriteFile(zhfst, []byte("PK"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	bundle := filepath.Join(dir, "fi")
	for _, sub := range []string{"lexicon", "mutator"} {
		require.NoError(t, os.MkdirAll(filepath.Join(bundle, sub), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(bundle, sub, "meta"), []byte{0x80}, 0o644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))

	assert.True(t, IsArchive(zhfst))
	assert.True(t, IsArchive(bundle))
	assert.False(t, IsArchive(filepath.Join(dir, "empty")))
	assert.False(t, IsArchive(filepath.Join(dir, "notes.txt")))
	assert.Equal(t, []string{bundle, zhfst}, FindArchives(dir))

	pr := &PathResolver{executableDir: dir, configDir: filepath.Join(dir, "cfg")}
	got, err := pr.ResolveArchive(filepath.Join(dir, "se.zhfst"))
	require.NoError(t, err)
	assert.Equal(t, zhfst, got)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "cfg", SpellersDir), 0o755))
	sme := filepath.Join(dir, "cfg", SpellersDir, "sme.zhfst")
	require.NoError(t, os.WriteFile(sme, []byte("PK"), 0o644))
	got, err = pr.ResolveArchive("sme")
	require.NoError(t, err)
	assert.Equal(t, sme, got)

	_, err = pr.ResolveArchive("nope")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
