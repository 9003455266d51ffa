package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAndRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	entries := []string{"/out/text/a_2024.txt", "/out/text/b_2024.txt"}

	require.NoError(t, Write(path, entries))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/out/text/a_2024.txt\n/out/text/b_2024.txt\n", string(data))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestWrite_EmptyManifestIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	require.NoError(t, Write(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	got, err := Read(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRead_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	_, err := Read(path)
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, path, notFound.Path)
}

func TestRead_SkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("/a.txt\n\n  \n/b.txt\n"), 0644))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"/a.txt", "/b.txt"}, got)
}
