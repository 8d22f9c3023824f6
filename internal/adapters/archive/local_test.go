package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalArchive_Store(t *testing.T) {
	dir := t.TempDir()
	a, err := NewLocalArchive(filepath.Join(dir, "raw"))
	require.NoError(t, err)

	uri, err := a.Store(context.Background(), "uploads/u-1/jan.csv", []byte("a,b"))
	require.NoError(t, err)

	path := filepath.Join(dir, "raw", "uploads", "u-1", "jan.csv")
	assert.Equal(t, "file://"+filepath.ToSlash(path), uri)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(got))
}

func TestLocalArchive_RejectsEscapingKeys(t *testing.T) {
	a, err := NewLocalArchive(t.TempDir())
	require.NoError(t, err)

	_, err = a.Store(context.Background(), "../outside.csv", []byte("x"))
	assert.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "text/csv", contentTypeFor("uploads/a/b.CSV"))
	assert.Equal(t, "text/plain", contentTypeFor("b.txt"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("noext"))
}
