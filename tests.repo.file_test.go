package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFileStore(t *testing.T) (CatalogStorage, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "library_data.json")
	return NewFileCatalogStorage(zap.NewNop(), path), path
}

// Ensure the file store round-trips the whole snapshot in saved order.
func TestFileStore_SaveAndLoad(t *testing.T) {
	fs, _ := newTestFileStore(t)

	books := []Book{
		{ISBN: "3", Title: "Clean Code", Author: "Robert Martin", Year: 2008, Available: true},
		{ISBN: "1", Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Year: 1999, Available: false, Borrower: "Bob"},
		{ISBN: "2", Title: "Refactoring", Author: "Martin Fowler", Year: 2018, Available: true},
	}
	require.NoError(t, fs.Save(context.TODO(), books))

	loaded, err := fs.Load(context.TODO())
	assert.NoError(t, err)
	assert.Equal(t, books, loaded)
}

// Ensure a missing snapshot file means a fresh catalog, not an error.
func TestFileStore_LoadMissingFile(t *testing.T) {
	fs, _ := newTestFileStore(t)

	books, err := fs.Load(context.TODO())
	assert.NoError(t, err)
	assert.Empty(t, books)
}

// Ensure an unparsable snapshot file is skipped instead of failing the startup.
func TestFileStore_LoadCorruptFile(t *testing.T) {
	fs, path := newTestFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json at all"), 0o644))

	books, err := fs.Load(context.TODO())
	assert.NoError(t, err)
	assert.Empty(t, books)
}

// Ensure a snapshot with an unsupported version is skipped as well.
func TestFileStore_LoadUnsupportedVersion(t *testing.T) {
	fs, path := newTestFileStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"version":99,"books":[{"isbn":"1"}]}`), 0o644))

	books, err := fs.Load(context.TODO())
	assert.NoError(t, err)
	assert.Empty(t, books)
}

// Ensure each save fully replaces the previous snapshot and
// leaves no temporary file behind.
func TestFileStore_SaveOverwrites(t *testing.T) {
	fs, path := newTestFileStore(t)

	require.NoError(t, fs.Save(context.TODO(), []Book{
		{ISBN: "1", Title: "Go", Author: "Alice", Year: 2020, Available: true},
		{ISBN: "2", Title: "Rust", Author: "Bob", Year: 2021, Available: true},
	}))
	require.NoError(t, fs.Save(context.TODO(), []Book{
		{ISBN: "2", Title: "Rust", Author: "Bob", Year: 2021, Available: true},
	}))

	loaded, err := fs.Load(context.TODO())
	assert.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "2", loaded[0].ISBN)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

// Ensure an empty record set is persisted and reloaded as such.
func TestFileStore_SaveEmptyCatalog(t *testing.T) {
	fs, _ := newTestFileStore(t)

	require.NoError(t, fs.Save(context.TODO(), []Book{}))
	loaded, err := fs.Load(context.TODO())
	assert.NoError(t, err)
	assert.Empty(t, loaded)
}
