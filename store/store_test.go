package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every KV implementation.
func backends(t *testing.T) map[string]KV {
	t.Helper()
	jsonStore, err := NewFileStore(filepath.Join(t.TempDir(), "json"), "json")
	require.NoError(t, err)
	yamlStore, err := NewFileStore(filepath.Join(t.TempDir(), "yaml"), "yaml")
	require.NoError(t, err)
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "storage.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]KV{
		"memory": NewMemoryStore(),
		"json":   jsonStore,
		"yaml":   yamlStore,
		"sqlite": sqliteStore,
	}
}

func TestKVOperations(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get("missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set("theme", "dark"))
			value, ok, err := kv.Get("theme")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "dark", value)

			// overwrite
			require.NoError(t, kv.Set("theme", "light"))
			value, _, err = kv.Get("theme")
			require.NoError(t, err)
			assert.Equal(t, "light", value)

			require.NoError(t, kv.Set("recentSearches", `["pasta"]`))
			require.NoError(t, kv.Delete("theme"))
			_, ok, err = kv.Get("theme")
			require.NoError(t, err)
			assert.False(t, ok)

			value, ok, err = kv.Get("recentSearches")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `["pasta"]`, value)

			// deleting a missing key is fine
			assert.NoError(t, kv.Delete("nope"))
		})
	}
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	first, err := NewFileStore(dir, "yaml")
	require.NoError(t, err)
	require.NoError(t, first.Set("theme", "dark"))
	assert.FileExists(t, filepath.Join(dir, "storage.yaml"))

	second, err := NewFileStore(dir, "yaml")
	require.NoError(t, err)
	value, ok, err := second.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)
}

func TestFileStoreCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, "json")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fs.Path(), []byte("{not json"), 0o644))

	_, _, err = fs.Get("theme")
	assert.Error(t, err)

	hook := logtest.NewGlobal()
	defer hook.Reset()

	// writes recover the document and keep the old bytes aside
	require.NoError(t, fs.Set("theme", "dark"))
	value, ok, err := fs.Get("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)

	backup, err := os.ReadFile(fs.Path() + ".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "corrupt")
}

func TestFileStoreDeleteRecoversCorruptDocument(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), "yaml")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fs.Path(), []byte("theme: [dark"), 0o644))

	require.NoError(t, fs.Delete(RecentSearchesKey))
	assert.FileExists(t, fs.Path()+".corrupt")
	_, ok, err := fs.Get("theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStoreUnreadableDocumentBlocksWrites(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir, "json")
	require.NoError(t, err)
	// a directory in place of the document cannot be read or replaced
	require.NoError(t, os.Mkdir(fs.Path(), 0o755))

	assert.Error(t, fs.Set("theme", "dark"))
	assert.NoFileExists(t, fs.Path()+".corrupt")
}

func TestFileStoreInvalidFormat(t *testing.T) {
	_, err := NewFileStore(t.TempDir(), "invalid_format")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	kv, err := Open(BackendFile, "yaml", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, kv)

	kv, err = Open(BackendSQLite, "", dir)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, kv)
	assert.FileExists(t, filepath.Join(dir, "storage.db"))
	require.NoError(t, kv.Close())

	kv, err = Open(BackendMemory, "", dir)
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, kv)

	_, err = Open("redis", "", dir)
	assert.Error(t, err)
}

func TestFileStoreConcurrentWrites(t *testing.T) {
	fs, err := NewFileStore(t.TempDir(), "json")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := string(rune('a' + i))
			if err := fs.Set(key, key); err != nil {
				t.Errorf("concurrent write failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		key := string(rune('a' + i))
		value, ok, err := fs.Get(key)
		require.NoError(t, err)
		assert.True(t, ok, key)
		assert.Equal(t, key, value)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("HOME", "/tmp/recipemenu-home")
	assert.Equal(t, filepath.Join("/tmp/recipemenu-home", ".cache", "recipemenu"), CacheDir())
}
