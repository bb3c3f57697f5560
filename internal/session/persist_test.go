package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.json")
	return NewFileStore(path), path
}

func TestFileStoreRoundTrip(t *testing.T) {
	fs, _ := tempStore(t)

	fs.Set("token", "tok_abc", time.Hour)
	assert.Equal(t, "tok_abc", fs.Get("token"))

	fs.Remove("token")
	assert.Empty(t, fs.Get("token"))
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	fs, path := tempStore(t)
	fs.Set("token", "tok_abc", time.Hour)

	reopened := NewFileStore(path)
	assert.Equal(t, "tok_abc", reopened.Get("token"))
}

func TestFileStoreExpiry(t *testing.T) {
	fs, _ := tempStore(t)

	fs.Set("token", "tok_abc", time.Nanosecond)
	time.Sleep(time.Millisecond)

	assert.Empty(t, fs.Get("token"))
}

func TestFileStoreZeroTTLNeverExpires(t *testing.T) {
	fs, _ := tempStore(t)
	fs.Set("key", "value", 0)
	assert.Equal(t, "value", fs.Get("key"))
}

func TestFileStoreCorruptFileIsEmpty(t *testing.T) {
	fs, path := tempStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	assert.Empty(t, fs.Get("token"))

	// A write replaces the corrupt file
	fs.Set("token", "tok_new", time.Hour)
	assert.Equal(t, "tok_new", fs.Get("token"))
}

func TestFileStorePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	fs, path := tempStore(t)
	fs.Set("token", "tok_abc", time.Hour)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestFileStoreRemoveMissingKeyIsNoop(t *testing.T) {
	fs, path := tempStore(t)

	fs.Remove("never-set")

	// No file should have been created by a no-op remove
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
