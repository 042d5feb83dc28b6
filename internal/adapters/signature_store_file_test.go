package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignatureFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build", SignatureFileName)
	store, err := NewSignatureFileStore(path)
	require.NoError(t, err)
	_, ok := store.Get("c app/main.c.1.obj")
	assert.False(t, ok)

	store.Put("c app/main.c.1.obj", "abc")
	store.Put("nm app/app.nm.log", "def")
	store.Delete("nm app/app.nm.log")
	require.NoError(t, store.Flush())

	reloaded, err := NewSignatureFileStore(path)
	require.NoError(t, err)
	value, ok := reloaded.Get("c app/main.c.1.obj")
	require.True(t, ok)
	assert.Equal(t, "abc", value)
	_, ok = reloaded.Get("nm app/app.nm.log")
	assert.False(t, ok)
}

func TestSignatureFileStoreIgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), SignatureFileName)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	store, err := NewSignatureFileStore(path)
	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}
