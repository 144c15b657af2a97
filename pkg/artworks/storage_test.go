package artworks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_StoreAndRead(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorage(dir)

	data := []byte("image payload")
	checksum, err := storage.Store(data)
	require.NoError(t, err)
	assert.Equal(t, Checksum(data), checksum)

	read, err := storage.Read(checksum)
	require.NoError(t, err)
	assert.Equal(t, data, read)

	// Blobs are sharded by checksum prefix.
	_, err = os.Stat(filepath.Join(dir, checksum[:2], checksum))
	require.NoError(t, err)
}

func TestStorage_StoreIdempotent(t *testing.T) {
	storage := NewStorage(t.TempDir())

	data := []byte("image payload")
	first, err := storage.Store(data)
	require.NoError(t, err)
	second, err := storage.Store(data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStorage_Delete(t *testing.T) {
	storage := NewStorage(t.TempDir())

	data := []byte("image payload")
	checksum, err := storage.Store(data)
	require.NoError(t, err)

	require.NoError(t, storage.Delete(checksum))

	_, err = storage.Read(checksum)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(errors.Cause(err)))

	// Deleting a missing blob is a no-op.
	require.NoError(t, storage.Delete(checksum))
}
