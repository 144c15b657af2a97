package artworks

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Storage is a content-addressed blob store for artwork payloads. Blobs are
// keyed by the sha256 of their content, so identical images stored from
// different sources share one file.
type Storage struct {
	dir string
}

func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// Checksum returns the content address for a payload.
func Checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Store writes the payload and returns its checksum. Storing the same
// payload twice is a no-op.
func (s *Storage) Store(data []byte) (string, error) {
	checksum := Checksum(data)
	path := s.blobPath(checksum)

	if _, err := os.Stat(path); err == nil {
		return checksum, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", errors.WithStack(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.WithStack(err)
	}

	return checksum, nil
}

// Read returns the payload for a checksum.
func (s *Storage) Read(checksum string) ([]byte, error) {
	data, err := os.ReadFile(s.blobPath(checksum))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}

// Delete removes the blob for a checksum. Deleting a missing blob is a
// silent no-op.
func (s *Storage) Delete(checksum string) error {
	err := os.Remove(s.blobPath(checksum))
	if err != nil && !os.IsNotExist(err) {
		return errors.WithStack(err)
	}
	return nil
}

func (s *Storage) blobPath(checksum string) string {
	// Shard by checksum prefix to keep directory sizes reasonable.
	return filepath.Join(s.dir, checksum[:2], checksum)
}
