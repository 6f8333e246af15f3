package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store persists artifact bytes at opaque locations. The cache owns entry
// lifecycle; the store only moves bytes.
type Store interface {
	Save(fingerprint string, data []byte) (location string, err error)
	Load(location string) ([]byte, error)
	Delete(location string) error
}

// DiskStore keeps artifacts as PNG files in a single directory, named by
// fingerprint.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the directory if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating artifact dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes data to a temp file and renames it into place, so a crash or
// cancellation mid-write never leaves a partial artifact at the final
// location.
func (s *DiskStore) Save(fingerprint string, data []byte) (string, error) {
	location := filepath.Join(s.dir, fingerprint+".png")

	tmp, err := os.CreateTemp(s.dir, fingerprint+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Rename(tmpName, location); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("placing artifact: %w", err)
	}

	return location, nil
}

// Load reads the artifact bytes back.
func (s *DiskStore) Load(location string) ([]byte, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("reading artifact: %w", err)
	}
	return data, nil
}

// Delete removes the artifact file. A missing file is not an error; the
// entry is gone either way.
func (s *DiskStore) Delete(location string) error {
	if err := os.Remove(location); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting artifact: %w", err)
	}
	return nil
}
