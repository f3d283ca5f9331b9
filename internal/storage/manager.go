package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultFallbackName is used when an uploaded filename has no usable final segment.
const DefaultFallbackName = "default_uploaded.pdf"

// Store defines the interface for document storage.
type Store interface {
	// Save writes content under the sanitized form of name and returns the
	// name actually used on disk.
	Save(name string, content []byte) (string, error)
}

// LocalStore implements Store using a single directory on the local filesystem.
// Writes to the same name are not coordinated: the last write to finish wins.
type LocalStore struct {
	uploadDir    string
	fallbackName string
}

// NewLocalStore creates a new LocalStore rooted at uploadDir. The directory is
// created lazily on every Save, so a missing root is not an error here.
func NewLocalStore(uploadDir, fallbackName string) *LocalStore {
	if fallbackName == "" {
		fallbackName = DefaultFallbackName
	}
	return &LocalStore{
		uploadDir:    uploadDir,
		fallbackName: fallbackName,
	}
}

// Dir returns the storage root.
func (s *LocalStore) Dir() string {
	return s.uploadDir
}

// EnsureDir creates the storage root and any missing parents.
func (s *LocalStore) EnsureDir() error {
	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}
	return nil
}

// Save writes content to uploadDir/<safe basename>, truncating any existing file.
func (s *LocalStore) Save(name string, content []byte) (string, error) {
	if err := s.EnsureDir(); err != nil {
		return "", err
	}

	safeName := SafeBasename(name, s.fallbackName)
	path := filepath.Join(s.uploadDir, safeName)

	if err := os.WriteFile(path, content, 0644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return safeName, nil
}

// SafeBasename returns the final path segment of name, treating both forward
// and backward slashes as separators regardless of the host OS. Empty results
// and dot segments are replaced by fallback.
func SafeBasename(name, fallback string) string {
	// Drive-relative windows names such as "C:report.pdf".
	if len(name) >= 2 && name[1] == ':' && isASCIILetter(name[0]) {
		name = name[2:]
	}

	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	switch name {
	case "", ".", "..":
		if fallback == "" {
			return DefaultFallbackName
		}
		return fallback
	}
	return name
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
