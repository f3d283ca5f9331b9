// mock_storage.go - Mock storage implementations for testing
package testutil

import (
	"errors"
	"sync"

	"github.com/pdf-processor/backend/internal/storage"
)

// ErrMockSave is returned by a MockStorage configured to fail.
var ErrMockSave = errors.New("mock: permission denied")

// MockStorage implements storage.Store in memory. Names are sanitized the
// same way LocalStore does so results line up with the real store.
type MockStorage struct {
	mu       sync.RWMutex
	fileData map[string][]byte
	saves    int
	failWith error
}

// NewMockStorage creates an empty in-memory store.
func NewMockStorage() *MockStorage {
	return &MockStorage{
		fileData: make(map[string][]byte),
	}
}

// NewFailingStorage creates a store whose every Save fails with err
// (ErrMockSave when err is nil).
func NewFailingStorage(err error) *MockStorage {
	if err == nil {
		err = ErrMockSave
	}
	m := NewMockStorage()
	m.failWith = err
	return m
}

func (m *MockStorage) Save(name string, content []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if m.failWith != nil {
		return "", m.failWith
	}

	safeName := storage.SafeBasename(name, storage.DefaultFallbackName)
	data := make([]byte, len(content))
	copy(data, content)
	m.fileData[safeName] = data
	return safeName, nil
}

// Ensure MockStorage implements storage.Store
var _ storage.Store = (*MockStorage)(nil)

// Test Helper Methods

// GetFileData returns the stored content for a sanitized name
func (m *MockStorage) GetFileData(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.fileData[name]
	if !ok {
		return nil, errors.New("file not found")
	}
	return data, nil
}

// GetFileCount returns the number of distinct stored names
func (m *MockStorage) GetFileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.fileData)
}

// SaveCalls returns how many times Save was invoked
func (m *MockStorage) SaveCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
