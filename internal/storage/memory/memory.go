// Package memory implements an in-memory storage.Store for tests and
// throwaway sessions.
package memory

import (
	"errors"
	"sync"

	"github.com/brk3/habittracker/internal/storage"
)

var ErrClosed = errors.New("memory store closed")

type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool

	// FailPuts makes every Put return this error. Tests use it to exercise
	// persistence failures.
	FailPuts error
}

func New() *Store {
	return &Store{data: map[string][]byte{}}
}

func (m *Store) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte{}, v...), true, nil
}

func (m *Store) Put(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.FailPuts != nil {
		return m.FailPuts
	}
	m.data[key] = append([]byte{}, val...)

	return nil
}

func (m *Store) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

var _ storage.Store = (*Store)(nil)
