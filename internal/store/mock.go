package store

import (
	"sync"

	"github.com/ycchuang/smashqueue/internal/session"
)

// MockStore is a mock implementation of the SnapshotStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	LoadFunc  func() (session.Aggregate, bool, error)
	SaveFunc  func(agg session.Aggregate) error
	ClearFunc func() error

	// Call records
	SaveCalls  []session.Aggregate
	LoadCalls  int
	ClearCalls int
}

var _ SnapshotStore = (*MockStore)(nil)

func (m *MockStore) Load() (session.Aggregate, bool, error) {
	m.mu.Lock()
	m.LoadCalls++
	fn := m.LoadFunc
	m.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return session.Aggregate{}, false, nil
}

func (m *MockStore) Save(agg session.Aggregate) error {
	m.mu.Lock()
	m.SaveCalls = append(m.SaveCalls, agg)
	fn := m.SaveFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(agg)
	}
	return nil
}

func (m *MockStore) Clear() error {
	m.mu.Lock()
	m.ClearCalls++
	fn := m.ClearFunc
	m.mu.Unlock()

	if fn != nil {
		return fn()
	}
	return nil
}

// Saves returns a copy of every aggregate passed to Save so far.
func (m *MockStore) Saves() []session.Aggregate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]session.Aggregate(nil), m.SaveCalls...)
}
