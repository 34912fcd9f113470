package store

import (
	"sync"

	"github.com/rem1niscence/smt/crypto"
	"github.com/rem1niscence/smt/smt"
)

type branchKey struct {
	height int
	node   crypto.H256
}

// MemoryStore is a map-backed smt.Store for this package's tests and any embedder that doesn't need
// durability across restarts. (The smt package's own tests use a private copy, to avoid an import
// cycle.)
type MemoryStore struct {
	mu       sync.RWMutex
	branches map[branchKey][2]crypto.H256
	leaves   map[crypto.H256]crypto.H256
}

var _ smt.Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		branches: make(map[branchKey][2]crypto.H256),
		leaves:   make(map[crypto.H256]crypto.H256),
	}
}

func (m *MemoryStore) GetBranch(height int, node crypto.H256) (lhs, rhs crypto.H256, found bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.branches[branchKey{height, node}]
	return v[0], v[1], ok, nil
}

func (m *MemoryStore) InsertBranch(height int, node crypto.H256, lhs, rhs crypto.H256) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branches[branchKey{height, node}] = [2]crypto.H256{lhs, rhs}
	return nil
}

func (m *MemoryStore) RemoveBranch(height int, node crypto.H256) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.branches, branchKey{height, node})
	return nil
}

func (m *MemoryStore) GetLeaf(key crypto.H256) (value crypto.H256, found bool, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.leaves[key]
	return v, ok, nil
}

func (m *MemoryStore) InsertLeaf(key, value crypto.H256) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[key] = value
	return nil
}

func (m *MemoryStore) RemoveLeaf(key crypto.H256) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.leaves, key)
	return nil
}
