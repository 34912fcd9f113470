package smt

import "github.com/rem1niscence/smt/crypto"

// memStore is a minimal map-backed Store used only by this package's own tests, so tree_test.go
// and friends don't need to import the store package (which itself depends on smt.Store and would
// create an import cycle from an in-package test file).
type memStore struct {
	branches map[branchKey]branchVal
	leaves   map[crypto.H256]crypto.H256
}

func newMemStore() *memStore {
	return &memStore{
		branches: make(map[branchKey]branchVal),
		leaves:   make(map[crypto.H256]crypto.H256),
	}
}

func (m *memStore) GetBranch(height int, node crypto.H256) (lhs, rhs crypto.H256, found bool, err error) {
	v, ok := m.branches[branchKey{height, node}]
	return v.lhs, v.rhs, ok, nil
}

func (m *memStore) InsertBranch(height int, node crypto.H256, lhs, rhs crypto.H256) error {
	m.branches[branchKey{height, node}] = branchVal{lhs, rhs}
	return nil
}

func (m *memStore) RemoveBranch(height int, node crypto.H256) error {
	delete(m.branches, branchKey{height, node})
	return nil
}

func (m *memStore) GetLeaf(key crypto.H256) (value crypto.H256, found bool, err error) {
	v, ok := m.leaves[key]
	return v, ok, nil
}

func (m *memStore) InsertLeaf(key, value crypto.H256) error {
	m.leaves[key] = value
	return nil
}

func (m *memStore) RemoveLeaf(key crypto.H256) error {
	delete(m.leaves, key)
	return nil
}
