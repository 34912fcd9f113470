package smt

import (
	"github.com/rem1niscence/smt/crypto"
)

// Store is the persistence contract the tree exclusively owns (§6). height is always the level
// of the two children being stored (0..255), so a branch at height h merges into the node one
// level up, and the conceptual root sits at height 256 - one past anything Store ever holds.
//
// Implementations are not required to be safe for concurrent use; the tree engine documents that
// update() exclusively borrows the store.
type Store interface {
	GetBranch(height int, node crypto.H256) (lhs, rhs crypto.H256, found bool, err error)
	InsertBranch(height int, node crypto.H256, lhs, rhs crypto.H256) error
	RemoveBranch(height int, node crypto.H256) error

	GetLeaf(key crypto.H256) (value crypto.H256, found bool, err error)
	InsertLeaf(key, value crypto.H256) error
	RemoveLeaf(key crypto.H256) error
}
