package smt

import "github.com/rem1niscence/smt/crypto"

// LeafHash implements §4's leaf-hashing rule: a zero value collapses to the zero hash rather than
// hashing key‖0, so an absent leaf and a deleted leaf are indistinguishable at the tree level.
// Combined with Merge's zero-absorption, this is what prevents merge(x, 0) and merge(0, x) from
// ever colliding with an unrelated branch hash.
func LeafHash(key, value crypto.H256) crypto.H256 {
	if value.IsZero() {
		return crypto.ZeroH256
	}
	return crypto.Hash(append(key.Bytes(), value.Bytes()...))
}

// Merge implements the zero-absorbing branch combiner (§3): a zero child is transparent, so a
// half-empty subtree hashes to exactly its non-zero side rather than to H(x ‖ 0) or H(0 ‖ x).
func Merge(lhs, rhs crypto.H256) crypto.H256 {
	switch {
	case lhs.IsZero():
		return rhs
	case rhs.IsZero():
		return lhs
	default:
		return crypto.Hash(append(lhs.Bytes(), rhs.Bytes()...))
	}
}
