package crypto

import (
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Hasher is the digest contract the tree and its proofs are built on: write bytes, finish to get
// a 32-byte output, reset to reuse. The stdlib hash.Hash interface already shapes this exactly
// (Write/Sum/Reset), so it is used directly rather than re-declared.
type Hasher = hash.Hash

// NewHasher returns the default digest: unkeyed Blake2b-256. Every leaf hash and branch merge in
// this module goes through a Hasher built this way; swapping the constructor changes the commitment
// scheme for the whole tree, so it must be done consistently across every participant that needs to
// agree on a root.
func NewHasher() Hasher {
	h, err := blake2b.New256(nil)
	if err != nil {
		// only returns an error for a bad key length; nil is always valid
		panic(err)
	}
	return h
}

// sum runs bz through a fresh Hasher and returns the 32-byte digest.
func sum(bz []byte) H256 {
	h := NewHasher()
	h.Write(bz)
	return BytesToH256(h.Sum(nil))
}

// Hash hashes an arbitrary byte payload with the default Hasher. Used for both leaf hashing
// (key ‖ value) and branch merging (lhs ‖ rhs) - no length prefix, no domain separator.
func Hash(bz []byte) H256 { return sum(bz) }
