package smt

import (
	"time"

	"github.com/rem1niscence/smt/crypto"
	"github.com/rem1niscence/smt/lib"
)

// Opcode identifies one of the three instructions a proof program is built from (§4.D).
type Opcode byte

const (
	OpLeaf    Opcode = 0x4C // L: push (key_i, LeafHash(key_i, value_i)) for the next leaf
	OpSibling Opcode = 0x50 // P: merge stack top with a live-tree sibling at height
	OpMerge   Opcode = 0x48 // H: merge the top two stack entries, which must be siblings at height
)

// MaxStackDepth bounds the verifier's stack (§4.E, §5): any proof whose replay would exceed it is
// rejected as InvalidStack rather than allocating unbounded memory.
const MaxStackDepth = 32

// KV is a key/value pair as supplied to Verify - the caller-owned "leaf list" a program's L
// opcodes are pushed against.
type KV struct {
	Key   crypto.H256
	Value crypto.H256
}

// MerkleProof is an owned byte program plus the ordered key list it was compiled for (§3). The
// byte program alone is sufficient to verify against a caller-supplied, identically-ordered list
// of (key, value) pairs; Keys is retained so the compiling side can remember which keys it proved
// without re-deriving that from the program.
type MerkleProof struct {
	Keys    []crypto.H256
	Program []byte
}

// MerkleProof compiles a compact membership proof for keys, which must already be deduplicated
// and sorted ascending by the byte-reversed key comparison (§4.H) - BatchState.Normalize produces
// exactly this ordering. The tree is only read, never mutated, during compilation.
func (t *Tree) MerkleProof(keys []crypto.H256) (*MerkleProof, lib.ErrorI) {
	start := time.Now()
	proof, err := t.merkleProof(keys)
	if err == nil {
		t.metrics.ProofCompiled(time.Since(start), len(proof.Program))
	}
	return proof, err
}

func (t *Tree) merkleProof(keys []crypto.H256) (*MerkleProof, lib.ErrorI) {
	n := len(keys)
	if n == 0 {
		return &MerkleProof{Keys: nil, Program: nil}, nil
	}

	forkHeights := make([]int, n)
	for i := 0; i < n-1; i++ {
		forkHeights[i] = keys[i].ForkHeight(keys[i+1])
	}
	forkHeights[n-1] = crypto.BitLength - 1

	cache := branchCache{}
	program := make([]byte, 0, n*crypto.HashSize)
	// pending holds the fork heights of the entries left on the verifier stack below the current
	// leaf, innermost (lowest height) last; each is merged in by an H once the climb reaches it.
	var pending []int

	for i := 0; i < n; i++ {
		program = append(program, byte(OpLeaf))
		// A leaf climbs strictly below its fork height with the next leaf: that height is where
		// the two leaves' subtrees first join, and the H merge performing that join belongs to the
		// next leaf's own climb (below), not this one's - otherwise both leaves would independently
		// emit an operation at the same height and the shared subtree would be merged in twice. The
		// final leaf has no "next" leaf to defer to, so it alone climbs inclusive of height 255.
		limit := forkHeights[i]
		if i == n-1 {
			limit++
		}
		for h := 0; h < limit; h++ {
			if len(pending) > 0 && h == pending[len(pending)-1] {
				program = append(program, byte(OpMerge), byte(h))
				pending = pending[:len(pending)-1]
				continue
			}
			sibling, err := t.siblingAt(keys[i], h, cache)
			if err != nil {
				return nil, err
			}
			program = append(program, byte(OpSibling), byte(h))
			program = append(program, sibling.Bytes()...)
		}
		if i < n-1 {
			pending = append(pending, forkHeights[i])
		}
	}

	return &MerkleProof{Keys: append([]crypto.H256(nil), keys...), Program: program}, nil
}
