package smt

import (
	"math/rand"
	"testing"

	"github.com/rem1niscence/smt/crypto"
	"github.com/stretchr/testify/require"
)

func randomH256(r *rand.Rand) crypto.H256 {
	var h crypto.H256
	r.Read(h[:])
	return h
}

// S1: merkle_proof([]) produces an empty program; verify(0, [], "") = Ok.
func TestEmptyBatchProof(t *testing.T) {
	tr := NewTree(newMemStore())
	proof, err := tr.MerkleProof(nil)
	require.Nil(t, err)
	require.Empty(t, proof.Program)
	require.Nil(t, Verify(crypto.ZeroH256, nil, proof.Program))
}

// S4: batch proof round-trip over a subset of keys, then tamper it.
func TestBatchProofRoundTripAndTamper(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	tr := NewTree(newMemStore())

	keys := make([]crypto.H256, 8)
	values := make(map[crypto.H256]crypto.H256, 8)
	for i := range keys {
		k := randomH256(r)
		v := randomH256(r)
		keys[i] = k
		values[k] = v
		_, err := tr.Update(k, v)
		require.Nil(t, err)
	}

	proven := []crypto.H256{keys[1], keys[3], keys[5]}
	batch := NewBatchState(len(proven))
	for _, k := range proven {
		require.Nil(t, batch.Insert(k, crypto.ZeroH256))
	}
	batch.Normalize()
	sortedKeys := batch.Keys()

	proof, err := tr.MerkleProof(sortedKeys)
	require.Nil(t, err)

	leaves := make([]KV, len(sortedKeys))
	for i, k := range sortedKeys {
		leaves[i] = KV{Key: k, Value: values[k]}
	}

	require.Nil(t, Verify(tr.Root(), leaves, proof.Program))

	// tamper: flip a leaf value
	tamperedLeaves := append([]KV(nil), leaves...)
	tamperedLeaves[0].Value = crypto.Hash(tamperedLeaves[0].Value.Bytes())
	require.NotNil(t, Verify(tr.Root(), tamperedLeaves, proof.Program))

	// tamper: flip a byte in the program
	if len(proof.Program) > 0 {
		tamperedProgram := append([]byte(nil), proof.Program...)
		tamperedProgram[len(tamperedProgram)/2] ^= 0xFF
		require.NotNil(t, Verify(tr.Root(), leaves, tamperedProgram))
	}
}

func TestSingleKeyProofIsFullPath(t *testing.T) {
	tr := NewTree(newMemStore())
	k, v := key(0x05), value(0x99)
	_, err := tr.Update(k, v)
	require.Nil(t, err)

	proof, err := tr.MerkleProof([]crypto.H256{k})
	require.Nil(t, err)
	// one L + 256 P opcodes, each P = 1 (op) + 1 (height) + 32 (sibling) bytes
	require.Equal(t, 1+crypto.BitLength*(1+1+crypto.HashSize), len(proof.Program))

	require.Nil(t, Verify(tr.Root(), []KV{{Key: k, Value: v}}, proof.Program))
}

// Differential fuzz: a tree driven side by side with a reference map, checked via proofs over
// random subsets, grounded on the teacher's store/fuzz_test.go differential style.
func TestDifferentialFuzzTreeVsMap(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	tr := NewTree(newMemStore())
	reference := map[crypto.H256]crypto.H256{}

	var keys []crypto.H256
	for i := 0; i < 64; i++ {
		k := randomH256(r)
		v := randomH256(r)
		keys = append(keys, k)
		reference[k] = v
		_, err := tr.Update(k, v)
		require.Nil(t, err)
	}

	for k, v := range reference {
		got, err := tr.Get(k)
		require.Nil(t, err)
		require.Equal(t, v, got)
	}

	subsetSize := 5
	subset := make([]crypto.H256, 0, subsetSize)
	seen := map[crypto.H256]bool{}
	for len(subset) < subsetSize {
		k := keys[r.Intn(len(keys))]
		if seen[k] {
			continue
		}
		seen[k] = true
		subset = append(subset, k)
	}
	batch := NewBatchState(subsetSize)
	for _, k := range subset {
		require.Nil(t, batch.Insert(k, crypto.ZeroH256))
	}
	batch.Normalize()
	sortedKeys := batch.Keys()

	proof, err := tr.MerkleProof(sortedKeys)
	require.Nil(t, err)

	leaves := make([]KV, len(sortedKeys))
	for i, k := range sortedKeys {
		leaves[i] = KV{Key: k, Value: reference[k]}
	}
	require.Nil(t, Verify(tr.Root(), leaves, proof.Program))
}

func TestProofMutationFuzz(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	tr := NewTree(newMemStore())

	keys := make([]crypto.H256, 6)
	values := make(map[crypto.H256]crypto.H256)
	for i := range keys {
		k, v := randomH256(r), randomH256(r)
		keys[i] = k
		values[k] = v
		_, err := tr.Update(k, v)
		require.Nil(t, err)
	}

	batch := NewBatchState(len(keys))
	for _, k := range keys {
		require.Nil(t, batch.Insert(k, crypto.ZeroH256))
	}
	batch.Normalize()
	sortedKeys := batch.Keys()
	proof, err := tr.MerkleProof(sortedKeys)
	require.Nil(t, err)

	leaves := make([]KV, len(sortedKeys))
	for i, k := range sortedKeys {
		leaves[i] = KV{Key: k, Value: values[k]}
	}
	require.Nil(t, Verify(tr.Root(), leaves, proof.Program))

	for trial := 0; trial < 50; trial++ {
		mutated := append([]byte(nil), proof.Program...)
		if len(mutated) == 0 {
			break
		}
		idx := r.Intn(len(mutated))
		mutated[idx] ^= byte(1 + r.Intn(255))
		err := Verify(tr.Root(), leaves, mutated)
		// the result is not asserted: the verifier does not check a P operand's height against the
		// entry's position, so a mutated height byte can still reconstruct the same root (e.g. a
		// lowered height leaves the merge order and the later key bits unchanged). This loop only
		// checks that Verify handles arbitrarily mutated programs without panicking.
		_ = err
	}
}
