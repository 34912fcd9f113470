package smt

import (
	"testing"

	"github.com/rem1niscence/smt/crypto"
	"github.com/stretchr/testify/require"
)

func key(b byte) crypto.H256   { return crypto.BytesToH256([]byte{b}) }
func value(b byte) crypto.H256 { return crypto.BytesToH256([]byte{b}) }

// S1: empty tree.
func TestEmptyTree(t *testing.T) {
	tr := NewTree(newMemStore())
	require.True(t, tr.Root().IsZero())
	got, err := tr.Get(key(0x01))
	require.Nil(t, err)
	require.True(t, got.IsZero())
}

// S2: single leaf at key 0.
func TestSingleLeafAtZeroKey(t *testing.T) {
	tr := NewTree(newMemStore())
	k, v := crypto.ZeroH256, value(0x01)
	root, err := tr.Update(k, v)
	require.Nil(t, err)
	require.Equal(t, LeafHash(k, v), root)

	got, err := tr.Get(k)
	require.Nil(t, err)
	require.Equal(t, v, got)
}

// S3: two leaves differing only in bit 0.
func TestTwoLeavesDifferingInBitZero(t *testing.T) {
	tr := NewTree(newMemStore())
	k0 := crypto.ZeroH256
	k1 := crypto.ZeroH256.SetBit(0)
	v0, v1 := value(0x01), value(0x02)

	_, err := tr.Update(k0, v0)
	require.Nil(t, err)
	root, err := tr.Update(k1, v1)
	require.Nil(t, err)

	require.Equal(t, Merge(LeafHash(k0, v0), LeafHash(k1, v1)), root)
}

// S6: deletion equivalence.
func TestDeletionEquivalence(t *testing.T) {
	tr := NewTree(newMemStore())
	k, v := key(0x07), value(0x42)
	_, err := tr.Update(k, v)
	require.Nil(t, err)
	require.False(t, tr.Root().IsZero())

	root, err := tr.Update(k, crypto.ZeroH256)
	require.Nil(t, err)
	require.True(t, root.IsZero())

	got, err := tr.Get(k)
	require.Nil(t, err)
	require.True(t, got.IsZero())
}

func TestUpdateIsIdempotent(t *testing.T) {
	tr := NewTree(newMemStore())
	k, v := key(0x09), value(0x10)
	root1, err := tr.Update(k, v)
	require.Nil(t, err)
	store := tr.store.(*memStore)
	branchCountBefore := len(store.branches)

	root2, err := tr.Update(k, v)
	require.Nil(t, err)
	require.Equal(t, root1, root2)
	require.Equal(t, branchCountBefore, len(store.branches))
}

func TestDeterminismIndependentOfInsertOrder(t *testing.T) {
	kvs := []KV{
		{Key: key(0x01), Value: value(0xAA)},
		{Key: key(0x02), Value: value(0xBB)},
		{Key: key(0x03), Value: value(0xCC)},
	}

	tr1 := NewTree(newMemStore())
	for _, kv := range kvs {
		_, err := tr1.Update(kv.Key, kv.Value)
		require.Nil(t, err)
	}

	tr2 := NewTree(newMemStore())
	for i := len(kvs) - 1; i >= 0; i-- {
		_, err := tr2.Update(kvs[i].Key, kvs[i].Value)
		require.Nil(t, err)
	}

	require.Equal(t, tr1.Root(), tr2.Root())
}

func TestGetAfterMultipleUpdates(t *testing.T) {
	tr := NewTree(newMemStore())
	entries := map[crypto.H256]crypto.H256{
		key(0x01): value(0x11),
		key(0x02): value(0x22),
		key(0x03): value(0x33),
		key(0x04): value(0x00), // zero value is skipped below, never written; should read back as absent
	}
	for k, v := range entries {
		if v.IsZero() {
			continue
		}
		_, err := tr.Update(k, v)
		require.Nil(t, err)
	}
	for k, v := range entries {
		got, err := tr.Get(k)
		require.Nil(t, err)
		require.Equal(t, v, got)
	}
}
