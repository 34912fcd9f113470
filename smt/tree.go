package smt

import (
	"time"

	"github.com/rem1niscence/smt/crypto"
	"github.com/rem1niscence/smt/lib"
	"github.com/rem1niscence/smt/metrics"
)

// Tree is the height-256 sparse Merkle tree engine (§4.C). It exclusively owns store: nothing
// outside Update is expected to mutate it while an Update is in flight.
type Tree struct {
	store   Store
	root    crypto.H256
	metrics *metrics.Metrics
}

// NewTree returns an empty tree - root 0x00..00, nothing persisted - backed by store.
func NewTree(store Store) *Tree {
	return &Tree{store: store, root: crypto.ZeroH256}
}

// LoadTree resumes a tree whose root was previously committed to store.
func LoadTree(store Store, root crypto.H256) *Tree {
	return &Tree{store: store, root: root}
}

// WithMetrics attaches a telemetry sink; m may be nil, in which case recording is a no-op.
func (t *Tree) WithMetrics(m *metrics.Metrics) *Tree {
	t.metrics = m
	return t
}

// Root returns the tree's current 32-byte commitment.
func (t *Tree) Root() crypto.H256 { return t.root }

// Update walks the height-255..0 path for key, replaces the leaf with LeafHash(key, value), and
// re-merges bottom-up, persisting every non-zero intermediate branch and removing branches that
// become stale or zero. Updating with the current value is idempotent: every branch on the path
// compares equal before and after, so no branch is written or removed, the leaf entry is rewritten
// with the same value, and the root is unchanged.
func (t *Tree) Update(key, value crypto.H256) (crypto.H256, lib.ErrorI) {
	start := time.Now()
	root, err := t.update(key, value)
	if err != nil {
		t.metrics.UpdateErr()
		return root, err
	}
	t.metrics.UpdateOK(time.Since(start))
	return root, nil
}

func (t *Tree) update(key, value crypto.H256) (crypto.H256, lib.ErrorI) {
	var siblings [crypto.BitLength]crypto.H256
	var oldNode [crypto.BitLength + 1]crypto.H256
	oldNode[crypto.BitLength] = t.root

	for h := crypto.BitLength - 1; h >= 0; h-- {
		parent := oldNode[h+1]
		var lhs, rhs crypto.H256
		if !parent.IsZero() {
			var found bool
			var err error
			lhs, rhs, found, err = t.store.GetBranch(h, parent)
			if err != nil {
				t.metrics.StoreIOError("get_branch")
				return crypto.ZeroH256, ErrStoreIO(err)
			}
			if !found {
				return crypto.ZeroH256, ErrInvalidMerkleTree(h, parent.String())
			}
		}
		if key.GetBit(h) == 0 {
			siblings[h], oldNode[h] = rhs, lhs
		} else {
			siblings[h], oldNode[h] = lhs, rhs
		}
	}

	newLeaf := LeafHash(key, value)
	if value.IsZero() {
		if err := t.store.RemoveLeaf(key); err != nil {
			t.metrics.StoreIOError("remove_leaf")
			return crypto.ZeroH256, ErrStoreIO(err)
		}
	} else {
		if err := t.store.InsertLeaf(key, value); err != nil {
			t.metrics.StoreIOError("insert_leaf")
			return crypto.ZeroH256, ErrStoreIO(err)
		}
	}

	var newNode [crypto.BitLength + 1]crypto.H256
	newNode[0] = newLeaf
	for h := 0; h < crypto.BitLength; h++ {
		sibling := siblings[h]
		var lhs, rhs crypto.H256
		if key.GetBit(h) == 0 {
			lhs, rhs = newNode[h], sibling
		} else {
			lhs, rhs = sibling, newNode[h]
		}
		parent := Merge(lhs, rhs)
		if old := oldNode[h+1]; old != parent {
			if !old.IsZero() {
				if err := t.store.RemoveBranch(h, old); err != nil {
					t.metrics.StoreIOError("remove_branch")
					return crypto.ZeroH256, ErrStoreIO(err)
				}
			}
			if !parent.IsZero() {
				if err := t.store.InsertBranch(h, parent, lhs, rhs); err != nil {
					t.metrics.StoreIOError("insert_branch")
					return crypto.ZeroH256, ErrStoreIO(err)
				}
			}
		}
		newNode[h+1] = parent
	}

	t.root = newNode[crypto.BitLength]
	return t.root, nil
}

// Get walks the path for key, returning the zero value if any intermediate node along the path is
// zero. The stored leaf hash is opaque, so the pre-image value is read back from the leaf map
// rather than derived from the hash.
func (t *Tree) Get(key crypto.H256) (crypto.H256, lib.ErrorI) {
	value, err := t.get(key)
	t.metrics.GetResult(err == nil && !value.IsZero())
	return value, err
}

func (t *Tree) get(key crypto.H256) (crypto.H256, lib.ErrorI) {
	node := t.root
	for h := crypto.BitLength - 1; h >= 0; h-- {
		if node.IsZero() {
			return crypto.ZeroH256, nil
		}
		lhs, rhs, found, err := t.store.GetBranch(h, node)
		if err != nil {
			t.metrics.StoreIOError("get_branch")
			return crypto.ZeroH256, ErrStoreIO(err)
		}
		if !found {
			return crypto.ZeroH256, ErrInvalidMerkleTree(h, node.String())
		}
		if key.GetBit(h) == 0 {
			node = lhs
		} else {
			node = rhs
		}
	}
	if node.IsZero() {
		return crypto.ZeroH256, nil
	}
	value, found, err := t.store.GetLeaf(key)
	if err != nil {
		t.metrics.StoreIOError("get_leaf")
		return crypto.ZeroH256, ErrStoreIO(err)
	}
	if !found {
		return crypto.ZeroH256, ErrInvalidMerkleTree(0, node.String())
	}
	return value, nil
}

// branchKey is the memoization key used by branchCache during a single proof compilation: a
// (height, node hash) pair, mirroring the Store contract's own addressing scheme.
type branchKey struct {
	height int
	node   crypto.H256
}

type branchVal struct{ lhs, rhs crypto.H256 }

// branchCache amortizes GetBranch calls across the shared root prefix that every key in a batch
// walks through, without attempting the fully shared multi-key traversal that would hit the
// O(n log n + 256) bound named in §5 - see DESIGN.md for why the simpler per-key walk was chosen.
type branchCache map[branchKey]branchVal

func (t *Tree) getBranchCached(height int, node crypto.H256, cache branchCache) (lhs, rhs crypto.H256, err lib.ErrorI) {
	key := branchKey{height, node}
	if v, ok := cache[key]; ok {
		return v.lhs, v.rhs, nil
	}
	l, r, found, e := t.store.GetBranch(height, node)
	if e != nil {
		t.metrics.StoreIOError("get_branch")
		return crypto.ZeroH256, crypto.ZeroH256, ErrStoreIO(e)
	}
	if !found {
		return crypto.ZeroH256, crypto.ZeroH256, ErrInvalidMerkleTree(height, node.String())
	}
	cache[key] = branchVal{l, r}
	return l, r, nil
}

// parentHashAt returns the node value one level above height along key's path - i.e. the node
// that GetBranch(height, ...) must be called against to read key's siblings at height.
func (t *Tree) parentHashAt(key crypto.H256, height int, cache branchCache) (crypto.H256, lib.ErrorI) {
	node := t.root
	for h := crypto.BitLength - 1; h > height; h-- {
		if node.IsZero() {
			return crypto.ZeroH256, nil
		}
		lhs, rhs, err := t.getBranchCached(h, node, cache)
		if err != nil {
			return crypto.ZeroH256, err
		}
		if key.GetBit(h) == 0 {
			node = lhs
		} else {
			node = rhs
		}
	}
	return node, nil
}

// siblingAt returns the sibling H256 observed in the live tree on key's path at height, per the
// proof compiler's P-opcode rule (§4.D): zero siblings are returned as such, never skipped.
func (t *Tree) siblingAt(key crypto.H256, height int, cache branchCache) (crypto.H256, lib.ErrorI) {
	parent, err := t.parentHashAt(key, height, cache)
	if err != nil {
		return crypto.ZeroH256, err
	}
	if parent.IsZero() {
		return crypto.ZeroH256, nil
	}
	lhs, rhs, err := t.getBranchCached(height, parent, cache)
	if err != nil {
		return crypto.ZeroH256, err
	}
	if key.GetBit(height) == 0 {
		return rhs, nil
	}
	return lhs, nil
}
