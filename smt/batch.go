package smt

import (
	"sort"

	"github.com/rem1niscence/smt/crypto"
	"github.com/rem1niscence/smt/lib"
	"github.com/rem1niscence/smt/metrics"
)

// BatchState ("smt_state", §4.H) is a capacity-bounded ordered list of pending (key, value)
// writes, normalized into proof-compiler order before a MerkleProof call.
type BatchState struct {
	capacity int
	entries  []KV
	metrics  *metrics.Metrics
}

// NewBatchState returns an empty batch state bounded to capacity entries.
func NewBatchState(capacity int) *BatchState {
	return &BatchState{capacity: capacity}
}

// WithMetrics attaches a telemetry sink; m may be nil, in which case recording is a no-op.
func (b *BatchState) WithMetrics(m *metrics.Metrics) *BatchState {
	b.metrics = m
	return b
}

// Insert appends (key, value) if the buffer has room. Once full, it falls back to overwriting an
// existing entry for the same key in place, and only fails with InsufficientCapacity if neither is
// possible. Note this deliberately does not search for an existing key while under capacity, so a
// key inserted twice before the buffer fills appears twice until Normalize runs - matching the
// reference implementation's behavior rather than deduping eagerly (§9 open question).
func (b *BatchState) Insert(key, value crypto.H256) lib.ErrorI {
	if len(b.entries) < b.capacity {
		b.entries = append(b.entries, KV{Key: key, Value: value})
		b.metrics.BatchInserted(b.capacity, true)
		return nil
	}
	for i := range b.entries {
		if b.entries[i].Key == key {
			b.entries[i].Value = value
			b.metrics.BatchInserted(b.capacity, true)
			return nil
		}
	}
	b.metrics.BatchInserted(b.capacity, false)
	return ErrInsufficientCapacity()
}

// Fetch returns the most-recently-inserted value for key.
func (b *BatchState) Fetch(key crypto.H256) (crypto.H256, lib.ErrorI) {
	for i := len(b.entries) - 1; i >= 0; i-- {
		if b.entries[i].Key == key {
			return b.entries[i].Value, nil
		}
	}
	return crypto.ZeroH256, ErrNotFound()
}

// Normalize stable-sorts entries ascending by the byte-reversed key comparison the proof compiler
// expects, then deduplicates by key keeping the latest value. Stable sort preserves the original
// relative (insertion) order among equal keys, so within each same-key run after sorting, the last
// entry is the most recently inserted one - that is the entry Normalize keeps.
func (b *BatchState) Normalize() {
	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].Key.Compare(b.entries[j].Key) < 0
	})
	deduped := make([]KV, 0, len(b.entries))
	for i := 0; i < len(b.entries); {
		j := i
		for j+1 < len(b.entries) && b.entries[j+1].Key == b.entries[i].Key {
			j++
		}
		deduped = append(deduped, b.entries[j])
		i = j + 1
	}
	b.entries = deduped
}

// Keys returns the current entries' keys in their current order. Call Normalize first to get the
// deduplicated, ascending order the proof compiler requires.
func (b *BatchState) Keys() []crypto.H256 {
	keys := make([]crypto.H256, len(b.entries))
	for i, e := range b.entries {
		keys[i] = e.Key
	}
	return keys
}

// Pairs returns a copy of the current entries.
func (b *BatchState) Pairs() []KV {
	return append([]KV(nil), b.entries...)
}

// Len reports the number of entries currently held.
func (b *BatchState) Len() int { return len(b.entries) }
