package smt

import (
	"time"

	"github.com/rem1niscence/smt/crypto"
	"github.com/rem1niscence/smt/lib"
	"github.com/rem1niscence/smt/metrics"
)

// stackEntry is one (key, value) slot on the verifier's stack; value starts as a leaf hash and
// accumulates merges as the program replays upward.
type stackEntry struct {
	key   crypto.H256
	value crypto.H256
}

// ReconstructRoot replays program against leaves (the caller-supplied, proof-ordered key/value
// pairs) and returns the resulting root without comparing it to anything - Verify builds on this.
// An empty program with no leaves reconstructs the empty-tree root 0x00..00.
func ReconstructRoot(leaves []KV, program []byte) (crypto.H256, lib.ErrorI) {
	if len(program) == 0 && len(leaves) == 0 {
		return crypto.ZeroH256, nil
	}
	var stack []stackEntry
	leafIndex := 0
	pc := 0

	for pc < len(program) {
		op := Opcode(program[pc])
		pc++
		switch op {
		case OpLeaf:
			if len(stack) >= MaxStackDepth {
				return crypto.ZeroH256, ErrInvalidStack()
			}
			if leafIndex >= len(leaves) {
				return crypto.ZeroH256, ErrInvalidProof("program references more leaves than were supplied")
			}
			leaf := leaves[leafIndex]
			stack = append(stack, stackEntry{key: leaf.Key, value: LeafHash(leaf.Key, leaf.Value)})
			leafIndex++

		case OpSibling:
			if len(stack) < 1 {
				return crypto.ZeroH256, ErrInvalidStack()
			}
			if pc+1+crypto.HashSize > len(program) {
				return crypto.ZeroH256, ErrInvalidProof("truncated P operand")
			}
			height := int(program[pc])
			pc++
			sibling := crypto.BytesToH256(program[pc : pc+crypto.HashSize])
			pc += crypto.HashSize

			top := &stack[len(stack)-1]
			if top.key.GetBit(height) == 1 {
				top.value = Merge(sibling, top.value)
			} else {
				top.value = Merge(top.value, sibling)
			}
			top.key = top.key.ParentPath(height)

		case OpMerge:
			if len(stack) < 2 {
				return crypto.ZeroH256, ErrInvalidStack()
			}
			if pc+1 > len(program) {
				return crypto.ZeroH256, ErrInvalidProof("truncated H operand")
			}
			height := int(program[pc])
			pc++

			b := stack[len(stack)-1]
			a := stack[len(stack)-2]

			// the sibling key of a at height is "flip a's bit at height, then clear bits <=
			// height" - but that clear immediately erases the flipped bit, so the check reduces
			// to: same parent path, opposite bit at height.
			if a.key.GetBit(height) == b.key.GetBit(height) || a.key.ParentPath(height) != b.key.ParentPath(height) {
				return crypto.ZeroH256, ErrInvalidSibling()
			}

			var combined crypto.H256
			if a.key.GetBit(height) == 0 {
				combined = Merge(a.value, b.value)
			} else {
				combined = Merge(b.value, a.value)
			}
			stack = stack[:len(stack)-2]
			stack = append(stack, stackEntry{key: a.key.ParentPath(height), value: combined})

		default:
			return crypto.ZeroH256, ErrInvalidOpcode(program[pc-1])
		}
	}

	if leafIndex != len(leaves) {
		return crypto.ZeroH256, ErrInvalidProof("not all supplied leaves were consumed by the program")
	}
	if len(stack) != 1 {
		return crypto.ZeroH256, ErrInvalidStack()
	}
	return stack[0].value, nil
}

// Verify replays program against leaves and reports whether the reconstructed root matches
// expected (§4.E, §8 property 3 & 4).
func Verify(expected crypto.H256, leaves []KV, program []byte) lib.ErrorI {
	root, err := ReconstructRoot(leaves, program)
	if err != nil {
		return err
	}
	if root != expected {
		return ErrInvalidProof("reconstructed root does not match expected root")
	}
	return nil
}

// VerifyWithMetrics is Verify plus telemetry for callers that hold a Metrics sink; m may be nil.
func VerifyWithMetrics(expected crypto.H256, leaves []KV, program []byte, m *metrics.Metrics) lib.ErrorI {
	start := time.Now()
	if err := Verify(expected, leaves, program); err != nil {
		m.VerifyErr(time.Since(start))
		return err
	}
	m.VerifyOK(time.Since(start))
	return nil
}
