package smt

import (
	"fmt"

	"github.com/rem1niscence/smt/lib"
)

// Module is the error-module tag for every error raised by this package. Codes are the stable
// integers embedders are expected to switch on, matching the global error code surface rather
// than the teacher's per-module-restarts-at-1 convention: these five values are meant to be
// embedded verbatim by callers outside this module.
const Module lib.ErrorModule = "smt"

const (
	CodeInsufficientCapacity lib.ErrorCode = 80
	CodeNotFound             lib.ErrorCode = 81
	CodeInvalidStack         lib.ErrorCode = 82
	CodeInvalidSibling       lib.ErrorCode = 83
	CodeInvalidProof         lib.ErrorCode = 84

	// ambient codes local to this module, numbered below the stable surface so they never collide
	codeStoreIO             lib.ErrorCode = 1
	codeInvalidMerkleTree   lib.ErrorCode = 2
)

// ErrInsufficientCapacity is returned by BatchState.Insert when the buffer is full and the key
// being inserted does not already exist in it to overwrite in place.
func ErrInsufficientCapacity() lib.ErrorI {
	return lib.NewError(CodeInsufficientCapacity, Module, "batch state is at capacity")
}

// ErrNotFound is returned by BatchState.Fetch when the key has no entry.
func ErrNotFound() lib.ErrorI {
	return lib.NewError(CodeNotFound, Module, "key not found")
}

// ErrInvalidStack is returned by the verifier on stack overflow or a wrong final stack depth.
func ErrInvalidStack() lib.ErrorI {
	return lib.NewError(CodeInvalidStack, Module, "invalid proof stack")
}

// ErrInvalidSibling is returned by the verifier's H opcode when the top two stack entries are not
// siblings at the declared height.
func ErrInvalidSibling() lib.ErrorI {
	return lib.NewError(CodeInvalidSibling, Module, "stack entries are not siblings at the declared height")
}

// ErrInvalidProof covers a truncated program, unused leaves, an unknown opcode, or a reconstructed
// root that does not match the expected root.
func ErrInvalidProof(reason string) lib.ErrorI {
	return lib.NewError(CodeInvalidProof, Module, fmt.Sprintf("invalid proof: %s", reason))
}

// ErrStoreIO wraps a failure from the backing Store implementation (disk I/O, codec errors).
func ErrStoreIO(err error) lib.ErrorI {
	return lib.NewError(codeStoreIO, Module, fmt.Sprintf("store operation failed: %s", err.Error()))
}

// ErrInvalidMerkleTree signals the store holds a branch whose persisted children do not merge to
// the hash it is keyed under - a corruption the tree engine detects but cannot repair.
func ErrInvalidMerkleTree(height int, node string) lib.ErrorI {
	return lib.NewError(codeInvalidMerkleTree, Module, fmt.Sprintf("branch at height %d keyed %s does not merge to its own key", height, node))
}

// ErrInvalidOpcode is raised by the verifier when it reads a byte that is none of L, P, H. It
// carries CodeInvalidProof, like every other malformed-program error.
func ErrInvalidOpcode(b byte) lib.ErrorI {
	return lib.NewError(CodeInvalidProof, Module, fmt.Sprintf("invalid proof: unknown opcode 0x%02X", b))
}
