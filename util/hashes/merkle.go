package hashes

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// HashMerkleBranches takes two hashes, treated as the left and right tree
// nodes, and returns the double sha256 of their concatenation. This is the
// only combining step used by every merkle computation in this module, so
// that proofs are built and verified by the same function.
func HashMerkleBranches(left, right *chainhash.Hash) chainhash.Hash {
	w := NewDoubleHashWriter()
	_, _ = w.Write(left[:])
	_, _ = w.Write(right[:])
	return w.Finalize()
}
