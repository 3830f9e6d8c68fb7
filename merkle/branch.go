package merkle

import (
	"github.com/altcoinj/altcoin/util/hashes"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BranchRoot returns the merkle root reached by combining leaf with every
// hash of branch, bottom up. Bit i of sideMask tells whether the running
// hash is the right child at level i, in which case the branch hash is put
// on the left.
func BranchRoot(leaf *chainhash.Hash, branch []chainhash.Hash, sideMask uint32) chainhash.Hash {
	current := *leaf
	for i := range branch {
		if sideMask&1 == 0 {
			current = hashes.HashMerkleBranches(&current, &branch[i])
		} else {
			current = hashes.HashMerkleBranches(&branch[i], &current)
		}
		sideMask >>= 1
	}
	return current
}

// CalcRoot returns the merkle root of the given leaves. An odd node at any
// level is combined with itself. The root of an empty list is the zero hash.
func CalcRoot(leaves []chainhash.Hash) chainhash.Hash {
	if len(leaves) == 0 {
		return chainhash.Hash{}
	}
	level := append([]chainhash.Hash(nil), leaves...)
	for len(level) > 1 {
		level = nextLevel(level)
	}
	return level[0]
}

// BranchForLeaf returns the sibling hashes proving the leaf at index, bottom
// up, together with its side mask. It panics if index is out of range.
func BranchForLeaf(leaves []chainhash.Hash, index int) ([]chainhash.Hash, uint32) {
	if index < 0 || index >= len(leaves) {
		panic("merkle: leaf index out of range")
	}

	var branch []chainhash.Hash
	level := append([]chainhash.Hash(nil), leaves...)
	position := index
	for len(level) > 1 {
		sibling := position ^ 1
		if sibling >= len(level) {
			sibling = position
		}
		branch = append(branch, level[sibling])
		level = nextLevel(level)
		position >>= 1
	}
	return branch, uint32(index)
}

func nextLevel(level []chainhash.Hash) []chainhash.Hash {
	next := make([]chainhash.Hash, 0, (len(level)+1)/2)
	for i := 0; i < len(level); i += 2 {
		right := i + 1
		if right == len(level) {
			right = i
		}
		next = append(next, hashes.HashMerkleBranches(&level[i], &level[right]))
	}
	return next
}
