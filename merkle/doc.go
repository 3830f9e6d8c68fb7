/*
Package merkle implements merkle tree helpers for block and merged mining
proofs.

A PartialMerkleTree is the pruned tree relayed in merkleblock messages: it is
built once from the full list of leaves and an inclusion mask, after which the
matched leaves, their positions and their sibling paths can be recovered from
the stored hashes and traversal bits alone.

	tree, err := merkle.BuildFromLeaves(txHashes, include)
	...
	path, err := tree.TransactionPath(&txHash)

Branch helpers compute the root reached from a leaf by a list of sibling
hashes and a side mask, which is how AuxPoW coinbase and chain branches are
checked.
*/
package merkle
