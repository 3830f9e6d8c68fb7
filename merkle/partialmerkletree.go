package merkle

import (
	"github.com/altcoinj/altcoin/ruleerrors"
	"github.com/altcoinj/altcoin/util/hashes"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// minTransactionSize is the smallest size a serialized transaction can have.
// It bounds the number of leaves a partial merkle tree may claim.
const minTransactionSize = 60

// MaxTransactions is the maximum number of leaves a partial merkle tree can
// declare.
const MaxTransactions = btcwire.MaxBlockPayload / minTransactionSize

// PartialMerkleTree is a pruned merkle tree over the transactions of a
// block. Hashes and Bits are stored in depth-first traversal order: a set
// bit marks a node that is an ancestor of at least one matched leaf, a
// cleared bit marks a node that was replaced by its hash.
type PartialMerkleTree struct {
	TransactionCount uint32
	Hashes           []chainhash.Hash
	Bits             []bool
}

// nodeKey addresses a node by its height above the leaves and its position
// within that level.
type nodeKey struct {
	height   uint32
	position uint32
}

// replayResult holds everything learned by walking a partial merkle tree.
type replayResult struct {
	root    chainhash.Hash
	matches []chainhash.Hash
	indexes []uint32
	nodes   map[nodeKey]chainhash.Hash
}

// treeWidth returns the number of nodes at the given height of a tree with
// transactionCount leaves.
func treeWidth(transactionCount, height uint32) uint32 {
	return (transactionCount + (1 << height) - 1) >> height
}

// treeHeight returns the height of a tree with transactionCount leaves. The
// height of a single leaf tree is 0.
func treeHeight(transactionCount uint32) uint32 {
	height := uint32(0)
	for treeWidth(transactionCount, height) > 1 {
		height++
	}
	return height
}

type treeBuilder struct {
	leaves  []chainhash.Hash
	include []bool
	tree    *PartialMerkleTree
}

// BuildFromLeaves builds a partial merkle tree from the ordered leaf hashes
// of a block, keeping a path to every leaf whose include flag is set.
func BuildFromLeaves(leaves []chainhash.Hash, include []bool) (*PartialMerkleTree, error) {
	if len(leaves) == 0 {
		return nil, errors.New("a partial merkle tree needs at least one leaf")
	}
	if len(leaves) != len(include) {
		return nil, errors.Errorf("got %d leaves but %d include flags",
			len(leaves), len(include))
	}
	if len(leaves) > MaxTransactions {
		return nil, errors.Errorf("%d leaves exceed the maximum of %d",
			len(leaves), MaxTransactions)
	}

	builder := &treeBuilder{
		leaves:  leaves,
		include: include,
		tree:    &PartialMerkleTree{TransactionCount: uint32(len(leaves))},
	}
	builder.traverseAndBuild(treeHeight(uint32(len(leaves))), 0)
	return builder.tree, nil
}

// BuildFromMask is like BuildFromLeaves, with leaf i included when bit i%8
// of mask[i/8] is set. Missing mask bytes exclude their leaves.
func BuildFromMask(leaves []chainhash.Hash, mask []byte) (*PartialMerkleTree, error) {
	include := make([]bool, len(leaves))
	for i := range include {
		if i/8 < len(mask) {
			include[i] = mask[i/8]&(1<<(uint(i)%8)) != 0
		}
	}
	return BuildFromLeaves(leaves, include)
}

// calcHash returns the hash of the node at the given height and position,
// computed from the full leaf list.
func (b *treeBuilder) calcHash(height, position uint32) chainhash.Hash {
	if height == 0 {
		return b.leaves[position]
	}

	left := b.calcHash(height-1, position*2)
	right := left
	if position*2+1 < treeWidth(b.tree.TransactionCount, height-1) {
		right = b.calcHash(height-1, position*2+1)
	}
	return hashes.HashMerkleBranches(&left, &right)
}

func (b *treeBuilder) traverseAndBuild(height, position uint32) {
	isParentOfMatch := false
	for leaf := position << height; leaf < (position+1)<<height && leaf < b.tree.TransactionCount; leaf++ {
		if b.include[leaf] {
			isParentOfMatch = true
			break
		}
	}
	b.tree.Bits = append(b.tree.Bits, isParentOfMatch)

	if height == 0 || !isParentOfMatch {
		b.tree.Hashes = append(b.tree.Hashes, b.calcHash(height, position))
		return
	}

	b.traverseAndBuild(height-1, position*2)
	if position*2+1 < treeWidth(b.tree.TransactionCount, height-1) {
		b.traverseAndBuild(height-1, position*2+1)
	}
}

type treeReplayer struct {
	tree     *PartialMerkleTree
	bitsUsed int
	hashUsed int
	result   *replayResult
}

func (r *treeReplayer) traverseAndExtract(height, position uint32) (chainhash.Hash, error) {
	if r.bitsUsed >= len(r.tree.Bits) {
		return chainhash.Hash{}, errors.Wrap(ruleerrors.ErrBadPartialMerkleTree,
			"ran out of traversal bits")
	}
	isParentOfMatch := r.tree.Bits[r.bitsUsed]
	r.bitsUsed++

	if height == 0 || !isParentOfMatch {
		if r.hashUsed >= len(r.tree.Hashes) {
			return chainhash.Hash{}, errors.Wrap(ruleerrors.ErrBadPartialMerkleTree,
				"ran out of hashes")
		}
		hash := r.tree.Hashes[r.hashUsed]
		r.hashUsed++
		if height == 0 && isParentOfMatch {
			r.result.matches = append(r.result.matches, hash)
			r.result.indexes = append(r.result.indexes, position)
		}
		r.result.nodes[nodeKey{height, position}] = hash
		return hash, nil
	}

	left, err := r.traverseAndExtract(height-1, position*2)
	if err != nil {
		return chainhash.Hash{}, err
	}
	right := left
	if position*2+1 < treeWidth(r.tree.TransactionCount, height-1) {
		right, err = r.traverseAndExtract(height-1, position*2+1)
		if err != nil {
			return chainhash.Hash{}, err
		}
		if right == left {
			return chainhash.Hash{}, errors.Wrapf(ruleerrors.ErrDuplicateMerkleBranch,
				"identical children at height %d position %d", height, position)
		}
	}
	hash := hashes.HashMerkleBranches(&left, &right)
	r.result.nodes[nodeKey{height, position}] = hash
	return hash, nil
}

// replay walks the tree using only its stored hashes and bits.
func (t *PartialMerkleTree) replay() (*replayResult, error) {
	if t.TransactionCount == 0 {
		return nil, errors.Wrap(ruleerrors.ErrBadPartialMerkleTree, "no transactions")
	}
	if t.TransactionCount > MaxTransactions {
		return nil, errors.Wrapf(ruleerrors.ErrBadPartialMerkleTree,
			"%d transactions exceed the maximum of %d", t.TransactionCount, MaxTransactions)
	}
	if uint64(len(t.Hashes)) > uint64(t.TransactionCount) {
		return nil, errors.Wrapf(ruleerrors.ErrBadPartialMerkleTree,
			"%d hashes for %d transactions", len(t.Hashes), t.TransactionCount)
	}
	if len(t.Bits) < len(t.Hashes) {
		return nil, errors.Wrapf(ruleerrors.ErrBadPartialMerkleTree,
			"%d traversal bits for %d hashes", len(t.Bits), len(t.Hashes))
	}

	replayer := &treeReplayer{
		tree:   t,
		result: &replayResult{nodes: make(map[nodeKey]chainhash.Hash)},
	}
	root, err := replayer.traverseAndExtract(treeHeight(t.TransactionCount), 0)
	if err != nil {
		return nil, err
	}
	if (replayer.bitsUsed+7)/8 != (len(t.Bits)+7)/8 {
		return nil, errors.Wrapf(ruleerrors.ErrBadPartialMerkleTree,
			"used %d of %d traversal bits", replayer.bitsUsed, len(t.Bits))
	}
	if replayer.hashUsed != len(t.Hashes) {
		return nil, errors.Wrapf(ruleerrors.ErrBadPartialMerkleTree,
			"used %d of %d hashes", replayer.hashUsed, len(t.Hashes))
	}
	replayer.result.root = root
	return replayer.result, nil
}

// ExtractMatches replays the tree and returns its merkle root together with
// the matched leaves and their positions, in order.
func (t *PartialMerkleTree) ExtractMatches() (root chainhash.Hash, matches []chainhash.Hash,
	indexes []uint32, err error) {

	result, err := t.replay()
	if err != nil {
		return chainhash.Hash{}, nil, nil, err
	}
	return result.root, result.matches, result.indexes, nil
}

// Root returns the merkle root committed to by the tree.
func (t *PartialMerkleTree) Root() (chainhash.Hash, error) {
	result, err := t.replay()
	if err != nil {
		return chainhash.Hash{}, err
	}
	return result.root, nil
}

// CheckRoot returns an error unless the tree is well formed and commits to
// the given merkle root.
func (t *PartialMerkleTree) CheckRoot(merkleRoot *chainhash.Hash) error {
	root, err := t.Root()
	if err != nil {
		return err
	}
	if root != *merkleRoot {
		return errors.Wrapf(ruleerrors.ErrPartialMerkleRootMismatch,
			"partial merkle tree root %s, header merkle root %s", root, merkleRoot)
	}
	return nil
}

// TransactionIndex returns the position of target among the leaves of the
// block. It fails if target is not a matched leaf.
func (t *PartialMerkleTree) TransactionIndex(target *chainhash.Hash) (uint32, error) {
	result, err := t.replay()
	if err != nil {
		return 0, err
	}
	return result.indexOf(target)
}

// TransactionPath returns the sibling hashes leading from target to the
// merkle root, bottom up. Where a node has no right sibling on its level
// the node's own hash is returned, matching how the root is computed.
func (t *PartialMerkleTree) TransactionPath(target *chainhash.Hash) ([]chainhash.Hash, error) {
	result, err := t.replay()
	if err != nil {
		return nil, err
	}
	index, err := result.indexOf(target)
	if err != nil {
		return nil, err
	}

	height := treeHeight(t.TransactionCount)
	var path []chainhash.Hash
	position := index
	for level := uint32(0); level < height; level++ {
		sibling := position ^ 1
		if sibling >= treeWidth(t.TransactionCount, level) {
			sibling = position
		}
		hash, ok := result.nodes[nodeKey{level, sibling}]
		if !ok {
			return nil, errors.Wrapf(ruleerrors.ErrBadPartialMerkleTree,
				"missing sibling at height %d position %d", level, sibling)
		}
		path = append(path, hash)
		position >>= 1
	}
	return path, nil
}

func (r *replayResult) indexOf(target *chainhash.Hash) (uint32, error) {
	for i, match := range r.matches {
		if match == *target {
			return r.indexes[i], nil
		}
	}
	return 0, errors.Wrapf(ruleerrors.ErrTxNotInPartialMerkleTree,
		"transaction %s is not matched by the partial merkle tree", target)
}
