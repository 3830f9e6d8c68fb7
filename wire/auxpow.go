package wire

import (
	"bytes"
	"encoding/binary"
	"io"
	"math/big"

	"github.com/altcoinj/altcoin/merkle"
	"github.com/altcoinj/altcoin/ruleerrors"
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

const (
	// MaxChainMerkleBranchLength is the longest chain merkle branch an AuxPoW
	// may carry, which limits a merged mining tree to 2^30 chains.
	MaxChainMerkleBranchLength = 30

	// maxMerkleBranchHashes bounds both branches while decoding.
	maxMerkleBranchHashes = 64

	// maxRootOffsetWithoutHeader is the furthest into the coinbase script the
	// chain merkle root may start when no merged mining header is present.
	maxRootOffsetWithoutHeader = 20
)

// MergedMiningHeader marks the start of the merged mining commitment inside
// a parent coinbase script.
var MergedMiningHeader = []byte{0xfa, 0xbe, 'm', 'm'}

// MerkleBranch is a merkle path from a leaf to a root, together with the side
// mask telling at each level whether the leaf side is on the right.
type MerkleBranch struct {
	Hashes   []chainhash.Hash
	SideMask int32
}

// Root returns the root reached by walking the branch up from leaf.
func (b *MerkleBranch) Root(leaf *chainhash.Hash) chainhash.Hash {
	return merkle.BranchRoot(leaf, b.Hashes, uint32(b.SideMask))
}

func (b *MerkleBranch) decode(r io.Reader, pver uint32, fieldName string) error {
	var err error
	b.Hashes, err = readHashes(r, pver, maxMerkleBranchHashes, fieldName)
	if err != nil {
		return err
	}
	return readElement(r, &b.SideMask)
}

func (b *MerkleBranch) encode(w io.Writer, pver uint32) error {
	err := writeHashes(w, pver, b.Hashes)
	if err != nil {
		return err
	}
	return writeElement(w, b.SideMask)
}

func (b *MerkleBranch) serializeSize() int {
	return btcwire.VarIntSerializeSize(uint64(len(b.Hashes))) +
		len(b.Hashes)*chainhash.HashSize + 4
}

// AuxPoW is an auxiliary proof of work: evidence that a block of another
// chain committed to this block's hash and met this block's target.
type AuxPoW struct {
	// Coinbase is the parent block's coinbase transaction. Its first input
	// script holds the merged mining commitment.
	Coinbase *btcwire.MsgTx

	// ParentHash is the hash of the parent block. It is carried on the wire
	// but takes no part in validation.
	ParentHash chainhash.Hash

	// CoinbaseBranch links the coinbase to the parent header's merkle root.
	CoinbaseBranch MerkleBranch

	// ChainBranch links this block's hash to the chain merkle root committed
	// to in the coinbase.
	ChainBranch MerkleBranch

	// ParentHeader is the header of the parent block.
	ParentHeader BlockHeader
}

// BtcDecode decodes r into the receiver.
func (a *AuxPoW) BtcDecode(r io.Reader, pver uint32) error {
	a.Coinbase = &btcwire.MsgTx{}
	err := a.Coinbase.DeserializeNoWitness(r)
	if err != nil {
		return err
	}
	err = readElement(r, &a.ParentHash)
	if err != nil {
		return err
	}
	err = a.CoinbaseBranch.decode(r, pver, "coinbase merkle branch")
	if err != nil {
		return err
	}
	err = a.ChainBranch.decode(r, pver, "chain merkle branch")
	if err != nil {
		return err
	}
	return readBlockHeader(r, &a.ParentHeader)
}

// BtcEncode encodes the receiver to w.
func (a *AuxPoW) BtcEncode(w io.Writer, pver uint32) error {
	if a.Coinbase == nil {
		return messageError("AuxPoW.BtcEncode", "AuxPoW has no coinbase")
	}
	err := a.Coinbase.SerializeNoWitness(w)
	if err != nil {
		return err
	}
	err = writeElement(w, &a.ParentHash)
	if err != nil {
		return err
	}
	err = a.CoinbaseBranch.encode(w, pver)
	if err != nil {
		return err
	}
	err = a.ChainBranch.encode(w, pver)
	if err != nil {
		return err
	}
	return writeBlockHeader(w, &a.ParentHeader)
}

// SerializeSize returns the number of bytes it would take to serialize the
// AuxPoW. An AuxPoW without a coinbase cannot be serialized and has size 0.
func (a *AuxPoW) SerializeSize() int {
	if a.Coinbase == nil {
		return 0
	}
	return a.Coinbase.SerializeSizeStripped() + chainhash.HashSize +
		a.CoinbaseBranch.serializeSize() + a.ChainBranch.serializeSize() +
		BlockHeaderPayload
}

// ExpectedIndex returns the slot of the chain merkle tree a chain must use,
// derived from the commitment's nonce so that no two chains can claim the
// same slot without the miner noticing.
func ExpectedIndex(nonce uint32, chainID int32, height int) uint32 {
	rand := nonce
	rand = rand*1103515245 + 12345
	rand += uint32(chainID)
	rand = rand*1103515245 + 12345
	return rand % (1 << uint(height))
}

// Check validates that the AuxPoW commits to childHash on the chain with the
// given ID. It does not check the parent's proof of work, see
// CheckProofOfWork.
func (a *AuxPoW) Check(childHash *chainhash.Hash, chainID int32, strictChainID bool) error {
	if a.CoinbaseBranch.SideMask != 0 {
		return errors.Wrapf(ruleerrors.ErrAuxPoWNotGenerate,
			"coinbase branch side mask is %d", a.CoinbaseBranch.SideMask)
	}

	parentChainID := ChainID(a.ParentHeader.Version)
	if strictChainID && parentChainID == chainID {
		return errors.Wrapf(ruleerrors.ErrAuxPoWChainIDCollision,
			"parent block has our chain ID %d", chainID)
	}

	if len(a.ChainBranch.Hashes) > MaxChainMerkleBranchLength {
		return errors.Wrapf(ruleerrors.ErrAuxPoWChainBranchTooLong,
			"chain merkle branch has %d hashes, max is %d",
			len(a.ChainBranch.Hashes), MaxChainMerkleBranchLength)
	}

	coinbaseHash := a.Coinbase.TxHash()
	coinbaseRoot := a.CoinbaseBranch.Root(&coinbaseHash)
	if coinbaseRoot != a.ParentHeader.MerkleRoot {
		return errors.Wrapf(ruleerrors.ErrAuxPoWMerkleRootMismatch,
			"coinbase branch leads to %s, parent merkle root is %s",
			coinbaseRoot, a.ParentHeader.MerkleRoot)
	}

	if len(a.Coinbase.TxIn) == 0 {
		return errors.WithStack(ruleerrors.ErrAuxPoWCoinbaseNoInputs)
	}
	script := a.Coinbase.TxIn[0].SignatureScript

	// The commitment holds the chain merkle root in its reversed, display,
	// byte order.
	chainRoot := a.ChainBranch.Root(childHash)
	reversedRoot := make([]byte, chainhash.HashSize)
	for i, b := range chainRoot {
		reversedRoot[chainhash.HashSize-1-i] = b
	}

	rootPos := bytes.Index(script, reversedRoot)
	if rootPos < 0 {
		return errors.Wrapf(ruleerrors.ErrAuxPoWMissingChainRoot,
			"chain merkle root %s not found in the coinbase script", chainRoot)
	}

	headerPos := bytes.Index(script, MergedMiningHeader)
	if headerPos >= 0 {
		if bytes.Contains(script[headerPos+1:], MergedMiningHeader) {
			return errors.WithStack(ruleerrors.ErrAuxPoWMultipleHeaders)
		}
		if headerPos+len(MergedMiningHeader) != rootPos {
			return errors.Wrapf(ruleerrors.ErrAuxPoWHeaderNotBeforeRoot,
				"merged mining header at %d, chain merkle root at %d", headerPos, rootPos)
		}
	} else if rootPos > maxRootOffsetWithoutHeader {
		return errors.Wrapf(ruleerrors.ErrAuxPoWRootTooLate,
			"chain merkle root starts at %d without a merged mining header", rootPos)
	}

	commitment := script[rootPos+chainhash.HashSize:]
	if len(commitment) < 8 {
		return errors.Wrapf(ruleerrors.ErrAuxPoWMissingSizeNonce,
			"only %d bytes follow the chain merkle root", len(commitment))
	}

	size := binary.LittleEndian.Uint32(commitment[0:4])
	merkleHeight := len(a.ChainBranch.Hashes)
	if size != uint32(1)<<uint(merkleHeight) {
		return errors.Wrapf(ruleerrors.ErrAuxPoWBranchSizeMismatch,
			"committed tree size %d, chain merkle branch has %d hashes", size, merkleHeight)
	}

	nonce := binary.LittleEndian.Uint32(commitment[4:8])
	expectedIndex := ExpectedIndex(nonce, chainID, merkleHeight)
	if uint32(a.ChainBranch.SideMask) != expectedIndex {
		return errors.Wrapf(ruleerrors.ErrAuxPoWWrongIndex,
			"expected index %d, got %d", expectedIndex, a.ChainBranch.SideMask)
	}

	return nil
}

// CheckProofOfWork validates the AuxPoW commitment to childHash and that the
// parent header's proof of work meets target.
func (a *AuxPoW) CheckProofOfWork(childHash *chainhash.Hash, target *big.Int, rules ChainRules) error {
	err := a.Check(childHash, rules.AuxPoWChainID(), rules.StrictAuxPoWChainID())
	if err != nil {
		return err
	}

	powHash := a.ParentHeader.PoWHash(rules)
	if blockchain.HashToBig(&powHash).Cmp(target) > 0 {
		return errors.Wrapf(ruleerrors.ErrHighHash,
			"parent block PoW hash %s is higher than expected max of %064x",
			powHash, target)
	}
	return nil
}
