// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	"github.com/altcoinj/altcoin/merkle"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bloom"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
)

// MsgMerkleBlock implements the Message interface and represents a
// merkleblock message which delivers the transactions of a block matched by
// a Bloom filter. The header of a
// merged mined block is followed by its AuxPoW, then by the partial merkle
// tree of the transactions matched by the filter.
type MsgMerkleBlock struct {
	Header BlockHeader
	AuxPoW *AuxPoW
	Tree   merkle.PartialMerkleTree

	policy AuxPoWVersionPolicy
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgMerkleBlock) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	if pver < btcwire.BIP0037Version {
		return messageErrorf("MsgMerkleBlock.BtcDecode", "merkleblock "+
			"message invalid for protocol version %d", pver)
	}

	err := readBlockHeader(r, &msg.Header)
	if err != nil {
		return err
	}

	msg.AuxPoW = nil
	if msg.policy.IsAuxPoW(msg.Header.Version) {
		msg.AuxPoW = &AuxPoW{}
		err := msg.AuxPoW.BtcDecode(r, pver)
		if err != nil {
			return err
		}
	}

	return msg.Tree.Deserialize(r)
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgMerkleBlock) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	if pver < btcwire.BIP0037Version {
		return messageErrorf("MsgMerkleBlock.BtcEncode", "merkleblock "+
			"message invalid for protocol version %d", pver)
	}

	expectAuxPoW := msg.policy.IsAuxPoW(msg.Header.Version)
	if expectAuxPoW != (msg.AuxPoW != nil) {
		return messageErrorf("MsgMerkleBlock.BtcEncode", "block version %#x "+
			"does not match the presence of an AuxPoW", msg.Header.Version)
	}

	err := writeBlockHeader(w, &msg.Header)
	if err != nil {
		return err
	}
	if msg.AuxPoW != nil {
		err := msg.AuxPoW.BtcEncode(w, pver)
		if err != nil {
			return err
		}
	}
	return msg.Tree.Serialize(w)
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgMerkleBlock) Command() string {
	return btcwire.CmdMerkleBlock
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgMerkleBlock) MaxPayloadLength(pver uint32) uint32 {
	return btcwire.MaxBlockPayload
}

// BlockHash computes the identifier hash of the block.
func (msg *MsgMerkleBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// ExtractMatches validates the partial merkle tree against the header and
// returns the hashes of the matched transactions, in block order.
func (msg *MsgMerkleBlock) ExtractMatches() ([]chainhash.Hash, error) {
	err := msg.Tree.CheckRoot(&msg.Header.MerkleRoot)
	if err != nil {
		return nil, err
	}
	_, matches, _, err := msg.Tree.ExtractMatches()
	return matches, err
}

// NewMsgMerkleBlock returns a merkleblock message for block, keeping the
// transactions whose include flag is set.
func NewMsgMerkleBlock(block *MsgBlock, include []bool) (*MsgMerkleBlock, error) {
	tree, err := merkle.BuildFromLeaves(block.TxHashes(), include)
	if err != nil {
		return nil, err
	}
	return &MsgMerkleBlock{
		Header: block.Header,
		AuxPoW: block.AuxPoW,
		Tree:   *tree,
		policy: block.policy,
	}, nil
}

// NewMsgMerkleBlockFromFilter returns a merkleblock message for block holding
// the transactions matched by filter, together with the indexes of the
// matched transactions. The filter is updated as its matching rules require.
func NewMsgMerkleBlockFromFilter(block *MsgBlock, filter *bloom.Filter) (*MsgMerkleBlock, []uint32, error) {
	include := make([]bool, len(block.Transactions))
	var matchedIndexes []uint32
	for i, tx := range block.Transactions {
		if filter.MatchTxAndUpdate(btcutil.NewTx(tx)) {
			include[i] = true
			matchedIndexes = append(matchedIndexes, uint32(i))
		}
	}

	merkleBlock, err := NewMsgMerkleBlock(block, include)
	if err != nil {
		return nil, nil, err
	}
	return merkleBlock, matchedIndexes, nil
}

// NewEmptyMsgMerkleBlock returns a merkleblock message ready to be decoded.
func NewEmptyMsgMerkleBlock(policy AuxPoWVersionPolicy) *MsgMerkleBlock {
	return &MsgMerkleBlock{policy: policy}
}
