// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"
	"time"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// BlockHeaderPayload is the number of bytes a block header takes.
// Version 4 bytes + Timestamp 4 bytes + Bits 4 bytes + Nonce 4 bytes +
// PrevBlock and MerkleRoot hashes.
const BlockHeaderPayload = 16 + (chainhash.HashSize * 2)

// BlockHeader defines information about a block and is used in the block
// (MsgBlock), headers (MsgHeaders) and merkleblock (MsgMerkleBlock)
// messages, and as the parent header of an AuxPoW.
type BlockHeader struct {
	// Version of the block. This is not the same as the protocol version.
	// It also carries the AuxPoW flag and the chain ID.
	Version int32

	// Hash of the previous block header in the block chain.
	PrevBlock chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	MerkleRoot chainhash.Hash

	// Time the block was created. This is, unfortunately, encoded as a
	// uint32 on the wire and therefore is limited to 2106.
	Timestamp time.Time

	// Difficulty target for the block.
	Bits uint32

	// Nonce used to generate the block.
	Nonce uint32
}

// BlockHash computes the block identifier hash for the given block header.
func (h *BlockHeader) BlockHash() chainhash.Hash {
	return chainhash.DoubleHashH(h.bytes())
}

// PoWHash computes the proof of work hash of the header with the hashing
// function of the given chain.
func (h *BlockHeader) PoWHash(rules ChainRules) chainhash.Hash {
	return rules.PoWHash(h.bytes())
}

// bytes returns the serialized header. Ignore the error returns since there
// is no way the encode could fail except being out of memory which would
// cause a run-time panic.
func (h *BlockHeader) bytes() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, BlockHeaderPayload))
	_ = writeBlockHeader(buf, h)
	return buf.Bytes()
}

// Deserialize decodes a block header from r into the receiver using a format
// that is suitable for long-term storage such as a database.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	// At the current time, there is no difference between the wire encoding
	// and the stable long-term storage format.
	return readBlockHeader(r, h)
}

// Serialize encodes a block header into w using a format that is suitable
// for long-term storage such as a database.
func (h *BlockHeader) Serialize(w io.Writer) error {
	return writeBlockHeader(w, h)
}

// SerializeSize returns the number of bytes it would take to serialize the
// block header.
func (h *BlockHeader) SerializeSize() int {
	return BlockHeaderPayload
}

// NewBlockHeader returns a new BlockHeader using the provided version, previous
// block hash, merkle root hash, difficulty bits, and nonce used to generate the
// block with defaults for the remaining fields.
func NewBlockHeader(version int32, prevHash, merkleRootHash *chainhash.Hash,
	bits uint32, nonce uint32) *BlockHeader {

	// Limit the timestamp to one second precision since the protocol
	// doesn't support better.
	return &BlockHeader{
		Version:    version,
		PrevBlock:  *prevHash,
		MerkleRoot: *merkleRootHash,
		Timestamp:  time.Unix(time.Now().Unix(), 0),
		Bits:       bits,
		Nonce:      nonce,
	}
}

// readBlockHeader reads a block header from r.
func readBlockHeader(r io.Reader, bh *BlockHeader) error {
	return readElements(r, &bh.Version, &bh.PrevBlock, &bh.MerkleRoot,
		(*uint32Time)(&bh.Timestamp), &bh.Bits, &bh.Nonce)
}

// writeBlockHeader writes a block header to w.
func writeBlockHeader(w io.Writer, bh *BlockHeader) error {
	return writeElements(w, bh.Version, &bh.PrevBlock, &bh.MerkleRoot,
		uint32Time(bh.Timestamp), bh.Bits, bh.Nonce)
}
