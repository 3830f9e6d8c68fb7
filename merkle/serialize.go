package merkle

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/altcoinj/altcoin/util/binaryserializer"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// maxFlagBytes is the largest flag array a tree with MaxTransactions leaves
// can need: one bit per node, and a tree has less than two nodes per leaf.
const maxFlagBytes = (2*MaxTransactions + 7) / 8

func messageError(f string, desc string) *btcwire.MessageError {
	return &btcwire.MessageError{Func: f, Description: desc}
}

// Deserialize decodes a partial merkle tree from r: a little endian uint32
// transaction count, a varint prefixed list of hashes and a varint prefixed
// array of flag bytes. The flags are unpacked least significant bit first.
func (t *PartialMerkleTree) Deserialize(r io.Reader) error {
	transactionCount, err := binaryserializer.Uint32(r, binary.LittleEndian)
	if err != nil {
		return err
	}
	if transactionCount > MaxTransactions {
		str := fmt.Sprintf("too many transactions for a partial merkle tree "+
			"[count %d, max %d]", transactionCount, MaxTransactions)
		return messageError("PartialMerkleTree.Deserialize", str)
	}

	hashCount, err := btcwire.ReadVarInt(r, 0)
	if err != nil {
		return errors.WithStack(err)
	}
	if hashCount > uint64(transactionCount) {
		str := fmt.Sprintf("more hashes than transactions in partial merkle tree "+
			"[hashes %d, transactions %d]", hashCount, transactionCount)
		return messageError("PartialMerkleTree.Deserialize", str)
	}
	treeHashes := make([]chainhash.Hash, hashCount)
	for i := range treeHashes {
		_, err := io.ReadFull(r, treeHashes[i][:])
		if err != nil {
			return errors.WithStack(err)
		}
	}

	flags, err := btcwire.ReadVarBytes(r, 0, maxFlagBytes, "partial merkle tree flags")
	if err != nil {
		return errors.WithStack(err)
	}
	bits := make([]bool, len(flags)*8)
	for i := range bits {
		bits[i] = flags[i/8]&(1<<(uint(i)%8)) != 0
	}

	t.TransactionCount = transactionCount
	t.Hashes = treeHashes
	t.Bits = bits
	return nil
}

// Serialize encodes the tree to w in the format read by Deserialize.
func (t *PartialMerkleTree) Serialize(w io.Writer) error {
	err := binaryserializer.PutUint32(w, binary.LittleEndian, t.TransactionCount)
	if err != nil {
		return err
	}

	err = btcwire.WriteVarInt(w, 0, uint64(len(t.Hashes)))
	if err != nil {
		return errors.WithStack(err)
	}
	for i := range t.Hashes {
		_, err := w.Write(t.Hashes[i][:])
		if err != nil {
			return errors.WithStack(err)
		}
	}

	return errors.WithStack(btcwire.WriteVarBytes(w, 0, t.flagBytes()))
}

// SerializeSize returns the number of bytes Serialize writes.
func (t *PartialMerkleTree) SerializeSize() int {
	flagByteCount := (len(t.Bits) + 7) / 8
	return 4 + btcwire.VarIntSerializeSize(uint64(len(t.Hashes))) +
		len(t.Hashes)*chainhash.HashSize +
		btcwire.VarIntSerializeSize(uint64(flagByteCount)) + flagByteCount
}

func (t *PartialMerkleTree) flagBytes() []byte {
	flags := make([]byte, (len(t.Bits)+7)/8)
	for i, bit := range t.Bits {
		if bit {
			flags[i/8] |= 1 << (uint(i) % 8)
		}
	}
	return flags
}
