// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/altcoinj/altcoin/infrastructure/metrics"
	"github.com/altcoinj/altcoin/ruleerrors"
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// defaultTransactionAlloc is the default size used for the backing array
// for transactions. The transaction array will dynamically grow as needed, but
// this figure is intended to provide enough space for the number of
// transactions in the vast majority of blocks without needing to grow the
// backing array multiple times.
const defaultTransactionAlloc = 2048

// minTxPayload is the minimum payload size for a transaction. Note
// that any realistically usable transaction must have at least one
// input or output, but that is a rule enforced at a higher layer, so
// it is intentionally not included here.
// Version 4 bytes + Varint number of transaction inputs 1 byte + Varint
// number of transaction outputs 1 byte + LockTime 4 bytes + min input
// payload + min output payload.
const minTxPayload = 10

// maxTxPerBlock is the maximum number of transactions that could
// possibly fit into a block.
const maxTxPerBlock = (btcwire.MaxBlockPayload / minTxPayload) + 1

// ParseState tells how much of a block has been decoded.
type ParseState int

const (
	// Unparsed is the state of a block that was not decoded.
	Unparsed ParseState = iota

	// HeaderParsed is the state after the 80-byte header was decoded.
	HeaderParsed

	// AuxPoWParsed is the state after the AuxPoW, if any, was decoded.
	AuxPoWParsed

	// TransactionsParsed is the state after the transactions were decoded.
	TransactionsParsed

	// Complete is the state of a fully decoded block.
	Complete
)

var parseStateStrings = map[ParseState]string{
	Unparsed:           "Unparsed",
	HeaderParsed:       "HeaderParsed",
	AuxPoWParsed:       "AuxPoWParsed",
	TransactionsParsed: "TransactionsParsed",
	Complete:           "Complete",
}

func (s ParseState) String() string {
	if str, ok := parseStateStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("Unknown ParseState (%d)", int(s))
}

// PoWMode tells how the proof of work of a block is carried.
type PoWMode int

const (
	// PoWModeDirect is the mode of a block mined on its own.
	PoWModeDirect PoWMode = iota

	// PoWModeMergedMining is the mode of a block carrying an AuxPoW.
	PoWModeMergedMining
)

func (m PoWMode) String() string {
	if m == PoWModeMergedMining {
		return "merged mining"
	}
	return "direct"
}

// MsgBlock implements the Message interface and represents a block message.
// It is used to deliver block and transaction information in response
// to a getdata message (MsgGetData) for a given block hash.
//
// Whether an AuxPoW follows the header on the wire is decided by the
// AuxPoWVersionPolicy the block was created with.
type MsgBlock struct {
	Header       BlockHeader
	AuxPoW       *AuxPoW
	Transactions []*btcwire.MsgTx

	policy     AuxPoWVersionPolicy
	parseState ParseState

	powHashOnce sync.Once
	powHash     chainhash.Hash
}

// AddTransaction adds a transaction to the message.
func (msg *MsgBlock) AddTransaction(tx *btcwire.MsgTx) {
	msg.Transactions = append(msg.Transactions, tx)
}

// ClearTransactions removes all transactions from the message.
func (msg *MsgBlock) ClearTransactions() {
	msg.Transactions = make([]*btcwire.MsgTx, 0, defaultTransactionAlloc)
}

// Policy returns the AuxPoW version policy of the block.
func (msg *MsgBlock) Policy() AuxPoWVersionPolicy {
	return msg.policy
}

// ParseState returns how much of the block has been decoded.
func (msg *MsgBlock) ParseState() ParseState {
	return msg.parseState
}

// decodeHeaderAndAuxPoW reads the header and, if its version calls for one,
// the AuxPoW of the block.
func (msg *MsgBlock) decodeHeaderAndAuxPoW(r io.Reader, pver uint32, funcName string) error {
	if msg.parseState != Unparsed {
		return messageErrorf(funcName, "block is already %s", msg.parseState)
	}

	err := readBlockHeader(r, &msg.Header)
	if err != nil {
		msg.resetParse()
		return err
	}
	msg.parseState = HeaderParsed

	if msg.policy.IsAuxPoW(msg.Header.Version) {
		msg.AuxPoW = &AuxPoW{}
		err := msg.AuxPoW.BtcDecode(r, pver)
		if err != nil {
			msg.resetParse()
			return err
		}
	}
	msg.parseState = AuxPoWParsed
	return nil
}

func readTxCount(r io.Reader, pver uint32, funcName string) (uint64, error) {
	txCount, err := btcwire.ReadVarInt(r, pver)
	if err != nil {
		return 0, err
	}

	// Prevent more transactions than could possibly fit into a block.
	// It would be possible to cause memory exhaustion and panics without
	// a sane upper bound on this count.
	if txCount > maxTxPerBlock {
		return 0, messageErrorf(funcName, "too many transactions to fit into "+
			"a block [count %d, max %d]", txCount, maxTxPerBlock)
	}
	return txCount, nil
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation. A block can only be
// decoded once; a failed decode leaves it Unparsed.
func (msg *MsgBlock) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	err := msg.decodeHeaderAndAuxPoW(r, pver, "MsgBlock.BtcDecode")
	if err != nil {
		return err
	}

	err = msg.decodeTransactions(r, pver, "MsgBlock.BtcDecode", func(tx *btcwire.MsgTx) error {
		return tx.BtcDecode(r, pver, enc)
	})
	if err != nil {
		msg.resetParse()
		return err
	}
	msg.parseState = Complete
	return nil
}

// decodeTransactions reads the transaction count and decodes each
// transaction with decode.
func (msg *MsgBlock) decodeTransactions(r io.Reader, pver uint32, funcName string,
	decode func(tx *btcwire.MsgTx) error) error {

	txCount, err := readTxCount(r, pver, funcName)
	if err != nil {
		return err
	}

	msg.Transactions = make([]*btcwire.MsgTx, 0, txCount)
	for i := uint64(0); i < txCount; i++ {
		tx := btcwire.MsgTx{}
		err := decode(&tx)
		if err != nil {
			return err
		}
		msg.Transactions = append(msg.Transactions, &tx)
	}
	msg.parseState = TransactionsParsed
	return nil
}

// resetParse discards a partially decoded block so it can be decoded again.
func (msg *MsgBlock) resetParse() {
	msg.Header = BlockHeader{}
	msg.AuxPoW = nil
	msg.Transactions = nil
	msg.parseState = Unparsed
}

// Deserialize decodes a block from r into the receiver using a format that is
// suitable for long-term storage such as a database.
func (msg *MsgBlock) Deserialize(r io.Reader) error {
	// At the current time, there is no difference between the wire encoding
	// at protocol version 0 and the stable long-term storage format.
	return msg.BtcDecode(r, 0, btcwire.WitnessEncoding)
}

// DeserializeTxLoc decodes r in the same manner Deserialize does, but it takes
// a byte buffer instead of a generic reader and returns a slice containing the
// start and length of each transaction within the raw data that is being
// deserialized. The offsets account for the AuxPoW between the header and the
// transactions.
func (msg *MsgBlock) DeserializeTxLoc(r *bytes.Buffer) ([]btcwire.TxLoc, error) {
	fullLen := r.Len()

	err := msg.decodeHeaderAndAuxPoW(r, 0, "MsgBlock.DeserializeTxLoc")
	if err != nil {
		return nil, err
	}

	// Deserialize each transaction while keeping track of its location
	// within the byte stream.
	var txLocs []btcwire.TxLoc
	err = msg.decodeTransactions(r, 0, "MsgBlock.DeserializeTxLoc", func(tx *btcwire.MsgTx) error {
		txStart := fullLen - r.Len()
		err := tx.Deserialize(r)
		if err != nil {
			return err
		}
		txLocs = append(txLocs, btcwire.TxLoc{
			TxStart: txStart,
			TxLen:   (fullLen - r.Len()) - txStart,
		})
		return nil
	})
	if err != nil {
		msg.resetParse()
		return nil, err
	}
	msg.parseState = Complete
	return txLocs, nil
}

// checkAuxPoWPresence fails when the block's AuxPoW does not match what its
// version announces, since the result could not be decoded again.
func (msg *MsgBlock) checkAuxPoWPresence(funcName string) error {
	expectAuxPoW := msg.policy.IsAuxPoW(msg.Header.Version)
	if expectAuxPoW && msg.AuxPoW == nil {
		return messageErrorf(funcName, "block version %#x requires an AuxPoW",
			msg.Header.Version)
	}
	if !expectAuxPoW && msg.AuxPoW != nil {
		return messageErrorf(funcName, "block version %#x does not allow an AuxPoW",
			msg.Header.Version)
	}
	return nil
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgBlock) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	err := msg.checkAuxPoWPresence("MsgBlock.BtcEncode")
	if err != nil {
		return err
	}

	err = writeBlockHeader(w, &msg.Header)
	if err != nil {
		return err
	}

	if msg.AuxPoW != nil {
		err := msg.AuxPoW.BtcEncode(w, pver)
		if err != nil {
			return err
		}
	}

	err = btcwire.WriteVarInt(w, pver, uint64(len(msg.Transactions)))
	if err != nil {
		return err
	}

	for _, tx := range msg.Transactions {
		err = tx.BtcEncode(w, pver, enc)
		if err != nil {
			return err
		}
	}

	return nil
}

// Serialize encodes the block to w using a format that suitable for long-term
// storage such as a database.
func (msg *MsgBlock) Serialize(w io.Writer) error {
	return msg.BtcEncode(w, 0, btcwire.WitnessEncoding)
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (msg *MsgBlock) SerializeSize() int {
	// Block header bytes + Serialized varint size for the number of
	// transactions.
	n := BlockHeaderPayload + btcwire.VarIntSerializeSize(uint64(len(msg.Transactions)))

	if msg.AuxPoW != nil {
		n += msg.AuxPoW.SerializeSize()
	}

	for _, tx := range msg.Transactions {
		n += tx.SerializeSize()
	}

	return n
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgBlock) Command() string {
	return btcwire.CmdBlock
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgBlock) MaxPayloadLength(pver uint32) uint32 {
	return btcwire.MaxBlockPayload
}

// BlockHash computes the block identifier hash for this block.
func (msg *MsgBlock) BlockHash() chainhash.Hash {
	return msg.Header.BlockHash()
}

// TxHashes returns a slice of hashes of all of transactions in this block.
func (msg *MsgBlock) TxHashes() []chainhash.Hash {
	hashList := make([]chainhash.Hash, 0, len(msg.Transactions))
	for _, tx := range msg.Transactions {
		hashList = append(hashList, tx.TxHash())
	}
	return hashList
}

// PoWMode returns how the proof of work of the block is carried.
func (msg *MsgBlock) PoWMode() PoWMode {
	if msg.AuxPoW != nil {
		return PoWModeMergedMining
	}
	return PoWModeDirect
}

// PoWHash returns the block's own proof of work hash. The hash is computed
// once and reused afterwards, so the header must not change after the first
// call.
func (msg *MsgBlock) PoWHash(rules ChainRules) chainhash.Hash {
	msg.powHashOnce.Do(func() {
		msg.powHash = msg.Header.PoWHash(rules)
	})
	return msg.powHash
}

// CheckProofOfWork validates the block's target against the chain's limit and
// then its proof of work: its own for a directly mined block, the AuxPoW's
// for a merged mined one.
func (msg *MsgBlock) CheckProofOfWork(rules ChainRules) error {
	err := msg.checkProofOfWork(rules)
	metrics.ObserveProofOfWorkCheck(msg.PoWMode().String(), err)
	return err
}

func (msg *MsgBlock) checkProofOfWork(rules ChainRules) error {
	target := blockchain.CompactToBig(msg.Header.Bits)
	if target.Sign() <= 0 {
		return errors.Wrapf(ruleerrors.ErrInvalidTarget,
			"block target difficulty of %064x is too low", target)
	}
	if target.Cmp(rules.MaxTarget()) > 0 {
		return errors.Wrapf(ruleerrors.ErrTargetTooHigh,
			"block target difficulty of %064x is higher than max of %064x",
			target, rules.MaxTarget())
	}

	isAuxPoWVersion := rules.AuxPoWVersion(msg.Header.Version)
	switch {
	case msg.AuxPoW == nil && isAuxPoWVersion:
		return errors.Wrapf(ruleerrors.ErrMissingAuxPoW,
			"block version %#x requires an AuxPoW", msg.Header.Version)

	case msg.AuxPoW != nil && !isAuxPoWVersion:
		return errors.Wrapf(ruleerrors.ErrUnexpectedAuxPoW,
			"block version %#x does not allow an AuxPoW", msg.Header.Version)

	case msg.AuxPoW != nil:
		chainID := ChainID(msg.Header.Version)
		if rules.StrictAuxPoWChainID() && chainID != rules.AuxPoWChainID() {
			return errors.Wrapf(ruleerrors.ErrWrongChainID,
				"block has chain ID %d, expected %d", chainID, rules.AuxPoWChainID())
		}
		blockHash := msg.BlockHash()
		return msg.AuxPoW.CheckProofOfWork(&blockHash, target, rules)
	}

	powHash := msg.PoWHash(rules)
	if blockchain.HashToBig(&powHash).Cmp(target) > 0 {
		return errors.Wrapf(ruleerrors.ErrHighHash,
			"block PoW hash %s is higher than expected max of %064x",
			powHash, target)
	}
	return nil
}

// VerifyProofOfWork is like CheckProofOfWork but reports the outcome as a
// bool, logging the reason of a failure.
func (msg *MsgBlock) VerifyProofOfWork(rules ChainRules) bool {
	err := msg.CheckProofOfWork(rules)
	if err != nil {
		log.Debugf("Block %s failed its proof of work check: %s", msg.BlockHash(), err)
		return false
	}
	return true
}

// CloneAsHeader returns a copy of the block without its transactions. The
// AuxPoW is shared with the original.
func (msg *MsgBlock) CloneAsHeader() *MsgBlock {
	return &MsgBlock{
		Header:     msg.Header,
		AuxPoW:     msg.AuxPoW,
		policy:     msg.policy,
		parseState: msg.parseState,
	}
}

// BlockPayloadLength walks a serialized block, AuxPoW and transactions
// included, and returns the number of bytes it occupies at the start of
// payload.
func BlockPayloadLength(payload []byte, policy AuxPoWVersionPolicy) (int, error) {
	r := bytes.NewBuffer(payload)
	_, err := NewEmptyMsgBlock(policy).DeserializeTxLoc(r)
	if err != nil {
		return 0, err
	}
	return len(payload) - r.Len(), nil
}

// NewMsgBlock returns a new block message that conforms to the Message
// interface. See MsgBlock for details.
func NewMsgBlock(blockHeader *BlockHeader, policy AuxPoWVersionPolicy) *MsgBlock {
	return &MsgBlock{
		Header:       *blockHeader,
		Transactions: make([]*btcwire.MsgTx, 0, defaultTransactionAlloc),
		policy:       policy,
	}
}

// NewEmptyMsgBlock returns a block message ready to be decoded.
func NewEmptyMsgBlock(policy AuxPoWVersionPolicy) *MsgBlock {
	return &MsgBlock{policy: policy}
}
