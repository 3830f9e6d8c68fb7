package wire

import (
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
)

// CmdUTXOs is the command of the utxos message.
const CmdUTXOs = "utxos"

// UTXO is an unspent output returned by a utxos message.
type UTXO struct {
	// TxVersion is the version of the transaction holding the output.
	TxVersion uint32

	// Height is the height of the block holding the transaction, or
	// MempoolHeight when the transaction is unconfirmed.
	Height uint32

	Output btcwire.TxOut
}

// MempoolHeight is the height reported for outputs of unconfirmed
// transactions.
const MempoolHeight = 0x7fffffff

// MsgUTXOs implements the Message interface and represents a BIP0064 utxos
// message, the reply to a getutxos message (MsgGetUTXOs).
type MsgUTXOs struct {
	// Height and ChainHead identify the chain tip the answer refers to.
	Height    uint32
	ChainHead chainhash.Hash

	// HitBitmap has bit i set when the outpoint i of the query is unspent.
	HitBitmap []byte

	// UTXOs holds the unspent outputs in query order.
	UTXOs []UTXO
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgUTXOs) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	err := readElements(r, &msg.Height, &msg.ChainHead)
	if err != nil {
		return err
	}

	msg.HitBitmap, err = btcwire.ReadVarBytes(r, pver, (MaxGetUTXOsOutPoints+7)/8,
		"utxos hit bitmap")
	if err != nil {
		return err
	}

	count, err := btcwire.ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	if count > MaxGetUTXOsOutPoints {
		return messageErrorf("MsgUTXOs.BtcDecode", "too many outputs "+
			"for message [count %d, max %d]", count, MaxGetUTXOsOutPoints)
	}

	msg.UTXOs = make([]UTXO, count)
	for i := range msg.UTXOs {
		utxo := &msg.UTXOs[i]
		err := readElements(r, &utxo.TxVersion, &utxo.Height)
		if err != nil {
			return err
		}
		err = btcwire.ReadTxOut(r, pver, int32(utxo.TxVersion), &utxo.Output)
		if err != nil {
			return err
		}
	}
	return nil
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgUTXOs) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	if len(msg.UTXOs) > MaxGetUTXOsOutPoints {
		return messageErrorf("MsgUTXOs.BtcEncode", "too many outputs "+
			"for message [count %d, max %d]", len(msg.UTXOs), MaxGetUTXOsOutPoints)
	}

	err := writeElements(w, msg.Height, &msg.ChainHead)
	if err != nil {
		return err
	}
	err = btcwire.WriteVarBytes(w, pver, msg.HitBitmap)
	if err != nil {
		return err
	}
	err = btcwire.WriteVarInt(w, pver, uint64(len(msg.UTXOs)))
	if err != nil {
		return err
	}
	for i := range msg.UTXOs {
		utxo := &msg.UTXOs[i]
		err := writeElements(w, utxo.TxVersion, utxo.Height)
		if err != nil {
			return err
		}
		err = btcwire.WriteTxOut(w, pver, int32(utxo.TxVersion), &utxo.Output)
		if err != nil {
			return err
		}
	}
	return nil
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgUTXOs) Command() string {
	return CmdUTXOs
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgUTXOs) MaxPayloadLength(pver uint32) uint32 {
	return MaxMessagePayload
}

// IsUnspent returns whether the outpoint at the given query position was
// reported unspent.
func (msg *MsgUTXOs) IsUnspent(index int) bool {
	if index < 0 || index/8 >= len(msg.HitBitmap) {
		return false
	}
	return msg.HitBitmap[index/8]&(1<<uint(index%8)) != 0
}
