package wire

import (
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
)

// CmdGetUTXOs is the command of the getutxos message.
const CmdGetUTXOs = "getutxos"

// MaxGetUTXOsOutPoints is the maximum number of outpoints a getutxos message
// may query.
const MaxGetUTXOsOutPoints = 100

// MsgGetUTXOs implements the Message interface and represents a BIP0064
// getutxos message. It queries the unspent state of a list of outpoints.
type MsgGetUTXOs struct {
	CheckMempool bool
	OutPoints    []btcwire.OutPoint
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgGetUTXOs) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	err := readElement(r, &msg.CheckMempool)
	if err != nil {
		return err
	}

	count, err := btcwire.ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	if count > MaxGetUTXOsOutPoints {
		return messageErrorf("MsgGetUTXOs.BtcDecode", "too many outpoints "+
			"for message [count %d, max %d]", count, MaxGetUTXOsOutPoints)
	}

	msg.OutPoints = make([]btcwire.OutPoint, count)
	for i := range msg.OutPoints {
		err := readElements(r, &msg.OutPoints[i].Hash, &msg.OutPoints[i].Index)
		if err != nil {
			return err
		}
	}
	return nil
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgGetUTXOs) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	count := len(msg.OutPoints)
	if count > MaxGetUTXOsOutPoints {
		return messageErrorf("MsgGetUTXOs.BtcEncode", "too many outpoints "+
			"for message [count %d, max %d]", count, MaxGetUTXOsOutPoints)
	}

	err := writeElement(w, msg.CheckMempool)
	if err != nil {
		return err
	}
	err = btcwire.WriteVarInt(w, pver, uint64(count))
	if err != nil {
		return err
	}
	for i := range msg.OutPoints {
		err := writeElements(w, &msg.OutPoints[i].Hash, msg.OutPoints[i].Index)
		if err != nil {
			return err
		}
	}
	return nil
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgGetUTXOs) Command() string {
	return CmdGetUTXOs
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgGetUTXOs) MaxPayloadLength(pver uint32) uint32 {
	// Mempool flag 1 byte + count varint + 36 bytes per outpoint.
	return 1 + MaxVarIntPayload + MaxGetUTXOsOutPoints*36
}

// AddOutPoint adds an outpoint to the query.
func (msg *MsgGetUTXOs) AddOutPoint(outPoint *btcwire.OutPoint) error {
	if len(msg.OutPoints)+1 > MaxGetUTXOsOutPoints {
		return messageErrorf("MsgGetUTXOs.AddOutPoint", "too many outpoints "+
			"in message [max %d]", MaxGetUTXOsOutPoints)
	}
	msg.OutPoints = append(msg.OutPoints, *outPoint)
	return nil
}

// NewMsgGetUTXOs returns a new getutxos message that conforms to the Message
// interface. See MsgGetUTXOs for details.
func NewMsgGetUTXOs(checkMempool bool) *MsgGetUTXOs {
	return &MsgGetUTXOs{CheckMempool: checkMempool}
}
