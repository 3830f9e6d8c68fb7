package wire

import (
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
)

// CmdSendCmpct is the command of the sendcmpct message.
const CmdSendCmpct = "sendcmpct"

// MsgSendCmpct implements the Message interface and represents a BIP0152
// sendcmpct message. It announces whether the peer wants new blocks pushed
// as compact blocks, and which compact block version it speaks.
type MsgSendCmpct struct {
	Announce bool
	Version  uint64
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgSendCmpct) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return readElements(r, &msg.Announce, &msg.Version)
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgSendCmpct) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return writeElements(w, msg.Announce, msg.Version)
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgSendCmpct) Command() string {
	return CmdSendCmpct
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgSendCmpct) MaxPayloadLength(pver uint32) uint32 {
	// Announce flag 1 byte + version 8 bytes.
	return 9
}

// NewMsgSendCmpct returns a new sendcmpct message that conforms to the
// Message interface. See MsgSendCmpct for details.
func NewMsgSendCmpct(announce bool, version uint64) *MsgSendCmpct {
	return &MsgSendCmpct{Announce: announce, Version: version}
}
