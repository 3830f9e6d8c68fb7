package wire

import (
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
)

const (
	// CmdSpork is the command of the spork message.
	CmdSpork = "spork"

	// CmdGetSporks is the command of the getsporks message.
	CmdGetSporks = "getsporks"
)

// maxSporkSignatureSize bounds the signature of a spork.
const maxSporkSignatureSize = 1024

// MsgSpork implements the Message interface and represents a spork message:
// a network wide switch set and signed by the spork key holder.
type MsgSpork struct {
	SporkID    int32
	Value      int64
	TimeSigned int64
	Signature  []byte
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgSpork) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	err := readElements(r, &msg.SporkID, &msg.Value, &msg.TimeSigned)
	if err != nil {
		return err
	}
	msg.Signature, err = btcwire.ReadVarBytes(r, pver, maxSporkSignatureSize,
		"spork signature")
	return err
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgSpork) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	err := writeElements(w, msg.SporkID, msg.Value, msg.TimeSigned)
	if err != nil {
		return err
	}
	return btcwire.WriteVarBytes(w, pver, msg.Signature)
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgSpork) Command() string {
	return CmdSpork
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgSpork) MaxPayloadLength(pver uint32) uint32 {
	// ID 4 bytes + value 8 bytes + time 8 bytes + signature.
	return 20 + MaxVarIntPayload + maxSporkSignatureSize
}

// MsgGetSporks implements the Message interface and represents a getsporks
// message. It asks a peer for every spork it knows.
//
// This message has no payload.
type MsgGetSporks struct{}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgGetSporks) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return nil
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgGetSporks) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return nil
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgGetSporks) Command() string {
	return CmdGetSporks
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgGetSporks) MaxPayloadLength(pver uint32) uint32 {
	return 0
}
