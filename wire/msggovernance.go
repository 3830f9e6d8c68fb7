package wire

import (
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
)

const (
	// CmdGovernanceSync is the command of the govsync message.
	CmdGovernanceSync = "govsync"

	// CmdGovernanceObject is the command of the govobj message.
	CmdGovernanceObject = "govobj"

	// CmdGovernanceVote is the command of the govobjvote message.
	CmdGovernanceVote = "govobjvote"
)

// MsgGovernanceSync implements the Message interface and represents a govsync
// message: a request for governance objects and their votes. Its payload is
// relayed without being interpreted.
type MsgGovernanceSync struct {
	rawPayload
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgGovernanceSync) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.decode(r, "govsync payload")
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgGovernanceSync) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.encode(w, "MsgGovernanceSync.BtcEncode")
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgGovernanceSync) Command() string {
	return CmdGovernanceSync
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgGovernanceSync) MaxPayloadLength(pver uint32) uint32 {
	return maxRawPayload
}

// MsgGovernanceObject implements the Message interface and represents a govobj
// message: a proposal or trigger submitted to the governance system. Its
// payload is relayed without being interpreted.
type MsgGovernanceObject struct {
	rawPayload
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgGovernanceObject) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.decode(r, "govobj payload")
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgGovernanceObject) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.encode(w, "MsgGovernanceObject.BtcEncode")
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgGovernanceObject) Command() string {
	return CmdGovernanceObject
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgGovernanceObject) MaxPayloadLength(pver uint32) uint32 {
	return maxRawPayload
}

// MsgGovernanceVote implements the Message interface and represents a
// govobjvote message: a masternode vote on a governance object. Its payload is
// relayed without being interpreted.
type MsgGovernanceVote struct {
	rawPayload
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgGovernanceVote) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.decode(r, "govobjvote payload")
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgGovernanceVote) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.encode(w, "MsgGovernanceVote.BtcEncode")
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgGovernanceVote) Command() string {
	return CmdGovernanceVote
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgGovernanceVote) MaxPayloadLength(pver uint32) uint32 {
	return maxRawPayload
}
