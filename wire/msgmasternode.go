package wire

import (
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
)

const (
	// CmdMasternodeBroadcast is the command of the mnb message.
	CmdMasternodeBroadcast = "mnb"

	// CmdMasternodePing is the command of the mnp message.
	CmdMasternodePing = "mnp"

	// CmdMasternodePaymentVote is the command of the mnw message.
	CmdMasternodePaymentVote = "mnw"

	// CmdMasternodeVerify is the command of the mnv message.
	CmdMasternodeVerify = "mnv"

	// CmdMasternodePaymentSync is the command of the mnget message.
	CmdMasternodePaymentSync = "mnget"
)

// MsgMasternodeBroadcast implements the Message interface and represents a mnb
// message: the announcement of a masternode with its collateral and keys. Its
// payload is relayed without being interpreted.
type MsgMasternodeBroadcast struct {
	rawPayload
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgMasternodeBroadcast) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.decode(r, "mnb payload")
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgMasternodeBroadcast) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.encode(w, "MsgMasternodeBroadcast.BtcEncode")
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgMasternodeBroadcast) Command() string {
	return CmdMasternodeBroadcast
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgMasternodeBroadcast) MaxPayloadLength(pver uint32) uint32 {
	return maxRawPayload
}

// MsgMasternodePing implements the Message interface and represents a mnp
// message: a signed liveness proof of a masternode. Its payload is relayed
// without being interpreted.
type MsgMasternodePing struct {
	rawPayload
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgMasternodePing) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.decode(r, "mnp payload")
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgMasternodePing) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.encode(w, "MsgMasternodePing.BtcEncode")
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgMasternodePing) Command() string {
	return CmdMasternodePing
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgMasternodePing) MaxPayloadLength(pver uint32) uint32 {
	return maxRawPayload
}

// MsgMasternodePaymentVote implements the Message interface and represents a
// mnw message: a masternode vote on the payee of a future block. Its payload
// is relayed without being interpreted.
type MsgMasternodePaymentVote struct {
	rawPayload
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgMasternodePaymentVote) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.decode(r, "mnw payload")
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgMasternodePaymentVote) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.encode(w, "MsgMasternodePaymentVote.BtcEncode")
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgMasternodePaymentVote) Command() string {
	return CmdMasternodePaymentVote
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgMasternodePaymentVote) MaxPayloadLength(pver uint32) uint32 {
	return maxRawPayload
}

// MsgMasternodeVerify implements the Message interface and represents a mnv
// message: a challenge proving a masternode controls its address. Its payload
// is relayed without being interpreted.
type MsgMasternodeVerify struct {
	rawPayload
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgMasternodeVerify) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.decode(r, "mnv payload")
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgMasternodeVerify) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return msg.encode(w, "MsgMasternodeVerify.BtcEncode")
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgMasternodeVerify) Command() string {
	return CmdMasternodeVerify
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgMasternodeVerify) MaxPayloadLength(pver uint32) uint32 {
	return maxRawPayload
}

// MsgMasternodePaymentSync implements the Message interface and represents a
// mnget message. It asks a peer for the masternode payment votes it knows,
// telling how many it still needs.
type MsgMasternodePaymentSync struct {
	CountNeeded int32
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgMasternodePaymentSync) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return readElement(r, &msg.CountNeeded)
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgMasternodePaymentSync) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return writeElement(w, msg.CountNeeded)
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgMasternodePaymentSync) Command() string {
	return CmdMasternodePaymentSync
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgMasternodePaymentSync) MaxPayloadLength(pver uint32) uint32 {
	return 4
}
