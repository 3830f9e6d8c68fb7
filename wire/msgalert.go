// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
)

// CmdAlert is the command of the alert message.
const CmdAlert = "alert"

// maxAlertFieldSize bounds each of the two variable length fields of an
// alert.
const maxAlertFieldSize = MaxMessagePayload / 2

// MsgAlert implements the Message interface and represents an alert message.
// The payload is a serialized alert signed by the network's alert key. Alerts
// are retired on every supported chain, so the payload is kept opaque.
type MsgAlert struct {
	// SerializedPayload is the alert payload serialized as a string so that
	// the version can change but the alert can still be passed on by older
	// nodes.
	SerializedPayload []byte

	// Signature is the ECDSA signature of the message.
	Signature []byte
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgAlert) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	var err error
	msg.SerializedPayload, err = btcwire.ReadVarBytes(r, pver, maxAlertFieldSize,
		"alert serialized payload")
	if err != nil {
		return err
	}

	msg.Signature, err = btcwire.ReadVarBytes(r, pver, maxAlertFieldSize,
		"alert signature")
	return err
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgAlert) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	err := btcwire.WriteVarBytes(w, pver, msg.SerializedPayload)
	if err != nil {
		return err
	}
	return btcwire.WriteVarBytes(w, pver, msg.Signature)
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgAlert) Command() string {
	return CmdAlert
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgAlert) MaxPayloadLength(pver uint32) uint32 {
	return MaxMessagePayload
}

// NewMsgAlert returns a new alert message that conforms to the Message
// interface. See MsgAlert for details.
func NewMsgAlert(serializedPayload []byte, signature []byte) *MsgAlert {
	return &MsgAlert{
		SerializedPayload: serializedPayload,
		Signature:         signature,
	}
}
