package wire

import (
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// MsgUnknown holds a message whose command is not registered in the message
// table it was read with. The payload is kept as received. It is never
// registered, so WriteMessage refuses it with ErrUnsupportedMessage.
type MsgUnknown struct {
	Cmd     string
	Payload []byte
}

// BtcDecode decodes r into the receiver. This is part of the Message
// interface implementation.
func (msg *MsgUnknown) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	var err error
	msg.Payload, err = readRemaining(r, MaxMessagePayload, "unknown message payload")
	return err
}

// BtcEncode encodes the receiver to w. This is part of the Message interface
// implementation.
func (msg *MsgUnknown) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	_, err := w.Write(msg.Payload)
	return errors.WithStack(err)
}

// Command returns the command the message was received with. This is part of
// the Message interface implementation.
func (msg *MsgUnknown) Command() string {
	return msg.Cmd
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgUnknown) MaxPayloadLength(pver uint32) uint32 {
	return MaxMessagePayload
}
