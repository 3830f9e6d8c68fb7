// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"io"

	"github.com/altcoinj/altcoin/infrastructure/metrics"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

// MessageHeaderSize is the number of bytes in a message header.
// Network (magic) 4 bytes + command 12 bytes + payload length 4 bytes +
// checksum 4 bytes.
const MessageHeaderSize = 24

// CommandSize is the fixed size of all commands in the common message
// header. Shorter commands must be zero padded.
const CommandSize = 12

// Message is an interface that describes a message. The messages of
// github.com/btcsuite/btcd/wire satisfy it as they are.
type Message interface {
	BtcDecode(io.Reader, uint32, btcwire.MessageEncoding) error
	BtcEncode(io.Writer, uint32, btcwire.MessageEncoding) error
	Command() string
	MaxPayloadLength(uint32) uint32
}

// messageHeader defines the header structure for all protocol messages.
type messageHeader struct {
	magic    btcwire.BitcoinNet // 4 bytes
	command  string             // 12 bytes
	length   uint32             // 4 bytes
	checksum [4]byte            // 4 bytes
}

// parseCommand extracts the command of a NUL padded command field. Anything
// but NUL bytes after the command, or a non printable command byte, makes
// the field malformed.
func parseCommand(field []byte) (string, error) {
	end := bytes.IndexByte(field, 0)
	if end < 0 {
		end = len(field)
	}
	for _, b := range field[end:] {
		if b != 0 {
			return "", messageErrorf("readMessageHeader", "command %q has "+
				"bytes after its terminator", field)
		}
	}
	for _, b := range field[:end] {
		if b < 0x20 || b > 0x7e {
			return "", messageErrorf("readMessageHeader", "command %q has "+
				"non printable bytes", field)
		}
	}
	return string(field[:end]), nil
}

// readMessageHeader reads a message header from r.
func readMessageHeader(r io.Reader) (int, *messageHeader, error) {
	// Since readElements doesn't return the amount of bytes read, attempt
	// to read the entire header into a buffer first in case there is a
	// short read so the proper amount of read bytes are known. This works
	// since the header is a fixed size.
	var headerBytes [MessageHeaderSize]byte
	n, err := io.ReadFull(r, headerBytes[:])
	if err != nil {
		return n, nil, errors.WithStack(err)
	}
	hr := bytes.NewReader(headerBytes[:])

	hdr := messageHeader{}
	var command [CommandSize]byte
	err = readElement(hr, &hdr.magic)
	if err != nil {
		return n, nil, err
	}
	_, err = io.ReadFull(hr, command[:])
	if err != nil {
		return n, nil, errors.WithStack(err)
	}
	err = readElement(hr, &hdr.length)
	if err != nil {
		return n, nil, err
	}
	_, err = io.ReadFull(hr, hdr.checksum[:])
	if err != nil {
		return n, nil, errors.WithStack(err)
	}

	hdr.command, err = parseCommand(command[:])
	if err != nil {
		return n, nil, err
	}
	return n, &hdr, nil
}

// discardInput reads n bytes from reader r in chunks and discards the read
// bytes. This is used to skip payloads when various errors occur and helps
// prevent rogue nodes from causing massive memory allocation through forging
// header length.
func discardInput(r io.Reader, n uint32) {
	_, _ = io.CopyN(io.Discard, r, int64(n))
}

// payloadChecksum returns the first four bytes of the double SHA-256 of the
// payload.
func payloadChecksum(payload []byte) [4]byte {
	var checksum [4]byte
	copy(checksum[:], chainhash.DoubleHashB(payload)[0:4])
	return checksum
}

// WriteMessageN writes a message to w including the necessary header
// information and returns the number of bytes written. The message type must
// be registered in table.
func WriteMessageN(w io.Writer, msg Message, pver uint32, btcnet btcwire.BitcoinNet,
	table *MessageTable, encoding btcwire.MessageEncoding) (int, error) {

	n, err := writeMessageN(w, msg, pver, btcnet, table, encoding)
	metrics.ObserveMessage(metrics.DirectionWrite, msg.Command(), err)
	return n, err
}

func writeMessageN(w io.Writer, msg Message, pver uint32, btcnet btcwire.BitcoinNet,
	table *MessageTable, encoding btcwire.MessageEncoding) (int, error) {

	cmd, ok := table.CommandFor(msg)
	if !ok {
		return 0, errors.Wrapf(ErrUnsupportedMessage, "message type %T is not "+
			"registered", msg)
	}

	// Enforce max command size.
	var command [CommandSize]byte
	if len(cmd) > CommandSize {
		return 0, messageErrorf("WriteMessage", "command [%s] is too long "+
			"[max %d]", cmd, CommandSize)
	}
	copy(command[:], cmd)

	// Encode the message payload.
	var bw bytes.Buffer
	err := msg.BtcEncode(&bw, pver, encoding)
	if err != nil {
		return 0, err
	}
	payload := bw.Bytes()
	lenp := len(payload)

	// Enforce maximum overall message payload.
	if lenp > MaxMessagePayload {
		return 0, messageErrorf("WriteMessage", "message payload is too "+
			"large - encoded %d bytes, but maximum message payload is %d "+
			"bytes", lenp, MaxMessagePayload)
	}

	// Enforce maximum message payload based on the message type.
	mpl := msg.MaxPayloadLength(pver)
	if uint32(lenp) > mpl {
		return 0, messageErrorf("WriteMessage", "message payload is too "+
			"large - encoded %d bytes, but maximum message payload of "+
			"type [%s] is %d bytes", lenp, cmd, mpl)
	}

	// Create header for the message.
	hdr := messageHeader{
		magic:    btcnet,
		command:  cmd,
		length:   uint32(lenp),
		checksum: payloadChecksum(payload),
	}

	// Encode the header for the message. This is done to a buffer
	// rather than directly to the writer since writeElements doesn't
	// return the number of bytes written.
	hw := bytes.NewBuffer(make([]byte, 0, MessageHeaderSize))
	err = writeElements(hw, hdr.magic)
	if err != nil {
		return 0, err
	}
	hw.Write(command[:])
	err = writeElement(hw, hdr.length)
	if err != nil {
		return 0, err
	}
	hw.Write(hdr.checksum[:])

	// Write header and payload.
	n, err := w.Write(append(hw.Bytes(), payload...))
	return n, errors.WithStack(err)
}

// WriteMessage writes a message to w including the necessary header
// information. This function is the same as WriteMessageN except it doesn't
// return the number of bytes written.
func WriteMessage(w io.Writer, msg Message, pver uint32, btcnet btcwire.BitcoinNet,
	table *MessageTable) error {

	_, err := WriteMessageN(w, msg, pver, btcnet, table, btcwire.LatestEncoding)
	return err
}

// ReadMessageN reads, validates, and parses the next message from r for the
// provided protocol version and network. It returns the number of bytes
// read in addition to the parsed Message and raw bytes which comprise the
// message. Commands missing from table are returned as a *MsgUnknown.
func ReadMessageN(r io.Reader, pver uint32, btcnet btcwire.BitcoinNet,
	table *MessageTable, enc btcwire.MessageEncoding) (int, Message, []byte, error) {

	n, msg, payload, command, err := readMessageN(r, pver, btcnet, table, enc)
	if command != "" {
		metrics.ObserveMessage(metrics.DirectionRead, command, err)
	}
	return n, msg, payload, err
}

func readMessageN(r io.Reader, pver uint32, btcnet btcwire.BitcoinNet,
	table *MessageTable, enc btcwire.MessageEncoding) (int, Message, []byte, string, error) {

	totalBytes := 0
	n, hdr, err := readMessageHeader(r)
	totalBytes += n
	if err != nil {
		return totalBytes, nil, nil, "", err
	}

	// Enforce maximum message payload.
	if hdr.length > MaxMessagePayload {
		return totalBytes, nil, nil, hdr.command, messageErrorf("ReadMessage",
			"message payload is too large - header indicates %d bytes, "+
				"but max message payload is %d bytes.", hdr.length, MaxMessagePayload)
	}

	// Check for messages from the wrong network.
	if hdr.magic != btcnet {
		discardInput(r, hdr.length)
		return totalBytes, nil, nil, hdr.command, messageErrorf("ReadMessage",
			"message from other network [%v]", hdr.magic)
	}

	// Read payload.
	payload := make([]byte, hdr.length)
	n, err = io.ReadFull(r, payload)
	totalBytes += n
	if err != nil {
		return totalBytes, nil, nil, hdr.command, errors.WithStack(err)
	}

	// Test checksum.
	checksum := payloadChecksum(payload)
	if checksum != hdr.checksum {
		metrics.ObserveChecksumFailure()
		return totalBytes, nil, nil, hdr.command, messageErrorf("ReadMessage",
			"payload checksum failed - header indicates %x, but actual "+
				"checksum is %x.", hdr.checksum, checksum)
	}

	msg, ok := table.MakeEmptyMessage(hdr.command)
	if !ok {
		log.Warnf("No support for deserializing message with name %s", hdr.command)
		metrics.ObserveUnknownMessage(hdr.command)
		return totalBytes, &MsgUnknown{Cmd: hdr.command, Payload: payload}, payload,
			hdr.command, nil
	}

	// Check for maximum length based on the message type as a malicious
	// client could otherwise create a well-formed header and set the length
	// to max numbers in order to exhaust the machine's memory.
	mpl := msg.MaxPayloadLength(pver)
	if hdr.length > mpl {
		return totalBytes, nil, nil, hdr.command, messageErrorf("ReadMessage",
			"payload exceeds max length - header indicates %v bytes, but max "+
				"payload size for messages of type [%v] is %v.", hdr.length,
			hdr.command, mpl)
	}

	// Unmarshal message. NOTE: This must be a *bytes.Buffer since the
	// MsgVersion BtcDecode function requires it.
	pr := bytes.NewBuffer(payload)
	err = msg.BtcDecode(pr, pver, enc)
	if err != nil {
		return totalBytes, nil, nil, hdr.command, err
	}

	log.Tracef("Received %d byte '%s' message", hdr.length, hdr.command)
	return totalBytes, msg, payload, hdr.command, nil
}

// ReadMessage reads, validates, and parses the next message from r for the
// provided protocol version and network. It returns the parsed Message and
// raw bytes which comprise the message. This function only differs from
// ReadMessageN in that it doesn't return the number of bytes read.
func ReadMessage(r io.Reader, pver uint32, btcnet btcwire.BitcoinNet,
	table *MessageTable) (Message, []byte, error) {

	_, msg, buf, err := ReadMessageN(r, pver, btcnet, table, btcwire.LatestEncoding)
	return msg, buf, err
}
