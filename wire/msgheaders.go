// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
)

// MaxBlockHeadersPerMsg is the maximum number of block headers that can be in
// a single headers message.
const MaxBlockHeadersPerMsg = 2000

// MsgHeaders implements the Message interface and represents a headers
// message. It is used to deliver block header information in response
// to a getheaders message (MsgGetHeaders). Each entry is a block without
// transactions, so merged mined entries keep their AuxPoW.
//
// Use the AddBlockHeader function to build up the list of headers when sending
// a headers message to another peer.
type MsgHeaders struct {
	Headers []*MsgBlock

	policy AuxPoWVersionPolicy
}

// AddBlockHeader adds a new block header to the message. Its transactions,
// if any, are not sent.
func (msg *MsgHeaders) AddBlockHeader(block *MsgBlock) error {
	if len(msg.Headers)+1 > MaxBlockHeadersPerMsg {
		return messageErrorf("MsgHeaders.AddBlockHeader", "too many block "+
			"headers in message [max %d]", MaxBlockHeadersPerMsg)
	}

	msg.Headers = append(msg.Headers, block.CloneAsHeader())
	return nil
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgHeaders) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	count, err := btcwire.ReadVarInt(r, pver)
	if err != nil {
		return err
	}

	// Limit to max block headers per message.
	if count > MaxBlockHeadersPerMsg {
		return messageErrorf("MsgHeaders.BtcDecode", "too many block "+
			"headers for message [count %d, max %d]", count,
			MaxBlockHeadersPerMsg)
	}

	msg.Headers = make([]*MsgBlock, 0, count)
	for i := uint64(0); i < count; i++ {
		block := NewEmptyMsgBlock(msg.policy)
		err := block.decodeHeaderAndAuxPoW(r, pver, "MsgHeaders.BtcDecode")
		if err != nil {
			return err
		}

		txCount, err := btcwire.ReadVarInt(r, pver)
		if err != nil {
			return err
		}

		// Ensure the transaction count is zero for headers.
		if txCount > 0 {
			return messageErrorf("MsgHeaders.BtcDecode", "block headers "+
				"may not contain transactions [count %d]", txCount)
		}
		block.parseState = Complete
		msg.Headers = append(msg.Headers, block)
	}

	return nil
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgHeaders) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	// Limit to max block headers per message.
	count := len(msg.Headers)
	if count > MaxBlockHeadersPerMsg {
		return messageErrorf("MsgHeaders.BtcEncode", "too many block "+
			"headers for message [count %d, max %d]", count,
			MaxBlockHeadersPerMsg)
	}

	err := btcwire.WriteVarInt(w, pver, uint64(count))
	if err != nil {
		return err
	}

	for _, block := range msg.Headers {
		err := block.checkAuxPoWPresence("MsgHeaders.BtcEncode")
		if err != nil {
			return err
		}
		err = writeBlockHeader(w, &block.Header)
		if err != nil {
			return err
		}
		if block.AuxPoW != nil {
			err := block.AuxPoW.BtcEncode(w, pver)
			if err != nil {
				return err
			}
		}

		// The wire protocol encoding always encodes the transaction
		// count as zero.
		err = btcwire.WriteVarInt(w, pver, 0)
		if err != nil {
			return err
		}
	}

	return nil
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgHeaders) Command() string {
	return btcwire.CmdHeaders
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgHeaders) MaxPayloadLength(pver uint32) uint32 {
	// Entries carry an AuxPoW of unbounded size.
	return MaxMessagePayload
}

// NewMsgHeaders returns a new headers message that conforms to the Message
// interface. See MsgHeaders for details.
func NewMsgHeaders(policy AuxPoWVersionPolicy) *MsgHeaders {
	return &MsgHeaders{
		Headers: make([]*MsgBlock, 0, MaxBlockHeadersPerMsg),
		policy:  policy,
	}
}

// NewEmptyMsgHeaders returns a headers message ready to be decoded.
func NewEmptyMsgHeaders(policy AuxPoWVersionPolicy) *MsgHeaders {
	return &MsgHeaders{policy: policy}
}
