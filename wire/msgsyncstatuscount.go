package wire

import (
	"io"

	btcwire "github.com/btcsuite/btcd/wire"
)

// CmdSyncStatusCount is the command of the ssc message.
const CmdSyncStatusCount = "ssc"

// Sync items reported by a ssc message.
const (
	SyncItemMasternodeList    int32 = 2
	SyncItemMasternodeWinners int32 = 3
	SyncItemGovernanceObject  int32 = 10
	SyncItemGovernanceVote    int32 = 11
)

// MsgSyncStatusCount implements the Message interface and represents a ssc
// message. It tells how many items of a kind a peer sent while syncing.
type MsgSyncStatusCount struct {
	ItemID int32
	Count  int32
}

// BtcDecode decodes r using the wire protocol encoding into the receiver.
// This is part of the Message interface implementation.
func (msg *MsgSyncStatusCount) BtcDecode(r io.Reader, pver uint32, enc btcwire.MessageEncoding) error {
	return readElements(r, &msg.ItemID, &msg.Count)
}

// BtcEncode encodes the receiver to w using the wire protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgSyncStatusCount) BtcEncode(w io.Writer, pver uint32, enc btcwire.MessageEncoding) error {
	return writeElements(w, msg.ItemID, msg.Count)
}

// Command returns the protocol command string for the message. This is part
// of the Message interface implementation.
func (msg *MsgSyncStatusCount) Command() string {
	return CmdSyncStatusCount
}

// MaxPayloadLength returns the maximum length the payload can be for the
// receiver. This is part of the Message interface implementation.
func (msg *MsgSyncStatusCount) MaxPayloadLength(pver uint32) uint32 {
	return 8
}
