package wire

import (
	"fmt"

	btcwire "github.com/btcsuite/btcd/wire"
)

// Inventory types used by the masternode chains on top of the bitcoin ones
// defined in btcd.
const (
	InvTypeCompactBlock           btcwire.InvType = 4
	InvTypeSpork                  btcwire.InvType = 6
	InvTypeMasternodePaymentVote  btcwire.InvType = 7
	InvTypeMasternodePaymentBlock btcwire.InvType = 8
	InvTypeMasternodeAnnounce     btcwire.InvType = 0xa
	InvTypeMasternodePing         btcwire.InvType = 0xb
	InvTypeGovernanceObject       btcwire.InvType = 0xc
	InvTypeGovernanceObjectVote   btcwire.InvType = 0xd
	InvTypeMasternodeVerify       btcwire.InvType = 0xe
)

// Map of inventory types back to their constant names for pretty printing.
var invTypeStrings = map[btcwire.InvType]string{
	btcwire.InvTypeError:                "ERROR",
	btcwire.InvTypeTx:                   "MSG_TX",
	btcwire.InvTypeBlock:                "MSG_BLOCK",
	btcwire.InvTypeFilteredBlock:        "MSG_FILTERED_BLOCK",
	InvTypeCompactBlock:                 "MSG_CMPCT_BLOCK",
	InvTypeSpork:                        "MSG_SPORK",
	InvTypeMasternodePaymentVote:        "MSG_MASTERNODE_PAYMENT_VOTE",
	InvTypeMasternodePaymentBlock:       "MSG_MASTERNODE_PAYMENT_BLOCK",
	InvTypeMasternodeAnnounce:           "MSG_MASTERNODE_ANNOUNCE",
	InvTypeMasternodePing:               "MSG_MASTERNODE_PING",
	InvTypeGovernanceObject:             "MSG_GOVERNANCE_OBJECT",
	InvTypeGovernanceObjectVote:         "MSG_GOVERNANCE_OBJECT_VOTE",
	InvTypeMasternodeVerify:             "MSG_MASTERNODE_VERIFY",
	btcwire.InvTypeWitnessTx:            "MSG_WITNESS_TX",
	btcwire.InvTypeWitnessBlock:         "MSG_WITNESS_BLOCK",
	btcwire.InvTypeFilteredWitnessBlock: "MSG_FILTERED_WITNESS_BLOCK",
}

// InvTypeString returns the name of an inventory type, including the ones
// btcd does not know about.
func InvTypeString(invType btcwire.InvType) string {
	if s, ok := invTypeStrings[invType]; ok {
		return s
	}
	return fmt.Sprintf("Unknown InvType (%d)", uint32(invType))
}

// IsKnownInvType returns whether an inventory type is one the supported
// chains define.
func IsKnownInvType(invType btcwire.InvType) bool {
	_, ok := invTypeStrings[invType]
	return ok
}
