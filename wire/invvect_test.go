package wire

import (
	"testing"

	btcwire "github.com/btcsuite/btcd/wire"
)

func TestInvTypeString(t *testing.T) {
	tests := []struct {
		in    btcwire.InvType
		want  string
		known bool
	}{
		{btcwire.InvTypeError, "ERROR", true},
		{btcwire.InvTypeBlock, "MSG_BLOCK", true},
		{InvTypeSpork, "MSG_SPORK", true},
		{InvTypeMasternodePaymentBlock, "MSG_MASTERNODE_PAYMENT_BLOCK", true},
		{InvTypeGovernanceObjectVote, "MSG_GOVERNANCE_OBJECT_VOTE", true},
		{InvTypeMasternodeVerify, "MSG_MASTERNODE_VERIFY", true},
		{btcwire.InvTypeWitnessBlock, "MSG_WITNESS_BLOCK", true},
		{0xffffffff, "Unknown InvType (4294967295)", false},
	}

	for i, test := range tests {
		result := InvTypeString(test.in)
		if result != test.want {
			t.Errorf("InvTypeString #%d\n got: %s want: %s", i, result, test.want)
		}
		if IsKnownInvType(test.in) != test.known {
			t.Errorf("IsKnownInvType #%d: got %t want %t", i, !test.known, test.known)
		}
	}
}
