/*
Package wire implements the peer-to-peer message layer of merged-mined
bitcoin-derived chains such as Dogecoin and Syscoin.

The standard bitcoin messages are reused from github.com/btcsuite/btcd/wire.
This package adds what those chains change: blocks, headers and merkleblock
messages that may carry an auxiliary proof of work (AuxPoW) after the
80-byte header, and the chain specific messages such as sporks, masternode
and governance traffic.

# Message Dispatch

Every message on the wire is framed by a 24-byte header holding the network
magic, a NUL padded 12 byte command, the payload length and a checksum. A
MessageTable maps each command to a constructor for the message that decodes
it, and every message type back to its command:

	table := wire.SyscoinMessageTable(params.AuxPoWPolicy)
	msg, payload, err := wire.ReadMessage(conn, pver, btcnet, table)

Commands that are not registered decode to a *MsgUnknown that keeps the raw
payload. Writing a message whose type is not registered fails with
ErrUnsupportedMessage.

# Merged Mining

A block whose version carries the AuxPoW flag is followed on the wire by an
AuxPoW: the parent chain coinbase, the merkle branch linking it to the parent
header, the merkle branch linking this block's hash to the merged mining
commitment inside the coinbase script, and the parent header itself. Whether
a block has an AuxPoW is decided by an AuxPoWVersionPolicy, since the chains
disagree on the minimum version allowed to announce one.

MsgBlock.CheckProofOfWork validates either the block's own proof of work or,
for merged mined blocks, the full AuxPoW commitment chain followed by the
parent header's proof of work against this block's target.

# Errors

Malformed input is reported as a *MessageError. Consensus violations are
reported with the sentinels of the ruleerrors package, wrapped with context,
so errors.Is can identify them.
*/
package wire
