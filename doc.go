/*
Package altcoin extends the btcd wire and chain packages with what merged
mined altcoins such as Dogecoin and Syscoin need on top of bitcoin.

The module is organized as follows:

  - wire: blocks, headers and merkleblocks carrying an auxiliary proof of
    work (AuxPoW), the masternode, spork and governance messages, and a
    message table dispatching commands to message types per network.
  - merkle: partial merkle trees and merkle branches.
  - chaincfg: parameters of the Dogecoin and Syscoin networks.
  - blockchain: stored headers with chain work and difficulty transition
    checks against a HeaderStore.
  - blockstore: a leveldb backed HeaderStore.
  - checkpoints: the binary and text checkpoint file formats, and picking
    the checkpoint to start syncing from.
  - cmd/checkpointtool: maintains a header chain and builds checkpoint
    files from it.

Blocks are decoded according to the AuxPoWVersionPolicy of their network:
a block whose version announces merged mining is followed on the wire by
an AuxPoW, which CheckProofOfWork validates in place of the block's own
proof of work.
*/
package altcoin
