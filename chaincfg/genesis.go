package chaincfg

import (
	"time"

	"github.com/altcoinj/altcoin/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// dogecoinGenesisMerkleRoot is the merkle root of the single coinbase
// transaction shared by the Dogecoin main and test network genesis blocks.
var dogecoinGenesisMerkleRoot = newHashFromStr("5b2a3f53f605d62c53e62932dac6925e3d74afa5a4b459745c36d42d0ed26a69")

// dogecoinGenesisHeader is the header of the first block of the Dogecoin
// main network.
var dogecoinGenesisHeader = wire.BlockHeader{
	Version:    1,
	PrevBlock:  chainhash.Hash{},
	MerkleRoot: *dogecoinGenesisMerkleRoot,
	Timestamp:  time.Unix(1386325540, 0), // 2013-12-06 10:25:40 +0000 UTC
	Bits:       0x1e0ffff0,
	Nonce:      99943,
}

// dogecoinGenesisHash is the hash of the first block in the Dogecoin main
// network.
var dogecoinGenesisHash = newHashFromStr("1a91e3dace36e2be3bf030a65679fe821aa1d6ef92e7c9902eb318182c355691")

// dogecoinTestNetGenesisHeader is the header of the first block of the
// Dogecoin test network. It only differs from the main network in its
// timestamp and nonce.
var dogecoinTestNetGenesisHeader = wire.BlockHeader{
	Version:    1,
	PrevBlock:  chainhash.Hash{},
	MerkleRoot: *dogecoinGenesisMerkleRoot,
	Timestamp:  time.Unix(1391503289, 0), // 2014-02-04 08:41:29 +0000 UTC
	Bits:       0x1e0ffff0,
	Nonce:      997879,
}

var dogecoinTestNetGenesisHash = newHashFromStr("bb0a78264637406b6360aad926284d544d7049f45189db5664f3c4d07350559e")

var dogecoinRegTestGenesisHash = newHashFromStr("3d2160a3b5dc4a9d62e7e66a295f70313ac808440ef7400d6c0772171ce973a5")

// The Syscoin genesis blocks are pinned by hash only.
var (
	syscoinGenesisHash        = newHashFromStr("0000022642db0346b6e01c2a397471f4f12e65d4f4251ec96c1f85367a61a7ab")
	syscoinTestNetGenesisHash = newHashFromStr("000007444b1d43ea313f1eb22b38eecc1bea34bb068728e4a220913247d7f8e2")
)
