package wire

import (
	"encoding/binary"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/altcoinj/altcoin/merkle"
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
)

const (
	testChainID = 0x62
	testBits    = 0x207fffff
	testNet     = btcwire.BitcoinNet(0xc0c0c0c0)
)

var testPolicy = AuxPoWVersionPolicy{MinVersion: 0x00620002, Flag: BlockVersionAuxPoW}

// testRules are the chain rules of a merged mined regression test network
// hashing its headers with double SHA-256.
type testRules struct {
	policy       AuxPoWVersionPolicy
	chainID      int32
	strict       bool
	maxTarget    *big.Int
	powHashCalls int
}

func newTestRules() *testRules {
	return &testRules{
		policy:    testPolicy,
		chainID:   testChainID,
		strict:    true,
		maxTarget: blockchain.CompactToBig(testBits),
	}
}

func (r *testRules) AuxPoWVersion(version int32) bool { return r.policy.IsAuxPoW(version) }
func (r *testRules) AuxPoWChainID() int32             { return r.chainID }
func (r *testRules) StrictAuxPoWChainID() bool        { return r.strict }
func (r *testRules) MaxTarget() *big.Int              { return r.maxTarget }

func (r *testRules) PoWHash(header []byte) chainhash.Hash {
	r.powHashCalls++
	return chainhash.DoubleHashH(header)
}

// testTx returns a small distinct transaction for every seed.
func testTx(seed byte) *btcwire.MsgTx {
	tx := btcwire.NewMsgTx(1)
	prevOut := btcwire.NewOutPoint(&chainhash.Hash{seed}, uint32(seed))
	tx.AddTxIn(btcwire.NewTxIn(prevOut, []byte{seed, 0x51}, nil))
	tx.AddTxOut(btcwire.NewTxOut(int64(seed)*1000, []byte{0x76, 0xa9, seed}))
	return tx
}

// grindHeader changes the nonce of header until its double SHA-256 meets the
// target encoded by bits.
func grindHeader(t *testing.T, header *BlockHeader, bits uint32) {
	t.Helper()
	target := blockchain.CompactToBig(bits)
	for nonce := uint32(0); nonce < 1000; nonce++ {
		header.Nonce = nonce
		hash := header.BlockHash()
		if blockchain.HashToBig(&hash).Cmp(target) <= 0 {
			return
		}
	}
	t.Fatalf("no nonce below 1000 meets target %064x", target)
}

func reversedHash(hash chainhash.Hash) []byte {
	reversed := make([]byte, chainhash.HashSize)
	for i, b := range hash {
		reversed[chainhash.HashSize-1-i] = b
	}
	return reversed
}

// commitment returns a chain merkle root followed by the tree size and the
// nonce, as found in a merged mining coinbase.
func commitment(root chainhash.Hash, size uint32, nonce uint32) []byte {
	b := reversedHash(root)
	b = binary.LittleEndian.AppendUint32(b, size)
	return binary.LittleEndian.AppendUint32(b, nonce)
}

func concat(parts ...[]byte) []byte {
	var b []byte
	for _, part := range parts {
		b = append(b, part...)
	}
	return b
}

// auxPoWFixture is a valid AuxPoW for childHeader in a merged mining tree of
// four chains.
type auxPoWFixture struct {
	t           *testing.T
	childHeader BlockHeader
	auxPoW      *AuxPoW
	chainLeaves []chainhash.Hash
	chainIndex  uint32
	nonce       uint32
}

func newAuxPoWFixture(t *testing.T) *auxPoWFixture {
	t.Helper()
	f := &auxPoWFixture{
		t: t,
		childHeader: BlockHeader{
			Version:    MakeAuxPoWVersion(2, testChainID),
			PrevBlock:  chainhash.Hash{0x01},
			MerkleRoot: chainhash.Hash{0x02},
			Timestamp:  time.Unix(1400000000, 0),
			Bits:       testBits,
		},
		nonce: 7,
	}
	childHash := f.childHeader.BlockHash()

	f.chainIndex = ExpectedIndex(f.nonce, testChainID, 2)
	f.chainLeaves = []chainhash.Hash{{0xa0}, {0xa1}, {0xa2}, {0xa3}}
	f.chainLeaves[f.chainIndex] = childHash
	chainBranch, chainMask := merkle.BranchForLeaf(f.chainLeaves, int(f.chainIndex))

	f.auxPoW = &AuxPoW{
		ParentHash:  chainhash.Hash{0xbb},
		ChainBranch: MerkleBranch{Hashes: chainBranch, SideMask: int32(chainMask)},
		ParentHeader: BlockHeader{
			Version:   0x20000000,
			PrevBlock: chainhash.Hash{0xcc},
			Timestamp: time.Unix(1400000100, 0),
			Bits:      testBits,
		},
	}
	f.setCoinbaseScript(f.script())
	return f
}

func (f *auxPoWFixture) childHash() chainhash.Hash {
	return f.childHeader.BlockHash()
}

func (f *auxPoWFixture) chainRoot() chainhash.Hash {
	return merkle.CalcRoot(f.chainLeaves)
}

// script returns a well formed coinbase script committing to the fixture's
// chain merkle root.
func (f *auxPoWFixture) script() []byte {
	return concat([]byte{0x03, 0x01, 0x02, 0x03}, MergedMiningHeader,
		commitment(f.chainRoot(), 4, f.nonce))
}

func (f *auxPoWFixture) setCoinbaseScript(script []byte) {
	coinbase := btcwire.NewMsgTx(1)
	coinbase.AddTxIn(&btcwire.TxIn{
		PreviousOutPoint: btcwire.OutPoint{Index: math.MaxUint32},
		SignatureScript:  script,
		Sequence:         math.MaxUint32,
	})
	coinbase.AddTxOut(btcwire.NewTxOut(5000000000, []byte{0x51}))
	f.setCoinbase(coinbase)
}

// setCoinbase replaces the parent coinbase and updates the coinbase branch
// and the parent header to match.
func (f *auxPoWFixture) setCoinbase(coinbase *btcwire.MsgTx) {
	leaves := []chainhash.Hash{coinbase.TxHash(), testTx(1).TxHash(), testTx(2).TxHash()}
	branch, mask := merkle.BranchForLeaf(leaves, 0)
	f.auxPoW.Coinbase = coinbase
	f.auxPoW.CoinbaseBranch = MerkleBranch{Hashes: branch, SideMask: int32(mask)}
	f.auxPoW.ParentHeader.MerkleRoot = merkle.CalcRoot(leaves)
	grindHeader(f.t, &f.auxPoW.ParentHeader, testBits)
}

// block returns a merged mined block made of the fixture's header and AuxPoW.
func (f *auxPoWFixture) block(txs ...*btcwire.MsgTx) *MsgBlock {
	block := NewMsgBlock(&f.childHeader, testPolicy)
	block.AuxPoW = f.auxPoW
	for _, tx := range txs {
		block.AddTransaction(tx)
	}
	return block
}
