package blockchain

import (
	"testing"
	"time"

	"github.com/altcoinj/altcoin/chaincfg"
	"github.com/altcoinj/altcoin/wire"
	btcchain "github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// mapStore is a HeaderStore held in memory.
type mapStore map[chainhash.Hash]*StoredHeader

func (s mapStore) HeaderByHash(hash *chainhash.Hash) (*StoredHeader, error) {
	header, ok := s[*hash]
	if !ok {
		return nil, errors.Wrapf(ErrBlockNotFound, "block %s", hash)
	}
	return header, nil
}

const (
	testStartBits    = 0x1d00ffff
	testPowLimitBits = 0x1e0fffff
)

var testGenesisTime = time.Unix(1500000000, 0)

// newTestParams returns parameters retargeting every four blocks of one
// minute.
func newTestParams() *chaincfg.Params {
	return &chaincfg.Params{
		Name:                     "difficultytest",
		PowLimit:                 btcchain.CompactToBig(testPowLimitBits),
		PowLimitBits:             testPowLimitBits,
		TargetTimespan:           time.Minute * 4,
		TargetTimePerBlock:       time.Minute,
		RetargetAdjustmentFactor: 4,
	}
}

// buildChain stores a chain starting at genesis with the given block spacing
// and bits, and returns its stored headers.
func buildChain(t *testing.T, store mapStore, params *chaincfg.Params, spacing time.Duration,
	bits []uint32) []*StoredHeader {

	t.Helper()
	genesisHeader := &wire.BlockHeader{
		Version:   1,
		Timestamp: testGenesisTime,
		Bits:      bits[0],
	}
	genesis := NewGenesisStoredHeader(genesisHeader)
	genesisHash := genesis.Hash()
	params.GenesisHash = &genesisHash
	chain := []*StoredHeader{genesis}
	store[genesisHash] = genesis

	for i := 1; i < len(bits); i++ {
		prev := chain[i-1]
		header := &wire.BlockHeader{
			Version:   1,
			PrevBlock: prev.Hash(),
			Timestamp: prev.Header.Timestamp.Add(spacing),
			Bits:      bits[i],
			Nonce:     uint32(i),
		}
		next := prev.BuildNext(header)
		store[next.Hash()] = next
		chain = append(chain, next)
	}
	return chain
}

func repeatBits(bits uint32, n int) []uint32 {
	result := make([]uint32, n)
	for i := range result {
		result[i] = bits
	}
	return result
}
