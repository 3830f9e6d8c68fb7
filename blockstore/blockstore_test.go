package blockstore

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/altcoinj/altcoin/blockchain"
	"github.com/altcoinj/altcoin/chaincfg"
	"github.com/altcoinj/altcoin/wire"
	btcchain "github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

const testBits = 0x1d00ffff

// testChain returns n stored headers one minute apart.
func testChain(n int) []*blockchain.StoredHeader {
	genesis := blockchain.NewGenesisStoredHeader(&wire.BlockHeader{
		Version:   1,
		Timestamp: time.Unix(1500000000, 0),
		Bits:      testBits,
	})
	chain := []*blockchain.StoredHeader{genesis}
	for i := 1; i < n; i++ {
		prev := chain[i-1]
		chain = append(chain, prev.BuildNext(&wire.BlockHeader{
			Version:   1,
			PrevBlock: prev.Hash(),
			Timestamp: prev.Header.Timestamp.Add(time.Minute),
			Bits:      testBits,
			Nonce:     uint32(i),
		}))
	}
	return chain
}

func TestHeaderStore(t *testing.T) {
	store, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %+v", err)
	}
	defer store.Close()

	chain := testChain(3)
	err = store.PutHeader(chain[0])
	if err != nil {
		t.Fatalf("PutHeader: %+v", err)
	}
	err = store.PutHeaders(chain[1:])
	if err != nil {
		t.Fatalf("PutHeaders: %+v", err)
	}

	for i, want := range chain {
		hash := want.Hash()
		has, err := store.HasHeader(&hash)
		if err != nil || !has {
			t.Errorf("HasHeader %d: got %t, %v", i, has, err)
		}
		got, err := store.HeaderByHash(&hash)
		if err != nil {
			t.Fatalf("HeaderByHash %d: %+v", i, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("HeaderByHash %d: got %v, want %v", i, spew.Sdump(got), spew.Sdump(want))
		}
	}

	missing := chainhash.Hash{0xff}
	has, err := store.HasHeader(&missing)
	if err != nil || has {
		t.Errorf("HasHeader: got %t, %v for a missing block", has, err)
	}
	_, err = store.HeaderByHash(&missing)
	if !errors.Is(err, blockchain.ErrBlockNotFound) {
		t.Errorf("HeaderByHash: got error %v, want %v", err, blockchain.ErrBlockNotFound)
	}
}

func TestChainHead(t *testing.T) {
	store, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %+v", err)
	}
	defer store.Close()

	_, err = store.ChainHead()
	if !errors.Is(err, ErrNoChainHead) {
		t.Errorf("ChainHead: got error %v, want %v", err, ErrNoChainHead)
	}

	chain := testChain(2)
	tipHash := chain[1].Hash()
	err = store.SetChainHead(&tipHash)
	if !errors.Is(err, blockchain.ErrBlockNotFound) {
		t.Errorf("SetChainHead: got error %v for an unknown block, want %v", err,
			blockchain.ErrBlockNotFound)
	}

	err = store.PutHeaders(chain)
	if err != nil {
		t.Fatalf("PutHeaders: %+v", err)
	}
	err = store.SetChainHead(&tipHash)
	if err != nil {
		t.Fatalf("SetChainHead: %+v", err)
	}
	head, err := store.ChainHead()
	if err != nil {
		t.Fatalf("ChainHead: %+v", err)
	}
	if head.Hash() != tipHash || head.Height != 1 {
		t.Errorf("ChainHead: got block %s at height %d, want %s at height 1",
			head.Hash(), head.Height, tipHash)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headers")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}
	chain := testChain(2)
	err = store.PutHeaders(chain)
	if err != nil {
		t.Fatalf("PutHeaders: %+v", err)
	}
	tipHash := chain[1].Hash()
	err = store.SetChainHead(&tipHash)
	if err != nil {
		t.Fatalf("SetChainHead: %+v", err)
	}
	err = store.Close()
	if err != nil {
		t.Fatalf("Close: %+v", err)
	}

	store, err = Open(path)
	if err != nil {
		t.Fatalf("Open: %+v", err)
	}
	defer store.Close()
	head, err := store.ChainHead()
	if err != nil {
		t.Fatalf("ChainHead: %+v", err)
	}
	if !reflect.DeepEqual(head, chain[1]) {
		t.Errorf("ChainHead: got %v, want %v", spew.Sdump(head), spew.Sdump(chain[1]))
	}
}

// TestDifficultyWithStore checks a retarget reading its ancestors from the
// header store.
func TestDifficultyWithStore(t *testing.T) {
	store, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory: %+v", err)
	}
	defer store.Close()

	params := &chaincfg.Params{
		Name:                     "storetest",
		PowLimit:                 btcchain.CompactToBig(0x1e0fffff),
		PowLimitBits:             0x1e0fffff,
		TargetTimespan:           time.Minute * 4,
		TargetTimePerBlock:       time.Minute,
		RetargetAdjustmentFactor: 4,
	}
	chain := testChain(4)
	err = store.PutHeaders(chain)
	if err != nil {
		t.Fatalf("PutHeaders: %+v", err)
	}

	prev := chain[3]
	next := &wire.BlockHeader{
		Version:   1,
		PrevBlock: prev.Hash(),
		Timestamp: prev.Header.Timestamp.Add(time.Minute),
		Bits:      0x1d00bfff,
	}
	err = blockchain.CheckDifficultyTransition(store, prev, next, params)
	if err != nil {
		t.Errorf("CheckDifficultyTransition: %+v", err)
	}
}
