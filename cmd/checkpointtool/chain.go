package main

import (
	"io"
	"os"
	"time"

	"github.com/altcoinj/altcoin/blockchain"
	"github.com/altcoinj/altcoin/blockstore"
	"github.com/altcoinj/altcoin/chaincfg"
	"github.com/altcoinj/altcoin/checkpoints"
	"github.com/altcoinj/altcoin/wire"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

const (
	// seedAge is how far back from now the starting checkpoint is picked,
	// leaving room for clock skew and late reorganizations.
	seedAge = 7 * 24 * time.Hour

	// exportAge is the minimum age of an exported checkpoint.
	exportAge = 30 * 24 * time.Hour
)

// seedChain stores the header the chain starts from and makes it the chain
// head. It is the checkpoint before now-seedAge when a checkpoint file is
// given, and the genesis block otherwise.
func seedChain(store *blockstore.HeaderStore, params *chaincfg.Params,
	checkpointsFile string, now time.Time) (*blockchain.StoredHeader, error) {

	var start *blockchain.StoredHeader
	if checkpointsFile != "" {
		file, err := os.Open(checkpointsFile)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer file.Close()

		manager, err := checkpoints.NewManager(params, file)
		if err != nil {
			return nil, err
		}
		start, err = manager.CheckpointBefore(now.Add(-seedAge))
		if err != nil {
			return nil, err
		}
	} else {
		if params.GenesisHeader == nil {
			return nil, errors.Errorf("the genesis block of %s is unknown, "+
				"a checkpoint file is required", params.Name)
		}
		start = blockchain.NewGenesisStoredHeader(params.GenesisHeader)
	}

	err := store.PutHeader(start)
	if err != nil {
		return nil, err
	}
	hash := start.Hash()
	err = store.SetChainHead(&hash)
	if err != nil {
		return nil, err
	}
	log.Infof("Seeded %s chain at height %d, block %s", params.Name, start.Height, hash)
	return start, nil
}

// connectHeaders reads framed messages from r and connects the headers of
// every headers message onto the chain head. Other messages are skipped.
// It returns the number of headers connected.
func connectHeaders(store *blockstore.HeaderStore, params *chaincfg.Params, r io.Reader) (int, error) {
	head, err := store.ChainHead()
	if err != nil {
		return 0, err
	}

	connected := 0
	for {
		msg, _, err := wire.ReadMessage(r, params.ProtocolVersion, params.Net, params.MessageTable)
		if errors.Is(err, io.EOF) {
			return connected, nil
		}
		if err != nil {
			return connected, err
		}
		headers, ok := msg.(*wire.MsgHeaders)
		if !ok {
			log.Debugf("Skipping %s message", msg.Command())
			continue
		}

		for _, block := range headers.Headers {
			head, err = connectHeader(store, params, head, block)
			if err != nil {
				return connected, err
			}
			connected++
		}
	}
}

func connectHeader(store *blockstore.HeaderStore, params *chaincfg.Params,
	head *blockchain.StoredHeader, block *wire.MsgBlock) (*blockchain.StoredHeader, error) {

	headHash := head.Hash()
	if block.Header.PrevBlock != headHash {
		return nil, errors.Errorf("block %s does not connect to the chain head %s",
			block.BlockHash(), headHash)
	}
	err := block.CheckProofOfWork(params)
	if err != nil {
		return nil, err
	}
	err = blockchain.CheckDifficultyTransition(store, head, &block.Header, params)
	if err != nil {
		return nil, err
	}

	next := head.BuildNext(&block.Header)
	nextHash := next.Hash()
	if checkpoint, ok := params.CheckpointAt(next.Height); ok && *checkpoint != nextHash {
		return nil, errors.Errorf("block %s at height %d does not match checkpoint %s",
			nextHash, next.Height, checkpoint)
	}

	err = store.PutHeader(next)
	if err != nil {
		return nil, err
	}
	err = store.SetChainHead(&nextHash)
	if err != nil {
		return nil, err
	}
	return next, nil
}

// storedChain returns the stored chain ending at the chain head, oldest
// first. It stops at the first header whose parent is not stored.
func storedChain(store *blockstore.HeaderStore) ([]*blockchain.StoredHeader, error) {
	head, err := store.ChainHead()
	if err != nil {
		return nil, err
	}

	chain := []*blockchain.StoredHeader{head}
	for cursor := head; cursor.Height > 0; {
		cursor, err = store.HeaderByHash(&cursor.Header.PrevBlock)
		if errors.Is(err, blockchain.ErrBlockNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		chain = append(chain, cursor)
	}

	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// exportCheckpoints writes a checkpoint at every retarget boundary of the
// stored chain that is at least exportAge old.
func exportCheckpoints(store *blockstore.HeaderStore, params *chaincfg.Params, w io.Writer,
	text bool, now time.Time) (int, chainhash.Hash, error) {

	chain, err := storedChain(store)
	if err != nil {
		return 0, chainhash.Hash{}, err
	}
	selected := checkpoints.Select(chain, params.BlocksPerRetarget(), now.Add(-exportAge))

	write := checkpoints.WriteBinary
	if text {
		write = checkpoints.WriteText
	}
	dataHash, err := write(w, selected)
	if err != nil {
		return 0, chainhash.Hash{}, err
	}
	return len(selected), dataHash, nil
}
