// Package checkpoints reads and writes checkpoint files and answers which
// checkpoint a new client should start syncing from.
//
// A checkpoint file holds stored headers at known heights of a chain, in a
// binary or a base64 text form. Both forms commit to the same SHA-256 data
// hash, which clients can pin.
package checkpoints

import (
	"io"
	"sort"
	"time"

	"github.com/altcoinj/altcoin/blockchain"
	"github.com/altcoinj/altcoin/chaincfg"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// Manager holds the checkpoints of a network.
type Manager struct {
	params      *chaincfg.Params
	checkpoints []*blockchain.StoredHeader
	dataHash    chainhash.Hash
}

// NewManager reads checkpoints of the given network from r, in either file
// format.
func NewManager(params *chaincfg.Params, r io.Reader) (*Manager, error) {
	checkpoints, dataHash, err := Read(r)
	if err != nil {
		return nil, err
	}
	if len(checkpoints) == 0 {
		return nil, errors.Wrap(ErrBadCheckpoints, "no checkpoints")
	}

	// Checkpoints are looked up by time.
	sort.SliceStable(checkpoints, func(i, j int) bool {
		return checkpoints[i].Header.Timestamp.Before(checkpoints[j].Header.Timestamp)
	})

	log.Infof("Loaded %d checkpoints for %s, data hash %s",
		len(checkpoints), params.Name, dataHash)
	return &Manager{
		params:      params,
		checkpoints: checkpoints,
		dataHash:    dataHash,
	}, nil
}

// NumCheckpoints returns the number of checkpoints.
func (m *Manager) NumCheckpoints() int {
	return len(m.checkpoints)
}

// DataHash returns the SHA-256 digest of the checkpoint data.
func (m *Manager) DataHash() chainhash.Hash {
	return m.dataHash
}

// CheckpointBefore returns the last checkpoint mined at or before t. Before
// the first checkpoint it returns the genesis block of the network, which
// must then be known.
func (m *Manager) CheckpointBefore(t time.Time) (*blockchain.StoredHeader, error) {
	genesis := m.params.GenesisHeader
	if genesis != nil && !t.After(genesis.Timestamp) {
		return nil, errors.Errorf("%s is not after the genesis block of %s", t, m.params.Name)
	}

	i := sort.Search(len(m.checkpoints), func(i int) bool {
		return m.checkpoints[i].Header.Timestamp.After(t)
	})
	if i > 0 {
		return m.checkpoints[i-1], nil
	}

	if genesis == nil {
		return nil, errors.Errorf("no checkpoint before %s and the genesis block "+
			"of %s is unknown", t, m.params.Name)
	}
	return blockchain.NewGenesisStoredHeader(genesis), nil
}

// Select picks from a chain the headers worth checkpointing: those at
// heights divisible by every that were mined no later than notAfter.
func Select(chain []*blockchain.StoredHeader, every int32, notAfter time.Time) []*blockchain.StoredHeader {
	var selected []*blockchain.StoredHeader
	for _, header := range chain {
		if header.Height%every == 0 && !header.Header.Timestamp.After(notAfter) {
			selected = append(selected, header)
		}
	}
	return selected
}
