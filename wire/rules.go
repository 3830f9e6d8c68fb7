package wire

import (
	"math/big"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	// BlockVersionAuxPoW is the version bit announcing that a block is
	// merged mined and carries an AuxPoW.
	BlockVersionAuxPoW int32 = 1 << 8

	// BlockVersionChainStart is the lowest version bit used to encode the
	// chain ID.
	BlockVersionChainStart int32 = 1 << 16

	// BlockVersionChainEnd is the first version bit past the chain ID.
	BlockVersionChainEnd int32 = 1 << 30
)

// ChainID returns the merged mining chain ID encoded in a block version:
// the bits from BlockVersionChainStart up, shifted arithmetically.
func ChainID(version int32) int32 {
	return version >> 16
}

// BaseVersion returns a block version without its AuxPoW flag and chain ID.
func BaseVersion(version int32) int32 {
	return version % BlockVersionAuxPoW
}

// MakeAuxPoWVersion returns the version of a merged mined block with the
// given base version on the given chain.
func MakeAuxPoWVersion(baseVersion int32, chainID int32) int32 {
	return BaseVersion(baseVersion) | BlockVersionAuxPoW | chainID*BlockVersionChainStart
}

// AuxPoWVersionPolicy decides from its version whether a block carries an
// AuxPoW. A zero policy never expects one.
type AuxPoWVersionPolicy struct {
	// MinVersion is the lowest version allowed to announce merged mining.
	MinVersion int32

	// Flag is the version bit announcing merged mining.
	Flag int32
}

// IsAuxPoW returns whether a block of the given version carries an AuxPoW.
func (p AuxPoWVersionPolicy) IsAuxPoW(version int32) bool {
	return p.Flag != 0 && version >= p.MinVersion && version&p.Flag != 0
}

// ChainRules is the part of a network's consensus parameters needed to check
// the proof of work of a block.
type ChainRules interface {
	// AuxPoWVersion returns whether a block of the given version is
	// merged mined.
	AuxPoWVersion(version int32) bool

	// AuxPoWChainID returns the chain ID merged mined blocks of this
	// network must carry.
	AuxPoWChainID() int32

	// StrictAuxPoWChainID returns whether chain IDs are enforced.
	StrictAuxPoWChainID() bool

	// PoWHash returns the proof of work hash of a serialized block header.
	PoWHash(header []byte) chainhash.Hash

	// MaxTarget returns the highest target a block may claim.
	MaxTarget() *big.Int
}
