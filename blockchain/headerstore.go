package blockchain

import (
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

// byteOrder is the preferred byte order used for serializing numeric fields
// of stored headers.
var byteOrder = binary.BigEndian

// ErrBlockNotFound is returned by a HeaderStore asked for a block it does
// not hold. Reaching it while validating a chain means the chain is not
// connected to what the store knows.
var ErrBlockNotFound = errors.New("block not found")

// HeaderStore gives access to the stored headers of the chain being
// validated.
type HeaderStore interface {
	// HeaderByHash returns the stored header of the block with the given
	// hash, or an error wrapping ErrBlockNotFound.
	HeaderByHash(hash *chainhash.Hash) (*StoredHeader, error)
}
