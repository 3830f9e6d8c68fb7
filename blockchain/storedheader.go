package blockchain

import (
	"bytes"
	"io"
	"math/big"

	"github.com/altcoinj/altcoin/wire"
	btcchain "github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

const (
	// chainWorkBytes is the size of the big endian chain work field of a
	// serialized StoredHeader.
	chainWorkBytes = 12

	// StoredHeaderSize is the size of a serialized StoredHeader: the chain
	// work, a big endian height and the block header.
	StoredHeaderSize = chainWorkBytes + 4 + wire.BlockHeaderPayload
)

// StoredHeader is a block header together with its position in the chain
// and the total work of the chain ending with it.
type StoredHeader struct {
	Header    wire.BlockHeader
	Height    int32
	ChainWork *big.Int
}

// NewGenesisStoredHeader returns the stored header at the start of a chain.
func NewGenesisStoredHeader(header *wire.BlockHeader) *StoredHeader {
	return &StoredHeader{
		Header:    *header,
		Height:    0,
		ChainWork: btcchain.CalcWork(header.Bits),
	}
}

// Hash returns the hash of the stored block.
func (sh *StoredHeader) Hash() chainhash.Hash {
	return sh.Header.BlockHash()
}

// BuildNext returns the stored header of a block extending this one.
func (sh *StoredHeader) BuildNext(header *wire.BlockHeader) *StoredHeader {
	chainWork := new(big.Int).Add(sh.ChainWork, btcchain.CalcWork(header.Bits))
	return &StoredHeader{
		Header:    *header,
		Height:    sh.Height + 1,
		ChainWork: chainWork,
	}
}

// MoreWorkThan returns whether this header ends a chain with more work than
// other.
func (sh *StoredHeader) MoreWorkThan(other *StoredHeader) bool {
	return sh.ChainWork.Cmp(other.ChainWork) > 0
}

// Serialize writes the compact form of the stored header to w.
func (sh *StoredHeader) Serialize(w io.Writer) error {
	if sh.ChainWork.Sign() < 0 {
		return errors.Errorf("negative chain work %s", sh.ChainWork)
	}
	workBytes := sh.ChainWork.Bytes()
	if len(workBytes) > chainWorkBytes {
		return errors.Errorf("chain work %x does not fit in %d bytes",
			sh.ChainWork, chainWorkBytes)
	}
	if sh.Height < 0 {
		return errors.Errorf("negative height %d", sh.Height)
	}

	var buf [chainWorkBytes + 4]byte
	copy(buf[chainWorkBytes-len(workBytes):chainWorkBytes], workBytes)
	byteOrder.PutUint32(buf[chainWorkBytes:], uint32(sh.Height))
	_, err := w.Write(buf[:])
	if err != nil {
		return errors.WithStack(err)
	}
	return sh.Header.Serialize(w)
}

// Deserialize reads a stored header in the form written by Serialize.
func (sh *StoredHeader) Deserialize(r io.Reader) error {
	var buf [chainWorkBytes + 4]byte
	_, err := io.ReadFull(r, buf[:])
	if err != nil {
		return errors.WithStack(err)
	}
	height := byteOrder.Uint32(buf[chainWorkBytes:])
	if height > 1<<31-1 {
		return errors.Errorf("stored height %d overflows", height)
	}

	err = sh.Header.Deserialize(r)
	if err != nil {
		return err
	}
	sh.ChainWork = new(big.Int).SetBytes(buf[:chainWorkBytes])
	sh.Height = int32(height)
	return nil
}

// Bytes returns the compact form of the stored header.
func (sh *StoredHeader) Bytes() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, StoredHeaderSize))
	err := sh.Serialize(buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// StoredHeaderFromBytes decodes a stored header from its compact form.
func StoredHeaderFromBytes(serialized []byte) (*StoredHeader, error) {
	if len(serialized) != StoredHeaderSize {
		return nil, errors.Errorf("stored header is %d bytes, want %d",
			len(serialized), StoredHeaderSize)
	}
	sh := &StoredHeader{}
	err := sh.Deserialize(bytes.NewReader(serialized))
	if err != nil {
		return nil, err
	}
	return sh, nil
}
