// Package blockstore keeps stored headers in a leveldb database.
package blockstore

import (
	"github.com/altcoinj/altcoin/blockchain"
	"github.com/altcoinj/altcoin/infrastructure/metrics"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	ldbErrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

var (
	headerKeyPrefix = []byte("header-")
	chainHeadKey    = []byte("chain-head")
)

// ErrNoChainHead is returned by ChainHead before SetChainHead was called.
var ErrNoChainHead = errors.New("no chain head")

// HeaderStore is a blockchain.HeaderStore backed by leveldb. It is safe for
// concurrent use.
type HeaderStore struct {
	ldb *leveldb.DB
}

var _ blockchain.HeaderStore = (*HeaderStore)(nil)

// Open opens the header store at path, creating it if it does not exist.
func Open(path string) (*HeaderStore, error) {
	// Open leveldb. If it doesn't exist, create it.
	ldb, err := leveldb.OpenFile(path, nil)

	// If the database is corrupted, attempt to recover.
	var corruptedErr *ldbErrors.ErrCorrupted
	if errors.As(err, &corruptedErr) {
		log.Warnf("LevelDB corruption detected for path %s: %s",
			path, err)
		ldb, err = leveldb.RecoverFile(path, nil)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		log.Warnf("LevelDB recovered from corruption for path %s",
			path)
	}

	// If the database cannot be opened for any other
	// reason, return the error as-is.
	if err != nil {
		return nil, errors.WithStack(err)
	}

	log.Debugf("Opened header store at %s", path)
	return &HeaderStore{ldb: ldb}, nil
}

// OpenInMemory opens a header store which is lost when closed.
func OpenInMemory() (*HeaderStore, error) {
	ldb, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return &HeaderStore{ldb: ldb}, nil
}

// Close closes the header store.
func (s *HeaderStore) Close() error {
	return errors.WithStack(s.ldb.Close())
}

func headerKey(hash *chainhash.Hash) []byte {
	key := make([]byte, len(headerKeyPrefix)+chainhash.HashSize)
	copy(key, headerKeyPrefix)
	copy(key[len(headerKeyPrefix):], hash[:])
	return key
}

// PutHeader stores header under its block hash, replacing any header
// stored there.
func (s *HeaderStore) PutHeader(header *blockchain.StoredHeader) error {
	serialized, err := header.Bytes()
	if err != nil {
		return err
	}
	hash := header.Hash()
	err = s.ldb.Put(headerKey(&hash), serialized, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	metrics.ObserveStoredHeader()
	return nil
}

// PutHeaders stores headers atomically.
func (s *HeaderStore) PutHeaders(headers []*blockchain.StoredHeader) error {
	batch := new(leveldb.Batch)
	for _, header := range headers {
		serialized, err := header.Bytes()
		if err != nil {
			return err
		}
		hash := header.Hash()
		batch.Put(headerKey(&hash), serialized)
	}
	err := s.ldb.Write(batch, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	for range headers {
		metrics.ObserveStoredHeader()
	}
	return nil
}

// HeaderByHash returns the stored header of the block with the given hash.
// It returns an error wrapping blockchain.ErrBlockNotFound if there is none.
func (s *HeaderStore) HeaderByHash(hash *chainhash.Hash) (*blockchain.StoredHeader, error) {
	serialized, err := s.ldb.Get(headerKey(hash), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, errors.Wrapf(blockchain.ErrBlockNotFound, "block %s", hash)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	header, err := blockchain.StoredHeaderFromBytes(serialized)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupted header for block %s", hash)
	}
	return header, nil
}

// HasHeader returns whether a header is stored for the given hash.
func (s *HeaderStore) HasHeader(hash *chainhash.Hash) (bool, error) {
	has, err := s.ldb.Has(headerKey(hash), nil)
	return has, errors.WithStack(err)
}

// SetChainHead records the block with the given hash, which must already be
// stored, as the tip of the best chain.
func (s *HeaderStore) SetChainHead(hash *chainhash.Hash) error {
	has, err := s.HasHeader(hash)
	if err != nil {
		return err
	}
	if !has {
		return errors.Wrapf(blockchain.ErrBlockNotFound,
			"cannot set chain head to block %s", hash)
	}
	return errors.WithStack(s.ldb.Put(chainHeadKey, hash[:], nil))
}

// ChainHead returns the stored header at the tip of the best chain.
func (s *HeaderStore) ChainHead() (*blockchain.StoredHeader, error) {
	serialized, err := s.ldb.Get(chainHeadKey, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, errors.WithStack(ErrNoChainHead)
	}
	if err != nil {
		return nil, errors.WithStack(err)
	}
	hash, err := chainhash.NewHash(serialized)
	if err != nil {
		return nil, errors.Wrap(err, "corrupted chain head")
	}
	return s.HeaderByHash(hash)
}
