// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/altcoinj/altcoin/util/binaryserializer"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/pkg/errors"
)

const (
	// MaxMessagePayload is the maximum bytes a message can be regardless of
	// other individual limits imposed by messages themselves.
	MaxMessagePayload = 1024 * 1024 * 32 // 32MB

	// MaxVarIntPayload is the maximum payload size for a variable length
	// integer.
	MaxVarIntPayload = 9
)

// littleEndian is a convenience variable since binary.LittleEndian is
// quite long.
var littleEndian = binary.LittleEndian

// errNoEncodingForType signifies that there's no encoding for the given type.
var errNoEncodingForType = errors.New("there's no encoding for this type")

// uint32Time represents a unix timestamp encoded with a uint32. It is used
// as a way to signal the readElement function how to decode a timestamp into
// a Go time.Time since it is otherwise ambiguous.
type uint32Time time.Time

// readElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element pointed to.
func readElement(r io.Reader, element interface{}) error {
	// Attempt to read the element based on the concrete type via fast
	// type assertions first.
	switch e := element.(type) {
	case *int32:
		rv, err := binaryserializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = int32(rv)
		return nil

	case *uint32:
		rv, err := binaryserializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int64:
		rv, err := binaryserializer.Uint64(r, littleEndian)
		if err != nil {
			return err
		}
		*e = int64(rv)
		return nil

	case *uint64:
		rv, err := binaryserializer.Uint64(r, littleEndian)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *bool:
		rv, err := binaryserializer.Uint8(r)
		if err != nil {
			return err
		}
		*e = rv != 0x00
		return nil

	// Unix timestamp encoded as a uint32.
	case *uint32Time:
		rv, err := binaryserializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = uint32Time(time.Unix(int64(rv), 0))
		return nil

	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return errors.WithStack(err)

	case *btcwire.BitcoinNet:
		rv, err := binaryserializer.Uint32(r, littleEndian)
		if err != nil {
			return err
		}
		*e = btcwire.BitcoinNet(rv)
		return nil
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to read type %T", element)
}

// readElements reads multiple items from r. It is equivalent to multiple
// calls to readElement.
func readElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := readElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// writeElement writes the little endian representation of element to w.
func writeElement(w io.Writer, element interface{}) error {
	// Attempt to write the element based on the concrete type via fast
	// type assertions first.
	switch e := element.(type) {
	case int32:
		return binaryserializer.PutUint32(w, littleEndian, uint32(e))

	case uint32:
		return binaryserializer.PutUint32(w, littleEndian, e)

	case int64:
		return binaryserializer.PutUint64(w, littleEndian, uint64(e))

	case uint64:
		return binaryserializer.PutUint64(w, littleEndian, e)

	case bool:
		if e {
			return binaryserializer.PutUint8(w, 0x01)
		}
		return binaryserializer.PutUint8(w, 0x00)

	case uint32Time:
		return binaryserializer.PutUint32(w, littleEndian, uint32(time.Time(e).Unix()))

	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return errors.WithStack(err)

	case btcwire.BitcoinNet:
		return binaryserializer.PutUint32(w, littleEndian, uint32(e))
	}

	return errors.Wrapf(errNoEncodingForType, "couldn't find a way to write type %T", element)
}

// writeElements writes multiple items to w. It is equivalent to multiple
// calls to writeElement.
func writeElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := writeElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// readHashes reads a varint prefixed list of hashes holding at most
// maxAllowed entries.
func readHashes(r io.Reader, pver uint32, maxAllowed uint64, fieldName string) ([]chainhash.Hash, error) {
	count, err := btcwire.ReadVarInt(r, pver)
	if err != nil {
		return nil, err
	}
	if count > maxAllowed {
		return nil, messageErrorf("readHashes", "%s has %d hashes, "+
			"max is %d", fieldName, count, maxAllowed)
	}

	hashes := make([]chainhash.Hash, count)
	for i := range hashes {
		err := readElement(r, &hashes[i])
		if err != nil {
			return nil, err
		}
	}
	return hashes, nil
}

// writeHashes writes a varint prefixed list of hashes.
func writeHashes(w io.Writer, pver uint32, hashes []chainhash.Hash) error {
	err := btcwire.WriteVarInt(w, pver, uint64(len(hashes)))
	if err != nil {
		return err
	}
	for i := range hashes {
		err := writeElement(w, &hashes[i])
		if err != nil {
			return err
		}
	}
	return nil
}

// readRemaining reads everything left in r, failing when more than maxAllowed
// bytes are present.
func readRemaining(r io.Reader, maxAllowed uint32, fieldName string) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(r, int64(maxAllowed)+1))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if uint32(len(payload)) > maxAllowed {
		return nil, messageErrorf("readRemaining", "%s is larger than "+
			"the max allowed size of %d", fieldName, maxAllowed)
	}
	return payload, nil
}
