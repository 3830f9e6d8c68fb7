package hashes

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// Scrypt parameters used by Litecoin-family proof of work.
const (
	scryptN      = 1024
	scryptR      = 1
	scryptP      = 1
	scryptKeyLen = chainhash.HashSize
)

// ScryptHash returns the Litecoin-style scrypt digest of b, using b as both
// password and salt. The digest is returned in the same internal byte order
// as chainhash.DoubleHashH so both can be compared against targets the same
// way.
func ScryptHash(b []byte) chainhash.Hash {
	digest, err := scrypt.Key(b, b, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		// The parameters are constant and valid.
		panic(errors.Wrap(err, "scrypt.Key failed with constant parameters"))
	}
	var hash chainhash.Hash
	copy(hash[:], digest)
	return hash
}

// DoubleSHA256Hash is the bitcoin proof of work function. It exists next to
// ScryptHash so network parameters can pick either one as a value.
func DoubleSHA256Hash(b []byte) chainhash.Hash {
	return chainhash.DoubleHashH(b)
}
