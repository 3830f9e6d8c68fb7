package hashes

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

func TestDoubleHashWriter(t *testing.T) {
	data := [][]byte{[]byte("altcoin"), {0x00, 0x01, 0x02}, bytes.Repeat([]byte{0xfa}, 100)}

	w := NewDoubleHashWriter()
	var concatenated []byte
	for _, d := range data {
		_, _ = w.Write(d)
		concatenated = append(concatenated, d...)
	}
	if got, want := w.Finalize(), chainhash.DoubleHashH(concatenated); got != want {
		t.Errorf("DoubleHashWriter: got %s, want %s", got, want)
	}

	sw := NewHashWriter()
	_, _ = sw.Write(concatenated)
	if got, want := sw.Finalize(), chainhash.HashH(concatenated); got != want {
		t.Errorf("HashWriter: got %s, want %s", got, want)
	}
}

func TestHashMerkleBranches(t *testing.T) {
	left := chainhash.HashH([]byte{0})
	right := chainhash.HashH([]byte{1})

	var concatenated [chainhash.HashSize * 2]byte
	copy(concatenated[:chainhash.HashSize], left[:])
	copy(concatenated[chainhash.HashSize:], right[:])

	got := HashMerkleBranches(&left, &right)
	if want := chainhash.DoubleHashH(concatenated[:]); got != want {
		t.Errorf("HashMerkleBranches: got %s, want %s", got, want)
	}
	if swapped := HashMerkleBranches(&right, &left); swapped == got {
		t.Errorf("HashMerkleBranches: expected order to matter")
	}
}

// TestScryptHash checks the Litecoin genesis block header, whose scrypt
// digest must satisfy its own difficulty target.
func TestScryptHash(t *testing.T) {
	header, err := hex.DecodeString("01000000000000000000000000000000000000000000000000000000000000000000" +
		"0000d9ced4ed1130f7b7faad9be25323ffafa33232a17c3edf6cfd97bee6bafbdd97b9aa8e4ef0ff0f1ecd513f7c")
	if err != nil {
		t.Fatalf("DecodeString: %s", err)
	}

	wantIdentity := "12a765e31ffd4059bada1e25190f6e98c99d9714d334efa41a195a7e7e04bfe2"
	if identity := DoubleSHA256Hash(header); identity.String() != wantIdentity {
		t.Fatalf("DoubleSHA256Hash: got %s, want %s", identity, wantIdentity)
	}

	powHash := ScryptHash(header)
	target := blockchain.CompactToBig(0x1e0ffff0)
	if blockchain.HashToBig(&powHash).Cmp(target) > 0 {
		t.Errorf("ScryptHash: %s is above the genesis target %064x", powHash, target)
	}
	if again := ScryptHash(header); again != powHash {
		t.Errorf("ScryptHash: not deterministic - got %s then %s", powHash, again)
	}
}
