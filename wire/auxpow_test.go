package wire

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/altcoinj/altcoin/ruleerrors"
	"github.com/btcsuite/btcd/blockchain"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	btcwire "github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

func TestExpectedIndex(t *testing.T) {
	tests := []struct {
		nonce   uint32
		chainID int32
		height  int
		want    uint32
	}{
		{nonce: 0, chainID: 0x62, height: 0, want: 0},
		{nonce: 0, chainID: 0x62, height: 3, want: 0},
		{nonce: 7, chainID: 0x62, height: 2, want: 3},
		{nonce: 1, chainID: 0x1000, height: 4, want: 7},
		{nonce: 0xdeadbeef, chainID: 0x62, height: 30, want: 220410431},
	}

	for i, test := range tests {
		got := ExpectedIndex(test.nonce, test.chainID, test.height)
		if got != test.want {
			t.Errorf("ExpectedIndex #%d: got %d, want %d", i, got, test.want)
		}
	}
}

func TestAuxPoWCheck(t *testing.T) {
	f := newAuxPoWFixture(t)
	childHash := f.childHash()
	err := f.auxPoW.Check(&childHash, testChainID, true)
	if err != nil {
		t.Fatalf("Check: unexpected error for a valid AuxPoW: %+v", err)
	}
}

func TestAuxPoWCheckFailures(t *testing.T) {
	otherNonce := uint32(8)
	for ExpectedIndex(otherNonce, testChainID, 2) == ExpectedIndex(7, testChainID, 2) {
		otherNonce++
	}

	tests := []struct {
		name    string
		tamper  func(f *auxPoWFixture)
		strict  bool
		wantErr error
	}{
		{
			name: "coinbase not generated by the parent",
			tamper: func(f *auxPoWFixture) {
				f.auxPoW.CoinbaseBranch.SideMask = 1
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWNotGenerate,
		},
		{
			name: "parent has our chain ID",
			tamper: func(f *auxPoWFixture) {
				f.auxPoW.ParentHeader.Version = MakeAuxPoWVersion(1, testChainID)
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWChainIDCollision,
		},
		{
			name: "parent has our chain ID on a lax network",
			tamper: func(f *auxPoWFixture) {
				f.auxPoW.ParentHeader.Version = MakeAuxPoWVersion(1, testChainID)
			},
			strict:  false,
			wantErr: nil,
		},
		{
			name: "chain branch too long",
			tamper: func(f *auxPoWFixture) {
				f.auxPoW.ChainBranch.Hashes = make([]chainhash.Hash, MaxChainMerkleBranchLength+1)
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWChainBranchTooLong,
		},
		{
			name: "parent merkle root mismatch",
			tamper: func(f *auxPoWFixture) {
				f.auxPoW.ParentHeader.MerkleRoot = chainhash.Hash{0xff}
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWMerkleRootMismatch,
		},
		{
			name: "coinbase without inputs",
			tamper: func(f *auxPoWFixture) {
				coinbase := btcwire.NewMsgTx(1)
				coinbase.AddTxOut(btcwire.NewTxOut(1, []byte{0x51}))
				f.setCoinbase(coinbase)
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWCoinbaseNoInputs,
		},
		{
			name: "chain merkle root missing",
			tamper: func(f *auxPoWFixture) {
				f.setCoinbaseScript(concat(MergedMiningHeader,
					commitment(chainhash.Hash{0xee}, 4, f.nonce)))
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWMissingChainRoot,
		},
		{
			name: "merged mining header twice",
			tamper: func(f *auxPoWFixture) {
				f.setCoinbaseScript(concat(MergedMiningHeader,
					commitment(f.chainRoot(), 4, f.nonce), MergedMiningHeader))
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWMultipleHeaders,
		},
		{
			name: "merged mining header not before the root",
			tamper: func(f *auxPoWFixture) {
				f.setCoinbaseScript(concat(MergedMiningHeader, []byte{0x00},
					commitment(f.chainRoot(), 4, f.nonce)))
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWHeaderNotBeforeRoot,
		},
		{
			name: "root at offset 20 without header",
			tamper: func(f *auxPoWFixture) {
				f.setCoinbaseScript(concat(make([]byte, 20),
					commitment(f.chainRoot(), 4, f.nonce)))
			},
			strict:  true,
			wantErr: nil,
		},
		{
			name: "root at offset 21 without header",
			tamper: func(f *auxPoWFixture) {
				f.setCoinbaseScript(concat(make([]byte, 21),
					commitment(f.chainRoot(), 4, f.nonce)))
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWRootTooLate,
		},
		{
			name: "size and nonce missing",
			tamper: func(f *auxPoWFixture) {
				f.setCoinbaseScript(concat(MergedMiningHeader,
					commitment(f.chainRoot(), 4, f.nonce)[:chainhash.HashSize+7]))
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWMissingSizeNonce,
		},
		{
			name: "tree size does not match the branch",
			tamper: func(f *auxPoWFixture) {
				f.setCoinbaseScript(concat(MergedMiningHeader,
					commitment(f.chainRoot(), 8, f.nonce)))
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWBranchSizeMismatch,
		},
		{
			name: "side mask is not the expected index",
			tamper: func(f *auxPoWFixture) {
				f.setCoinbaseScript(concat(MergedMiningHeader,
					commitment(f.chainRoot(), 4, otherNonce)))
			},
			strict:  true,
			wantErr: ruleerrors.ErrAuxPoWWrongIndex,
		},
	}

	for _, test := range tests {
		f := newAuxPoWFixture(t)
		test.tamper(f)
		childHash := f.childHash()
		err := f.auxPoW.Check(&childHash, testChainID, test.strict)
		if test.wantErr == nil {
			if err != nil {
				t.Errorf("%s: unexpected error: %+v", test.name, err)
			}
			continue
		}
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%s: got error %v, want %v", test.name, err, test.wantErr)
		}
		if !ruleerrors.IsRuleError(err) {
			t.Errorf("%s: %v is not a rule error", test.name, err)
		}
	}
}

func TestAuxPoWCheckProofOfWork(t *testing.T) {
	f := newAuxPoWFixture(t)
	childHash := f.childHash()
	rules := newTestRules()

	err := f.auxPoW.CheckProofOfWork(&childHash, blockchain.CompactToBig(testBits), rules)
	if err != nil {
		t.Fatalf("CheckProofOfWork: unexpected error: %+v", err)
	}

	err = f.auxPoW.CheckProofOfWork(&childHash, blockchain.CompactToBig(0x03000001), rules)
	if !errors.Is(err, ruleerrors.ErrHighHash) {
		t.Errorf("CheckProofOfWork: got error %v, want %v", err, ruleerrors.ErrHighHash)
	}

	otherChild := chainhash.Hash{0x99}
	err = f.auxPoW.CheckProofOfWork(&otherChild, blockchain.CompactToBig(testBits), rules)
	if !errors.Is(err, ruleerrors.ErrAuxPoWMissingChainRoot) {
		t.Errorf("CheckProofOfWork: got error %v, want %v", err,
			ruleerrors.ErrAuxPoWMissingChainRoot)
	}
}

func TestAuxPoWSerialization(t *testing.T) {
	f := newAuxPoWFixture(t)
	pver := btcwire.ProtocolVersion

	var buf bytes.Buffer
	err := f.auxPoW.BtcEncode(&buf, pver)
	if err != nil {
		t.Fatalf("BtcEncode: %+v", err)
	}
	if buf.Len() != f.auxPoW.SerializeSize() {
		t.Errorf("SerializeSize: got %d, encoded %d bytes", f.auxPoW.SerializeSize(), buf.Len())
	}

	// The parent header closes the serialized AuxPoW.
	var parentHeader bytes.Buffer
	_ = f.auxPoW.ParentHeader.Serialize(&parentHeader)
	if !bytes.HasSuffix(buf.Bytes(), parentHeader.Bytes()) {
		t.Errorf("serialized AuxPoW does not end with the parent header")
	}

	var decoded AuxPoW
	err = decoded.BtcDecode(bytes.NewReader(buf.Bytes()), pver)
	if err != nil {
		t.Fatalf("BtcDecode: %+v", err)
	}
	if !reflect.DeepEqual(&decoded, f.auxPoW) {
		t.Errorf("BtcDecode: mismatched AuxPoW - got %v, want %v",
			spew.Sdump(&decoded), spew.Sdump(f.auxPoW))
	}

	// Truncated input must fail rather than yield a partial proof.
	for _, size := range []int{0, 10, buf.Len() - 1} {
		var truncated AuxPoW
		err := truncated.BtcDecode(bytes.NewReader(buf.Bytes()[:size]), pver)
		if err == nil {
			t.Errorf("BtcDecode: expected an error for %d of %d bytes", size, buf.Len())
		}
	}

	// An AuxPoW without a coinbase is rejected when encoding and has no size.
	noCoinbase := &AuxPoW{ParentHeader: f.auxPoW.ParentHeader}
	if size := noCoinbase.SerializeSize(); size != 0 {
		t.Errorf("SerializeSize without a coinbase: got %d, want 0", size)
	}
	var msgErr *MessageError
	if err := noCoinbase.BtcEncode(&bytes.Buffer{}, pver); !errors.As(err, &msgErr) {
		t.Errorf("BtcEncode without a coinbase: expected a *MessageError, got %v", err)
	}
}
