package merkle

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/altcoinj/altcoin/ruleerrors"
	"github.com/altcoinj/altcoin/util/hashes"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"pgregory.net/rapid"
)

// testLeaves returns count leaves, leaf i being the sha256 of the single
// byte i.
func testLeaves(count int) []chainhash.Hash {
	leaves := make([]chainhash.Hash, count)
	for i := range leaves {
		leaves[i] = chainhash.HashH([]byte{byte(i)})
	}
	return leaves
}

func combine(left, right chainhash.Hash) chainhash.Hash {
	return hashes.HashMerkleBranches(&left, &right)
}

type eightLeafTree struct {
	h []chainhash.Hash

	h01, h23, h45, h67      chainhash.Hash
	h0123, h4567, h01234567 chainhash.Hash
}

func newEightLeafTree() *eightLeafTree {
	t := &eightLeafTree{h: testLeaves(8)}
	t.h01 = combine(t.h[0], t.h[1])
	t.h23 = combine(t.h[2], t.h[3])
	t.h45 = combine(t.h[4], t.h[5])
	t.h67 = combine(t.h[6], t.h[7])
	t.h0123 = combine(t.h01, t.h23)
	t.h4567 = combine(t.h45, t.h67)
	t.h01234567 = combine(t.h0123, t.h4567)
	return t
}

func (t *eightLeafTree) paths() [][]chainhash.Hash {
	h := t.h
	return [][]chainhash.Hash{
		{h[1], t.h23, t.h4567},
		{h[0], t.h23, t.h4567},
		{h[3], t.h01, t.h4567},
		{h[2], t.h01, t.h4567},
		{h[5], t.h67, t.h0123},
		{h[4], t.h67, t.h0123},
		{h[7], t.h45, t.h0123},
		{h[6], t.h45, t.h0123},
	}
}

func TestPartialMerkleTreeEightLeaves(t *testing.T) {
	tree := newEightLeafTree()
	paths := tree.paths()

	tests := []struct {
		name     string
		mask     []byte
		included []int
	}{
		{name: "all included", mask: []byte{0xff}, included: []int{0, 1, 2, 3, 4, 5, 6, 7}},
		{name: "first half", mask: []byte{0x0f}, included: []int{0, 1, 2, 3}},
		{name: "first and last", mask: []byte{0x81}, included: []int{0, 7}},
	}

	for _, test := range tests {
		pmt, err := BuildFromMask(tree.h, test.mask)
		if err != nil {
			t.Fatalf("%s: BuildFromMask unexpectedly failed: %s", test.name, err)
		}

		root, err := pmt.Root()
		if err != nil {
			t.Fatalf("%s: Root unexpectedly failed: %s", test.name, err)
		}
		if root != tree.h01234567 {
			t.Errorf("%s: wrong root - got %s, want %s", test.name, root, tree.h01234567)
		}

		isIncluded := make(map[int]bool)
		for _, leaf := range test.included {
			isIncluded[leaf] = true
		}

		for leaf := 0; leaf < 8; leaf++ {
			index, indexErr := pmt.TransactionIndex(&tree.h[leaf])
			path, pathErr := pmt.TransactionPath(&tree.h[leaf])
			if !isIncluded[leaf] {
				if !errors.Is(indexErr, ruleerrors.ErrTxNotInPartialMerkleTree) {
					t.Errorf("%s: TransactionIndex(%d) expected ErrTxNotInPartialMerkleTree, got %v",
						test.name, leaf, indexErr)
				}
				if !errors.Is(pathErr, ruleerrors.ErrTxNotInPartialMerkleTree) {
					t.Errorf("%s: TransactionPath(%d) expected ErrTxNotInPartialMerkleTree, got %v",
						test.name, leaf, pathErr)
				}
				continue
			}

			if indexErr != nil || pathErr != nil {
				t.Fatalf("%s: leaf %d unexpectedly failed: %v / %v", test.name, leaf, indexErr, pathErr)
			}
			if index != uint32(leaf) {
				t.Errorf("%s: TransactionIndex(%d) got %d", test.name, leaf, index)
			}
			if !reflect.DeepEqual(path, paths[leaf]) {
				t.Errorf("%s: TransactionPath(%d) got %v, want %v", test.name, leaf,
					spew.Sdump(path), spew.Sdump(paths[leaf]))
			}
		}
	}
}

func TestPartialMerkleTreeNineLeaves(t *testing.T) {
	tree := newEightLeafTree()
	h := testLeaves(9)
	h88 := combine(h[8], h[8])
	h8888 := combine(h88, h88)
	h88888888 := combine(h8888, h8888)
	wantRoot := combine(tree.h01234567, h88888888)

	pmt, err := BuildFromMask(h, []byte{0xff, 0x01})
	if err != nil {
		t.Fatalf("BuildFromMask unexpectedly failed: %s", err)
	}

	root, matches, indexes, err := pmt.ExtractMatches()
	if err != nil {
		t.Fatalf("ExtractMatches unexpectedly failed: %s", err)
	}
	if root != wantRoot {
		t.Errorf("ExtractMatches: wrong root - got %s, want %s", root, wantRoot)
	}
	if root != CalcRoot(h) {
		t.Errorf("ExtractMatches: root %s differs from CalcRoot %s", root, CalcRoot(h))
	}
	if !reflect.DeepEqual(matches, h) {
		t.Errorf("ExtractMatches: wrong matches - got %v, want %v", spew.Sdump(matches), spew.Sdump(h))
	}
	for i, index := range indexes {
		if index != uint32(i) {
			t.Errorf("ExtractMatches: index %d got %d", i, index)
		}
	}

	wantPaths := map[int][]chainhash.Hash{
		0: {h[1], tree.h23, tree.h4567, h88888888},
		7: {h[6], tree.h45, tree.h0123, h88888888},
		8: {h[8], h88, h8888, tree.h01234567},
	}
	for leaf, want := range wantPaths {
		path, err := pmt.TransactionPath(&h[leaf])
		if err != nil {
			t.Fatalf("TransactionPath(%d) unexpectedly failed: %s", leaf, err)
		}
		if !reflect.DeepEqual(path, want) {
			t.Errorf("TransactionPath(%d): got %v, want %v", leaf, spew.Sdump(path), spew.Sdump(want))
		}
	}

	eightLeafPath := tree.paths()[0]
	path, _ := pmt.TransactionPath(&h[8])
	if len(path) != len(eightLeafPath)+1 {
		t.Errorf("TransactionPath(8): got length %d, want %d", len(path), len(eightLeafPath)+1)
	}
}

func TestPartialMerkleTreeSingleLeaf(t *testing.T) {
	leaves := testLeaves(1)
	pmt, err := BuildFromLeaves(leaves, []bool{true})
	if err != nil {
		t.Fatalf("BuildFromLeaves unexpectedly failed: %s", err)
	}
	root, err := pmt.Root()
	if err != nil {
		t.Fatalf("Root unexpectedly failed: %s", err)
	}
	if root != leaves[0] {
		t.Errorf("Root: got %s, want %s", root, leaves[0])
	}
	path, err := pmt.TransactionPath(&leaves[0])
	if err != nil {
		t.Fatalf("TransactionPath unexpectedly failed: %s", err)
	}
	if len(path) != 0 {
		t.Errorf("TransactionPath: expected an empty path, got %v", path)
	}
	branch, sideMask := BranchForLeaf(leaves, 0)
	if !reflect.DeepEqual(branch, path) || sideMask != 0 {
		t.Errorf("BranchForLeaf: got %v (%d), want the TransactionPath %v", branch, sideMask, path)
	}
}

func TestBuildFromLeavesErrors(t *testing.T) {
	if _, err := BuildFromLeaves(nil, nil); err == nil {
		t.Errorf("BuildFromLeaves: expected an error for no leaves")
	}
	if _, err := BuildFromLeaves(testLeaves(3), []bool{true}); err == nil {
		t.Errorf("BuildFromLeaves: expected an error for a short include list")
	}
}

func TestPartialMerkleTreeMalformed(t *testing.T) {
	leaves := testLeaves(8)
	valid, err := BuildFromMask(leaves, []byte{0x81})
	if err != nil {
		t.Fatalf("BuildFromMask unexpectedly failed: %s", err)
	}

	tests := []struct {
		name    string
		mutate  func(tree *PartialMerkleTree)
		wantErr error
	}{
		{
			name:    "no transactions",
			mutate:  func(tree *PartialMerkleTree) { tree.TransactionCount = 0 },
			wantErr: ruleerrors.ErrBadPartialMerkleTree,
		},
		{
			name:    "more hashes than transactions",
			mutate:  func(tree *PartialMerkleTree) { tree.TransactionCount = 2 },
			wantErr: ruleerrors.ErrBadPartialMerkleTree,
		},
		{
			name:    "bits exhausted",
			mutate:  func(tree *PartialMerkleTree) { tree.Bits = tree.Bits[:len(tree.Hashes)] },
			wantErr: ruleerrors.ErrBadPartialMerkleTree,
		},
		{
			name:    "hashes exhausted",
			mutate:  func(tree *PartialMerkleTree) { tree.Hashes = tree.Hashes[:len(tree.Hashes)-1] },
			wantErr: ruleerrors.ErrBadPartialMerkleTree,
		},
		{
			name: "unused hashes",
			mutate: func(tree *PartialMerkleTree) {
				tree.Hashes = append(tree.Hashes, chainhash.Hash{})
			},
			wantErr: ruleerrors.ErrBadPartialMerkleTree,
		},
		{
			name: "unused bit bytes",
			mutate: func(tree *PartialMerkleTree) {
				tree.Bits = append(tree.Bits, make([]bool, 16)...)
			},
			wantErr: ruleerrors.ErrBadPartialMerkleTree,
		},
		{
			name: "duplicated children",
			mutate: func(tree *PartialMerkleTree) {
				tree.Hashes[len(tree.Hashes)-1] = tree.Hashes[len(tree.Hashes)-2]
			},
			wantErr: ruleerrors.ErrDuplicateMerkleBranch,
		},
	}

	for _, test := range tests {
		tree := &PartialMerkleTree{
			TransactionCount: valid.TransactionCount,
			Hashes:           append([]chainhash.Hash(nil), valid.Hashes...),
			Bits:             append([]bool(nil), valid.Bits...),
		}
		test.mutate(tree)
		_, _, _, err := tree.ExtractMatches()
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%s: expected %v, got %v", test.name, test.wantErr, err)
		}
	}
}

func TestPartialMerkleTreeCheckRoot(t *testing.T) {
	leaves := testLeaves(5)
	pmt, err := BuildFromMask(leaves, []byte{0x04})
	if err != nil {
		t.Fatalf("BuildFromMask unexpectedly failed: %s", err)
	}
	root := CalcRoot(leaves)
	if err := pmt.CheckRoot(&root); err != nil {
		t.Errorf("CheckRoot: unexpected error %s", err)
	}
	wrongRoot := leaves[0]
	if err := pmt.CheckRoot(&wrongRoot); !errors.Is(err, ruleerrors.ErrPartialMerkleRootMismatch) {
		t.Errorf("CheckRoot: expected ErrPartialMerkleRootMismatch, got %v", err)
	}
}

func TestPartialMerkleTreeSerialization(t *testing.T) {
	pmt, err := BuildFromMask(testLeaves(9), []byte{0x10, 0x01})
	if err != nil {
		t.Fatalf("BuildFromMask unexpectedly failed: %s", err)
	}

	var buf bytes.Buffer
	if err := pmt.Serialize(&buf); err != nil {
		t.Fatalf("Serialize unexpectedly failed: %s", err)
	}
	if buf.Len() != pmt.SerializeSize() {
		t.Errorf("SerializeSize: got %d, serialized %d bytes", pmt.SerializeSize(), buf.Len())
	}

	var decoded PartialMerkleTree
	if err := decoded.Deserialize(bytes.NewReader(buf.Bytes())); err != nil {
		t.Fatalf("Deserialize unexpectedly failed: %s", err)
	}
	if decoded.TransactionCount != pmt.TransactionCount || !reflect.DeepEqual(decoded.Hashes, pmt.Hashes) {
		t.Errorf("Deserialize: got %v, want %v", spew.Sdump(decoded), spew.Sdump(pmt))
	}
	for i, bit := range pmt.Bits {
		if decoded.Bits[i] != bit {
			t.Errorf("Deserialize: bit %d got %t, want %t", i, decoded.Bits[i], bit)
		}
	}

	wantRoot, _ := pmt.Root()
	gotRoot, err := decoded.Root()
	if err != nil {
		t.Fatalf("Root of decoded tree unexpectedly failed: %s", err)
	}
	if gotRoot != wantRoot {
		t.Errorf("Root of decoded tree: got %s, want %s", gotRoot, wantRoot)
	}

	// A declared hash count above the transaction count is rejected before
	// any hash is read.
	malformed := []byte{0x01, 0x00, 0x00, 0x00, 0x02}
	err = (&PartialMerkleTree{}).Deserialize(bytes.NewReader(malformed))
	if err == nil {
		t.Errorf("Deserialize: expected an error for too many hashes")
	}
}

// TestPartialMerkleTreeProperties checks that for any leaf count and mask the
// replayed tree reproduces the full merkle root, matches exactly the
// included leaves, and yields paths that lead back to the root.
func TestPartialMerkleTreeProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		leafCount := rapid.IntRange(1, 70).Draw(t, "leafCount")
		include := rapid.SliceOfN(rapid.Bool(), leafCount, leafCount).Draw(t, "include")

		leaves := testLeaves(leafCount)
		pmt, err := BuildFromLeaves(leaves, include)
		if err != nil {
			t.Fatalf("BuildFromLeaves: %s", err)
		}

		root, matches, indexes, err := pmt.ExtractMatches()
		if err != nil {
			t.Fatalf("ExtractMatches: %s", err)
		}
		wantRoot := CalcRoot(leaves)
		if root != wantRoot {
			t.Fatalf("root %s, want %s", root, wantRoot)
		}

		var wantIndexes []uint32
		for i, isIncluded := range include {
			if isIncluded {
				wantIndexes = append(wantIndexes, uint32(i))
			}
		}
		if !reflect.DeepEqual(indexes, wantIndexes) {
			t.Fatalf("indexes %v, want %v", indexes, wantIndexes)
		}

		for i, index := range indexes {
			if matches[i] != leaves[index] {
				t.Fatalf("match %d is %s, want %s", i, matches[i], leaves[index])
			}
			path, err := pmt.TransactionPath(&leaves[index])
			if err != nil {
				t.Fatalf("TransactionPath(%d): %s", index, err)
			}
			if got := BranchRoot(&leaves[index], path, index); got != wantRoot {
				t.Fatalf("path of leaf %d leads to %s, want %s", index, got, wantRoot)
			}
			branch, sideMask := BranchForLeaf(leaves, int(index))
			if !reflect.DeepEqual(branch, path) || sideMask != index {
				t.Fatalf("BranchForLeaf(%d) differs from TransactionPath", index)
			}
		}
	})
}
