package blockchain

import (
	"testing"
	"time"

	"github.com/altcoinj/altcoin/ruleerrors"
	"github.com/altcoinj/altcoin/wire"
	"github.com/pkg/errors"
)

func nextHeader(prev *StoredHeader, spacing time.Duration, bits uint32) *wire.BlockHeader {
	return &wire.BlockHeader{
		Version:   1,
		PrevBlock: prev.Hash(),
		Timestamp: prev.Header.Timestamp.Add(spacing),
		Bits:      bits,
	}
}

func TestIsDifficultyTransitionPoint(t *testing.T) {
	params := newTestParams()
	for height, want := range []bool{false, false, false, true, false, false, false, true} {
		if got := IsDifficultyTransitionPoint(int32(height), params); got != want {
			t.Errorf("IsDifficultyTransitionPoint(%d): got %t, want %t", height, got, want)
		}
	}
}

func TestCheckDifficultyTransition(t *testing.T) {
	tests := []struct {
		name      string
		startBits uint32
		spacing   time.Duration
		prevIndex int
		nextBits  uint32
		expectErr error
	}{
		{
			name:      "unchanged between transitions",
			startBits: testStartBits,
			spacing:   time.Minute,
			prevIndex: 2,
			nextBits:  testStartBits,
		},
		{
			name:      "changed between transitions",
			startBits: testStartBits,
			spacing:   time.Minute,
			prevIndex: 2,
			nextBits:  0x1c3fffc0,
			expectErr: ruleerrors.ErrUnexpectedDifficulty,
		},
		{
			name:      "on schedule",
			startBits: testStartBits,
			spacing:   time.Second * 80,
			prevIndex: 3,
			nextBits:  testStartBits,
		},
		{
			name:      "on schedule with wrong bits",
			startBits: testStartBits,
			spacing:   time.Second * 80,
			prevIndex: 3,
			nextBits:  0x1d00fffe,
			expectErr: ruleerrors.ErrBadDifficultyBits,
		},
		{
			name:      "three quarters of the timespan",
			startBits: testStartBits,
			spacing:   time.Minute,
			prevIndex: 3,
			nextBits:  0x1d00bfff,
		},
		{
			name:      "too fast is clamped to a quarter",
			startBits: testStartBits,
			spacing:   0,
			prevIndex: 3,
			nextBits:  0x1c3fffc0,
		},
		{
			name:      "too slow is clamped to four times",
			startBits: testStartBits,
			spacing:   time.Minute * 10,
			prevIndex: 3,
			nextBits:  0x1d03fffc,
		},
		{
			name:      "capped at the proof of work limit",
			startBits: 0x1e0ffff0,
			spacing:   time.Minute * 10,
			prevIndex: 3,
			nextBits:  testPowLimitBits,
		},
	}

	for _, test := range tests {
		params := newTestParams()
		store := make(mapStore)
		chain := buildChain(t, store, params, test.spacing, repeatBits(test.startBits, 4))
		prev := chain[test.prevIndex]

		err := CheckDifficultyTransition(store, prev, nextHeader(prev, test.spacing, test.nextBits), params)
		if test.expectErr == nil {
			if err != nil {
				t.Errorf("%s: unexpected error: %+v", test.name, err)
			}
			continue
		}
		if !errors.Is(err, test.expectErr) {
			t.Errorf("%s: got error %v, want %v", test.name, err, test.expectErr)
		}
	}
}

func TestCheckDifficultyTransitionMissingAncestor(t *testing.T) {
	params := newTestParams()
	store := make(mapStore)
	chain := buildChain(t, store, params, time.Minute, repeatBits(testStartBits, 4))
	delete(store, chain[1].Hash())

	prev := chain[3]
	err := CheckDifficultyTransition(store, prev, nextHeader(prev, time.Minute, 0x1d00bfff), params)
	if !errors.Is(err, ErrBlockNotFound) {
		t.Errorf("got error %v, want %v", err, ErrBlockNotFound)
	}
}

func TestCheckMinDifficultyTransition(t *testing.T) {
	tests := []struct {
		name      string
		bits      []uint32
		spacing   time.Duration
		nextBits  uint32
		expectErr error
	}{
		{
			name:     "back to the last real difficulty",
			bits:     []uint32{testStartBits, testStartBits, testStartBits, testStartBits, testStartBits, testPowLimitBits, testPowLimitBits},
			spacing:  time.Minute,
			nextBits: testStartBits,
		},
		{
			name:      "minimum difficulty too early",
			bits:      []uint32{testStartBits, testStartBits, testStartBits, testStartBits, testStartBits, testPowLimitBits, testPowLimitBits},
			spacing:   time.Minute,
			nextBits:  testPowLimitBits,
			expectErr: ruleerrors.ErrBadMinDifficultyTransition,
		},
		{
			name:     "minimum difficulty after a long gap",
			bits:     []uint32{testStartBits, testStartBits, testStartBits, testStartBits, testStartBits, testPowLimitBits, testPowLimitBits},
			spacing:  time.Minute * 21,
			nextBits: testPowLimitBits,
		},
		{
			name:     "minimum difficulty since the last transition",
			bits:     []uint32{testStartBits, testStartBits, testStartBits, testStartBits, testPowLimitBits, testPowLimitBits, testPowLimitBits},
			spacing:  time.Minute,
			nextBits: testPowLimitBits,
		},
		{
			name:      "going back in time",
			bits:      []uint32{testStartBits, testStartBits, testStartBits, testStartBits, testStartBits, testPowLimitBits, testPowLimitBits},
			spacing:   -time.Minute,
			nextBits:  testPowLimitBits,
			expectErr: nil,
		},
	}

	for _, test := range tests {
		params := newTestParams()
		params.ReduceMinDifficulty = true
		params.MinDiffReductionTime = time.Minute * 20

		store := make(mapStore)
		chain := buildChain(t, store, params, time.Minute, test.bits)
		prev := chain[len(chain)-1]

		err := CheckDifficultyTransition(store, prev, nextHeader(prev, test.spacing, test.nextBits), params)
		if test.expectErr == nil {
			if err != nil {
				t.Errorf("%s: unexpected error: %+v", test.name, err)
			}
			continue
		}
		if !errors.Is(err, test.expectErr) {
			t.Errorf("%s: got error %v, want %v", test.name, err, test.expectErr)
		}
	}
}

func TestNoRetargeting(t *testing.T) {
	params := newTestParams()
	params.NoRetargeting = true
	store := make(mapStore)
	chain := buildChain(t, store, params, time.Minute*10, repeatBits(testStartBits, 4))
	prev := chain[3]

	err := CheckDifficultyTransition(store, prev, nextHeader(prev, time.Minute, testStartBits), params)
	if err != nil {
		t.Errorf("unexpected error: %+v", err)
	}
	err = CheckDifficultyTransition(store, prev, nextHeader(prev, time.Minute, 0x1d03fffc), params)
	if !errors.Is(err, ruleerrors.ErrUnexpectedDifficulty) {
		t.Errorf("got error %v, want %v", err, ruleerrors.ErrUnexpectedDifficulty)
	}
}
