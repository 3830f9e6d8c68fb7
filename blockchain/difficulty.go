// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"math/big"
	"time"

	"github.com/altcoinj/altcoin/chaincfg"
	"github.com/altcoinj/altcoin/infrastructure/logger"
	"github.com/altcoinj/altcoin/infrastructure/metrics"
	"github.com/altcoinj/altcoin/ruleerrors"
	"github.com/altcoinj/altcoin/wire"
	btcchain "github.com/btcsuite/btcd/blockchain"
	"github.com/pkg/errors"
)

// IsDifficultyTransitionPoint returns whether the block following the block
// at the given height must recalculate its difficulty.
func IsDifficultyTransitionPoint(height int32, params *chaincfg.Params) bool {
	return (height+1)%params.BlocksPerRetarget() == 0
}

// CheckDifficultyTransition checks the difficulty bits of next, the block
// extending prev. Blocks between transition points keep the difficulty of
// their parent. At a transition point the difficulty is retargeted from the
// time it took to mine the last interval of blocks, which are looked up in
// store.
func CheckDifficultyTransition(store HeaderStore, prev *StoredHeader, next *wire.BlockHeader,
	params *chaincfg.Params) error {

	started := time.Now()
	err := checkDifficultyTransition(store, prev, next, params)
	metrics.ObserveDifficultyCheck(params.Name, err, started)
	return err
}

func checkDifficultyTransition(store HeaderStore, prev *StoredHeader, next *wire.BlockHeader,
	params *chaincfg.Params) error {

	if params.NoRetargeting || !IsDifficultyTransitionPoint(prev.Height, params) {
		if params.ReduceMinDifficulty && !params.NoRetargeting {
			return checkMinDifficultyTransition(store, prev, next, params)
		}
		if next.Bits != prev.Header.Bits {
			return errors.Wrapf(ruleerrors.ErrUnexpectedDifficulty,
				"unexpected change in difficulty at height %d: %08x vs %08x",
				prev.Height, next.Bits, prev.Header.Bits)
		}
		return nil
	}

	newTarget, err := CalcNextTarget(store, prev, params)
	if err != nil {
		return err
	}

	// The calculated difficulty is to a higher precision than received, so
	// reduce it to the precision of the received bits.
	accuracyBits := (int(next.Bits>>24) - 3) * 8
	mask := big.NewInt(0xffffff)
	if accuracyBits >= 0 {
		mask.Lsh(mask, uint(accuracyBits))
	} else {
		mask.Rsh(mask, uint(-accuracyBits))
	}
	newTarget.And(newTarget, mask)

	newTargetBits := btcchain.BigToCompact(newTarget)
	if newTargetBits != next.Bits {
		return errors.Wrapf(ruleerrors.ErrBadDifficultyBits,
			"network provided difficulty bits %08x do not match the calculated %08x",
			next.Bits, newTargetBits)
	}
	return nil
}

// checkMinDifficultyTransition applies the test network rule allowing blocks
// at the minimum difficulty when no block was found for a while. Within
// MinDiffReductionTime of its parent, a block must carry the difficulty of
// the last block which was not mined at the minimum difficulty.
func checkMinDifficultyTransition(store HeaderStore, prev *StoredHeader, next *wire.BlockHeader,
	params *chaincfg.Params) error {

	// Blocks timestamped before their parent are exempt.
	timeDelta := next.Timestamp.Sub(prev.Header.Timestamp)
	if timeDelta < 0 || timeDelta > params.MinDiffReductionTime {
		return nil
	}

	interval := params.BlocksPerRetarget()
	cursor := prev
	for {
		cursorHash := cursor.Hash()
		if cursorHash.IsEqual(params.GenesisHash) || cursor.Height%interval == 0 ||
			btcchain.CompactToBig(cursor.Header.Bits).Cmp(params.PowLimit) != 0 {
			break
		}

		var err error
		cursor, err = store.HeaderByHash(&cursor.Header.PrevBlock)
		if err != nil {
			return err
		}
	}

	cursorTarget := btcchain.CompactToBig(cursor.Header.Bits)
	newTarget := btcchain.CompactToBig(next.Bits)
	if cursorTarget.Cmp(newTarget) != 0 {
		return errors.Wrapf(ruleerrors.ErrBadMinDifficultyTransition,
			"test network block transition that is not allowed: %08x vs %08x",
			cursor.Header.Bits, next.Bits)
	}
	return nil
}

// CalcNextTarget calculates the target of the block following prev, which
// must be at a difficulty transition point. The result is not reduced to
// compact precision.
func CalcNextTarget(store HeaderStore, prev *StoredHeader, params *chaincfg.Params) (*big.Int, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "CalcNextTarget")
	defer onEnd()

	// Get the first block of the interval ending with prev.
	interval := params.BlocksPerRetarget()
	firstNode := prev
	for i := int32(1); i < interval; i++ {
		var err error
		firstNode, err = store.HeaderByHash(&firstNode.Header.PrevBlock)
		if err != nil {
			return nil, errors.Wrapf(err, "difficulty transition at height %d "+
				"did not find a way back to the last transition point", prev.Height)
		}
	}
	if !IsDifficultyTransitionPoint(firstNode.Height-1, params) {
		return nil, errors.Errorf("walking back %d blocks from height %d "+
			"reached height %d, which does not follow a transition point",
			interval, prev.Height, firstNode.Height)
	}

	// Limit the amount of adjustment that can occur to the previous
	// difficulty.
	targetTimespan := int64(params.TargetTimespan / time.Second)
	minRetargetTimespan := targetTimespan / params.RetargetAdjustmentFactor
	maxRetargetTimespan := targetTimespan * params.RetargetAdjustmentFactor

	actualTimespan := prev.Header.Timestamp.Unix() - firstNode.Header.Timestamp.Unix()
	adjustedTimespan := actualTimespan
	if actualTimespan < minRetargetTimespan {
		adjustedTimespan = minRetargetTimespan
	} else if actualTimespan > maxRetargetTimespan {
		adjustedTimespan = maxRetargetTimespan
	}

	// Calculate new target difficulty as:
	//  currentDifficulty * (adjustedTimespan / targetTimespan)
	// The result uses integer division which means it will be slightly
	// rounded down.
	newTarget := btcchain.CompactToBig(prev.Header.Bits)
	newTarget.Mul(newTarget, big.NewInt(adjustedTimespan))
	newTarget.Div(newTarget, big.NewInt(targetTimespan))

	if newTarget.Cmp(params.PowLimit) > 0 {
		log.Infof("Difficulty hit proof of work limit: %064x", newTarget)
		newTarget.Set(params.PowLimit)
	}

	log.Debugf("Difficulty retarget at block height %d: timespan %ds, "+
		"adjusted %ds, target %064x", prev.Height+1, actualTimespan,
		adjustedTimespan, newTarget)
	return newTarget, nil
}
