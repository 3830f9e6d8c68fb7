package ruleerrors

import (
	"github.com/pkg/errors"
)

// These constants are used to identify a specific RuleError.
var (
	// ErrHighHash indicates the block does not hash to a value which is
	// lower than the required target difficulty.
	ErrHighHash = newRuleError("ErrHighHash")

	// ErrTargetTooHigh indicates the claimed target is higher than the
	// maximum target of the network.
	ErrTargetTooHigh = newRuleError("ErrTargetTooHigh")

	// ErrInvalidTarget indicates the compact target decodes to zero or a
	// negative number.
	ErrInvalidTarget = newRuleError("ErrInvalidTarget")

	// ErrUnexpectedDifficulty indicates the difficulty bits changed at a
	// height that is not a difficulty transition point.
	ErrUnexpectedDifficulty = newRuleError("ErrUnexpectedDifficulty")

	// ErrBadDifficultyBits indicates the difficulty bits at a transition
	// point do not match the retarget calculation.
	ErrBadDifficultyBits = newRuleError("ErrBadDifficultyBits")

	// ErrBadMinDifficultyTransition indicates a testnet block lowered the
	// difficulty in a way the minimum difficulty rule doesn't allow.
	ErrBadMinDifficultyTransition = newRuleError("ErrBadMinDifficultyTransition")

	// ErrBadPartialMerkleTree indicates a partial merkle tree could not be
	// replayed: its bits or hashes ran out, were left over, or exceeded what
	// the transaction count allows.
	ErrBadPartialMerkleTree = newRuleError("ErrBadPartialMerkleTree")

	// ErrDuplicateMerkleBranch indicates a partial merkle tree with identical
	// left and right children, which allows forging a different transaction
	// list under the same root.
	ErrDuplicateMerkleBranch = newRuleError("ErrDuplicateMerkleBranch")

	// ErrPartialMerkleRootMismatch indicates a partial merkle tree whose root
	// is different from the root committed to by the block header.
	ErrPartialMerkleRootMismatch = newRuleError("ErrPartialMerkleRootMismatch")

	// ErrTxNotInPartialMerkleTree indicates a lookup for a transaction which
	// is not one of the matched leaves of a partial merkle tree.
	ErrTxNotInPartialMerkleTree = newRuleError("ErrTxNotInPartialMerkleTree")

	// ErrAuxPoWNotGenerate indicates the AuxPoW coinbase branch does not
	// start at the first transaction of the parent block.
	ErrAuxPoWNotGenerate = newRuleError("ErrAuxPoWNotGenerate")

	// ErrAuxPoWChainIDCollision indicates the parent block carries the same
	// chain id as the merged mined chain.
	ErrAuxPoWChainIDCollision = newRuleError("ErrAuxPoWChainIDCollision")

	// ErrAuxPoWChainBranchTooLong indicates the chain merkle branch is longer
	// than the maximum of 30 levels.
	ErrAuxPoWChainBranchTooLong = newRuleError("ErrAuxPoWChainBranchTooLong")

	// ErrAuxPoWMerkleRootMismatch indicates the coinbase merkle branch does
	// not lead to the merkle root of the parent block.
	ErrAuxPoWMerkleRootMismatch = newRuleError("ErrAuxPoWMerkleRootMismatch")

	// ErrAuxPoWCoinbaseNoInputs indicates the parent coinbase has no inputs
	// to carry the merged mining commitment.
	ErrAuxPoWCoinbaseNoInputs = newRuleError("ErrAuxPoWCoinbaseNoInputs")

	// ErrAuxPoWMissingChainRoot indicates the chain merkle root was not found
	// in the parent coinbase script.
	ErrAuxPoWMissingChainRoot = newRuleError("ErrAuxPoWMissingChainRoot")

	// ErrAuxPoWMultipleHeaders indicates more than one merged mining header
	// in the parent coinbase script.
	ErrAuxPoWMultipleHeaders = newRuleError("ErrAuxPoWMultipleHeaders")

	// ErrAuxPoWHeaderNotBeforeRoot indicates the merged mining header is not
	// immediately followed by the chain merkle root.
	ErrAuxPoWHeaderNotBeforeRoot = newRuleError("ErrAuxPoWHeaderNotBeforeRoot")

	// ErrAuxPoWRootTooLate indicates a chain merkle root without a merged
	// mining header that doesn't start in the first 20 bytes of the script.
	ErrAuxPoWRootTooLate = newRuleError("ErrAuxPoWRootTooLate")

	// ErrAuxPoWMissingSizeNonce indicates the chain merkle tree size and
	// nonce are missing after the chain merkle root.
	ErrAuxPoWMissingSizeNonce = newRuleError("ErrAuxPoWMissingSizeNonce")

	// ErrAuxPoWBranchSizeMismatch indicates the committed chain merkle tree
	// size doesn't match the length of the chain merkle branch.
	ErrAuxPoWBranchSizeMismatch = newRuleError("ErrAuxPoWBranchSizeMismatch")

	// ErrAuxPoWWrongIndex indicates the chain merkle branch side mask is not
	// the slot derived from the committed nonce and the chain id.
	ErrAuxPoWWrongIndex = newRuleError("ErrAuxPoWWrongIndex")

	// ErrMissingAuxPoW indicates a block whose version announces merged
	// mining but which carries no AuxPoW.
	ErrMissingAuxPoW = newRuleError("ErrMissingAuxPoW")

	// ErrUnexpectedAuxPoW indicates a block carrying an AuxPoW although its
	// version does not announce merged mining.
	ErrUnexpectedAuxPoW = newRuleError("ErrUnexpectedAuxPoW")

	// ErrWrongChainID indicates a merged mined block whose version carries
	// another chain's ID on a network enforcing chain IDs.
	ErrWrongChainID = newRuleError("ErrWrongChainID")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block, header or proof failed due to one of the many
// validation rules. The caller can use errors.Is or errors.As to determine
// if a failure was specifically due to a rule violation.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}

// IsRuleError returns whether err is, or wraps, a RuleError.
func IsRuleError(err error) bool {
	var ruleErr RuleError
	return errors.As(err, &ruleErr)
}
