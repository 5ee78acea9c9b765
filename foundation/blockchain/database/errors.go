package database

import "errors"

// Set of errors the verification and acceptance rules can reject a
// transaction or block with. Callers use errors.Is to distinguish them.
var (
	// ErrInsufficientWork is returned when a block's digest does not
	// satisfy the proof of work predicate for the configured difficulty.
	ErrInsufficientWork = errors.New("block does not meet difficulty of pow")

	// ErrDanglingReference is returned when a transaction input refers to
	// an output that exists neither in the candidate block nor in the
	// committed ledger.
	ErrDanglingReference = errors.New("transaction output referred in transaction input not found")

	// ErrOwnershipMismatch is returned when the hash of an input's public
	// key does not match the address of the output being spent.
	ErrOwnershipMismatch = errors.New("public key of input does not match address of output")

	// ErrInvalidSignature is returned when an input's signature does not
	// verify against its own fingerprint.
	ErrInvalidSignature = errors.New("signature of input does not verify")

	// ErrUnbalancedTransaction is returned when a non-base transaction
	// produces more value than it consumes.
	ErrUnbalancedTransaction = errors.New("output amount of transaction exceeded input amount")

	// ErrUnbalancedBlock is returned when the block wide input and output
	// totals are not equal.
	ErrUnbalancedBlock = errors.New("input and output amounts of block are not balanced")

	// ErrMalformedBaseTransaction is returned when the first transaction
	// of a block does not have zero inputs and exactly one output.
	ErrMalformedBaseTransaction = errors.New("number of inputs and outputs of base transaction is incorrect")

	// ErrUnknownParent is returned when a block names a parent that was
	// never accepted into the ledger.
	ErrUnknownParent = errors.New("parent hash not found in block heights")

	// ErrHeightOverflow is returned when the height counter can't be
	// advanced. Practically unreachable.
	ErrHeightOverflow = errors.New("block height overflowed")
)
