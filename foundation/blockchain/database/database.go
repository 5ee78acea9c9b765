// Package database maintains the ledger: the content addressed tree of
// accepted blocks and transactions, the height index, and the rules a
// candidate block must satisfy before it is committed.
package database

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/tipchune/tipchune/foundation/blockchain/genesis"
	"github.com/tipchune/tipchune/foundation/blockchain/signature"
)

// Database owns every accepted block and transaction. Blocks form a tree
// keyed by digest; the trusted tip is the first accepted block at the
// greatest height.
type Database struct {
	mu sync.RWMutex

	genesis      genesis.Genesis
	genesisBlock Block

	transactions map[signature.Digest]Transaction
	blocks       map[signature.Digest]BlockDesc
	heights      map[signature.Digest]uint64

	maxHeight       uint64
	latestBlockHash signature.Digest
	difficulty      uint

	evHandler func(v string, args ...any)
}

// New constructs the ledger seeded with the genesis block at height
// zero. The genesis block is the distinguished root of the tree and is
// exempt from verification.
func New(g genesis.Genesis, evHandler func(v string, args ...any)) (*Database, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	genesisBlock, err := NewGenesisBlock(g)
	if err != nil {
		return nil, err
	}

	genesisHash, err := genesisBlock.Hash()
	if err != nil {
		return nil, err
	}

	db := Database{
		genesis:      g,
		genesisBlock: genesisBlock,
		transactions: make(map[signature.Digest]Transaction),
		blocks:       make(map[signature.Digest]BlockDesc),
		heights:      make(map[signature.Digest]uint64),

		maxHeight:       0,
		latestBlockHash: genesisHash,
		difficulty:      g.Difficulty,

		evHandler: ev,
	}

	db.blocks[genesisHash] = genesisBlock.Desc
	db.heights[genesisHash] = 0

	for _, tx := range genesisBlock.Body.Transactions {
		digest, err := tx.Hash()
		if err != nil {
			return nil, err
		}
		db.transactions[digest] = tx
	}

	ev("database: New: genesis block [%s] seeded at height 0", genesisHash)

	return &db, nil
}

// NewGenesisBlock deterministically builds the root block for the
// specified genesis. It carries a single seed transaction with zero
// inputs and one output per genesis balance, ordered by address so every
// node derives the same digest.
func NewGenesisBlock(g genesis.Genesis) (Block, error) {
	addresses := make([]string, 0, len(g.Balances))
	for addr := range g.Balances {
		addresses = append(addresses, addr)
	}
	sort.Strings(addresses)

	outputs := make([]TxOut, 0, len(addresses))
	for _, addr := range addresses {
		address, err := signature.ToAddress(addr)
		if err != nil {
			return Block{}, fmt.Errorf("genesis balance: %w", err)
		}
		outputs = append(outputs, TxOut{Address: address, Amount: g.Balances[addr]})
	}

	seed := Transaction{
		Outputs: outputs,
	}

	return NewBlock([]Transaction{seed}, signature.ZeroDigest), nil
}

// =============================================================================

// Verify checks the candidate block against every acceptance rule: proof
// of work, source resolution, ownership, signatures, per transaction and
// block wide balance, and base transaction shape. It is a pure function
// of ledger state plus the candidate and never mutates the ledger.
func (db *Database) Verify(block Block) error {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.verify(block)
}

// verify implements the acceptance rules. Callers must hold at least a
// read lock.
func (db *Database) verify(block Block) error {
	blockHash, err := block.Hash()
	if err != nil {
		return err
	}

	if !IsHashSolved(db.difficulty, blockHash) {
		return fmt.Errorf("%w: block[%s] difficulty[%d]", ErrInsufficientWork, blockHash, db.difficulty)
	}

	db.evHandler("database: verify: block[%s]: pow solved at difficulty[%d]", blockHash, db.difficulty)

	// Outputs created inside this block can be spent by later inputs in
	// the same block, so index the candidate's transactions first.
	local := make(map[signature.Digest]Transaction, len(block.Body.Transactions))
	for _, tx := range block.Body.Transactions {
		digest, err := tx.Hash()
		if err != nil {
			return err
		}
		local[digest] = tx
	}

	var blockInputAmount uint64
	var blockOutputAmount uint64

	for i, tx := range block.Body.Transactions {
		var txInputAmount uint64
		for _, input := range tx.Inputs {
			source, err := input.findSource(local, db.transactions)
			if err != nil {
				return err
			}

			keyHash, err := input.PublicKey.Hash()
			if err != nil {
				return err
			}
			if signature.Address(keyHash) != source.Address {
				return fmt.Errorf("%w: tx[%d] key[%s] address[%s]", ErrOwnershipMismatch, i, keyHash, source.Address)
			}

			fingerprint, err := input.Fingerprint()
			if err != nil {
				return err
			}
			if err := input.PublicKey.Verify(fingerprint, input.Signature); err != nil {
				return fmt.Errorf("%w: tx[%d]: %s", ErrInvalidSignature, i, err)
			}

			txInputAmount += source.Amount
		}

		var txOutputAmount uint64
		for _, output := range tx.Outputs {
			txOutputAmount += output.Amount
		}

		// Only the base transaction may generate new value inside the
		// block; that value is balanced by the fees of the others.
		if i != 0 && txOutputAmount > txInputAmount {
			return fmt.Errorf("%w: tx[%d] in[%d] out[%d]", ErrUnbalancedTransaction, i, txInputAmount, txOutputAmount)
		}

		blockInputAmount += txInputAmount
		blockOutputAmount += txOutputAmount
	}

	if blockInputAmount != blockOutputAmount {
		return fmt.Errorf("%w: in[%d] out[%d]", ErrUnbalancedBlock, blockInputAmount, blockOutputAmount)
	}

	base, err := block.BaseTransaction()
	if err != nil {
		return err
	}
	if len(base.Inputs) != 0 || len(base.Outputs) != 1 {
		return fmt.Errorf("%w: in[%d] out[%d]", ErrMalformedBaseTransaction, len(base.Inputs), len(base.Outputs))
	}

	return nil
}

// Write verifies the candidate block and, on success, commits it: the
// block joins the tree one above its parent and its transactions become
// part of committed history. The tip advances only when the new height
// is strictly greater than the current maximum, so an equal height
// competitor never displaces the block that arrived first. On any
// failure the ledger is left unchanged.
func (db *Database) Write(block Block) (BlockBody, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.verify(block); err != nil {
		return BlockBody{}, err
	}

	blockHash, err := block.Hash()
	if err != nil {
		return BlockBody{}, err
	}

	parentHeight, exists := db.heights[block.Desc.ParentHash]
	if !exists {
		return BlockBody{}, fmt.Errorf("%w: parent[%s]", ErrUnknownParent, block.Desc.ParentHash)
	}
	if parentHeight == math.MaxUint64 {
		return BlockBody{}, ErrHeightOverflow
	}
	height := parentHeight + 1

	// Hash every transaction before touching any map so a hashing
	// failure can't leave a partial commit behind.
	digests := make([]signature.Digest, len(block.Body.Transactions))
	for i, tx := range block.Body.Transactions {
		digest, err := tx.Hash()
		if err != nil {
			return BlockBody{}, err
		}
		digests[i] = digest
	}

	db.heights[blockHash] = height
	db.blocks[blockHash] = block.Desc
	for i, tx := range block.Body.Transactions {
		db.transactions[digests[i]] = tx
	}

	if height > db.maxHeight {
		db.maxHeight = height
		db.latestBlockHash = blockHash
		db.evHandler("database: Write: block[%s]: new tip at height[%d]", blockHash, height)
	} else {
		db.evHandler("database: Write: block[%s]: accepted at height[%d], tip unchanged", blockHash, height)
	}

	return block.Body, nil
}

// Fees returns the value a batch of pending transactions leaves on the
// table: resolved input total minus output total. That surplus finances
// the base transaction of the block being assembled. Spends between
// transactions of the batch are resolved the same way Verify resolves
// them.
func (db *Database) Fees(trans []Transaction) (uint64, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	local := make(map[signature.Digest]Transaction, len(trans))
	for _, tx := range trans {
		digest, err := tx.Hash()
		if err != nil {
			return 0, err
		}
		local[digest] = tx
	}

	var fees uint64
	for i, tx := range trans {
		var inputAmount uint64
		for _, input := range tx.Inputs {
			source, err := input.findSource(local, db.transactions)
			if err != nil {
				return 0, err
			}
			inputAmount += source.Amount
		}

		var outputAmount uint64
		for _, output := range tx.Outputs {
			outputAmount += output.Amount
		}

		if outputAmount > inputAmount {
			return 0, fmt.Errorf("%w: tx[%d] in[%d] out[%d]", ErrUnbalancedTransaction, i, inputAmount, outputAmount)
		}

		fees += inputAmount - outputAmount
	}

	return fees, nil
}

// =============================================================================

// LatestBlockHash returns the digest of the trusted tip. New blocks are
// assembled against this digest.
func (db *Database) LatestBlockHash() signature.Digest {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlockHash
}

// MaxHeight returns the height of the trusted tip.
func (db *Database) MaxHeight() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.maxHeight
}

// Height returns the height of the specified block if it was accepted.
func (db *Database) Height(blockHash signature.Digest) (uint64, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	height, exists := db.heights[blockHash]
	return height, exists
}

// GetBlockDesc returns the descriptor of the specified block if it was
// accepted.
func (db *Database) GetBlockDesc(blockHash signature.Digest) (BlockDesc, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	desc, exists := db.blocks[blockHash]
	return desc, exists
}

// GetTransaction returns the committed transaction with the specified
// digest.
func (db *Database) GetTransaction(txDigest signature.Digest) (Transaction, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	tx, exists := db.transactions[txDigest]
	return tx, exists
}

// Difficulty returns the configured proof of work difficulty.
func (db *Database) Difficulty() uint {
	return db.difficulty
}

// Genesis returns the genesis information the ledger was seeded with.
func (db *Database) Genesis() genesis.Genesis {
	return db.genesis
}

// GenesisBlock returns the distinguished root block.
func (db *Database) GenesisBlock() Block {
	return db.genesisBlock
}
