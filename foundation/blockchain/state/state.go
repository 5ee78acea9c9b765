// Package state is the core API for the blockchain node and implements
// all the business rules and processing.
package state

import (
	"sync"

	"github.com/tipchune/tipchune/foundation/blockchain/database"
	"github.com/tipchune/tipchune/foundation/blockchain/genesis"
	"github.com/tipchune/tipchune/foundation/blockchain/mempool"
	"github.com/tipchune/tipchune/foundation/blockchain/signature"
)

// EventHandler defines a function that is called when events occur in
// the processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the node.
type Config struct {
	BeneficiaryID signature.Address
	Genesis       genesis.Genesis
	EvHandler     EventHandler
}

// State manages the ledger, the mempool, and the block assembly policy.
// Mutations are serialized through a single mutex so at most one queue
// or push operation is in flight at a time.
type State struct {
	mu sync.Mutex

	beneficiaryID signature.Address
	evHandler     EventHandler

	genesis genesis.Genesis
	mempool *mempool.Mempool
	db      *database.Database
}

// New constructs a new state for ledger management.
func New(cfg Config) (*State, error) {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	g := cfg.Genesis
	if g.TransPerBlock == 0 {
		g.TransPerBlock = genesis.DefaultTransPerBlock
	}

	db, err := database.New(g, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		beneficiaryID: cfg.BeneficiaryID,
		evHandler:     ev,

		genesis: g,
		mempool: mempool.New(),
		db:      db,
	}

	return &state, nil
}

// =============================================================================

// LatestBlockHash returns the digest of the trusted tip.
func (s *State) LatestBlockHash() signature.Digest {
	return s.db.LatestBlockHash()
}

// MaxHeight returns the height of the trusted tip.
func (s *State) MaxHeight() uint64 {
	return s.db.MaxHeight()
}

// Genesis returns the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// GenesisBlock returns the distinguished root block.
func (s *State) GenesisBlock() database.Block {
	return s.db.GenesisBlock()
}

// Mempool returns a copy of the pending transactions.
func (s *State) Mempool() []database.Transaction {
	return s.mempool.Copy()
}

// MempoolLength returns the number of pending transactions.
func (s *State) MempoolLength() int {
	return s.mempool.Count()
}

// QueryBlockDesc returns the descriptor of an accepted block along with
// its height.
func (s *State) QueryBlockDesc(blockHash signature.Digest) (database.BlockDesc, uint64, bool) {
	desc, exists := s.db.GetBlockDesc(blockHash)
	if !exists {
		return database.BlockDesc{}, 0, false
	}

	height, _ := s.db.Height(blockHash)
	return desc, height, true
}

// QueryTransaction returns a committed transaction by digest.
func (s *State) QueryTransaction(txDigest signature.Digest) (database.Transaction, bool) {
	return s.db.GetTransaction(txDigest)
}
