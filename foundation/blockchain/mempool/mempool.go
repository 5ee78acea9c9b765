// Package mempool maintains the pool of submitted but not yet committed
// transactions awaiting block assembly.
package mempool

import (
	"sync"

	"github.com/tipchune/tipchune/foundation/blockchain/database"
)

// Mempool represents the pending transactions in submission order.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Transaction
}

// New constructs a new mempool.
func New() *Mempool {
	return &Mempool{}
}

// Append adds a transaction to the end of the pool and returns the new
// pool length.
func (mp *Mempool) Append(tx database.Transaction) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)
	return len(mp.pool)
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Copy returns a copy of the pending transactions in submission order.
func (mp *Mempool) Copy() []database.Transaction {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Transaction, len(mp.pool))
	copy(trans, mp.pool)
	return trans
}

// Drain removes and returns every pending transaction, preserving
// submission order.
func (mp *Mempool) Drain() []database.Transaction {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trans := mp.pool
	mp.pool = nil
	return trans
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
