// Package mempool maintains the pool of transactions waiting to be mined
// into a block. Submission order is preserved: transactions are mined in
// the order they arrive.
package mempool

import (
	"sync"

	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

// Mempool represents the pool of pending transactions. It is safe for
// concurrent use.
type Mempool struct {
	mu   sync.RWMutex
	pool []ledger.Tx
}

// New constructs a new mempool to manage pending transactions.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds the specified transaction to the end of the pool.
func (mp *Mempool) Append(tx ledger.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)
}

// Copy returns a snapshot of the pool in submission order.
func (mp *Mempool) Copy() []ledger.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	pool := make([]ledger.Tx, len(mp.pool))
	copy(pool, mp.pool)

	return pool
}

// Reseed drops the mined transactions from the front of the pool and seeds
// the pool with the reward transaction. Transactions that arrived while
// mining was in flight stay queued behind the reward. The mined count must
// come from a snapshot taken with Copy. The pool only ever grows at the
// tail, so the first mined entries are exactly that snapshot.
func (mp *Mempool) Reseed(mined int, reward ledger.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mined > len(mp.pool) {
		mined = len(mp.pool)
	}

	pool := make([]ledger.Tx, 0, len(mp.pool)-mined+1)
	pool = append(pool, reward)
	pool = append(pool, mp.pool[mined:]...)

	mp.pool = pool
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
