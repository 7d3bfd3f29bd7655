package state

import (
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

// QueryHeight returns the number of blocks in the chain including the
// genesis block.
func (s *State) QueryHeight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Height()
}

// QueryPendingPoolLength returns the number of transactions waiting to
// be mined.
func (s *State) QueryPendingPoolLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mempool.Count()
}

// QueryBlocksByAccount returns the blocks carrying a transaction either
// from or to the specified account. An empty account returns the whole
// chain.
func (s *State) QueryBlocksByAccount(account ledger.Address) []ledger.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var blocks []ledger.Block

	for _, block := range s.ledger.Blocks() {
		if account == "" {
			blocks = append(blocks, block)
			continue
		}

		for _, tx := range block.Trans {
			if tx.From == account || tx.To == account {
				blocks = append(blocks, block)
				break
			}
		}
	}

	return blocks
}
