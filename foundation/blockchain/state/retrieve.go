package state

import (
	"github.com/hashforge/blockchain/foundation/blockchain/genesis"
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

// RetrieveGenesis returns a copy of the chain settings.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns the block at the head of the chain.
func (s *State) RetrieveLatestBlock() ledger.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.LatestBlock()
}

// RetrieveBlocks returns a copy of the chain from the genesis block to
// the head.
func (s *State) RetrieveBlocks() []ledger.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ledger.Blocks()
}

// RetrievePendingPool returns a copy of the transactions waiting to be
// mined, in submission order.
func (s *State) RetrievePendingPool() []ledger.Tx {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.mempool.Copy()
}
