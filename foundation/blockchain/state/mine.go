package state

import (
	"context"
	"errors"
	"time"

	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

// ErrNoTransactions is returned when a block is requested to be created
// and there are no transactions in the pool.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// MineNewBlock attempts to create a new block with a proper hash that can
// become the next block in the chain. An empty beneficiary mines for the
// account the chain was configured with.
func (s *State) MineNewBlock(ctx context.Context, beneficiary ledger.Address) (ledger.Block, error) {

	// Only one mining operation is allowed in flight at a time.
	s.mineMu.Lock()
	defer s.mineMu.Unlock()

	if beneficiary == "" {
		beneficiary = s.beneficiary
	}

	s.evHandler("state: MineNewBlock: MINING: check mempool count")

	// Are there any transactions in the pool.
	if s.mempool.Count() == 0 {
		return ledger.Block{}, ErrNoTransactions
	}

	s.evHandler("state: MineNewBlock: MINING: perform POW")

	// Snapshot the pool and the clock. Transactions submitted from here
	// on will be mined into a later block.
	trans := s.mempool.Copy()
	timeStamp := uint64(time.Now().UTC().Unix())

	// Attempt to create a new block by solving the POW puzzle. This can
	// be cancelled.
	block, err := ledger.POW(ctx, ledger.POWArgs{
		Difficulty: s.genesis.Difficulty,
		PrevBlock:  s.ledger.LatestBlock(),
		TimeStamp:  timeStamp,
		Trans:      trans,
		EvHandler:  s.evHandler,
	})
	if err != nil {
		return ledger.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return ledger.Block{}, ctx.Err()
	}

	s.evHandler("state: MineNewBlock: MINING: commit block and reseed pool")

	if err := s.commitBlock(block, len(trans), beneficiary); err != nil {
		return ledger.Block{}, err
	}

	// Let the application archive or broadcast the accepted block.
	s.acceptHandler(ledger.NewBlockData(block))

	return block, nil
}

// =============================================================================

// commitBlock appends the block to the chain and reseeds the pending pool
// with the mining reward. Both changes land under the same lock so readers
// never observe one without the other.
func (s *State) commitBlock(block ledger.Block, mined int, beneficiary ledger.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: commitBlock: write block to the chain")

	if err := s.ledger.Write(block); err != nil {
		return err
	}

	s.evHandler("state: commitBlock: reseed pool with reward: beneficiary[%s]", beneficiary)

	reward := ledger.NewSystemTx(beneficiary, s.genesis.MiningReward)
	s.mempool.Reseed(mined, reward)

	return nil
}
