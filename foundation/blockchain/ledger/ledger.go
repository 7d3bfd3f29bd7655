// Package ledger maintains the append-only chain of blocks along with the
// consensus rules for extending it.
package ledger

import (
	"fmt"
	"sync"
)

// Ledger manages the sequence of blocks that forms the chain. Blocks are
// append-only: once written, a block is never replaced or removed.
type Ledger struct {
	mu         sync.RWMutex
	difficulty int
	blocks     []Block
	ev         func(v string, args ...any)
}

// New constructs a ledger seeded with the specified genesis block, then
// replays any previously archived blocks into the chain. Every replayed
// block goes through the same validation as a freshly mined one.
func New(genesisBlock Block, difficulty int, archived []BlockData, ev func(v string, args ...any)) (*Ledger, error) {
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	l := Ledger{
		difficulty: difficulty,
		blocks:     []Block{genesisBlock},
		ev:         ev,
	}

	for _, blockData := range archived {
		block, err := ToBlock(blockData)
		if err != nil {
			return nil, fmt.Errorf("replaying archived block: %w", err)
		}

		if err := l.Write(block); err != nil {
			return nil, fmt.Errorf("replaying archived block: %w", err)
		}
	}

	return &l, nil
}

// Write validates the block against the current head of the chain and
// appends it.
func (l *Ledger) Write(block Block) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	latest := l.blocks[len(l.blocks)-1]
	if err := block.ValidateBlock(latest, l.difficulty, l.ev); err != nil {
		return err
	}

	l.blocks = append(l.blocks, block)
	return nil
}

// LatestBlock returns the block at the head of the chain. The genesis
// block guarantees the chain is never empty.
func (l *Ledger) LatestBlock() Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.blocks[len(l.blocks)-1]
}

// Height returns the number of blocks in the chain including genesis.
func (l *Ledger) Height() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.blocks)
}

// GetBlock returns the block at the specified position in the chain, with
// the genesis block at position 0.
func (l *Ledger) GetBlock(i int) (Block, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= len(l.blocks) {
		return Block{}, fmt.Errorf("block %d out of range, chain height %d", i, len(l.blocks))
	}

	return l.blocks[i], nil
}

// Blocks returns a copy of the chain from the genesis block forward.
func (l *Ledger) Blocks() []Block {
	l.mu.RLock()
	defer l.mu.RUnlock()

	blocks := make([]Block, len(l.blocks))
	copy(blocks, l.blocks)

	return blocks
}

// Difficulty returns the number of leading zero characters a block hash
// must carry to be accepted.
func (l *Ledger) Difficulty() int {
	return l.difficulty
}
