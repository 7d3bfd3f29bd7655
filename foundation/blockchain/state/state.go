// Package state is the core API for the chain and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/hashforge/blockchain/foundation/blockchain/genesis"
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
	"github.com/hashforge/blockchain/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events occur in the
// processing of mining and accepting blocks.
type EventHandler func(v string, args ...any)

// AcceptHandler defines a function that is called every time the chain
// accepts a newly mined block. It gives the application a chance to
// archive or broadcast the block. The chain itself never persists
// anything.
type AcceptHandler func(blockData ledger.BlockData)

// Worker interface represents the behavior required to be implemented by
// any package providing support for mining.
type Worker interface {
	Shutdown()
	SignalStartMining(beneficiary ledger.Address)
	SignalCancelMining() (done func())
}

// =============================================================================

// Config represents the configuration required to start the chain.
type Config struct {
	Beneficiary   ledger.Address
	Genesis       genesis.Genesis
	Archived      []ledger.BlockData
	EvHandler     EventHandler
	AcceptHandler AcceptHandler
}

// State manages the state of the chain: the ledger of mined blocks and
// the pool of transactions waiting to be mined.
type State struct {

	// mu guards the commit of a mined block so readers never observe the
	// chain extended without the pool reseeded, or the other way around.
	mu sync.RWMutex

	// mineMu allows only one mining operation in flight per chain.
	mineMu sync.Mutex

	beneficiary   ledger.Address
	evHandler     EventHandler
	acceptHandler AcceptHandler

	genesis genesis.Genesis
	ledger  *ledger.Ledger
	mempool *mempool.Mempool

	Worker Worker
}

// New constructs the chain from its genesis settings, replaying any
// archived blocks back into the ledger.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// Build a safe accept handler function for use.
	accept := func(blockData ledger.BlockData) {
		if cfg.AcceptHandler != nil {
			cfg.AcceptHandler(blockData)
		}
	}

	// Block zero exists from the moment the chain is constructed.
	genesisBlock := ledger.NewGenesisBlock(ledger.Address(cfg.Genesis.Label), uint64(cfg.Genesis.Date.Unix()))

	l, err := ledger.New(genesisBlock, cfg.Genesis.Difficulty, cfg.Archived, ev)
	if err != nil {
		return nil, err
	}

	state := State{
		beneficiary:   cfg.Beneficiary,
		evHandler:     ev,
		acceptHandler: accept,
		genesis:       cfg.Genesis,
		ledger:        l,
		mempool:       mempool.New(),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the chain down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all mining activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
