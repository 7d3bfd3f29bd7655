// Package memory implements block archival in memory using a slice. It
// exists for tests and for running a node with no persistence at all.
package memory

import (
	"errors"
	"sync"

	"github.com/hashforge/blockchain/foundation/blockchain/archive"
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

// Memory represents the archival implementation for reading and storing
// blocks in memory. This implements the archive.Archiver interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []ledger.BlockData
}

// New constructs a Memory value for use.
func New() (*Memory, error) {
	return &Memory{}, nil
}

// Close in this implementation has nothing to do since everything is in
// memory.
func (m *Memory) Close() error {
	return nil
}

// Write appends the specified block to the archive.
func (m *Memory) Write(blockData ledger.BlockData) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = append(m.blocks, blockData)
	return nil
}

// GetBlock locates and returns the contents of the specified block by
// sequence number.
func (m *Memory) GetBlock(num uint64) (ledger.BlockData, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if num == 0 || num > uint64(len(m.blocks)) {
		return ledger.BlockData{}, errors.New("block does not exist")
	}

	return m.blocks[num-1], nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with sequence number 1.
func (m *Memory) ForEach() archive.Iterator {
	return &memoryIterator{storage: m}
}

// Reset clears out the archived blocks.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil
	return nil
}

// =============================================================================

// memoryIterator represents the iteration implementation for walking
// through and reading blocks in memory. This implements the
// archive.Iterator interface.
type memoryIterator struct {
	storage *Memory // Access to the storage API.
	current uint64  // Current block number being iterated over.
	eoc     bool    // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from the archive.
func (mi *memoryIterator) Next() (ledger.BlockData, error) {
	if mi.eoc {
		return ledger.BlockData{}, errors.New("end of chain")
	}

	mi.current++
	blockData, err := mi.storage.GetBlock(mi.current)
	if err != nil {
		mi.eoc = true
	}

	return blockData, err
}

// Done returns the end of chain value.
func (mi *memoryIterator) Done() bool {
	return mi.eoc
}
