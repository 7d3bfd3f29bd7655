// Package archive defines the storage contract for keeping accepted blocks
// outside the running chain so a node can reload its history on restart.
package archive

import (
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

// Archiver interface represents the behavior required to be implemented by
// any package providing support for storing and reading archived blocks.
// Blocks are archived in the order they are accepted, starting with
// sequence number 1.
type Archiver interface {
	Write(blockData ledger.BlockData) error
	GetBlock(num uint64) (ledger.BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the archived blocks.
type Iterator interface {
	Next() (ledger.BlockData, error)
	Done() bool
}

// ReadAll walks the archive from the first block and returns every block
// in acceptance order.
func ReadAll(a Archiver) ([]ledger.BlockData, error) {
	var blocks []ledger.BlockData

	iter := a.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, blockData)
	}

	return blocks, nil
}
