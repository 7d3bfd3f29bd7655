// Package disk implements block archival with one JSON file per block on
// disk so the history stays human readable.
package disk

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"
	"sync"

	"github.com/hashforge/blockchain/foundation/blockchain/archive"
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

// Disk represents the archival implementation for reading and storing
// blocks in their own separate files on disk. This implements the
// archive.Archiver interface.
type Disk struct {
	mu       sync.Mutex
	archPath string
	latest   uint64
}

// New constructs a Disk value for use, creating the archive directory if
// it doesn't exist yet and picking up the sequence where it left off.
func New(archPath string) (*Disk, error) {
	if err := os.MkdirAll(archPath, 0755); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(archPath)
	if err != nil {
		return nil, err
	}

	// Files are named by sequence number with no gaps, so the number of
	// entries is the latest sequence.
	var latest uint64
	for _, entry := range entries {
		if !entry.IsDir() && path.Ext(entry.Name()) == ".json" {
			latest++
		}
	}

	return &Disk{archPath: archPath, latest: latest}, nil
}

// Close in this implementation has nothing to do since a new file is
// written to disk for each new block and then immediately closed.
func (d *Disk) Close() error {
	return nil
}

// Write stores the specified block on disk in a file labeled with the
// next sequence number.
func (d *Disk) Write(blockData ledger.BlockData) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Marshal the block for writing to disk in a more human readable format.
	data, err := json.MarshalIndent(blockData, "", "  ")
	if err != nil {
		return err
	}

	f, err := os.OpenFile(d.getPath(d.latest+1), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return err
	}

	d.latest++
	return nil
}

// GetBlock searches the archive on disk to locate and return the contents
// of the specified block by sequence number.
func (d *Disk) GetBlock(num uint64) (ledger.BlockData, error) {
	f, err := os.OpenFile(d.getPath(num), os.O_RDONLY, 0600)
	if err != nil {
		return ledger.BlockData{}, err
	}
	defer f.Close()

	var blockData ledger.BlockData
	if err := json.NewDecoder(f).Decode(&blockData); err != nil {
		return ledger.BlockData{}, err
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with sequence number 1.
func (d *Disk) ForEach() archive.Iterator {
	return &DiskIterator{disk: d}
}

// Reset clears out the archived blocks on disk.
func (d *Disk) Reset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.RemoveAll(d.archPath); err != nil {
		return err
	}
	if err := os.MkdirAll(d.archPath, 0755); err != nil {
		return err
	}

	d.latest = 0
	return nil
}

// getPath forms the path to the specified block.
func (d *Disk) getPath(blockNum uint64) string {
	name := strconv.FormatUint(blockNum, 10)
	return path.Join(d.archPath, fmt.Sprintf("%s.json", name))
}

// =============================================================================

// DiskIterator represents the iteration implementation for walking through
// and reading blocks on disk. This implements the archive.Iterator
// interface.
type DiskIterator struct {
	disk    *Disk  // Access to the disk storage API.
	current uint64 // Current block number being iterated over.
	eoc     bool   // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from disk.
func (di *DiskIterator) Next() (ledger.BlockData, error) {
	if di.eoc {
		return ledger.BlockData{}, errors.New("end of chain")
	}

	di.current++
	blockData, err := di.disk.GetBlock(di.current)
	if errors.Is(err, fs.ErrNotExist) {
		di.eoc = true
	}

	return blockData, err
}

// Done returns the end of chain value.
func (di *DiskIterator) Done() bool {
	return di.eoc
}
