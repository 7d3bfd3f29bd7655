// Package bolt implements block archival inside a single bbolt database
// file. Blocks are keyed by their big endian sequence number so a cursor
// walks them in acceptance order.
package bolt

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	"go.etcd.io/bbolt"

	"github.com/hashforge/blockchain/foundation/blockchain/archive"
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

var bucketBlocks = []byte("blocks")

// ErrNotExist is returned when the requested block is not in the archive.
var ErrNotExist = errors.New("block does not exist")

// Bolt represents the archival implementation for reading and storing
// blocks in a bbolt database. This implements the archive.Archiver
// interface.
type Bolt struct {
	db *bbolt.DB
}

// New opens or creates the database file at the specified path and makes
// sure the blocks bucket exists.
func New(dbPath string) (*Bolt, error) {
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketBlocks)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Bolt{db: db}, nil
}

// Close releases the underlying database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

// Write stores the specified block under the next sequence number.
func (b *Bolt) Write(blockData ledger.BlockData) error {
	data, err := json.Marshal(blockData)
	if err != nil {
		return err
	}

	return b.db.Update(func(tx *bbolt.Tx) error {
		bkt := tx.Bucket(bucketBlocks)

		seq, err := bkt.NextSequence()
		if err != nil {
			return err
		}

		return bkt.Put(itob(seq), data)
	})
}

// GetBlock locates and returns the contents of the specified block by
// sequence number.
func (b *Bolt) GetBlock(num uint64) (ledger.BlockData, error) {
	var blockData ledger.BlockData

	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketBlocks).Get(itob(num))
		if data == nil {
			return ErrNotExist
		}

		return json.Unmarshal(data, &blockData)
	})
	if err != nil {
		return ledger.BlockData{}, err
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with sequence number 1.
func (b *Bolt) ForEach() archive.Iterator {
	return &boltIterator{bolt: b}
}

// Reset drops every archived block and starts the sequence over.
func (b *Bolt) Reset() error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketBlocks); err != nil {
			return err
		}

		_, err := tx.CreateBucket(bucketBlocks)
		return err
	})
}

// itob converts a sequence number into its big endian key form.
func itob(v uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, v)
	return key
}

// =============================================================================

// boltIterator represents the iteration implementation for walking through
// and reading blocks in the database. This implements the archive.Iterator
// interface.
type boltIterator struct {
	bolt    *Bolt  // Access to the bolt storage API.
	current uint64 // Current block number being iterated over.
	eoc     bool   // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from the database.
func (bi *boltIterator) Next() (ledger.BlockData, error) {
	if bi.eoc {
		return ledger.BlockData{}, errors.New("end of chain")
	}

	bi.current++
	blockData, err := bi.bolt.GetBlock(bi.current)
	if errors.Is(err, ErrNotExist) {
		bi.eoc = true
	}

	return blockData, err
}

// Done returns the end of chain value.
func (bi *boltIterator) Done() bool {
	return bi.eoc
}
