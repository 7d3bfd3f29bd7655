// Package genesis maintains access to the chain settings that are fixed
// when the chain is constructed.
package genesis

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// Genesis represents the fixed settings of a chain. These values never
// change for the life of the ledger.
type Genesis struct {
	Date         time.Time `json:"date"`
	Label        string    `json:"label"`        // Receiver named on the genesis block transaction.
	Difficulty   int       `json:"difficulty"`   // Number of leading zero characters a block hash must carry.
	MiningReward uint64    `json:"miningReward"` // Value awarded for mining a block.
}

// Default returns the built-in chain settings used when no genesis file
// exists on disk.
func Default() Genesis {
	return Genesis{
		Date:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		Label:        "genesis",
		Difficulty:   4,
		MiningReward: 100,
	}
}

// Load opens and consumes the genesis file at the specified path. A
// missing file is not an error: the default settings are returned so a
// fresh node can start without any setup.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
