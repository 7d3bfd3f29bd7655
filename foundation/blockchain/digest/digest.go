// Package digest provides the hashing support used to seal blocks and
// link them into a chain.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0000000000000000000000000000000000000000000000000000000000000000"

// Hash returns a unique string for the value. The value is serialized to
// JSON first so the digest is stable across process runs.
func Hash(value any) string {
	data, err := json.Marshal(value)
	if err != nil {
		return ZeroHash
	}

	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
