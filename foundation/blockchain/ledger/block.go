package ledger

import (
	"context"
	"fmt"

	"github.com/hashforge/blockchain/foundation/blockchain/digest"
)

// BlockHeader represents the information that seals a block to its
// predecessor in the chain.
type BlockHeader struct {
	PrevBlockHash string `json:"previousHash"` // Hash of the previous block in the chain.
	TimeStamp     uint64 `json:"timestamp"`    // Time the block was constructed.
	Nonce         uint64 `json:"nonce"`        // Value identified to solve the hash solution.
}

// Block represents a group of transactions bundled together with a hash
// that satisfies the difficulty rules of the chain. The hash is cached and
// recomputed every time the nonce advances, so it can never go stale.
type Block struct {
	Header BlockHeader
	Trans  []Tx

	hash string
}

// blockSeal is the exact set of fields fed to the digest function. The
// transaction order is significant: reordering transactions produces a
// different hash.
type blockSeal struct {
	PrevBlockHash string `json:"previousHash"`
	TimeStamp     uint64 `json:"timestamp"`
	Trans         []Tx   `json:"transactions"`
	Nonce         uint64 `json:"nonce"`
}

// newBlock constructs a block from the specified fields with the nonce
// starting at zero. The block owns its own copy of the transactions.
func newBlock(prevBlockHash string, timeStamp uint64, trans []Tx) Block {
	b := Block{
		Header: BlockHeader{
			PrevBlockHash: prevBlockHash,
			TimeStamp:     timeStamp,
		},
		Trans: append([]Tx(nil), trans...),
	}
	b.hash = b.computeHash()

	return b
}

// NewGenesisBlock constructs block zero of a chain. It carries a single
// chain issued transaction of no value naming the chain and links back to
// the zero hash.
func NewGenesisBlock(label Address, timeStamp uint64) Block {
	return newBlock(digest.ZeroHash, timeStamp, []Tx{NewSystemTx(label, 0)})
}

// Hash returns the sealed digest for the block.
func (b Block) Hash() string {
	return b.hash
}

// computeHash produces the digest over the canonical serialization of the
// block contents.
func (b Block) computeHash() string {
	return digest.Hash(blockSeal{
		PrevBlockHash: b.Header.PrevBlockHash,
		TimeStamp:     b.Header.TimeStamp,
		Trans:         b.Trans,
		Nonce:         b.Header.Nonce,
	})
}

// advanceNonce moves the search to the next nonce and recomputes the
// digest. The nonce and the cached hash always change together.
func (b *Block) advanceNonce() {
	b.Header.Nonce++
	b.hash = b.computeHash()
}

// =============================================================================

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	Difficulty int
	PrevBlock  Block
	TimeStamp  uint64
	Trans      []Tx
	EvHandler  func(v string, args ...any)
}

// POW constructs a new block linked to the specified previous block and
// performs the work to find a nonce that solves the cryptographic puzzle.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := args.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	nb := newBlock(args.PrevBlock.Hash(), args.TimeStamp, args.Trans)
	if err := nb.performPOW(ctx, args.Difficulty, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for the block.
// Pointer semantics are being used since a nonce is being discovered.
func (b *Block) performPOW(ctx context.Context, difficulty int, ev func(v string, args ...any)) error {
	ev("ledger: performPOW: MINING: started")
	defer ev("ledger: performPOW: MINING: completed")

	for _, tx := range b.Trans {
		ev("ledger: performPOW: MINING: tx[%s]", tx)
	}

	// The nonce from construction is tried first, so a hash that already
	// satisfies the difficulty is accepted without advancing.
	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("ledger: performPOW: MINING: attempts[%d]", attempts)
		}

		// Mining is CPU bound so the context is checked by hand on
		// every pass through the loop.
		if ctx.Err() != nil {
			ev("ledger: performPOW: MINING: CANCELLED")
			return ctx.Err()
		}

		if !isHashSolved(difficulty, b.Hash()) {
			b.advanceNonce()
			continue
		}

		ev("ledger: performPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]", b.Header.PrevBlockHash, b.Hash())
		ev("ledger: performPOW: MINING: attempts[%d]", attempts)

		return nil
	}
}

// isHashSolved checks the hash to make sure it complies with the POW
// rules. The hash must lead with difficulty number of zero characters.
func isHashSolved(difficulty int, hash string) bool {
	if difficulty < 0 || difficulty > len(digest.ZeroHash) {
		return false
	}

	if len(hash) != len(digest.ZeroHash) {
		return false
	}

	return hash[:difficulty] == digest.ZeroHash[:difficulty]
}

// =============================================================================

// BlockData represents what can be serialized to disk and over the network.
type BlockData struct {
	Hash          string `json:"hash"`
	PrevBlockHash string `json:"previousHash"`
	TimeStamp     uint64 `json:"timestamp"`
	Nonce         uint64 `json:"nonce"`
	Trans         []Tx   `json:"transactions"`
}

// NewBlockData constructs the serializable form of the specified block.
func NewBlockData(block Block) BlockData {
	return BlockData{
		Hash:          block.Hash(),
		PrevBlockHash: block.Header.PrevBlockHash,
		TimeStamp:     block.Header.TimeStamp,
		Nonce:         block.Header.Nonce,
		Trans:         append([]Tx(nil), block.Trans...),
	}
}

// ToBlock converts a storage block into a ledger block after checking the
// stored hash still matches the block contents.
func ToBlock(blockData BlockData) (Block, error) {
	b := Block{
		Header: BlockHeader{
			PrevBlockHash: blockData.PrevBlockHash,
			TimeStamp:     blockData.TimeStamp,
			Nonce:         blockData.Nonce,
		},
		Trans: append([]Tx(nil), blockData.Trans...),
	}
	b.hash = b.computeHash()

	if b.hash != blockData.Hash {
		return Block{}, fmt.Errorf("stored hash %s doesn't match block contents, expected %s", blockData.Hash, b.hash)
	}

	return b, nil
}

// ValidateBlock executes the consensus checks against the block before it
// can be added to the chain.
func (b Block) ValidateBlock(previousBlock Block, difficulty int, ev func(v string, args ...any)) error {
	ev("ledger: ValidateBlock: validate: blk[%s]: check: chain is not forked", b.Hash())

	if b.Header.PrevBlockHash != previousBlock.Hash() {
		return fmt.Errorf("parent hash doesn't match previous block, got %s, exp %s", b.Header.PrevBlockHash, previousBlock.Hash())
	}

	ev("ledger: ValidateBlock: validate: blk[%s]: check: hash solves the difficulty", b.Hash())

	if !isHashSolved(difficulty, b.Hash()) {
		return fmt.Errorf("hash %s doesn't solve difficulty %d", b.Hash(), difficulty)
	}

	ev("ledger: ValidateBlock: validate: blk[%s]: check: hash matches contents", b.Hash())

	if b.computeHash() != b.Hash() {
		return fmt.Errorf("hash %s doesn't match block contents", b.Hash())
	}

	return nil
}
