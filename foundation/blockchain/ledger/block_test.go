package ledger_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hashforge/blockchain/foundation/blockchain/digest"
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

const (
	success = "\u2713"
	failed  = "\u2717"
)

var noopEv = func(v string, args ...any) {}

func Test_POW(t *testing.T) {
	t.Log("Given the need to mine a block that solves the difficulty.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining a block at difficulty one.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			trans := []ledger.Tx{
				ledger.NewTx("alice", "bob", 25),
				ledger.NewSystemTx("miner", 100),
			}

			block, err := ledger.POW(context.Background(), ledger.POWArgs{
				Difficulty: 1,
				PrevBlock:  genesisBlock,
				TimeStamp:  1651521577,
				Trans:      trans,
				EvHandler:  noopEv,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine a block.", success, testID)

			if !strings.HasPrefix(block.Hash(), "0") {
				t.Fatalf("\t%s\tTest %d:\tShould get a hash with a leading zero: %s", failed, testID, block.Hash())
			}
			t.Logf("\t%s\tTest %d:\tShould get a hash with a leading zero.", success, testID)

			if block.Header.PrevBlockHash != genesisBlock.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould link back to the previous block hash.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould link back to the previous block hash.", success, testID)

			if len(block.Trans) != len(trans) {
				t.Fatalf("\t%s\tTest %d:\tShould carry all %d transactions: got %d.", failed, testID, len(trans), len(block.Trans))
			}
			for i := range trans {
				if block.Trans[i] != trans[i] {
					t.Fatalf("\t%s\tTest %d:\tShould carry the transactions in submission order.", failed, testID)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould carry the transactions in submission order.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining a block at difficulty zero.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			block, err := ledger.POW(context.Background(), ledger.POWArgs{
				Difficulty: 0,
				PrevBlock:  genesisBlock,
				TimeStamp:  1651521577,
				Trans:      []ledger.Tx{ledger.NewTx("alice", "bob", 25)},
				EvHandler:  noopEv,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine a block.", success, testID)

			if block.Header.Nonce != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould accept the first nonce tried: got %d.", failed, testID, block.Header.Nonce)
			}
			t.Logf("\t%s\tTest %d:\tShould accept the first nonce tried.", success, testID)
		}
	}
}

func Test_POWCancel(t *testing.T) {
	t.Log("Given the need to cancel a mining operation that is in flight.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the context is cancelled during the nonce search.", testID)
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			// A difficulty this high cannot be solved before the
			// cancellation is noticed.
			_, err := ledger.POW(ctx, ledger.POWArgs{
				Difficulty: 32,
				PrevBlock:  genesisBlock,
				TimeStamp:  1651521577,
				Trans:      []ledger.Tx{ledger.NewTx("alice", "bob", 25)},
				EvHandler:  noopEv,
			})
			if err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not be able to mine a cancelled block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not be able to mine a cancelled block.", success, testID)

			if !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest %d:\tShould get back the context cancellation: %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the context cancellation.", success, testID)
		}
	}
}

func Test_BlockHash(t *testing.T) {
	t.Log("Given the need to validate block hashing rules.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen hashing the same block contents twice.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			args := ledger.POWArgs{
				Difficulty: 0,
				PrevBlock:  genesisBlock,
				TimeStamp:  1651521577,
				Trans:      []ledger.Tx{ledger.NewTx("alice", "bob", 25), ledger.NewTx("bob", "carol", 5)},
				EvHandler:  noopEv,
			}

			b1, err := ledger.POW(context.Background(), args)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
			}
			b2, err := ledger.POW(context.Background(), args)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
			}

			if b1.Hash() != b2.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould get the same hash for the same contents: %s != %s", failed, testID, b1.Hash(), b2.Hash())
			}
			t.Logf("\t%s\tTest %d:\tShould get the same hash for the same contents.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen reordering the transactions inside a block.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			t1 := ledger.NewTx("alice", "bob", 25)
			t2 := ledger.NewTx("bob", "carol", 5)

			b1, err := ledger.POW(context.Background(), ledger.POWArgs{
				PrevBlock: genesisBlock,
				TimeStamp: 1651521577,
				Trans:     []ledger.Tx{t1, t2},
				EvHandler: noopEv,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
			}
			b2, err := ledger.POW(context.Background(), ledger.POWArgs{
				PrevBlock: genesisBlock,
				TimeStamp: 1651521577,
				Trans:     []ledger.Tx{t2, t1},
				EvHandler: noopEv,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
			}

			if b1.Hash() == b2.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould get different hashes when the order changes.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get different hashes when the order changes.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the genesis block is constructed.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			if genesisBlock.Header.PrevBlockHash != digest.ZeroHash {
				t.Fatalf("\t%s\tTest %d:\tShould link back to the zero hash: %s", failed, testID, genesisBlock.Header.PrevBlockHash)
			}
			t.Logf("\t%s\tTest %d:\tShould link back to the zero hash.", success, testID)

			if len(genesisBlock.Trans) != 1 || !genesisBlock.Trans[0].SystemIssued() {
				t.Fatalf("\t%s\tTest %d:\tShould carry a single chain issued transaction.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould carry a single chain issued transaction.", success, testID)
		}
	}
}

func Test_BlockData(t *testing.T) {
	t.Log("Given the need to convert blocks to and from their storage form.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen converting a mined block.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			block, err := ledger.POW(context.Background(), ledger.POWArgs{
				Difficulty: 1,
				PrevBlock:  genesisBlock,
				TimeStamp:  1651521577,
				Trans:      []ledger.Tx{ledger.NewTx("alice", "bob", 25)},
				EvHandler:  noopEv,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
			}

			blockData := ledger.NewBlockData(block)

			back, err := ledger.ToBlock(blockData)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to convert back to a block: %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to convert back to a block.", success, testID)

			if back.Hash() != block.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould keep the same hash through the conversion: %s != %s", failed, testID, back.Hash(), block.Hash())
			}
			t.Logf("\t%s\tTest %d:\tShould keep the same hash through the conversion.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the stored contents were tampered with.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			block, err := ledger.POW(context.Background(), ledger.POWArgs{
				Difficulty: 1,
				PrevBlock:  genesisBlock,
				TimeStamp:  1651521577,
				Trans:      []ledger.Tx{ledger.NewTx("alice", "bob", 25)},
				EvHandler:  noopEv,
			})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %s", failed, testID, err)
			}

			blockData := ledger.NewBlockData(block)
			blockData.Trans[0].Amount = 2500

			if _, err := ledger.ToBlock(blockData); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a block whose contents changed.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a block whose contents changed.", success, testID)
		}
	}
}
