package ledger_test

import (
	"context"
	"testing"

	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

func mineBlock(t *testing.T, prevBlock ledger.Block, difficulty int, timeStamp uint64, trans []ledger.Tx) ledger.Block {
	t.Helper()

	block, err := ledger.POW(context.Background(), ledger.POWArgs{
		Difficulty: difficulty,
		PrevBlock:  prevBlock,
		TimeStamp:  timeStamp,
		Trans:      trans,
		EvHandler:  noopEv,
	})
	if err != nil {
		t.Fatalf("unable to mine block: %s", err)
	}

	return block
}

func Test_Ledger(t *testing.T) {
	t.Log("Given the need to maintain an append-only chain of blocks.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen constructing a new ledger.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			l, err := ledger.New(genesisBlock, 1, nil, noopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a ledger: %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to construct a ledger.", success, testID)

			if l.Height() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould start with just the genesis block: got %d.", failed, testID, l.Height())
			}
			t.Logf("\t%s\tTest %d:\tShould start with just the genesis block.", success, testID)

			if l.LatestBlock().Hash() != genesisBlock.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould have the genesis block at the head.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have the genesis block at the head.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen writing a mined block to the chain.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			l, err := ledger.New(genesisBlock, 1, nil, noopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a ledger: %s", failed, testID, err)
			}

			block := mineBlock(t, genesisBlock, 1, 1651521577, []ledger.Tx{ledger.NewTx("alice", "bob", 25)})

			if err := l.Write(block); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the block: %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write the block.", success, testID)

			if l.Height() != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould have two blocks in the chain: got %d.", failed, testID, l.Height())
			}
			t.Logf("\t%s\tTest %d:\tShould have two blocks in the chain.", success, testID)

			blocks := l.Blocks()
			if blocks[0].Hash() != genesisBlock.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould keep the genesis block unchanged.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould keep the genesis block unchanged.", success, testID)

			got, err := l.GetBlock(1)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to get the block by position: %s", failed, testID, err)
			}
			if got.Hash() != block.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould be able to get the block by position.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to get the block by position.", success, testID)

			if _, err := l.GetBlock(2); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a position past the head.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a position past the head.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen writing a block that doesn't link to the head.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			l, err := ledger.New(genesisBlock, 1, nil, noopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a ledger: %s", failed, testID, err)
			}

			otherGenesis := ledger.NewGenesisBlock("other", 1651521500)
			block := mineBlock(t, otherGenesis, 1, 1651521577, []ledger.Tx{ledger.NewTx("alice", "bob", 25)})

			if err := l.Write(block); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a block with a foreign parent.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a block with a foreign parent.", success, testID)

			if l.Height() != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould leave the chain unchanged: got height %d.", failed, testID, l.Height())
			}
			t.Logf("\t%s\tTest %d:\tShould leave the chain unchanged.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen writing a block that doesn't solve the difficulty.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			l, err := ledger.New(genesisBlock, 32, nil, noopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a ledger: %s", failed, testID, err)
			}

			// Mined at difficulty zero so the hash won't satisfy the
			// difficulty this ledger enforces.
			block := mineBlock(t, genesisBlock, 0, 1651521577, []ledger.Tx{ledger.NewTx("alice", "bob", 25)})

			if err := l.Write(block); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject a block that doesn't solve the difficulty.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a block that doesn't solve the difficulty.", success, testID)
		}
	}
}

func Test_LedgerReplay(t *testing.T) {
	t.Log("Given the need to reload a chain from archived blocks.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen replaying two archived blocks.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			b1 := mineBlock(t, genesisBlock, 1, 1651521577, []ledger.Tx{ledger.NewTx("alice", "bob", 25)})
			b2 := mineBlock(t, b1, 1, 1651521644, []ledger.Tx{ledger.NewSystemTx("miner", 100)})

			archived := []ledger.BlockData{
				ledger.NewBlockData(b1),
				ledger.NewBlockData(b2),
			}

			l, err := ledger.New(genesisBlock, 1, archived, noopEv)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to replay the archive: %s", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to replay the archive.", success, testID)

			if l.Height() != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould have three blocks in the chain: got %d.", failed, testID, l.Height())
			}
			t.Logf("\t%s\tTest %d:\tShould have three blocks in the chain.", success, testID)

			if l.LatestBlock().Hash() != b2.Hash() {
				t.Fatalf("\t%s\tTest %d:\tShould have the last archived block at the head.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have the last archived block at the head.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen an archived block was corrupted.", testID)
		{
			genesisBlock := ledger.NewGenesisBlock("genesis", 1651521512)

			b1 := mineBlock(t, genesisBlock, 1, 1651521577, []ledger.Tx{ledger.NewTx("alice", "bob", 25)})

			blockData := ledger.NewBlockData(b1)
			blockData.Nonce++

			if _, err := ledger.New(genesisBlock, 1, []ledger.BlockData{blockData}, noopEv); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould refuse to load a corrupted archive.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould refuse to load a corrupted archive.", success, testID)
		}
	}
}
