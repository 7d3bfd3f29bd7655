package bolt_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hashforge/blockchain/foundation/blockchain/archive"
	"github.com/hashforge/blockchain/foundation/blockchain/archive/bolt"
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

func testBlockData(prevHash string, nonce uint64) ledger.BlockData {
	return ledger.BlockData{
		Hash:          "hash-" + prevHash,
		PrevBlockHash: prevHash,
		TimeStamp:     1651521577,
		Nonce:         nonce,
		Trans:         []ledger.Tx{ledger.NewTx("alice", "bob", 25)},
	}
}

func TestWriteAndReadBack(t *testing.T) {
	b, err := bolt.New(filepath.Join(t.TempDir(), "blocks.db"))
	require.NoError(t, err)
	defer b.Close()

	blocks := []ledger.BlockData{
		testBlockData("a", 1),
		testBlockData("b", 2),
		testBlockData("c", 3),
	}
	for _, blockData := range blocks {
		require.NoError(t, b.Write(blockData))
	}

	back, err := archive.ReadAll(b)
	require.NoError(t, err)
	require.Len(t, back, len(blocks))
	for i := range blocks {
		require.Equal(t, blocks[i], back[i])
	}
}

func TestGetBlock(t *testing.T) {
	b, err := bolt.New(filepath.Join(t.TempDir(), "blocks.db"))
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Write(testBlockData("a", 1)))
	require.NoError(t, b.Write(testBlockData("b", 2)))

	blockData, err := b.GetBlock(2)
	require.NoError(t, err)
	require.Equal(t, "hash-b", blockData.Hash)

	_, err = b.GetBlock(3)
	require.True(t, errors.Is(err, bolt.ErrNotExist))
}

func TestSequenceSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "blocks.db")

	b, err := bolt.New(dbPath)
	require.NoError(t, err)
	require.NoError(t, b.Write(testBlockData("a", 1)))
	require.NoError(t, b.Close())

	b2, err := bolt.New(dbPath)
	require.NoError(t, err)
	defer b2.Close()

	require.NoError(t, b2.Write(testBlockData("b", 2)))

	back, err := archive.ReadAll(b2)
	require.NoError(t, err)
	require.Len(t, back, 2)
	require.Equal(t, "hash-a", back[0].Hash)
	require.Equal(t, "hash-b", back[1].Hash)
}

func TestReset(t *testing.T) {
	b, err := bolt.New(filepath.Join(t.TempDir(), "blocks.db"))
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Write(testBlockData("a", 1)))
	require.NoError(t, b.Reset())

	back, err := archive.ReadAll(b)
	require.NoError(t, err)
	require.Empty(t, back)

	// The sequence restarts after a reset.
	require.NoError(t, b.Write(testBlockData("b", 1)))
	blockData, err := b.GetBlock(1)
	require.NoError(t, err)
	require.Equal(t, "hash-b", blockData.Hash)
}
