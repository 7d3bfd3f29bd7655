package public

import (
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

type submitTx struct {
	From   ledger.Address `json:"fromAddress"`
	To     ledger.Address `json:"toAddress" validate:"required"`
	Amount uint64         `json:"amount" validate:"required"`
}

type pendingPool struct {
	PendingTransactions []ledger.Tx `json:"pendingTransactions"`
}

type chainStatus struct {
	LatestBlockHash string `json:"latestBlockHash"`
	Height          int    `json:"height"`
	PendingCount    int    `json:"pendingCount"`
	Difficulty      int    `json:"difficulty"`
	MiningReward    uint64 `json:"miningReward"`
}

type result struct {
	Status string `json:"status"`
}
