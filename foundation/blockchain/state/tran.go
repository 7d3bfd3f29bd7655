package state

import (
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
)

// SubmitTransaction queues the specified transaction for inclusion in the
// next mined block and signals the worker there is work to perform. The
// transaction is accepted exactly as submitted: the chain performs no
// balance or address checks at this layer.
func (s *State) SubmitTransaction(tx ledger.Tx) {
	s.evHandler("state: SubmitTransaction: add tx to mempool: tx[%s]", tx)

	s.mempool.Append(tx)

	if s.Worker != nil {
		s.Worker.SignalStartMining("")
	}
}
