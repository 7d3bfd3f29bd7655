// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	v1 "github.com/hashforge/blockchain/business/web/v1"
	"github.com/hashforge/blockchain/foundation/blockchain/ledger"
	"github.com/hashforge/blockchain/foundation/blockchain/state"
	"github.com/hashforge/blockchain/foundation/events"
	"github.com/hashforge/blockchain/foundation/web"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	h.Log.Infow("events", "traceid", v.TraceID, "status", "websocket open")

	ch := h.Evts.Subscribe(v.TraceID)
	defer h.Evts.Unsubscribe(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a new transaction to the pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var newTx submitTx
	if err := web.Decode(r, &newTx); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	tx := ledger.NewTx(newTx.From, newTx.To, newTx.Amount)

	h.Log.Infow("add tran", "traceid", v.TraceID, "from", tx.From, "to", tx.To, "amount", tx.Amount)
	h.State.SubmitTransaction(tx)

	resp := result{
		Status: "transaction added to pending pool",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions in submission order.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := pendingPool{
		PendingTransactions: h.State.RetrievePendingPool(),
	}

	return web.Respond(ctx, w, pool, http.StatusOK)
}

// SignalMining signals the worker to mine the pending pool into a block.
// The optional account route parameter names the beneficiary for this run.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	beneficiary := ledger.Address(web.Param(r, "account"))

	h.Log.Infow("signal mining", "traceid", v.TraceID, "beneficiary", beneficiary)
	h.State.Worker.SignalStartMining(beneficiary)

	resp := result{
		Status: "mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// CancelMining asks the worker to stop any in flight mining operation.
func (h Handlers) CancelMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.Log.Infow("cancel mining", "traceid", v.TraceID)

	done := h.State.Worker.SignalCancelMining()
	done()

	resp := result{
		Status: "cancel mining signaled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByAccount returns the blocks an account took part in. With no
// account the whole chain is returned.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account := ledger.Address(web.Param(r, "account"))

	blocks := h.State.QueryBlocksByAccount(account)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blockData := make([]ledger.BlockData, len(blocks))
	for i, block := range blocks {
		blockData[i] = ledger.NewBlockData(block)
	}

	return web.Respond(ctx, w, blockData, http.StatusOK)
}

// Genesis returns the chain settings fixed at construction.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Status returns a summary of the chain and the pending pool.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()

	status := chainStatus{
		LatestBlockHash: h.State.RetrieveLatestBlock().Hash(),
		Height:          h.State.QueryHeight(),
		PendingCount:    h.State.QueryPendingPoolLength(),
		Difficulty:      gen.Difficulty,
		MiningReward:    gen.MiningReward,
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}
