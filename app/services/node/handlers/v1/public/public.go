// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tipchune/tipchune/business/web/errs"
	"github.com/tipchune/tipchune/foundation/blockchain/database"
	"github.com/tipchune/tipchune/foundation/blockchain/signature"
	"github.com/tipchune/tipchune/foundation/blockchain/state"
	"github.com/tipchune/tipchune/foundation/events"
	"github.com/tipchune/tipchune/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
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

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

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

// SubmitTransaction adds a new transaction to the mempool. If the
// submission completes a batch, the accepted block is pushed to every
// events subscriber for propagation.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tx database.Transaction
	if err := web.Decode(r, &tx); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", tx)

	action, err := h.State.SubmitTransaction(ctx, tx)
	if err != nil {
		return err
	}

	resp := submitTxResponse{
		Status: "transaction added to mempool",
	}

	if !action.None() {
		blockHash, err := action.Broadcast.Hash()
		if err != nil {
			return err
		}

		h.broadcastBlock(*action.Broadcast, blockHash)

		resp.Status = "block accepted"
		resp.BlockHash = &blockHash
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitBlock accepts a block proposed by a peer node.
func (h Handlers) SubmitBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var block database.Block
	if err := web.Decode(r, &block); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("submit block", "traceid", v.TraceID, "parent", block.Desc.ParentHash)

	body, err := h.State.ProcessProposedBlock(block)
	if err != nil {
		return err
	}

	resp := struct {
		Status string `json:"status"`
		Trans  int    `json:"trans"`
	}{
		Status: "block accepted",
		Trans:  len(body.Transactions),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.Genesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Tip returns the digest and height of the trusted tip.
func (h Handlers) Tip(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := tipResponse{
		Hash:   h.State.LatestBlockHash(),
		Height: h.State.MaxHeight(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Mempool(), http.StatusOK)
}

// BlockByHash returns the descriptor and height of an accepted block.
func (h Handlers) BlockByHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash, err := parseDigest(web.Param(r, "hash"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	desc, height, exists := h.State.QueryBlockDesc(hash)
	if !exists {
		return errs.NewTrusted(fmt.Errorf("block %s not found", hash), http.StatusNotFound)
	}

	resp := blockResponse{
		Hash:   hash,
		Height: height,
		Desc:   desc,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// TransactionByDigest returns a committed transaction.
func (h Handlers) TransactionByDigest(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	digest, err := parseDigest(web.Param(r, "digest"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	tx, exists := h.State.QueryTransaction(digest)
	if !exists {
		return errs.NewTrusted(fmt.Errorf("transaction %s not found", digest), http.StatusNotFound)
	}

	return web.Respond(ctx, w, tx, http.StatusOK)
}

// =============================================================================

// broadcastBlock pushes an accepted block to every events subscriber so
// connected peers can pick it up.
func (h Handlers) broadcastBlock(block database.Block, blockHash signature.Digest) {
	data, err := json.Marshal(block)
	if err != nil {
		h.Log.Errorw("broadcast block", "ERROR", err)
		return
	}

	h.Evts.Send(fmt.Sprintf(`{"type":"block","hash":%q,"block":%s}`, blockHash, data))
}

// parseDigest converts a hex route parameter into a digest.
func parseDigest(param string) (signature.Digest, error) {
	var digest signature.Digest
	if err := digest.UnmarshalText([]byte(param)); err != nil {
		return signature.Digest{}, fmt.Errorf("invalid digest %q: %w", param, err)
	}

	return digest, nil
}
