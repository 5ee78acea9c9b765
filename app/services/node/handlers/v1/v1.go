// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/tipchune/tipchune/app/services/node/handlers/v1/public"
	"github.com/tipchune/tipchune/foundation/blockchain/state"
	"github.com/tipchune/tipchune/foundation/events"
	"github.com/tipchune/tipchune/foundation/web"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	const version = "v1"

	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/genesis", pbl.Genesis)
	app.Handle(http.MethodGet, version, "/tip", pbl.Tip)
	app.Handle(http.MethodGet, version, "/mempool", pbl.Mempool)
	app.Handle(http.MethodGet, version, "/blocks/:hash", pbl.BlockByHash)
	app.Handle(http.MethodGet, version, "/tx/:digest", pbl.TransactionByDigest)
	app.Handle(http.MethodPost, version, "/tx", pbl.SubmitTransaction)
	app.Handle(http.MethodPost, version, "/block", pbl.SubmitBlock)
}
