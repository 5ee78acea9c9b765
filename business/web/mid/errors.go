package mid

import (
	"context"
	"errors"
	"net/http"

	"github.com/tipchune/tipchune/business/web/errs"
	"github.com/tipchune/tipchune/foundation/blockchain/database"
	"github.com/tipchune/tipchune/foundation/web"
	"go.uber.org/zap"
)

// Errors handles errors coming out of the call chain. It detects normal
// application errors which are used to respond to the client in a
// uniform way. Unexpected errors (status >= 500) are logged.
func Errors(log *zap.SugaredLogger) web.Middleware {

	m := func(handler web.Handler) web.Handler {

		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			v, err := web.GetValues(ctx)
			if err != nil {
				return web.NewShutdownError("web value missing from context")
			}

			if err := handler(ctx, w, r); err != nil {
				log.Errorw("ERROR", "traceid", v.TraceID, "message", err)

				var resp errs.Response
				var status int

				switch {
				case errs.IsTrusted(err):
					te := errs.GetTrusted(err)
					resp = errs.Response{Error: te.Error()}
					status = te.Status

				case isLedgerRejection(err):
					resp = errs.Response{Error: err.Error()}
					status = http.StatusBadRequest

				default:
					resp = errs.Response{Error: http.StatusText(http.StatusInternalServerError)}
					status = http.StatusInternalServerError
				}

				if err := web.Respond(ctx, w, resp, status); err != nil {
					return err
				}

				// If we receive the shutdown err we need to return it
				// back to the base handler to shut down the service.
				if web.IsShutdown(err) {
					return err
				}
			}

			return nil
		}

		return h
	}

	return m
}

// isLedgerRejection reports whether the error is one of the ledger's
// verification rejections, which are the client's fault rather than a
// server failure.
func isLedgerRejection(err error) bool {
	rejections := []error{
		database.ErrInsufficientWork,
		database.ErrDanglingReference,
		database.ErrOwnershipMismatch,
		database.ErrInvalidSignature,
		database.ErrUnbalancedTransaction,
		database.ErrUnbalancedBlock,
		database.ErrMalformedBaseTransaction,
		database.ErrUnknownParent,
		database.ErrHeightOverflow,
	}

	for _, rejection := range rejections {
		if errors.Is(err, rejection) {
			return true
		}
	}

	return false
}
