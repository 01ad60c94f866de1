package middleware

import (
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jonathan/accreditrack/internal/logging"
	"github.com/jonathan/accreditrack/internal/types"
)

// Recover turns a handler panic into a logged 500 envelope.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logging.Error().
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("handler panicked")
			writeEnvelope(w, http.StatusInternalServerError, types.Envelope{
				Success: false,
				Message: "internal server error",
			})
		}()
		next.ServeHTTP(w, r)
	})
}
