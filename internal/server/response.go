package server

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jonathan/accreditrack/internal/logging"
	"github.com/jonathan/accreditrack/internal/types"
)

// jsonResponse writes a JSON response
func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// successResponse writes a success envelope
func successResponse(w http.ResponseWriter, status int, message string, data any) {
	jsonResponse(w, status, types.Envelope{Success: true, Message: message, Data: data})
}

// failureResponse writes a failure envelope with the given status
func failureResponse(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, types.Envelope{Success: false, Message: message})
}

// errorResponse maps err to a status and writes a failure envelope.
// Server-side failures are logged with their cause.
func errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		logging.Error().
			Err(err).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	failureResponse(w, status, publicMessage(err, status))
}

// decodeJSON decodes a JSON request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &types.ErrValidation{Message: "invalid request body"}
	}
	return nil
}
