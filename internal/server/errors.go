package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/accreditrack/internal/types"
)

// HTTPStatus returns the appropriate HTTP status code for an error.
func HTTPStatus(err error) int {
	var (
		validationErr *types.ErrValidation
		referenceErr  *types.ErrReference
		stateErr      *types.ErrInvalidState
		authErr       *types.ErrAuth
		notFoundErr   *types.ErrNotFound
		maxBytesErr   *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErr), errors.As(err, &referenceErr), errors.As(err, &stateErr):
		return http.StatusBadRequest
	case errors.As(err, &maxBytesErr):
		return http.StatusBadRequest
	case errors.As(err, &authErr):
		if authErr.Kind == types.AuthForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the text safe to send to clients for err.
// Internal failures are reported generically.
func publicMessage(err error, status int) string {
	if status >= http.StatusInternalServerError {
		return "internal server error"
	}
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return "request body too large"
	}
	return err.Error()
}
