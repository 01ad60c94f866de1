package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jonathan/accreditrack/internal/logging"
	"github.com/jonathan/accreditrack/internal/metrics"
	"github.com/jonathan/accreditrack/internal/server/middleware"
	"github.com/jonathan/accreditrack/internal/types"
)

// Authenticator checks credentials and issues tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, userID, password string) (*types.User, error)
	IssueToken(user types.User) (string, time.Time, error)
}

// UserLookup resolves users by identity.
type UserLookup interface {
	LookupUser(id string) (types.User, bool)
}

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	auth  Authenticator
	users UserLookup
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(auth Authenticator, users UserLookup) *AuthHandler {
	return &AuthHandler{
		auth:  auth,
		users: users,
	}
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		metrics.RecordLogin("invalid_request")
		errorResponse(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		metrics.RecordLogin("invalid_request")
		errorResponse(w, r, &types.ErrValidation{Message: "userId and password are required"})
		return
	}

	user, err := h.auth.Authenticate(r.Context(), req.UserID, req.Password)
	if err != nil {
		var authErr *types.ErrAuth
		if errors.As(err, &authErr) {
			metrics.RecordLogin(string(authErr.Kind))
			logging.Warn().Str("user_id", req.UserID).Msg("login failed")
		}
		errorResponse(w, r, err)
		return
	}

	token, expiresAt, err := h.auth.IssueToken(*user)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	metrics.RecordLogin("success")
	successResponse(w, http.StatusOK, "Login successful", types.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	})
}

// Me returns the authenticated user's directory entry.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		errorResponse(w, r, &types.ErrAuth{Kind: types.AuthMissing})
		return
	}

	user, ok := h.users.LookupUser(principal.UserID)
	if !ok {
		errorResponse(w, r, &types.ErrAuth{Kind: types.AuthInvalid, Message: "unknown user"})
		return
	}

	successResponse(w, http.StatusOK, "Current user", user)
}
