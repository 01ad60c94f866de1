// Package middleware provides HTTP middleware for authentication,
// authorization, request logging, metrics and panic recovery.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jonathan/accreditrack/internal/auth"
	"github.com/jonathan/accreditrack/internal/logging"
	"github.com/jonathan/accreditrack/internal/types"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// principalKey is the context key for the authenticated principal.
const principalKey ContextKey = "principal"

// TokenValidator validates bearer tokens into principals.
type TokenValidator interface {
	ValidateToken(tokenString string) (types.Principal, error)
}

// Authenticate validates the bearer token and stores the principal in the
// request context. Requests without a valid token get a 401 envelope.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			principal, err := validator.ValidateToken(tokenString)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose principal lacks all of
// the given roles. It must run after Authenticate.
func RequireRole(roles ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFrom(r.Context())
			if !ok {
				writeAuthError(w, &types.ErrAuth{Kind: types.AuthMissing})
				return
			}
			if err := auth.RequireRole(principal, roles...); err != nil {
				writeAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from a case-insensitive "Bearer <token>" header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", &types.ErrAuth{Kind: types.AuthMissing}
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", &types.ErrAuth{Kind: types.AuthInvalid, Message: "malformed authorization header"}
	}
	return parts[1], nil
}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p types.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom returns the authenticated principal stored in ctx.
func PrincipalFrom(ctx context.Context) (types.Principal, bool) {
	p, ok := ctx.Value(principalKey).(types.Principal)
	return p, ok
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	var authErr *types.ErrAuth
	if errors.As(err, &authErr) && authErr.Kind == types.AuthForbidden {
		status = http.StatusForbidden
	}
	writeEnvelope(w, status, types.Envelope{Success: false, Message: err.Error()})
}

func writeEnvelope(w http.ResponseWriter, status int, body types.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}
