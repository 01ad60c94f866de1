package auth

import (
	"context"
	"time"

	"github.com/jonathan/accreditrack/internal/types"
)

// Directory resolves user identities and their credential hashes.
type Directory interface {
	LookupUser(id string) (types.User, bool)
	Credential(id string) (types.User, string, bool)
}

// PasswordVerifier compares secrets against stored hashes.
type PasswordVerifier interface {
	VerifyPassword(pw, storedHash string) bool
	BurnComparison(pw string) bool
}

// Gate authenticates users and validates bearer tokens against the directory.
type Gate struct {
	directory Directory
	passwords PasswordVerifier
	tokens    *TokenService
}

// NewGate creates an auth gate.
func NewGate(directory Directory, passwords PasswordVerifier, tokens *TokenService) *Gate {
	return &Gate{
		directory: directory,
		passwords: passwords,
		tokens:    tokens,
	}
}

// Authenticate checks an identity/secret pair. Unknown identities and wrong
// secrets fail identically and take comparable time.
func (g *Gate) Authenticate(_ context.Context, userID, password string) (*types.User, error) {
	user, hash, ok := g.directory.Credential(userID)
	if !ok {
		g.passwords.BurnComparison(password)
		return nil, &types.ErrAuth{Kind: types.AuthInvalidCredentials}
	}
	if !g.passwords.VerifyPassword(password, hash) {
		return nil, &types.ErrAuth{Kind: types.AuthInvalidCredentials}
	}
	return &user, nil
}

// IssueToken signs a bearer token for the user.
func (g *Gate) IssueToken(user types.User) (string, time.Time, error) {
	return g.tokens.GenerateToken(user)
}

// ValidateToken verifies a bearer token and re-resolves its subject, so a
// token for a user no longer in the directory is rejected. The role comes
// from the current directory entry.
func (g *Gate) ValidateToken(tokenString string) (types.Principal, error) {
	claims, err := g.tokens.ParseToken(tokenString)
	if err != nil {
		return types.Principal{}, err
	}

	user, ok := g.directory.LookupUser(claims.UserID)
	if !ok {
		return types.Principal{}, &types.ErrAuth{Kind: types.AuthInvalid, Message: "unknown user"}
	}

	return types.Principal{UserID: user.ID, Role: user.Role}, nil
}

// RequireRole fails with a forbidden error unless the principal holds one
// of the allowed roles.
func RequireRole(p types.Principal, allowed ...types.Role) error {
	if !p.HasRole(allowed...) {
		return &types.ErrAuth{Kind: types.AuthForbidden}
	}
	return nil
}
