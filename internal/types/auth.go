// Package types provides type definitions shared across the accreditation tracker.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
)

// Role is the access level of a directory user.
type Role string

// Known roles.
const (
	RoleAdmin       Role = "admin"
	RoleCoordinator Role = "coordinator"
	RoleFaculty     Role = "faculty"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleCoordinator, RoleFaculty}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(Roles, r)
}

// User is a directory entry as exposed through the API (no credential).
type User struct {
	ID   string `json:"userId"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Principal is the authenticated identity carried by a validated token.
type Principal struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// HasRole reports whether the principal holds one of the given roles.
func (p Principal) HasRole(roles ...Role) bool {
	return slices.Contains(roles, p.Role)
}

// LoginRequest represents the login request.
type LoginRequest struct {
	UserID   string `json:"userId" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
