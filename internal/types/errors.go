package types

import "fmt"

// ErrValidation indicates malformed or missing input.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrReference indicates an identity that does not resolve to a known record.
type ErrReference struct {
	Field string
	Value any
}

func (e *ErrReference) Error() string {
	return fmt.Sprintf("invalid %s: %v does not exist", e.Field, e.Value)
}

// AuthErrorKind classifies authentication and authorization failures.
type AuthErrorKind string

// Auth error kinds.
const (
	AuthMissing            AuthErrorKind = "missing"
	AuthInvalid            AuthErrorKind = "invalid"
	AuthExpired            AuthErrorKind = "expired"
	AuthInvalidCredentials AuthErrorKind = "invalid_credentials"
	AuthForbidden          AuthErrorKind = "forbidden"
)

// ErrAuth indicates a missing, invalid or expired token, bad credentials,
// or a principal lacking the required role or ownership.
type ErrAuth struct {
	Kind    AuthErrorKind
	Message string
}

func (e *ErrAuth) Error() string {
	if e.Message != "" {
		return e.Message
	}
	switch e.Kind {
	case AuthMissing:
		return "access token required"
	case AuthExpired:
		return "token expired"
	case AuthInvalidCredentials:
		return "invalid credentials"
	case AuthForbidden:
		return "insufficient permissions"
	default:
		return "invalid token"
	}
}

// ErrNotFound indicates an unknown task or artifact.
type ErrNotFound struct {
	Resource string
	ID       any
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %v", e.Resource, e.ID)
}

// ErrInvalidState indicates an action attempted from a status that does not allow it.
type ErrInvalidState struct {
	TaskID int64
	Status TaskStatus
	Action string
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("cannot %s task %d with status %q", e.Action, e.TaskID, e.Status)
}

// ErrStorage indicates a failure persisting an uploaded file or its record.
type ErrStorage struct {
	Op  string
	Err error
}

func (e *ErrStorage) Error() string {
	return fmt.Sprintf("storage error: %s: %v", e.Op, e.Err)
}

func (e *ErrStorage) Unwrap() error {
	return e.Err
}
