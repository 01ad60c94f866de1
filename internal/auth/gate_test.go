package auth

import (
	"context"
	"testing"

	"github.com/jonathan/accreditrack/internal/config"
	"github.com/jonathan/accreditrack/internal/directory"
	"github.com/jonathan/accreditrack/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestGate(t *testing.T) (*Gate, *directory.Directory) {
	t.Helper()
	passwords, err := config.NewPasswordConfigWithCost(10, "")
	require.NoError(t, err)

	dir, err := directory.LoadDefault(passwords)
	require.NoError(t, err)

	return NewGate(dir, passwords, setupTestTokenService(t, 24)), dir
}

func TestGate_Authenticate(t *testing.T) {
	gate, _ := setupTestGate(t)
	ctx := context.Background()

	user, err := gate.Authenticate(ctx, "COORD-001", "coord123")
	require.NoError(t, err)
	assert.Equal(t, "COORD-001", user.ID)
	assert.Equal(t, types.RoleCoordinator, user.Role)

	tests := []struct {
		name     string
		userID   string
		password string
	}{
		{name: "wrong password", userID: "COORD-001", password: "faculty123"},
		{name: "unknown user", userID: "NOBODY-001", password: "coord123"},
		{name: "case sensitive id", userID: "coord-001", password: "coord123"},
		{name: "empty password", userID: "COORD-001", password: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := gate.Authenticate(ctx, tt.userID, tt.password)
			assert.Nil(t, user)
			assert.Equal(t, types.AuthInvalidCredentials, authKind(t, err))
		})
	}
}

func TestGate_IssueAndValidate(t *testing.T) {
	gate, _ := setupTestGate(t)

	token, _, err := gate.IssueToken(types.User{ID: "FACULTY-001", Role: types.RoleFaculty})
	require.NoError(t, err)

	p, err := gate.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, types.Principal{UserID: "FACULTY-001", Role: types.RoleFaculty}, p)
}

func TestGate_ValidateToken_RemovedUser(t *testing.T) {
	gate, _ := setupTestGate(t)

	token, _, err := gate.IssueToken(types.User{ID: "GHOST-001", Role: types.RoleAdmin})
	require.NoError(t, err)

	_, err = gate.ValidateToken(token)
	assert.Equal(t, types.AuthInvalid, authKind(t, err))
}

func TestGate_ValidateToken_RoleFromDirectory(t *testing.T) {
	gate, _ := setupTestGate(t)

	// a token claiming admin for a faculty user only grants faculty
	token, _, err := gate.IssueToken(types.User{ID: "FACULTY-002", Role: types.RoleAdmin})
	require.NoError(t, err)

	p, err := gate.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, types.RoleFaculty, p.Role)
}

func TestGate_ValidateToken_Missing(t *testing.T) {
	gate, _ := setupTestGate(t)

	_, err := gate.ValidateToken("")
	assert.Equal(t, types.AuthMissing, authKind(t, err))
}

func TestRequireRole(t *testing.T) {
	faculty := types.Principal{UserID: "FACULTY-001", Role: types.RoleFaculty}
	admin := types.Principal{UserID: "ADMIN-001", Role: types.RoleAdmin}

	assert.NoError(t, RequireRole(faculty, types.RoleFaculty))
	assert.NoError(t, RequireRole(admin, types.RoleCoordinator, types.RoleAdmin))

	err := RequireRole(faculty, types.RoleCoordinator, types.RoleAdmin)
	assert.Equal(t, types.AuthForbidden, authKind(t, err))

	err = RequireRole(types.Principal{}, types.RoleFaculty)
	assert.Equal(t, types.AuthForbidden, authKind(t, err))
}
