package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/accreditrack/internal/config"
	"github.com/jonathan/accreditrack/internal/types"
)

func testPasswords(t *testing.T) *config.PasswordConfig {
	t.Helper()
	pw, err := config.NewPasswordConfigWithCost(10, "")
	require.NoError(t, err)
	return pw
}

func TestLoadDefault(t *testing.T) {
	pw := testPasswords(t)

	dir, err := LoadDefault(pw)
	require.NoError(t, err)

	users := dir.Users()
	require.Len(t, users, 4)
	assert.Equal(t, "ADMIN-001", users[0].ID)
	assert.Equal(t, "FACULTY-002", users[3].ID)

	coord, ok := dir.LookupUser("COORD-001")
	require.True(t, ok)
	assert.Equal(t, types.RoleCoordinator, coord.Role)
	assert.Equal(t, "Coordinator User", coord.Name)

	_, hash, ok := dir.Credential("COORD-001")
	require.True(t, ok)
	assert.True(t, pw.VerifyPassword("coord123", hash), "plaintext credential should be hashed at load")
	assert.NotEqual(t, "coord123", hash)

	cycles := dir.Cycles()
	require.Len(t, cycles, 2)
	assert.Equal(t, types.CycleCompleted, cycles[0].Status)
	assert.Equal(t, "2025-01-01", cycles[1].StartDate)
	assert.True(t, dir.CycleExists(2))
	assert.False(t, dir.CycleExists(3))
}

func TestLookupUser_Unknown(t *testing.T) {
	dir, err := LoadDefault(testPasswords(t))
	require.NoError(t, err)

	_, ok := dir.LookupUser("NOBODY")
	assert.False(t, ok)
	_, _, ok = dir.Credential("NOBODY")
	assert.False(t, ok)
	_, ok = dir.LookupCycle(99)
	assert.False(t, ok)
}

func TestLoad_FileWithPrecomputedHash(t *testing.T) {
	pw := testPasswords(t)
	hash, err := pw.HashPassword("s3cret")
	require.NoError(t, err)

	content := "users:\n" +
		"  - id: DEAN-001\n" +
		"    name: Dean\n" +
		"    role: admin\n" +
		"    password_hash: \"" + hash + "\"\n" +
		"cycles:\n" +
		"  - id: 7\n" +
		"    name: Spring\n" +
		"    start_date: \"2026-01-01\"\n" +
		"    end_date: \"2026-06-30\"\n" +
		"    status: active\n"
	path := filepath.Join(t.TempDir(), "directory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	dir, err := Load(path, pw)
	require.NoError(t, err)

	_, stored, ok := dir.Credential("DEAN-001")
	require.True(t, ok)
	assert.Equal(t, hash, stored)

	cycle, ok := dir.LookupCycle(7)
	require.True(t, ok)
	assert.Equal(t, "Spring", cycle.Name)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	dir, err := Load("", testPasswords(t))
	require.NoError(t, err)
	assert.Len(t, dir.Users(), 4)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), testPasswords(t))
	require.Error(t, err)
}

func TestParse_SchemaViolation(t *testing.T) {
	data := []byte("users:\n  - id: X\n    name: X\n    role: janitor\n    password: x\ncycles: []\n")

	_, err := Parse("bad", data, testPasswords(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid bad")
}

func TestParse_UnquotedDates(t *testing.T) {
	data := []byte("users:\n" +
		"  - id: COORD-001\n" +
		"    name: Coordinator\n" +
		"    role: coordinator\n" +
		"    password: coord123\n" +
		"cycles:\n" +
		"  - id: 3\n" +
		"    name: 2026 Accreditation Cycle\n" +
		"    start_date: 2026-01-01\n" +
		"    end_date: 2026-12-31\n" +
		"    status: active\n")

	dir, err := Parse("unquoted", data, testPasswords(t))
	require.NoError(t, err)

	cycle, ok := dir.LookupCycle(3)
	require.True(t, ok)
	assert.Equal(t, "2026-01-01", cycle.StartDate)
	assert.Equal(t, "2026-12-31", cycle.EndDate)
}

func TestParse_MalformedDateStillRejected(t *testing.T) {
	data := []byte("users:\n" +
		"  - id: COORD-001\n" +
		"    name: Coordinator\n" +
		"    role: coordinator\n" +
		"    password: coord123\n" +
		"cycles:\n" +
		"  - id: 3\n" +
		"    name: Bad\n" +
		"    start_date: \"January 2026\"\n" +
		"    end_date: 2026-12-31\n" +
		"    status: active\n")

	_, err := Parse("malformed", data, testPasswords(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_date")
}

func TestNew_RejectsDuplicates(t *testing.T) {
	rec := UserRecord{User: types.User{ID: "A", Name: "A", Role: types.RoleFaculty}, PasswordHash: "h"}

	_, err := New([]UserRecord{rec, rec}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate user")

	_, err = New([]UserRecord{rec}, []types.Cycle{{ID: 1}, {ID: 1}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate cycle")
}

func TestNew_RejectsBadRecords(t *testing.T) {
	tests := []struct {
		name string
		rec  UserRecord
	}{
		{name: "empty id", rec: UserRecord{User: types.User{Role: types.RoleAdmin}, PasswordHash: "h"}},
		{name: "bad role", rec: UserRecord{User: types.User{ID: "A", Role: "dean"}, PasswordHash: "h"}},
		{name: "no credential", rec: UserRecord{User: types.User{ID: "A", Role: types.RoleAdmin}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New([]UserRecord{tt.rec}, nil)
			assert.Error(t, err)
		})
	}
}
