//nolint:revive // types is a standard Go package name pattern
package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation with field", &ErrValidation{Field: "dueDate", Message: "is required"}, "validation error: dueDate - is required"},
		{"validation without field", &ErrValidation{Message: "invalid request body"}, "validation error: invalid request body"},
		{"reference", &ErrReference{Field: "cycleId", Value: 99}, "invalid cycleId: 99 does not exist"},
		{"auth missing", &ErrAuth{Kind: AuthMissing}, "access token required"},
		{"auth expired", &ErrAuth{Kind: AuthExpired}, "token expired"},
		{"auth invalid", &ErrAuth{Kind: AuthInvalid}, "invalid token"},
		{"auth credentials", &ErrAuth{Kind: AuthInvalidCredentials}, "invalid credentials"},
		{"auth forbidden", &ErrAuth{Kind: AuthForbidden}, "insufficient permissions"},
		{"auth custom message", &ErrAuth{Kind: AuthForbidden, Message: "task is not assigned to you"}, "task is not assigned to you"},
		{"not found", &ErrNotFound{Resource: "task", ID: int64(9)}, "task not found: 9"},
		{"invalid state", &ErrInvalidState{TaskID: 2, Status: TaskPending, Action: "review"}, `cannot review task 2 with status "pending"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrStorage_Unwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("submit: %w", &ErrStorage{Op: "write artifact file", Err: cause})

	assert.ErrorIs(t, err, cause)

	var storageErr *ErrStorage
	if assert.ErrorAs(t, err, &storageErr) {
		assert.Equal(t, "write artifact file", storageErr.Op)
	}
	assert.Equal(t, "storage error: write artifact file: disk full", storageErr.Error())
}

func TestTaskStatus_IsReviewOutcome(t *testing.T) {
	assert.True(t, TaskApproved.IsReviewOutcome())
	assert.True(t, TaskForRevision.IsReviewOutcome())
	assert.False(t, TaskPending.IsReviewOutcome())
	assert.False(t, TaskSubmitted.IsReviewOutcome())
}
