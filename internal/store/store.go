// Package store defines the task and artifact stores and their in-memory
// implementations.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/accreditrack/internal/types"
)

var (
	// ErrNotFound is returned when a record with the given id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrStatusConflict is returned when an update's ExpectStatus precondition fails.
	ErrStatusConflict = errors.New("task status changed")
)

// NewTask holds the caller-supplied fields of a task.
type NewTask struct {
	AccreditationBenchmarkID int
	AssignedUserID           string
	CycleID                  int
	DueDate                  string
}

// TaskUpdate lists the fields to merge onto a task. Nil fields are left alone.
type TaskUpdate struct {
	Status             *types.TaskStatus
	UploadedAt         *time.Time
	ReviewedAt         *time.Time
	CoordinatorComment *string

	// ExpectStatus, when set, makes the update conditional on the current status.
	ExpectStatus *types.TaskStatus
}

// NewArtifact holds the fields of an artifact record.
type NewArtifact struct {
	TaskID       int64
	FileName     string
	OriginalName string
	FilePath     string
	FileSize     int64
}

// TaskStore owns task records.
type TaskStore interface {
	ListTasks(ctx context.Context, filter types.TaskFilter) ([]types.Task, error)
	GetTask(ctx context.Context, id int64) (*types.Task, error)
	CreateTask(ctx context.Context, in NewTask) (*types.Task, error)
	UpdateTask(ctx context.Context, id int64, update TaskUpdate) (*types.Task, error)
}

// ArtifactStore owns artifact records.
type ArtifactStore interface {
	CreateArtifact(ctx context.Context, in NewArtifact) (*types.Artifact, error)
	ListArtifactsByTask(ctx context.Context, taskID int64) ([]types.Artifact, error)
}

// SubmissionStore records a submission's artifact and task update as one
// unit: either both are stored or neither is.
type SubmissionStore interface {
	RecordSubmission(ctx context.Context, artifact NewArtifact, update TaskUpdate) (*types.Artifact, *types.Task, error)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
