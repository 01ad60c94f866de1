// Package workflow orchestrates the benchmark task lifecycle:
// creation, artifact submission and review.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/accreditrack/internal/auth"
	"github.com/jonathan/accreditrack/internal/logging"
	"github.com/jonathan/accreditrack/internal/metrics"
	"github.com/jonathan/accreditrack/internal/storage"
	"github.com/jonathan/accreditrack/internal/store"
	"github.com/jonathan/accreditrack/internal/types"
)

// DefaultMaxUploadBytes is the artifact size limit when none is configured.
const DefaultMaxUploadBytes int64 = 10 << 20

// Directory resolves the users and cycles tasks refer to.
type Directory interface {
	LookupUser(id string) (types.User, bool)
	CycleExists(id int) bool
	Cycles() []types.Cycle
}

// FileStore persists uploaded artifact files.
type FileStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (storage.StoredFile, error)
	Remove(ctx context.Context, path string) error
}

// Config tunes the workflow rules.
type Config struct {
	// MaxUploadBytes caps the size of a submitted file.
	MaxUploadBytes int64
	// StrictResubmission rejects submissions for approved tasks.
	StrictResubmission bool
}

// Service implements the task workflow on top of the stores.
type Service struct {
	directory Directory
	tasks     store.TaskStore
	artifacts store.ArtifactStore
	files     FileStore
	cfg       Config
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates a workflow service.
func NewService(directory Directory, tasks store.TaskStore, artifacts store.ArtifactStore, files FileStore, cfg Config) *Service {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &Service{
		directory: directory,
		tasks:     tasks,
		artifacts: artifacts,
		files:     files,
		cfg:       cfg,
		now:       time.Now,
		log:       logging.With().Str("component", "workflow").Logger(),
	}
}

// MaxUploadBytes returns the configured upload limit.
func (s *Service) MaxUploadBytes() int64 {
	return s.cfg.MaxUploadBytes
}

// ListTasks returns the tasks matching filter. Faculty only ever see the
// tasks assigned to them, whatever filter they ask for.
func (s *Service) ListTasks(ctx context.Context, p types.Principal, filter types.TaskFilter) ([]types.Task, error) {
	if err := auth.RequireRole(p, types.Roles...); err != nil {
		return nil, err
	}
	if p.Role == types.RoleFaculty {
		filter.AssignedUserID = p.UserID
	}

	tasks, err := s.tasks.ListTasks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a task with its artifacts. Faculty may only read their own tasks.
func (s *Service) GetTask(ctx context.Context, p types.Principal, id int64) (*types.TaskDetail, error) {
	if err := auth.RequireRole(p, types.Roles...); err != nil {
		return nil, err
	}

	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role == types.RoleFaculty && task.AssignedUserID != p.UserID {
		return nil, &types.ErrAuth{Kind: types.AuthForbidden, Message: "task is not assigned to you"}
	}

	artifacts, err := s.artifacts.ListArtifactsByTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return &types.TaskDetail{Task: task, Artifacts: artifacts}, nil
}

// CreateTask creates a pending task after checking the assignee and cycle exist.
func (s *Service) CreateTask(ctx context.Context, p types.Principal, req types.CreateTaskRequest) (*types.Task, error) {
	if err := auth.RequireRole(p, types.RoleCoordinator, types.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateStruct(&req); err != nil {
		return nil, err
	}
	if _, ok := s.directory.LookupUser(req.AssignedUserID); !ok {
		return nil, &types.ErrReference{Field: "assignedUserId", Value: req.AssignedUserID}
	}
	if !s.directory.CycleExists(req.CycleID) {
		return nil, &types.ErrReference{Field: "cycleId", Value: req.CycleID}
	}

	task, err := s.tasks.CreateTask(ctx, store.NewTask{
		AccreditationBenchmarkID: req.AccreditationBenchmarkID,
		AssignedUserID:           req.AssignedUserID,
		CycleID:                  req.CycleID,
		DueDate:                  req.DueDate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	metrics.RecordTaskCreated()
	s.log.Info().
		Int64("task_id", task.ID).
		Str("assigned_user_id", task.AssignedUserID).
		Int("cycle_id", task.CycleID).
		Str("created_by", p.UserID).
		Msg("task created")

	return task, nil
}

// ReviewTask records a coordinator's decision on a submitted task.
func (s *Service) ReviewTask(ctx context.Context, p types.Principal, id int64, req types.ReviewRequest) (*types.Task, error) {
	if err := auth.RequireRole(p, types.RoleCoordinator, types.RoleAdmin); err != nil {
		return nil, err
	}

	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task.Status != types.TaskSubmitted {
		return nil, &types.ErrInvalidState{TaskID: id, Status: task.Status, Action: "review"}
	}
	if err := validateStruct(&req); err != nil {
		return nil, err
	}

	reviewed, err := s.tasks.UpdateTask(ctx, id, store.TaskUpdate{
		Status:             store.Ptr(req.Status),
		ReviewedAt:         store.Ptr(s.now().UTC()),
		CoordinatorComment: store.Ptr(req.Comment),
		ExpectStatus:       store.Ptr(types.TaskSubmitted),
	})
	if err != nil {
		if errors.Is(err, store.ErrStatusConflict) {
			current, getErr := s.getTask(ctx, id)
			var status types.TaskStatus
			if getErr == nil {
				status = current.Status
			}
			return nil, &types.ErrInvalidState{TaskID: id, Status: status, Action: "review"}
		}
		return nil, s.storeError(id, err)
	}

	metrics.RecordReview(string(req.Status))
	s.log.Info().
		Int64("task_id", id).
		Str("status", string(req.Status)).
		Str("reviewed_by", p.UserID).
		Msg("task reviewed")

	return reviewed, nil
}

// ListCycles returns every accreditation cycle.
func (s *Service) ListCycles(_ context.Context, p types.Principal) ([]types.Cycle, error) {
	if err := auth.RequireRole(p, types.Roles...); err != nil {
		return nil, err
	}
	return s.directory.Cycles(), nil
}

func (s *Service) getTask(ctx context.Context, id int64) (*types.Task, error) {
	task, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, s.storeError(id, err)
	}
	return task, nil
}

func (s *Service) storeError(id int64, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return &types.ErrNotFound{Resource: "task", ID: id}
	}
	return fmt.Errorf("task store: %w", err)
}
