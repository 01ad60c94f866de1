package store

import (
	"context"
	"sync"
	"time"

	"github.com/jonathan/accreditrack/internal/types"
)

// MemoryTaskStore keeps tasks in insertion order behind a read/write lock.
type MemoryTaskStore struct {
	mu     sync.RWMutex
	tasks  []types.Task
	index  map[int64]int
	nextID int64
	now    func() time.Time
}

// NewMemoryTaskStore creates a task store preloaded with seed records.
// Ids continue after the highest seeded id.
func NewMemoryTaskStore(seed ...types.Task) *MemoryTaskStore {
	s := &MemoryTaskStore{
		index:  make(map[int64]int, len(seed)),
		nextID: 1,
		now:    time.Now,
	}
	for _, t := range seed {
		s.index[t.ID] = len(s.tasks)
		s.tasks = append(s.tasks, cloneTask(t))
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}
	return s
}

// ListTasks returns the tasks matching every set filter field, in insertion order.
func (s *MemoryTaskStore) ListTasks(_ context.Context, filter types.TaskFilter) ([]types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if filter.AssignedUserID != "" && t.AssignedUserID != filter.AssignedUserID {
			continue
		}
		if filter.CycleID != 0 && t.CycleID != filter.CycleID {
			continue
		}
		out = append(out, cloneTask(t))
	}
	return out, nil
}

// GetTask returns a copy of the task with the given id.
func (s *MemoryTaskStore) GetTask(_ context.Context, id int64) (*types.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := cloneTask(s.tasks[i])
	return &t, nil
}

// CreateTask appends a pending task with the next sequential id.
func (s *MemoryTaskStore) CreateTask(_ context.Context, in NewTask) (*types.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := types.Task{
		ID:                       s.nextID,
		AccreditationBenchmarkID: in.AccreditationBenchmarkID,
		AssignedUserID:           in.AssignedUserID,
		CycleID:                  in.CycleID,
		DueDate:                  in.DueDate,
		Status:                   types.TaskPending,
		CreatedAt:                s.now().UTC(),
	}
	s.nextID++
	s.index[t.ID] = len(s.tasks)
	s.tasks = append(s.tasks, t)

	out := cloneTask(t)
	return &out, nil
}

// UpdateTask merges the non-nil fields of update onto the task. Transition
// legality is the caller's concern; only ExpectStatus is checked.
func (s *MemoryTaskStore) UpdateTask(_ context.Context, id int64, update TaskUpdate) (*types.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := &s.tasks[i]

	if update.ExpectStatus != nil && t.Status != *update.ExpectStatus {
		return nil, ErrStatusConflict
	}

	if update.Status != nil {
		t.Status = *update.Status
	}
	if update.UploadedAt != nil {
		t.UploadedAt = Ptr(*update.UploadedAt)
	}
	if update.ReviewedAt != nil {
		t.ReviewedAt = Ptr(*update.ReviewedAt)
	}
	if update.CoordinatorComment != nil {
		t.CoordinatorComment = Ptr(*update.CoordinatorComment)
	}

	out := cloneTask(*t)
	return &out, nil
}

// cloneTask copies the pointer fields so callers never share store memory.
func cloneTask(t types.Task) types.Task {
	if t.UploadedAt != nil {
		t.UploadedAt = Ptr(*t.UploadedAt)
	}
	if t.ReviewedAt != nil {
		t.ReviewedAt = Ptr(*t.ReviewedAt)
	}
	if t.CoordinatorComment != nil {
		t.CoordinatorComment = Ptr(*t.CoordinatorComment)
	}
	return t
}

// MemoryArtifactStore keeps artifact metadata in insertion order.
type MemoryArtifactStore struct {
	mu        sync.RWMutex
	artifacts []types.Artifact
	nextID    int64
	now       func() time.Time
}

// NewMemoryArtifactStore creates an artifact store preloaded with seed records.
func NewMemoryArtifactStore(seed ...types.Artifact) *MemoryArtifactStore {
	s := &MemoryArtifactStore{nextID: 1, now: time.Now}
	for _, a := range seed {
		s.artifacts = append(s.artifacts, a)
		if a.ID >= s.nextID {
			s.nextID = a.ID + 1
		}
	}
	return s
}

// CreateArtifact records an uploaded file with the next sequential id.
func (s *MemoryArtifactStore) CreateArtifact(_ context.Context, in NewArtifact) (*types.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := types.Artifact{
		ID:           s.nextID,
		TaskID:       in.TaskID,
		FileName:     in.FileName,
		OriginalName: in.OriginalName,
		FilePath:     in.FilePath,
		FileSize:     in.FileSize,
		UploadedAt:   s.now().UTC(),
	}
	s.nextID++
	s.artifacts = append(s.artifacts, a)

	return &a, nil
}

// ListArtifactsByTask returns the task's artifacts in insertion order.
func (s *MemoryArtifactStore) ListArtifactsByTask(_ context.Context, taskID int64) ([]types.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Artifact, 0)
	for _, a := range s.artifacts {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}
