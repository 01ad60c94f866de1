package types

import "time"

// CycleStatus is the lifecycle state of an accreditation cycle.
type CycleStatus string

// Cycle statuses.
const (
	CycleActive    CycleStatus = "active"
	CycleCompleted CycleStatus = "completed"
)

// Cycle is a bounded accreditation period that tasks are scoped to.
type Cycle struct {
	ID        int         `json:"id"`
	Name      string      `json:"name"`
	StartDate string      `json:"startDate"`
	EndDate   string      `json:"endDate"`
	Status    CycleStatus `json:"status"`
}

// TaskStatus is the workflow state of a benchmark task.
type TaskStatus string

// Task statuses. pending -> submitted -> approved | for_revision.
const (
	TaskPending     TaskStatus = "pending"
	TaskSubmitted   TaskStatus = "submitted"
	TaskApproved    TaskStatus = "approved"
	TaskForRevision TaskStatus = "for_revision"
)

// IsReviewOutcome reports whether s is a status a review may set.
func (s TaskStatus) IsReviewOutcome() bool {
	return s == TaskApproved || s == TaskForRevision
}

// DateLayout is the layout of due dates and cycle bounds.
const DateLayout = "2006-01-02"

// Task is a benchmark assignment tracked through the review workflow.
type Task struct {
	ID                       int64      `json:"id"`
	AccreditationBenchmarkID int        `json:"accreditationBenchmarkId"`
	AssignedUserID           string     `json:"assignedUserId"`
	CycleID                  int        `json:"cycleId"`
	DueDate                  string     `json:"dueDate"`
	Status                   TaskStatus `json:"status"`
	CreatedAt                time.Time  `json:"createdAt"`
	UploadedAt               *time.Time `json:"uploadedAt"`
	ReviewedAt               *time.Time `json:"reviewedAt"`
	CoordinatorComment       *string    `json:"coordinatorComment"`
}

// Artifact is the metadata of an uploaded evidence file.
type Artifact struct {
	ID           int64     `json:"id"`
	TaskID       int64     `json:"taskId"`
	FileName     string    `json:"fileName"`
	OriginalName string    `json:"originalName"`
	FilePath     string    `json:"filePath"`
	FileSize     int64     `json:"fileSize"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// CreateTaskRequest is the body of a task creation call.
type CreateTaskRequest struct {
	AccreditationBenchmarkID int    `json:"accreditationBenchmarkId" validate:"required,gt=0"`
	AssignedUserID           string `json:"assignedUserId" validate:"required"`
	CycleID                  int    `json:"cycleId" validate:"required,gt=0"`
	DueDate                  string `json:"dueDate" validate:"required,datetime=2006-01-02"`
}

// ReviewRequest is the body of a review call.
type ReviewRequest struct {
	Status  TaskStatus `json:"status" validate:"required,oneof=approved for_revision"`
	Comment string     `json:"comment" validate:"required,notblank"`
}

// TaskFilter narrows a task listing. Zero values mean "no constraint".
type TaskFilter struct {
	AssignedUserID string
	CycleID        int
}

// TaskDetail is a task together with every artifact submitted for it.
type TaskDetail struct {
	Task      *Task      `json:"task"`
	Artifacts []Artifact `json:"artifacts"`
}

// SubmissionResult is returned by a successful submission.
type SubmissionResult struct {
	Task     *Task     `json:"task"`
	Artifact *Artifact `json:"artifact"`
}
