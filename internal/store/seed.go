package store

import (
	"time"

	"github.com/jonathan/accreditrack/internal/types"
)

// DemoTasks returns the sample tasks served in development: task 1 is
// pending for FACULTY-001, task 2 is submitted by FACULTY-002.
func DemoTasks() []types.Task {
	return []types.Task{
		{
			ID:                       1,
			AccreditationBenchmarkID: 101,
			AssignedUserID:           "FACULTY-001",
			CycleID:                  2,
			DueDate:                  "2025-03-31",
			Status:                   types.TaskPending,
			CreatedAt:                time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:                       2,
			AccreditationBenchmarkID: 102,
			AssignedUserID:           "FACULTY-002",
			CycleID:                  2,
			DueDate:                  "2025-04-15",
			Status:                   types.TaskSubmitted,
			CreatedAt:                time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC),
			UploadedAt:               Ptr(time.Date(2025, 2, 10, 14, 30, 0, 0, time.UTC)),
		},
	}
}

// DemoArtifacts returns the artifact backing demo task 2.
func DemoArtifacts() []types.Artifact {
	return []types.Artifact{
		{
			ID:           1,
			TaskID:       2,
			FileName:     "artifact-1708441800000-abc123.pdf",
			OriginalName: "submission-report.pdf",
			FilePath:     "uploads/artifacts/artifact-1708441800000-abc123.pdf",
			FileSize:     245678,
			UploadedAt:   time.Date(2025, 2, 10, 14, 30, 0, 0, time.UTC),
		},
	}
}
