package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/accreditrack/internal/store"
	"github.com/jonathan/accreditrack/internal/types"
)

const artifactColumns = `id, task_id, file_name, original_name, file_path, file_size, uploaded_at`

// CreateArtifact records an uploaded file for a task.
func (db *DB) CreateArtifact(ctx context.Context, in store.NewArtifact) (*types.Artifact, error) {
	return createArtifact(ctx, db.pool, in)
}

func createArtifact(ctx context.Context, q querier, in store.NewArtifact) (*types.Artifact, error) {
	row := q.QueryRow(ctx,
		`INSERT INTO task_artifacts (task_id, file_name, original_name, file_path, file_size)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+artifactColumns,
		in.TaskID, in.FileName, in.OriginalName, in.FilePath, in.FileSize,
	)
	artifact, err := scanArtifact(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	return artifact, nil
}

// ListArtifactsByTask returns a task's artifacts, oldest first.
func (db *DB) ListArtifactsByTask(ctx context.Context, taskID int64) ([]types.Artifact, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+artifactColumns+` FROM task_artifacts WHERE task_id = $1 ORDER BY id`,
		taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := make([]types.Artifact, 0)
	for rows.Next() {
		artifact, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, *artifact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}

func scanArtifact(row pgx.Row) (*types.Artifact, error) {
	var a types.Artifact
	if err := row.Scan(&a.ID, &a.TaskID, &a.FileName, &a.OriginalName, &a.FilePath, &a.FileSize, &a.UploadedAt); err != nil {
		return nil, err
	}
	a.UploadedAt = a.UploadedAt.UTC()
	return &a, nil
}
