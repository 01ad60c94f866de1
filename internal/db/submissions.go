package db

import (
	"context"
	"fmt"

	"github.com/jonathan/accreditrack/internal/store"
	"github.com/jonathan/accreditrack/internal/types"
)

// RecordSubmission inserts the artifact and applies the task update in one
// transaction. Errors from the update (store.ErrNotFound,
// store.ErrStatusConflict) are returned unwrapped.
func (db *DB) RecordSubmission(ctx context.Context, in store.NewArtifact, update store.TaskUpdate) (*types.Artifact, *types.Task, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	artifact, err := createArtifact(ctx, tx, in)
	if err != nil {
		return nil, nil, err
	}

	task, err := updateTask(ctx, tx, in.TaskID, update)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit submission: %w", err)
	}
	return artifact, task, nil
}
