package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/accreditrack/internal/store"
	"github.com/jonathan/accreditrack/internal/types"
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const taskColumns = `id, accreditation_benchmark_id, assigned_user_id, cycle_id,
	to_char(due_date, 'YYYY-MM-DD'), status, created_at, uploaded_at, reviewed_at, coordinator_comment`

// ListTasks returns tasks matching every set filter field, oldest first.
func (db *DB) ListTasks(ctx context.Context, filter types.TaskFilter) ([]types.Task, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+taskColumns+`
		 FROM benchmark_tasks
		 WHERE ($1 = '' OR assigned_user_id = $1)
		   AND ($2 = 0 OR cycle_id = $2)
		 ORDER BY id`,
		filter.AssignedUserID, filter.CycleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]types.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask retrieves a task by id.
func (db *DB) GetTask(ctx context.Context, id int64) (*types.Task, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM benchmark_tasks WHERE id = $1`,
		id,
	)
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// CreateTask inserts a pending task.
func (db *DB) CreateTask(ctx context.Context, in store.NewTask) (*types.Task, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO benchmark_tasks (accreditation_benchmark_id, assigned_user_id, cycle_id, due_date, status)
		 VALUES ($1, $2, $3, $4::date, 'pending')
		 RETURNING `+taskColumns,
		in.AccreditationBenchmarkID, in.AssignedUserID, in.CycleID, in.DueDate,
	)
	task, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// UpdateTask merges the non-nil fields of update in a single statement.
// When ExpectStatus is set the row is only changed if its status matches.
func (db *DB) UpdateTask(ctx context.Context, id int64, update store.TaskUpdate) (*types.Task, error) {
	return updateTask(ctx, db.pool, id, update)
}

func updateTask(ctx context.Context, q querier, id int64, update store.TaskUpdate) (*types.Task, error) {
	row := q.QueryRow(ctx,
		`UPDATE benchmark_tasks SET
		     status              = COALESCE($2, status),
		     uploaded_at         = COALESCE($3, uploaded_at),
		     reviewed_at         = COALESCE($4, reviewed_at),
		     coordinator_comment = COALESCE($5, coordinator_comment)
		 WHERE id = $1 AND ($6::text IS NULL OR status = $6)
		 RETURNING `+taskColumns,
		id,
		statusArg(update.Status),
		update.UploadedAt,
		update.ReviewedAt,
		update.CoordinatorComment,
		statusArg(update.ExpectStatus),
	)
	task, err := scanTask(row)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	// distinguish a missing row from a failed precondition
	var exists bool
	if err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM benchmark_tasks WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if !exists {
		return nil, store.ErrNotFound
	}
	return nil, store.ErrStatusConflict
}

func statusArg(s *types.TaskStatus) *string {
	if s == nil {
		return nil
	}
	v := string(*s)
	return &v
}

func scanTask(row pgx.Row) (*types.Task, error) {
	var (
		task       types.Task
		status     string
		uploadedAt *time.Time
		reviewedAt *time.Time
	)
	err := row.Scan(
		&task.ID,
		&task.AccreditationBenchmarkID,
		&task.AssignedUserID,
		&task.CycleID,
		&task.DueDate,
		&status,
		&task.CreatedAt,
		&uploadedAt,
		&reviewedAt,
		&task.CoordinatorComment,
	)
	if err != nil {
		return nil, err
	}
	task.Status = types.TaskStatus(status)
	task.CreatedAt = task.CreatedAt.UTC()
	task.UploadedAt = utcPtr(uploadedAt)
	task.ReviewedAt = utcPtr(reviewedAt)
	return &task, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
