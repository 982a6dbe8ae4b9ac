// Copyright (c) 2026 Danmu. All rights reserved.

package task

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed task history store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Create(ctx context.Context, id, title string) error {
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)",
		schema.TaskHistory.Table, schema.TaskHistory.ID, schema.TaskHistory.Title,
		schema.TaskHistory.Status, schema.TaskHistory.Progress, schema.TaskHistory.Description,
	)
	_, err := r.pool.Exec(ctx, query, id, title, StatusPending, 0, "")
	return dberr.Wrap(err, "create task")
}

func (r *postgresRepository) UpdateProgress(ctx context.Context, id string, status Status, percent int, description string) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $1, %s = $2, %s = $3, %s = now() WHERE %s = $4",
		schema.TaskHistory.Table, schema.TaskHistory.Status, schema.TaskHistory.Progress,
		schema.TaskHistory.Description, schema.TaskHistory.UpdatedAt, schema.TaskHistory.ID,
	)
	_, err := r.pool.Exec(ctx, query, status, percent, description, id)
	return dberr.Wrap(err, "update task progress")
}

func (r *postgresRepository) Finish(ctx context.Context, id string, status Status, description string) error {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $1, %s = $2, %s = now(), %s = now() WHERE %s = $3",
		schema.TaskHistory.Table, schema.TaskHistory.Status, schema.TaskHistory.Description,
		schema.TaskHistory.UpdatedAt, schema.TaskHistory.FinishedAt, schema.TaskHistory.ID,
	)
	_, err := r.pool.Exec(ctx, query, status, description, id)
	return dberr.Wrap(err, "finish task")
}

var taskColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
	schema.TaskHistory.ID, schema.TaskHistory.Title, schema.TaskHistory.Status, schema.TaskHistory.Progress,
	schema.TaskHistory.Description, schema.TaskHistory.CreatedAt, schema.TaskHistory.UpdatedAt, schema.TaskHistory.FinishedAt,
)

func scanTask(row interface {
	Scan(dest ...any) error
}) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.Title, &t.Status, &t.Progress, &t.Description, &t.CreatedAt, &t.UpdatedAt, &t.FinishedAt)
	return t, err
}

func (r *postgresRepository) List(ctx context.Context) ([]Task, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s DESC", taskColumns, schema.TaskHistory.Table, schema.TaskHistory.CreatedAt)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list tasks")
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan task")
		}
		tasks = append(tasks, t)
	}
	return tasks, dberr.Wrap(rows.Err(), "list tasks")
}

func (r *postgresRepository) FindByID(ctx context.Context, id string) (*Task, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", taskColumns, schema.TaskHistory.Table, schema.TaskHistory.ID)
	t, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find task")
	}
	return &t, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.TaskHistory.Table, schema.TaskHistory.ID)
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete task")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) ReconcileInterrupted(ctx context.Context) (int64, error) {
	query := fmt.Sprintf(
		"UPDATE %s SET %s = $1, %s = 'interrupted by restart', %s = now(), %s = now() WHERE %s IN ($2, $3)",
		schema.TaskHistory.Table, schema.TaskHistory.Status, schema.TaskHistory.Description,
		schema.TaskHistory.UpdatedAt, schema.TaskHistory.FinishedAt, schema.TaskHistory.Status,
	)
	tag, err := r.pool.Exec(ctx, query, StatusFailed, StatusRunning, StatusPaused)
	if err != nil {
		return 0, dberr.Wrap(err, "reconcile interrupted tasks")
	}
	return tag.RowsAffected(), nil
}
