// Copyright (c) 2026 Danmu. All rights reserved.

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sorahq/danmu/internal/platform/apperr"
	"github.com/sorahq/danmu/internal/platform/database/schema"
	"github.com/sorahq/danmu/internal/platform/dberr"
	"github.com/sorahq/danmu/pkg/uuidv7"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed scheduled-task store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

var selectColumns = fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
	schema.ScheduledTask.ID, schema.ScheduledTask.Name, schema.ScheduledTask.JobType,
	schema.ScheduledTask.CronExpression, schema.ScheduledTask.IsEnabled,
	schema.ScheduledTask.LastRunAt, schema.ScheduledTask.NextRunAt,
)

func scanScheduledTask(row pgx.Row) (*ScheduledTask, error) {
	t := &ScheduledTask{}
	err := row.Scan(&t.ID, &t.Name, &t.JobType, &t.CronExpression, &t.IsEnabled, &t.LastRunAt, &t.NextRunAt)
	return t, err
}

func (r *postgresRepository) List(ctx context.Context) ([]ScheduledTask, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s ASC", selectColumns, schema.ScheduledTask.Table, schema.ScheduledTask.Name)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list scheduled tasks")
	}
	defer rows.Close()

	var out []ScheduledTask
	for rows.Next() {
		t, err := scanScheduledTask(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "scan scheduled task")
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (r *postgresRepository) FindByID(ctx context.Context, id string) (*ScheduledTask, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", selectColumns, schema.ScheduledTask.Table, schema.ScheduledTask.ID)
	t, err := scanScheduledTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find scheduled task")
	}
	return t, nil
}

func (r *postgresRepository) Create(ctx context.Context, name, jobType, cronExpression string, enabled bool) (*ScheduledTask, error) {
	id := uuidv7.New()
	query := fmt.Sprintf("INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5)",
		schema.ScheduledTask.Table, schema.ScheduledTask.ID, schema.ScheduledTask.Name,
		schema.ScheduledTask.JobType, schema.ScheduledTask.CronExpression, schema.ScheduledTask.IsEnabled)

	if _, err := r.pool.Exec(ctx, query, id, name, jobType, cronExpression, enabled); err != nil {
		return nil, dberr.Wrap(err, "create scheduled task")
	}
	return &ScheduledTask{ID: id, Name: name, JobType: jobType, CronExpression: cronExpression, IsEnabled: enabled}, nil
}

func (r *postgresRepository) Update(ctx context.Context, id, name, cronExpression string, enabled bool) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = $2, %s = $3 WHERE %s = $4",
		schema.ScheduledTask.Table, schema.ScheduledTask.Name, schema.ScheduledTask.CronExpression,
		schema.ScheduledTask.IsEnabled, schema.ScheduledTask.ID)

	tag, err := r.pool.Exec(ctx, query, name, cronExpression, enabled, id)
	if err != nil {
		return dberr.Wrap(err, "update scheduled task")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("ScheduledTask")
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.ScheduledTask.Table, schema.ScheduledTask.ID), id)
	if err != nil {
		return dberr.Wrap(err, "delete scheduled task")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("ScheduledTask")
	}
	return nil
}

func (r *postgresRepository) UpdateRunTimes(ctx context.Context, id string, lastRunAt, nextRunAt time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $1, %s = $2 WHERE %s = $3",
		schema.ScheduledTask.Table, schema.ScheduledTask.LastRunAt, schema.ScheduledTask.NextRunAt, schema.ScheduledTask.ID)

	_, err := r.pool.Exec(ctx, query, lastRunAt, nextRunAt, id)
	return dberr.Wrap(err, "update scheduled task run times")
}
