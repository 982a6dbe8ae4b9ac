// Copyright (c) 2026 Danmu. All rights reserved.

package scheduler

import "time"

// ScheduledTask is a row of platform.scheduled_task: a named binding of a
// job_type to a cron expression.
type ScheduledTask struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	JobType        string     `json:"job_type"`
	CronExpression string     `json:"cron_expression"`
	IsEnabled      bool       `json:"is_enabled"`
	LastRunAt      *time.Time `json:"last_run_at,omitempty"`
	NextRunAt      *time.Time `json:"next_run_at,omitempty"`
}
