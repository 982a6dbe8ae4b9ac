// Copyright (c) 2026 Danmu. All rights reserved.

package schema

// TaskHistoryTable represents 'platform.task_history' (component H).
type TaskHistoryTable struct {
	Table       string
	ID          string
	Title       string
	Status      string
	Progress    string
	Description string
	CreatedAt   string
	UpdatedAt   string
	FinishedAt  string
}

var TaskHistory = TaskHistoryTable{
	Table:       "platform.task_history",
	ID:          "id",
	Title:       "title",
	Status:      "status",
	Progress:    "progress",
	Description: "description",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
	FinishedAt:  "finished_at",
}

// ScheduledTaskTable represents 'platform.scheduled_task' (component I).
type ScheduledTaskTable struct {
	Table          string
	ID             string
	Name           string
	JobType        string
	CronExpression string
	IsEnabled      string
	LastRunAt      string
	NextRunAt      string
}

var ScheduledTask = ScheduledTaskTable{
	Table:          "platform.scheduled_task",
	ID:             "id",
	Name:           "name",
	JobType:        "job_type",
	CronExpression: "cron_expression",
	IsEnabled:      "is_enabled",
	LastRunAt:      "last_run_at",
	NextRunAt:      "next_run_at",
}
