package models

import "time"

// TaskStatus is the state machine for background schedule generation.
type TaskStatus string

const (
	TaskStatusPending TaskStatus = "pending"
	TaskStatusRunning TaskStatus = "running"
	TaskStatusDone    TaskStatus = "done"
	TaskStatusError   TaskStatus = "error"
)

// Terminal reports whether the task has reached a final state.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusDone || s == TaskStatusError
}

// SchedulingTask tracks one queued program generation run. The status query
// is idempotent; polling never re-triggers generation.
type SchedulingTask struct {
	ID          string     `json:"id"`
	Status      TaskStatus `json:"status"`
	School      string     `json:"school"`
	ProgramName string     `json:"program_name,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}
