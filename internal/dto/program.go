package dto

import "github.com/drivedesk/scheduler-api/internal/models"

// GenerateProgramRequest captures POST /programs payload. Generation runs in
// the background; the response carries a task id to poll.
type GenerateProgramRequest struct {
	School       string               `json:"school" validate:"required,min=2,max=12"`
	StartDate    string               `json:"startDate" validate:"required,datetime=2006-01-02"`
	Variant      models.CourseVariant `json:"variant" validate:"omitempty,oneof=standard compressed"`
	StudentCount int                  `json:"studentCount" validate:"omitempty,min=0,max=30"`
	Students     []string             `json:"students" validate:"omitempty,dive,min=1"`
}

// GenerateProgramResponse acknowledges a queued generation run.
type GenerateProgramResponse struct {
	TaskID string            `json:"taskId"`
	Status models.TaskStatus `json:"status"`
	School string            `json:"school"`
}

// TaskStatusResponse exposes generation progress. Polling is idempotent.
type TaskStatusResponse struct {
	TaskID      string            `json:"taskId"`
	Status      models.TaskStatus `json:"status"`
	ProgramName string            `json:"programName,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// ProgramResponse is the stored program without the bulky schedule payloads.
type ProgramResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	School       string               `json:"school"`
	StartDate    string               `json:"startDate"`
	EndDate      string               `json:"endDate"`
	Status       models.ProgramStatus `json:"status"`
	Variant      models.CourseVariant `json:"variant"`
	StudentCount int                  `json:"studentCount"`
}

// ScheduleResponse is the merged day-by-day program view.
type ScheduleResponse struct {
	Program         string               `json:"program"`
	Days            []models.DaySchedule `json:"days"`
	UnassignedCount int                  `json:"unassignedCount"`
	Warnings        []string             `json:"warnings,omitempty"`
}

// ProgramQuery filters program listings.
type ProgramQuery struct {
	School string `form:"school" json:"school"`
	Status string `form:"status" json:"status" validate:"omitempty,oneof=planned active scheduled"`
}
