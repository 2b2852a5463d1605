package dto

import "github.com/drivedesk/scheduler-api/internal/models"

// InstructorResponse is the roster view of one instructor.
type InstructorResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"firstName"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	DisplayOrder int    `json:"displayOrder"`
	Active       bool   `json:"active"`
}

// UpdateAvailabilityRequest replaces an instructor's weekly template and
// school exclusions. Day keys are lowercase weekday names.
type UpdateAvailabilityRequest struct {
	WeeklyTemplate   models.WeeklyTemplate `json:"weeklyTemplate" validate:"required"`
	SchoolExclusions []string              `json:"schoolExclusions"`
}

// AddVacationRequest appends a blackout window.
type AddVacationRequest struct {
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"endDate" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"max=120"`
}

// AvailabilityRefreshResponse summarises a long-range regeneration run.
type AvailabilityRefreshResponse struct {
	Instructors  int    `json:"instructors"`
	HorizonDate  string `json:"horizonDate"`
	CellsWritten int    `json:"cellsWritten"`
}

// AssignInstructorsRequest triggers assignment for a stored program.
type AssignInstructorsRequest struct {
	// InstructorIDs optionally names the pool, two or three instructors, in
	// rotation order. Empty means the first active instructors in display
	// order.
	InstructorIDs []string `json:"instructorIds" validate:"omitempty,min=2,max=3,dive,uuid"`
}

// AssignInstructorsResponse reports assignment coverage.
type AssignInstructorsResponse struct {
	Program         string         `json:"program"`
	ClassesAssigned int            `json:"classesAssigned"`
	DrivesAssigned  int            `json:"drivesAssigned"`
	UnassignedCount int            `json:"unassignedCount"`
	PerInstructor   map[string]int `json:"perInstructor"`
}
