package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ProgramStatus tracks a program's lifecycle.
type ProgramStatus string

const (
	ProgramStatusPlanned   ProgramStatus = "planned"
	ProgramStatusActive    ProgramStatus = "active"
	ProgramStatusScheduled ProgramStatus = "scheduled"
)

// Program is a scheduled classroom offering for one school, named
// YEAR-SEQUENCE-SCHOOL (e.g. 2025-03-HSS).
type Program struct {
	ID                string         `db:"id" json:"id"`
	Name              string         `db:"name" json:"name"`
	School            string         `db:"school" json:"school"`
	Sequence          int            `db:"sequence" json:"sequence"`
	StartDate         time.Time      `db:"start_date" json:"start_date"`
	EndDate           time.Time      `db:"end_date" json:"end_date"`
	Status            ProgramStatus  `db:"status" json:"status"`
	Variant           CourseVariant  `db:"variant" json:"variant"`
	StudentList       types.JSONText `db:"student_list" json:"student_list"`
	ClassSchedule     types.JSONText `db:"class_schedule" json:"class_schedule"`
	DriveSchedule     types.JSONText `db:"drive_schedule" json:"drive_schedule"`
	CompleteSchedule  types.JSONText `db:"complete_schedule" json:"complete_schedule"`
	AnnotatedSchedule types.JSONText `db:"annotated_schedule" json:"annotated_schedule"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// ClassSession is one placed classroom lecture.
type ClassSession struct {
	ClassNumber int    `json:"class_number"`
	Date        string `json:"date"`
	Week        int    `json:"week"`
	Day         string `json:"day"`
	Instructor  string `json:"instructor,omitempty"`
	Status      string `json:"status"`
}

// DriveSession is one placed behind-the-wheel session for a student pair.
type DriveSession struct {
	Program         string `json:"program"`
	PairLetter      string `json:"pair_letter"`
	DriveNumbers    []int  `json:"drive_numbers"`
	Date            string `json:"date"`
	Slot            string `json:"slot"`
	Week            int    `json:"week"`
	IsBackupSlot    bool   `json:"is_backup_slot"`
	IsWeekend       bool   `json:"is_weekend"`
	RescheduledFrom string `json:"rescheduled_from,omitempty"`
	Instructor      string `json:"instructor,omitempty"`
	Status          string `json:"status"`
}

// SlotType tags the occupancy of one (date, slot) cell in the merged view.
type SlotType string

const (
	SlotTypeNone        SlotType = ""
	SlotTypeClass       SlotType = "class"
	SlotTypeDrive       SlotType = "drive"
	SlotTypeVacation    SlotType = "vacation"
	SlotTypeOrientation SlotType = "orientation"
)

// SlotAssignment is the tagged occupant of a merged-schedule cell. Only the
// fields relevant to the Type are populated.
type SlotAssignment struct {
	Type         SlotType `json:"type"`
	Title        string   `json:"title,omitempty"`
	HolidayName  string   `json:"holiday_name,omitempty"`
	ClassNumber  int      `json:"class_number,omitempty"`
	PairLetter   string   `json:"pair_letter,omitempty"`
	DriveNumbers []int    `json:"drive_numbers,omitempty"`
	Week         int      `json:"week,omitempty"`
	IsBackupSlot bool     `json:"is_backup_slot,omitempty"`
	IsWeekend    bool     `json:"is_weekend,omitempty"`
	Instructor   string   `json:"instructor,omitempty"`
	Status       string   `json:"status,omitempty"`
}

// DaySchedule is one calendar day of the merged program view.
type DaySchedule struct {
	Date       string                    `json:"date"`
	Day        string                    `json:"day"`
	Week       int                       `json:"week"`
	IsVacation bool                      `json:"is_vacation"`
	Slots      map[string]SlotAssignment `json:"slots"`
}

// HolidaySet maps ISO date strings onto holiday names.
type HolidaySet map[string]string

// Contains reports whether the date is a holiday.
func (h HolidaySet) Contains(date string) bool {
	_, ok := h[date]
	return ok
}
