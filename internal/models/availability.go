package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// AvailabilityCode is the numeric state of one (date, slot) cell in an
// instructor's long-range availability map.
type AvailabilityCode int

const (
	AvailabilityUnavailable AvailabilityCode = 0
	AvailabilityAny         AvailabilityCode = 1
	AvailabilityDriveOnly   AvailabilityCode = 2
	AvailabilityClassOnly   AvailabilityCode = 3
	AvailabilityScheduled   AvailabilityCode = 4
	AvailabilityBooked      AvailabilityCode = 5
	AvailabilityVacation    AvailabilityCode = 6
)

// Weekly-template status strings as entered by instructors.
const (
	StatusNo        = "No"
	StatusYes       = "Yes"
	StatusDriveOnly = "Drive Only"
	StatusClassOnly = "Class Only"
)

// ParseAvailabilityStatus maps a weekly-template status string onto its code.
// Unknown strings are treated as unavailable.
func ParseAvailabilityStatus(status string) AvailabilityCode {
	switch status {
	case StatusYes:
		return AvailabilityAny
	case StatusDriveOnly:
		return AvailabilityDriveOnly
	case StatusClassOnly:
		return AvailabilityClassOnly
	default:
		return AvailabilityUnavailable
	}
}

// CanTeachClass reports whether the code permits a classroom assignment.
func (c AvailabilityCode) CanTeachClass() bool {
	return c == AvailabilityAny || c == AvailabilityClassOnly
}

// CanTeachDrive reports whether the code permits a drive assignment.
func (c AvailabilityCode) CanTeachDrive() bool {
	return c == AvailabilityAny || c == AvailabilityDriveOnly
}

// WeeklyTemplate maps lowercase day name -> slot name -> status string.
type WeeklyTemplate map[string]map[string]string

// LongRangeAvailability maps ISO date string -> slot name -> code, covering a
// rolling forward horizon. Codes 4-6 written into it are never overwritten by
// template regeneration.
type LongRangeAvailability map[string]map[string]AvailabilityCode

// Code returns the cell value, defaulting to unavailable for unknown cells.
func (a LongRangeAvailability) Code(date, slot string) AvailabilityCode {
	if day, ok := a[date]; ok {
		if code, ok := day[slot]; ok {
			return code
		}
	}
	return AvailabilityUnavailable
}

// Set writes a cell, creating the day map when missing.
func (a LongRangeAvailability) Set(date, slot string, code AvailabilityCode) {
	day, ok := a[date]
	if !ok {
		day = make(map[string]AvailabilityCode)
		a[date] = day
	}
	day[slot] = code
}

// LastDate returns the latest date key present, or the zero time when empty.
func (a LongRangeAvailability) LastDate() time.Time {
	var last time.Time
	for date := range a {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		if parsed.After(last) {
			last = parsed
		}
	}
	return last
}

// VacationRange is one blackout window for an instructor.
type VacationRange struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason"`
}

// Dates expands the range into individual ISO date strings, inclusive.
func (v VacationRange) Dates() []string {
	start, err := time.Parse("2006-01-02", v.StartDate)
	if err != nil {
		return nil
	}
	end, err := time.Parse("2006-01-02", v.EndDate)
	if err != nil || end.Before(start) {
		return nil
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format("2006-01-02"))
	}
	return dates
}

// InstructorSchedule is the persisted availability record for one instructor.
type InstructorSchedule struct {
	ID               string         `db:"id" json:"id"`
	InstructorID     string         `db:"instructor_id" json:"instructor_id"`
	WeeklyTemplate   types.JSONText `db:"weekly_template" json:"weekly_template"`
	LongRange        types.JSONText `db:"long_range" json:"long_range"`
	Vacations        types.JSONText `db:"vacations" json:"vacations"`
	SchoolExclusions types.JSONText `db:"school_exclusions" json:"school_exclusions"`
	CreatedAt        time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updated_at"`
}

// InstructorAvailability is the decoded, in-memory view of a schedule record.
type InstructorAvailability struct {
	InstructorID     string
	DisplayName      string
	Weekly           WeeklyTemplate
	LongRange        LongRangeAvailability
	Vacations        []VacationRange
	SchoolExclusions []string
}

// ExcludesSchool reports whether the instructor has opted out of a school.
func (ia *InstructorAvailability) ExcludesSchool(school string) bool {
	for _, s := range ia.SchoolExclusions {
		if s == school {
			return true
		}
	}
	return false
}

// OnVacation reports whether the date falls inside any vacation range.
func (ia *InstructorAvailability) OnVacation(date string) bool {
	for _, v := range ia.Vacations {
		if v.StartDate <= date && date <= v.EndDate {
			return true
		}
	}
	return false
}
