package service

import (
	"fmt"
	"time"

	"github.com/drivedesk/scheduler-api/internal/models"
)

const dateLayout = "2006-01-02"

// InsufficientDaysError reports that the lookahead window could not supply
// enough non-holiday days for a program.
type InsufficientDaysError struct {
	Needed int
	Found  int
}

func (e *InsufficientDaysError) Error() string {
	return fmt.Sprintf("insufficient available days: need %d, found %d (short %d)", e.Needed, e.Found, e.Needed-e.Found)
}

// availableDays walks forward from start collecting non-holiday dates until
// needed days are found or the lookahead window is exhausted.
func availableDays(start time.Time, holidays models.HolidaySet, needed, lookaheadDays int) ([]time.Time, error) {
	days := make([]time.Time, 0, needed)
	for offset := 0; offset < lookaheadDays; offset++ {
		day := start.AddDate(0, 0, offset)
		if holidays.Contains(day.Format(dateLayout)) {
			continue
		}
		days = append(days, day)
		if len(days) == needed {
			return days, nil
		}
	}
	return days, &InsufficientDaysError{Needed: needed, Found: len(days)}
}

// dayName returns the capitalized English weekday name.
func dayName(t time.Time) string {
	return t.Weekday().String()
}

// lowerDayName returns the lowercase weekday name used as template keys.
func lowerDayName(t time.Time) string {
	switch t.Weekday() {
	case time.Monday:
		return "monday"
	case time.Tuesday:
		return "tuesday"
	case time.Wednesday:
		return "wednesday"
	case time.Thursday:
		return "thursday"
	case time.Friday:
		return "friday"
	case time.Saturday:
		return "saturday"
	default:
		return "sunday"
	}
}

// weekOrder is Monday-first, matching the pattern walk and weekly templates.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// mondayIndex maps a weekday onto its Monday-first offset 0-6.
func mondayIndex(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}

func isWeekend(d time.Weekday) bool {
	return d == time.Saturday || d == time.Sunday
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse(dateLayout, raw)
}

// programWeek returns the 1-based week index of a date relative to start.
func programWeek(start, date time.Time) int {
	return int(date.Sub(start).Hours()/24)/7 + 1
}
