package service

import (
	"fmt"
	"time"

	"github.com/drivedesk/scheduler-api/internal/models"
)

// classPlacement is the outcome of placing the classroom series.
type classPlacement struct {
	Sessions []models.ClassSession
	Warnings []string
}

// placeClasses lays the lecture series onto the available days. Classes land
// on the configured weekdays, advancing one week per classes-per-week block.
// A class that cannot find its weekday within the available days stops the
// walk; earlier placements stand.
func placeClasses(start time.Time, available []time.Time, cfg models.ClassSessionsConfig) classPlacement {
	placement := classPlacement{Sessions: make([]models.ClassSession, 0, cfg.TotalSessions)}
	if len(cfg.ClassDays) == 0 || cfg.ClassesPerWeek <= 0 {
		placement.Warnings = append(placement.Warnings, "class days not configured")
		return placement
	}

	week := 1
	for current := 1; current <= cfg.TotalSessions; current++ {
		day := cfg.ClassDays[(current-1)%len(cfg.ClassDays)]
		target := start.AddDate(0, 0, (week-1)*7)
		date, ok := firstMatchingDay(available, target, day)
		if !ok {
			placement.Warnings = append(placement.Warnings,
				fmt.Sprintf("could not place class %d: no available %s on or after %s", current, day, target.Format(dateLayout)))
			break
		}
		placement.Sessions = append(placement.Sessions, models.ClassSession{
			ClassNumber: current,
			Date:        date.Format(dateLayout),
			Week:        programWeek(start, date),
			Day:         dayName(date),
			Status:      "scheduled",
		})
		if current%cfg.ClassesPerWeek == 0 {
			week++
		}
	}
	return placement
}

// firstMatchingDay finds the earliest available day on or after target whose
// weekday matches name.
func firstMatchingDay(available []time.Time, target time.Time, name string) (time.Time, bool) {
	for _, day := range available {
		if day.Before(target) {
			continue
		}
		if dayName(day) == name {
			return day, true
		}
	}
	return time.Time{}, false
}
