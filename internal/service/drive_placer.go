package service

import (
	"fmt"
	"time"

	"github.com/drivedesk/scheduler-api/internal/models"
)

// weeklySlot is one schedulable (weekday, slot) cell of a program week.
type weeklySlot struct {
	Day  time.Weekday
	Slot string
}

func (w weeklySlot) String() string {
	return w.Day.String() + " " + w.Slot
}

// backupDays carry the spare evening slot used when a drive collides with a
// holiday. The evening slot is free there: Tuesday and Thursday host classes
// in the early weeks and Sunday has no classes at all.
var backupDays = []time.Weekday{time.Tuesday, time.Thursday, time.Sunday}

func isBackupDay(d time.Weekday) bool {
	for _, day := range backupDays {
		if day == d {
			return true
		}
	}
	return false
}

// weeklyLessonSlots enumerates the drive-capable cells of one program week in
// Monday-first order. On weekdays every non-break all-term slot is offered,
// minus the evening class slot on class days while classes still run. On
// weekends only the two late slots and any weekend-term slots are offered.
func weeklyLessonSlots(week int, table models.LessonSlotTable, classDays []string, programWeeks int) []weeklySlot {
	classDaySet := make(map[string]bool, len(classDays))
	for _, day := range classDays {
		classDaySet[day] = true
	}

	var cells []weeklySlot
	for _, weekday := range weekOrder {
		if !isWeekend(weekday) {
			for _, slot := range table.Slots {
				if slot.Break || slot.TermDays != "all" {
					continue
				}
				if slot.Name == models.ClassSlotName && week < programWeeks && classDaySet[weekday.String()] {
					continue
				}
				cells = append(cells, weeklySlot{Day: weekday, Slot: slot.Name})
			}
			continue
		}
		for _, name := range models.WeekendSlotNames {
			cells = append(cells, weeklySlot{Day: weekday, Slot: name})
		}
		for _, slot := range table.Slots {
			if slot.Break || slot.TermDays == "all" || !slot.AppliesOn(weekday.String()) {
				continue
			}
			cells = append(cells, weeklySlot{Day: weekday, Slot: slot.Name})
		}
	}
	return cells
}

// buildMasterPattern claims one weekly cell per pair, walking the week in
// order. The pattern repeats across drive weeks.
func buildMasterPattern(pairCount int, cells []weeklySlot) ([]weeklySlot, []string) {
	pattern := make([]weeklySlot, 0, pairCount)
	var warnings []string
	used := make(map[weeklySlot]bool)
	for pair := 0; pair < pairCount; pair++ {
		placed := false
		for _, cell := range cells {
			if used[cell] {
				continue
			}
			used[cell] = true
			pattern = append(pattern, cell)
			placed = true
			break
		}
		if !placed {
			warnings = append(warnings,
				fmt.Sprintf("no weekly slot left for pair %s", pairLetter(pair)))
			pattern = append(pattern, weeklySlot{})
		}
	}
	return pattern, warnings
}

func pairLetter(index int) string {
	return string(rune('A' + index))
}

// drivePlacement is the outcome of laying drives onto the calendar.
type drivePlacement struct {
	Sessions []models.DriveSession
	Warnings []string
}

// placeDrives instantiates the master pattern on weeks two onward, pushing
// holiday collisions into backup cells. Drives start the second week so the
// opening classes come first.
func placeDrives(
	programName string,
	start time.Time,
	pairCount int,
	holidays models.HolidaySet,
	structure models.CourseStructure,
	table models.LessonSlotTable,
	programWeeks int,
) drivePlacement {
	placement := drivePlacement{}
	if pairCount <= 0 {
		return placement
	}

	cells := weeklyLessonSlots(2, table, structure.ClassSessions.ClassDays, programWeeks)
	pattern, warnings := buildMasterPattern(pairCount, cells)
	placement.Warnings = append(placement.Warnings, warnings...)

	for week := 2; week <= programWeeks; week++ {
		driveNumbers := weekDriveNumbers(structure.DrivingSessions.Pairs, week)
		weekStart := start.AddDate(0, 0, (week-1)*7)
		used := make(map[weeklySlot]bool)
		type rescheduled struct {
			pair   int
			master weeklySlot
		}
		var pending []rescheduled

		for pair := 0; pair < pairCount; pair++ {
			master := pattern[pair]
			if master.Slot == "" {
				continue
			}
			date := weekStart.AddDate(0, 0, mondayIndex(master.Day))
			if holidays.Contains(date.Format(dateLayout)) {
				pending = append(pending, rescheduled{pair: pair, master: master})
				continue
			}
			used[master] = true
			placement.Sessions = append(placement.Sessions, models.DriveSession{
				Program:      programName,
				PairLetter:   pairLetter(pair),
				DriveNumbers: driveNumbers,
				Date:         date.Format(dateLayout),
				Slot:         master.Slot,
				Week:         week,
				IsBackupSlot: isBackupDay(master.Day),
				IsWeekend:    isWeekend(master.Day),
				Status:       "scheduled",
			})
		}

		for _, item := range pending {
			cell, ok := findBackupCell(weekStart, holidays, used,
				weeklyLessonSlots(week, table, structure.ClassSessions.ClassDays, programWeeks))
			if !ok {
				placement.Warnings = append(placement.Warnings,
					fmt.Sprintf("could not reschedule pair %s in week %d: no open slot", pairLetter(item.pair), week))
				continue
			}
			used[cell] = true
			date := weekStart.AddDate(0, 0, mondayIndex(cell.Day))
			placement.Sessions = append(placement.Sessions, models.DriveSession{
				Program:         programName,
				PairLetter:      pairLetter(item.pair),
				DriveNumbers:    driveNumbers,
				Date:            date.Format(dateLayout),
				Slot:            cell.Slot,
				Week:            week,
				IsBackupSlot:    true,
				IsWeekend:       isWeekend(cell.Day),
				RescheduledFrom: item.master.String(),
				Status:          "scheduled",
			})
		}
	}
	return placement
}

// findBackupCell prefers the spare evening slot on backup days, then falls
// back to any open cell of the week.
func findBackupCell(weekStart time.Time, holidays models.HolidaySet, used map[weeklySlot]bool, cells []weeklySlot) (weeklySlot, bool) {
	for _, day := range backupDays {
		cell := weeklySlot{Day: day, Slot: models.ClassSlotName}
		if used[cell] {
			continue
		}
		date := weekStart.AddDate(0, 0, mondayIndex(day))
		if holidays.Contains(date.Format(dateLayout)) {
			continue
		}
		return cell, true
	}
	for _, cell := range cells {
		if used[cell] {
			continue
		}
		date := weekStart.AddDate(0, 0, mondayIndex(cell.Day))
		if holidays.Contains(date.Format(dateLayout)) {
			continue
		}
		return cell, true
	}
	return weeklySlot{}, false
}

// weekDriveNumbers returns the drive numbers taught in a given program week.
func weekDriveNumbers(pairs [][]int, week int) []int {
	index := week - 2
	if index < 0 || index >= len(pairs) {
		return nil
	}
	return pairs[index]
}
