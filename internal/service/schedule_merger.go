package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/drivedesk/scheduler-api/internal/models"
)

// mergeSchedules folds classes, drives and holidays into the day-by-day
// program view handed to the front office.
func mergeSchedules(
	start, end time.Time,
	holidays models.HolidaySet,
	classes []models.ClassSession,
	drives []models.DriveSession,
	table models.LessonSlotTable,
) []models.DaySchedule {
	slotNames := table.SchedulableNames()

	days := make([]models.DaySchedule, 0, int(end.Sub(start).Hours()/24)+1)
	byDate := make(map[string]*models.DaySchedule)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		day := models.DaySchedule{
			Date:  date,
			Day:   dayName(d),
			Week:  programWeek(start, d),
			Slots: make(map[string]models.SlotAssignment, len(slotNames)),
		}
		if name, ok := holidays[date]; ok {
			day.IsVacation = true
			for _, slot := range slotNames {
				day.Slots[slot] = models.SlotAssignment{
					Type:        models.SlotTypeVacation,
					Title:       name,
					HolidayName: name,
				}
			}
		}
		days = append(days, day)
		byDate[date] = &days[len(days)-1]
	}

	// Orientation opens the program on the start date. A class placed on the
	// same evening takes the cell.
	if day, ok := byDate[start.Format(dateLayout)]; ok && !day.IsVacation {
		day.Slots[models.ClassSlotName] = models.SlotAssignment{
			Type:  models.SlotTypeOrientation,
			Title: "Orientation",
			Week:  1,
		}
	}

	for _, class := range classes {
		day, ok := byDate[class.Date]
		if !ok {
			continue
		}
		day.Slots[models.ClassSlotName] = models.SlotAssignment{
			Type:        models.SlotTypeClass,
			Title:       fmt.Sprintf("Class %d", class.ClassNumber),
			ClassNumber: class.ClassNumber,
			Week:        class.Week,
			Status:      class.Status,
			Instructor:  class.Instructor,
		}
	}

	for _, drive := range drives {
		day, ok := byDate[drive.Date]
		if !ok {
			continue
		}
		day.Slots[drive.Slot] = models.SlotAssignment{
			Type:         models.SlotTypeDrive,
			Title:        driveTitle(drive),
			PairLetter:   drive.PairLetter,
			DriveNumbers: drive.DriveNumbers,
			Week:         drive.Week,
			IsBackupSlot: drive.IsBackupSlot,
			IsWeekend:    drive.IsWeekend,
			Instructor:   drive.Instructor,
			Status:       drive.Status,
		}
	}
	return days
}

func driveTitle(drive models.DriveSession) string {
	numbers := make([]string, 0, len(drive.DriveNumbers))
	for _, n := range drive.DriveNumbers {
		numbers = append(numbers, fmt.Sprintf("%d", n))
	}
	return fmt.Sprintf("Pair %s: Drives [%s]", drive.PairLetter, strings.Join(numbers, ", "))
}
