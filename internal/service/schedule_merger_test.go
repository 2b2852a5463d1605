package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/scheduler-api/internal/models"
)

func TestMergeSchedulesCoversEveryDay(t *testing.T) {
	start := date(2025, 3, 3)
	end := start.AddDate(0, 0, 42)
	days := mergeSchedules(start, end, models.HolidaySet{}, nil, nil, models.DefaultLessonSlots())
	require.Len(t, days, 43)
	assert.Equal(t, "2025-03-03", days[0].Date)
	assert.Equal(t, "Monday", days[0].Day)
	assert.Equal(t, 1, days[0].Week)
	assert.Equal(t, 7, days[42].Week)
}

func TestMergeSchedulesPrefillsHolidaySlots(t *testing.T) {
	start := date(2025, 3, 3)
	end := start.AddDate(0, 0, 6)
	holidays := models.HolidaySet{"2025-03-05": "Staff Day"}
	days := mergeSchedules(start, end, holidays, nil, nil, models.DefaultLessonSlots())

	holiday := days[2]
	require.True(t, holiday.IsVacation)
	require.Len(t, holiday.Slots, 5)
	for _, assignment := range holiday.Slots {
		assert.Equal(t, models.SlotTypeVacation, assignment.Type)
		assert.Equal(t, "Staff Day", assignment.HolidayName)
	}
}

func TestMergeSchedulesPlacesClassesAndDrives(t *testing.T) {
	start := date(2025, 3, 3)
	end := start.AddDate(0, 0, 13)
	classes := []models.ClassSession{
		{ClassNumber: 1, Date: "2025-03-04", Week: 1, Day: "Tuesday", Status: "scheduled", Instructor: "Alex"},
	}
	drives := []models.DriveSession{
		{PairLetter: "A", DriveNumbers: []int{1, 2}, Date: "2025-03-10", Slot: models.SlotLesson1, Week: 2, Status: "scheduled", Instructor: "Blair"},
	}
	days := mergeSchedules(start, end, models.HolidaySet{}, classes, drives, models.DefaultLessonSlots())

	classDay := days[1]
	classCell := classDay.Slots[models.ClassSlotName]
	assert.Equal(t, models.SlotTypeClass, classCell.Type)
	assert.Equal(t, "Class 1", classCell.Title)
	assert.Equal(t, "Alex", classCell.Instructor)

	driveDay := days[7]
	driveCell := driveDay.Slots[models.SlotLesson1]
	assert.Equal(t, models.SlotTypeDrive, driveCell.Type)
	assert.Equal(t, "Pair A: Drives [1, 2]", driveCell.Title)
	assert.Equal(t, 2, driveCell.Week)
	assert.Equal(t, "Blair", driveCell.Instructor)
}

func TestMergeSchedulesOpensWithOrientation(t *testing.T) {
	start := date(2025, 3, 3)
	end := start.AddDate(0, 0, 6)
	days := mergeSchedules(start, end, models.HolidaySet{}, nil, nil, models.DefaultLessonSlots())

	opening := days[0].Slots[models.ClassSlotName]
	assert.Equal(t, models.SlotTypeOrientation, opening.Type)
	assert.Equal(t, "Orientation", opening.Title)

	// A holiday on the start date wins over orientation.
	holidays := models.HolidaySet{"2025-03-03": "Staff Day"}
	days = mergeSchedules(start, end, holidays, nil, nil, models.DefaultLessonSlots())
	assert.Equal(t, models.SlotTypeVacation, days[0].Slots[models.ClassSlotName].Type)
}
