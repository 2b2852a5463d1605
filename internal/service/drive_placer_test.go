package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/scheduler-api/internal/models"
)

func TestWeeklyLessonSlotsSkipsClassSlotOnClassDays(t *testing.T) {
	cells := weeklyLessonSlots(2, models.DefaultLessonSlots(), []string{"Tuesday", "Thursday"}, 6)
	for _, cell := range cells {
		if cell.Slot == models.ClassSlotName {
			assert.NotEqual(t, "Tuesday", cell.Day.String())
			assert.NotEqual(t, "Thursday", cell.Day.String())
		}
	}
}

func TestWeeklyLessonSlotsOffersClassSlotInFinalWeek(t *testing.T) {
	cells := weeklyLessonSlots(6, models.DefaultLessonSlots(), []string{"Tuesday", "Thursday"}, 6)
	found := false
	for _, cell := range cells {
		if cell.Slot == models.ClassSlotName && cell.Day.String() == "Tuesday" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestWeeklyLessonSlotsWeekendOffersLateSlotsOnly(t *testing.T) {
	cells := weeklyLessonSlots(2, models.DefaultLessonSlots(), []string{"Tuesday", "Thursday"}, 6)
	for _, cell := range cells {
		if !isWeekend(cell.Day) {
			continue
		}
		assert.Contains(t, models.WeekendSlotNames, cell.Slot)
	}
}

func TestBuildMasterPatternClaimsUniqueCells(t *testing.T) {
	cells := weeklyLessonSlots(2, models.DefaultLessonSlots(), []string{"Tuesday", "Thursday"}, 6)
	pattern, warnings := buildMasterPattern(5, cells)
	require.Empty(t, warnings)
	require.Len(t, pattern, 5)
	seen := map[weeklySlot]bool{}
	for _, cell := range pattern {
		assert.False(t, seen[cell], "cell %s claimed twice", cell)
		seen[cell] = true
	}
}

func TestPlaceDrivesFiveWeeksPerPair(t *testing.T) {
	start := date(2025, 3, 3)
	structure := models.StandardCourseStructure()
	placement := placeDrives("2025-01-HSS", start, 3, models.HolidaySet{}, structure, models.DefaultLessonSlots(), 6)
	require.Empty(t, placement.Warnings)
	require.Len(t, placement.Sessions, 15)

	// Every (date, slot) cell is used at most once.
	seen := map[string]bool{}
	for _, session := range placement.Sessions {
		key := session.Date + " " + session.Slot
		assert.False(t, seen[key], "cell %s double-booked", key)
		seen[key] = true
	}

	// Drive numbers follow the weekly pairing sequence.
	byWeek := map[int][]int{}
	for _, session := range placement.Sessions {
		byWeek[session.Week] = session.DriveNumbers
	}
	assert.Equal(t, []int{1, 2}, byWeek[2])
	assert.Equal(t, []int{9, 10}, byWeek[6])
}

func TestPlaceDrivesReschedulesHolidayCollisions(t *testing.T) {
	start := date(2025, 3, 3)
	structure := models.StandardCourseStructure()
	// The Monday of week two is blocked; the master pattern puts all three
	// pairs there.
	holidays := models.HolidaySet{"2025-03-10": "Staff Day"}
	placement := placeDrives("2025-01-HSS", start, 3, holidays, structure, models.DefaultLessonSlots(), 6)
	require.Empty(t, placement.Warnings)

	var rescheduled []models.DriveSession
	for _, session := range placement.Sessions {
		assert.NotEqual(t, "2025-03-10", session.Date)
		if session.Week == 2 {
			rescheduled = append(rescheduled, session)
		}
	}
	require.Len(t, rescheduled, 3)
	for _, session := range rescheduled {
		assert.True(t, session.IsBackupSlot)
		assert.NotEmpty(t, session.RescheduledFrom)
		assert.Contains(t, session.RescheduledFrom, "Monday")
	}
	// Backups land on the spare evening slot of Tuesday, Thursday, Sunday.
	dates := map[string]bool{}
	for _, session := range rescheduled {
		dates[fmt.Sprintf("%s %s", session.Date, session.Slot)] = true
	}
	assert.True(t, dates["2025-03-11 lesson_slot_5"])
	assert.True(t, dates["2025-03-13 lesson_slot_5"])
	assert.True(t, dates["2025-03-16 lesson_slot_5"])
}

func TestPlaceDrivesMarksWeekendSessions(t *testing.T) {
	start := date(2025, 3, 3)
	structure := models.StandardCourseStructure()
	// A two-slot table exhausts the weekday cells, spilling the last pairs
	// onto the weekend.
	table := models.LessonSlotTable{Slots: []models.LessonSlot{
		{Name: models.SlotLesson4, StartTime: "15:45", EndTime: "17:45", TermDays: "all"},
		{Name: models.SlotLesson5, StartTime: "18:00", EndTime: "20:00", TermDays: "all"},
	}}
	placement := placeDrives("2025-01-HSS", start, 10, models.HolidaySet{}, structure, table, 6)
	weekend := 0
	for _, session := range placement.Sessions {
		if session.IsWeekend {
			weekend++
			day, err := parseDate(session.Date)
			require.NoError(t, err)
			assert.True(t, isWeekend(day.Weekday()))
		}
	}
	assert.Greater(t, weekend, 0)
}

func TestWeekDriveNumbers(t *testing.T) {
	pairs := models.StandardCourseStructure().DrivingSessions.Pairs
	assert.Equal(t, []int{1, 2}, weekDriveNumbers(pairs, 2))
	assert.Equal(t, []int{11}, weekDriveNumbers(pairs, 7))
	assert.Nil(t, weekDriveNumbers(pairs, 1))
	assert.Nil(t, weekDriveNumbers(pairs, 8))
}
