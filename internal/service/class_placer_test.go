package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/scheduler-api/internal/models"
)

func TestPlaceClassesStandardSeries(t *testing.T) {
	start := date(2025, 3, 3) // a Monday
	days, err := availableDays(start, models.HolidaySet{}, 56, 90)
	require.NoError(t, err)

	placement := placeClasses(start, days, models.StandardCourseStructure().ClassSessions)
	require.Empty(t, placement.Warnings)
	require.Len(t, placement.Sessions, 15)

	first := placement.Sessions[0]
	assert.Equal(t, 1, first.ClassNumber)
	assert.Equal(t, "2025-03-04", first.Date)
	assert.Equal(t, "Tuesday", first.Day)
	assert.Equal(t, 1, first.Week)

	second := placement.Sessions[1]
	assert.Equal(t, "2025-03-06", second.Date)
	assert.Equal(t, "Thursday", second.Day)

	last := placement.Sessions[14]
	assert.Equal(t, 15, last.ClassNumber)
	assert.Equal(t, "2025-04-22", last.Date)
	assert.Equal(t, "Tuesday", last.Day)
	assert.Equal(t, 8, last.Week)
}

func TestPlaceClassesPushesPastHoliday(t *testing.T) {
	start := date(2025, 3, 3)
	holidays := models.HolidaySet{"2025-03-04": "Staff Day"}
	days, err := availableDays(start, holidays, 56, 90)
	require.NoError(t, err)

	placement := placeClasses(start, days, models.StandardCourseStructure().ClassSessions)
	require.NotEmpty(t, placement.Sessions)
	// The first Tuesday is blocked, so class one lands a week later.
	assert.Equal(t, "2025-03-11", placement.Sessions[0].Date)
	assert.Equal(t, "Tuesday", placement.Sessions[0].Day)
}

func TestPlaceClassesPartialWhenWindowTooShort(t *testing.T) {
	start := date(2025, 3, 3)
	days, err := availableDays(start, models.HolidaySet{}, 56, 14)
	require.Error(t, err)
	require.Len(t, days, 14)

	placement := placeClasses(start, days, models.StandardCourseStructure().ClassSessions)
	assert.Less(t, len(placement.Sessions), 15)
	assert.NotEmpty(t, placement.Warnings)
}

func TestPlaceClassesCompressedUsesThreeDays(t *testing.T) {
	start := date(2025, 3, 3)
	days, err := availableDays(start, models.HolidaySet{}, 49, 90)
	require.NoError(t, err)

	placement := placeClasses(start, days, models.CompressedCourseStructure().ClassSessions)
	require.Len(t, placement.Sessions, 15)
	assert.Equal(t, "Monday", placement.Sessions[0].Day)
	assert.Equal(t, "Wednesday", placement.Sessions[1].Day)
	assert.Equal(t, "Friday", placement.Sessions[2].Day)
	// Three classes a week wraps up inside five weeks.
	assert.Equal(t, 5, placement.Sessions[14].Week)
}
