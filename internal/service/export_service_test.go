package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/scheduler-api/internal/dto"
	"github.com/drivedesk/scheduler-api/internal/models"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
)

func newExportServiceForTest(views []*models.InstructorAvailability, programs programReader) *ExportService {
	service := NewExportService(programs, holidayStub{}, availabilityStub{views: views}, models.DefaultLessonSlots(), 7, nil, nil)
	service.now = func() time.Time { return date(2025, 3, 3) }
	return service
}

func TestExportCapacityReportCSV(t *testing.T) {
	views := []*models.InstructorAvailability{{
		InstructorID: "i1",
		Weekly:       templateFor("monday", models.StatusYes, models.SlotLesson1),
		LongRange:    models.LongRangeAvailability{},
	}}
	service := newExportServiceForTest(views, newProgramStoreStub())

	content, filename, err := service.CapacityReportCSV(context.Background(), dto.CapacityReportQuery{School: "HSS", Days: 7})
	require.NoError(t, err)
	assert.Equal(t, "HSS-capacity-2025-03-03.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "Date,Day,Drive Slots,Holiday", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "2025-03-03,Monday,1"))
	assert.True(t, strings.HasPrefix(lines[2], "2025-03-04,Tuesday,0"))
}

func TestExportSchedulePDF(t *testing.T) {
	programs := newProgramStoreStub()
	storedProgram(t, programs,
		[]models.ClassSession{{ClassNumber: 1, Date: "2025-03-04", Week: 1, Day: "Tuesday", Status: "scheduled"}},
		nil)
	program, err := programs.GetByName(context.Background(), "2025-01-HSS")
	require.NoError(t, err)

	// Attach a merged view so the export has rows.
	merged := mergeSchedules(program.StartDate, program.EndDate, models.HolidaySet{},
		[]models.ClassSession{{ClassNumber: 1, Date: "2025-03-04", Week: 1, Day: "Tuesday", Status: "scheduled"}},
		nil, models.DefaultLessonSlots())
	payload, err := marshalJSON(merged)
	require.NoError(t, err)
	program.CompleteSchedule = payload
	require.NoError(t, programs.UpdateSchedules(context.Background(), nil, program))

	service := newExportServiceForTest(nil, programs)
	content, filename, err := service.SchedulePDF(context.Background(), "2025-01-HSS")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-HSS-schedule.pdf", filename)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

func TestExportSchedulePDFProgramMissing(t *testing.T) {
	service := newExportServiceForTest(nil, newProgramStoreStub())
	_, _, err := service.SchedulePDF(context.Background(), "2025-99-XYZ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
