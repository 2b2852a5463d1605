package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/scheduler-api/internal/dto"
	"github.com/drivedesk/scheduler-api/internal/models"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
)

type scheduleRepoStub struct {
	records map[string]*models.InstructorSchedule
}

func newScheduleRepoStub() *scheduleRepoStub {
	return &scheduleRepoStub{records: map[string]*models.InstructorSchedule{}}
}

func (s *scheduleRepoStub) GetByInstructor(ctx context.Context, instructorID string) (*models.InstructorSchedule, error) {
	record, ok := s.records[instructorID]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (s *scheduleRepoStub) ListAll(ctx context.Context) ([]models.InstructorSchedule, error) {
	var list []models.InstructorSchedule
	for _, record := range s.records {
		list = append(list, *record)
	}
	return list, nil
}

func (s *scheduleRepoStub) Upsert(ctx context.Context, exec sqlx.ExtContext, schedule *models.InstructorSchedule) error {
	clone := *schedule
	s.records[schedule.InstructorID] = &clone
	return nil
}

func (s *scheduleRepoStub) UpdateLongRange(ctx context.Context, exec sqlx.ExtContext, instructorID string, longRange []byte) error {
	record, ok := s.records[instructorID]
	if !ok {
		return errors.New("not found")
	}
	record.LongRange = types.JSONText(longRange)
	return nil
}

type instructorReaderStub struct {
	instructors []models.Instructor
}

func (s instructorReaderStub) ListActive(ctx context.Context) ([]models.Instructor, error) {
	return s.instructors, nil
}

func (s instructorReaderStub) Get(ctx context.Context, id string) (*models.Instructor, error) {
	for _, instructor := range s.instructors {
		if instructor.ID == id {
			clone := instructor
			return &clone, nil
		}
	}
	return nil, nil
}

func newAvailabilityServiceForTest(horizonDays int) (*AvailabilityService, *scheduleRepoStub) {
	repo := newScheduleRepoStub()
	reader := instructorReaderStub{instructors: []models.Instructor{
		{ID: "i1", FirstName: "Alex", Surname: "Ang", Active: true},
	}}
	service := NewAvailabilityService(repo, reader, nil, models.DefaultLessonSlots(), horizonDays, nil, nil)
	service.now = func() time.Time { return date(2025, 3, 3) }
	return service, repo
}

func TestAvailabilityUpdateTemplateBuildsLongRange(t *testing.T) {
	service, repo := newAvailabilityServiceForTest(14)

	err := service.UpdateTemplate(context.Background(), "i1", dto.UpdateAvailabilityRequest{
		WeeklyTemplate: models.WeeklyTemplate{
			"monday": {models.SlotLesson1: models.StatusYes, models.SlotLesson2: models.StatusDriveOnly},
		},
	})
	require.NoError(t, err)

	record := repo.records["i1"]
	require.NotNil(t, record)
	var longRange models.LongRangeAvailability
	require.NoError(t, json.Unmarshal(record.LongRange, &longRange))
	assert.Equal(t, models.AvailabilityAny, longRange.Code("2025-03-03", models.SlotLesson1))
	assert.Equal(t, models.AvailabilityDriveOnly, longRange.Code("2025-03-03", models.SlotLesson2))
	assert.Equal(t, models.AvailabilityUnavailable, longRange.Code("2025-03-04", models.SlotLesson1))
	// Next Monday inside the horizon carries the template too.
	assert.Equal(t, models.AvailabilityAny, longRange.Code("2025-03-10", models.SlotLesson1))
}

func TestAvailabilityUpdateTemplateUnknownInstructor(t *testing.T) {
	service, _ := newAvailabilityServiceForTest(14)
	err := service.UpdateTemplate(context.Background(), "nope", dto.UpdateAvailabilityRequest{
		WeeklyTemplate: models.WeeklyTemplate{
			"monday": {models.SlotLesson1: models.StatusYes},
		},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityAddVacationMarksCells(t *testing.T) {
	service, repo := newAvailabilityServiceForTest(14)
	require.NoError(t, service.UpdateTemplate(context.Background(), "i1", dto.UpdateAvailabilityRequest{
		WeeklyTemplate: models.WeeklyTemplate{
			"monday": {models.SlotLesson1: models.StatusYes},
		},
	}))

	err := service.AddVacation(context.Background(), "i1", dto.AddVacationRequest{
		StartDate: "2025-03-10",
		EndDate:   "2025-03-11",
		Reason:    "leave",
	})
	require.NoError(t, err)

	record := repo.records["i1"]
	var longRange models.LongRangeAvailability
	require.NoError(t, json.Unmarshal(record.LongRange, &longRange))
	assert.Equal(t, models.AvailabilityVacation, longRange.Code("2025-03-10", models.SlotLesson1))
	assert.Equal(t, models.AvailabilityVacation, longRange.Code("2025-03-11", models.SlotLesson3))
	assert.Equal(t, models.AvailabilityAny, longRange.Code("2025-03-03", models.SlotLesson1))
}

func TestAvailabilityRefreshPreservesScheduledCells(t *testing.T) {
	service, repo := newAvailabilityServiceForTest(14)
	require.NoError(t, service.UpdateTemplate(context.Background(), "i1", dto.UpdateAvailabilityRequest{
		WeeklyTemplate: models.WeeklyTemplate{
			"monday": {models.SlotLesson1: models.StatusYes},
		},
	}))

	// Mark one cell scheduled, then shrink the stored horizon so refresh
	// has something to extend.
	record := repo.records["i1"]
	var longRange models.LongRangeAvailability
	require.NoError(t, json.Unmarshal(record.LongRange, &longRange))
	longRange.Set("2025-03-10", models.SlotLesson1, models.AvailabilityScheduled)
	payload, err := json.Marshal(longRange)
	require.NoError(t, err)
	record.LongRange = types.JSONText(payload)

	service.horizonDays = 28
	resp, err := service.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Instructors)
	assert.Equal(t, "2025-03-31", resp.HorizonDate)

	record = repo.records["i1"]
	require.NoError(t, json.Unmarshal(record.LongRange, &longRange))
	assert.Equal(t, models.AvailabilityScheduled, longRange.Code("2025-03-10", models.SlotLesson1))
	assert.Equal(t, models.AvailabilityAny, longRange.Code("2025-03-24", models.SlotLesson1))
	assert.Equal(t, models.AvailabilityAny, longRange.Code("2025-03-31", models.SlotLesson1))
}

func TestAvailabilityVacationRejectsInvertedRange(t *testing.T) {
	service, _ := newAvailabilityServiceForTest(14)
	err := service.AddVacation(context.Background(), "i1", dto.AddVacationRequest{
		StartDate: "2025-03-11",
		EndDate:   "2025-03-10",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
