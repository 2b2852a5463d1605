package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/drivedesk/scheduler-api/internal/dto"
	"github.com/drivedesk/scheduler-api/internal/models"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
)

type holidayReader interface {
	SetBetween(ctx context.Context, start, end time.Time) (models.HolidaySet, error)
}

type availabilityLoader interface {
	loadAll(ctx context.Context) ([]*models.InstructorAvailability, error)
}

// CapacityService computes drive-slot supply for candidate program windows.
// Capacity limits enrollment: each drive slot carries two students, so a
// program can hold at most twice its best week's slot count.
type CapacityService struct {
	holidays     holidayReader
	availability availabilityLoader
	cache        *CacheService
	programWeeks int
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewCapacityService wires the service. A nil cache disables caching.
func NewCapacityService(
	holidays holidayReader,
	availability availabilityLoader,
	cache *CacheService,
	programWeeks int,
	validate *validator.Validate,
	logger *zap.Logger,
) *CapacityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if programWeeks <= 0 {
		programWeeks = 6
	}
	return &CapacityService{
		holidays:     holidays,
		availability: availability,
		cache:        cache,
		programWeeks: programWeeks,
		validator:    validate,
		logger:       logger,
	}
}

// CacheKeyPattern matches every cached capacity payload. Availability
// mutations invalidate it.
const CacheKeyPattern = "capacity:*"

// Calculate computes weekly drive-slot capacity for a school and start date.
// The second return value reports whether the response came from cache.
func (s *CapacityService) Calculate(ctx context.Context, query dto.CapacityQuery) (*dto.CapacityResponse, bool, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid capacity query")
	}
	start, err := parseDate(query.StartDate)
	if err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "startDate must be formatted YYYY-MM-DD")
	}

	cacheKey := fmt.Sprintf("capacity:%s:%s:%s", query.School, query.StartDate, query.Variant)
	var cached dto.CapacityResponse
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, true, nil
	}

	structure := models.CourseStructureFor(models.CourseVariant(query.Variant))

	end := start.AddDate(0, 0, s.programWeeks*7)
	holidays, err := s.holidays.SetBetween(ctx, start, end)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
	}
	views, err := s.availability.loadAll(ctx)
	if err != nil {
		return nil, false, err
	}

	weekly, maxWeekly, avg := s.weeklyCapacity(start, query.School, holidays, views)
	maxStudents := maxWeekly * 2
	if maxStudents > structure.ClassSessions.MaxStudents {
		maxStudents = structure.ClassSessions.MaxStudents
	}

	resp := &dto.CapacityResponse{
		School:         query.School,
		StartDate:      query.StartDate,
		Weekly:         weekly,
		MaxWeeklySlots: maxWeekly,
		AverageSlots:   avg,
		MaxStudents:    maxStudents,
	}
	_ = s.cache.Set(ctx, cacheKey, resp, 0)
	return resp, false, nil
}

// weeklyCapacity sums daily drive slots over each program week.
func (s *CapacityService) weeklyCapacity(
	start time.Time,
	school string,
	holidays models.HolidaySet,
	views []*models.InstructorAvailability,
) ([]dto.WeeklyCapacity, int, float64) {
	weekly := make([]dto.WeeklyCapacity, 0, s.programWeeks)
	maxWeekly := 0
	total := 0
	for week := 1; week <= s.programWeeks; week++ {
		slots := 0
		weekStart := start.AddDate(0, 0, (week-1)*7)
		for offset := 0; offset < 7; offset++ {
			day := weekStart.AddDate(0, 0, offset)
			if holidays.Contains(day.Format(dateLayout)) {
				continue
			}
			slots += dailyDriveSlots(day, school, views)
		}
		weekly = append(weekly, dto.WeeklyCapacity{Week: week, Slots: slots})
		total += slots
		if slots > maxWeekly {
			maxWeekly = slots
		}
	}
	avg := 0.0
	if s.programWeeks > 0 {
		avg = math.Round(float64(total)/float64(s.programWeeks)*100) / 100
	}
	return weekly, maxWeekly, avg
}

// dailyDriveSlots counts drive-capable template slots for one date across
// instructors serving the school.
func dailyDriveSlots(day time.Time, school string, views []*models.InstructorAvailability) int {
	date := day.Format(dateLayout)
	count := 0
	for _, view := range views {
		if view.ExcludesSchool(school) || view.OnVacation(date) {
			continue
		}
		for _, status := range view.Weekly[lowerDayName(day)] {
			if status == models.StatusYes || status == models.StatusDriveOnly {
				count++
			}
		}
	}
	return count
}
