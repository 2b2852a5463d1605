package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/drivedesk/scheduler-api/internal/dto"
	"github.com/drivedesk/scheduler-api/internal/models"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
)

type availabilityRepository interface {
	GetByInstructor(ctx context.Context, instructorID string) (*models.InstructorSchedule, error)
	ListAll(ctx context.Context) ([]models.InstructorSchedule, error)
	Upsert(ctx context.Context, exec sqlx.ExtContext, schedule *models.InstructorSchedule) error
	UpdateLongRange(ctx context.Context, exec sqlx.ExtContext, instructorID string, longRange []byte) error
}

type instructorReader interface {
	ListActive(ctx context.Context) ([]models.Instructor, error)
	Get(ctx context.Context, id string) (*models.Instructor, error)
}

// AvailabilityService manages instructor weekly templates, vacations and the
// rolling long-range availability maps the schedulers consume.
type AvailabilityService struct {
	schedules   availabilityRepository
	instructors instructorReader
	cache       *CacheService
	slots       models.LessonSlotTable
	horizonDays int
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewAvailabilityService wires the service. A nil cache disables capacity
// cache invalidation.
func NewAvailabilityService(
	schedules availabilityRepository,
	instructors instructorReader,
	cache *CacheService,
	slots models.LessonSlotTable,
	horizonDays int,
	validate *validator.Validate,
	logger *zap.Logger,
) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if horizonDays <= 0 {
		horizonDays = 240
	}
	if len(slots.Slots) == 0 {
		slots = models.DefaultLessonSlots()
	}
	return &AvailabilityService{
		schedules:   schedules,
		instructors: instructors,
		cache:       cache,
		slots:       slots,
		horizonDays: horizonDays,
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// decodeSchedule unpacks a stored record into the in-memory view.
func decodeSchedule(record models.InstructorSchedule, displayName string) (*models.InstructorAvailability, error) {
	view := &models.InstructorAvailability{
		InstructorID: record.InstructorID,
		DisplayName:  displayName,
		Weekly:       models.WeeklyTemplate{},
		LongRange:    models.LongRangeAvailability{},
	}
	if len(record.WeeklyTemplate) > 0 {
		if err := json.Unmarshal(record.WeeklyTemplate, &view.Weekly); err != nil {
			return nil, fmt.Errorf("decode weekly template for %s: %w", record.InstructorID, err)
		}
	}
	if len(record.LongRange) > 0 {
		if err := json.Unmarshal(record.LongRange, &view.LongRange); err != nil {
			return nil, fmt.Errorf("decode long-range availability for %s: %w", record.InstructorID, err)
		}
	}
	if len(record.Vacations) > 0 {
		if err := json.Unmarshal(record.Vacations, &view.Vacations); err != nil {
			return nil, fmt.Errorf("decode vacations for %s: %w", record.InstructorID, err)
		}
	}
	if len(record.SchoolExclusions) > 0 {
		if err := json.Unmarshal(record.SchoolExclusions, &view.SchoolExclusions); err != nil {
			return nil, fmt.Errorf("decode school exclusions for %s: %w", record.InstructorID, err)
		}
	}
	return view, nil
}

// loadAll returns decoded availability views for every active instructor, in
// rotation order. Instructors without a schedule record get an empty view.
func (s *AvailabilityService) loadAll(ctx context.Context) ([]*models.InstructorAvailability, error) {
	instructors, err := s.instructors.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	records, err := s.schedules.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructor schedules")
	}
	byInstructor := make(map[string]models.InstructorSchedule, len(records))
	for _, record := range records {
		byInstructor[record.InstructorID] = record
	}

	views := make([]*models.InstructorAvailability, 0, len(instructors))
	for _, instructor := range instructors {
		record, ok := byInstructor[instructor.ID]
		if !ok {
			views = append(views, &models.InstructorAvailability{
				InstructorID: instructor.ID,
				DisplayName:  instructor.DisplayName(),
				Weekly:       models.WeeklyTemplate{},
				LongRange:    models.LongRangeAvailability{},
			})
			continue
		}
		view, err := decodeSchedule(record, instructor.DisplayName())
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode instructor schedule")
		}
		views = append(views, view)
	}
	return views, nil
}

// UpdateTemplate replaces the weekly template and school exclusions for one
// instructor, then regenerates the long-range map from scratch around the
// existing scheduled and booked cells.
func (s *AvailabilityService) UpdateTemplate(ctx context.Context, instructorID string, req dto.UpdateAvailabilityRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}
	instructor, err := s.instructors.Get(ctx, instructorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
	}
	if instructor == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "instructor not found")
	}

	record, err := s.schedules.GetByInstructor(ctx, instructorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor schedule")
	}
	if record == nil {
		record = &models.InstructorSchedule{InstructorID: instructorID}
	}

	view, err := decodeSchedule(*record, instructor.DisplayName())
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode instructor schedule")
	}
	view.Weekly = req.WeeklyTemplate
	view.SchoolExclusions = req.SchoolExclusions
	s.extendLongRange(view, s.now(), s.now().AddDate(0, 0, s.horizonDays), true)

	if err := encodeInto(record, view); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode instructor schedule")
	}
	if err := s.schedules.Upsert(ctx, nil, record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save instructor schedule")
	}
	_ = s.cache.Invalidate(ctx, CacheKeyPattern)
	s.logger.Info("updated weekly template",
		zap.String("instructor_id", instructorID),
		zap.Int("school_exclusions", len(req.SchoolExclusions)))
	return nil
}

// AddVacation appends a blackout window and marks its dates in the long-range
// map. Scheduled and booked cells keep their codes.
func (s *AvailabilityService) AddVacation(ctx context.Context, instructorID string, req dto.AddVacationRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid vacation payload")
	}
	if req.EndDate < req.StartDate {
		return appErrors.Clone(appErrors.ErrValidation, "endDate must not precede startDate")
	}
	record, err := s.schedules.GetByInstructor(ctx, instructorID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor schedule")
	}
	if record == nil {
		return appErrors.Clone(appErrors.ErrNotFound, "instructor schedule not found")
	}
	view, err := decodeSchedule(*record, "")
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode instructor schedule")
	}

	vacation := models.VacationRange{StartDate: req.StartDate, EndDate: req.EndDate, Reason: req.Reason}
	view.Vacations = append(view.Vacations, vacation)
	for _, date := range vacation.Dates() {
		for _, slot := range s.slots.SchedulableNames() {
			if code := view.LongRange.Code(date, slot); code == models.AvailabilityScheduled || code == models.AvailabilityBooked {
				continue
			}
			view.LongRange.Set(date, slot, models.AvailabilityVacation)
		}
	}

	if err := encodeInto(record, view); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode instructor schedule")
	}
	if err := s.schedules.Upsert(ctx, nil, record); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save instructor schedule")
	}
	_ = s.cache.Invalidate(ctx, CacheKeyPattern)
	return nil
}

// Refresh extends every instructor's long-range map out to the horizon.
// Existing cells are preserved; only dates past the last stored date are
// appended.
func (s *AvailabilityService) Refresh(ctx context.Context) (*dto.AvailabilityRefreshResponse, error) {
	instructors, err := s.instructors.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list instructors")
	}
	horizon := s.now().AddDate(0, 0, s.horizonDays)
	written := 0

	for _, instructor := range instructors {
		record, err := s.schedules.GetByInstructor(ctx, instructor.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor schedule")
		}
		if record == nil {
			continue
		}
		view, err := decodeSchedule(*record, instructor.DisplayName())
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode instructor schedule")
		}
		written += s.extendLongRange(view, s.now(), horizon, false)

		payload, err := json.Marshal(view.LongRange)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode long-range availability")
		}
		if err := s.schedules.UpdateLongRange(ctx, nil, instructor.ID, payload); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save long-range availability")
		}
	}

	_ = s.cache.Invalidate(ctx, CacheKeyPattern)
	s.logger.Info("refreshed long-range availability",
		zap.Int("instructors", len(instructors)),
		zap.String("horizon", horizon.Format(dateLayout)),
		zap.Int("cells_written", written))
	return &dto.AvailabilityRefreshResponse{
		Instructors:  len(instructors),
		HorizonDate:  horizon.Format(dateLayout),
		CellsWritten: written,
	}, nil
}

// extendLongRange fills the map from the day after the last stored date (or
// from, when empty or rebuilding) through horizon. Scheduled and booked cells
// are never overwritten.
func (s *AvailabilityService) extendLongRange(view *models.InstructorAvailability, from, horizon time.Time, rebuild bool) int {
	start := from
	if !rebuild {
		if last := view.LongRange.LastDate(); !last.IsZero() && last.AddDate(0, 0, 1).After(start) {
			start = last.AddDate(0, 0, 1)
		}
	}
	written := 0
	for day := start; !day.After(horizon); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		onVacation := view.OnVacation(date)
		template := view.Weekly[lowerDayName(day)]
		for _, slot := range s.slots.SchedulableNames() {
			if code := view.LongRange.Code(date, slot); code == models.AvailabilityScheduled || code == models.AvailabilityBooked {
				continue
			}
			if onVacation {
				view.LongRange.Set(date, slot, models.AvailabilityVacation)
			} else {
				view.LongRange.Set(date, slot, models.ParseAvailabilityStatus(template[slot]))
			}
			written++
		}
	}
	return written
}

func encodeInto(record *models.InstructorSchedule, view *models.InstructorAvailability) error {
	weekly, err := json.Marshal(view.Weekly)
	if err != nil {
		return err
	}
	longRange, err := json.Marshal(view.LongRange)
	if err != nil {
		return err
	}
	vacations, err := json.Marshal(view.Vacations)
	if err != nil {
		return err
	}
	exclusions, err := json.Marshal(view.SchoolExclusions)
	if err != nil {
		return err
	}
	record.WeeklyTemplate = types.JSONText(weekly)
	record.LongRange = types.JSONText(longRange)
	record.Vacations = types.JSONText(vacations)
	record.SchoolExclusions = types.JSONText(exclusions)
	return nil
}
