package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/drivedesk/scheduler-api/internal/dto"
	"github.com/drivedesk/scheduler-api/internal/models"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
)

type assignerProgramRepository interface {
	GetByName(ctx context.Context, name string) (*models.Program, error)
	UpdateSchedules(ctx context.Context, exec sqlx.ExtContext, program *models.Program) error
}

type longRangeWriter interface {
	UpdateLongRange(ctx context.Context, exec sqlx.ExtContext, instructorID string, longRange []byte) error
}

// AssignerService distributes a program's classes and drives across the
// instructor pool. Rotation is by ISO week so the same instructor is not
// always first pick, and every assignment marks the instructor's long-range
// cell as scheduled, which blocks double-booking for the rest of the run.
type AssignerService struct {
	programs     assignerProgramRepository
	availability availabilityLoader
	schedules    longRangeWriter
	holidays     holidayReader
	slots        models.LessonSlotTable
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewAssignerService wires the service. Metrics may be nil.
func NewAssignerService(
	programs assignerProgramRepository,
	availability availabilityLoader,
	schedules longRangeWriter,
	holidays holidayReader,
	slots models.LessonSlotTable,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(slots.Slots) == 0 {
		slots = models.DefaultLessonSlots()
	}
	return &AssignerService{
		programs:     programs,
		availability: availability,
		schedules:    schedules,
		holidays:     holidays,
		slots:        slots,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
	}
}

// Assign runs both assignment passes for a stored program and persists the
// updated schedules and instructor availability.
func (s *AssignerService) Assign(ctx context.Context, programName string, req dto.AssignInstructorsRequest) (*dto.AssignInstructorsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	program, err := s.programs.GetByName(ctx, programName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	if program == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}

	var classes []models.ClassSession
	if len(program.ClassSchedule) > 0 {
		if err := json.Unmarshal(program.ClassSchedule, &classes); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode class schedule")
		}
	}
	var drives []models.DriveSession
	if len(program.DriveSchedule) > 0 {
		if err := json.Unmarshal(program.DriveSchedule, &drives); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode drive schedule")
		}
	}

	views, err := s.availability.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	views = filterViews(views, req.InstructorIDs)
	pool := eligiblePool(views, program.School)
	// Programs run with two or three instructors. An implicit pool keeps the
	// first three in rotation order.
	if len(pool) > maxPoolSize {
		pool = pool[:maxPoolSize]
	}
	if len(pool) < minPoolSize {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "assignment needs at least two eligible instructors")
	}

	resp := &dto.AssignInstructorsResponse{
		Program:       programName,
		PerInstructor: make(map[string]int),
	}

	// Classes first so the evening slot is claimed before drives compete
	// for the same instructors.
	for i := range classes {
		view := s.pickInstructor(pool, classes[i].Date, models.ClassSlotName, func(c models.AvailabilityCode) bool {
			return c.CanTeachClass()
		})
		if view == nil {
			resp.UnassignedCount++
			continue
		}
		classes[i].Instructor = view.DisplayName
		view.LongRange.Set(classes[i].Date, models.ClassSlotName, models.AvailabilityScheduled)
		resp.ClassesAssigned++
		resp.PerInstructor[view.DisplayName]++
	}

	for i := range drives {
		view := s.pickInstructor(pool, drives[i].Date, drives[i].Slot, func(c models.AvailabilityCode) bool {
			return c.CanTeachDrive()
		})
		if view == nil {
			resp.UnassignedCount++
			continue
		}
		drives[i].Instructor = view.DisplayName
		view.LongRange.Set(drives[i].Date, drives[i].Slot, models.AvailabilityScheduled)
		resp.DrivesAssigned++
		resp.PerInstructor[view.DisplayName]++
	}

	for _, view := range pool {
		payload, err := json.Marshal(view.LongRange)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode long-range availability")
		}
		if err := s.schedules.UpdateLongRange(ctx, nil, view.InstructorID, payload); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save long-range availability")
		}
	}

	if err := s.persistProgram(ctx, program, classes, drives); err != nil {
		return nil, err
	}

	s.metrics.SetUnassignedSessions(programName, resp.UnassignedCount)
	if resp.UnassignedCount > 0 {
		s.logger.Warn("instructor assignment left sessions uncovered",
			zap.String("program", programName),
			zap.Int("unassigned_count", resp.UnassignedCount))
	}
	return resp, nil
}

// pickInstructor tries the ISO-week primary first, then the rest of the pool
// in rotation order.
func (s *AssignerService) pickInstructor(
	pool []*models.InstructorAvailability,
	date, slot string,
	eligible func(models.AvailabilityCode) bool,
) *models.InstructorAvailability {
	day, err := parseDate(date)
	if err != nil {
		return nil
	}
	_, isoWeek := day.ISOWeek()
	for offset := 0; offset < len(pool); offset++ {
		view := pool[(isoWeek+offset)%len(pool)]
		if view.OnVacation(date) {
			continue
		}
		if eligible(view.LongRange.Code(date, slot)) {
			return view
		}
	}
	return nil
}

func (s *AssignerService) persistProgram(ctx context.Context, program *models.Program, classes []models.ClassSession, drives []models.DriveSession) error {
	start := program.StartDate
	end := program.EndDate
	holidays, err := s.holidays.SetBetween(ctx, start, end)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
	}
	merged := mergeSchedules(start, end, holidays, classes, drives, s.slots)

	classPayload, err := json.Marshal(classes)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode class schedule")
	}
	drivePayload, err := json.Marshal(drives)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode drive schedule")
	}
	mergedPayload, err := json.Marshal(merged)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode merged schedule")
	}

	program.ClassSchedule = types.JSONText(classPayload)
	program.DriveSchedule = types.JSONText(drivePayload)
	program.AnnotatedSchedule = types.JSONText(mergedPayload)
	program.Status = models.ProgramStatusScheduled
	if err := s.programs.UpdateSchedules(ctx, nil, program); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save program schedules")
	}
	return nil
}

const (
	minPoolSize = 2
	maxPoolSize = 3
)

// filterViews narrows the pool to the requested instructors, in the order
// they were requested. Rotation order follows the request.
func filterViews(views []*models.InstructorAvailability, ids []string) []*models.InstructorAvailability {
	if len(ids) == 0 {
		return views
	}
	byID := make(map[string]*models.InstructorAvailability, len(views))
	for _, view := range views {
		byID[view.InstructorID] = view
	}
	filtered := make([]*models.InstructorAvailability, 0, len(ids))
	for _, id := range ids {
		if view, ok := byID[id]; ok {
			filtered = append(filtered, view)
		}
	}
	return filtered
}

func eligiblePool(views []*models.InstructorAvailability, school string) []*models.InstructorAvailability {
	pool := make([]*models.InstructorAvailability, 0, len(views))
	for _, view := range views {
		if view.ExcludesSchool(school) {
			continue
		}
		pool = append(pool, view)
	}
	return pool
}
