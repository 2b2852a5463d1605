package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/drivedesk/scheduler-api/internal/dto"
	"github.com/drivedesk/scheduler-api/internal/models"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
	"github.com/drivedesk/scheduler-api/pkg/jobs"
)

type programStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, program *models.Program) error
	GetByName(ctx context.Context, name string) (*models.Program, error)
	List(ctx context.Context, school, status string) ([]models.Program, error)
	NextSequence(ctx context.Context, school string) (int, error)
}

type taskStore interface {
	Save(ctx context.Context, task models.SchedulingTask) error
	Get(ctx context.Context, id string) (*models.SchedulingTask, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type capacityEstimator interface {
	Calculate(ctx context.Context, query dto.CapacityQuery) (*dto.CapacityResponse, bool, error)
}

// ProgramServiceConfig governs the generation window.
type ProgramServiceConfig struct {
	LookaheadDays int
	ProgramWeeks  int
}

// ProgramService owns the program lifecycle. Generation is queued and runs in
// the background; clients poll the returned task id.
type ProgramService struct {
	programs     programStore
	tasks        taskStore
	holidays     holidayReader
	availability availabilityLoader
	capacity     capacityEstimator
	queue        jobDispatcher
	slots        models.LessonSlotTable
	cfg          ProgramServiceConfig
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewProgramService wires the service.
func NewProgramService(
	programs programStore,
	tasks taskStore,
	holidays holidayReader,
	availability availabilityLoader,
	capacity capacityEstimator,
	queue jobDispatcher,
	slots models.LessonSlotTable,
	cfg ProgramServiceConfig,
	validate *validator.Validate,
	logger *zap.Logger,
) *ProgramService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.LookaheadDays <= 0 {
		cfg.LookaheadDays = 90
	}
	if cfg.ProgramWeeks <= 0 {
		cfg.ProgramWeeks = 6
	}
	if len(slots.Slots) == 0 {
		slots = models.DefaultLessonSlots()
	}
	return &ProgramService{
		programs:     programs,
		tasks:        tasks,
		holidays:     holidays,
		availability: availability,
		capacity:     capacity,
		queue:        queue,
		slots:        slots,
		cfg:          cfg,
		validator:    validate,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Generate validates the request, records a task and enqueues the build.
func (s *ProgramService) Generate(ctx context.Context, req dto.GenerateProgramRequest) (*dto.GenerateProgramResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program generation payload")
	}
	if _, err := parseDate(req.StartDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be formatted YYYY-MM-DD")
	}

	task := models.SchedulingTask{
		ID:        uuid.NewString(),
		Status:    models.TaskStatusPending,
		School:    req.School,
		StartedAt: s.now(),
	}
	if err := s.tasks.Save(ctx, task); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record scheduling task")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: task.ID, Type: "program-generation", Payload: req}); err != nil {
		task.Status = models.TaskStatusError
		task.Error = "failed to enqueue generation job"
		now := s.now()
		task.FinishedAt = &now
		_ = s.tasks.Save(ctx, task)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue generation job")
	}
	return &dto.GenerateProgramResponse{TaskID: task.ID, Status: task.Status, School: req.School}, nil
}

// TaskStatus returns generation progress for one task.
func (s *ProgramService) TaskStatus(ctx context.Context, id string) (*dto.TaskStatusResponse, error) {
	task, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scheduling task not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduling task")
	}
	return &dto.TaskStatusResponse{
		TaskID:      task.ID,
		Status:      task.Status,
		ProgramName: task.ProgramName,
		Error:       task.Error,
	}, nil
}

// Get returns the stored program summary.
func (s *ProgramService) Get(ctx context.Context, name string) (*dto.ProgramResponse, error) {
	program, err := s.programs.GetByName(ctx, name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	if program == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	return programResponse(program), nil
}

// List returns program summaries matching the query.
func (s *ProgramService) List(ctx context.Context, query dto.ProgramQuery) ([]dto.ProgramResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid program query")
	}
	programs, err := s.programs.List(ctx, query.School, query.Status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	responses := make([]dto.ProgramResponse, 0, len(programs))
	for i := range programs {
		responses = append(responses, *programResponse(&programs[i]))
	}
	return responses, nil
}

// Schedule returns the merged day-by-day view, annotated with instructors
// when assignment has run.
func (s *ProgramService) Schedule(ctx context.Context, name string) (*dto.ScheduleResponse, error) {
	program, err := s.programs.GetByName(ctx, name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	if program == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}

	payload := program.AnnotatedSchedule
	if len(payload) == 0 {
		payload = program.CompleteSchedule
	}
	var days []models.DaySchedule
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &days); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode merged schedule")
		}
	}

	unassigned := 0
	for _, day := range days {
		for _, slot := range day.Slots {
			if (slot.Type == models.SlotTypeClass || slot.Type == models.SlotTypeDrive) && slot.Instructor == "" {
				unassigned++
			}
		}
	}
	if unassigned > 0 && program.Status == models.ProgramStatusScheduled {
		s.logger.Warn("schedule has uncovered sessions",
			zap.String("program", name),
			zap.Int("unassigned_count", unassigned))
	}
	return &dto.ScheduleResponse{Program: name, Days: days, UnassignedCount: unassigned}, nil
}

func programResponse(program *models.Program) *dto.ProgramResponse {
	studentCount := 0
	if len(program.StudentList) > 0 {
		var students []string
		if err := json.Unmarshal(program.StudentList, &students); err == nil {
			studentCount = len(students)
		}
	}
	return &dto.ProgramResponse{
		ID:           program.ID,
		Name:         program.Name,
		School:       program.School,
		StartDate:    program.StartDate.Format(dateLayout),
		EndDate:      program.EndDate.Format(dateLayout),
		Status:       program.Status,
		Variant:      program.Variant,
		StudentCount: studentCount,
	}
}

// GenerationWorker bridges queue jobs to the scheduling engine.
type GenerationWorker struct {
	service *ProgramService
	logger  *zap.Logger
}

// NewGenerationWorker constructs a worker around the program service.
func NewGenerationWorker(service *ProgramService, logger *zap.Logger) *GenerationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationWorker{service: service, logger: logger}
}

// Handle builds one program and settles its task record. Engine failures are
// terminal: the error lands on the task and the job is not retried.
func (w *GenerationWorker) Handle(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.GenerateProgramRequest)
	if !ok {
		return fmt.Errorf("unexpected payload type for job %s", job.ID)
	}
	s := w.service

	task, err := s.tasks.Get(ctx, job.ID)
	if err != nil {
		return err
	}
	if task.Status.Terminal() {
		return nil
	}
	task.Status = models.TaskStatusRunning
	if err := s.tasks.Save(ctx, *task); err != nil {
		return err
	}

	program, err := s.buildProgram(ctx, req)
	now := s.now()
	task.FinishedAt = &now
	if err != nil {
		task.Status = models.TaskStatusError
		task.Error = appErrors.FromError(err).Message
		if saveErr := s.tasks.Save(ctx, *task); saveErr != nil {
			w.logger.Error("failed to record task failure", zap.String("task_id", job.ID), zap.Error(saveErr))
		}
		w.logger.Error("program generation failed",
			zap.String("task_id", job.ID),
			zap.String("school", req.School),
			zap.Error(err))
		return nil
	}

	task.Status = models.TaskStatusDone
	task.ProgramName = program.Name
	if err := s.tasks.Save(ctx, *task); err != nil {
		w.logger.Error("failed to record task completion", zap.String("task_id", job.ID), zap.Error(err))
	}
	w.logger.Info("program generated",
		zap.String("task_id", job.ID),
		zap.String("program", program.Name),
		zap.String("school", req.School))
	return nil
}

// buildProgram runs the full engine: calendar, classes, drives, merge.
func (s *ProgramService) buildProgram(ctx context.Context, req dto.GenerateProgramRequest) (*models.Program, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "startDate must be formatted YYYY-MM-DD")
	}
	structure := models.CourseStructureFor(req.Variant)
	end := start.AddDate(0, 0, s.cfg.ProgramWeeks*7)

	holidays, err := s.holidays.SetBetween(ctx, start, start.AddDate(0, 0, s.cfg.LookaheadDays))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
	}

	available, err := availableDays(start, holidays, structure.Sequence.MinCourseLength, s.cfg.LookaheadDays)
	if err != nil {
		var short *InsufficientDaysError
		if errors.As(err, &short) {
			return nil, appErrors.Clone(appErrors.ErrInsufficientDays,
				fmt.Sprintf("need %d available days, found %d", short.Needed, short.Found))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute available days")
	}

	sequence, err := s.programs.NextSequence(ctx, req.School)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to derive program sequence")
	}
	name := fmt.Sprintf("%d-%02d-%s", start.Year(), sequence, req.School)

	students := req.Students
	if len(students) == 0 {
		count := req.StudentCount
		if count == 0 {
			// No roster supplied: the capacity estimate decides how many
			// seats the window can carry.
			estimate, _, err := s.capacity.Calculate(ctx, dto.CapacityQuery{
				School:    req.School,
				StartDate: req.StartDate,
				Variant:   string(structure.Variant),
			})
			if err != nil {
				return nil, err
			}
			count = estimate.MaxStudents
			if count == 0 {
				return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "no drive capacity available in the program window")
			}
			s.logger.Info("derived student count from capacity",
				zap.String("program", name),
				zap.Int("student_count", count))
		}
		students = make([]string, count)
		for i := range students {
			students[i] = fmt.Sprintf("%s-student%02d", name, i+1)
		}
	}

	classes := placeClasses(start, available, structure.ClassSessions)
	drives := placeDrives(name, start, len(students)/2, holidays, structure, s.slots, s.cfg.ProgramWeeks)
	merged := mergeSchedules(start, end, holidays, classes.Sessions, drives.Sessions, s.slots)

	warnings := append(classes.Warnings, drives.Warnings...)
	for _, warning := range warnings {
		s.logger.Warn("generation warning", zap.String("program", name), zap.String("detail", warning))
	}

	status := models.ProgramStatusPlanned
	if !start.After(s.now()) {
		status = models.ProgramStatusActive
	}

	program := &models.Program{
		Name:      name,
		School:    req.School,
		Sequence:  sequence,
		StartDate: start,
		EndDate:   end,
		Status:    status,
		Variant:   structure.Variant,
	}
	if program.StudentList, err = marshalJSON(students); err != nil {
		return nil, err
	}
	if program.ClassSchedule, err = marshalJSON(classes.Sessions); err != nil {
		return nil, err
	}
	if program.DriveSchedule, err = marshalJSON(drives.Sessions); err != nil {
		return nil, err
	}
	if program.CompleteSchedule, err = marshalJSON(merged); err != nil {
		return nil, err
	}

	if err := s.programs.Create(ctx, nil, program); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save program")
	}
	return program, nil
}

func marshalJSON(value interface{}) (types.JSONText, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode schedule payload")
	}
	return types.JSONText(payload), nil
}
