package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/drivedesk/scheduler-api/internal/dto"
	"github.com/drivedesk/scheduler-api/internal/models"
	appErrors "github.com/drivedesk/scheduler-api/pkg/errors"
	"github.com/drivedesk/scheduler-api/pkg/export"
)

type programReader interface {
	GetByName(ctx context.Context, name string) (*models.Program, error)
}

// ExportService renders schedules and capacity reports for download.
type ExportService struct {
	programs     programReader
	holidays     holidayReader
	availability availabilityLoader
	slots        models.LessonSlotTable
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	reportDays   int
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewExportService wires the service.
func NewExportService(
	programs programReader,
	holidays holidayReader,
	availability availabilityLoader,
	slots models.LessonSlotTable,
	reportDays int,
	validate *validator.Validate,
	logger *zap.Logger,
) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if reportDays <= 0 {
		reportDays = 180
	}
	if len(slots.Slots) == 0 {
		slots = models.DefaultLessonSlots()
	}
	return &ExportService{
		programs:     programs,
		holidays:     holidays,
		availability: availability,
		slots:        slots,
		csv:          export.NewCSVExporter(),
		pdf:          export.NewPDFExporter(),
		reportDays:   reportDays,
		validator:    validate,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// SchedulePDF renders the merged program view as a one-row-per-day table.
func (s *ExportService) SchedulePDF(ctx context.Context, programName string) ([]byte, string, error) {
	program, err := s.programs.GetByName(ctx, programName)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	if program == nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "program not found")
	}
	payload := program.AnnotatedSchedule
	if len(payload) == 0 {
		payload = program.CompleteSchedule
	}
	var days []models.DaySchedule
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &days); err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode merged schedule")
		}
	}

	slotNames := s.slots.SchedulableNames()
	headers := append([]string{"Date", "Day", "Week"}, slotNames...)
	rows := make([]map[string]string, 0, len(days))
	for _, day := range days {
		row := map[string]string{
			"Date": day.Date,
			"Day":  day.Day,
			"Week": fmt.Sprintf("%d", day.Week),
		}
		for _, slot := range slotNames {
			row[slot] = scheduleCell(day, slot)
		}
		rows = append(rows, row)
	}

	content, err := s.pdf.Render(export.ReportTable{Columns: headers, Rows: rows}, programName)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render schedule pdf")
	}
	return content, fmt.Sprintf("%s-schedule.pdf", programName), nil
}

func scheduleCell(day models.DaySchedule, slot string) string {
	assignment, ok := day.Slots[slot]
	if !ok || assignment.Type == models.SlotTypeNone {
		return ""
	}
	value := assignment.Title
	if assignment.Instructor != "" {
		value = fmt.Sprintf("%s (%s)", value, assignment.Instructor)
	}
	return value
}

// CapacityReportCSV renders rolling daily drive capacity for a school.
func (s *ExportService) CapacityReportCSV(ctx context.Context, query dto.CapacityReportQuery) ([]byte, string, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid capacity report query")
	}
	days := query.Days
	if days == 0 {
		days = s.reportDays
	}
	start := s.now().Truncate(24 * time.Hour)
	end := start.AddDate(0, 0, days)

	holidays, err := s.holidays.SetBetween(ctx, start, end)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load holidays")
	}
	views, err := s.availability.loadAll(ctx)
	if err != nil {
		return nil, "", err
	}

	headers := []string{"Date", "Day", "Drive Slots", "Holiday"}
	rows := make([]map[string]string, 0, days)
	for offset := 0; offset < days; offset++ {
		day := start.AddDate(0, 0, offset)
		date := day.Format(dateLayout)
		row := map[string]string{
			"Date":        date,
			"Day":         dayName(day),
			"Drive Slots": "0",
			"Holiday":     holidays[date],
		}
		if !holidays.Contains(date) {
			row["Drive Slots"] = fmt.Sprintf("%d", dailyDriveSlots(day, query.School, views))
		}
		rows = append(rows, row)
	}

	content, err := s.csv.Render(export.ReportTable{Columns: headers, Rows: rows})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render capacity csv")
	}
	filename := fmt.Sprintf("%s-capacity-%s.csv", query.School, start.Format(dateLayout))
	return content, filename, nil
}
