// Command seed populates a development database with a starter roster,
// default availability templates and US federal holidays.
package main

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/drivedesk/scheduler-api/internal/models"
	"github.com/drivedesk/scheduler-api/internal/repository"
	"github.com/drivedesk/scheduler-api/pkg/config"
	"github.com/drivedesk/scheduler-api/pkg/database"
	"github.com/drivedesk/scheduler-api/pkg/logger"
)

var roster = []models.Instructor{
	{FirstName: "Alex", Surname: "Marsh", Email: "alex.marsh@drivedesk.test", DisplayOrder: 1, Active: true},
	{FirstName: "Brooke", Surname: "Tanner", Email: "brooke.tanner@drivedesk.test", DisplayOrder: 2, Active: true},
	{FirstName: "Casey", Surname: "Nguyen", Email: "casey.nguyen@drivedesk.test", DisplayOrder: 3, Active: true},
	{FirstName: "Devon", Surname: "Ortiz", Email: "devon.ortiz@drivedesk.test", DisplayOrder: 4, Active: true},
}

// Observed US federal holidays plus the school's own closure days.
var holidays = map[string]string{
	"2025-01-01": "New Year's Day",
	"2025-01-20": "Martin Luther King Jr. Day",
	"2025-02-17": "Presidents' Day",
	"2025-05-26": "Memorial Day",
	"2025-06-19": "Juneteenth",
	"2025-07-04": "Independence Day",
	"2025-09-01": "Labor Day",
	"2025-11-27": "Thanksgiving",
	"2025-11-28": "Day After Thanksgiving",
	"2025-12-25": "Christmas Day",
	"2026-01-01": "New Year's Day",
	"2026-01-19": "Martin Luther King Jr. Day",
	"2026-02-16": "Presidents' Day",
	"2026-05-25": "Memorial Day",
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	instructors := repository.NewInstructorRepository(db)
	schedules := repository.NewAvailabilityRepository(db)

	existing, err := instructors.ListActive(ctx)
	if err != nil {
		logr.Sugar().Fatalw("failed to list instructors", "error", err)
	}
	if len(existing) > 0 {
		logr.Sugar().Infow("roster already seeded", "instructors", len(existing))
	} else {
		template, err := defaultTemplate()
		if err != nil {
			logr.Sugar().Fatalw("failed to build default template", "error", err)
		}
		for i := range roster {
			if err := instructors.Create(ctx, &roster[i]); err != nil {
				logr.Sugar().Fatalw("failed to create instructor", "email", roster[i].Email, "error", err)
			}
			schedule := &models.InstructorSchedule{
				InstructorID:     roster[i].ID,
				WeeklyTemplate:   template,
				LongRange:        types.JSONText(`{}`),
				Vacations:        types.JSONText(`[]`),
				SchoolExclusions: types.JSONText(`[]`),
			}
			if err := schedules.Upsert(ctx, nil, schedule); err != nil {
				logr.Sugar().Fatalw("failed to create instructor schedule", "email", roster[i].Email, "error", err)
			}
		}
		logr.Sugar().Infow("seeded roster", "instructors", len(roster))
	}

	inserted := 0
	for date, name := range holidays {
		res, err := db.ExecContext(ctx,
			`INSERT INTO holidays (date, name) VALUES ($1, $2) ON CONFLICT (date) DO NOTHING`, date, name)
		if err != nil {
			logr.Sugar().Fatalw("failed to insert holiday", "date", date, "error", err)
		}
		if rows, _ := res.RowsAffected(); rows > 0 {
			inserted++
		}
	}
	logr.Sugar().Infow("seeded holidays", "inserted", inserted, "total", len(holidays))
}

// defaultTemplate marks every weekday slot available and the late weekend
// slots drive-capable, matching a full-time instructor.
func defaultTemplate() (types.JSONText, error) {
	slots := models.DefaultLessonSlots()
	template := models.WeeklyTemplate{}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		cells := map[string]string{}
		for _, slot := range slots.SchedulableNames() {
			cells[slot] = models.StatusYes
		}
		template[day] = cells
	}
	for _, day := range []string{"saturday", "sunday"} {
		cells := map[string]string{}
		for _, slot := range models.WeekendSlotNames {
			cells[slot] = models.StatusYes
		}
		template[day] = cells
	}
	raw, err := json.Marshal(template)
	if err != nil {
		return nil, err
	}
	return types.JSONText(raw), nil
}
