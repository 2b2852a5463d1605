package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/drivedesk/scheduler-api/internal/models"
)

// AvailabilityRepository manages persisted instructor schedule records. The
// weekly template, long-range map and vacation list are stored as JSONB
// columns and decoded by the availability service.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs the repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

func (r *AvailabilityRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// GetByInstructor fetches the schedule record for one instructor.
func (r *AvailabilityRepository) GetByInstructor(ctx context.Context, instructorID string) (*models.InstructorSchedule, error) {
	const query = `SELECT id, instructor_id, weekly_template, long_range, vacations, school_exclusions, created_at, updated_at
FROM instructor_schedules WHERE instructor_id = $1`
	var schedule models.InstructorSchedule
	if err := r.db.GetContext(ctx, &schedule, query, instructorID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get instructor schedule: %w", err)
	}
	return &schedule, nil
}

// ListAll returns schedule records for every active instructor, joined so the
// rotation order carries over.
func (r *AvailabilityRepository) ListAll(ctx context.Context) ([]models.InstructorSchedule, error) {
	const query = `SELECT s.id, s.instructor_id, s.weekly_template, s.long_range, s.vacations, s.school_exclusions, s.created_at, s.updated_at
FROM instructor_schedules s
JOIN instructors i ON i.id = s.instructor_id
WHERE i.active = TRUE
ORDER BY i.display_order ASC, i.surname ASC`
	var schedules []models.InstructorSchedule
	if err := r.db.SelectContext(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("list instructor schedules: %w", err)
	}
	return schedules, nil
}

// Upsert inserts or replaces the schedule record for an instructor.
func (r *AvailabilityRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, schedule *models.InstructorSchedule) error {
	target := r.exec(exec)
	now := time.Now().UTC()
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now

	const query = `
INSERT INTO instructor_schedules (id, instructor_id, weekly_template, long_range, vacations, school_exclusions, created_at, updated_at)
VALUES (:id, :instructor_id, :weekly_template, :long_range, :vacations, :school_exclusions, :created_at, :updated_at)
ON CONFLICT (instructor_id) DO UPDATE
SET weekly_template = EXCLUDED.weekly_template,
    long_range = EXCLUDED.long_range,
    vacations = EXCLUDED.vacations,
    school_exclusions = EXCLUDED.school_exclusions,
    updated_at = EXCLUDED.updated_at`
	if _, err := sqlx.NamedExecContext(ctx, target, query, schedule); err != nil {
		return fmt.Errorf("upsert instructor schedule: %w", err)
	}
	return nil
}

// UpdateLongRange rewrites only the long-range map, leaving the template and
// vacation columns untouched. Used by assignment commits and the refresh job.
func (r *AvailabilityRepository) UpdateLongRange(ctx context.Context, exec sqlx.ExtContext, instructorID string, longRange []byte) error {
	target := r.exec(exec)
	const query = `UPDATE instructor_schedules SET long_range = $1, updated_at = $2 WHERE instructor_id = $3`
	if _, err := target.ExecContext(ctx, query, longRange, time.Now().UTC(), instructorID); err != nil {
		return fmt.Errorf("update long-range availability: %w", err)
	}
	return nil
}
