package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/drivedesk/scheduler-api/internal/models"
)

// ProgramRepository manages stored programs and their schedule payloads.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs the repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

func (r *ProgramRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const programColumns = `id, name, school, sequence, start_date, end_date, status, variant,
student_list, class_schedule, drive_schedule, complete_schedule, annotated_schedule, created_at, updated_at`

// Create inserts a new program row.
func (r *ProgramRepository) Create(ctx context.Context, exec sqlx.ExtContext, program *models.Program) error {
	target := r.exec(exec)
	now := time.Now().UTC()
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	program.CreatedAt = now
	program.UpdatedAt = now

	const query = `
INSERT INTO programs (id, name, school, sequence, start_date, end_date, status, variant,
	student_list, class_schedule, drive_schedule, complete_schedule, annotated_schedule, created_at, updated_at)
VALUES (:id, :name, :school, :sequence, :start_date, :end_date, :status, :variant,
	:student_list, :class_schedule, :drive_schedule, :complete_schedule, :annotated_schedule, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, target, query, program); err != nil {
		return fmt.Errorf("create program: %w", err)
	}
	return nil
}

// GetByName fetches one program by its generated name.
func (r *ProgramRepository) GetByName(ctx context.Context, name string) (*models.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE name = $1`
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, name); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get program: %w", err)
	}
	return &program, nil
}

// List returns programs, optionally filtered by school and status.
func (r *ProgramRepository) List(ctx context.Context, school, status string) ([]models.Program, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + programColumns + ` FROM programs WHERE 1=1`)

	args := []interface{}{}
	if school != "" {
		args = append(args, school)
		fmt.Fprintf(&query, " AND school = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		fmt.Fprintf(&query, " AND status = $%d", len(args))
	}
	query.WriteString(" ORDER BY start_date DESC")

	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query.String(), args...); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// NextSequence returns the next per-school sequence number used in program
// names.
func (r *ProgramRepository) NextSequence(ctx context.Context, school string) (int, error) {
	const query = `SELECT COUNT(*) FROM programs WHERE school = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, school); err != nil {
		return 0, fmt.Errorf("count programs for school: %w", err)
	}
	return count + 1, nil
}

// UpdateSchedules rewrites the schedule payload columns after generation or
// assignment.
func (r *ProgramRepository) UpdateSchedules(ctx context.Context, exec sqlx.ExtContext, program *models.Program) error {
	target := r.exec(exec)
	program.UpdatedAt = time.Now().UTC()

	const query = `
UPDATE programs
SET class_schedule = :class_schedule,
    drive_schedule = :drive_schedule,
    complete_schedule = :complete_schedule,
    annotated_schedule = :annotated_schedule,
    status = :status,
    updated_at = :updated_at
WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, target, query, program)
	if err != nil {
		return fmt.Errorf("update program schedules: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
