package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/scheduler-api/internal/models"
)

func newAvailabilityRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAvailabilityRepositoryGetByInstructor(t *testing.T) {
	db, mock, cleanup := newAvailabilityRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "instructor_id", "weekly_template", "long_range", "vacations", "school_exclusions",
		"created_at", "updated_at",
	}).AddRow(
		"s1", "i1", types.JSONText(`{}`), types.JSONText(`{}`), types.JSONText(`[]`), types.JSONText(`[]`),
		time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM instructor_schedules WHERE instructor_id = \\$1").
		WithArgs("i1").
		WillReturnRows(rows)

	schedule, err := repo.GetByInstructor(context.Background(), "i1")
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.Equal(t, "i1", schedule.InstructorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newAvailabilityRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("INSERT INTO instructor_schedules").
		WillReturnResult(sqlmock.NewResult(1, 1))

	schedule := &models.InstructorSchedule{
		InstructorID:     "i1",
		WeeklyTemplate:   types.JSONText(`{"monday":{"lesson_slot_1":"Yes"}}`),
		LongRange:        types.JSONText(`{}`),
		Vacations:        types.JSONText(`[]`),
		SchoolExclusions: types.JSONText(`[]`),
	}
	err := repo.Upsert(context.Background(), nil, schedule)
	require.NoError(t, err)
	assert.NotEmpty(t, schedule.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryUpdateLongRange(t *testing.T) {
	db, mock, cleanup := newAvailabilityRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectExec("UPDATE instructor_schedules SET long_range = \\$1").
		WithArgs([]byte(`{"2025-03-03":{"lesson_slot_1":4}}`), sqlmock.AnyArg(), "i1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.UpdateLongRange(context.Background(), nil, "i1", []byte(`{"2025-03-03":{"lesson_slot_1":4}}`))
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
