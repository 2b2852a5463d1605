package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivedesk/scheduler-api/internal/models"
)

func newProgramRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestProgramRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newProgramRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectExec("INSERT INTO programs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	program := &models.Program{
		Name:      "2025-01-HSS",
		School:    "HSS",
		Sequence:  1,
		StartDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 4, 14, 0, 0, 0, 0, time.UTC),
		Status:    models.ProgramStatusPlanned,
		Variant:   models.CourseVariantStandard,
	}
	err := repo.Create(context.Background(), nil, program)
	require.NoError(t, err)
	assert.NotEmpty(t, program.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryGetByName(t *testing.T) {
	db, mock, cleanup := newProgramRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "school", "sequence", "start_date", "end_date", "status", "variant",
		"student_list", "class_schedule", "drive_schedule", "complete_schedule", "annotated_schedule",
		"created_at", "updated_at",
	}).AddRow(
		"p1", "2025-01-HSS", "HSS", 1, time.Now(), time.Now(), "planned", "standard",
		types.JSONText(`[]`), types.JSONText(`[]`), types.JSONText(`[]`), types.JSONText(`[]`), types.JSONText(`[]`),
		time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM programs WHERE name = \\$1").
		WithArgs("2025-01-HSS").
		WillReturnRows(rows)

	program, err := repo.GetByName(context.Background(), "2025-01-HSS")
	require.NoError(t, err)
	require.NotNil(t, program)
	assert.Equal(t, "HSS", program.School)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryGetByNameMissing(t *testing.T) {
	db, mock, cleanup := newProgramRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM programs WHERE name = \\$1").
		WithArgs("2025-99-XYZ").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	program, err := repo.GetByName(context.Background(), "2025-99-XYZ")
	require.NoError(t, err)
	assert.Nil(t, program)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryNextSequence(t *testing.T) {
	db, mock, cleanup := newProgramRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM programs WHERE school = $1")).
		WithArgs("HSS").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	seq, err := repo.NextSequence(context.Background(), "HSS")
	require.NoError(t, err)
	assert.Equal(t, 3, seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryList(t *testing.T) {
	db, mock, cleanup := newProgramRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "school", "sequence", "start_date", "end_date", "status", "variant",
		"student_list", "class_schedule", "drive_schedule", "complete_schedule", "annotated_schedule",
		"created_at", "updated_at",
	}).AddRow(
		"p1", "2025-01-HSS", "HSS", 1, time.Now(), time.Now(), "active", "standard",
		types.JSONText(`[]`), types.JSONText(`[]`), types.JSONText(`[]`), types.JSONText(`[]`), types.JSONText(`[]`),
		time.Now(), time.Now(),
	)
	mock.ExpectQuery("SELECT (.+) FROM programs WHERE 1=1 AND school = \\$1 AND status = \\$2 ORDER BY start_date DESC").
		WithArgs("HSS", "active").
		WillReturnRows(rows)

	programs, err := repo.List(context.Background(), "HSS", "active")
	require.NoError(t, err)
	assert.Len(t, programs, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
