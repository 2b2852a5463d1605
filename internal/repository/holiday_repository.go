package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/drivedesk/scheduler-api/internal/models"
)

// HolidayRepository reads the vacation-day calendar shared by every school.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

type holidayRow struct {
	Date time.Time `db:"date"`
	Name string    `db:"name"`
}

// SetBetween returns holidays in [start, end] keyed by ISO date.
func (r *HolidayRepository) SetBetween(ctx context.Context, start, end time.Time) (models.HolidaySet, error) {
	const query = `SELECT date, name FROM holidays WHERE date >= $1 AND date <= $2 ORDER BY date ASC`
	var rows []holidayRow
	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	set := make(models.HolidaySet, len(rows))
	for _, row := range rows {
		set[row.Date.Format("2006-01-02")] = row.Name
	}
	return set, nil
}
