package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-scheduling-api/internal/models"
)

// HolidayRepository reads and seeds the holiday calendar.
type HolidayRepository struct {
	db *sqlx.DB
}

// NewHolidayRepository constructs the repository.
func NewHolidayRepository(db *sqlx.DB) *HolidayRepository {
	return &HolidayRepository{db: db}
}

// List returns holidays within the filter window ordered by date.
func (r *HolidayRepository) List(ctx context.Context, filter models.HolidayFilter) ([]models.Holiday, error) {
	var conditions []string
	var args []interface{}

	if !filter.Start.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, filter.Start)
	}
	if !filter.End.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, filter.End)
	}
	if filter.NationalOnly {
		conditions = append(conditions, "is_national = TRUE")
	}

	query := "SELECT date, name, is_national FROM holidays"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date ASC"

	var holidays []models.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query, args...); err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	return holidays, nil
}

// Upsert stores holidays, replacing the name and national flag of existing dates.
func (r *HolidayRepository) Upsert(ctx context.Context, holidays []models.Holiday) (err error) {
	if len(holidays) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin holiday transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO holidays (date, name, is_national) VALUES ($1, $2, $3)
ON CONFLICT (date) DO UPDATE SET name = EXCLUDED.name, is_national = EXCLUDED.is_national`
	for _, h := range holidays {
		if _, err = tx.ExecContext(ctx, query, h.Date, h.Name, h.IsNational); err != nil {
			return fmt.Errorf("upsert holiday %s: %w", h.Date, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit holidays: %w", err)
	}
	return nil
}
