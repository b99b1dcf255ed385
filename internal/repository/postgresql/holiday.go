package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/database"
)

type holidayRepository struct {
	db *database.DB
}

func NewHolidayRepository(db *database.DB) holiday.HolidayRepository {
	return &holidayRepository{db: db}
}

// IsHoliday implements holiday.HolidayRepository.
func (h *holidayRepository) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	count, err := h.CountBetween(ctx, date, date)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountBetween implements holiday.HolidayRepository.
// Recurring holidays match on month and day in any year.
func (h *holidayRepository) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	q := GetQuerier(ctx, h.db)

	query := `
		SELECT COUNT(*)
		FROM generate_series($1::date, $2::date, INTERVAL '1 day') AS d(day)
		WHERE EXISTS (
			SELECT 1 FROM holidays hd
			WHERE hd.date = d.day::date
			   OR (hd.is_recurring
			       AND EXTRACT(MONTH FROM hd.date) = EXTRACT(MONTH FROM d.day)
			       AND EXTRACT(DAY FROM hd.date) = EXTRACT(DAY FROM d.day))
		)
	`

	var count int64
	if err := q.QueryRow(ctx, query, dateOnly(start), dateOnly(end)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count holidays: %w", err)
	}

	return count, nil
}
