package holiday

import (
	"context"
	"time"
)

// HolidayRepository is a read-only holiday calendar.
type HolidayRepository interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)

	// CountBetween counts the dates in [start, end] that are holidays
	CountBetween(ctx context.Context, start, end time.Time) (int64, error)
}
