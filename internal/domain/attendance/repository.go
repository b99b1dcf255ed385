package attendance

import (
	"context"
	"time"
)

// AttendanceRepository stores one DailyAttendance per (employee, date).
// Dates are calendar dates; implementations ignore the wall-clock part.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when no record exists
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*DailyAttendance, error)

	// GetByEmployeeAndDateForUpdate is GetByEmployeeAndDate holding a row lock
	// until the surrounding transaction ends
	GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*DailyAttendance, error)

	// Create inserts a new record. Returns ErrAttendanceConflict when the
	// (employee, date) key is already taken.
	Create(ctx context.Context, record DailyAttendance) (DailyAttendance, error)

	// Update overwrites punches and flags of an existing record
	Update(ctx context.Context, record DailyAttendance) error

	// ListByEmployee returns an employee's records with start <= date <= end, oldest first
	ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]DailyAttendance, error)

	// ListByDateRange returns every employee's records with start <= date <= end
	ListByDateRange(ctx context.Context, start, end time.Time) ([]DailyAttendance, error)

	// ListRecent returns at most limit records, most recently punched first
	ListRecent(ctx context.Context, limit int) ([]DailyAttendance, error)
}
