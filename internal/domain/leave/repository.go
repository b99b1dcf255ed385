package leave

import (
	"context"
	"time"
)

// LeaveRepository is a read-only view of leave intervals.
type LeaveRepository interface {
	// IsOnApprovedLeave reports whether an approved interval of employeeID covers date
	IsOnApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// CountApprovedOverlapping counts approved intervals sharing a day with [start, end]
	CountApprovedOverlapping(ctx context.Context, start, end time.Time) (int64, error)

	// ListRecent returns at most limit leave requests of any status, newest first
	ListRecent(ctx context.Context, limit int) ([]LeaveInterval, error)
}
