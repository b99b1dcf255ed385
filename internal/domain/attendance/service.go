package attendance

import (
	"context"
	"time"
)

// AttendanceService drives the per-employee, per-day punch state machine
type AttendanceService interface {
	// RecordPunch verifies the scanned credential and applies the punch to today's record
	RecordPunch(ctx context.Context, req RecordPunchRequest) (PunchResponse, error)

	// ApplyPunch creates-or-updates the record for (employeeID, date) atomically.
	// The bool result is true when this punch was a late arrival.
	ApplyPunch(ctx context.Context, employeeID string, date time.Time, punch PunchType, now time.Time) (DailyAttendance, bool, error)

	// ListAttendance returns an employee's records over a resolved period
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
}
