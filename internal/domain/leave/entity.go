package leave

import (
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
)

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// LeaveInterval is an inclusive leave date range. Only approved intervals
// mark an employee as on leave.
type LeaveInterval struct {
	ID         string
	EmployeeID string
	StartDate  time.Time
	EndDate    time.Time
	LeaveType  string
	Status     LeaveStatus
	Reason     *string
	CreatedAt  time.Time

	// DTO
	EmployeeName *string
}

func (l LeaveInterval) dates() period.Range {
	return period.Range{Start: l.StartDate, End: l.EndDate}
}

// Covers reports whether the interval is approved and includes the calendar
// date of date.
func (l LeaveInterval) Covers(date time.Time) bool {
	return l.Status == LeaveStatusApproved && l.dates().Contains(date)
}

// Overlaps reports whether the interval shares at least one day with [start, end].
func (l LeaveInterval) Overlaps(start, end time.Time) bool {
	return l.dates().Overlaps(period.Range{Start: start, End: end})
}
