package attendance

import "errors"

// Attendance domain errors
var (
	ErrInvalidPunchType   = errors.New("punch type must be one of morning_arrival, morning_departure, afternoon_arrival, afternoon_departure")
	ErrAttendanceNotFound = errors.New("attendance record not found")

	// ErrAttendanceConflict means another request created the record for the
	// same employee and date first. The punch is retried against that record.
	ErrAttendanceConflict = errors.New("attendance record for this employee and date already exists")
)
