package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/report"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Credential domain errors
	case errors.Is(err, credential.ErrInvalidCredential):
		BadRequestWithCode(w, CodeInvalidCredential, err.Error(), nil)
	case errors.Is(err, credential.ErrInvalidSharedType):
		BadRequest(w, err.Error(), nil)

	// Period and report errors
	case errors.Is(err, period.ErrInvalidPeriod):
		BadRequestWithCode(w, CodeInvalidPeriod, "Period must be day, week, month, quarter, semester, year or custom with start_date and end_date", nil)
	case errors.Is(err, report.ErrInvalidTrendDays), errors.Is(err, report.ErrInvalidActivityLimit):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is inactive")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrInvalidPunchType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceConflict):
		Conflict(w, "Attendance record was modified concurrently, please retry")
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
