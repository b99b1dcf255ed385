package attendance

import (
	"math"
	"strings"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/validator"
)

// ========================================
// PUNCH DTOs
// ========================================

type RecordPunchRequest struct {
	EmployeeID string    `json:"employee_id"`
	PunchType  PunchType `json:"punch_type"`
	QRData     string    `json:"qr_data"`
}

func (r *RecordPunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	r.PunchType = PunchType(strings.ToLower(strings.TrimSpace(string(r.PunchType))))
	if !r.PunchType.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "punch_type",
			Message: ErrInvalidPunchType.Error(),
		})
	}

	if validator.IsEmpty(r.QRData) {
		errs = append(errs, validator.ValidationError{
			Field:   "qr_data",
			Message: "qr_data is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type PunchResponse struct {
	Message    string             `json:"message"`
	Attendance AttendanceResponse `json:"attendance"`
	IsLate     bool               `json:"is_late"`
}

// PunchMessage is the confirmation shown to the employee after a punch.
func PunchMessage(p PunchType) string {
	switch p {
	case MorningArrival:
		return "Morning arrival recorded"
	case MorningDeparture:
		return "Morning departure recorded, enjoy your break"
	case AfternoonArrival:
		return "Afternoon arrival recorded"
	case AfternoonDeparture:
		return "Afternoon departure recorded, see you tomorrow"
	}
	return ""
}

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID                 string  `json:"id"`
	EmployeeID         string  `json:"employee_id"`
	EmployeeName       *string `json:"employee_name,omitempty"`
	Date               string  `json:"date"`
	MorningArrival     *string `json:"morning_arrival,omitempty"`
	MorningDeparture   *string `json:"morning_departure,omitempty"`
	AfternoonArrival   *string `json:"afternoon_arrival,omitempty"`
	AfternoonDeparture *string `json:"afternoon_departure,omitempty"`
	IsLateMorning      bool    `json:"is_late_morning"`
	IsLateAfternoon    bool    `json:"is_late_afternoon"`
	IsAbsent           bool    `json:"is_absent"`
	IsHoliday          bool    `json:"is_holiday"`
	IsOnLeave          bool    `json:"is_on_leave"`
	LateMinutes        int     `json:"late_minutes"`
	WorkingHours       float64 `json:"working_hours"`
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func ToResponse(d DailyAttendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                 d.ID,
		EmployeeID:         d.EmployeeID,
		EmployeeName:       d.EmployeeName,
		Date:               d.Date.Format(period.DateLayout),
		MorningArrival:     timePtrToString(d.MorningArrival),
		MorningDeparture:   timePtrToString(d.MorningDeparture),
		AfternoonArrival:   timePtrToString(d.AfternoonArrival),
		AfternoonDeparture: timePtrToString(d.AfternoonDeparture),
		IsLateMorning:      d.IsLateMorning,
		IsLateAfternoon:    d.IsLateAfternoon,
		IsAbsent:           d.IsAbsent,
		IsHoliday:          d.IsHoliday,
		IsOnLeave:          d.IsOnLeave,
		LateMinutes:        d.LateMinutes(),
		WorkingHours:       math.Round(d.WorkedDuration().Hours()*100) / 100,
	}
}

type AttendanceFilter struct {
	EmployeeID string `json:"employee_id"`
	period.Request
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if f.StartDate != "" {
		if _, ok := validator.IsValidDate(f.StartDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != "" {
		if _, ok := validator.IsValidDate(f.EndDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	StartDate   string               `json:"start_date"`
	EndDate     string               `json:"end_date"`
	Attendances []AttendanceResponse `json:"attendances"`
}
