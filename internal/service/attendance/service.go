package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/qrtoken"
)

// maxCreateAttempts bounds how often a lost first-punch race is retried
// against the winner's record.
const maxCreateAttempts = 3

type AttendanceServiceImpl struct {
	transactor database.Transactor
	attendance.AttendanceRepository
	employee.EmployeeRepository
	leave.LeaveRepository
	holiday.HolidayRepository
	credentialService credential.CredentialService
	loc               *time.Location
	now               func() time.Time
}

func (a *AttendanceServiceImpl) clock() time.Time {
	return a.now().In(a.loc)
}

// verifyCredential accepts a personal token bound to employeeID, or the
// active shared token for the punch's half of the day.
func (a *AttendanceServiceImpl) verifyCredential(ctx context.Context, qrData, employeeID string, punch attendance.PunchType, now time.Time) bool {
	if qrtoken.IsShared(qrData) {
		return a.credentialService.VerifyShared(ctx, qrData, credential.SharedTypeFor(punch.IsMorning()), now)
	}
	return a.credentialService.VerifyPersonal(qrData, employeeID, now)
}

// RecordPunch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) RecordPunch(ctx context.Context, req attendance.RecordPunchRequest) (attendance.PunchResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.PunchResponse{}, err
	}

	now := a.clock()

	if !a.verifyCredential(ctx, req.QRData, req.EmployeeID, req.PunchType, now) {
		return attendance.PunchResponse{}, credential.ErrInvalidCredential
	}

	if _, err := employee.GetActive(ctx, a.EmployeeRepository, req.EmployeeID); err != nil {
		return attendance.PunchResponse{}, err
	}

	record, late, err := a.ApplyPunch(ctx, req.EmployeeID, period.Truncate(now), req.PunchType, now)
	if err != nil {
		return attendance.PunchResponse{}, err
	}

	return attendance.PunchResponse{
		Message:    attendance.PunchMessage(req.PunchType),
		Attendance: attendance.ToResponse(record),
		IsLate:     late,
	}, nil
}

// ApplyPunch implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ApplyPunch(ctx context.Context, employeeID string, date time.Time, punch attendance.PunchType, now time.Time) (attendance.DailyAttendance, bool, error) {
	if !punch.IsValid() {
		return attendance.DailyAttendance{}, false, attendance.ErrInvalidPunchType
	}

	var (
		result attendance.DailyAttendance
		late   bool
	)

	for attempt := 1; ; attempt++ {
		err := a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
			existing, err := a.AttendanceRepository.GetByEmployeeAndDateForUpdate(ctx, employeeID, date)
			if err != nil {
				return err
			}

			if existing != nil {
				late, err = existing.ApplyPunch(punch, now)
				if err != nil {
					return err
				}
				if err := a.AttendanceRepository.Update(ctx, *existing); err != nil {
					return fmt.Errorf("failed to update attendance record: %w", err)
				}
				result = *existing
				return nil
			}

			isHoliday, err := a.HolidayRepository.IsHoliday(ctx, date)
			if err != nil {
				return fmt.Errorf("failed to check holiday: %w", err)
			}
			isOnLeave, err := a.LeaveRepository.IsOnApprovedLeave(ctx, employeeID, date)
			if err != nil {
				return fmt.Errorf("failed to check leave: %w", err)
			}

			record := attendance.NewDailyAttendance(employeeID, date, isHoliday, isOnLeave)
			late, err = record.ApplyPunch(punch, now)
			if err != nil {
				return err
			}

			created, err := a.AttendanceRepository.Create(ctx, record)
			if err != nil {
				return err
			}
			result = created
			return nil
		})

		if err == nil {
			return result, late, nil
		}
		if errors.Is(err, attendance.ErrAttendanceConflict) && attempt < maxCreateAttempts {
			slog.Info("Attendance record created concurrently, retrying punch", "employee_id", employeeID, "date", date.Format(period.DateLayout), "attempt", attempt)
			continue
		}
		return attendance.DailyAttendance{}, false, err
	}
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	r, err := filter.Resolve(a.clock())
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if _, err := a.EmployeeRepository.GetByID(ctx, filter.EmployeeID); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, filter.EmployeeID, r.Start, r.End)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.ToResponse(record))
	}

	return attendance.ListAttendanceResponse{
		StartDate:   r.Start.Format(period.DateLayout),
		EndDate:     r.End.Format(period.DateLayout),
		Attendances: responses,
	}, nil
}

// NewAttendanceService wires the punch state machine. Punch times are read
// from now in loc; now defaults to time.Now.
func NewAttendanceService(
	transactor database.Transactor,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRepository,
	holidayRepo holiday.HolidayRepository,
	credentialService credential.CredentialService,
	loc *time.Location,
	now func() time.Time,
) attendance.AttendanceService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &AttendanceServiceImpl{
		transactor:           transactor,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		LeaveRepository:      leaveRepo,
		HolidayRepository:    holidayRepo,
		credentialService:    credentialService,
		loc:                  loc,
		now:                  now,
	}
}
