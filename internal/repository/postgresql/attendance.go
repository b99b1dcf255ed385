package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.employee_id, a.date,
	a.morning_arrival, a.morning_departure, a.afternoon_arrival, a.afternoon_departure,
	a.is_late_morning, a.is_late_afternoon, a.is_absent, a.is_holiday, a.is_on_leave,
	a.created_at, a.updated_at,
	e.full_name AS employee_name`

type attendanceRepository struct {
	db  *database.DB
	loc *time.Location
}

func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, loc: loc}
}

func (a *attendanceRepository) scan(row pgx.Row) (attendance.DailyAttendance, error) {
	var att attendance.DailyAttendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date,
		&att.MorningArrival, &att.MorningDeparture, &att.AfternoonArrival, &att.AfternoonDeparture,
		&att.IsLateMorning, &att.IsLateAfternoon, &att.IsAbsent, &att.IsHoliday, &att.IsOnLeave,
		&att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName,
	)
	if err != nil {
		return attendance.DailyAttendance{}, err
	}

	att.Date = dateIn(att.Date, a.loc)
	att.MorningArrival = inLocation(att.MorningArrival, a.loc)
	att.MorningDeparture = inLocation(att.MorningDeparture, a.loc)
	att.AfternoonArrival = inLocation(att.AfternoonArrival, a.loc)
	att.AfternoonDeparture = inLocation(att.AfternoonDeparture, a.loc)
	return att, nil
}

func (a *attendanceRepository) getByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, lock string) (*attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM daily_attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.employee_id = $1
		  AND a.date = $2
		` + lock

	att, err := a.scan(q.QueryRow(ctx, query, employeeID, dateOnly(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailyAttendance, error) {
	return a.getByEmployeeAndDate(ctx, employeeID, date, "")
}

// GetByEmployeeAndDateForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailyAttendance, error) {
	return a.getByEmployeeAndDate(ctx, employeeID, date, "FOR UPDATE OF a")
}

// Create implements attendance.AttendanceRepository.
// ON CONFLICT DO NOTHING keeps the surrounding transaction usable when a
// concurrent request wins the race, so the caller can re-read and continue.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.DailyAttendance) (attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, a.db)

	if newAttendance.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.DailyAttendance{}, fmt.Errorf("failed to generate attendance id: %w", err)
		}
		newAttendance.ID = id.String()
	}

	query := `
		INSERT INTO daily_attendances (
			id, employee_id, date,
			morning_arrival, morning_departure, afternoon_arrival, afternoon_departure,
			is_late_morning, is_late_afternoon, is_absent, is_holiday, is_on_leave
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		)
		ON CONFLICT ON CONSTRAINT uq_daily_attendances_employee_date DO NOTHING
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.ID,
		newAttendance.EmployeeID,
		dateOnly(newAttendance.Date),
		newAttendance.MorningArrival,
		newAttendance.MorningDeparture,
		newAttendance.AfternoonArrival,
		newAttendance.AfternoonDeparture,
		newAttendance.IsLateMorning,
		newAttendance.IsLateAfternoon,
		newAttendance.IsAbsent,
		newAttendance.IsHoliday,
		newAttendance.IsOnLeave,
	).Scan(&newAttendance.CreatedAt, &newAttendance.UpdatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.DailyAttendance{}, attendance.ErrAttendanceConflict
		}
		return attendance.DailyAttendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.DailyAttendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE daily_attendances SET
			morning_arrival = $2,
			morning_departure = $3,
			afternoon_arrival = $4,
			afternoon_departure = $5,
			is_late_morning = $6,
			is_late_afternoon = $7,
			is_absent = $8,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := q.Exec(ctx, query,
		att.ID,
		att.MorningArrival,
		att.MorningDeparture,
		att.AfternoonArrival,
		att.AfternoonDeparture,
		att.IsLateMorning,
		att.IsLateAfternoon,
		att.IsAbsent,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

const chronological = "ORDER BY a.date ASC, a.employee_id ASC"

func (a *attendanceRepository) list(ctx context.Context, where, tail string, args ...interface{}) ([]attendance.DailyAttendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM daily_attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + where + `
		` + tail

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.DailyAttendance
	for rows.Next() {
		att, err := a.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendances: %w", err)
	}

	return attendances, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.DailyAttendance, error) {
	return a.list(ctx, "a.employee_id = $1 AND a.date >= $2 AND a.date <= $3", chronological, employeeID, dateOnly(start), dateOnly(end))
}

// ListByDateRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]attendance.DailyAttendance, error) {
	return a.list(ctx, "a.date >= $1 AND a.date <= $2", chronological, dateOnly(start), dateOnly(end))
}

// ListRecent implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListRecent(ctx context.Context, limit int) ([]attendance.DailyAttendance, error) {
	return a.list(ctx, "TRUE", "ORDER BY a.updated_at DESC, a.id DESC LIMIT $1", limit)
}
