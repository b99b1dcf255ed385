package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{store: s}
}

// withName attaches the employee's name the way the SQL join does. Caller holds mu.
func (a *attendanceRepository) withName(att attendance.DailyAttendance) attendance.DailyAttendance {
	if emp, ok := a.store.employees[att.EmployeeID]; ok {
		name := emp.FullName
		att.EmployeeName = &name
	}
	return att
}

func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailyAttendance, error) {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	att, ok := a.store.attendances[keyOf(employeeID, date)]
	if !ok {
		return nil, nil
	}
	att = a.withName(att)
	return &att, nil
}

// GetByEmployeeAndDateForUpdate relies on the transactor's lock for exclusivity.
func (a *attendanceRepository) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*attendance.DailyAttendance, error) {
	return a.GetByEmployeeAndDate(ctx, employeeID, date)
}

func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.DailyAttendance) (attendance.DailyAttendance, error) {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	key := keyOf(newAttendance.EmployeeID, newAttendance.Date)
	if _, exists := a.store.attendances[key]; exists {
		return attendance.DailyAttendance{}, attendance.ErrAttendanceConflict
	}

	if newAttendance.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return attendance.DailyAttendance{}, err
		}
		newAttendance.ID = id.String()
	}
	now := time.Now()
	newAttendance.CreatedAt = now
	newAttendance.UpdatedAt = now
	newAttendance.EmployeeName = nil

	a.store.attendances[key] = newAttendance
	return a.withName(newAttendance), nil
}

func (a *attendanceRepository) Update(ctx context.Context, att attendance.DailyAttendance) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()

	key := keyOf(att.EmployeeID, att.Date)
	existing, ok := a.store.attendances[key]
	if !ok || existing.ID != att.ID {
		return attendance.ErrAttendanceNotFound
	}

	existing.MorningArrival = att.MorningArrival
	existing.MorningDeparture = att.MorningDeparture
	existing.AfternoonArrival = att.AfternoonArrival
	existing.AfternoonDeparture = att.AfternoonDeparture
	existing.IsLateMorning = att.IsLateMorning
	existing.IsLateAfternoon = att.IsLateAfternoon
	existing.IsAbsent = att.IsAbsent
	existing.UpdatedAt = time.Now()

	a.store.attendances[key] = existing
	return nil
}

func (a *attendanceRepository) list(match func(attendance.DailyAttendance) bool) []attendance.DailyAttendance {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	var out []attendance.DailyAttendance
	for _, att := range a.store.attendances {
		if match(att) {
			out = append(out, a.withName(att))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}

func inRange(date, start, end time.Time) bool {
	return period.Range{Start: start, End: end}.Contains(date)
}

func (a *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, start, end time.Time) ([]attendance.DailyAttendance, error) {
	return a.list(func(att attendance.DailyAttendance) bool {
		return att.EmployeeID == employeeID && inRange(att.Date, start, end)
	}), nil
}

func (a *attendanceRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]attendance.DailyAttendance, error) {
	return a.list(func(att attendance.DailyAttendance) bool {
		return inRange(att.Date, start, end)
	}), nil
}

func (a *attendanceRepository) ListRecent(ctx context.Context, limit int) ([]attendance.DailyAttendance, error) {
	out := a.list(func(attendance.DailyAttendance) bool { return true })
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
