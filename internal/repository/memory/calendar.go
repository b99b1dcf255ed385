package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
)

type employeeRepository struct {
	store *Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{store: s}
}

func (e *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	emp, ok := e.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (e *employeeRepository) ListActive(ctx context.Context) ([]employee.Employee, error) {
	e.store.mu.RLock()
	defer e.store.mu.RUnlock()

	var out []employee.Employee
	for _, emp := range e.store.employees {
		if emp.IsActive {
			out = append(out, emp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type leaveRepository struct {
	store *Store
}

func NewLeaveRepository(s *Store) leave.LeaveRepository {
	return &leaveRepository{store: s}
}

func (l *leaveRepository) IsOnApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	date = period.Truncate(date)
	for _, lv := range l.store.leaves {
		if lv.EmployeeID == employeeID && lv.Covers(date) {
			return true, nil
		}
	}
	return false, nil
}

func (l *leaveRepository) CountApprovedOverlapping(ctx context.Context, start, end time.Time) (int64, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	var count int64
	for _, lv := range l.store.leaves {
		if lv.Status == leave.LeaveStatusApproved && lv.Overlaps(start, end) {
			count++
		}
	}
	return count, nil
}

func (l *leaveRepository) ListRecent(ctx context.Context, limit int) ([]leave.LeaveInterval, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()

	out := make([]leave.LeaveInterval, 0, len(l.store.leaves))
	for _, lv := range l.store.leaves {
		if emp, ok := l.store.employees[lv.EmployeeID]; ok {
			name := emp.FullName
			lv.EmployeeName = &name
		}
		out = append(out, lv)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type holidayRepository struct {
	store *Store
}

func NewHolidayRepository(s *Store) holiday.HolidayRepository {
	return &holidayRepository{store: s}
}

func (h *holidayRepository) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()
	return h.matches(date), nil
}

func (h *holidayRepository) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	h.store.mu.RLock()
	defer h.store.mu.RUnlock()

	var count int64
	for _, day := range (period.Range{Start: period.Truncate(start), End: period.Truncate(end)}).Days() {
		if h.matches(day) {
			count++
		}
	}
	return count, nil
}

// matches is called with mu held.
func (h *holidayRepository) matches(date time.Time) bool {
	for _, hd := range h.store.holidays {
		if hd.Matches(date) {
			return true
		}
	}
	return false
}
