// Package memory keeps the attendance core's state in process. It backs
// STORAGE_TYPE=memory and the service and handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
)

type attendanceKey struct {
	employeeID string
	date       string
}

func keyOf(employeeID string, date time.Time) attendanceKey {
	return attendanceKey{employeeID: employeeID, date: date.Format(period.DateLayout)}
}

// Store holds every table behind one RWMutex. txMu serialises units of work,
// which is what a row lock gives the PostgreSQL store.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	employees   map[string]employee.Employee
	leaves      []leave.LeaveInterval
	holidays    []holiday.Holiday
	attendances map[attendanceKey]attendance.DailyAttendance
	personal    []credential.PersonalCredential
	shared      []credential.SharedCredential
}

func NewStore() *Store {
	return &Store{
		employees:   make(map[string]employee.Employee),
		attendances: make(map[attendanceKey]attendance.DailyAttendance),
	}
}

// PutEmployee inserts or replaces an employee.
func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

func (s *Store) PutLeave(l leave.LeaveInterval) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaves = append(s.leaves, l)
}

func (s *Store) PutHoliday(h holiday.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = append(s.holidays, h)
}

type txMarker struct{}

type transactor struct {
	store *Store
}

func NewTransactor(s *Store) database.Transactor {
	return &transactor{store: s}
}

// WithinTransaction runs fn while holding the store's unit-of-work lock.
// Nested calls reuse the lock already held by ctx. Writes are not rolled back
// when fn fails.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txMarker{}).(bool); ok {
		return fn(ctx)
	}
	t.store.txMu.Lock()
	defer t.store.txMu.Unlock()
	return fn(context.WithValue(ctx, txMarker{}, true))
}
