package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/qr-attendance/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployeeRepository(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, "emp-1", true)
	createTestEmployee(t, ctx, "emp-2", false)

	repo := postgresql.NewEmployeeRepository(testDB)

	emp, err := repo.GetByID(ctx, "emp-2")
	require.NoError(t, err)
	assert.False(t, emp.IsActive)

	_, err = repo.GetByID(ctx, "nobody")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "emp-1", active[0].ID)
}

func TestLeaveRepository(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, "emp-1", true)

	_, err := testDB.Exec(ctx, `
		INSERT INTO leave_requests (id, employee_id, start_date, end_date, status) VALUES
			('l1', 'emp-1', '2024-03-10', '2024-03-12', 'approved'),
			('l2', 'emp-1', '2024-03-20', '2024-03-21', 'pending'),
			('l3', 'emp-1', '2024-02-25', '2024-03-01', 'approved')
	`)
	require.NoError(t, err)

	repo := postgresql.NewLeaveRepository(testDB)

	onLeave, err := repo.IsOnApprovedLeave(ctx, "emp-1", time.Date(2024, 3, 12, 0, 0, 0, 0, testLoc))
	require.NoError(t, err)
	assert.True(t, onLeave)

	onLeave, err = repo.IsOnApprovedLeave(ctx, "emp-1", time.Date(2024, 3, 20, 0, 0, 0, 0, testLoc))
	require.NoError(t, err)
	assert.False(t, onLeave)

	count, err := repo.CountApprovedOverlapping(ctx,
		time.Date(2024, 3, 1, 0, 0, 0, 0, testLoc), time.Date(2024, 3, 31, 0, 0, 0, 0, testLoc))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestHolidayRepository(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()

	_, err := testDB.Exec(ctx, `
		INSERT INTO holidays (date, name, is_recurring) VALUES
			('2020-12-25', 'Christmas', TRUE),
			('2024-12-26', 'Boxing Day', FALSE),
			('2023-12-27', 'One-off', FALSE)
	`)
	require.NoError(t, err)

	repo := postgresql.NewHolidayRepository(testDB)

	isHoliday, err := repo.IsHoliday(ctx, time.Date(2024, 12, 25, 0, 0, 0, 0, testLoc))
	require.NoError(t, err)
	assert.True(t, isHoliday)

	count, err := repo.CountBetween(ctx,
		time.Date(2024, 12, 1, 0, 0, 0, 0, testLoc), time.Date(2024, 12, 31, 0, 0, 0, 0, testLoc))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestLeaveRepository_ListRecent(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, "emp-1", true)

	_, err := testDB.Exec(ctx, `
		INSERT INTO leave_requests (id, employee_id, start_date, end_date, leave_type, status, reason, created_at) VALUES
			('l1', 'emp-1', '2024-03-10', '2024-03-12', 'annual', 'approved', 'family', '2024-03-01 09:00:00+07'),
			('l2', 'emp-1', '2024-03-20', '2024-03-21', 'sick', 'pending', NULL, '2024-03-02 09:00:00+07'),
			('l3', 'emp-1', '2024-02-25', '2024-03-01', 'annual', 'rejected', NULL, '2024-02-20 09:00:00+07')
	`)
	require.NoError(t, err)

	recent, err := postgresql.NewLeaveRepository(testDB).ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "l2", recent[0].ID)
	assert.Equal(t, leave.LeaveStatusPending, recent[0].Status)
	assert.Nil(t, recent[0].Reason)
	require.NotNil(t, recent[0].EmployeeName)
	assert.Equal(t, "Employee emp-1", *recent[0].EmployeeName)
	assert.Equal(t, "l1", recent[1].ID)
	require.NotNil(t, recent[1].Reason)
	assert.Equal(t, "family", *recent[1].Reason)
}
