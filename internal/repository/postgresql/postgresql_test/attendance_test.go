package postgresql_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository_CreateAndGet(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, "emp-1", true)

	repo := postgresql.NewAttendanceRepository(testDB, testLoc)
	date := time.Date(2024, 3, 14, 0, 0, 0, 0, testLoc)

	got, err := repo.GetByEmployeeAndDate(ctx, "emp-1", date)
	require.NoError(t, err)
	assert.Nil(t, got)

	rec := attendance.NewDailyAttendance("emp-1", date, false, false)
	_, err = rec.ApplyPunch(attendance.MorningArrival, time.Date(2024, 3, 14, 8, 5, 0, 0, testLoc))
	require.NoError(t, err)

	created, err := repo.Create(ctx, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	got, err = repo.GetByEmployeeAndDate(ctx, "emp-1", date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, date, got.Date)
	assert.True(t, got.IsLateMorning)
	assert.False(t, got.IsAbsent)
	require.NotNil(t, got.MorningArrival)
	assert.Equal(t, 8, got.MorningArrival.Hour())
	require.NotNil(t, got.EmployeeName)
	assert.Equal(t, "Employee emp-1", *got.EmployeeName)
}

func TestAttendanceRepository_CreateConflict(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, "emp-1", true)

	repo := postgresql.NewAttendanceRepository(testDB, testLoc)
	date := time.Date(2024, 3, 14, 0, 0, 0, 0, testLoc)

	_, err := repo.Create(ctx, attendance.NewDailyAttendance("emp-1", date, false, false))
	require.NoError(t, err)

	_, err = repo.Create(ctx, attendance.NewDailyAttendance("emp-1", date, false, false))
	assert.ErrorIs(t, err, attendance.ErrAttendanceConflict)
}

func TestAttendanceRepository_ConcurrentCreateKeepsOneRow(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, "emp-1", true)

	repo := postgresql.NewAttendanceRepository(testDB, testLoc)
	date := time.Date(2024, 3, 14, 0, 0, 0, 0, testLoc)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Create(ctx, attendance.NewDailyAttendance("emp-1", date, false, false))
		}()
	}
	wg.Wait()

	list, err := repo.ListByEmployee(ctx, "emp-1", date, date)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAttendanceRepository_UpdateAndList(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, "emp-1", true)
	createTestEmployee(t, ctx, "emp-2", true)

	repo := postgresql.NewAttendanceRepository(testDB, testLoc)
	day1 := time.Date(2024, 3, 14, 0, 0, 0, 0, testLoc)
	day2 := day1.AddDate(0, 0, 1)

	created, err := repo.Create(ctx, attendance.NewDailyAttendance("emp-1", day1, false, false))
	require.NoError(t, err)
	_, err = repo.Create(ctx, attendance.NewDailyAttendance("emp-2", day2, true, false))
	require.NoError(t, err)

	_, err = created.ApplyPunch(attendance.AfternoonArrival, time.Date(2024, 3, 14, 14, 20, 0, 0, testLoc))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, created))

	list, err := repo.ListByDateRange(ctx, day1, day2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "emp-1", list[0].EmployeeID)
	assert.False(t, list[0].IsAbsent)
	assert.False(t, list[0].IsLateAfternoon)
	assert.True(t, list[1].IsHoliday)

	mine, err := repo.ListByEmployee(ctx, "emp-2", day1, day1)
	require.NoError(t, err)
	assert.Empty(t, mine)

	missing := attendance.DailyAttendance{ID: "does-not-exist"}
	assert.ErrorIs(t, repo.Update(ctx, missing), attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_ListRecent(t *testing.T) {
	setupTestData(t)
	ctx := context.Background()
	createTestEmployee(t, ctx, "emp-1", true)
	createTestEmployee(t, ctx, "emp-2", true)

	repo := postgresql.NewAttendanceRepository(testDB, testLoc)
	day1 := time.Date(2024, 3, 14, 0, 0, 0, 0, testLoc)

	first, err := repo.Create(ctx, attendance.NewDailyAttendance("emp-1", day1, false, false))
	require.NoError(t, err)
	second, err := repo.Create(ctx, attendance.NewDailyAttendance("emp-2", day1, false, false))
	require.NoError(t, err)

	_, err = first.ApplyPunch(attendance.MorningArrival, time.Date(2024, 3, 14, 7, 45, 0, 0, testLoc))
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, first))

	recent, err := repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, first.ID, recent[0].ID)
	require.NotNil(t, recent[0].EmployeeName)
	assert.Equal(t, "Employee emp-1", *recent[0].EmployeeName)

	all, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[1].ID)
}
