package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/credential"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/qrtoken"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/validator"
	"github.com/cmlabs-hris/qr-attendance/internal/repository/memory"
	credentialService "github.com/cmlabs-hris/qr-attendance/internal/service/credential"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wib = time.FixedZone("WIB", 7*60*60)

type fixture struct {
	mu          sync.Mutex
	now         time.Time
	store       *memory.Store
	codec       *qrtoken.Codec
	credentials credential.CredentialService
	svc         attendance.AttendanceService
}

func (f *fixture) clock() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fixture) setNow(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()
	f := &fixture{now: now, store: memory.NewStore(), codec: qrtoken.NewCodec(wib)}
	f.store.PutEmployee(employee.Employee{ID: "emp-1", FullName: "Ani", IsActive: true})
	f.store.PutEmployee(employee.Employee{ID: "emp-2", FullName: "Budi", IsActive: false})

	f.credentials = credentialService.NewCredentialService(
		memory.NewPersonalCredentialRepository(f.store),
		memory.NewSharedCredentialRepository(f.store),
		memory.NewEmployeeRepository(f.store),
		f.codec,
		f.clock,
	)
	f.svc = NewAttendanceService(
		memory.NewTransactor(f.store),
		memory.NewAttendanceRepository(f.store),
		memory.NewEmployeeRepository(f.store),
		memory.NewLeaveRepository(f.store),
		memory.NewHolidayRepository(f.store),
		f.credentials,
		wib,
		f.clock,
	)
	return f
}

// personalToken issues a token straight from the codec so inactive employees can be tested.
func (f *fixture) personalToken(t *testing.T, employeeID string) string {
	t.Helper()
	p, err := f.codec.IssuePersonal(employeeID, f.clock())
	require.NoError(t, err)
	return p.Token
}

func (f *fixture) punch(t *testing.T, employeeID string, punch attendance.PunchType) (attendance.PunchResponse, error) {
	t.Helper()
	return f.svc.RecordPunch(context.Background(), attendance.RecordPunchRequest{
		EmployeeID: employeeID,
		PunchType:  punch,
		QRData:     f.personalToken(t, employeeID),
	})
}

func TestRecordPunch_MorningLatenessBoundary(t *testing.T) {
	cases := []struct {
		at   time.Time
		late bool
	}{
		{time.Date(2024, 3, 14, 7, 59, 59, 0, wib), false},
		{time.Date(2024, 3, 14, 8, 0, 0, 0, wib), false},
		{time.Date(2024, 3, 14, 8, 0, 1, 0, wib), true},
	}

	for _, c := range cases {
		f := newFixture(t, c.at)
		resp, err := f.punch(t, "emp-1", attendance.MorningArrival)
		require.NoError(t, err)
		assert.Equal(t, c.late, resp.IsLate, c.at.Format(time.TimeOnly))
		assert.Equal(t, c.late, resp.Attendance.IsLateMorning, c.at.Format(time.TimeOnly))
		assert.False(t, resp.Attendance.IsAbsent)
	}
}

func TestRecordPunch_AfternoonLateness(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 14, 14, 30, 0, 0, wib))
	resp, err := f.punch(t, "emp-1", attendance.AfternoonArrival)
	require.NoError(t, err)
	assert.False(t, resp.IsLate)

	f.setNow(time.Date(2024, 3, 14, 14, 45, 30, 0, wib))
	resp, err = f.punch(t, "emp-1", attendance.AfternoonArrival)
	require.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, 15, resp.Attendance.LateMinutes)
}

func TestRecordPunch_FullDay(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 14, 8, 10, 0, 0, wib))

	steps := []struct {
		at    time.Time
		punch attendance.PunchType
	}{
		{time.Date(2024, 3, 14, 8, 10, 0, 0, wib), attendance.MorningArrival},
		{time.Date(2024, 3, 14, 12, 0, 0, 0, wib), attendance.MorningDeparture},
		{time.Date(2024, 3, 14, 14, 0, 0, 0, wib), attendance.AfternoonArrival},
		{time.Date(2024, 3, 14, 18, 0, 0, 0, wib), attendance.AfternoonDeparture},
	}

	var last attendance.PunchResponse
	for _, s := range steps {
		f.setNow(s.at)
		resp, err := f.punch(t, "emp-1", s.punch)
		require.NoError(t, err)
		assert.Equal(t, attendance.PunchMessage(s.punch), resp.Message)
		last = resp
	}

	assert.True(t, last.Attendance.IsLateMorning)
	assert.False(t, last.Attendance.IsLateAfternoon)
	assert.Equal(t, 10, last.Attendance.LateMinutes)
	assert.InDelta(t, 7.83, last.Attendance.WorkingHours, 0.001)
	assert.Equal(t, "2024-03-14", last.Attendance.Date)
}

func TestRecordPunch_DoublePunchKeepsOneRecordWithLaterTimestamp(t *testing.T) {
	first := time.Date(2024, 3, 14, 7, 50, 0, 0, wib)
	second := time.Date(2024, 3, 14, 8, 20, 0, 0, wib)
	f := newFixture(t, first)

	_, err := f.punch(t, "emp-1", attendance.MorningArrival)
	require.NoError(t, err)

	f.setNow(second)
	resp, err := f.punch(t, "emp-1", attendance.MorningArrival)
	require.NoError(t, err)
	assert.True(t, resp.IsLate)

	records, err := memory.NewAttendanceRepository(f.store).ListByEmployee(context.Background(), "emp-1", period.Truncate(first), period.Truncate(first))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].MorningArrival)
	assert.True(t, records[0].MorningArrival.Equal(second))
}

func TestRecordPunch_ConcurrentFirstPunchesCreateOneRecord(t *testing.T) {
	now := time.Date(2024, 3, 14, 7, 55, 0, 0, wib)
	f := newFixture(t, now)
	token := f.personalToken(t, "emp-1")

	punches := []attendance.PunchType{
		attendance.MorningArrival, attendance.MorningDeparture,
		attendance.AfternoonArrival, attendance.AfternoonDeparture,
	}

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.RecordPunch(context.Background(), attendance.RecordPunchRequest{
				EmployeeID: "emp-1",
				PunchType:  punches[i%len(punches)],
				QRData:     token,
			})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}

	records, err := memory.NewAttendanceRepository(f.store).ListByEmployee(context.Background(), "emp-1", period.Truncate(now), period.Truncate(now))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotNil(t, records[0].MorningArrival)
	assert.NotNil(t, records[0].MorningDeparture)
	assert.NotNil(t, records[0].AfternoonArrival)
	assert.NotNil(t, records[0].AfternoonDeparture)
}

func TestRecordPunch_DepartureFirstLeavesRecordAbsent(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 14, 12, 0, 0, 0, wib))

	resp, err := f.punch(t, "emp-1", attendance.MorningDeparture)
	require.NoError(t, err)
	assert.True(t, resp.Attendance.IsAbsent)

	f.setNow(time.Date(2024, 3, 14, 14, 0, 0, 0, wib))
	resp, err = f.punch(t, "emp-1", attendance.AfternoonArrival)
	require.NoError(t, err)
	assert.False(t, resp.Attendance.IsAbsent)
}

func TestRecordPunch_HolidayAndLeaveFlags(t *testing.T) {
	f := newFixture(t, time.Date(2024, 12, 25, 9, 0, 0, 0, wib))
	f.store.PutHoliday(holiday.Holiday{Date: time.Date(2000, 12, 25, 0, 0, 0, 0, wib), Name: "Christmas", IsRecurring: true})

	resp, err := f.punch(t, "emp-1", attendance.MorningDeparture)
	require.NoError(t, err)
	assert.True(t, resp.Attendance.IsHoliday)
	assert.False(t, resp.Attendance.IsAbsent)

	f = newFixture(t, time.Date(2024, 3, 14, 12, 0, 0, 0, wib))
	f.store.PutLeave(leave.LeaveInterval{
		EmployeeID: "emp-1",
		StartDate:  time.Date(2024, 3, 13, 0, 0, 0, 0, wib),
		EndDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, wib),
		Status:     leave.LeaveStatusApproved,
	})

	resp, err = f.punch(t, "emp-1", attendance.MorningDeparture)
	require.NoError(t, err)
	assert.True(t, resp.Attendance.IsOnLeave)
	assert.False(t, resp.Attendance.IsAbsent)
}

func TestRecordPunch_RejectsBadCredentials(t *testing.T) {
	now := time.Date(2024, 3, 14, 7, 55, 0, 0, wib)
	f := newFixture(t, now)
	ctx := context.Background()

	// token of another employee
	_, err := f.svc.RecordPunch(ctx, attendance.RecordPunchRequest{
		EmployeeID: "emp-1", PunchType: attendance.MorningArrival, QRData: f.personalToken(t, "emp-3"),
	})
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)

	// expired token
	old := f.personalToken(t, "emp-1")
	f.setNow(now.Add(31 * time.Minute))
	_, err = f.svc.RecordPunch(ctx, attendance.RecordPunchRequest{
		EmployeeID: "emp-1", PunchType: attendance.MorningArrival, QRData: old,
	})
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)

	// inactive employee with a valid token
	_, err = f.punch(t, "emp-2", attendance.MorningArrival)
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	// validation
	_, err = f.svc.RecordPunch(ctx, attendance.RecordPunchRequest{EmployeeID: "emp-1", PunchType: "lunch"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	records, err := memory.NewAttendanceRepository(f.store).ListByDateRange(ctx, period.Truncate(now), period.Truncate(now))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordPunch_SharedCredential(t *testing.T) {
	now := time.Date(2024, 3, 14, 7, 30, 0, 0, wib)
	f := newFixture(t, now)
	ctx := context.Background()

	morning, err := f.credentials.IssueShared(ctx, credential.SharedMorning)
	require.NoError(t, err)

	resp, err := f.svc.RecordPunch(ctx, attendance.RecordPunchRequest{
		EmployeeID: "emp-1", PunchType: attendance.MorningArrival, QRData: morning.Token,
	})
	require.NoError(t, err)
	assert.False(t, resp.IsLate)

	// a morning credential does not admit afternoon punches
	_, err = f.svc.RecordPunch(ctx, attendance.RecordPunchRequest{
		EmployeeID: "emp-1", PunchType: attendance.AfternoonArrival, QRData: morning.Token,
	})
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)

	// rotated out
	_, err = f.credentials.IssueShared(ctx, credential.SharedMorning)
	require.NoError(t, err)
	_, err = f.svc.RecordPunch(ctx, attendance.RecordPunchRequest{
		EmployeeID: "emp-1", PunchType: attendance.MorningDeparture, QRData: morning.Token,
	})
	assert.ErrorIs(t, err, credential.ErrInvalidCredential)
}

func TestListAttendance(t *testing.T) {
	f := newFixture(t, time.Date(2024, 3, 14, 8, 0, 0, 0, wib))
	_, err := f.punch(t, "emp-1", attendance.MorningArrival)
	require.NoError(t, err)

	f.setNow(time.Date(2024, 3, 15, 8, 5, 0, 0, wib))
	_, err = f.punch(t, "emp-1", attendance.MorningArrival)
	require.NoError(t, err)

	resp, err := f.svc.ListAttendance(context.Background(), attendance.AttendanceFilter{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", resp.StartDate)
	assert.Equal(t, "2024-03-31", resp.EndDate)
	require.Len(t, resp.Attendances, 2)
	assert.Equal(t, "2024-03-14", resp.Attendances[0].Date)
	assert.True(t, resp.Attendances[1].IsLateMorning)

	resp, err = f.svc.ListAttendance(context.Background(), attendance.AttendanceFilter{
		EmployeeID: "emp-1",
		Request:    period.Request{Name: "day"},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Attendances, 1)

	_, err = f.svc.ListAttendance(context.Background(), attendance.AttendanceFilter{
		EmployeeID: "emp-1",
		Request:    period.Request{Name: "fortnight"},
	})
	assert.ErrorIs(t, err, period.ErrInvalidPeriod)
}
