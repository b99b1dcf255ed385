package report

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/holiday"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/report"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
	"golang.org/x/sync/errgroup"
)

const (
	maxTrendDays     = 366
	maxActivityLimit = 100
)

type ReportServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	leave.LeaveRepository
	holiday.HolidayRepository
	loc *time.Location
	now func() time.Time
}

func NewReportService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRepository,
	holidayRepo holiday.HolidayRepository,
	loc *time.Location,
	now func() time.Time,
) report.ReportService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &ReportServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		LeaveRepository:      leaveRepo,
		HolidayRepository:    holidayRepo,
		loc:                  loc,
		now:                  now,
	}
}

func (s *ReportServiceImpl) today() time.Time {
	return period.Truncate(s.now().In(s.loc))
}

func (s *ReportServiceImpl) resolve(req period.Request) (period.Range, report.PeriodResponse, error) {
	r, err := req.Resolve(s.today())
	if err != nil {
		return period.Range{}, report.PeriodResponse{}, err
	}
	name := req.Name
	if name == "" {
		name = string(period.Month)
	}
	return r, report.PeriodResponse{
		Period:    name,
		StartDate: r.Start.Format(period.DateLayout),
		EndDate:   r.End.Format(period.DateLayout),
	}, nil
}

// ResolvePeriod implements report.ReportService.
func (s *ReportServiceImpl) ResolvePeriod(ctx context.Context, req period.Request) (report.PeriodResponse, error) {
	_, resp, err := s.resolve(req)
	return resp, err
}

// ComputeEmployeeStats implements report.ReportService.
func (s *ReportServiceImpl) ComputeEmployeeStats(ctx context.Context, employeeID string, r period.Range) (report.EmployeeStats, error) {
	records, err := s.AttendanceRepository.ListByEmployee(ctx, employeeID, r.Start, r.End)
	if err != nil {
		return report.EmployeeStats{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	return Summarize(employeeID, records), nil
}

// GetEmployeeStats implements report.ReportService.
func (s *ReportServiceImpl) GetEmployeeStats(ctx context.Context, employeeID string, req period.Request) (report.EmployeeStatsResponse, error) {
	r, periodResp, err := s.resolve(req)
	if err != nil {
		return report.EmployeeStatsResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return report.EmployeeStatsResponse{}, err
	}

	stats, err := s.ComputeEmployeeStats(ctx, employeeID, r)
	if err != nil {
		return report.EmployeeStatsResponse{}, err
	}

	return report.EmployeeStatsResponse{
		PeriodResponse: periodResp,
		EmployeeName:   emp.FullName,
		EmployeeStats:  stats,
	}, nil
}

// ComputeFleetStats implements report.ReportService.
// The five lookups are independent and run concurrently.
func (s *ReportServiceImpl) ComputeFleetStats(ctx context.Context, r period.Range) (report.FleetStats, error) {
	today := s.today()

	var (
		employees     []employee.Employee
		records       []attendance.DailyAttendance
		todays        []attendance.DailyAttendance
		totalLeaves   int64
		totalHolidays int64
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = s.EmployeeRepository.ListActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list active employees: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.ListByDateRange(gCtx, r.Start, r.End)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		todays, err = s.AttendanceRepository.ListByDateRange(gCtx, today, today)
		if err != nil {
			return fmt.Errorf("failed to list today's attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		totalLeaves, err = s.LeaveRepository.CountApprovedOverlapping(gCtx, r.Start, r.End)
		if err != nil {
			return fmt.Errorf("failed to count leaves: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		totalHolidays, err = s.HolidayRepository.CountBetween(gCtx, r.Start, r.End)
		if err != nil {
			return fmt.Errorf("failed to count holidays: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return report.FleetStats{}, err
	}

	return SummarizeFleet(employees, records, todays, totalLeaves, totalHolidays), nil
}

// GetFleetStats implements report.ReportService.
func (s *ReportServiceImpl) GetFleetStats(ctx context.Context, req period.Request) (report.FleetStatsResponse, error) {
	r, periodResp, err := s.resolve(req)
	if err != nil {
		return report.FleetStatsResponse{}, err
	}

	stats, err := s.ComputeFleetStats(ctx, r)
	if err != nil {
		return report.FleetStatsResponse{}, err
	}

	return report.FleetStatsResponse{
		PeriodResponse: periodResp,
		FleetStats:     stats,
	}, nil
}

// ListEmployeeStats implements report.ReportService.
func (s *ReportServiceImpl) ListEmployeeStats(ctx context.Context, req period.Request) (report.EmployeeStatsListResponse, error) {
	r, periodResp, err := s.resolve(req)
	if err != nil {
		return report.EmployeeStatsListResponse{}, err
	}

	var (
		employees []employee.Employee
		records   []attendance.DailyAttendance
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.EmployeeRepository.ListActive(gCtx)
		if err != nil {
			return fmt.Errorf("failed to list active employees: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.ListByDateRange(gCtx, r.Start, r.End)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.EmployeeStatsListResponse{}, err
	}

	return report.EmployeeStatsListResponse{
		PeriodResponse: periodResp,
		Employees:      SummarizeEach(employees, records),
	}, nil
}

// GetRecentActivity implements report.ReportService.
func (s *ReportServiceImpl) GetRecentActivity(ctx context.Context, limit int) (report.ActivityResponse, error) {
	if limit < 1 || limit > maxActivityLimit {
		return report.ActivityResponse{}, report.ErrInvalidActivityLimit
	}

	var (
		records []attendance.DailyAttendance
		leaves  []leave.LeaveInterval
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.ListRecent(gCtx, limit)
		if err != nil {
			return fmt.Errorf("failed to list recent attendance: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		leaves, err = s.LeaveRepository.ListRecent(gCtx, limit)
		if err != nil {
			return fmt.Errorf("failed to list recent leaves: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.ActivityResponse{}, err
	}

	return report.ActivityResponse{Activities: Activities(records, leaves, limit, s.loc)}, nil
}

// GetAttendanceTrend implements report.ReportService.
func (s *ReportServiceImpl) GetAttendanceTrend(ctx context.Context, days int) (report.TrendResponse, error) {
	if days < 1 || days > maxTrendDays {
		return report.TrendResponse{}, report.ErrInvalidTrendDays
	}

	end := s.today()
	r := period.Range{Start: end.AddDate(0, 0, -(days - 1)), End: end}

	var (
		employees []employee.Employee
		records   []attendance.DailyAttendance
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employees, err = s.EmployeeRepository.ListActive(gCtx)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.AttendanceRepository.ListByDateRange(gCtx, r.Start, r.End)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.TrendResponse{}, fmt.Errorf("failed to load attendance trend: %w", err)
	}

	return report.TrendResponse{
		StartDate: r.Start.Format(period.DateLayout),
		EndDate:   r.End.Format(period.DateLayout),
		Data:      Trend(employees, records, r),
	}, nil
}
