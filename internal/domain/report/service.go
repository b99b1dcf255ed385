package report

import (
	"context"

	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
)

// ReportService resolves periods and aggregates attendance into hours and penalties
type ReportService interface {
	// ResolvePeriod maps a named or custom period to its inclusive date range
	ResolvePeriod(ctx context.Context, req period.Request) (PeriodResponse, error)

	// ComputeEmployeeStats aggregates one employee's records over r
	ComputeEmployeeStats(ctx context.Context, employeeID string, r period.Range) (EmployeeStats, error)

	// GetEmployeeStats resolves req and computes the employee's stats
	GetEmployeeStats(ctx context.Context, employeeID string, req period.Request) (EmployeeStatsResponse, error)

	// ComputeFleetStats aggregates every active employee over r
	ComputeFleetStats(ctx context.Context, r period.Range) (FleetStats, error)

	// GetFleetStats resolves req and computes the fleet stats
	GetFleetStats(ctx context.Context, req period.Request) (FleetStatsResponse, error)

	// ListEmployeeStats resolves req and computes stats for every active employee
	ListEmployeeStats(ctx context.Context, req period.Request) (EmployeeStatsListResponse, error)

	// GetRecentActivity merges the latest punches and leave requests, newest first
	GetRecentActivity(ctx context.Context, limit int) (ActivityResponse, error)

	// GetAttendanceTrend returns per-day present/late/absent counts for the last days days
	GetAttendanceTrend(ctx context.Context, days int) (TrendResponse, error)
}
