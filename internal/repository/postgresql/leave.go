package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// IsOnApprovedLeave implements leave.LeaveRepository.
func (l *leaveRepository) IsOnApprovedLeave(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status = $2
			  AND start_date <= $3
			  AND end_date >= $3
		)
	`

	var onLeave bool
	if err := q.QueryRow(ctx, query, employeeID, string(leave.LeaveStatusApproved), dateOnly(date)).Scan(&onLeave); err != nil {
		return false, fmt.Errorf("failed to check approved leave: %w", err)
	}

	return onLeave, nil
}

// CountApprovedOverlapping implements leave.LeaveRepository.
func (l *leaveRepository) CountApprovedOverlapping(ctx context.Context, start, end time.Time) (int64, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT COUNT(*) FROM leave_requests
		WHERE status = $1
		  AND start_date <= $3
		  AND end_date >= $2
	`

	var count int64
	if err := q.QueryRow(ctx, query, string(leave.LeaveStatusApproved), dateOnly(start), dateOnly(end)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count approved leaves: %w", err)
	}

	return count, nil
}

// ListRecent implements leave.LeaveRepository.
func (l *leaveRepository) ListRecent(ctx context.Context, limit int) ([]leave.LeaveInterval, error) {
	q := GetQuerier(ctx, l.db)

	query := `
		SELECT lr.id, lr.employee_id, lr.start_date, lr.end_date, lr.leave_type, lr.status, lr.reason, lr.created_at,
			e.full_name AS employee_name
		FROM leave_requests lr
		LEFT JOIN employees e ON e.id = lr.employee_id
		ORDER BY lr.created_at DESC, lr.id DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent leaves: %w", err)
	}
	defer rows.Close()

	var leaves []leave.LeaveInterval
	for rows.Next() {
		var (
			lv     leave.LeaveInterval
			status string
		)
		if err := rows.Scan(
			&lv.ID, &lv.EmployeeID, &lv.StartDate, &lv.EndDate, &lv.LeaveType, &status, &lv.Reason, &lv.CreatedAt,
			&lv.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		lv.Status = leave.LeaveStatus(status)
		leaves = append(leaves, lv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaves: %w", err)
	}

	return leaves, nil
}
