package report

import "time"

// ========== PERIOD ==========

type PeriodResponse struct {
	Period    string `json:"period"`
	StartDate string `json:"start_date"` // Format: "YYYY-MM-DD"
	EndDate   string `json:"end_date"`   // Format: "YYYY-MM-DD"
}

// ========== EMPLOYEE STATS ==========

// EmployeeStats is the hours and penalty summary of one employee over a period
type EmployeeStats struct {
	EmployeeID     string  `json:"employee_id"`
	PresentDays    int64   `json:"present_days"`
	LateDays       int64   `json:"late_days"`
	AbsentDays     int64   `json:"absent_days"`
	LateMinutes    int64   `json:"late_minutes"`
	WorkedHours    float64 `json:"worked_hours"`
	PenaltyHours   float64 `json:"penalty_hours"`
	EffectiveHours float64 `json:"effective_hours"`
}

type EmployeeStatsResponse struct {
	PeriodResponse
	EmployeeName string `json:"employee_name"`
	EmployeeStats
}

// EmployeeStatsItem is one row of the all-employees report
type EmployeeStatsItem struct {
	EmployeeName string `json:"employee_name"`
	Email        string `json:"email,omitempty"`
	EmployeeStats
}

type EmployeeStatsListResponse struct {
	PeriodResponse
	Employees []EmployeeStatsItem `json:"employees"`
}

// ========== FLEET STATS (admin dashboard) ==========

type FleetPercentages struct {
	OnTime float64 `json:"on_time"`
	Late   float64 `json:"late"`
}

// FleetStats aggregates every active employee over a period
type FleetStats struct {
	TotalEmployees        int64            `json:"total_employees"`
	OnTimeEmployees       int64            `json:"on_time_employees"`
	LateEmployees         int64            `json:"late_employees"`
	TotalLeaves           int64            `json:"total_leaves"`
	TotalHolidays         int64            `json:"holidays"`
	PresentToday          int64            `json:"present_today"`
	PresenceRate          float64          `json:"presence_rate"`
	Percentages           FleetPercentages `json:"percentages"`
	PresentDays           int64            `json:"present_days"`
	LateDays              int64            `json:"late_days"`
	AbsentDays            int64            `json:"absent_days"`
	WorkedHours           float64          `json:"worked_hours"`
	PenaltyHours          float64          `json:"penalty_hours"`
	EffectiveHours        float64          `json:"effective_hours"`
	AverageEffectiveHours float64          `json:"average_effective_hours"`
}

type FleetStatsResponse struct {
	PeriodResponse
	FleetStats
}

// ========== ATTENDANCE TREND ==========

type TrendDay struct {
	Date    string `json:"date"` // Format: "YYYY-MM-DD"
	Present int64  `json:"present"`
	Late    int64  `json:"late"`
	Absent  int64  `json:"absent"`
}

type TrendResponse struct {
	StartDate string     `json:"start_date"`
	EndDate   string     `json:"end_date"`
	Data      []TrendDay `json:"data"`
}

// ========== RECENT ACTIVITY ==========

type ActivityType string

const (
	ActivityAttendance ActivityType = "attendance"
	ActivityLeave      ActivityType = "leave"
)

const (
	ActivityStatusOnTime = "on_time"
	ActivityStatusLate   = "late"
)

// Activity is one entry of the admin feed. Status is on_time or late for
// attendance and the request status for leave.
type Activity struct {
	Type         ActivityType `json:"type"`
	EmployeeID   string       `json:"employee_id"`
	EmployeeName string       `json:"employee_name"`
	Timestamp    string       `json:"timestamp"` // RFC3339
	Details      string       `json:"details"`
	Status       string       `json:"status"`

	at time.Time
}

// At is the instant the activity happened.
func (a Activity) At() time.Time {
	return a.at
}

// NewActivity stamps an activity with the instant it happened.
func NewActivity(t ActivityType, employeeID, employeeName string, at time.Time, details, status string) Activity {
	return Activity{
		Type:         t,
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Timestamp:    at.Format(time.RFC3339),
		Details:      details,
		Status:       status,
		at:           at,
	}
}

type ActivityResponse struct {
	Activities []Activity `json:"activities"`
}
