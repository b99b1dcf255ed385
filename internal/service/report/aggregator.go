package report

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/qr-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/leave"
	"github.com/cmlabs-hris/qr-attendance/internal/domain/report"
	"github.com/cmlabs-hris/qr-attendance/internal/pkg/period"
	"github.com/shopspring/decimal"
)

const (
	// absentDayHours is what one absent day weighs in the penalty.
	absentDayHours = 8
	// penaltyRate scales absent and late hours into penalty hours.
	penaltyRate = 0.10
)

// round rounds half away from zero on the shortest decimal form of x.
func round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}

func percentage(part, total int64, places int32) float64 {
	if total == 0 {
		return 0
	}
	return round(float64(part)/float64(total)*100, places)
}

// PenaltyHours is (absentDays*8 + lateMinutes/60) * 0.10, rounded to 2 decimals.
func PenaltyHours(absentDays, lateMinutes int64) float64 {
	return round((float64(absentDays)*absentDayHours+float64(lateMinutes)/60)*penaltyRate, 2)
}

// Summarize aggregates one employee's records. Holiday and leave days never
// add worked hours.
func Summarize(employeeID string, records []attendance.DailyAttendance) report.EmployeeStats {
	stats := report.EmployeeStats{EmployeeID: employeeID}

	var worked time.Duration
	for _, r := range records {
		if r.IsAbsent {
			stats.AbsentDays++
		} else {
			stats.PresentDays++
		}
		if r.IsLate() {
			stats.LateDays++
			stats.LateMinutes += int64(r.LateMinutes())
		}
		if !r.IsHoliday && !r.IsOnLeave {
			worked += r.WorkedDuration()
		}
	}

	stats.WorkedHours = round(worked.Hours(), 2)
	stats.PenaltyHours = PenaltyHours(stats.AbsentDays, stats.LateMinutes)
	stats.EffectiveHours = round(stats.WorkedHours-stats.PenaltyHours, 2)
	return stats
}

// groupByEmployee buckets records per employee. Every employee gets a key,
// records of anyone else are dropped.
func groupByEmployee(employees []employee.Employee, records []attendance.DailyAttendance) map[string][]attendance.DailyAttendance {
	byEmployee := make(map[string][]attendance.DailyAttendance, len(employees))
	for _, e := range employees {
		byEmployee[e.ID] = nil
	}
	for _, r := range records {
		if _, ok := byEmployee[r.EmployeeID]; ok {
			byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
		}
	}
	return byEmployee
}

// SummarizeEach runs Summarize for every employee, in the order given.
func SummarizeEach(employees []employee.Employee, records []attendance.DailyAttendance) []report.EmployeeStatsItem {
	byEmployee := groupByEmployee(employees, records)

	items := make([]report.EmployeeStatsItem, 0, len(employees))
	for _, e := range employees {
		items = append(items, report.EmployeeStatsItem{
			EmployeeName:  e.FullName,
			Email:         e.Email,
			EmployeeStats: Summarize(e.ID, byEmployee[e.ID]),
		})
	}
	return items
}

// SummarizeFleet aggregates the records of the given employees. Records of
// anyone else are ignored. todays holds the records dated today, which may lie
// outside the period of records.
func SummarizeFleet(employees []employee.Employee, records, todays []attendance.DailyAttendance, totalLeaves, totalHolidays int64) report.FleetStats {
	stats := report.FleetStats{
		TotalEmployees: int64(len(employees)),
		TotalLeaves:    totalLeaves,
		TotalHolidays:  totalHolidays,
	}

	byEmployee := groupByEmployee(employees, records)

	for id, recs := range byEmployee {
		s := Summarize(id, recs)
		stats.PresentDays += s.PresentDays
		stats.LateDays += s.LateDays
		stats.AbsentDays += s.AbsentDays
		stats.WorkedHours += s.WorkedHours
		stats.PenaltyHours += s.PenaltyHours
		stats.EffectiveHours += s.EffectiveHours

		onTime, late := false, false
		for _, r := range recs {
			if r.IsLate() {
				late = true
			} else if !r.IsAbsent {
				onTime = true
			}
		}
		if onTime {
			stats.OnTimeEmployees++
		}
		if late {
			stats.LateEmployees++
		}
	}

	present := make(map[string]struct{})
	for _, r := range todays {
		if _, ok := byEmployee[r.EmployeeID]; ok && !r.IsAbsent {
			present[r.EmployeeID] = struct{}{}
		}
	}
	stats.PresentToday = int64(len(present))

	stats.WorkedHours = round(stats.WorkedHours, 2)
	stats.PenaltyHours = round(stats.PenaltyHours, 2)
	stats.EffectiveHours = round(stats.EffectiveHours, 2)
	if stats.TotalEmployees > 0 {
		stats.AverageEffectiveHours = round(stats.EffectiveHours/float64(stats.TotalEmployees), 2)
	}

	stats.PresenceRate = percentage(stats.PresentToday, stats.TotalEmployees, 1)
	stats.Percentages = report.FleetPercentages{
		OnTime: percentage(stats.OnTimeEmployees, stats.TotalEmployees, 2),
		Late:   percentage(stats.LateEmployees, stats.TotalEmployees, 2),
	}
	return stats
}

// Trend counts present, late and absent records per day of r. Only records of
// the given employees are counted.
func Trend(employees []employee.Employee, records []attendance.DailyAttendance, r period.Range) []report.TrendDay {
	active := make(map[string]struct{}, len(employees))
	for _, e := range employees {
		active[e.ID] = struct{}{}
	}

	days := r.Days()
	index := make(map[string]int, len(days))
	trend := make([]report.TrendDay, len(days))
	for i, d := range days {
		key := d.Format(period.DateLayout)
		index[key] = i
		trend[i].Date = key
	}

	for _, rec := range records {
		if _, ok := active[rec.EmployeeID]; !ok {
			continue
		}
		i, ok := index[rec.Date.Format(period.DateLayout)]
		if !ok {
			continue
		}
		if rec.IsAbsent {
			trend[i].Absent++
		} else {
			trend[i].Present++
		}
		if rec.IsLate() {
			trend[i].Late++
		}
	}
	return trend
}

// Activities merges punches and leave requests into one feed, newest first,
// capped at limit. Attendance entries are stamped with their last update.
func Activities(records []attendance.DailyAttendance, leaves []leave.LeaveInterval, limit int, loc *time.Location) []report.Activity {
	feed := make([]report.Activity, 0, len(records)+len(leaves))

	for _, r := range records {
		status := report.ActivityStatusOnTime
		if r.IsLate() {
			status = report.ActivityStatusLate
		}
		details := "no punch recorded"
		if punch, _, ok := r.LastPunch(); ok {
			details = "punch " + string(punch)
		}
		feed = append(feed, report.NewActivity(report.ActivityAttendance, r.EmployeeID, nameOrEmpty(r.EmployeeName), r.UpdatedAt.In(loc), details, status))
	}

	for _, l := range leaves {
		details := "leave request"
		if l.LeaveType != "" {
			details += ": " + l.LeaveType
		}
		feed = append(feed, report.NewActivity(report.ActivityLeave, l.EmployeeID, nameOrEmpty(l.EmployeeName), l.CreatedAt.In(loc), details, string(l.Status)))
	}

	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].At().After(feed[j].At())
	})
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed
}

func nameOrEmpty(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}
