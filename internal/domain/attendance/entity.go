package attendance

import (
	"time"
)

type PunchType string

const (
	MorningArrival     PunchType = "morning_arrival"
	MorningDeparture   PunchType = "morning_departure"
	AfternoonArrival   PunchType = "afternoon_arrival"
	AfternoonDeparture PunchType = "afternoon_departure"
)

func (p PunchType) IsValid() bool {
	switch p {
	case MorningArrival, MorningDeparture, AfternoonArrival, AfternoonDeparture:
		return true
	}
	return false
}

// IsMorning reports whether the punch belongs to the morning half-day.
func (p PunchType) IsMorning() bool {
	return p == MorningArrival || p == MorningDeparture
}

// WallClock is a time of day with minute precision, independent of date and zone.
type WallClock struct {
	Hour   int
	Minute int
}

var (
	MorningStart   = WallClock{Hour: 8, Minute: 0}
	AfternoonStart = WallClock{Hour: 14, Minute: 30}
)

// overage is how far the wall-clock part of t lies past w.
func (w WallClock) overage(t time.Time) time.Duration {
	threshold := time.Date(t.Year(), t.Month(), t.Day(), w.Hour, w.Minute, 0, 0, t.Location())
	return t.Sub(threshold)
}

// IsLate reports whether t is strictly later than w on its own day.
func (w WallClock) IsLate(t time.Time) bool {
	return w.overage(t) > 0
}

// MinutesLate is the whole number of minutes t lies past w, or 0 when on time.
func (w WallClock) MinutesLate(t time.Time) int {
	d := w.overage(t)
	if d <= 0 {
		return 0
	}
	return int(d / time.Minute)
}

// DailyAttendance is the single record for one employee on one date. It is
// created lazily on the first punch of the day and never deleted.
type DailyAttendance struct {
	ID                 string
	EmployeeID         string
	Date               time.Time
	MorningArrival     *time.Time
	MorningDeparture   *time.Time
	AfternoonArrival   *time.Time
	AfternoonDeparture *time.Time
	IsLateMorning      bool
	IsLateAfternoon    bool
	IsAbsent           bool
	IsHoliday          bool
	IsOnLeave          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// DTO
	EmployeeName *string
}

// NewDailyAttendance seeds a record. A day that is neither a holiday nor
// covered by approved leave starts out absent until an arrival is punched.
func NewDailyAttendance(employeeID string, date time.Time, isHoliday, isOnLeave bool) DailyAttendance {
	return DailyAttendance{
		EmployeeID: employeeID,
		Date:       date,
		IsHoliday:  isHoliday,
		IsOnLeave:  isOnLeave,
		IsAbsent:   !(isHoliday || isOnLeave),
	}
}

// ApplyPunch records punch at now and returns whether that punch was late.
// Repeated or out-of-order punches overwrite the slot without complaint.
func (d *DailyAttendance) ApplyPunch(punch PunchType, now time.Time) (bool, error) {
	at := now
	switch punch {
	case MorningArrival:
		d.MorningArrival = &at
		d.IsLateMorning = MorningStart.IsLate(now)
		d.IsAbsent = false
		return d.IsLateMorning, nil
	case MorningDeparture:
		d.MorningDeparture = &at
	case AfternoonArrival:
		d.AfternoonArrival = &at
		d.IsLateAfternoon = AfternoonStart.IsLate(now)
		d.IsAbsent = false
		return d.IsLateAfternoon, nil
	case AfternoonDeparture:
		d.AfternoonDeparture = &at
	default:
		return false, ErrInvalidPunchType
	}
	return false, nil
}

// LastPunch returns the slot holding the latest timestamp, or false when no
// punch has been recorded.
func (d DailyAttendance) LastPunch() (PunchType, time.Time, bool) {
	var (
		last   PunchType
		latest time.Time
		found  bool
	)
	slots := []struct {
		punch PunchType
		at    *time.Time
	}{
		{MorningArrival, d.MorningArrival},
		{MorningDeparture, d.MorningDeparture},
		{AfternoonArrival, d.AfternoonArrival},
		{AfternoonDeparture, d.AfternoonDeparture},
	}
	for _, s := range slots {
		if s.at != nil && (!found || s.at.After(latest)) {
			last, latest, found = s.punch, *s.at, true
		}
	}
	return last, latest, found
}

// IsLate reports whether either half-day arrival was late.
func (d DailyAttendance) IsLate() bool {
	return d.IsLateMorning || d.IsLateAfternoon
}

// LateMinutes sums the overage of every late arrival on the record.
func (d DailyAttendance) LateMinutes() int {
	minutes := 0
	if d.IsLateMorning && d.MorningArrival != nil {
		minutes += MorningStart.MinutesLate(*d.MorningArrival)
	}
	if d.IsLateAfternoon && d.AfternoonArrival != nil {
		minutes += AfternoonStart.MinutesLate(*d.AfternoonArrival)
	}
	return minutes
}

// WorkedDuration sums each half-day whose arrival and departure are both set.
func (d DailyAttendance) WorkedDuration() time.Duration {
	var total time.Duration
	if d.MorningArrival != nil && d.MorningDeparture != nil {
		total += d.MorningDeparture.Sub(*d.MorningArrival)
	}
	if d.AfternoonArrival != nil && d.AfternoonDeparture != nil {
		total += d.AfternoonDeparture.Sub(*d.AfternoonArrival)
	}
	return total
}
