package period

import (
	"errors"
	"time"
)

// ErrInvalidPeriod is returned for an unknown period name or an incomplete custom range.
var ErrInvalidPeriod = errors.New("invalid period")

const DateLayout = "2006-01-02"

type Name string

const (
	Day      Name = "day"
	Week     Name = "week"
	Month    Name = "month"
	Quarter  Name = "quarter"
	Semester Name = "semester"
	Year     Name = "year"
	Custom   Name = "custom"
)

// Range is an inclusive calendar date range. Both bounds are midnight in the
// location of the date they were resolved from.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of t falls inside the range.
// Dates are compared as written, so the locations of t and the bounds may differ.
func (r Range) Contains(t time.Time) bool {
	d := t.Format(DateLayout)
	return d >= r.Start.Format(DateLayout) && d <= r.End.Format(DateLayout)
}

// Overlaps reports whether the two ranges share at least one calendar date.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Format(DateLayout) <= o.End.Format(DateLayout) &&
		r.End.Format(DateLayout) >= o.Start.Format(DateLayout)
}

// Days returns every date of the range in order.
func (r Range) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Truncate drops the wall-clock part of t, keeping its location.
func Truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Resolve maps a period name and today's date to an inclusive date range.
// customStart and customEnd are only read for the custom period.
func Resolve(name Name, today time.Time, customStart, customEnd *time.Time) (Range, error) {
	today = Truncate(today)
	loc := today.Location()
	year, month := today.Year(), today.Month()

	switch name {
	case Day:
		return Range{Start: today, End: today}, nil
	case Week:
		// time.Weekday starts on Sunday; weeks here start on Monday.
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return Range{Start: start, End: start.AddDate(0, 0, 6)}, nil
	case Month:
		return monthBlock(year, month, 1, loc), nil
	case Quarter:
		first := time.Month((int(month)-1)/3*3 + 1)
		return monthBlock(year, first, 3, loc), nil
	case Semester:
		first := time.January
		if month > time.June {
			first = time.July
		}
		return monthBlock(year, first, 6, loc), nil
	case Year:
		return monthBlock(year, time.January, 12, loc), nil
	case Custom:
		if customStart == nil || customEnd == nil {
			return Range{}, ErrInvalidPeriod
		}
		start, end := Truncate(*customStart), Truncate(*customEnd)
		if end.Before(start) {
			return Range{}, ErrInvalidPeriod
		}
		return Range{Start: start, End: end}, nil
	default:
		return Range{}, ErrInvalidPeriod
	}
}

// monthBlock spans n whole months starting at the first day of first.
// time.Date normalises month overflow, so a block ending in December rolls
// into January of the next year before stepping back one day.
func monthBlock(year int, first time.Month, n int, loc *time.Location) Range {
	start := time.Date(year, first, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, first+time.Month(n), 1, 0, 0, 0, 0, loc).AddDate(0, 0, -1)
	return Range{Start: start, End: end}
}

// ParseDates parses optional YYYY-MM-DD bounds in loc. Empty strings yield nil.
func ParseDates(startStr, endStr string, loc *time.Location) (*time.Time, *time.Time, error) {
	parse := func(s string) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		t, err := time.ParseInLocation(DateLayout, s, loc)
		if err != nil {
			return nil, ErrInvalidPeriod
		}
		return &t, nil
	}
	start, err := parse(startStr)
	if err != nil {
		return nil, nil, err
	}
	end, err := parse(endStr)
	if err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

// Request is the query-string form of a period. An empty name means month.
type Request struct {
	Name      string `json:"period"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

// Resolve parses the custom bounds in today's location and resolves the range.
func (r Request) Resolve(today time.Time) (Range, error) {
	name := Name(r.Name)
	if name == "" {
		name = Month
	}
	start, end, err := ParseDates(r.StartDate, r.EndDate, today.Location())
	if err != nil {
		return Range{}, err
	}
	return Resolve(name, today, start, end)
}
