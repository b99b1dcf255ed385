package holiday

import "time"

// Holiday marks a non-working day. Recurring holidays match the same month
// and day in every year.
type Holiday struct {
	Date        time.Time
	Name        string
	IsRecurring bool
}

func (h Holiday) Matches(date time.Time) bool {
	if h.IsRecurring {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Year() == date.Year() && h.Date.YearDay() == date.YearDay()
}
