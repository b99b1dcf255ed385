package credential

import "time"

// SharedType tags a site-wide credential by the half-day it serves.
type SharedType string

const (
	SharedMorning SharedType = "morning"
	SharedEvening SharedType = "evening"
)

var SharedTypes = []string{string(SharedMorning), string(SharedEvening)}

func (t SharedType) IsValid() bool {
	return t == SharedMorning || t == SharedEvening
}

// ValidUntil is the cutoff on the day of now: 12:00 for morning, 18:00 for evening.
func (t SharedType) ValidUntil(now time.Time) time.Time {
	hour := 12
	if t == SharedEvening {
		hour = 18
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
}

// SharedTypeFor picks the shared credential that covers a half-day punch.
func SharedTypeFor(morning bool) SharedType {
	if morning {
		return SharedMorning
	}
	return SharedEvening
}

// PersonalCredential is a token bound to one employee, valid for 30 minutes.
type PersonalCredential struct {
	ID         string
	EmployeeID string
	Token      string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// SharedCredential is a site-wide token for one SharedType. At most one row
// per type is active; rotated rows stay as history.
type SharedCredential struct {
	ID        string
	Type      SharedType
	Token     string
	ValidFrom time.Time
	ValidTo   time.Time
	IsActive  bool
	CreatedAt time.Time
}
