package leave

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLeaveInterval_CoversCalendarDateAcrossLocations(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	l := LeaveInterval{
		EmployeeID: "emp-1",
		StartDate:  time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Status:     LeaveStatusApproved,
	}

	// Midnight in UTC+7 is the previous evening in UTC.
	assert.True(t, l.Covers(time.Date(2024, 3, 14, 0, 0, 0, 0, wib)))
	assert.True(t, l.Covers(time.Date(2024, 3, 15, 0, 0, 0, 0, wib)))
	assert.False(t, l.Covers(time.Date(2024, 3, 16, 0, 0, 0, 0, wib)))
	assert.False(t, l.Covers(time.Date(2024, 3, 13, 0, 0, 0, 0, wib)))

	l.Status = LeaveStatusPending
	assert.False(t, l.Covers(time.Date(2024, 3, 14, 0, 0, 0, 0, wib)))
}

func TestLeaveInterval_Overlaps(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	l := LeaveInterval{
		StartDate: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, l.Overlaps(time.Date(2024, 3, 15, 0, 0, 0, 0, wib), time.Date(2024, 3, 20, 0, 0, 0, 0, wib)))
	assert.True(t, l.Overlaps(time.Date(2024, 3, 1, 0, 0, 0, 0, wib), time.Date(2024, 3, 14, 0, 0, 0, 0, wib)))
	assert.False(t, l.Overlaps(time.Date(2024, 3, 16, 0, 0, 0, 0, wib), time.Date(2024, 3, 20, 0, 0, 0, 0, wib)))
}
