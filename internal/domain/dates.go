package domain

import (
	"strconv"
	"strings"
	"time"
)

// All due-date arithmetic happens on UTC calendar days. Due dates are
// stored as ISO "YYYY-MM-DD" strings with no time-of-day component;
// normalizing both sides to UTC midnight keeps the day delta stable
// across a calendar day and immune to the local timezone.

// DaysUntilDue returns the whole number of days between today (UTC)
// and the due date. Negative means overdue, zero means due today.
// Returns nil when the due date is absent or unparseable.
func DaysUntilDue(dueDate *string) *int {
	return DaysUntilDueAt(dueDate, time.Now().UTC())
}

// DaysUntilDueAt is DaysUntilDue evaluated against an explicit instant.
// The loader and tests use it so a whole snapshot classifies against
// one consistent "today".
func DaysUntilDueAt(dueDate *string, now time.Time) *int {
	due, ok := parseCivilDate(dueDate)
	if !ok {
		return nil
	}

	today := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)
	return &days
}

// parseCivilDate parses a "YYYY-MM-DD" string into a UTC midnight time.
// Rejects anything that is not three dash-separated numeric components
// forming a real calendar date.
func parseCivilDate(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}

	parts := strings.Split(strings.TrimSpace(*s), "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		nums[i] = n
	}

	t := time.Date(nums[0], time.Month(nums[1]), nums[2], 0, 0, 0, 0, time.UTC)

	// time.Date normalizes out-of-range components (2025-02-30 becomes
	// March 2nd); a round-trip mismatch means the date was not real.
	if t.Year() != nums[0] || int(t.Month()) != nums[1] || t.Day() != nums[2] {
		return time.Time{}, false
	}

	return t, true
}
