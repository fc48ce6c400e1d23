package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidMonthKey is returned when a month key string cannot be parsed.
var ErrInvalidMonthKey = errors.New("invalid month key")

// MonthKey identifies a calendar month. It is the partitioning key for
// categories, budgets, spending and transactions: each month owns its own
// copies of those rows.
type MonthKey struct {
	Year  int
	Month int // 1-12
}

// ParseMonthKey parses the canonical "YYYY-MM" form.
func ParseMonthKey(s string) (MonthKey, error) {
	var k MonthKey
	if len(s) != 7 || s[4] != '-' {
		return k, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	if _, err := fmt.Sscanf(s, "%4d-%2d", &k.Year, &k.Month); err != nil {
		return k, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	for _, r := range s[:4] {
		if r < '0' || r > '9' {
			return k, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
		}
	}
	for _, r := range s[5:] {
		if r < '0' || r > '9' {
			return k, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
		}
	}
	if k.Month < 1 || k.Month > 12 {
		return k, fmt.Errorf("%w: month out of range in %q", ErrInvalidMonthKey, s)
	}
	return k, nil
}

// CurrentMonth returns the month key containing the given instant.
func CurrentMonth(now time.Time) MonthKey {
	return MonthKey{Year: now.Year(), Month: int(now.Month())}
}

// String renders the canonical "YYYY-MM" form.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month)
}

// IsZero reports whether the key is the zero value.
func (k MonthKey) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

// Next returns the following month, wrapping the year in December.
func (k MonthKey) Next() MonthKey {
	if k.Month == 12 {
		return MonthKey{Year: k.Year + 1, Month: 1}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// Previous returns the preceding month, wrapping the year in January.
func (k MonthKey) Previous() MonthKey {
	if k.Month == 1 {
		return MonthKey{Year: k.Year - 1, Month: 12}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

// Compare orders keys by (year, month). It returns -1, 0 or +1.
func (k MonthKey) Compare(other MonthKey) int {
	switch {
	case k.Year < other.Year:
		return -1
	case k.Year > other.Year:
		return 1
	case k.Month < other.Month:
		return -1
	case k.Month > other.Month:
		return 1
	}
	return 0
}

// Before reports whether k is strictly before other.
func (k MonthKey) Before(other MonthKey) bool { return k.Compare(other) < 0 }

// After reports whether k is strictly after other.
func (k MonthKey) After(other MonthKey) bool { return k.Compare(other) > 0 }

// IsCurrent reports whether k is the month containing now.
func (k MonthKey) IsCurrent(now time.Time) bool {
	return k == CurrentMonth(now)
}

// IsFuture reports whether k is strictly after the month containing now.
func (k MonthKey) IsFuture(now time.Time) bool {
	return k.After(CurrentMonth(now))
}

// IsArchivable reports whether k is strictly before the month containing now.
// Only archivable months may be archived.
func (k MonthKey) IsArchivable(now time.Time) bool {
	return k.Before(CurrentMonth(now))
}

// Start returns midnight on the first day of the month, UTC.
func (k MonthKey) Start() time.Time {
	return time.Date(k.Year, time.Month(k.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last instant of the month, UTC.
func (k MonthKey) End() time.Time {
	return k.Next().Start().Add(-time.Nanosecond)
}

// RemainingDays counts the days from now's date to the end of now's calendar
// month, inclusive. The result is never below 1: on the last day of a month
// one day remains.
func RemainingDays(now time.Time) int {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	remaining := lastDay - now.Day() + 1
	if remaining < 1 {
		remaining = 1
	}
	return remaining
}
