package core

import (
	"errors"
	"testing"
	"time"
)

func TestParseMonthKey_RoundTrip(t *testing.T) {
	for _, s := range []string{"2024-01", "2024-12", "1999-06", "2030-10"} {
		t.Run(s, func(t *testing.T) {
			k, err := ParseMonthKey(s)
			if err != nil {
				t.Fatalf("ParseMonthKey(%q) error: %v", s, err)
			}
			if got := k.String(); got != s {
				t.Errorf("round trip = %q, want %q", got, s)
			}
		})
	}
}

func TestParseMonthKey_Invalid(t *testing.T) {
	tests := []string{
		"",
		"abc",
		"2024",
		"2024-0",
		"2024-00",
		"2024-13",
		"2024/09",
		"2024-9",
		"20x4-09",
		"2024-0a",
		"2024-09-01",
	}
	for _, s := range tests {
		t.Run(s, func(t *testing.T) {
			if _, err := ParseMonthKey(s); !errors.Is(err, ErrInvalidMonthKey) {
				t.Errorf("ParseMonthKey(%q) = %v, want ErrInvalidMonthKey", s, err)
			}
		})
	}
}

func TestMonthKey_NextPrevious(t *testing.T) {
	tests := []struct {
		name string
		in   MonthKey
		next MonthKey
	}{
		{"mid year", MonthKey{2024, 6}, MonthKey{2024, 7}},
		{"december wraps", MonthKey{2024, 12}, MonthKey{2025, 1}},
		{"january unwraps", MonthKey{2023, 12}, MonthKey{2024, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Next(); got != tt.next {
				t.Errorf("Next() = %v, want %v", got, tt.next)
			}
			if got := tt.next.Previous(); got != tt.in {
				t.Errorf("Previous() = %v, want %v", got, tt.in)
			}
		})
	}

	// next().previous() is the identity for every month of a year
	for m := 1; m <= 12; m++ {
		k := MonthKey{Year: 2024, Month: m}
		if got := k.Next().Previous(); got != k {
			t.Errorf("Next().Previous() = %v, want %v", got, k)
		}
	}
}

func TestMonthKey_Compare(t *testing.T) {
	a := MonthKey{2024, 5}
	tests := []struct {
		name  string
		other MonthKey
		want  int
	}{
		{"same", MonthKey{2024, 5}, 0},
		{"later month", MonthKey{2024, 6}, -1},
		{"earlier month", MonthKey{2024, 4}, 1},
		{"later year", MonthKey{2025, 1}, -1},
		{"earlier year", MonthKey{2023, 12}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Compare(tt.other); got != tt.want {
				t.Errorf("Compare(%v) = %d, want %d", tt.other, got, tt.want)
			}
		})
	}
}

func TestMonthKey_Classification(t *testing.T) {
	now := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		key        MonthKey
		current    bool
		future     bool
		archivable bool
	}{
		{"current month", MonthKey{2024, 9}, true, false, false},
		{"next month", MonthKey{2024, 10}, false, true, false},
		{"next year", MonthKey{2025, 1}, false, true, false},
		{"previous month", MonthKey{2024, 8}, false, false, true},
		{"previous year", MonthKey{2023, 12}, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.IsCurrent(now); got != tt.current {
				t.Errorf("IsCurrent = %v, want %v", got, tt.current)
			}
			if got := tt.key.IsFuture(now); got != tt.future {
				t.Errorf("IsFuture = %v, want %v", got, tt.future)
			}
			if got := tt.key.IsArchivable(now); got != tt.archivable {
				t.Errorf("IsArchivable = %v, want %v", got, tt.archivable)
			}
		})
	}
}

func TestRemainingDays(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"first of month", time.Date(2024, 9, 1, 10, 0, 0, 0, time.UTC), 30},
		{"mid september", time.Date(2024, 9, 16, 10, 0, 0, 0, time.UTC), 15},
		{"last day", time.Date(2024, 9, 30, 23, 0, 0, 0, time.UTC), 1},
		{"leap february", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 29},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RemainingDays(tt.now); got != tt.want {
				t.Errorf("RemainingDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMonthKey_StartEnd(t *testing.T) {
	k := MonthKey{2024, 2}
	if got := k.Start(); !got.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start = %v", got)
	}
	if got := k.End(); got.Day() != 29 || got.Month() != time.February {
		t.Errorf("End = %v, want last instant of Feb 29", got)
	}
}
