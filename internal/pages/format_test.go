// ABOUTME: Tests for the shared cell renderers.
// ABOUTME: Currency grouping and date trimming.

package pages

import (
	"testing"
	"time"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{12.5, "$12.50"},
		{999.999, "$1,000.00"},
		{1234567.891, "$1,234,567.89"},
		{-42, "-$42.00"},
	}
	for _, tt := range tests {
		if got := money(tt.in); got != tt.want {
			t.Errorf("money(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDates(t *testing.T) {
	if got := day(time.Time{}); got != "" {
		t.Errorf("day(zero) = %q", got)
	}
	if got := day(time.Date(2026, 3, 9, 15, 0, 0, 0, time.UTC)); got != "2026-03-09" {
		t.Errorf("day() = %q", got)
	}
	if got := dateOnly("2026-03-09T00:00:00Z"); got != "2026-03-09" {
		t.Errorf("dateOnly() = %q", got)
	}
	if got := dateOnly("2026-03-09"); got != "2026-03-09" {
		t.Errorf("dateOnly() = %q", got)
	}
}

func TestFieldValidators(t *testing.T) {
	if nonNegative("-1") == nil || nonNegative("3.5") != nil {
		t.Error("nonNegative")
	}
	if isoDate("2026-13-01") == nil || isoDate("2026-12-01") != nil {
		t.Error("isoDate")
	}
}
