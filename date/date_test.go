package date

import (
	"math"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	got, err := Parse("2025-7-1")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if want := New(2025, time.July, 1); got != want {
		t.Errorf("Parse() = %v, want %v", got, want)
	}
	if _, err := Parse("July 1st"); err == nil {
		t.Errorf("Parse() accepted an invalid date")
	}
}

func TestAddMonths(t *testing.T) {
	testCases := []struct {
		name string
		in   Date
		add  int
		want Date
	}{
		{
			name: "plain month",
			in:   New(2025, time.January, 15),
			add:  1,
			want: New(2025, time.February, 15),
		},
		{
			name: "clamp to short month",
			in:   New(2025, time.January, 31),
			add:  1,
			want: New(2025, time.February, 28),
		},
		{
			name: "clamp to leap february",
			in:   New(2024, time.January, 31),
			add:  1,
			want: New(2024, time.February, 29),
		},
		{
			name: "across year end",
			in:   New(2025, time.November, 30),
			add:  3,
			want: New(2026, time.February, 28),
		},
		{
			name: "backwards",
			in:   New(2025, time.March, 31),
			add:  -1,
			want: New(2025, time.February, 28),
		},
		{
			name: "whole years keep the day",
			in:   New(2025, time.January, 1),
			add:  24,
			want: New(2027, time.January, 1),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.AddMonths(tc.add); got != tc.want {
				t.Errorf("%v.AddMonths(%d) = %v, want %v", tc.in, tc.add, got, tc.want)
			}
		})
	}
}

func TestMonthsBetween(t *testing.T) {
	a := New(2025, time.January, 1)
	if got := MonthsBetween(a, New(2026, time.March, 1)); got != 14 {
		t.Errorf("MonthsBetween() = %d, want 14", got)
	}
	if got := MonthsBetween(a, New(2024, time.December, 25)); got != -1 {
		t.Errorf("MonthsBetween() = %d, want -1", got)
	}
}

func TestYearsBetween(t *testing.T) {
	const tolerance = 1e-12
	testCases := []struct {
		name     string
		from, to Date
		want     float64
	}{
		{
			name: "same day",
			from: New(2025, time.March, 14),
			to:   New(2025, time.March, 14),
			want: 0,
		},
		{
			name: "plain year",
			from: New(2025, time.January, 1),
			to:   New(2026, time.January, 1),
			want: 1,
		},
		{
			name: "leap year",
			from: New(2024, time.January, 1),
			to:   New(2025, time.January, 1),
			want: 1,
		},
		{
			name: "half of a plain year",
			from: New(2025, time.January, 1),
			to:   New(2025, time.July, 1),
			want: 181.0 / 365.0,
		},
		{
			name: "prorated across a leap boundary",
			from: New(2024, time.July, 1),
			to:   New(2025, time.July, 1),
			want: 184.0/366.0 + 181.0/365.0,
		},
		{
			name: "reversed is negative",
			from: New(2026, time.January, 1),
			to:   New(2025, time.January, 1),
			want: -1,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := YearsBetween(tc.from, tc.to)
			if math.Abs(got-tc.want) > tolerance {
				t.Errorf("YearsBetween(%v, %v) = %v, want %v", tc.from, tc.to, got, tc.want)
			}
		})
	}
}
