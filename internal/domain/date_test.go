package domain

import (
	"testing"
	"time"
)

func TestParseDateDayMonthOrder(t *testing.T) {
	got, ok := ParseDate("02/04/2024")
	if !ok {
		t.Fatalf("expected date to parse")
	}
	if got != NewDate(2024, time.April, 2) {
		t.Fatalf("expected 2 April 2024, got %s", got)
	}

	if _, ok := ParseDate("31/02/2024"); ok {
		t.Fatalf("expected impossible date to be rejected")
	}
	if _, ok := ParseDate("2024-04-02"); ok {
		t.Fatalf("expected ISO date to be rejected")
	}
	if _, ok := ParseDate(""); ok {
		t.Fatalf("expected empty string to be rejected")
	}
	if got, ok := ParseDate("5/3/2024"); !ok || got != NewDate(2024, time.March, 5) {
		t.Fatalf("expected single-digit components to parse, got %s %v", got, ok)
	}
}

func TestWeekStartIsMonday(t *testing.T) {
	cases := map[Date]Date{
		NewDate(2024, time.March, 11): NewDate(2024, time.March, 11), // Monday
		NewDate(2024, time.March, 13): NewDate(2024, time.March, 11), // Wednesday
		NewDate(2024, time.March, 16): NewDate(2024, time.March, 11), // Saturday
		NewDate(2024, time.March, 10): NewDate(2024, time.March, 4),  // Sunday
		NewDate(2024, time.January, 2): NewDate(2024, time.January, 1),
		NewDate(2023, time.January, 1): NewDate(2022, time.December, 26),
	}
	for day, want := range cases {
		if got := day.WeekStart(); got != want {
			t.Fatalf("week start of %s: expected %s, got %s", day, want, got)
		}
	}
}

func TestDateArithmeticAcrossMonths(t *testing.T) {
	day := NewDate(2024, time.March, 13)
	if got := day.AddDays(-14); got != NewDate(2024, time.February, 28) {
		t.Fatalf("expected 28/02/2024, got %s", got)
	}
	if got := day.MonthStart(); got != NewDate(2024, time.March, 1) {
		t.Fatalf("expected 01/03/2024, got %s", got)
	}
	if !NewDate(2024, time.April, 2).After(day) || !day.Before(NewDate(2024, time.April, 2)) {
		t.Fatalf("expected calendar ordering, not lexical ordering")
	}
}

func TestDateOfUsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 330*60)
	instant := time.Date(2024, time.March, 12, 20, 0, 0, 0, time.UTC)

	if got := DateOf(instant.In(ist)); got != NewDate(2024, time.March, 13) {
		t.Fatalf("expected 13/03/2024 at +5:30, got %s", got)
	}
	if got := DateOf(instant); got != NewDate(2024, time.March, 12) {
		t.Fatalf("expected 12/03/2024 in UTC, got %s", got)
	}
}
