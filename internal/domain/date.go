package domain

import (
	"time"
)

// Date is a calendar day with no time-of-day or zone. Values are comparable
// with ==, and Before/After/AddDays never cross a DST boundary.
type Date struct {
	t time.Time
}

// NewDate builds a Date, normalising out-of-range components the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a DD/MM/YYYY string. Single-digit day and month are accepted.
func ParseDate(value string) (Date, bool) {
	if value == "" {
		return Date{}, false
	}
	parsed, err := time.Parse("2/1/2006", value)
	if err != nil {
		return Date{}, false
	}
	return DateOf(parsed), true
}

// AddDays shifts the date by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Weekday returns the day of the week with Sunday as 0.
func (d Date) Weekday() time.Weekday {
	return d.t.Weekday()
}

// WeekStart returns the Monday on or before d.
func (d Date) WeekStart() Date {
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return d.AddDays(-offset)
}

// MonthStart returns the first day of d's month.
func (d Date) MonthStart() Date {
	y, m, _ := d.t.Date()
	return NewDate(y, m, 1)
}

// IsZero reports whether d was never set.
func (d Date) IsZero() bool {
	return d.t.IsZero()
}

func (d Date) String() string {
	return d.t.Format(DateLayout)
}
