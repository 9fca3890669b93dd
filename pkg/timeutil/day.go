// Package timeutil provides calendar day values and day window parsing.
package timeutil

import (
	"encoding/json"
	"fmt"
	"time"
)

// LayoutDay is the persisted form of a Day.
const LayoutDay = "2006-01-02"

// Day is a calendar day in YYYY-MM-DD form. The zero value means "no day".
// Days sort correctly as strings.
type Day string

// NewDay builds a Day from its parts. Out of range parts are normalised the
// way time.Date does it.
func NewDay(year int, month time.Month, day int) Day {
	return Day(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(LayoutDay))
}

// DayOf returns the calendar day t falls on in its own location.
func DayOf(t time.Time) Day {
	return NewDay(t.Year(), t.Month(), t.Day())
}

// ParseDay validates s and returns it as a Day.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(LayoutDay, s)
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of d. The zero Day gives the zero time.
func (d Day) Time() time.Time {
	t, err := time.Parse(LayoutDay, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays moves d by n calendar days.
func (d Day) AddDays(n int) Day {
	t := d.Time()
	return NewDay(t.Year(), t.Month(), t.Day()+n)
}

func (d Day) IsZero() bool {
	return d == ""
}

func (d Day) Before(o Day) bool {
	return d < o
}

func (d Day) After(o Day) bool {
	return d > o
}

func (d Day) String() string {
	return string(d)
}

// UnmarshalJSON rejects strings that are not valid days.
func (d *Day) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = ""
		return nil
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthOf parses "YYYY-MM".
func MonthOf(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}
