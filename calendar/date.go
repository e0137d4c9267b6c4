/*
Package calendar provides the day axis the rotation engine runs on.

PURPOSE:
  Everything in this system is computed over whole calendar days: shift
  rotations index into a repeating on/off sequence by day offset, leave
  requests span inclusive day ranges, and balances are charged in days.
  This package gives the rest of the engine a single, unambiguous Date
  value (UTC midnight) plus the range arithmetic built on it.

KEY CONCEPTS:
  - Date:   A calendar day. No time-of-day, no zone surprises.
  - Period: An inclusive [Start, End] day range.
  - Public holiday lookup lives in holidays.go, keyed by country code.

DESIGN PRINCIPLES:
  1. Day granularity only. Time-of-day belongs to shift blocks, not dates.
  2. Inclusive ranges everywhere, matching how people book time off.
  3. Pure values: Date and Period are comparable, copyable, and cheap.

SEE ALSO:
  - holidays.go: country-keyed public holiday cache
  - shift/block.go: day-index arithmetic over Dates
*/
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidPeriod is returned when a period ends before it starts.
var ErrInvalidPeriod = errors.New("invalid period: end before start")

// =============================================================================
// DATE - A calendar day (UTC midnight)
// =============================================================================

type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an arbitrary instant to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a date in ISO form (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }

// Arithmetic
func (d Date) AddDays(n int) Date   { return DateOf(d.Time.AddDate(0, 0, n)) }
func (d Date) AddMonths(n int) Date { return DateOf(d.Time.AddDate(0, n, 0)) }
func (d Date) AddYears(n int) Date  { return DateOf(d.Time.AddDate(n, 0, 0)) }

// Properties
func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }

// ISOWeekday returns the ISO-8601 weekday number: Monday=1 .. Sunday=7.
// Shift blocks index their weekday sets with this numbering.
func (d Date) ISOWeekday() int {
	return (int(d.Weekday())+6)%7 + 1
}

// IsMonToFri reports the generic default working rule used when an
// employee has no effective shift.
func (d Date) IsMonToFri() bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// DaysBetween returns the signed number of days from a to b.
func DaysBetween(a, b Date) int {
	return int(b.Time.Sub(a.Time).Hours() / 24)
}

func StartOfYear(year int) Date { return NewDate(year, time.January, 1) }
func EndOfYear(year int) Date   { return NewDate(year, time.December, 31) }

// =============================================================================
// PERIOD - Inclusive [Start, End] day range
// =============================================================================

type Period struct {
	Start Date
	End   Date
}

func NewPeriod(start, end Date) (Period, error) {
	if end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	return Period{Start: start, End: end}, nil
}

func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Overlaps uses the inclusive overlap test: two ranges overlap when
// a.Start <= b.End and a.End >= b.Start.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && p.End.AfterOrEqual(other.Start)
}

// Days enumerates every day in the period in order.
func (p Period) Days() []Date {
	var days []Date
	for cur := p.Start; cur.BeforeOrEqual(p.End); cur = cur.AddDays(1) {
		days = append(days, cur)
	}
	return days
}

// Len is the number of calendar days in the period.
func (p Period) Len() int {
	return DaysBetween(p.Start, p.End) + 1
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}
