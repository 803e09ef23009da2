// Package tradedate provides a civil date type anchored to the portfolio's
// reference timezone (UTC+8). The NAV feed publishes dates in that zone, so
// "today" must be derived from it explicitly rather than from the host's
// local clock.
package tradedate

import (
	"fmt"
	"time"
)

// DateFormat is the wire format used by the NAV feed and the store.
const DateFormat = "2006-01-02"

// RefZone is the fixed reference timezone for all date decisions.
var RefZone = time.FixedZone("UTC+8", 8*60*60)

// Date represents a calendar day with no time-of-day component.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Date for the given year, month, and day.
func New(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// FromTime converts an instant to the calendar day it falls on in RefZone.
func FromTime(t time.Time) Date {
	return New(t.In(RefZone).Date())
}

// Today returns the current date in RefZone.
func Today() Date {
	return FromTime(time.Now())
}

// time returns the canonical midnight instant of the date in RefZone.
func (d Date) time() time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, RefZone)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Add returns a new Date with the given number of days added.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// Before reports whether d is strictly before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is strictly after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// Equal reports whether d and x are the same calendar day.
func (d Date) Equal(x Date) bool { return d == x }

// Weekday returns the day of the week for the date.
func (d Date) Weekday() time.Weekday { return d.time().Weekday() }

// IsBusinessDay reports whether the date is a Monday through Friday.
// No holiday calendar is consulted.
func (d Date) IsBusinessDay() bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// String formats the date as "2006-01-02".
func (d Date) String() string { return d.time().Format(DateFormat) }

// Parse parses a "2006-01-02" string into a Date.
func Parse(str string) (Date, error) {
	t, err := time.Parse(DateFormat, str)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", str, DateFormat, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// constants known to be well formed.
func MustParse(str string) Date {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// BusinessDaysAfter counts business days strictly after from, up to and
// including to. Returns 0 if to is not after from.
func BusinessDaysAfter(from, to Date) int {
	count := 0
	for d := from.Add(1); !d.After(to); d = d.Add(1) {
		if d.IsBusinessDay() {
			count++
		}
	}
	return count
}
