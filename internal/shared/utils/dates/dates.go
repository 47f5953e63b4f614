package dates

import (
	"fmt"
	"time"
)

// Layout is the wire format of civil dates.
const Layout = "2006-01-02"

// Normalize truncates t to 00:00 UTC of its calendar date.
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse parses a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", s, Layout)
	}
	return t, nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) time.Time {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// SpanDays returns the number of days in the inclusive range [from, to].
func SpanDays(from, to time.Time) int {
	return int(Normalize(to).Sub(Normalize(from)).Hours()/24) + 1
}

// Overlaps reports whether the inclusive ranges [aFrom, aTo] and [bFrom, bTo]
// share at least one day.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aFrom.After(bTo) && !bFrom.After(aTo)
}
