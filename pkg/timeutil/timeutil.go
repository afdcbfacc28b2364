// Package timeutil is the single source of truth for "HH:mm" time-of-day
// strings. Every component that interprets a reminder slot goes through
// here; nothing else in the module re-implements the check.
package timeutil

import (
	"fmt"
	"time"
)

// Layout is the canonical time-of-day layout accepted by this package.
const Layout = "HH:mm"

// FormatError reports a string that does not match Layout.
type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: expected %s (00:00-23:59)", e.Value, Layout)
}

// HourMinute is a parsed time of day.
type HourMinute struct {
	Hour   int
	Minute int
}

// String renders the canonical "HH:mm" form.
func (hm HourMinute) String() string {
	return fmt.Sprintf("%02d:%02d", hm.Hour, hm.Minute)
}

// On anchors the time of day to the given calendar date.
func (hm HourMinute) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), hm.Hour, hm.Minute, 0, 0, date.Location())
}

// FromTime truncates a time.Time to its time-of-day components.
func FromTime(t time.Time) HourMinute {
	return HourMinute{Hour: t.Hour(), Minute: t.Minute()}
}

// IsValidTimeString reports whether s is exactly two digits, a colon and
// two digits, with hour in [0,23] and minute in [0,59]. No leniency for
// single-digit hours, whitespace or 12-hour clock forms.
func IsValidTimeString(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	for _, i := range [4]int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')
	return hour <= 23 && minute <= 59
}

// ParseTimeString parses a canonical "HH:mm" string. It returns a
// *FormatError carrying the offending value when IsValidTimeString(s)
// is false.
func ParseTimeString(s string) (HourMinute, error) {
	if !IsValidTimeString(s) {
		return HourMinute{}, &FormatError{Value: s}
	}
	return HourMinute{
		Hour:   int(s[0]-'0')*10 + int(s[1]-'0'),
		Minute: int(s[3]-'0')*10 + int(s[4]-'0'),
	}, nil
}
