// Package recurrence evaluates treatment-schedule recurrence rules at
// calendar-day granularity.
package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Freq int

const (
	Daily Freq = iota
	EveryNDays
	Weekly
)

var freqNames = map[Freq]string{
	Daily:      "DAILY",
	EveryNDays: "EVERY_N_DAYS",
	Weekly:     "WEEKLY",
}

var freqFromName = map[string]Freq{
	"DAILY":        Daily,
	"EVERY_N_DAYS": EveryNDays,
	"WEEKLY":       Weekly,
}

var dayNames = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

var dayAbbrev = map[time.Weekday]string{
	time.Sunday:    "SU",
	time.Monday:    "MO",
	time.Tuesday:   "TU",
	time.Wednesday: "WE",
	time.Thursday:  "TH",
	time.Friday:    "FR",
	time.Saturday:  "SA",
}

// Rule describes how often a treatment recurs, anchored at a start date.
type Rule struct {
	Freq     Freq
	Interval int            // for EveryNDays: repeat every N days (N >= 1)
	ByDay    []time.Weekday // for Weekly: which weekdays (empty = weekday of start)
}

// Parse parses a rule string like "FREQ=WEEKLY;BYDAY=MO,WE" or
// "FREQ=EVERY_N_DAYS;INTERVAL=3".
func Parse(rule string) (Rule, error) {
	if rule == "" {
		return Rule{}, fmt.Errorf("empty rule")
	}

	r := Rule{Interval: 1}
	var hasFreq bool

	parts := strings.Split(rule, ";")
	for _, part := range parts {
		kv := strings.SplitN(part, "=", 2)
		if len(kv) != 2 {
			return Rule{}, fmt.Errorf("invalid rule part: %q", part)
		}
		key, val := kv[0], kv[1]

		switch key {
		case "FREQ":
			f, ok := freqFromName[val]
			if !ok {
				return Rule{}, fmt.Errorf("unknown frequency: %q", val)
			}
			r.Freq = f
			hasFreq = true

		case "INTERVAL":
			n, err := strconv.Atoi(val)
			if err != nil || n < 1 {
				return Rule{}, fmt.Errorf("invalid interval: %q", val)
			}
			r.Interval = n

		case "BYDAY":
			days := strings.Split(val, ",")
			for _, d := range days {
				wd, ok := dayNames[strings.TrimSpace(d)]
				if !ok {
					return Rule{}, fmt.Errorf("unknown day: %q", d)
				}
				r.ByDay = append(r.ByDay, wd)
			}

		default:
			return Rule{}, fmt.Errorf("unknown rule key: %q", key)
		}
	}

	if !hasFreq {
		return Rule{}, fmt.Errorf("rule missing FREQ")
	}
	return r, nil
}

// String renders the rule back into its canonical form.
func (r Rule) String() string {
	parts := []string{"FREQ=" + freqNames[r.Freq]}
	if r.Freq == EveryNDays && r.Interval > 1 {
		parts = append(parts, "INTERVAL="+strconv.Itoa(r.Interval))
	}
	if r.Freq == Weekly && len(r.ByDay) > 0 {
		abbrevs := make([]string, len(r.ByDay))
		for i, d := range r.ByDay {
			abbrevs[i] = dayAbbrev[d]
		}
		parts = append(parts, "BYDAY="+strings.Join(abbrevs, ","))
	}
	return strings.Join(parts, ";")
}

// OccursOn reports whether the rule, anchored at start, fires on date.
// Both arguments are compared at day granularity in date's location.
func (r Rule) OccursOn(start, date time.Time) bool {
	startDay := truncateDay(start)
	day := truncateDay(date)
	if day.Before(startDay) {
		return false
	}

	switch r.Freq {
	case Daily:
		return true

	case EveryNDays:
		interval := r.Interval
		if interval < 1 {
			interval = 1
		}
		days := int(day.Sub(startDay).Hours() / 24)
		return days%interval == 0

	case Weekly:
		byDay := r.ByDay
		if len(byDay) == 0 {
			byDay = []time.Weekday{startDay.Weekday()}
		}
		for _, wd := range byDay {
			if day.Weekday() == wd {
				return true
			}
		}
		return false
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
