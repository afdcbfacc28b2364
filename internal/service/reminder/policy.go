package reminder

import (
	"strings"
	"time"

	"github.com/felicare/ckd-api/internal/config"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// PolicyFromConfig builds a Policy from configuration, falling back to
// the defaults for unset or unparseable values.
func PolicyFromConfig(cfg config.ReminderConfig) Policy {
	policy := DefaultPolicy()
	if cfg.GraceMinutes > 0 {
		policy.GracePeriod = time.Duration(cfg.GraceMinutes) * time.Minute
	}
	if cfg.FollowupOffsetMinutes > 0 {
		policy.FollowupOffset = time.Duration(cfg.FollowupOffsetMinutes) * time.Minute
	}
	if cfg.SnoozeMinutes > 0 {
		policy.SnoozeOffset = time.Duration(cfg.SnoozeMinutes) * time.Minute
	}
	if day, ok := weekdayNames[strings.ToLower(cfg.WeeklySummaryDay)]; ok {
		policy.WeeklySummaryDay = day
	}
	if cfg.WeeklySummaryTime != "" {
		policy.WeeklySummaryTime = cfg.WeeklySummaryTime
	}
	return policy
}
