package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/felicare/ckd-api/internal/config"
)

func TestPolicyFromConfig(t *testing.T) {
	policy := PolicyFromConfig(config.ReminderConfig{
		GraceMinutes:          45,
		FollowupOffsetMinutes: 90,
		SnoozeMinutes:         10,
		WeeklySummaryDay:      "Wednesday",
		WeeklySummaryTime:     "19:30",
	})

	assert.Equal(t, 45*time.Minute, policy.GracePeriod)
	assert.Equal(t, 90*time.Minute, policy.FollowupOffset)
	assert.Equal(t, 10*time.Minute, policy.SnoozeOffset)
	assert.Equal(t, time.Wednesday, policy.WeeklySummaryDay)
	assert.Equal(t, "19:30", policy.WeeklySummaryTime)
}

func TestPolicyFromConfigFallsBackToDefaults(t *testing.T) {
	policy := PolicyFromConfig(config.ReminderConfig{WeeklySummaryDay: "someday"})
	assert.Equal(t, DefaultPolicy(), policy)
}
