package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    Rule
		wantErr bool
	}{
		{"FREQ=DAILY", Rule{Freq: Daily, Interval: 1}, false},
		{"FREQ=EVERY_N_DAYS;INTERVAL=3", Rule{Freq: EveryNDays, Interval: 3}, false},
		{"FREQ=WEEKLY;BYDAY=MO,WE", Rule{Freq: Weekly, Interval: 1, ByDay: []time.Weekday{time.Monday, time.Wednesday}}, false},
		{"", Rule{}, true},
		{"FREQ=HOURLY", Rule{}, true},
		{"INTERVAL=2", Rule{}, true},
		{"FREQ=WEEKLY;BYDAY=XX", Rule{}, true},
		{"FREQ=EVERY_N_DAYS;INTERVAL=0", Rule{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	for _, input := range []string{
		"FREQ=DAILY",
		"FREQ=EVERY_N_DAYS;INTERVAL=3",
		"FREQ=WEEKLY;BYDAY=MO,WE,FR",
	} {
		r, err := Parse(input)
		require.NoError(t, err)
		assert.Equal(t, input, r.String())
	}
}

func TestOccursOnDaily(t *testing.T) {
	r := Rule{Freq: Daily, Interval: 1}
	start := date(2025, 3, 1)

	assert.True(t, r.OccursOn(start, date(2025, 3, 1)))
	assert.True(t, r.OccursOn(start, date(2025, 3, 17)))
	assert.False(t, r.OccursOn(start, date(2025, 2, 28)), "before start")
}

func TestOccursOnEveryNDays(t *testing.T) {
	r := Rule{Freq: EveryNDays, Interval: 3}
	start := date(2025, 3, 1)

	assert.True(t, r.OccursOn(start, date(2025, 3, 1)))
	assert.False(t, r.OccursOn(start, date(2025, 3, 2)))
	assert.False(t, r.OccursOn(start, date(2025, 3, 3)))
	assert.True(t, r.OccursOn(start, date(2025, 3, 4)))
	assert.True(t, r.OccursOn(start, date(2025, 3, 31)))
}

func TestOccursOnWeekly(t *testing.T) {
	r := Rule{Freq: Weekly, ByDay: []time.Weekday{time.Monday, time.Thursday}}
	start := date(2025, 3, 1) // a Saturday

	assert.True(t, r.OccursOn(start, date(2025, 3, 3)), "Monday")
	assert.True(t, r.OccursOn(start, date(2025, 3, 6)), "Thursday")
	assert.False(t, r.OccursOn(start, date(2025, 3, 4)), "Tuesday")
}

func TestOccursOnWeeklyDefaultsToStartWeekday(t *testing.T) {
	r := Rule{Freq: Weekly}
	start := date(2025, 3, 4) // a Tuesday

	assert.True(t, r.OccursOn(start, date(2025, 3, 11)))
	assert.False(t, r.OccursOn(start, date(2025, 3, 12)))
}
