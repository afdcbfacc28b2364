package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidTimeString(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"00:00", true},
		{"08:00", true},
		{"23:59", true},
		{"24:00", false},
		{"12:60", false},
		{"8:00", false},
		{"", false},
		{"08:0", false},
		{" 8:00", false},
		{"08:00 ", false},
		{"ab:cd", false},
		{"0800", false},
		{"08-00", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidTimeString(tt.input))
		})
	}
}

func TestParseTimeString(t *testing.T) {
	hm, err := ParseTimeString("09:45")
	require.NoError(t, err)
	assert.Equal(t, 9, hm.Hour)
	assert.Equal(t, 45, hm.Minute)
	assert.Equal(t, "09:45", hm.String())
}

func TestParseTimeStringError(t *testing.T) {
	_, err := ParseTimeString("9:45")
	require.Error(t, err)

	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "9:45", fe.Value)
	assert.Contains(t, err.Error(), "HH:mm")
}

func TestHourMinuteOn(t *testing.T) {
	day := time.Date(2025, 3, 10, 15, 30, 12, 99, time.UTC)
	at := HourMinute{Hour: 8, Minute: 5}.On(day)
	assert.Equal(t, time.Date(2025, 3, 10, 8, 5, 0, 0, time.UTC), at)
}

func TestFromTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 22, 7, 0, 0, time.UTC)
	assert.Equal(t, "22:07", FromTime(now).String())
}
