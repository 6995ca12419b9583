package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00"},
		{5, "00:05"},
		{30, "00:30"},
		{90, "01:30"},
		{600, "10:00"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{7322, "2:02:02"},
		{36000, "10:00:00"},
		{-15, "00:00"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatClock(tc.seconds), "seconds=%d", tc.seconds)
	}
}

func TestMinutesBetween(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 90, MinutesBetween(start, start.Add(90*time.Minute)))
	assert.Equal(t, 0, MinutesBetween(start, start.Add(59*time.Second)))
	assert.Equal(t, -30, MinutesBetween(start, start.Add(-30*time.Minute)))
}

func TestSecondsBetween(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, int64(75), SecondsBetween(start, start.Add(75*time.Second)))
	assert.Equal(t, int64(-10), SecondsBetween(start, start.Add(-10*time.Second)))
}

func TestAddMinutes(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, base.Add(45*time.Minute), AddMinutes(base, 45))
	assert.Equal(t, base.Add(-5*time.Minute), AddMinutes(base, -5))
}
