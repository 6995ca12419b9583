// Package timeutil provides pure conversions between wall-clock instants,
// durations, and display strings. It holds no state.
package timeutil

import (
	"fmt"
	"time"
)

// AddMinutes shifts an instant by a signed number of whole minutes.
func AddMinutes(t time.Time, minutes int) time.Time {
	return t.Add(time.Duration(minutes) * time.Minute)
}

// MinutesBetween returns the span from start to end in whole minutes,
// truncated toward zero. The result is negative when end precedes start.
func MinutesBetween(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// SecondsBetween returns the span from start to end in whole seconds,
// truncated toward zero.
func SecondsBetween(start, end time.Time) int64 {
	return int64(end.Sub(start) / time.Second)
}

// FormatClock renders a non-negative second count as a countdown string:
// "MM:SS" under one hour, "H:MM:SS" at or above it. Negative input is
// treated as zero.
func FormatClock(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
