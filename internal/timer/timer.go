// Package timer constructs and mutates TimerState values. All functions
// are pure: they take explicit instants and return new values, leaving
// their inputs untouched.
package timer

import (
	"time"

	"stationboard/internal/models"
	"stationboard/internal/timeutil"
)

// New starts a countdown of durationMinutes beginning at now. A zero or
// negative duration is not rejected and yields an immediately expired
// timer; disallowing that is the caller's concern.
func New(now time.Time, durationMinutes int) models.TimerState {
	end := timeutil.AddMinutes(now, durationMinutes)
	return models.TimerState{
		StartTime:              &now,
		EndTime:                &end,
		InitialDurationMinutes: durationMinutes,
		IsActive:               true,
	}
}

// NewWithRange starts a countdown over an explicit start/end range. The
// configured duration is derived from the range in whole minutes and may
// be negative when end precedes start; range validation is a caller
// concern.
func NewWithRange(start, end time.Time) models.TimerState {
	return models.TimerState{
		StartTime:              &start,
		EndTime:                &end,
		InitialDurationMinutes: timeutil.MinutesBetween(start, end),
		IsActive:               true,
	}
}

// UpdateRange replaces the timer's range and recomputes its configured
// duration from the new timestamps. Only meaningful on an active timer.
func UpdateRange(t models.TimerState, start, end time.Time) models.TimerState {
	t.StartTime = &start
	t.EndTime = &end
	t.InitialDurationMinutes = timeutil.MinutesBetween(start, end)
	return t
}

// AddMinutes shifts the timer's end by a signed number of minutes and
// adjusts the configured duration by the same amount. The quick-adjust
// path keeps InitialDurationMinutes authoritative rather than deriving
// it from the timestamps. Inactive timers and timers without an end are
// returned unchanged.
func AddMinutes(t models.TimerState, minutes int) models.TimerState {
	if !t.IsActive || t.EndTime == nil {
		return t
	}
	end := timeutil.AddMinutes(*t.EndTime, minutes)
	t.EndTime = &end
	t.InitialDurationMinutes += minutes
	return t
}
