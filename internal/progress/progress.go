// Package progress derives display values from a timer's timestamps:
// a 0-200 progress percentage, an urgency variant, and a formatted
// countdown string. All functions are pure.
package progress

import (
	"time"

	"stationboard/internal/models"
	"stationboard/internal/timeutil"
)

// Variant is the color-coded urgency tier of a running timer.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantWarning     Variant = "warning"
	VariantOrange      Variant = "orange"
	VariantDestructive Variant = "destructive"
)

const hourSeconds = 3600

// RemainingSeconds returns the whole seconds left on an active timer at
// the given instant. When now is before the timer's start the full
// configured span is reported instead, so a not-yet-begun timer shows
// its whole duration rather than an overshoot. Inactive timers report
// zero.
func RemainingSeconds(t *models.TimerState, now time.Time) int64 {
	if t == nil || !t.IsActive || t.EndTime == nil {
		return 0
	}
	if t.StartTime != nil && now.Before(*t.StartTime) {
		return timeutil.SecondsBetween(*t.StartTime, *t.EndTime)
	}
	return timeutil.SecondsBetween(now, *t.EndTime)
}

// Calculate maps remaining seconds to a 0-200 percentage. The bar is
// pinned at 100 while more than an hour remains, decays linearly over
// the final hour, and past expiry grows 100 points per overdue hour up
// to the 200 cap.
func Calculate(initialMinutes int, remainingSeconds int64) float64 {
	if initialMinutes <= 0 {
		return 0
	}
	if remainingSeconds < 0 {
		overdue := 100 + float64(-remainingSeconds)/hourSeconds*100
		if overdue > 200 {
			return 200
		}
		return overdue
	}
	if remainingSeconds > hourSeconds {
		return 100
	}
	value := float64(remainingSeconds) / hourSeconds * 100
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// CalculateVariant returns the urgency tier for the remaining seconds.
// Exactly zero reads as default; expired or ten minutes and under is
// destructive, then twenty and thirty minute bands.
func CalculateVariant(remainingSeconds int64) Variant {
	if remainingSeconds == 0 {
		return VariantDefault
	}
	remainingMinutes := remainingSeconds / 60
	if remainingSeconds < 0 || remainingMinutes <= 10 {
		return VariantDestructive
	}
	if remainingMinutes <= 20 {
		return VariantOrange
	}
	if remainingMinutes <= 30 {
		return VariantWarning
	}
	return VariantDefault
}

// FormatRemaining renders remaining seconds as a countdown string.
// Expired timers show the overtime prefixed with "+".
func FormatRemaining(remainingSeconds int64) string {
	if remainingSeconds < 0 {
		return "+" + timeutil.FormatClock(-remainingSeconds)
	}
	return timeutil.FormatClock(remainingSeconds)
}

// IsExpired reports whether the timer has run past its end.
func IsExpired(remainingSeconds int64) bool {
	return remainingSeconds < 0
}

// ForTimer recomputes the cached progress percentage for a timer at the
// given instant. Absent or inactive timers yield zero.
func ForTimer(t *models.TimerState, now time.Time) float64 {
	if t == nil || !t.IsActive {
		return 0
	}
	return Calculate(t.InitialDurationMinutes, RemainingSeconds(t, now))
}
