package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationboard/internal/models"
	"stationboard/internal/timer"
)

func boardWithTimers(now time.Time) models.Board {
	b := models.NewBoard()
	b.Sections = []models.Section{{ID: 1, Name: "grill"}, {ID: 2, Name: "fry"}}

	timerA := timer.New(now, 30)
	timerB := timer.New(now, 90)
	b.CardsBySection[1] = []models.Card{
		{ID: 1, Name: "ribs", Timer: &timerA},
		{ID: 2, Name: "corn"},
	}
	b.CardsBySection[2] = []models.Card{
		{ID: 1, Name: "wings", Timer: &timerB},
	}
	return b
}

func TestSwapTimersAcrossSections(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b := boardWithTimers(now)

	swapped, ok := SwapTimers(b, 1, 1, 2, 1, now)
	require.True(t, ok)

	ribs := swapped.CardsBySection[1][0]
	wings := swapped.CardsBySection[2][0]
	assert.Equal(t, "ribs", ribs.Name)
	assert.Equal(t, "wings", wings.Name)
	assert.Equal(t, 90, ribs.Timer.InitialDurationMinutes)
	assert.Equal(t, 30, wings.Timer.InitialDurationMinutes)

	// Progress reflects the new timers: 30 minutes left decays, 90 is
	// pinned full.
	assert.Equal(t, float64(100), ribs.ProgressValue)
	assert.InDelta(t, 50, wings.ProgressValue, 0.1)

	// Source board is untouched.
	assert.Equal(t, 30, b.CardsBySection[1][0].Timer.InitialDurationMinutes)
}

func TestSwapTimersWithinOneSection(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b := boardWithTimers(now)

	swapped, ok := SwapTimers(b, 1, 1, 1, 2, now)
	require.True(t, ok)

	cards := swapped.CardsBySection[1]
	assert.Nil(t, cards[0].Timer)
	assert.Zero(t, cards[0].ProgressValue)
	require.NotNil(t, cards[1].Timer)
	assert.Equal(t, 30, cards[1].Timer.InitialDurationMinutes)
}

func TestSwapRoundTripRestoresOriginals(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b := boardWithTimers(now)

	once, ok := SwapTimers(b, 1, 1, 2, 1, now)
	require.True(t, ok)
	twice, ok := SwapTimers(once, 2, 1, 1, 1, now)
	require.True(t, ok)

	assert.Equal(t, b.CardsBySection[1][0].Timer, twice.CardsBySection[1][0].Timer)
	assert.Equal(t, b.CardsBySection[2][0].Timer, twice.CardsBySection[2][0].Timer)
}

func TestSwapTimersMissingCardIsNoop(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b := boardWithTimers(now)

	_, ok := SwapTimers(b, 1, 99, 2, 1, now)
	assert.False(t, ok)

	_, ok = SwapTimers(b, 9, 1, 2, 1, now)
	assert.False(t, ok)
}
