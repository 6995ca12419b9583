package board

import (
	"time"

	"stationboard/internal/models"
	"stationboard/internal/progress"
)

// SwapTimers exchanges the timers of two cards, leaving ids and names in
// place, and recomputes both cards' progress from their new timers. The
// two cards may live in the same section or in different ones; either
// way the returned board reflects both sides at once. When either card
// cannot be found in its claimed section the board is returned unchanged
// and the bool is false.
func SwapTimers(b models.Board, sectionA, cardA, sectionB, cardB int64, now time.Time) (models.Board, bool) {
	listA, ok := b.CardsBySection[sectionA]
	if !ok {
		return b, false
	}
	listB, ok := b.CardsBySection[sectionB]
	if !ok {
		return b, false
	}
	idxA := FindCardIndex(listA, cardA)
	idxB := FindCardIndex(listB, cardB)
	if idxA < 0 || idxB < 0 {
		return b, false
	}

	out := models.Board{
		Sections:       b.Sections,
		CardsBySection: make(map[int64][]models.Card, len(b.CardsBySection)),
	}
	for id, cards := range b.CardsBySection {
		out.CardsBySection[id] = cards
	}

	newA := models.CloneCards(listA)
	newB := newA
	if sectionA != sectionB {
		newB = models.CloneCards(listB)
	}

	newA[idxA].Timer, newB[idxB].Timer = newB[idxB].Timer, newA[idxA].Timer
	newA[idxA].ProgressValue = progress.ForTimer(newA[idxA].Timer, now)
	newB[idxB].ProgressValue = progress.ForTimer(newB[idxB].Timer, now)

	out.CardsBySection[sectionA] = newA
	out.CardsBySection[sectionB] = newB
	return out, true
}
