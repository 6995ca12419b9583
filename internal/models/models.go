package models

import "time"

// Section is a named group of station cards on the board.
type Section struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TimerState holds the countdown configuration attached to a card.
// IsActive false means the timer is logically absent; StartTime and
// EndTime carry no meaning in that state.
type TimerState struct {
	StartTime              *time.Time `json:"start_time"`
	EndTime                *time.Time `json:"end_time"`
	InitialDurationMinutes int        `json:"initial_duration_minutes"`
	IsActive               bool       `json:"is_active"`
}

// Card represents a single station inside a section. ProgressValue is a
// derived cache, always recomputable from Timer; it is refreshed by the
// scheduler tick and after every timer mutation.
type Card struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	ProgressValue float64     `json:"progress_value"`
	Timer         *TimerState `json:"timer,omitempty"`
}

// Board is the full in-memory state: ordered sections and the cards of
// each section keyed by section id. Every section id has an entry in
// CardsBySection, possibly an empty list.
type Board struct {
	Sections       []Section
	CardsBySection map[int64][]Card
}

// NewBoard returns an empty board with an initialized card map.
func NewBoard() Board {
	return Board{CardsBySection: make(map[int64][]Card)}
}

// Clone returns a deep copy of the timer state.
func (t *TimerState) Clone() *TimerState {
	if t == nil {
		return nil
	}
	out := *t
	if t.StartTime != nil {
		start := *t.StartTime
		out.StartTime = &start
	}
	if t.EndTime != nil {
		end := *t.EndTime
		out.EndTime = &end
	}
	return &out
}

// Clone returns a deep copy of the card, including its timer.
func (c Card) Clone() Card {
	out := c
	out.Timer = c.Timer.Clone()
	return out
}

// CloneCards returns a deep copy of a card list.
func CloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	out := make([]Card, len(cards))
	for i, c := range cards {
		out[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	out := Board{
		Sections:       make([]Section, len(b.Sections)),
		CardsBySection: make(map[int64][]Card, len(b.CardsBySection)),
	}
	copy(out.Sections, b.Sections)
	for id, cards := range b.CardsBySection {
		out.CardsBySection[id] = CloneCards(cards)
	}
	return out
}
