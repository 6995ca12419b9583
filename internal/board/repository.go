// Package board holds the authoritative in-memory state: pure list
// transforms over sections and cards, the timer swap, the shared
// recomputation scheduler, and the Store orchestrator that ties them to
// persistence and the expiry feed.
package board

import "stationboard/internal/models"

// nextID assigns ids as max of the live collection plus one, starting at
// one for an empty collection. Deleting the current maximum frees its id
// for reuse; that matches the historical behavior and is kept on purpose.
func nextID(ids []int64) int64 {
	var max int64
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func sectionIDs(sections []models.Section) []int64 {
	ids := make([]int64, len(sections))
	for i, s := range sections {
		ids[i] = s.ID
	}
	return ids
}

func cardIDs(cards []models.Card) []int64 {
	ids := make([]int64, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	return ids
}

// CreateSection appends a new section and returns the new list plus the
// created section. The name may be empty.
func CreateSection(sections []models.Section, name string) ([]models.Section, models.Section) {
	section := models.Section{ID: nextID(sectionIDs(sections)), Name: name}
	out := make([]models.Section, 0, len(sections)+1)
	out = append(out, sections...)
	out = append(out, section)
	return out, section
}

// UpdateSectionName renames a section by id. The bool reports whether the
// section was found.
func UpdateSectionName(sections []models.Section, id int64, name string) ([]models.Section, bool) {
	out := make([]models.Section, len(sections))
	copy(out, sections)
	for i := range out {
		if out[i].ID == id {
			out[i].Name = name
			return out, true
		}
	}
	return out, false
}

// DeleteSection removes a section by id. Cascading removal of its cards
// is the Store's responsibility.
func DeleteSection(sections []models.Section, id int64) ([]models.Section, bool) {
	out := make([]models.Section, 0, len(sections))
	found := false
	for _, s := range sections {
		if s.ID == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	return out, found
}

// CreateCard appends a new card with no timer and zero progress.
func CreateCard(cards []models.Card, name string) ([]models.Card, models.Card) {
	card := models.Card{ID: nextID(cardIDs(cards)), Name: name}
	out := make([]models.Card, 0, len(cards)+1)
	out = append(out, cards...)
	out = append(out, card)
	return out, card
}

// UpdateCardName renames a card by id.
func UpdateCardName(cards []models.Card, id int64, name string) ([]models.Card, bool) {
	out := make([]models.Card, len(cards))
	copy(out, cards)
	for i := range out {
		if out[i].ID == id {
			out[i].Name = name
			return out, true
		}
	}
	return out, false
}

// DeleteCard removes a card by id.
func DeleteCard(cards []models.Card, id int64) ([]models.Card, bool) {
	out := make([]models.Card, 0, len(cards))
	found := false
	for _, c := range cards {
		if c.ID == id {
			found = true
			continue
		}
		out = append(out, c)
	}
	return out, found
}

// FindCardIndex locates a card by id and returns its index, or -1.
func FindCardIndex(cards []models.Card, id int64) int {
	for i, c := range cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}
