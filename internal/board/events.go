package board

import "time"

// ExpiryEvent is published once per timer on the edge where it crosses
// from running to expired. Consumers (sound, notifications) act on it
// without reading the board back.
type ExpiryEvent struct {
	SectionID int64     `json:"section_id"`
	CardID    int64     `json:"card_id"`
	CardName  string    `json:"card_name"`
	At        time.Time `json:"at"`
}

// expiryPhase is the per-timer edge-trigger state machine. A timer sits
// in expiryArmed until it is observed expired, fires exactly once on
// that transition, and re-arms only when observed running again.
type expiryPhase int

const (
	expiryArmed expiryPhase = iota
	expiryNotified
)

// transition feeds one observation into the machine and reports whether
// the expired notification fires.
func (p expiryPhase) transition(expired bool) (expiryPhase, bool) {
	switch {
	case p == expiryArmed && expired:
		return expiryNotified, true
	case p == expiryNotified && !expired:
		return expiryArmed, false
	default:
		return p, false
	}
}

// phaseFor seeds the machine on first observation. An already-expired
// timer starts notified so no spurious event fires, e.g. right after
// loading persisted state.
func phaseFor(expired bool) expiryPhase {
	if expired {
		return expiryNotified
	}
	return expiryArmed
}

// cardKey addresses one card slot across the board. Card ids are only
// unique within their section, so the key carries both.
type cardKey struct {
	sectionID int64
	cardID    int64
}
