package board

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"stationboard/internal/models"
	"stationboard/internal/persist"
	"stationboard/internal/progress"
	"stationboard/internal/timer"
)

// Errors reported to callers of the mutation API. Lookup failures on the
// swap path are deliberately not among them: a swap with a missing card
// is a silent no-op.
var (
	ErrSectionNotFound = errors.New("section not found")
	ErrCardNotFound    = errors.New("card not found")
)

// DefaultTickInterval is the shared recomputation cadence.
const DefaultTickInterval = time.Second

// Options tune the Store. The zero value selects production defaults.
type Options struct {
	// TickInterval overrides the scheduler cadence.
	TickInterval time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// CardListing pairs a card with its owning section for flat board reads.
type CardListing struct {
	SectionID   int64       `json:"section_id"`
	SectionName string      `json:"section_name"`
	Card        models.Card `json:"card"`
}

// Store owns the authoritative board and wires the scheduler and the
// persistence gateway to it. All mutations replace the affected
// collections with fresh copies under one mutex, so readers always see a
// complete state transition. The Store also owns both time-driven task
// handles: the tick loop here and the debounce timer inside the gateway,
// both cancelled by Stop.
type Store struct {
	logger  *slog.Logger
	gateway *persist.Gateway
	now     func() time.Time

	mu      sync.Mutex
	board   models.Board
	expiry  map[cardKey]expiryPhase
	subs    []chan ExpiryEvent
	stopCh  chan struct{}
	running bool

	tickInterval time.Duration
}

// New builds a Store from persisted state. Real time has passed while
// the board was on disk, so every loaded timer gets its progress
// recomputed and its expiry machine seeded from its current state
// immediately. A nil gateway runs the board purely in memory.
func New(gateway *persist.Gateway, logger *slog.Logger, opts Options) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultTickInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		logger:       logger,
		gateway:      gateway,
		now:          opts.Now,
		board:        models.NewBoard(),
		expiry:       make(map[cardKey]expiryPhase),
		stopCh:       make(chan struct{}),
		tickInterval: opts.TickInterval,
	}

	if gateway != nil {
		if loaded, ok := gateway.Load(); ok {
			s.mu.Lock()
			s.board = loaded
			s.recomputeAllLocked(s.now())
			s.mu.Unlock()
			logger.Info("board restored",
				slog.Int("sections", len(loaded.Sections)))
		}
	}
	return s
}

// Start launches the shared tick loop. Idempotent.
func (s *Store) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	go s.run()
}

// Stop cancels the tick loop, closes subscriber channels, and flushes
// any pending persistence write.
func (s *Store) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, ch := range subs {
		close(ch)
	}
	if s.gateway != nil {
		s.gateway.Close()
	}
}

// SubscribeExpiry registers an observer channel for expiry events.
// Events are dropped rather than block a slow subscriber.
func (s *Store) SubscribeExpiry(buffer int) <-chan ExpiryEvent {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan ExpiryEvent, buffer)
	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()
	return ch
}

// UnsubscribeExpiry removes and closes a previously subscribed channel.
func (s *Store) UnsubscribeExpiry(ch <-chan ExpiryEvent) {
	s.mu.Lock()
	for i, sub := range s.subs {
		if sub == ch {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			s.mu.Unlock()
			close(sub)
			return
		}
	}
	s.mu.Unlock()
}

func (s *Store) run() {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick(s.now())
		}
	}
}

// tick recomputes progress for every active timer and runs each one's
// expiry machine. It touches nothing else and performs no I/O.
func (s *Store) tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for sectionID, cards := range s.board.CardsBySection {
		for i := range cards {
			t := cards[i].Timer
			if t == nil || !t.IsActive {
				continue
			}
			remaining := progress.RemainingSeconds(t, now)
			cards[i].ProgressValue = progress.Calculate(t.InitialDurationMinutes, remaining)

			key := cardKey{sectionID: sectionID, cardID: cards[i].ID}
			expired := progress.IsExpired(remaining)
			phase, seen := s.expiry[key]
			if !seen {
				s.expiry[key] = phaseFor(expired)
				continue
			}
			next, fire := phase.transition(expired)
			s.expiry[key] = next
			if fire {
				s.emitLocked(ExpiryEvent{
					SectionID: sectionID,
					CardID:    cards[i].ID,
					CardName:  cards[i].Name,
					At:        now,
				})
			}
		}
	}
}

func (s *Store) emitLocked(event ExpiryEvent) {
	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// recomputeAllLocked refreshes every card's cached progress and seeds
// the expiry machines without firing.
func (s *Store) recomputeAllLocked(now time.Time) {
	for sectionID, cards := range s.board.CardsBySection {
		for i := range cards {
			t := cards[i].Timer
			if t == nil || !t.IsActive {
				cards[i].ProgressValue = 0
				continue
			}
			remaining := progress.RemainingSeconds(t, now)
			cards[i].ProgressValue = progress.Calculate(t.InitialDurationMinutes, remaining)
			key := cardKey{sectionID: sectionID, cardID: cards[i].ID}
			s.expiry[key] = phaseFor(progress.IsExpired(remaining))
		}
	}
}

// persistLocked hands a snapshot to the gateway, (re)arming the write
// debounce. Called after every mutation, never from the tick loop.
func (s *Store) persistLocked() {
	if s.gateway == nil {
		return
	}
	s.gateway.Schedule(s.board.Clone())
}

// AddSection appends a new section with an empty card list.
func (s *Store) AddSection(name string) models.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	sections, section := CreateSection(s.board.Sections, name)
	s.board.Sections = sections
	s.board.CardsBySection[section.ID] = []models.Card{}
	s.persistLocked()
	return section
}

// RenameSection sets a section's name.
func (s *Store) RenameSection(id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sections, found := UpdateSectionName(s.board.Sections, id, name)
	if !found {
		return ErrSectionNotFound
	}
	s.board.Sections = sections
	s.persistLocked()
	return nil
}

// DeleteSection removes a section and cascades to all of its cards; the
// section's key leaves CardsBySection entirely.
func (s *Store) DeleteSection(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sections, found := DeleteSection(s.board.Sections, id)
	if !found {
		return ErrSectionNotFound
	}
	s.board.Sections = sections
	delete(s.board.CardsBySection, id)
	for key := range s.expiry {
		if key.sectionID == id {
			delete(s.expiry, key)
		}
	}
	s.persistLocked()
	return nil
}

// AddCard appends a new card to a section.
func (s *Store) AddCard(sectionID int64, name string) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, ok := s.board.CardsBySection[sectionID]
	if !ok {
		return models.Card{}, ErrSectionNotFound
	}
	next, card := CreateCard(cards, name)
	s.board.CardsBySection[sectionID] = next
	s.persistLocked()
	return card, nil
}

// RenameCard sets a card's name.
func (s *Store) RenameCard(sectionID, cardID int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, ok := s.board.CardsBySection[sectionID]
	if !ok {
		return ErrSectionNotFound
	}
	next, found := UpdateCardName(cards, cardID, name)
	if !found {
		return ErrCardNotFound
	}
	s.board.CardsBySection[sectionID] = next
	s.persistLocked()
	return nil
}

// DeleteCard removes a card from its section.
func (s *Store) DeleteCard(sectionID, cardID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, ok := s.board.CardsBySection[sectionID]
	if !ok {
		return ErrSectionNotFound
	}
	next, found := DeleteCard(cards, cardID)
	if !found {
		return ErrCardNotFound
	}
	s.board.CardsBySection[sectionID] = next
	delete(s.expiry, cardKey{sectionID: sectionID, cardID: cardID})
	s.persistLocked()
	return nil
}

// StartTimer begins a countdown of the given minutes on a card. Negative
// minutes are not rejected here and produce an immediately expired
// timer.
func (s *Store) StartTimer(sectionID, cardID int64, minutes int) (models.Card, error) {
	now := s.now()
	return s.setTimer(sectionID, cardID, timer.New(now, minutes), now)
}

// StartTimerWithRange begins a countdown over an explicit range. Range
// validation is the caller's concern.
func (s *Store) StartTimerWithRange(sectionID, cardID int64, start, end time.Time) (models.Card, error) {
	return s.setTimer(sectionID, cardID, timer.NewWithRange(start, end), s.now())
}

// UpdateTimerRange edits the range of a card's existing timer and
// recomputes its configured duration from the new timestamps. A card
// without a timer is left unchanged.
func (s *Store) UpdateTimerRange(sectionID, cardID int64, start, end time.Time) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, idx, err := s.findCardLocked(sectionID, cardID)
	if err != nil {
		return models.Card{}, err
	}
	if cards[idx].Timer == nil {
		return cards[idx].Clone(), nil
	}
	updated := timer.UpdateRange(*cards[idx].Timer, start, end)
	return s.applyTimerLocked(sectionID, cards, idx, &updated, s.now()), nil
}

// AddTimeToTimer shifts a running timer's end by signed minutes. On an
// inactive or absent timer this is a no-op.
func (s *Store) AddTimeToTimer(sectionID, cardID int64, minutes int) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, idx, err := s.findCardLocked(sectionID, cardID)
	if err != nil {
		return models.Card{}, err
	}
	if cards[idx].Timer == nil {
		return cards[idx].Clone(), nil
	}
	updated := timer.AddMinutes(*cards[idx].Timer, minutes)
	return s.applyTimerLocked(sectionID, cards, idx, &updated, s.now()), nil
}

// ClearTimer detaches a card's timer and zeroes its progress.
func (s *Store) ClearTimer(sectionID, cardID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, idx, err := s.findCardLocked(sectionID, cardID)
	if err != nil {
		return err
	}
	next := models.CloneCards(cards)
	next[idx].Timer = nil
	next[idx].ProgressValue = 0
	s.board.CardsBySection[sectionID] = next
	delete(s.expiry, cardKey{sectionID: sectionID, cardID: cardID})
	s.persistLocked()
	return nil
}

// SwapTimers exchanges the timers of two cards in one state transition.
// When either card cannot be found the board stays untouched; by
// contract that is not an error.
func (s *Store) SwapTimers(sectionA, cardA, sectionB, cardB int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, ok := SwapTimers(s.board, sectionA, cardA, sectionB, cardB, s.now())
	if !ok {
		s.logger.Debug("swap skipped, card not found",
			slog.Int64("section_a", sectionA), slog.Int64("card_a", cardA),
			slog.Int64("section_b", sectionB), slog.Int64("card_b", cardB))
		return
	}
	s.board = next

	// The expiry machines travel with their timers so an already
	// notified timer does not fire again from its new slot.
	keyA := cardKey{sectionID: sectionA, cardID: cardA}
	keyB := cardKey{sectionID: sectionB, cardID: cardB}
	phaseA, okA := s.expiry[keyA]
	phaseB, okB := s.expiry[keyB]
	delete(s.expiry, keyA)
	delete(s.expiry, keyB)
	if okA {
		s.expiry[keyB] = phaseA
	}
	if okB {
		s.expiry[keyA] = phaseB
	}

	s.persistLocked()
}

func (s *Store) findCardLocked(sectionID, cardID int64) ([]models.Card, int, error) {
	cards, ok := s.board.CardsBySection[sectionID]
	if !ok {
		return nil, 0, ErrSectionNotFound
	}
	idx := FindCardIndex(cards, cardID)
	if idx < 0 {
		return nil, 0, ErrCardNotFound
	}
	return cards, idx, nil
}

// setTimer attaches a fresh timer to a card, replacing any previous one.
func (s *Store) setTimer(sectionID, cardID int64, t models.TimerState, now time.Time) (models.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, idx, err := s.findCardLocked(sectionID, cardID)
	if err != nil {
		return models.Card{}, err
	}
	return s.applyTimerLocked(sectionID, cards, idx, &t, now), nil
}

// applyTimerLocked writes a new timer value onto a card copy, refreshes
// the cached progress, and reseeds the card's expiry machine from the
// new timer so no stale edge fires.
func (s *Store) applyTimerLocked(sectionID int64, cards []models.Card, idx int, t *models.TimerState, now time.Time) models.Card {
	next := models.CloneCards(cards)
	next[idx].Timer = t.Clone()
	next[idx].ProgressValue = progress.ForTimer(next[idx].Timer, now)
	s.board.CardsBySection[sectionID] = next

	key := cardKey{sectionID: sectionID, cardID: next[idx].ID}
	remaining := progress.RemainingSeconds(next[idx].Timer, now)
	s.expiry[key] = phaseFor(progress.IsExpired(remaining))

	s.persistLocked()
	return next[idx].Clone()
}

// CardsOfSection returns a copy of a section's cards in order. The bool
// reports whether the section exists.
func (s *Store) CardsOfSection(sectionID int64) ([]models.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cards, ok := s.board.CardsBySection[sectionID]
	if !ok {
		return nil, false
	}
	return models.CloneCards(cards), true
}

// Sections returns a copy of the section list in order.
func (s *Store) Sections() []models.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Section, len(s.board.Sections))
	copy(out, s.board.Sections)
	return out
}

// AllCards flattens the whole board in section order.
func (s *Store) AllCards() []CardListing {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []CardListing
	for _, section := range s.board.Sections {
		for _, card := range s.board.CardsBySection[section.ID] {
			out = append(out, CardListing{
				SectionID:   section.ID,
				SectionName: section.Name,
				Card:        card.Clone(),
			})
		}
	}
	return out
}

// Board returns a deep copy of the full board state.
func (s *Store) Board() models.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// Now exposes the store's clock so presentation code derives display
// values from the same instant source.
func (s *Store) Now() time.Time {
	return s.now()
}
