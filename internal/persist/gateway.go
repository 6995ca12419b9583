// Package persist serializes the board to a named blob in a durable
// key-value store and schedules debounced writes. Failures here never
// propagate: the board continues best-effort in memory.
package persist

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"stationboard/internal/models"
)

// SchemaVersion guards the persisted blob shape. A loaded blob with any
// other version is discarded wholesale; there is no migration path, so
// bumping this loses prior boards. Known limitation.
const SchemaVersion = 1

// DefaultBlobName is the key the board is stored under.
const DefaultBlobName = "board"

// DefaultDebounce is the quiescence window before a batched write.
const DefaultDebounce = 500 * time.Millisecond

// BlobStore is the durable key-value collaborator. Load reports false
// when no blob exists under the name.
type BlobStore interface {
	Load(name string) ([]byte, bool, error)
	Save(name string, data []byte) error
}

// sectionCards is one entry of the cardsBySection association list. The
// in-memory map round-trips through an ordered list of pairs so the blob
// stays a plain JSON document.
type sectionCards struct {
	SectionID int64         `json:"section_id"`
	Cards     []models.Card `json:"cards"`
}

type persistedBoard struct {
	Version        int              `json:"version"`
	Sections       []models.Section `json:"sections"`
	CardsBySection []sectionCards   `json:"cards_by_section"`
}

// Gateway owns the write debounce timer and the (de)serialization
// adapters. One gateway serves one blob name.
type Gateway struct {
	store    BlobStore
	logger   *slog.Logger
	blobName string
	debounce time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *models.Board
	closed  bool
}

// NewGateway wires a gateway to its blob store. A non-positive debounce
// falls back to the default window.
func NewGateway(store BlobStore, logger *slog.Logger, debounce time.Duration) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Gateway{
		store:    store,
		logger:   logger,
		blobName: DefaultBlobName,
		debounce: debounce,
	}
}

// Load reads the persisted board. An absent blob, a blob that fails to
// parse, or a schema version mismatch all report ok false; the caller
// starts from an empty board. Parse failures and version drift are
// logged, never returned.
func (g *Gateway) Load() (models.Board, bool) {
	data, exists, err := g.store.Load(g.blobName)
	if err != nil {
		g.logger.Warn("failed to load persisted board", slog.String("error", err.Error()))
		return models.NewBoard(), false
	}
	if !exists {
		return models.NewBoard(), false
	}

	var blob persistedBoard
	if err := json.Unmarshal(data, &blob); err != nil {
		g.logger.Warn("persisted board is malformed, starting empty", slog.String("error", err.Error()))
		return models.NewBoard(), false
	}
	if blob.Version != SchemaVersion {
		g.logger.Warn("persisted board schema version mismatch, starting empty",
			slog.Int("found", blob.Version), slog.Int("expected", SchemaVersion))
		return models.NewBoard(), false
	}

	board := models.NewBoard()
	board.Sections = append(board.Sections, blob.Sections...)
	for _, entry := range blob.CardsBySection {
		board.CardsBySection[entry.SectionID] = entry.Cards
	}
	// Sections persisted before the card list existed still get a key.
	for _, s := range board.Sections {
		if _, ok := board.CardsBySection[s.ID]; !ok {
			board.CardsBySection[s.ID] = []models.Card{}
		}
	}
	return board, true
}

// Schedule arms (or re-arms) the trailing debounce with the given board
// snapshot. N schedules within the quiescence window collapse into one
// write of the latest snapshot. The snapshot must not be mutated by the
// caller afterwards.
func (g *Gateway) Schedule(board models.Board) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	g.pending = &board
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.debounce, g.writePending)
}

func (g *Gateway) writePending() {
	g.mu.Lock()
	board := g.pending
	g.pending = nil
	g.mu.Unlock()
	if board == nil {
		return
	}
	g.write(*board)
}

// write serializes and stores the board synchronously. Storage failures
// are logged and swallowed; the next mutation re-enters the normal
// debounce path, there is no retry here.
func (g *Gateway) write(board models.Board) {
	blob := persistedBoard{
		Version:        SchemaVersion,
		Sections:       board.Sections,
		CardsBySection: make([]sectionCards, 0, len(board.CardsBySection)),
	}
	// Emit pairs in section order so the blob is stable across writes.
	for _, s := range board.Sections {
		blob.CardsBySection = append(blob.CardsBySection, sectionCards{
			SectionID: s.ID,
			Cards:     board.CardsBySection[s.ID],
		})
	}

	data, err := json.Marshal(blob)
	if err != nil {
		g.logger.Error("failed to serialize board", slog.String("error", err.Error()))
		return
	}
	if err := g.store.Save(g.blobName, data); err != nil {
		g.logger.Error("failed to persist board", slog.String("error", err.Error()))
	}
}

// Close cancels the debounce timer and flushes any pending snapshot so a
// mutation issued just before teardown still reaches the store.
func (g *Gateway) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	pending := g.pending
	g.pending = nil
	g.mu.Unlock()

	if pending != nil {
		g.write(*pending)
	}
}
