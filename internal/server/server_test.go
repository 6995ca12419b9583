package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stationboard/internal/board"
)

func newTestServer(t *testing.T) (*Server, *board.Store) {
	t.Helper()
	store := board.New(nil, nil, board.Options{})
	return New(store, nil, ""), store
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSectionAndCardLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/sections", map[string]string{"name": "grill"})
	require.Equal(t, http.StatusCreated, rec.Code)
	section := decode(t, rec)["section"].(map[string]any)
	sectionID := int64(section["id"].(float64))
	assert.Equal(t, "grill", section["name"])

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/api/sections/%d/cards", sectionID), map[string]string{"name": "ribs"})
	require.Equal(t, http.StatusCreated, rec.Code)
	card := decode(t, rec)["card"].(map[string]any)
	cardID := int64(card["id"].(float64))

	rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/api/sections/%d/cards/%d", sectionID, cardID), map[string]string{"name": "brisket"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/sections/%d/cards", sectionID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cards := decode(t, rec)["cards"].([]any)
	require.Len(t, cards, 1)
	assert.Equal(t, "brisket", cards[0].(map[string]any)["name"])

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/sections/%d", sectionID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/sections/%d/cards", sectionID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartTimerWithMinutes(t *testing.T) {
	srv, store := newTestServer(t)
	section := store.AddSection("grill")
	card, err := store.AddCard(section.ID, "ribs")
	require.NoError(t, err)

	path := fmt.Sprintf("/api/sections/%d/cards/%d/timer", section.ID, card.ID)
	rec := doJSON(t, srv, http.MethodPost, path, map[string]int{"minutes": 30})
	require.Equal(t, http.StatusCreated, rec.Code)

	view := decode(t, rec)["card"].(map[string]any)
	assert.NotNil(t, view["timer"])
	assert.Equal(t, "warning", view["variant"])
	assert.NotEmpty(t, view["remaining"])
}

func TestStartTimerRejectsNonPositiveMinutes(t *testing.T) {
	srv, store := newTestServer(t)
	section := store.AddSection("grill")
	card, err := store.AddCard(section.ID, "ribs")
	require.NoError(t, err)

	path := fmt.Sprintf("/api/sections/%d/cards/%d/timer", section.ID, card.ID)
	rec := doJSON(t, srv, http.MethodPost, path, map[string]int{"minutes": -5})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartTimerWithRangeValidatesOrder(t *testing.T) {
	srv, store := newTestServer(t)
	section := store.AddSection("grill")
	card, err := store.AddCard(section.ID, "ribs")
	require.NoError(t, err)

	now := time.Now().UTC()
	path := fmt.Sprintf("/api/sections/%d/cards/%d/timer", section.ID, card.ID)

	rec := doJSON(t, srv, http.MethodPost, path, map[string]any{
		"start": now.Format(time.RFC3339),
		"end":   now.Add(-time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, path, map[string]any{
		"start": now.Format(time.RFC3339),
		"end":   now.Add(2 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestTimerNotFoundStatuses(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/sections/1/cards/1/timer", map[string]int{"minutes": 10})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodDelete, "/api/sections/1/cards/1/timer", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSwapEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	grill := store.AddSection("grill")
	fry := store.AddSection("fry")
	ribs, _ := store.AddCard(grill.ID, "ribs")
	wings, _ := store.AddCard(fry.ID, "wings")
	_, err := store.StartTimer(grill.ID, ribs.ID, 30)
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodPost, "/api/timers/swap", map[string]int64{
		"section_a": grill.ID, "card_a": ribs.ID,
		"section_b": fry.ID, "card_b": wings.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	fryCards, _ := store.CardsOfSection(fry.ID)
	require.NotNil(t, fryCards[0].Timer)
	assert.Equal(t, 30, fryCards[0].Timer.InitialDurationMinutes)

	// Missing card: still ok, board untouched.
	rec = doJSON(t, srv, http.MethodPost, "/api/timers/swap", map[string]int64{
		"section_a": grill.ID, "card_a": 99,
		"section_b": fry.ID, "card_b": wings.ID,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBoardEndpoint(t *testing.T) {
	srv, store := newTestServer(t)
	grill := store.AddSection("grill")
	_, err := store.AddCard(grill.ID, "ribs")
	require.NoError(t, err)

	rec := doJSON(t, srv, http.MethodGet, "/api/board", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	sections := decode(t, rec)["sections"].([]any)
	require.Len(t, sections, 1)
	view := sections[0].(map[string]any)
	assert.Equal(t, "grill", view["name"])
	assert.Len(t, view["cards"].([]any), 1)
}
