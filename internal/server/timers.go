package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type startTimerRequest struct {
	Minutes *int       `json:"minutes"`
	Start   *time.Time `json:"start"`
	End     *time.Time `json:"end"`
}

type rangeRequest struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

type addTimeRequest struct {
	Minutes *int `json:"minutes"`
}

type swapRequest struct {
	SectionA *int64 `json:"section_a"`
	CardA    *int64 `json:"card_a"`
	SectionB *int64 `json:"section_b"`
	CardB    *int64 `json:"card_b"`
}

// checkRange rejects an inverted range before it reaches the engine,
// which by contract accepts any span and would simply run an already
// expired timer.
func checkRange(start, end *time.Time) error {
	if start == nil || end == nil {
		return fmt.Errorf("start and end are required")
	}
	if !end.After(*start) {
		return fmt.Errorf("end must be after start")
	}
	return nil
}

// handleStartTimer starts a countdown on a card, either from a minute
// count or from an explicit start/end range.
func (s *Server) handleStartTimer(c *gin.Context) {
	sectionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	cardID, ok := parseID(c, "cardId")
	if !ok {
		return
	}

	var req startTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Minutes != nil {
		if *req.Minutes <= 0 {
			s.respondError(c, http.StatusBadRequest, fmt.Errorf("minutes must be positive"))
			return
		}
		card, err := s.store.StartTimer(sectionID, cardID, *req.Minutes)
		if err != nil {
			s.respondError(c, statusFor(err), err)
			return
		}
		respondSuccess(c, http.StatusCreated, gin.H{"card": viewCard(card, s.store.Now())})
		return
	}

	if err := checkRange(req.Start, req.End); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	card, err := s.store.StartTimerWithRange(sectionID, cardID, *req.Start, *req.End)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"card": viewCard(card, s.store.Now())})
}

// handleUpdateTimerRange edits a running timer's start/end range.
func (s *Server) handleUpdateTimerRange(c *gin.Context) {
	sectionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	cardID, ok := parseID(c, "cardId")
	if !ok {
		return
	}

	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if err := checkRange(req.Start, req.End); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	card, err := s.store.UpdateTimerRange(sectionID, cardID, *req.Start, *req.End)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"card": viewCard(card, s.store.Now())})
}

// handleAddTime shifts a running timer's end by signed minutes.
func (s *Server) handleAddTime(c *gin.Context) {
	sectionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	cardID, ok := parseID(c, "cardId")
	if !ok {
		return
	}

	var req addTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Minutes == nil || *req.Minutes == 0 {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("minutes must be a non-zero amount"))
		return
	}

	card, err := s.store.AddTimeToTimer(sectionID, cardID, *req.Minutes)
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"card": viewCard(card, s.store.Now())})
}

// handleClearTimer detaches a card's timer.
func (s *Server) handleClearTimer(c *gin.Context) {
	sectionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	cardID, ok := parseID(c, "cardId")
	if !ok {
		return
	}
	if err := s.store.ClearTimer(sectionID, cardID); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "cleared"})
}

// handleSwapTimers exchanges the timers of two cards. A swap naming a
// missing card leaves the board untouched and still reports ok, matching
// the engine's no-op contract.
func (s *Server) handleSwapTimers(c *gin.Context) {
	var req swapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}
	if req.SectionA == nil || req.CardA == nil || req.SectionB == nil || req.CardB == nil {
		s.respondError(c, http.StatusBadRequest, fmt.Errorf("both cards must be identified"))
		return
	}

	s.store.SwapTimers(*req.SectionA, *req.CardA, *req.SectionB, *req.CardB)
	respondSuccess(c, http.StatusOK, gin.H{"status": "ok"})
}
