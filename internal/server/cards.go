package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type cardRequest struct {
	Name *string `json:"name"`
}

// handleListCards fetches the cards of a section with display values.
func (s *Server) handleListCards(c *gin.Context) {
	sectionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	cards, found := s.store.CardsOfSection(sectionID)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "section not found"})
		return
	}

	now := s.store.Now()
	views := make([]cardView, 0, len(cards))
	for _, card := range cards {
		views = append(views, viewCard(card, now))
	}
	respondSuccess(c, http.StatusOK, gin.H{"cards": views})
}

// handleCreateCard adds a new station card to a section.
func (s *Server) handleCreateCard(c *gin.Context) {
	sectionID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	card, err := s.store.AddCard(sectionID, getString(req.Name))
	if err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"card": card})
}

// handleRenameCard sets a card's name.
func (s *Server) handleRenameCard(c *gin.Context) {
	sectionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	cardID, ok := parseID(c, "cardId")
	if !ok {
		return
	}

	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.store.RenameCard(sectionID, cardID, getString(req.Name)); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "renamed"})
}

// handleDeleteCard removes a card completely.
func (s *Server) handleDeleteCard(c *gin.Context) {
	sectionID, ok := parseID(c, "id")
	if !ok {
		return
	}
	cardID, ok := parseID(c, "cardId")
	if !ok {
		return
	}
	if err := s.store.DeleteCard(sectionID, cardID); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
