package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type sectionRequest struct {
	Name *string `json:"name"`
}

// handleBoard returns the whole board: sections in order, each with its
// cards enriched with countdown display values.
func (s *Server) handleBoard(c *gin.Context) {
	now := s.store.Now()

	type sectionView struct {
		ID    int64      `json:"id"`
		Name  string     `json:"name"`
		Cards []cardView `json:"cards"`
	}

	sections := s.store.Sections()
	out := make([]sectionView, 0, len(sections))
	for _, section := range sections {
		cards, _ := s.store.CardsOfSection(section.ID)
		views := make([]cardView, 0, len(cards))
		for _, card := range cards {
			views = append(views, viewCard(card, now))
		}
		out = append(out, sectionView{ID: section.ID, Name: section.Name, Cards: views})
	}
	respondSuccess(c, http.StatusOK, gin.H{"sections": out})
}

// handleCreateSection adds a new section; the name may be empty.
func (s *Server) handleCreateSection(c *gin.Context) {
	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	section := s.store.AddSection(getString(req.Name))
	respondSuccess(c, http.StatusCreated, gin.H{"section": section})
}

// handleRenameSection sets a section's name.
func (s *Server) handleRenameSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req sectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err)
		return
	}

	if err := s.store.RenameSection(id, getString(req.Name)); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "renamed"})
}

// handleDeleteSection removes a section along with all of its cards.
func (s *Server) handleDeleteSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteSection(id); err != nil {
		s.respondError(c, statusFor(err), err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
