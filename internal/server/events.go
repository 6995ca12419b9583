package server

import (
	"io"

	"github.com/gin-gonic/gin"
)

// handleEvents streams expiry events over SSE. An audio or notification
// collaborator subscribes here and reacts to each "expired" message; the
// stream ends when the client disconnects or the board shuts down.
func (s *Server) handleEvents(c *gin.Context) {
	ch := s.store.SubscribeExpiry(8)
	defer s.store.UnsubscribeExpiry(ch)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent("expired", event)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
