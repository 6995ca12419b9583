package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"stationboard/internal/board"
	"stationboard/internal/models"
	"stationboard/internal/progress"
)

// Server provides the HTTP surface of the station board. It consumes the
// Store's mutation and query API and derives display values from the
// progress calculator; no timer logic lives here.
type Server struct {
	engine    *gin.Engine
	store     *board.Store
	logger    *slog.Logger
	staticDir string
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *board.Store, logger *slog.Logger, staticDir string) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/api"))

	srv := &Server{
		engine:    router,
		store:     store,
		logger:    logger,
		staticDir: staticDir,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires all API and static handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)
		api.GET("/board", s.handleBoard)
		api.GET("/events", s.handleEvents)

		sections := api.Group("/sections")
		{
			sections.POST("", s.handleCreateSection)
			sections.PUT(":id", s.handleRenameSection)
			sections.DELETE(":id", s.handleDeleteSection)
			sections.GET(":id/cards", s.handleListCards)
			sections.POST(":id/cards", s.handleCreateCard)
			sections.PUT(":id/cards/:cardId", s.handleRenameCard)
			sections.DELETE(":id/cards/:cardId", s.handleDeleteCard)
			sections.POST(":id/cards/:cardId/timer", s.handleStartTimer)
			sections.PUT(":id/cards/:cardId/timer", s.handleUpdateTimerRange)
			sections.POST(":id/cards/:cardId/timer/add", s.handleAddTime)
			sections.DELETE(":id/cards/:cardId/timer", s.handleClearTimer)
		}

		api.POST("/timers/swap", s.handleSwapTimers)
	}

	s.mountStatic()
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// cardView is a card enriched with the derived countdown display values
// for its timer, when one is running.
type cardView struct {
	models.Card
	RemainingSeconds int64            `json:"remaining_seconds,omitempty"`
	Remaining        string           `json:"remaining,omitempty"`
	Variant          progress.Variant `json:"variant,omitempty"`
	Expired          bool             `json:"expired,omitempty"`
}

func viewCard(card models.Card, now time.Time) cardView {
	view := cardView{Card: card}
	if card.Timer != nil && card.Timer.IsActive {
		remaining := progress.RemainingSeconds(card.Timer, now)
		view.RemainingSeconds = remaining
		view.Remaining = progress.FormatRemaining(remaining)
		view.Variant = progress.CalculateVariant(remaining)
		view.Expired = progress.IsExpired(remaining)
	}
	return view
}

// parseID converts a path parameter to int64 with error handling.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid identifier"})
		return 0, false
	}
	return id, true
}

// respondError logs the error and returns a JSON payload.
func (s *Server) respondError(c *gin.Context, status int, err error) {
	if err != nil {
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// statusFor maps store lookup failures to HTTP statuses.
func statusFor(err error) int {
	switch err {
	case board.ErrSectionNotFound, board.ErrCardNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// respondSuccess wraps a payload in a JSON envelope for consistency.
func respondSuccess(c *gin.Context, status int, payload any) {
	if payload == nil {
		c.Status(status)
		return
	}
	c.JSON(status, payload)
}
