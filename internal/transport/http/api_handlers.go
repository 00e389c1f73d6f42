package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"parley/internal/core"
)

// StatsHandlers serves the operational endpoints backed by engine counters.
type StatsHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewStatsHandlers creates a new stats handlers instance.
func NewStatsHandlers(hub *core.Hub, logger *zerolog.Logger) *StatsHandlers {
	return &StatsHandlers{hub: hub, log: logger}
}

// HealthResponse reports liveness plus coarse engine counters.
type HealthResponse struct {
	Status   string `json:"status"`
	Users    int    `json:"users"`
	Messages int    `json:"messages"`
}

// StatsResponse lists who is online and how much history is buffered.
type StatsResponse struct {
	OnlineUsers   []string `json:"online_users"`
	TotalMessages int      `json:"total_messages"`
}

// ErrorResponse is the uniform JSON error body for REST endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Health handles GET /healthz.
func (h *StatsHandlers) Health(c *gin.Context) {
	stats, err := h.hub.Stats(c.Request.Context())
	if err != nil {
		h.log.Warn().Err(err).Msg("health check could not reach engine")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "engine unavailable"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Users:    len(stats.Online),
		Messages: stats.Messages,
	})
}

// Stats handles GET /api/stats.
func (h *StatsHandlers) Stats(c *gin.Context) {
	stats, err := h.hub.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "engine unavailable"})
		return
	}
	c.JSON(http.StatusOK, StatsResponse{
		OnlineUsers:   stats.Online,
		TotalMessages: stats.Messages,
	})
}
