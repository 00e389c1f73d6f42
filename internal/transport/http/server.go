package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"parley/internal/config"
	"parley/internal/core"
)

// NewServer builds the HTTP server exposing both transport adapters and the
// operational endpoints.
func NewServer(hub *core.Hub, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	stats := NewStatsHandlers(hub, logger)
	router.GET("/healthz", stats.Health)
	router.GET("/api/stats", stats.Stats)

	router.GET("/ws", gin.WrapH(NewWSHandler(hub, logger)))

	sse := NewSSEHandlers(hub, logger)
	sse.RegisterRoutes(router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
