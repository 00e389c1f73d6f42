package http

import (
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"parley/internal/core"
)

// SSEHandlers adapts the engine to clients that cannot hold a websocket:
// state-changing frames arrive as REST posts and outbound frames stream back
// over a server-sent-events channel. The engine and mapper are shared with
// the websocket adapter untouched; only the plumbing differs.
type SSEHandlers struct {
	hub *core.Hub
	log *zerolog.Logger

	mu      sync.Mutex
	clients map[string]*core.Client
}

// NewSSEHandlers creates the SSE/REST adapter.
func NewSSEHandlers(hub *core.Hub, logger *zerolog.Logger) *SSEHandlers {
	return &SSEHandlers{
		hub:     hub,
		log:     logger,
		clients: make(map[string]*core.Client),
	}
}

// RegisterRoutes mounts the adapter's endpoints.
func (h *SSEHandlers) RegisterRoutes(r gin.IRoutes) {
	r.POST("/api/join", h.Join)
	r.POST("/api/message", h.Message)
	r.POST("/api/typing", h.Typing)
	r.POST("/api/leave", h.Leave)
	r.GET("/api/events/:session_id", h.Events)
}

// SSEJoinRequest carries the chosen display name; empty means Anonymous.
type SSEJoinRequest struct {
	DisplayName string `json:"display_name"`
}

// SSEJoinResponse returns the id used for all later calls.
type SSEJoinResponse struct {
	SessionID string `json:"session_id"`
}

// SSEMessageRequest submits chat text on behalf of a session.
type SSEMessageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

// SSETypingRequest toggles the typing flag; is_typing defaults to true.
type SSETypingRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	IsTyping  *bool  `json:"is_typing"`
}

// SSELeaveRequest ends a session explicitly.
type SSELeaveRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// AcceptedResponse acknowledges a queued frame.
type AcceptedResponse struct {
	Status string `json:"status"`
}

// Join handles POST /api/join.
func (h *SSEHandlers) Join(c *gin.Context) {
	var req SSEJoinRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	client := core.NewClient(uuid.NewString())

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	h.hub.RegisterClient(client)
	client.Commands <- &core.Command{Kind: core.CommandJoin, Name: req.DisplayName}

	h.log.Info().Str("session_id", client.ID).Msg("sse session joined")
	c.JSON(http.StatusOK, SSEJoinResponse{SessionID: client.ID})
}

// Message handles POST /api/message.
func (h *SSEHandlers) Message(c *gin.Context) {
	var req SSEMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if !h.dispatch(req.SessionID, &core.Command{Kind: core.CommandSendMessage, Text: req.Text}) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
		return
	}
	c.JSON(http.StatusAccepted, AcceptedResponse{Status: "queued"})
}

// Typing handles POST /api/typing.
func (h *SSEHandlers) Typing(c *gin.Context) {
	var req SSETypingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	kind := core.CommandTypingStart
	if req.IsTyping != nil && !*req.IsTyping {
		kind = core.CommandTypingStop
	}
	if !h.dispatch(req.SessionID, &core.Command{Kind: kind}) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
		return
	}
	c.JSON(http.StatusAccepted, AcceptedResponse{Status: "queued"})
}

// Leave handles POST /api/leave.
func (h *SSEHandlers) Leave(c *gin.Context) {
	var req SSELeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	client := h.detach(req.SessionID)
	if client == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
		return
	}
	h.hub.UnregisterClient(client)
	c.JSON(http.StatusOK, AcceptedResponse{Status: "left"})
}

// Events handles GET /api/events/:session_id, streaming outbound frames until
// the request ends. A dropped stream counts as a disconnect.
func (h *SSEHandlers) Events(c *gin.Context) {
	id := c.Param("session_id")

	h.mu.Lock()
	client, ok := h.clients[id]
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "session not found"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-client.Events:
			c.SSEvent("frame", outboundFromEvent(ev))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})

	// Unless an explicit leave already detached the session, the stream
	// ending is its disconnect.
	if gone := h.detach(id); gone != nil {
		h.hub.UnregisterClient(gone)
		h.log.Info().Str("session_id", id).Msg("sse stream closed, session detached")
	}
}

// dispatch hands a command to a live session. The mutex also serializes
// against detach, so commands never land on a closed channel.
func (h *SSEHandlers) dispatch(id string, cmd *core.Command) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[id]
	if !ok {
		return false
	}
	select {
	case client.Commands <- cmd:
	default:
		h.log.Warn().Str("session_id", id).Msg("engine backlogged, dropping frame")
	}
	return true
}

func (h *SSEHandlers) detach(id string) *core.Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	client := h.clients[id]
	delete(h.clients, id)
	return client
}
