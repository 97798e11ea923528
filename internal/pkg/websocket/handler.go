package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/placement/internal/app/models/dto"
	"github.com/yigit/placement/internal/middleware"
)

// Handler upgrades student connections for live notifications
type Handler struct {
	hub    *Hub
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, logger zerolog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// HandleConnection godoc
// @Summary Live notification stream
// @Description Upgrades to a WebSocket that receives every officer broadcast as {"type":"notification","message":...,"created_at":...}. Browsers may pass the token as ?access_token=.
// @Tags notifications
// @Security BearerAuth
// @Param access_token query string false "JWT when headers cannot be set"
// @Success 101 {string} string "Switching Protocols"
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /student/notifications/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	studentID, ok := middleware.PrincipalID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrorCodeUnauthorized, "Authorization required"))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 16),
		studentID: studentID,
		logger:    h.logger,
	}
	if !h.hub.enqueue(h.hub.register, client) {
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
