package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/yigit/alumniconnect/internal/pkg/realtime"
)

// RealtimeController upgrades authenticated requests to the event stream
type RealtimeController struct {
	hub      *realtime.Hub
	upgrader *websocket.Upgrader
	logger   zerolog.Logger
}

// NewRealtimeController creates a new RealtimeController
func NewRealtimeController(hub *realtime.Hub, allowedOrigins []string, logger zerolog.Logger) *RealtimeController {
	return &RealtimeController{
		hub:      hub,
		upgrader: realtime.NewUpgrader(allowedOrigins),
		logger:   logger,
	}
}

// Connect
// @Summary Open the realtime event stream
// @Tags realtime
// @Param token query string true "Access token"
// @Success 101
// @Router /ws [get]
func (c *RealtimeController) Connect(ctx *gin.Context) {
	userID := actor(ctx).UserID
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade has already answered the client
		c.logger.Warn().Err(err).Int64("userID", userID).Msg("WebSocket upgrade failed")
		return
	}
	c.hub.Serve(conn, userID)
}
