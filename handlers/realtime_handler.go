package handlers

import (
	"blog-cms/realtime"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type RealtimeHandler struct {
	hub *realtime.Hub
	log zerolog.Logger
}

func NewRealtimeHandler(hub *realtime.Hub, log zerolog.Logger) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, log: log}
}

// Connect godoc
// @Summary      Realtime comment and vote events
// @Description  Upgrades to a websocket. Frames are {"event": "commentAdded"|"voteAdded", "data": {...}}.
// @Tags         realtime
// @Router       /ws [get]
func (h *RealtimeHandler) Connect(c *gin.Context) {
	// the upgrader writes its own error response
	if err := h.hub.ServeWS(c.Writer, c.Request); err != nil {
		h.log.Debug().Err(err).Msg("websocket upgrade failed")
	}
}
