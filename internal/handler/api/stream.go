package api

import (
	"io"
	"net/http"
	"strings"

	"clubops/internal/handler/httperr"
	"clubops/internal/realtime"

	"github.com/gin-gonic/gin"
)

type StreamHandler struct {
	hub *realtime.Hub
}

func NewStreamHandler(hub *realtime.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

// @Summary Lane event stream
// @Description Server-sent events for the lane plus venue broadcasts. The
// @Description types query parameter is a comma-separated list of event
// @Description types to receive; omit it for everything.
// @Tags stream
// @Produce text/event-stream
// @Security BearerAuth
// @Param laneId path string true "Lane ID"
// @Param types query string false "Comma-separated event types"
// @Success 200
// @Router /lanes/{laneId}/events [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	laneID := c.Param("laneId")

	var eventTypes []string
	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				eventTypes = append(eventTypes, t)
			}
		}
	}

	stream, err := h.hub.Open(c.Request.Context(), laneID, eventTypes)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Failed to open event stream", nil)
		return
	}
	defer stream.Close()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(_ io.Writer) bool {
		select {
		case env := <-stream.C:
			c.SSEvent(env.Type, string(env.Payload))
			return true
		case <-stream.Done():
			return false
		}
	})
}
