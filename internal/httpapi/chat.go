package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finchley/papertrade/internal/chat"
)

type chatRequest struct {
	Messages []chat.Message `json:"messages" binding:"required,min=1,dive"`
}

// RelayChat handles POST /chat, forwarding the conversation to the
// configured upstream model.
func (h *Handler) RelayChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.Chat.Relay(c.Request.Context(), req.Messages)
	if err != nil {
		if errors.Is(err, chat.ErrNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Chat relay failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": reply})
}
