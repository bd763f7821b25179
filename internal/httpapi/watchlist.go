package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finchley/papertrade/internal/auth"
	"github.com/finchley/papertrade/internal/watchlist"
)

// GetWatchlist handles GET /watchlist.
func (h *Handler) GetWatchlist(c *gin.Context) {
	user := auth.CurrentUser(c)

	items, err := h.Watchlist.List(user)
	if err != nil {
		slog.Error("Failed to list watchlist", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]WatchlistResponse, 0, len(items))
	for i := range items {
		stock, err := h.Watchlist.Stock(items[i].Symbol)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		result = append(result, newWatchlistResponse(&items[i], stock))
	}
	c.JSON(http.StatusOK, result)
}

type watchlistRequest struct {
	Symbol string `json:"symbol" binding:"required"`
}

// AddToWatchlist handles POST /watchlist.
func (h *Handler) AddToWatchlist(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req watchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Watchlist.Add(user, req.Symbol)
	switch {
	case err == nil:
		stock, serr := h.Watchlist.Stock(item.Symbol)
		if serr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": serr.Error()})
			return
		}
		c.JSON(http.StatusCreated, newWatchlistResponse(item, stock))
	case errors.Is(err, watchlist.ErrStockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, watchlist.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Failed to add to watchlist", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// RemoveFromWatchlist handles DELETE /watchlist/:symbol.
func (h *Handler) RemoveFromWatchlist(c *gin.Context) {
	user := auth.CurrentUser(c)

	err := h.Watchlist.Remove(user, c.Param("symbol"))
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, watchlist.ErrNotOnList):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		slog.Error("Failed to remove from watchlist", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
