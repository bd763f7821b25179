package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finchley/papertrade/internal/auth"
	"github.com/finchley/papertrade/internal/market"
	"github.com/finchley/papertrade/internal/portfolio"
)

// GetPortfolio handles GET /portfolio.
func (h *Handler) GetPortfolio(c *gin.Context) {
	user := auth.CurrentUser(c)

	summary, err := h.Portfolio.Summarize(user)
	if err != nil {
		slog.Error("Failed to summarize portfolio", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// ListHoldings handles GET /portfolio/holdings.
func (h *Handler) ListHoldings(c *gin.Context) {
	user := auth.CurrentUser(c)

	positions, err := h.Portfolio.Positions(user)
	if err != nil {
		slog.Error("Failed to list holdings", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, positions)
}

// GetHolding handles GET /portfolio/holdings/:symbol.
func (h *Handler) GetHolding(c *gin.Context) {
	user := auth.CurrentUser(c)
	symbol := c.Param("symbol")

	position, err := h.Portfolio.Position(user, symbol)
	if err != nil {
		if errors.Is(err, portfolio.ErrHoldingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, position)
}

// GetBalance handles GET /portfolio/balance.
func (h *Handler) GetBalance(c *gin.Context) {
	user := auth.CurrentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"balance":  market.Round2(user.Balance),
		"currency": "USD",
	})
}
