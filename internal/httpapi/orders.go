package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/finchley/papertrade/internal/auth"
	"github.com/finchley/papertrade/internal/trading"
)

// PlaceOrder handles POST /orders.
func (h *Handler) PlaceOrder(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req trading.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Trading.PlaceOrder(user, req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, order)
	case errors.Is(err, trading.ErrStockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, trading.ErrLimitPriceRequired),
		errors.Is(err, trading.ErrInsufficientFunds),
		errors.Is(err, trading.ErrInsufficientShares):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Failed to place order", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ListOrders handles GET /orders, optionally filtered by ?status=.
func (h *Handler) ListOrders(c *gin.Context) {
	user := auth.CurrentUser(c)

	orders, err := h.Trading.GetOrders(user, c.Query("status"))
	if err != nil {
		slog.Error("Failed to list orders", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /orders/:id.
func (h *Handler) GetOrder(c *gin.Context) {
	user := auth.CurrentUser(c)

	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.Trading.GetOrder(user, orderID)
	if err != nil {
		if errors.Is(err, trading.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder handles DELETE /orders/:id.
func (h *Handler) CancelOrder(c *gin.Context) {
	user := auth.CurrentUser(c)

	orderID, ok := parseID(c)
	if !ok {
		return
	}

	order, err := h.Trading.CancelOrder(user, orderID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, order)
	case errors.Is(err, trading.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, trading.ErrNotCancellable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Failed to cancel order", "user_id", user.ID, "order_id", orderID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// parseID reads the :id path parameter, writing a 400 when it is not numeric.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
