package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finchley/papertrade/internal/alerts"
	"github.com/finchley/papertrade/internal/auth"
)

// CreateAlert handles POST /alerts.
func (h *Handler) CreateAlert(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req alerts.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := h.Alerts.Create(user, req)
	switch {
	case err == nil:
		stock, serr := h.Market.GetStock(alert.Symbol)
		if serr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": serr.Error()})
			return
		}
		c.JSON(http.StatusCreated, newAlertResponse(alert, stock))
	case errors.Is(err, alerts.ErrStockNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, alerts.ErrInvalidCondition), errors.Is(err, alerts.ErrInvalidTarget):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("Failed to create alert", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ListAlerts handles GET /alerts, optionally filtered by ?active_only=true.
func (h *Handler) ListAlerts(c *gin.Context) {
	user := auth.CurrentUser(c)
	activeOnly := c.Query("active_only") == "true"

	list, err := h.Alerts.List(user, activeOnly)
	if err != nil {
		slog.Error("Failed to list alerts", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]AlertResponse, 0, len(list))
	for i := range list {
		stock, serr := h.Market.GetStock(list[i].Symbol)
		if serr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": serr.Error()})
			return
		}
		result = append(result, newAlertResponse(&list[i], stock))
	}
	c.JSON(http.StatusOK, result)
}

// CheckAlerts handles POST /alerts/check: evaluates the caller's active
// alerts against current prices and returns the ones that fired.
func (h *Handler) CheckAlerts(c *gin.Context) {
	user := auth.CurrentUser(c)

	triggered, err := h.Alerts.CheckAndTrigger(c.Request.Context(), user)
	if err != nil {
		slog.Error("Alert check failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]AlertResponse, 0, len(triggered))
	for i := range triggered {
		stock, serr := h.Market.GetStock(triggered[i].Symbol)
		if serr != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": serr.Error()})
			return
		}
		result = append(result, newAlertResponse(&triggered[i], stock))
	}
	c.JSON(http.StatusOK, gin.H{
		"checked":   true,
		"triggered": result,
	})
}

// GetAlert handles GET /alerts/:id.
func (h *Handler) GetAlert(c *gin.Context) {
	user := auth.CurrentUser(c)

	alertID, ok := parseID(c)
	if !ok {
		return
	}

	alert, err := h.Alerts.Get(user, alertID)
	if err != nil {
		if errors.Is(err, alerts.ErrAlertNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	stock, err := h.Market.GetStock(alert.Symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newAlertResponse(alert, stock))
}

// DeleteAlert handles DELETE /alerts/:id.
func (h *Handler) DeleteAlert(c *gin.Context) {
	user := auth.CurrentUser(c)

	alertID, ok := parseID(c)
	if !ok {
		return
	}

	err := h.Alerts.Delete(user, alertID)
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, alerts.ErrAlertNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		slog.Error("Failed to delete alert", "user_id", user.ID, "alert_id", alertID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
