package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finchley/papertrade/internal/chaos"
)

// ChaosStatus handles GET /admin/chaos/status.
func (h *Handler) ChaosStatus(c *gin.Context) {
	active := h.Chaos.ActiveScenario()
	c.JSON(http.StatusOK, gin.H{
		"active":    active,
		"is_active": active != "",
		"available": chaos.AvailableScenarios,
	})
}

type chaosRequest struct {
	Scenario string `json:"scenario" binding:"required"`
}

// ActivateChaos handles POST /admin/chaos/activate.
func (h *Handler) ActivateChaos(c *gin.Context) {
	var req chaosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Chaos.Activate(req.Scenario)
	if err != nil {
		if errors.Is(err, chaos.ErrUnknownScenario) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		slog.Error("Chaos activation failed", "scenario", req.Scenario, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result.Scenario = req.Scenario
	c.JSON(http.StatusOK, result)
}

// ResetChaos handles POST /admin/chaos/reset.
func (h *Handler) ResetChaos(c *gin.Context) {
	result, err := h.Chaos.Reset()
	if err != nil {
		slog.Error("Chaos reset failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ScenarioInfo handles GET /admin/scenario.
func (h *Handler) ScenarioInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.Scenario.Info())
}

// ListScenarios handles GET /admin/scenarios.
func (h *Handler) ListScenarios(c *gin.Context) {
	scenarios := h.Scenario.Available()
	if scenarios == nil {
		scenarios = []chaos.ScenarioConfig{}
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": scenarios})
}
