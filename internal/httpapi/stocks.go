package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/finchley/papertrade/internal/market"
)

// ListStocks handles GET /stocks.
func (h *Handler) ListStocks(c *gin.Context) {
	stocks, err := h.Market.ListStocks()
	if err != nil {
		slog.Error("Failed to list stocks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]StockResponse, len(stocks))
	for i := range stocks {
		result[i] = newStockResponse(&stocks[i])
	}
	c.JSON(http.StatusOK, result)
}

// SearchStocks handles GET /stocks/search?q=.
func (h *Handler) SearchStocks(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search query must be at least 1 character"})
		return
	}

	stocks, err := h.Market.SearchStocks(query)
	if err != nil {
		slog.Error("Stock search failed", "query", query, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result := make([]gin.H, len(stocks))
	for i := range stocks {
		change, changePercent := market.Change(&stocks[i])
		result[i] = gin.H{
			"symbol":         stocks[i].Symbol,
			"name":           stocks[i].Name,
			"current_price":  stocks[i].CurrentPrice,
			"change":         change,
			"change_percent": changePercent,
		}
	}
	c.JSON(http.StatusOK, result)
}

// GetStock handles GET /stocks/:symbol.
func (h *Handler) GetStock(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	stock, err := h.Market.GetStock(symbol)
	if err != nil {
		slog.Error("Failed to get stock", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if stock == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Stock %s not found", symbol)})
		return
	}
	c.JSON(http.StatusOK, newStockResponse(stock))
}

// GetQuote handles GET /stocks/:symbol/quote.
func (h *Handler) GetQuote(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	stock, err := h.Market.GetStock(symbol)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if stock == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Stock %s not found", symbol)})
		return
	}

	change, changePercent := market.Change(stock)
	c.JSON(http.StatusOK, gin.H{
		"symbol":         stock.Symbol,
		"price":          stock.CurrentPrice,
		"change":         change,
		"change_percent": changePercent,
	})
}

// SimulatePriceChange handles POST /stocks/:symbol/simulate.
func (h *Handler) SimulatePriceChange(c *gin.Context) {
	symbol := strings.ToUpper(c.Param("symbol"))
	stock, err := h.Market.SimulatePriceChange(symbol)
	if err != nil {
		slog.Error("Price simulation failed", "symbol", symbol, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if stock == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Stock %s not found", symbol)})
		return
	}

	change, changePercent := market.Change(stock)
	c.JSON(http.StatusOK, gin.H{
		"symbol":         stock.Symbol,
		"new_price":      stock.CurrentPrice,
		"change":         change,
		"change_percent": changePercent,
	})
}

// SimulateAllPrices handles POST /stocks/simulate-all.
func (h *Handler) SimulateAllPrices(c *gin.Context) {
	stocks, err := h.Market.SimulateAllPrices()
	if err != nil {
		slog.Error("Bulk price simulation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Simulated price changes for %d stocks", len(stocks)),
	})
}
