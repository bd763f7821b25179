// Package httpapi wires every REST endpoint onto a gin engine.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finchley/papertrade/internal/alerts"
	"github.com/finchley/papertrade/internal/auth"
	"github.com/finchley/papertrade/internal/chaos"
	"github.com/finchley/papertrade/internal/chat"
	"github.com/finchley/papertrade/internal/market"
	"github.com/finchley/papertrade/internal/observability"
	"github.com/finchley/papertrade/internal/portfolio"
	"github.com/finchley/papertrade/internal/session"
	"github.com/finchley/papertrade/internal/stream"
	"github.com/finchley/papertrade/internal/trading"
	"github.com/finchley/papertrade/internal/watchlist"
)

const apiVersion = "1.0.0"

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	Auth      *auth.Service
	Market    *market.Service
	Trading   *trading.Service
	Portfolio *portfolio.Service
	Watchlist *watchlist.Service
	Alerts    *alerts.Service
	Chaos     *chaos.Runtime
	Scenario  *chaos.ScenarioManager
	Sessions  *session.Store
	Chat      *chat.Client
	Hub       *stream.Hub

	// AdminKey, when set, guards /admin and /sessions endpoints.
	AdminKey       string
	MetricsEnabled bool
}

// Router builds the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), CORS())

	router.GET("/", h.Root)
	router.GET("/health", h.HealthCheck)
	if h.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(observability.Handler()))
	}

	authed := auth.Middleware(h.Auth)

	ar := router.Group("/auth")
	{
		ar.POST("/register", h.Register)
		ar.POST("/login", h.Login)
		ar.GET("/me", authed, h.Me)
		ar.POST("/deposit", authed, h.Deposit)
		ar.POST("/withdraw", authed, h.Withdraw)
	}

	sr := router.Group("/stocks")
	{
		sr.GET("", h.ListStocks)
		sr.GET("/search", h.SearchStocks)
		if h.Hub != nil {
			sr.GET("/stream", gin.WrapH(h.Hub))
		}
		sr.POST("/simulate-all", authed, h.SimulateAllPrices)
		sr.GET("/:symbol", h.GetStock)
		sr.GET("/:symbol/quote", h.GetQuote)
		sr.POST("/:symbol/simulate", authed, h.SimulatePriceChange)
	}

	or := router.Group("/orders", authed)
	{
		or.POST("", h.PlaceOrder)
		or.GET("", h.ListOrders)
		or.GET("/:id", h.GetOrder)
		or.DELETE("/:id", h.CancelOrder)
	}

	pr := router.Group("/portfolio", authed)
	{
		pr.GET("", h.GetPortfolio)
		pr.GET("/holdings", h.ListHoldings)
		pr.GET("/holdings/:symbol", h.GetHolding)
		pr.GET("/balance", h.GetBalance)
	}

	wr := router.Group("/watchlist", authed)
	{
		wr.GET("", h.GetWatchlist)
		wr.POST("", h.AddToWatchlist)
		wr.DELETE("/:symbol", h.RemoveFromWatchlist)
	}

	alr := router.Group("/alerts", authed)
	{
		alr.POST("", h.CreateAlert)
		alr.GET("", h.ListAlerts)
		alr.POST("/check", h.CheckAlerts)
		alr.GET("/:id", h.GetAlert)
		alr.DELETE("/:id", h.DeleteAlert)
	}

	adm := router.Group("/admin", h.requireAdminKey)
	{
		adm.GET("/chaos/status", h.ChaosStatus)
		adm.POST("/chaos/activate", h.ActivateChaos)
		adm.POST("/chaos/reset", h.ResetChaos)
		adm.GET("/scenario", h.ScenarioInfo)
		adm.GET("/scenarios", h.ListScenarios)
	}

	ser := router.Group("/sessions")
	{
		ser.POST("", h.requireAdminKey, h.CreateSession)
		ser.GET("/:token", h.GetSession)
		ser.DELETE("/:token", h.requireAdminKey, h.RevokeSession)
	}

	router.POST("/chat", h.RelayChat)

	return router
}

// Root handles GET /.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the papertrade API",
		"version": apiVersion,
		"endpoints": gin.H{
			"auth":      "/auth",
			"stocks":    "/stocks",
			"orders":    "/orders",
			"portfolio": "/portfolio",
			"watchlist": "/watchlist",
			"alerts":    "/alerts",
		},
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// requireAdminKey rejects requests without the configured X-Admin-Key.
// With no key configured the endpoints are open, matching local-dev use.
func (h *Handler) requireAdminKey(c *gin.Context) {
	if h.AdminKey != "" && c.GetHeader("X-Admin-Key") != h.AdminKey {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin key required"})
		return
	}
	c.Next()
}

// CORS allows any origin; the embedded interview frontend is served from a
// different port.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Admin-Key")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
