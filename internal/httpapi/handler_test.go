package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finchley/papertrade/internal/alerts"
	"github.com/finchley/papertrade/internal/auth"
	"github.com/finchley/papertrade/internal/chaos"
	"github.com/finchley/papertrade/internal/chat"
	"github.com/finchley/papertrade/internal/market"
	"github.com/finchley/papertrade/internal/portfolio"
	"github.com/finchley/papertrade/internal/session"
	"github.com/finchley/papertrade/internal/store/storetest"
	"github.com/finchley/papertrade/internal/stream"
	"github.com/finchley/papertrade/internal/trading"
	"github.com/finchley/papertrade/internal/watchlist"
)

const testAdminKey = "test-admin-key"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := storetest.New(t)

	marketSvc := market.NewService(db)
	require.NoError(t, marketSvc.Seed([]market.StockFixture{
		{Symbol: "AAPL", Name: "Apple Inc.", Price: 178.50, Sector: "Technology"},
		{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 141.25, Sector: "Technology"},
		{Symbol: "TSLA", Name: "Tesla Inc.", Price: 248.50, Sector: "Automotive"},
		{Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 178.75, Sector: "Consumer Cyclical"},
		{Symbol: "NVDA", Name: "NVIDIA Corporation", Price: 875.30, Sector: "Technology"},
	}))

	sessions := session.NewStore(context.Background(), "", "", 0, time.Hour)
	t.Cleanup(func() { sessions.Close() })

	chaosRuntime := chaos.NewRuntime(db)
	alertSvc := alerts.NewService(db)
	alertSvc.SetDelayGate(chaosRuntime)

	h := &Handler{
		Auth:      auth.NewService(db, "test-secret", time.Hour, 10000),
		Market:    marketSvc,
		Trading:   trading.NewService(db),
		Portfolio: portfolio.NewService(db),
		Watchlist: watchlist.NewService(db),
		Alerts:    alertSvc,
		Chaos:     chaosRuntime,
		Scenario:  chaos.NewScenarioManager(t.TempDir(), t.TempDir(), "default"),
		Sessions:  sessions,
		Chat:      chat.NewClient("", "", "test-model"),
		Hub:       stream.NewHub(),
		AdminKey:  testAdminKey,
	}
	return h.Router()
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func registerAndLogin(t *testing.T, router *gin.Engine, username string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"email":    username + "@example.com",
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"username": username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func TestHealthAndRoot(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterLoginMe(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "trader")

	rec := doJSON(t, router, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me UserResponse
	decode(t, rec, &me)
	assert.Equal(t, "trader", me.Username)
	assert.Equal(t, 10000.0, me.Balance)
	assert.NotContains(t, rec.Body.String(), "hashed_password")
}

func TestRegisterDuplicate(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router, "trader")

	rec := doJSON(t, router, http.MethodPost, "/auth/register", "", gin.H{
		"email":    "trader@example.com",
		"username": "trader2",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router, "trader")

	rec := doJSON(t, router, http.MethodPost, "/auth/login", "", gin.H{
		"username": "trader",
		"password": "nope12345",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/auth/me", "/orders", "/portfolio", "/watchlist", "/alerts"} {
		rec := doJSON(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}

	rec := doJSON(t, router, http.MethodGet, "/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStockEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/stocks", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stocks []StockResponse
	decode(t, rec, &stocks)
	assert.Len(t, stocks, 5)

	rec = doJSON(t, router, http.MethodGet, "/stocks/aapl", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stock StockResponse
	decode(t, rec, &stock)
	assert.Equal(t, "AAPL", stock.Symbol)
	assert.Equal(t, 178.50, stock.CurrentPrice)

	rec = doJSON(t, router, http.MethodGet, "/stocks/ZZZZ", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/stocks/AAPL/quote", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/stocks/search?q=apple", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/stocks/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulateRequiresAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/stocks/AAPL/simulate", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := registerAndLogin(t, router, "trader")
	rec = doJSON(t, router, http.MethodPost, "/stocks/AAPL/simulate", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/stocks/simulate-all", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Simulated price changes for 5 stocks")
}

func TestOrderLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "trader")

	rec := doJSON(t, router, http.MethodPost, "/orders", token, gin.H{
		"symbol": "AAPL", "order_type": "market", "side": "buy", "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	decode(t, rec, &order)
	assert.Equal(t, "filled", order.Status)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/orders?status=filled", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []json.RawMessage
	decode(t, rec, &list)
	assert.Len(t, list, 1)

	// The buy debited the balance.
	rec = doJSON(t, router, http.MethodGet, "/portfolio/balance", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var balance struct {
		Balance  float64 `json:"balance"`
		Currency string  `json:"currency"`
	}
	decode(t, rec, &balance)
	assert.Equal(t, 10000.0-1785.0, balance.Balance)
	assert.Equal(t, "USD", balance.Currency)
}

func TestOrderRejections(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "trader")

	rec := doJSON(t, router, http.MethodPost, "/orders", token, gin.H{
		"symbol": "ZZZZ", "order_type": "market", "side": "buy", "quantity": 1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/orders", token, gin.H{
		"symbol": "AAPL", "order_type": "limit", "side": "buy", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/orders", token, gin.H{
		"symbol": "AAPL", "order_type": "market", "side": "sell", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/orders", token, gin.H{
		"symbol": "AAPL", "order_type": "teleport", "side": "buy", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelPendingOrder(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "trader")

	rec := doJSON(t, router, http.MethodPost, "/orders", token, gin.H{
		"symbol": "AAPL", "order_type": "limit", "side": "buy", "quantity": 1, "limit_price": 100.0,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var order struct {
		ID     uint   `json:"id"`
		Status string `json:"status"`
	}
	decode(t, rec, &order)
	require.Equal(t, "pending", order.Status)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/orders/%d", order.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &order)
	assert.Equal(t, "cancelled", order.Status)

	rec = doJSON(t, router, http.MethodDelete, "/orders/99999", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolioAfterTrade(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "trader")

	rec := doJSON(t, router, http.MethodPost, "/orders", token, gin.H{
		"symbol": "AAPL", "order_type": "market", "side": "buy", "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/portfolio", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary portfolio.Summary
	decode(t, rec, &summary)
	assert.Equal(t, 1785.0, summary.TotalHoldingsValue)
	assert.Equal(t, 10000.0, summary.TotalPortfolioValue)
	require.Len(t, summary.Holdings, 1)
	assert.Equal(t, "AAPL", summary.Holdings[0].Symbol)

	rec = doJSON(t, router, http.MethodGet, "/portfolio/holdings/AAPL", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/portfolio/holdings/GOOGL", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWatchlistFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "trader")

	rec := doJSON(t, router, http.MethodPost, "/watchlist", token, gin.H{"symbol": "AAPL"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/watchlist", token, gin.H{"symbol": "AAPL"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/watchlist", token, gin.H{"symbol": "ZZZZ"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/watchlist", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []WatchlistResponse
	decode(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "AAPL", items[0].Symbol)
	require.NotNil(t, items[0].CurrentPrice)
	assert.Equal(t, 178.50, *items[0].CurrentPrice)

	rec = doJSON(t, router, http.MethodDelete, "/watchlist/AAPL", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/watchlist/AAPL", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAlertFlow(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "trader")

	rec := doJSON(t, router, http.MethodPost, "/alerts", token, gin.H{
		"symbol": "AAPL", "target_price": 150.0, "condition": "above",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var alert AlertResponse
	decode(t, rec, &alert)
	assert.False(t, alert.IsTriggered)

	rec = doJSON(t, router, http.MethodPost, "/alerts", token, gin.H{
		"symbol": "AAPL", "target_price": 150.0, "condition": "between",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// 178.50 >= 150, so the first check fires it.
	rec = doJSON(t, router, http.MethodPost, "/alerts/check", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var checkResp struct {
		Triggered []AlertResponse `json:"triggered"`
	}
	decode(t, rec, &checkResp)
	require.Len(t, checkResp.Triggered, 1)
	assert.True(t, checkResp.Triggered[0].IsTriggered)

	// A second check must not fire it again.
	rec = doJSON(t, router, http.MethodPost, "/alerts/check", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &checkResp)
	assert.Empty(t, checkResp.Triggered)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/alerts/%d", alert.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &alert)
	assert.True(t, alert.IsTriggered)
	assert.NotNil(t, alert.TriggeredAt)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/alerts/%d", alert.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAlertsAreScopedToUser(t *testing.T) {
	router := newTestRouter(t)
	alice := registerAndLogin(t, router, "alice")
	bob := registerAndLogin(t, router, "bob")

	rec := doJSON(t, router, http.MethodPost, "/alerts", alice, gin.H{
		"symbol": "AAPL", "target_price": 150.0, "condition": "above",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var alert AlertResponse
	decode(t, rec, &alert)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/alerts/%d", alert.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/alerts/%d", alert.ID), bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminRequiresKey(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/chaos/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/chaos/status", nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChaosActivateAndReset(t *testing.T) {
	router := newTestRouter(t)

	do := func(method, path string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Admin-Key", testAdminKey)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodPost, "/admin/chaos/activate", gin.H{"scenario": "chaos_data"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The corruption is visible through the public API.
	stockRec := doJSON(t, router, http.MethodGet, "/stocks/GOOGL", "", nil)
	require.Equal(t, http.StatusOK, stockRec.Code)
	var stock StockResponse
	decode(t, stockRec, &stock)
	assert.Equal(t, -50.25, stock.CurrentPrice)

	rec = do(http.MethodPost, "/admin/chaos/activate", gin.H{"scenario": "chaos_everything"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodPost, "/admin/chaos/reset", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(http.MethodGet, "/admin/chaos/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		IsActive bool `json:"is_active"`
	}
	decode(t, rec, &status)
	assert.False(t, status.IsActive)
}

func TestSessionEndpoints(t *testing.T) {
	router := newTestRouter(t)

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(gin.H{"role": "candidate"}))
	req := httptest.NewRequest(http.MethodPost, "/sessions", &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sess session.Session
	decode(t, rec, &sess)
	require.NotEmpty(t, sess.Token)

	// Token lookup is open; candidates resolve their own role with it.
	rec = doJSON(t, router, http.MethodGet, "/sessions/"+sess.Token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/sessions/unknown-token", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/sessions/"+sess.Token, nil)
	req.Header.Set("X-Admin-Key", testAdminKey)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/sessions/"+sess.Token, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChatUnconfigured(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/chat", "", gin.H{
		"messages": []gin.H{{"role": "user", "content": "hello"}},
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDepositWithdrawEndpoints(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "trader")

	rec := doJSON(t, router, http.MethodPost, "/auth/deposit", token, gin.H{"amount": 500.0})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		NewBalance float64 `json:"new_balance"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 10500.0, resp.NewBalance)

	rec = doJSON(t, router, http.MethodPost, "/auth/withdraw", token, gin.H{"amount": 20000.0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/auth/deposit", token, gin.H{"amount": -5.0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
