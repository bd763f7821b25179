package httpapi

import (
	"time"

	"github.com/finchley/papertrade/internal/market"
	"github.com/finchley/papertrade/internal/store"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u *store.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FullName:  u.FullName,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
	}
}

// StockResponse decorates a stock with its move from previous close.
type StockResponse struct {
	ID            uint      `json:"id"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	CurrentPrice  float64   `json:"current_price"`
	PreviousClose float64   `json:"previous_close"`
	DayHigh       float64   `json:"day_high"`
	DayLow        float64   `json:"day_low"`
	Volume        int64     `json:"volume"`
	MarketCap     float64   `json:"market_cap"`
	Sector        string    `json:"sector"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func newStockResponse(s *store.Stock) StockResponse {
	change, changePercent := market.Change(s)
	return StockResponse{
		ID:            s.ID,
		Symbol:        s.Symbol,
		Name:          s.Name,
		CurrentPrice:  s.CurrentPrice,
		PreviousClose: s.PreviousClose,
		DayHigh:       s.DayHigh,
		DayLow:        s.DayLow,
		Volume:        s.Volume,
		MarketCap:     s.MarketCap,
		Sector:        s.Sector,
		Change:        change,
		ChangePercent: changePercent,
		UpdatedAt:     s.UpdatedAt,
	}
}

// WatchlistResponse decorates a watchlist entry with the current quote.
// CurrentPrice is nil when the symbol has left the catalog.
type WatchlistResponse struct {
	ID            uint      `json:"id"`
	Symbol        string    `json:"symbol"`
	AddedAt       time.Time `json:"added_at"`
	CurrentPrice  *float64  `json:"current_price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
}

func newWatchlistResponse(item *store.WatchlistItem, stock *store.Stock) WatchlistResponse {
	resp := WatchlistResponse{
		ID:      item.ID,
		Symbol:  item.Symbol,
		AddedAt: item.AddedAt,
	}
	if stock != nil {
		price := stock.CurrentPrice
		resp.CurrentPrice = &price
		resp.Change, resp.ChangePercent = market.Change(stock)
	}
	return resp
}

// AlertResponse decorates an alert with the stock's current price.
type AlertResponse struct {
	ID           uint       `json:"id"`
	Symbol       string     `json:"symbol"`
	TargetPrice  float64    `json:"target_price"`
	Condition    string     `json:"condition"`
	IsTriggered  bool       `json:"is_triggered"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	TriggeredAt  *time.Time `json:"triggered_at"`
	CurrentPrice *float64   `json:"current_price"`
}

func newAlertResponse(alert *store.PriceAlert, stock *store.Stock) AlertResponse {
	resp := AlertResponse{
		ID:          alert.ID,
		Symbol:      alert.Symbol,
		TargetPrice: alert.TargetPrice,
		Condition:   alert.Condition,
		IsTriggered: alert.IsTriggered,
		IsActive:    alert.IsActive,
		CreatedAt:   alert.CreatedAt,
		TriggeredAt: alert.TriggeredAt,
	}
	if stock != nil {
		price := stock.CurrentPrice
		resp.CurrentPrice = &price
	}
	return resp
}
