package store

import "time"

// Order lifecycle values.
const (
	OrderStatusPending   = "pending"
	OrderStatusFilled    = "filled"
	OrderStatusCancelled = "cancelled"
	OrderStatusRejected  = "rejected"

	OrderTypeMarket = "market"
	OrderTypeLimit  = "limit"

	SideBuy  = "buy"
	SideSell = "sell"
)

// Alert conditions.
const (
	ConditionAbove = "above"
	ConditionBelow = "below"
)

type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null"`
	HashedPassword string    `json:"-" gorm:"not null"`
	FullName       string    `json:"full_name"`
	Balance        float64   `json:"balance" gorm:"not null"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Stock struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Symbol        string    `json:"symbol" gorm:"uniqueIndex;not null"`
	Name          string    `json:"name" gorm:"not null"`
	CurrentPrice  float64   `json:"current_price" gorm:"not null"`
	PreviousClose float64   `json:"previous_close"`
	DayHigh       float64   `json:"day_high"`
	DayLow        float64   `json:"day_low"`
	Volume        int64     `json:"volume" gorm:"default:0"`
	MarketCap     float64   `json:"market_cap"`
	Sector        string    `json:"sector"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Order struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"user_id" gorm:"index;not null"`
	Symbol         string    `json:"symbol" gorm:"index;not null"`
	OrderType      string    `json:"order_type" gorm:"not null"` // market, limit
	Side           string    `json:"side" gorm:"not null"`       // buy, sell
	Quantity       float64   `json:"quantity" gorm:"not null"`
	LimitPrice     *float64  `json:"limit_price"`
	FilledQuantity float64   `json:"filled_quantity" gorm:"default:0"`
	FilledPrice    *float64  `json:"filled_price"`
	Status         string    `json:"status" gorm:"default:pending"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Holding is a position in one symbol. Quantity is a float to support
// fractional shares.
type Holding struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"index;not null"`
	Symbol          string    `json:"symbol" gorm:"index;not null"`
	Quantity        float64   `json:"quantity" gorm:"not null"`
	AverageBuyPrice float64   `json:"average_buy_price" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type WatchlistItem struct {
	ID      uint      `json:"id" gorm:"primaryKey"`
	UserID  uint      `json:"user_id" gorm:"index;not null"`
	Symbol  string    `json:"symbol" gorm:"index;not null"`
	AddedAt time.Time `json:"added_at" gorm:"autoCreateTime"`
}

// PriceAlert fires once when the stock's price crosses TargetPrice in the
// direction given by Condition. A triggered alert never triggers again.
type PriceAlert struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	UserID      uint       `json:"user_id" gorm:"index;not null"`
	Symbol      string     `json:"symbol" gorm:"index;not null"`
	TargetPrice float64    `json:"target_price" gorm:"not null"`
	Condition   string     `json:"condition" gorm:"not null"` // above, below
	IsTriggered bool       `json:"is_triggered" gorm:"default:false"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at"`
	TriggeredAt *time.Time `json:"triggered_at"`
}
