// Package alerts implements price alerts: user-defined rules that fire once
// when a stock's price crosses a threshold in a given direction.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/finchley/papertrade/internal/store"
)

var (
	ErrStockNotFound    = errors.New("stock not found")
	ErrAlertNotFound    = errors.New("alert not found")
	ErrInvalidCondition = errors.New(`condition must be "above" or "below"`)
	ErrInvalidTarget    = errors.New("target_price must be greater than 0")
)

// DelayGate injects an artificial pause into the check path. The chaos
// runtime implements it to widen the window between evaluating an alert and
// marking it triggered; the zero delay is a no-op.
type DelayGate interface {
	Delay() time.Duration
}

// Metrics is the subset of observability the service reports into.
type Metrics interface {
	AlertCreated()
	AlertTriggered()
}

type Service struct {
	store   *store.Store
	gate    DelayGate
	metrics Metrics
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

func (a *Service) SetDelayGate(g DelayGate) { a.gate = g }
func (a *Service) SetMetrics(m Metrics)     { a.metrics = m }

// CreateRequest describes a new alert.
type CreateRequest struct {
	Symbol      string  `json:"symbol" binding:"required"`
	TargetPrice float64 `json:"target_price" binding:"required"`
	Condition   string  `json:"condition" binding:"required"`
}

// Create validates and stores a new alert for the user.
func (a *Service) Create(user *store.User, req CreateRequest) (*store.PriceAlert, error) {
	condition := strings.ToLower(req.Condition)
	if condition != store.ConditionAbove && condition != store.ConditionBelow {
		return nil, ErrInvalidCondition
	}
	if req.TargetPrice <= 0 {
		return nil, ErrInvalidTarget
	}

	symbol := strings.ToUpper(req.Symbol)
	stock, err := a.store.GetStock(symbol)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, fmt.Errorf("%w: %s", ErrStockNotFound, symbol)
	}

	alert := &store.PriceAlert{
		UserID:      user.ID,
		Symbol:      symbol,
		TargetPrice: req.TargetPrice,
		Condition:   condition,
		IsActive:    true,
	}
	if err := a.store.CreateAlert(alert); err != nil {
		return nil, err
	}
	if a.metrics != nil {
		a.metrics.AlertCreated()
	}
	return alert, nil
}

// List returns the user's alerts; activeOnly restricts to untriggered active ones.
func (a *Service) List(user *store.User, activeOnly bool) ([]store.PriceAlert, error) {
	return a.store.ListAlerts(user.ID, activeOnly)
}

// Get returns one of the user's alerts.
func (a *Service) Get(user *store.User, alertID uint) (*store.PriceAlert, error) {
	alert, err := a.store.GetAlert(user.ID, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, ErrAlertNotFound
	}
	return alert, nil
}

// Delete removes one of the user's alerts.
func (a *Service) Delete(user *store.User, alertID uint) error {
	alert, err := a.Get(user, alertID)
	if err != nil {
		return err
	}
	return a.store.DeleteAlert(alert)
}

// CheckAndTrigger evaluates the user's active untriggered alerts against
// current prices and flips those whose condition is met. Prices are fetched
// once per distinct symbol. The conditional triggered update in the store
// guarantees an alert fires at most once even when checks race; the returned
// slice holds only alerts this call actually flipped.
func (a *Service) CheckAndTrigger(ctx context.Context, user *store.User) ([]store.PriceAlert, error) {
	alerts, err := a.store.ListAlerts(user.ID, true)
	if err != nil {
		return nil, err
	}

	prices := make(map[string]float64)
	for _, alert := range alerts {
		if _, ok := prices[alert.Symbol]; ok {
			continue
		}
		stock, err := a.store.GetStock(alert.Symbol)
		if err != nil {
			return nil, err
		}
		if stock != nil {
			prices[alert.Symbol] = stock.CurrentPrice
		}
	}

	var triggered []store.PriceAlert
	for i := range alerts {
		alert := &alerts[i]
		price, ok := prices[alert.Symbol]
		if !ok {
			continue
		}
		if !ShouldTrigger(alert.Condition, alert.TargetPrice, price) {
			continue
		}

		if a.gate != nil {
			if d := a.gate.Delay(); d > 0 {
				select {
				case <-time.After(d):
				case <-ctx.Done():
					return triggered, ctx.Err()
				}
			}
		}

		now := time.Now().UTC()
		flipped, err := a.store.MarkAlertTriggered(alert.ID, now)
		if err != nil {
			return nil, err
		}
		if !flipped {
			// Lost the race to another checker; that checker reports it.
			continue
		}

		alert.IsTriggered = true
		alert.TriggeredAt = &now
		triggered = append(triggered, *alert)
		if a.metrics != nil {
			a.metrics.AlertTriggered()
		}
		slog.Info("Alert triggered",
			"alert_id", alert.ID, "user_id", alert.UserID,
			"symbol", alert.Symbol, "price", price,
			"condition", alert.Condition, "target", alert.TargetPrice)
	}

	return triggered, nil
}

// ShouldTrigger reports whether an alert with the given condition and target
// fires at the current price. Crossing is inclusive of the target itself.
func ShouldTrigger(condition string, targetPrice, currentPrice float64) bool {
	switch condition {
	case store.ConditionAbove:
		return currentPrice >= targetPrice
	case store.ConditionBelow:
		return currentPrice <= targetPrice
	default:
		return false
	}
}
