// Package trading places and executes simulated orders against the current
// market prices, keeping cash balances and holdings consistent.
package trading

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/finchley/papertrade/internal/store"
)

var (
	ErrStockNotFound      = errors.New("stock not found")
	ErrLimitPriceRequired = errors.New("limit price is required for limit orders")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientShares = errors.New("insufficient shares")
	ErrOrderNotFound      = errors.New("order not found")
	ErrNotCancellable     = errors.New("only pending orders can be cancelled")
)

// OrderRequest describes a new order.
type OrderRequest struct {
	Symbol     string   `json:"symbol" binding:"required"`
	OrderType  string   `json:"order_type" binding:"required,oneof=market limit"`
	Side       string   `json:"side" binding:"required,oneof=buy sell"`
	Quantity   float64  `json:"quantity" binding:"required,gt=0"`
	LimitPrice *float64 `json:"limit_price" binding:"omitempty,gt=0"`
}

// Metrics is the subset of observability the service reports into.
type Metrics interface {
	OrderPlaced(side string)
	OrderFilled(side string)
	OrderRejected(side string)
}

type Service struct {
	store   *store.Store
	metrics Metrics
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

func (t *Service) SetMetrics(m Metrics) { t.metrics = m }

// PlaceOrder records the order and executes it when it is immediately
// fillable: market orders always, limit orders when the limit is met (filled
// at the current price, the better of the two). Unfillable limit orders stay
// pending. Rejected executions persist the order with status rejected and
// return the rejection error.
func (t *Service) PlaceOrder(user *store.User, req OrderRequest) (*store.Order, error) {
	symbol := strings.ToUpper(req.Symbol)

	stock, err := t.store.GetStock(symbol)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, fmt.Errorf("%w: %s", ErrStockNotFound, symbol)
	}
	currentPrice := stock.CurrentPrice

	if req.OrderType == store.OrderTypeLimit && req.LimitPrice == nil {
		return nil, ErrLimitPriceRequired
	}

	order := &store.Order{
		UserID:     user.ID,
		Symbol:     symbol,
		OrderType:  req.OrderType,
		Side:       req.Side,
		Quantity:   req.Quantity,
		LimitPrice: req.LimitPrice,
		Status:     store.OrderStatusPending,
	}
	if err := t.store.CreateOrder(order); err != nil {
		return nil, err
	}
	if t.metrics != nil {
		t.metrics.OrderPlaced(order.Side)
	}

	executable := req.OrderType == store.OrderTypeMarket
	if req.OrderType == store.OrderTypeLimit {
		switch req.Side {
		case store.SideBuy:
			executable = *req.LimitPrice >= currentPrice
		case store.SideSell:
			executable = *req.LimitPrice <= currentPrice
		}
	}
	if !executable {
		return order, nil
	}

	if err := t.execute(order, user, currentPrice); err != nil {
		return nil, err
	}
	return order, nil
}

// execute fills the order at price inside one transaction. On a rejection the
// order's status is saved as rejected outside the rolled-back transaction.
func (t *Service) execute(order *store.Order, user *store.User, price float64) error {
	err := t.store.Transaction(func(tx *store.Store) error {
		totalCost := price * order.Quantity

		switch order.Side {
		case store.SideBuy:
			if user.Balance < totalCost {
				return fmt.Errorf("%w: required $%.2f, available $%.2f",
					ErrInsufficientFunds, totalCost, user.Balance)
			}
			user.Balance -= totalCost
			if err := tx.SaveUser(user); err != nil {
				return err
			}
			if err := upsertHolding(tx, user.ID, order.Symbol, order.Quantity, price); err != nil {
				return err
			}

		case store.SideSell:
			holding, err := tx.GetHolding(user.ID, order.Symbol)
			if err != nil {
				return err
			}
			available := 0.0
			if holding != nil {
				available = holding.Quantity
			}
			if available < order.Quantity {
				return fmt.Errorf("%w: required %g, available %g",
					ErrInsufficientShares, order.Quantity, available)
			}

			user.Balance += totalCost
			if err := tx.SaveUser(user); err != nil {
				return err
			}
			holding.Quantity -= order.Quantity
			if holding.Quantity == 0 {
				if err := tx.DeleteHolding(holding); err != nil {
					return err
				}
			} else if err := tx.SaveHolding(holding); err != nil {
				return err
			}
		}

		order.FilledQuantity = order.Quantity
		order.FilledPrice = &price
		order.Status = store.OrderStatusFilled
		order.UpdatedAt = time.Now().UTC()
		return tx.SaveOrder(order)
	})

	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrInsufficientShares) {
			order.Status = store.OrderStatusRejected
			if saveErr := t.store.SaveOrder(order); saveErr != nil {
				return saveErr
			}
			if t.metrics != nil {
				t.metrics.OrderRejected(order.Side)
			}
		}
		return err
	}

	if t.metrics != nil {
		t.metrics.OrderFilled(order.Side)
	}
	return nil
}

// upsertHolding folds a buy into the position, recomputing the average cost.
func upsertHolding(tx *store.Store, userID uint, symbol string, quantity, price float64) error {
	holding, err := tx.GetHolding(userID, symbol)
	if err != nil {
		return err
	}
	if holding == nil {
		return tx.CreateHolding(&store.Holding{
			UserID:          userID,
			Symbol:          symbol,
			Quantity:        quantity,
			AverageBuyPrice: price,
		})
	}

	totalShares := holding.Quantity + quantity
	totalValue := holding.Quantity*holding.AverageBuyPrice + quantity*price
	holding.AverageBuyPrice = totalValue / totalShares
	holding.Quantity = totalShares
	return tx.SaveHolding(holding)
}

// GetOrders lists the user's orders, optionally filtered by status.
func (t *Service) GetOrders(user *store.User, status string) ([]store.Order, error) {
	return t.store.ListOrders(user.ID, status)
}

// GetOrder returns one of the user's orders.
func (t *Service) GetOrder(user *store.User, orderID uint) (*store.Order, error) {
	order, err := t.store.GetOrder(user.ID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// CancelOrder cancels one of the user's pending orders.
func (t *Service) CancelOrder(user *store.User, orderID uint) (*store.Order, error) {
	order, err := t.GetOrder(user, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != store.OrderStatusPending {
		return nil, fmt.Errorf("%w: status is %s", ErrNotCancellable, order.Status)
	}

	order.Status = store.OrderStatusCancelled
	order.UpdatedAt = time.Now().UTC()
	if err := t.store.SaveOrder(order); err != nil {
		return nil, err
	}
	return order, nil
}
