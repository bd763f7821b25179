package store

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

func (s *Store) CreateOrder(order *Order) error {
	if err := s.db.Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetOrder returns a user's order by id, or nil when not found.
func (s *Store) GetOrder(userID, orderID uint) (*Order, error) {
	var order Order
	err := s.db.Where("id = ? AND user_id = ?", orderID, userID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order %d: %w", orderID, err)
	}
	return &order, nil
}

// ListOrders returns a user's orders, newest first, optionally filtered by status.
func (s *Store) ListOrders(userID uint, status string) ([]Order, error) {
	query := s.db.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *Store) SaveOrder(order *Order) error {
	if err := s.db.Save(order).Error; err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}
