package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

func (s *Store) CreateStock(stock *Stock) error {
	if err := s.db.Create(stock).Error; err != nil {
		return fmt.Errorf("create stock: %w", err)
	}
	return nil
}

// GetStock looks a stock up by symbol, case-insensitively.
// Returns nil when the symbol is unknown.
func (s *Store) GetStock(symbol string) (*Stock, error) {
	var stock Stock
	if err := s.db.Where("symbol = ?", strings.ToUpper(symbol)).First(&stock).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock %s: %w", symbol, err)
	}
	return &stock, nil
}

func (s *Store) ListStocks() ([]Stock, error) {
	var stocks []Stock
	if err := s.db.Order("symbol").Find(&stocks).Error; err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}
	return stocks, nil
}

// SearchStocks matches the query against symbols and names.
func (s *Store) SearchStocks(query string) ([]Stock, error) {
	var stocks []Stock
	upper := "%" + strings.ToUpper(query) + "%"
	lower := "%" + strings.ToLower(query) + "%"
	err := s.db.
		Where("symbol LIKE ? OR LOWER(name) LIKE ?", upper, lower).
		Order("symbol").
		Find(&stocks).Error
	if err != nil {
		return nil, fmt.Errorf("search stocks: %w", err)
	}
	return stocks, nil
}

func (s *Store) SaveStock(stock *Stock) error {
	if err := s.db.Save(stock).Error; err != nil {
		return fmt.Errorf("save stock: %w", err)
	}
	return nil
}
