package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// GetHolding returns a user's position in symbol, or nil when none exists.
func (s *Store) GetHolding(userID uint, symbol string) (*Holding, error) {
	var holding Holding
	err := s.db.
		Where("user_id = ? AND symbol = ?", userID, strings.ToUpper(symbol)).
		First(&holding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get holding %s: %w", symbol, err)
	}
	return &holding, nil
}

func (s *Store) ListHoldings(userID uint) ([]Holding, error) {
	var holdings []Holding
	if err := s.db.Where("user_id = ?", userID).Order("symbol").Find(&holdings).Error; err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}
	return holdings, nil
}

func (s *Store) CreateHolding(holding *Holding) error {
	if err := s.db.Create(holding).Error; err != nil {
		return fmt.Errorf("create holding: %w", err)
	}
	return nil
}

func (s *Store) SaveHolding(holding *Holding) error {
	if err := s.db.Save(holding).Error; err != nil {
		return fmt.Errorf("save holding: %w", err)
	}
	return nil
}

func (s *Store) DeleteHolding(holding *Holding) error {
	if err := s.db.Delete(holding).Error; err != nil {
		return fmt.Errorf("delete holding: %w", err)
	}
	return nil
}
