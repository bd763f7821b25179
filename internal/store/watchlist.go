package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ListWatchlist returns a user's watchlist, most recently added first.
func (s *Store) ListWatchlist(userID uint) ([]WatchlistItem, error) {
	var items []WatchlistItem
	err := s.db.Where("user_id = ?", userID).Order("added_at DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list watchlist: %w", err)
	}
	return items, nil
}

// GetWatchlistItem returns nil when the symbol is not on the user's watchlist.
func (s *Store) GetWatchlistItem(userID uint, symbol string) (*WatchlistItem, error) {
	var item WatchlistItem
	err := s.db.
		Where("user_id = ? AND symbol = ?", userID, strings.ToUpper(symbol)).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get watchlist item %s: %w", symbol, err)
	}
	return &item, nil
}

func (s *Store) CreateWatchlistItem(item *WatchlistItem) error {
	if err := s.db.Create(item).Error; err != nil {
		return fmt.Errorf("create watchlist item: %w", err)
	}
	return nil
}

func (s *Store) DeleteWatchlistItem(item *WatchlistItem) error {
	if err := s.db.Delete(item).Error; err != nil {
		return fmt.Errorf("delete watchlist item: %w", err)
	}
	return nil
}
