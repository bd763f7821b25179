// Package watchlist manages the symbols a user is tracking.
package watchlist

import (
	"errors"
	"fmt"
	"strings"

	"github.com/finchley/papertrade/internal/store"
)

var (
	ErrStockNotFound = errors.New("stock not found")
	ErrDuplicate     = errors.New("symbol already on watchlist")
	ErrNotOnList     = errors.New("symbol not on watchlist")
)

type Service struct {
	store *store.Store
}

func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// List returns the user's watchlist entries.
func (w *Service) List(user *store.User) ([]store.WatchlistItem, error) {
	return w.store.ListWatchlist(user.ID)
}

// Add puts a symbol on the user's watchlist. The symbol must exist in the
// catalog and must not already be on the list.
func (w *Service) Add(user *store.User, symbol string) (*store.WatchlistItem, error) {
	symbol = strings.ToUpper(symbol)

	stock, err := w.store.GetStock(symbol)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, fmt.Errorf("%w: %s", ErrStockNotFound, symbol)
	}

	existing, err := w.store.GetWatchlistItem(user.ID, symbol)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, symbol)
	}

	item := &store.WatchlistItem{UserID: user.ID, Symbol: symbol}
	if err := w.store.CreateWatchlistItem(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Remove takes a symbol off the user's watchlist.
func (w *Service) Remove(user *store.User, symbol string) error {
	item, err := w.store.GetWatchlistItem(user.ID, symbol)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("%w: %s", ErrNotOnList, strings.ToUpper(symbol))
	}
	return w.store.DeleteWatchlistItem(item)
}

// Stock resolves the current catalog entry for a watchlist symbol, nil when
// the symbol has left the catalog.
func (w *Service) Stock(symbol string) (*store.Stock, error) {
	return w.store.GetStock(symbol)
}
