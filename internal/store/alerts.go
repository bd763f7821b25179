package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

func (s *Store) CreateAlert(alert *PriceAlert) error {
	if err := s.db.Create(alert).Error; err != nil {
		return fmt.Errorf("create alert: %w", err)
	}
	return nil
}

// GetAlert returns a user's alert by id, or nil when not found.
func (s *Store) GetAlert(userID, alertID uint) (*PriceAlert, error) {
	var alert PriceAlert
	err := s.db.Where("id = ? AND user_id = ?", alertID, userID).First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert %d: %w", alertID, err)
	}
	return &alert, nil
}

// ListAlerts returns a user's alerts. With activeOnly set, only alerts that
// are active and have not yet triggered are returned.
func (s *Store) ListAlerts(userID uint, activeOnly bool) ([]PriceAlert, error) {
	query := s.db.Where("user_id = ?", userID)
	if activeOnly {
		query = query.Where("is_active = ? AND is_triggered = ?", true, false)
	}

	var alerts []PriceAlert
	if err := query.Order("created_at").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// ListActiveAlertsBySymbol returns every user's untriggered active alerts for
// one symbol. Used by the tick-driven alert worker.
func (s *Store) ListActiveAlertsBySymbol(symbol string) ([]PriceAlert, error) {
	var alerts []PriceAlert
	err := s.db.
		Where("symbol = ? AND is_active = ? AND is_triggered = ?", strings.ToUpper(symbol), true, false).
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("list alerts for %s: %w", symbol, err)
	}
	return alerts, nil
}

// MarkAlertTriggered flips the alert to triggered at the given time. The
// conditional update makes triggering idempotent: once an alert has fired it
// can never fire again, regardless of how many checkers race on it. Returns
// false when the alert was already triggered (or gone).
func (s *Store) MarkAlertTriggered(alertID uint, at time.Time) (bool, error) {
	res := s.db.Model(&PriceAlert{}).
		Where("id = ? AND is_triggered = ?", alertID, false).
		Updates(map[string]any{"is_triggered": true, "triggered_at": at})
	if res.Error != nil {
		return false, fmt.Errorf("mark alert %d triggered: %w", alertID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Store) DeleteAlert(alert *PriceAlert) error {
	if err := s.db.Delete(alert).Error; err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	return nil
}

// DeleteAlertsByUser removes all of a user's alerts and reports the count.
func (s *Store) DeleteAlertsByUser(userID uint) (int64, error) {
	res := s.db.Where("user_id = ?", userID).Delete(&PriceAlert{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete alerts for user %d: %w", userID, res.Error)
	}
	return res.RowsAffected, nil
}
