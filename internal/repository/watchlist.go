package repository

import (
	"context"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchlistRepository defines the interface for watchlist data operations.
type WatchlistRepository interface {
	// Add inserts a new entry; an existing (user, ticker) pair yields ErrDuplicate.
	Add(ctx context.Context, entry *models.WatchlistEntry) error
	// SetNotification inserts the entry or updates its flag in place, in one
	// transaction, and returns the stored row.
	SetNotification(ctx context.Context, userID string, tickerID uint, enabled bool) (*models.WatchlistEntry, error)
	// Remove returns false when no entry matched.
	Remove(ctx context.Context, userID string, tickerID uint) (bool, error)
	ListTickers(ctx context.Context, userID string) ([]models.Ticker, error)
}

type watchlistRepository struct {
	db *gorm.DB
}

// NewWatchlistRepository creates a new WatchlistRepository instance.
func NewWatchlistRepository(db *gorm.DB) WatchlistRepository {
	return &watchlistRepository{db: db}
}

func (r *watchlistRepository) Add(ctx context.Context, entry *models.WatchlistEntry) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(entry).Error; err != nil {
		return translate(err, "failed to add ticker %d to watchlist of %s", entry.TickerID, entry.UserID)
	}
	return nil
}

func (r *watchlistRepository) SetNotification(ctx context.Context, userID string, tickerID uint, enabled bool) (*models.WatchlistEntry, error) {
	var stored models.WatchlistEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry := models.WatchlistEntry{
			UserID:              userID,
			TickerID:            tickerID,
			NotificationEnabled: enabled,
		}
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "ticker_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"notification_enabled"}),
		}).Create(&entry).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ? AND ticker_id = ?", userID, tickerID).First(&stored).Error
	})
	if err != nil {
		return nil, translate(err, "failed to set watchlist notification for %s on ticker %d", userID, tickerID)
	}
	return &stored, nil
}

func (r *watchlistRepository) Remove(ctx context.Context, userID string, tickerID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND ticker_id = ?", userID, tickerID).
		Delete(&models.WatchlistEntry{})
	if result.Error != nil {
		return false, translate(result.Error, "failed to remove ticker %d from watchlist of %s", tickerID, userID)
	}
	return result.RowsAffected > 0, nil
}

func (r *watchlistRepository) ListTickers(ctx context.Context, userID string) ([]models.Ticker, error) {
	tickers := []models.Ticker{}
	err := r.db.WithContext(ctx).
		Model(&models.Ticker{}).
		Joins("JOIN user_watchlist ON user_watchlist.ticker_id = tickers.ticker_id").
		Where("user_watchlist.user_id = ?", userID).
		Order("user_watchlist.created_at, tickers.ticker_id").
		Find(&tickers).Error
	if err != nil {
		return nil, translate(err, "failed to list watchlist of %s", userID)
	}
	return tickers, nil
}
