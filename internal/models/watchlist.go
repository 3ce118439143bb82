package models

import "time"

// WatchlistEntry associates a user with a ticker. (UserID, TickerID) is unique.
type WatchlistEntry struct {
	ID                  uint      `json:"watchlistId" gorm:"column:watchlist_id;primaryKey;autoIncrement"`
	UserID              string    `json:"userId" gorm:"size:191;not null;index:user_watchlist_user_idx;uniqueIndex:user_watchlist_user_ticker_uq,priority:1"`
	TickerID            uint      `json:"tickerId" gorm:"not null;index:user_watchlist_ticker_idx;uniqueIndex:user_watchlist_user_ticker_uq,priority:2"`
	NotificationEnabled bool      `json:"notificationEnabled" gorm:"not null"`
	CreatedAt           time.Time `json:"createdAt"`
}

// TableName returns the database table name for the WatchlistEntry model.
func (WatchlistEntry) TableName() string {
	return "user_watchlist"
}
