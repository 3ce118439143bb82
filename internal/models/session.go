package models

import "time"

// Session binds an opaque token to a user until ExpiresAt. Rows are never
// updated; a refreshed session is a new row.
type Session struct {
	ID        string    `json:"-" gorm:"column:session_id;primaryKey;size:128"`
	UserID    string    `json:"userId" gorm:"size:191;not null;index:sessions_user_idx"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index:sessions_expires_idx"`
	CreatedAt time.Time `json:"createdAt"`

	// User is loaded by the session repository, not by gorm associations.
	User User `json:"user" gorm:"-"`
}

// TableName returns the database table name for the Session model.
func (Session) TableName() string {
	return "sessions"
}

// All returns every model in dependency order, for migrations.
func All() []any {
	return []any{
		&User{},
		&Ticker{},
		&WatchlistEntry{},
		&NewsArticle{},
		&ArticleTickerSentiment{},
		&Session{},
	}
}
