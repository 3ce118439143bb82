// Package models contains data models for the sentiment service.
package models

import "time"

// User represents an authenticated user. ID is the identity provider subject.
type User struct {
	ID                  string    `json:"userId" gorm:"column:user_id;primaryKey;size:191"`
	Email               string    `json:"email" gorm:"size:254;not null;uniqueIndex:users_email_uq"`
	Username            *string   `json:"username" gorm:"size:191;uniqueIndex:users_username_uq"`
	NotificationEnabled bool      `json:"notificationEnabled" gorm:"not null"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`

	Watchlist []WatchlistEntry `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Sessions  []Session        `json:"-" gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for the User model.
func (User) TableName() string {
	return "users"
}
