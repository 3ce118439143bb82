package repository

import (
	"context"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository defines the interface for session data operations.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	// FindWithUser returns the session joined with its owning user.
	FindWithUser(ctx context.Context, id string) (*models.Session, error)
	// Delete is idempotent.
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes sessions expiring at or before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new SessionRepository instance.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(session).Error; err != nil {
		return translate(err, "failed to create session for user %s", session.UserID)
	}
	return nil
}

func (r *sessionRepository) FindWithUser(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).First(&session).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ?", session.UserID).First(&session.User).Error
	})
	if err != nil {
		return nil, translate(err, "failed to find session")
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("session_id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return translate(err, "failed to delete session")
	}
	return nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	if result.Error != nil {
		return 0, translate(result.Error, "failed to delete expired sessions")
	}
	return result.RowsAffected, nil
}
