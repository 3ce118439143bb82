package repository

import (
	"context"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	SetNotifications(ctx context.Context, id string, enabled bool) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("user_id = ?", id).First(&user).Error
	if err != nil {
		return nil, translate(err, "failed to find user by id %s", id)
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, translate(err, "failed to find user by email %s", email)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(user).Error; err != nil {
		return translate(err, "failed to create user %s", user.ID)
	}
	return nil
}

func (r *userRepository) SetNotifications(ctx context.Context, id string, enabled bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", id).
		Update("notification_enabled", enabled)
	if result.Error != nil {
		return translate(result.Error, "failed to set notifications for user %s", id)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "failed to set notifications for user %s", id)
	}
	return nil
}
