package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/identity"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/repository"
)

// RegisterInput is the payload of an explicit registration.
type RegisterInput struct {
	UserID   string  `json:"userId"`
	Email    string  `json:"email"`
	Username *string `json:"username,omitempty"`
}

// UserService manages user records.
type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	SetNotifications(ctx context.Context, userID string, enabled bool) error
	// EnsureUser returns the user for claims, creating it on first login.
	// Existing rows are returned untouched.
	EnsureUser(ctx context.Context, claims identity.Claims) (*models.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user, err := newUser(in.UserID, in.Email, in.Username)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, persistence(err, "find user by email")
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, classify(err, "register user", nil, ErrUserExists, nil)
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, classify(err, "get user", ErrUserNotFound, nil, nil)
	}
	return user, nil
}

func (s *userService) SetNotifications(ctx context.Context, userID string, enabled bool) error {
	if err := s.repo.SetNotifications(ctx, userID, enabled); err != nil {
		return classify(err, "set user notifications", ErrUserNotFound, nil, nil)
	}
	return nil
}

func (s *userService) EnsureUser(ctx context.Context, claims identity.Claims) (*models.User, error) {
	existing, err := s.repo.FindByID(ctx, claims.Subject)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, persistence(err, "find user")
	}

	var username *string
	if claims.Username != "" {
		username = &claims.Username
	}
	user, err := newUser(claims.Subject, claims.Email, username)
	if err != nil {
		return nil, err
	}

	err = s.repo.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicate) {
		// A concurrent first login may have won the insert.
		if existing, findErr := s.repo.FindByID(ctx, claims.Subject); findErr == nil {
			return existing, nil
		}
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, persistence(err, "create user")
	}
	return user, nil
}

func newUser(userID, email string, username *string) (*models.User, error) {
	userID = strings.TrimSpace(userID)
	email = strings.TrimSpace(email)
	if userID == "" {
		return nil, validationError("userId is required")
	}
	if len(userID) > 191 {
		return nil, validationError("userId must be at most 191 characters")
	}
	if email == "" {
		return nil, validationError("email is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, validationError("email %q is not a valid address", email)
	}

	user := &models.User{
		ID:                  userID,
		Email:               email,
		NotificationEnabled: true,
	}
	if username != nil {
		name := strings.TrimSpace(*username)
		if name == "" {
			return nil, validationError("username must not be blank")
		}
		user.Username = &name
	}
	return user, nil
}
