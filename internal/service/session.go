package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/models"
	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/repository"
)

const sessionTokenBytes = 32

// SessionService issues, resolves and revokes opaque session tokens.
type SessionService interface {
	// Create binds a fresh token to userID until expiresAt.
	Create(ctx context.Context, userID string, expiresAt time.Time) (string, error)
	// Resolve returns the session and its user without checking expiry.
	Resolve(ctx context.Context, sessionID string) (*models.Session, error)
	Delete(ctx context.Context, sessionID string) error
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
	// Authenticate accepts sessionID only if it resolves and expires after now.
	Authenticate(ctx context.Context, sessionID string, now time.Time) (*models.Session, error)
}

type sessionService struct {
	repo repository.SessionRepository
}

// NewSessionService creates a new SessionService instance.
func NewSessionService(repo repository.SessionRepository) SessionService {
	return &sessionService{repo: repo}
}

func (s *sessionService) Create(ctx context.Context, userID string, expiresAt time.Time) (string, error) {
	token, err := randomToken(sessionTokenBytes)
	if err != nil {
		return "", err
	}

	session := &models.Session{
		ID:        token,
		UserID:    userID,
		ExpiresAt: expiresAt.UTC(),
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return "", persistence(err, "create session")
	}
	return token, nil
}

func (s *sessionService) Resolve(ctx context.Context, sessionID string) (*models.Session, error) {
	session, err := s.repo.FindWithUser(ctx, sessionID)
	if err != nil {
		return nil, classify(err, "resolve session", ErrSessionNotFound, nil, nil)
	}
	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return persistence(err, "delete session")
	}
	return nil
}

func (s *sessionService) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := s.repo.DeleteExpired(ctx, now.UTC())
	if err != nil {
		return 0, persistence(err, "prune sessions")
	}
	return n, nil
}

func (s *sessionService) Authenticate(ctx context.Context, sessionID string, now time.Time) (*models.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: no session credential", ErrUnauthorized)
	}

	session, err := s.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.After(now) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Join(errors.New("failed to generate random token"), err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
